package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/helpers"
	"github.com/yigit/eduportal/internal/pkg/validation"
)

// Seminar editor rules
const (
	MeetLinkHost              = "meet.google.com"
	DefaultSeminarDuration    = "60"
	DefaultSeminarMaxAttendee = 50
	msgInvalidMeetLink        = "Please provide a valid Google Meet link"
	msgCurriculumNotFound     = "Curriculum not found"
)

// TeacherProfile is the teacher's view of their /users profile
type TeacherProfile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Position       string `json:"position"`
	Department     string `json:"department"`
	Institution    string `json:"institution"`
	Phone          string `json:"phone"`
	Experience     string `json:"experience"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
}

var reviewSpec = listing.Spec[*models.Curriculum]{
	Keep: func(c *models.Curriculum) bool {
		return models.StatusIs(c.Status, models.StatusDraft) || models.StatusIs(c.Status, models.StatusPending)
	},
	SearchFields: curriculumSearchFields,
	SortKey:      func(c *models.Curriculum) string { return c.CreatedAt },
	Descending:   true,
}

// TeacherService backs the teacher portal
type TeacherService interface {
	Profile(ctx context.Context, identity *models.Identity) (*TeacherProfile, error)
	UpdateProfile(ctx context.Context, identity *models.Identity, req *dto.TeacherProfileRequest) (*TeacherProfile, error)
	CurriculaForReview(ctx context.Context, q listing.Query) (listing.Result[*models.Curriculum], error)
	Vote(ctx context.Context, identity *models.Identity, curriculumID, choice string) (*models.VoteTally, error)
	Seminars(ctx context.Context, identity *models.Identity, q listing.Query) (listing.Result[*models.Seminar], error)
	CreateSeminar(ctx context.Context, identity *models.Identity, seminar *models.Seminar) (*models.Seminar, error)
	Events(ctx context.Context, q listing.Query) (listing.Result[*models.CalendarEvent], error)
}

type teacherServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
	now    Clock
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(repos *repositories.Repositories, logger zerolog.Logger) TeacherService {
	return &teacherServiceImpl{repos: repos, logger: logger, now: time.Now}
}

// Profile reads the profile, falling back to the session identity when no
// profile record exists.
func (s *teacherServiceImpl) Profile(ctx context.Context, identity *models.Identity) (*TeacherProfile, error) {
	profile, err := s.repos.Users.GetByUID(ctx, identity.UID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return &TeacherProfile{Name: identity.DisplayName, Email: identity.Email}, nil
		}
		return nil, storeErr("fetch profile", err)
	}
	return &TeacherProfile{
		Name:           profile.FullName,
		Email:          profile.Email,
		Position:       profile.Designation,
		Department:     profile.Department,
		Institution:    profile.Institution,
		Phone:          profile.Phone,
		Experience:     profile.Experience.String(),
		Specialization: profile.Specialization,
		Bio:            profile.Bio,
	}, nil
}

func (s *teacherServiceImpl) UpdateProfile(ctx context.Context, identity *models.Identity, req *dto.TeacherProfileRequest) (*TeacherProfile, error) {
	fields := map[string]any{
		"fullName":       req.Name,
		"designation":    req.Position,
		"department":     req.Department,
		"institution":    req.Institution,
		"phone":          req.Phone,
		"experience":     req.Experience,
		"specialization": req.Specialization,
		"bio":            req.Bio,
		"updatedAt":      helpers.Timestamp(s.now()),
	}
	if err := s.repos.Users.Merge(ctx, identity.UID, fields); err != nil {
		return nil, storeErr("save profile", err)
	}
	s.logger.Info().Str("uid", identity.UID).Msg("Teacher profile updated")
	return s.Profile(ctx, identity)
}

func (s *teacherServiceImpl) CurriculaForReview(ctx context.Context, q listing.Query) (listing.Result[*models.Curriculum], error) {
	items, err := s.repos.Curricula.ListAll(ctx)
	if err != nil {
		return listing.Result[*models.Curriculum]{}, storeErr("fetch curriculums", err)
	}
	return reviewSpec.Apply(items, q), nil
}

// Vote records the teacher's vote, replacing any earlier vote on the same
// curriculum, and returns the new tally.
func (s *teacherServiceImpl) Vote(ctx context.Context, identity *models.Identity, curriculumID, choice string) (*models.VoteTally, error) {
	if choice != models.VoteApprove && choice != models.VoteReject {
		return nil, apperrors.NewValidationError("Vote must be approve or reject")
	}
	if identity.Email == "" {
		return nil, apperrors.NewValidationError("A verified email is required to vote")
	}
	if _, _, err := s.repos.Curricula.Find(ctx, curriculumID); err != nil {
		return nil, notFoundAs(err, msgCurriculumNotFound, "submit vote")
	}

	name := identity.DisplayName
	if profile, err := s.repos.Users.GetByUID(ctx, identity.UID); err == nil && profile.FullName != "" {
		name = profile.FullName
	}
	vote := &models.Vote{
		Timestamp:    helpers.Timestamp(s.now()),
		TeacherName:  name,
		TeacherEmail: identity.Email,
	}
	if err := s.repos.Votes.Cast(ctx, curriculumID, choice, vote); err != nil {
		return nil, storeErr("submit vote", err)
	}
	s.logger.Info().Str("curriculumId", curriculumID).Str("vote", choice).Msg("Curriculum vote recorded")

	tally, err := s.repos.Votes.Tally(ctx, curriculumID)
	if err != nil {
		return nil, storeErr("fetch votes", err)
	}
	return tally, nil
}

// Seminars lists the seminars hosted by the teacher
func (s *teacherServiceImpl) Seminars(ctx context.Context, identity *models.Identity, q listing.Query) (listing.Result[*models.Seminar], error) {
	items, err := s.repos.Seminars.List(ctx)
	if err != nil {
		return listing.Result[*models.Seminar]{}, storeErr("fetch seminars", err)
	}
	spec := listing.Spec[*models.Seminar]{
		Keep:         func(sem *models.Seminar) bool { return sem.TeacherEmail == identity.Email },
		SearchFields: seminarSearchFields,
		Filters: map[string]listing.Field[*models.Seminar]{
			"status": func(sem *models.Seminar) string { return sem.Status },
		},
		SortKey: func(sem *models.Seminar) string { return sem.Date },
	}
	return spec.Apply(items, q), nil
}

func (s *teacherServiceImpl) CreateSeminar(ctx context.Context, identity *models.Identity, seminar *models.Seminar) (*models.Seminar, error) {
	err := validation.NewForm().
		Require(validation.MsgRequiredFields, seminar.Title, seminar.Date, seminar.Time, seminar.MeetLink).
		Contains(seminar.MeetLink, MeetLinkHost, msgInvalidMeetLink).
		Err()
	if err != nil {
		return nil, err
	}

	profile, _ := s.Profile(ctx, identity)
	name := ""
	if profile != nil {
		name = profile.Name
	}
	seminar.TeacherName = orDefault(name, models.RoleTeacher.Label())
	seminar.TeacherEmail = identity.Email
	seminar.Status = models.StatusScheduled
	seminar.Registrations = 0
	seminar.Duration = orDefault(seminar.Duration, DefaultSeminarDuration)
	if seminar.MaxParticipants <= 0 {
		seminar.MaxParticipants = DefaultSeminarMaxAttendee
	}

	created, err := s.repos.Seminars.Create(ctx, seminar)
	if err != nil {
		return nil, storeErr("create seminar", err)
	}
	s.logger.Info().Str("id", created.ID).Str("teacher", identity.Email).Msg("Seminar created")
	return created, nil
}

func (s *teacherServiceImpl) Events(ctx context.Context, q listing.Query) (listing.Result[*models.CalendarEvent], error) {
	return listEvents(ctx, s.repos.CalendarEvents, q)
}
