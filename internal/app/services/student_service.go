package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/helpers"
)

// Seminar registration messages
const (
	MsgSeminarFull       = "Seminar is full. Registration closed."
	MsgSeminarRegistered = "Successfully registered for the seminar!"
	msgSeminarNotFound   = "Seminar not found"
)

var expertSearchFields = []listing.Field[*models.DomainExpert]{
	func(e *models.DomainExpert) string { return e.Name },
	func(e *models.DomainExpert) string { return e.Specialization },
	func(e *models.DomainExpert) string { return e.Domain },
	func(e *models.DomainExpert) string { return e.Organization },
}

func isActiveExpert(e *models.DomainExpert) bool {
	return e.Status == models.StatusActive
}

var studentExpertSpec = listing.Spec[*models.DomainExpert]{
	Keep:         isActiveExpert,
	SearchFields: expertSearchFields,
	Filters: map[string]listing.Field[*models.DomainExpert]{
		"domain": func(e *models.DomainExpert) string { return e.Domain },
	},
}

var curriculumSearchFields = []listing.Field[*models.Curriculum]{
	func(c *models.Curriculum) string { return c.Title },
	func(c *models.Curriculum) string { return c.Tag },
	func(c *models.Curriculum) string { return c.Level },
}

var studentCurriculumSpec = listing.Spec[*models.Curriculum]{
	SearchFields: curriculumSearchFields,
	Filters: map[string]listing.Field[*models.Curriculum]{
		"level": func(c *models.Curriculum) string { return c.Level },
	},
}

var seminarSearchFields = []listing.Field[*models.Seminar]{
	func(s *models.Seminar) string { return s.Title },
	func(s *models.Seminar) string { return s.Topic },
	func(s *models.Seminar) string { return s.TeacherName },
	func(s *models.Seminar) string { return s.Tags },
}

var internshipSpec = listing.Spec[*models.Internship]{
	SearchFields: []listing.Field[*models.Internship]{
		func(i *models.Internship) string { return i.Title },
		func(i *models.Internship) string { return i.Description },
		func(i *models.Internship) string { return i.CompanyName },
		func(i *models.Internship) string { return i.Location },
	},
	Filters: map[string]listing.Field[*models.Internship]{
		"companyId": func(i *models.Internship) string { return i.CompanyID },
		"status":    func(i *models.Internship) string { return i.Status },
	},
	SortKey:    func(i *models.Internship) string { return i.CreatedAt },
	Descending: true,
}

var hackathonSearchFields = []listing.Field[*models.Hackathon]{
	func(h *models.Hackathon) string { return h.Title },
	func(h *models.Hackathon) string { return h.Description },
	func(h *models.Hackathon) string { return h.ProblemStatement },
}

var universitySpec = listing.Spec[*models.University]{
	SearchFields: []listing.Field[*models.University]{
		func(u *models.University) string { return u.FullName },
		func(u *models.University) string { return u.InitialName },
		func(u *models.University) string { return u.Location },
	},
}

// ExpertCatalog is the expert listing with the domains to filter by
type ExpertCatalog struct {
	listing.Result[*models.DomainExpert]
	Domains []string `json:"domains"`
}

// StudentService is the read side of the student portal plus seminar
// registration.
type StudentService interface {
	Curricula(ctx context.Context, q listing.Query) (listing.Result[*models.Curriculum], error)
	Experts(ctx context.Context, q listing.Query) (*ExpertCatalog, error)
	UpcomingSeminars(ctx context.Context, q listing.Query) (listing.Result[*models.Seminar], error)
	RegisterForSeminar(ctx context.Context, seminarID string) (*models.Seminar, error)
	Internships(ctx context.Context, q listing.Query) (listing.Result[*models.Internship], error)
	Hackathons(ctx context.Context, q listing.Query) (listing.Result[*models.Hackathon], error)
	Universities(ctx context.Context, q listing.Query) (listing.Result[*models.University], error)
}

type studentServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
	now    Clock
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{repos: repos, logger: logger, now: time.Now}
}

func (s *studentServiceImpl) Curricula(ctx context.Context, q listing.Query) (listing.Result[*models.Curriculum], error) {
	items, err := s.repos.Curricula.ListAll(ctx)
	if err != nil {
		return listing.Result[*models.Curriculum]{}, storeErr("fetch curriculums", err)
	}
	return studentCurriculumSpec.Apply(items, q), nil
}

func (s *studentServiceImpl) Experts(ctx context.Context, q listing.Query) (*ExpertCatalog, error) {
	items, err := s.repos.DomainExperts.List(ctx)
	if err != nil {
		return nil, storeErr("fetch experts", err)
	}
	active := make([]*models.DomainExpert, 0, len(items))
	for _, e := range items {
		if isActiveExpert(e) {
			active = append(active, e)
		}
	}
	return &ExpertCatalog{
		Result:  studentExpertSpec.Apply(active, q),
		Domains: listing.Distinct(active, func(e *models.DomainExpert) string { return e.Domain }),
	}, nil
}

// UpcomingSeminars lists scheduled seminars dated today or later, soonest
// first.
func (s *studentServiceImpl) UpcomingSeminars(ctx context.Context, q listing.Query) (listing.Result[*models.Seminar], error) {
	items, err := s.repos.Seminars.List(ctx)
	if err != nil {
		return listing.Result[*models.Seminar]{}, storeErr("fetch seminars", err)
	}
	today := helpers.Today(s.now())
	spec := listing.Spec[*models.Seminar]{
		Keep: func(sem *models.Seminar) bool {
			return sem.Status == models.StatusScheduled && helpers.OnOrAfter(sem.Date, today)
		},
		SearchFields: seminarSearchFields,
		SortKey:      func(sem *models.Seminar) string { return sem.Date },
	}
	return spec.Apply(items, q), nil
}

// RegisterForSeminar takes one registration slot. The capacity check and
// the increment run in one store transaction, so a full seminar is never
// written to.
func (s *studentServiceImpl) RegisterForSeminar(ctx context.Context, seminarID string) (*models.Seminar, error) {
	seminar, err := s.repos.Seminars.Mutate(ctx, seminarID, func(sem *models.Seminar) (map[string]any, error) {
		if sem.IsFull() {
			return nil, &apperrors.CustomError{Err: apperrors.ErrSeminarFull, Message: MsgSeminarFull}
		}
		return map[string]any{"registrations": sem.Registrations.Int() + 1}, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSeminarFull) {
			s.logger.Info().Str("seminarId", seminarID).Msg("Registration refused, seminar is full")
			return nil, err
		}
		return nil, notFoundAs(err, msgSeminarNotFound, "register for seminar")
	}
	s.logger.Info().Str("seminarId", seminarID).Int("registrations", seminar.Registrations.Int()).Msg("Seminar registration")
	return seminar, nil
}

func (s *studentServiceImpl) Internships(ctx context.Context, q listing.Query) (listing.Result[*models.Internship], error) {
	items, err := s.repos.Internships.List(ctx)
	if err != nil {
		return listing.Result[*models.Internship]{}, storeErr("fetch internships", err)
	}
	spec := internshipSpec
	spec.Keep = func(i *models.Internship) bool { return models.StatusIs(i.Status, models.StatusActive) }
	return spec.Apply(items, q), nil
}

// Hackathons lists active hackathons that have not ended, by start date
func (s *studentServiceImpl) Hackathons(ctx context.Context, q listing.Query) (listing.Result[*models.Hackathon], error) {
	items, err := s.repos.Hackathons.List(ctx)
	if err != nil {
		return listing.Result[*models.Hackathon]{}, storeErr("fetch hackathons", err)
	}
	today := helpers.Today(s.now())
	spec := listing.Spec[*models.Hackathon]{
		Keep: func(h *models.Hackathon) bool {
			return models.StatusIs(h.Status, models.StatusActive) && helpers.OnOrAfter(h.EndDate, today)
		},
		SearchFields: hackathonSearchFields,
		SortKey:      func(h *models.Hackathon) string { return h.StartDate },
	}
	return spec.Apply(items, q), nil
}

func (s *studentServiceImpl) Universities(ctx context.Context, q listing.Query) (listing.Result[*models.University], error) {
	items, err := s.repos.Universities.List(ctx)
	if err != nil {
		return listing.Result[*models.University]{}, storeErr("fetch universities", err)
	}
	return universitySpec.Apply(items, q), nil
}
