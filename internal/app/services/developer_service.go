package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/validation"
)

// Curriculum drafts are created under this reference id
const DraftReference = "temp"

// Calendar event defaults
const (
	DefaultEventType  = "planning"
	msgEventNotFound  = "Event not found"
	fallbackCreatedBy = "curriculum-developer"
)

var developerCurriculumSpec = listing.Spec[*models.Curriculum]{
	SearchFields: curriculumSearchFields,
	Filters: map[string]listing.Field[*models.Curriculum]{
		"status": func(c *models.Curriculum) string { return c.Status },
		"level":  func(c *models.Curriculum) string { return c.Level },
	},
	SortKey:    func(c *models.Curriculum) string { return c.CreatedAt },
	Descending: true,
}

var eventSpec = listing.Spec[*models.CalendarEvent]{
	SearchFields: []listing.Field[*models.CalendarEvent]{
		func(e *models.CalendarEvent) string { return e.Title },
		func(e *models.CalendarEvent) string { return e.Description },
	},
	Filters: map[string]listing.Field[*models.CalendarEvent]{
		"type":         func(e *models.CalendarEvent) string { return e.Type },
		"curriculumId": func(e *models.CalendarEvent) string { return e.CurriculumID },
	},
	SortKey: func(e *models.CalendarEvent) string { return e.Date },
}

func listEvents(ctx context.Context, events *repositories.Collection[models.CalendarEvent], q listing.Query) (listing.Result[*models.CalendarEvent], error) {
	items, err := events.List(ctx)
	if err != nil {
		return listing.Result[*models.CalendarEvent]{}, storeErr("fetch events", err)
	}
	return eventSpec.Apply(items, q), nil
}

// CurriculumVotes is a curriculum with the teacher votes cast on it
type CurriculumVotes struct {
	Curriculum *models.Curriculum `json:"curriculum"`
	Approve    int                `json:"approveCount"`
	Reject     int                `json:"rejectCount"`
	Votes      *models.VoteTally  `json:"votes"`
}

// DeveloperService backs the curriculum developer portal
type DeveloperService interface {
	Curricula(ctx context.Context, q listing.Query) (listing.Result[*models.Curriculum], error)
	GetCurriculum(ctx context.Context, id string) (*models.Curriculum, error)
	CreateCurriculum(ctx context.Context, identity *models.Identity, curriculum *models.Curriculum) (*models.Curriculum, error)
	UpdateCurriculum(ctx context.Context, identity *models.Identity, id string, curriculum *models.Curriculum) (*models.Curriculum, error)
	DeleteCurriculum(ctx context.Context, id string) error

	Events(ctx context.Context, q listing.Query) (listing.Result[*models.CalendarEvent], error)
	GetEvent(ctx context.Context, id string) (*models.CalendarEvent, error)
	CreateEvent(ctx context.Context, identity *models.Identity, event *models.CalendarEvent) (*models.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id string, event *models.CalendarEvent) (*models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error

	Votes(ctx context.Context) ([]*CurriculumVotes, error)
}

type developerServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
	now    Clock
}

// NewDeveloperService creates a new DeveloperService
func NewDeveloperService(repos *repositories.Repositories, logger zerolog.Logger) DeveloperService {
	return &developerServiceImpl{repos: repos, logger: logger, now: time.Now}
}

func actor(identity *models.Identity) string {
	if identity == nil || identity.UID == "" {
		return fallbackCreatedBy
	}
	return identity.UID
}

func (s *developerServiceImpl) Curricula(ctx context.Context, q listing.Query) (listing.Result[*models.Curriculum], error) {
	items, err := s.repos.Curricula.ListAll(ctx)
	if err != nil {
		return listing.Result[*models.Curriculum]{}, storeErr("fetch curriculums", err)
	}
	return developerCurriculumSpec.Apply(items, q), nil
}

func (s *developerServiceImpl) GetCurriculum(ctx context.Context, id string) (*models.Curriculum, error) {
	_, curriculum, err := s.repos.Curricula.Find(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgCurriculumNotFound, "fetch curriculum")
	}
	return curriculum, nil
}

func validateCurriculum(c *models.Curriculum) error {
	return validation.NewForm().Require(validation.MsgRequiredFields, c.Title).Err()
}

// CreateCurriculum files a new draft under the temp reference
func (s *developerServiceImpl) CreateCurriculum(ctx context.Context, identity *models.Identity, curriculum *models.Curriculum) (*models.Curriculum, error) {
	if err := validateCurriculum(curriculum); err != nil {
		return nil, err
	}
	coll, err := s.repos.Curricula.In(DraftReference)
	if err != nil {
		return nil, err
	}
	curriculum.Status = models.StatusDraft
	curriculum.CreatedBy = actor(identity)
	curriculum.UpdatedBy = ""

	created, err := coll.Create(ctx, curriculum)
	if err != nil {
		return nil, storeErr("save curriculum", err)
	}
	created.ReferenceID = DraftReference
	s.logger.Info().Str("id", created.ID).Msg("Curriculum created")
	return created, nil
}

func (s *developerServiceImpl) UpdateCurriculum(ctx context.Context, identity *models.Identity, id string, curriculum *models.Curriculum) (*models.Curriculum, error) {
	if err := validateCurriculum(curriculum); err != nil {
		return nil, err
	}
	group, _, err := s.repos.Curricula.Find(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgCurriculumNotFound, "save curriculum")
	}
	coll, err := s.repos.Curricula.In(group)
	if err != nil {
		return nil, err
	}
	curriculum.UpdatedBy = actor(identity)

	updated, err := coll.Update(ctx, id, curriculum)
	if err != nil {
		return nil, notFoundAs(err, msgCurriculumNotFound, "save curriculum")
	}
	updated.ReferenceID = group
	return updated, nil
}

func (s *developerServiceImpl) DeleteCurriculum(ctx context.Context, id string) error {
	group, _, err := s.repos.Curricula.Find(ctx, id)
	if err != nil {
		return notFoundAs(err, msgCurriculumNotFound, "delete curriculum")
	}
	coll, err := s.repos.Curricula.In(group)
	if err != nil {
		return err
	}
	if err := coll.Delete(ctx, id); err != nil {
		return notFoundAs(err, msgCurriculumNotFound, "delete curriculum")
	}
	s.logger.Info().Str("id", id).Str("referenceId", group).Msg("Curriculum deleted")
	return nil
}

func (s *developerServiceImpl) Events(ctx context.Context, q listing.Query) (listing.Result[*models.CalendarEvent], error) {
	return listEvents(ctx, s.repos.CalendarEvents, q)
}

func (s *developerServiceImpl) GetEvent(ctx context.Context, id string) (*models.CalendarEvent, error) {
	event, err := s.repos.CalendarEvents.Get(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgEventNotFound, "fetch event")
	}
	return event, nil
}

func prepareEvent(event *models.CalendarEvent) error {
	if err := validation.NewForm().Require(validation.MsgRequiredFields, event.Title, event.Date).Err(); err != nil {
		return err
	}
	event.Type = orDefault(event.Type, DefaultEventType)
	if event.Tasks == nil {
		event.Tasks = []string{}
	}
	return nil
}

func (s *developerServiceImpl) CreateEvent(ctx context.Context, identity *models.Identity, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	if err := prepareEvent(event); err != nil {
		return nil, err
	}
	event.CreatedBy = actor(identity)

	created, err := s.repos.CalendarEvents.Create(ctx, event)
	if err != nil {
		return nil, storeErr("save event", err)
	}
	s.logger.Info().Str("id", created.ID).Str("date", created.Date).Msg("Calendar event created")
	return created, nil
}

func (s *developerServiceImpl) UpdateEvent(ctx context.Context, id string, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	if err := prepareEvent(event); err != nil {
		return nil, err
	}
	updated, err := s.repos.CalendarEvents.Update(ctx, id, event)
	if err != nil {
		return nil, notFoundAs(err, msgEventNotFound, "save event")
	}
	return updated, nil
}

func (s *developerServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repos.CalendarEvents.Delete(ctx, id); err != nil {
		return notFoundAs(err, msgEventNotFound, "delete event")
	}
	s.logger.Info().Str("id", id).Msg("Calendar event deleted")
	return nil
}

// Votes pairs every curriculum with its tally, newest curriculum first
func (s *developerServiceImpl) Votes(ctx context.Context) ([]*CurriculumVotes, error) {
	curricula, err := s.repos.Curricula.ListAll(ctx)
	if err != nil {
		return nil, storeErr("fetch curriculums", err)
	}
	tallies, err := s.repos.Votes.Tallies(ctx)
	if err != nil {
		return nil, storeErr("fetch votes", err)
	}

	ordered := developerCurriculumSpec.Filter(curricula, listing.Query{})
	out := make([]*CurriculumVotes, 0, len(ordered))
	for _, c := range ordered {
		tally, ok := tallies[c.ID]
		if !ok {
			tally = &models.VoteTally{CurriculumID: c.ID, Approve: []*models.Vote{}, Reject: []*models.Vote{}}
		}
		out = append(out, &CurriculumVotes{
			Curriculum: c,
			Approve:    len(tally.Approve),
			Reject:     len(tally.Reject),
			Votes:      tally,
		})
	}
	return out, nil
}
