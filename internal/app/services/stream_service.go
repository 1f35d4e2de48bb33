package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/validation"
)

// Stream defaults of the editor
const (
	DefaultStreamDuration       = "4"
	DefaultStreamTotalSemesters = "8"
	DefaultStreamCategory       = "BTech"
	DefaultSubjectType          = "Core"
)

const msgStreamNotFound = "Stream not found"

var streamSpec = listing.Spec[*models.Stream]{
	SearchFields: []listing.Field[*models.Stream]{
		func(s *models.Stream) string { return s.Name },
		func(s *models.Stream) string { return s.Code },
		func(s *models.Stream) string { return s.Description },
	},
	Filters: map[string]listing.Field[*models.Stream]{
		"category": func(s *models.Stream) string { return s.Category },
	},
	SortKey:    func(s *models.Stream) string { return s.CreatedAt },
	Descending: true,
}

// SemesterView is a stream with one slot per semester
type SemesterView struct {
	Stream    *models.Stream        `json:"stream"`
	Semesters []models.SemesterSlot `json:"semesters"`
}

// TotalSemesters is the number of semester slots of a stream. Missing or
// unparseable values fall back to the editor default.
func TotalSemesters(stream *models.Stream) int {
	n := models.ParseIntLoose(string(stream.TotalSemesters), 0)
	if n <= 0 {
		return models.ParseIntLoose(DefaultStreamTotalSemesters, 8)
	}
	return n
}

// StreamService manages streams and their semester subjects
type StreamService interface {
	ListStreams(ctx context.Context, q listing.Query) (listing.Result[*models.Stream], error)
	GetStream(ctx context.Context, id string) (*models.Stream, error)
	CreateStream(ctx context.Context, stream *models.Stream) (*models.Stream, error)
	UpdateStream(ctx context.Context, id string, stream *models.Stream) (*models.Stream, error)
	DeleteStream(ctx context.Context, id string) error

	Semesters(ctx context.Context, streamID string) (*SemesterView, error)
	GetSubject(ctx context.Context, streamID string, semester int, id string) (*models.Subject, error)
	CreateSubject(ctx context.Context, streamID string, semester int, subject *models.Subject) (*models.Subject, error)
	UpdateSubject(ctx context.Context, streamID string, semester int, id string, subject *models.Subject) (*models.Subject, error)
	DeleteSubject(ctx context.Context, streamID string, semester int, id string) error
}

type streamServiceImpl struct {
	streams  *repositories.Collection[models.Stream]
	subjects *repositories.SubjectRepository
	logger   zerolog.Logger
}

// NewStreamService creates a new StreamService
func NewStreamService(repos *repositories.Repositories, logger zerolog.Logger) StreamService {
	return &streamServiceImpl{
		streams:  repos.Streams,
		subjects: repos.Subjects,
		logger:   logger,
	}
}

func notFoundAs(err error, message, op string) error {
	if apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return storeErr(op, err)
}

func (s *streamServiceImpl) ListStreams(ctx context.Context, q listing.Query) (listing.Result[*models.Stream], error) {
	items, err := s.streams.List(ctx)
	if err != nil {
		return listing.Result[*models.Stream]{}, storeErr("fetch streams", err)
	}
	return streamSpec.Apply(items, q), nil
}

func (s *streamServiceImpl) GetStream(ctx context.Context, id string) (*models.Stream, error) {
	stream, err := s.streams.Get(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgStreamNotFound, "fetch stream data")
	}
	return stream, nil
}

func prepareStream(stream *models.Stream) error {
	if err := validation.NewForm().Require(validation.MsgRequiredFields, stream.Name, stream.Code).Err(); err != nil {
		return err
	}
	stream.Duration = orDefault(stream.Duration, DefaultStreamDuration)
	stream.TotalSemesters = orDefault(stream.TotalSemesters, DefaultStreamTotalSemesters)
	stream.Category = orDefault(stream.Category, DefaultStreamCategory)
	return nil
}

func (s *streamServiceImpl) CreateStream(ctx context.Context, stream *models.Stream) (*models.Stream, error) {
	if err := prepareStream(stream); err != nil {
		return nil, err
	}
	created, err := s.streams.Create(ctx, stream)
	if err != nil {
		return nil, storeErr("save stream", err)
	}
	s.logger.Info().Str("id", created.ID).Str("code", created.Code).Msg("Stream created")
	return created, nil
}

func (s *streamServiceImpl) UpdateStream(ctx context.Context, id string, stream *models.Stream) (*models.Stream, error) {
	if err := prepareStream(stream); err != nil {
		return nil, err
	}
	updated, err := s.streams.Update(ctx, id, stream)
	if err != nil {
		return nil, notFoundAs(err, msgStreamNotFound, "save stream")
	}
	return updated, nil
}

// DeleteStream removes the stream and every subject filed under it
func (s *streamServiceImpl) DeleteStream(ctx context.Context, id string) error {
	if err := s.streams.Delete(ctx, id); err != nil {
		return notFoundAs(err, msgStreamNotFound, "delete stream")
	}
	if err := s.subjects.DeleteStream(ctx, id); err != nil {
		return storeErr("delete stream subjects", err)
	}
	s.logger.Info().Str("id", id).Msg("Stream deleted")
	return nil
}

// Semesters returns one slot per semester of the stream. Subjects filed
// under semesters beyond the stream's total are not shown.
func (s *streamServiceImpl) Semesters(ctx context.Context, streamID string) (*SemesterView, error) {
	stream, err := s.GetStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	bySemester, err := s.subjects.ByStream(ctx, streamID)
	if err != nil {
		return nil, storeErr("fetch subjects", err)
	}

	total := TotalSemesters(stream)
	view := &SemesterView{Stream: stream, Semesters: make([]models.SemesterSlot, 0, total)}
	for n := 1; n <= total; n++ {
		subjects := bySemester[n]
		if subjects == nil {
			subjects = []*models.Subject{}
		}
		sort.SliceStable(subjects, func(i, j int) bool { return subjects[i].CreatedAt < subjects[j].CreatedAt })
		view.Semesters = append(view.Semesters, models.SemesterSlot{Semester: n, Subjects: subjects})
	}
	return view, nil
}

// semester resolves the subject collection after checking the stream
// exists and semester is one of its slots.
func (s *streamServiceImpl) semester(ctx context.Context, streamID string, semester int) (*repositories.Collection[models.Subject], error) {
	stream, err := s.GetStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	total := TotalSemesters(stream)
	if err := validation.NewForm().Between(semester, 1, total, fmt.Sprintf("Semester must be between 1 and %d", total)).Err(); err != nil {
		return nil, err
	}
	return s.subjects.Semester(streamID, semester)
}

func (s *streamServiceImpl) GetSubject(ctx context.Context, streamID string, semester int, id string) (*models.Subject, error) {
	coll, err := s.semester(ctx, streamID, semester)
	if err != nil {
		return nil, err
	}
	subject, err := coll.Get(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Subject not found", "fetch subject")
	}
	return subject, nil
}

func prepareSubject(streamID string, semester int, subject *models.Subject) error {
	if err := validation.NewForm().Require(validation.MsgRequiredFields, subject.Name, subject.Code, string(subject.Credits)).Err(); err != nil {
		return err
	}
	subject.Type = orDefault(subject.Type, DefaultSubjectType)
	subject.Semester = models.FlexInt(semester)
	subject.StreamID = streamID
	return nil
}

func (s *streamServiceImpl) CreateSubject(ctx context.Context, streamID string, semester int, subject *models.Subject) (*models.Subject, error) {
	if err := prepareSubject(streamID, semester, subject); err != nil {
		return nil, err
	}
	coll, err := s.semester(ctx, streamID, semester)
	if err != nil {
		return nil, err
	}
	created, err := coll.Create(ctx, subject)
	if err != nil {
		return nil, storeErr("save subject", err)
	}
	s.logger.Info().Str("streamId", streamID).Int("semester", semester).Str("id", created.ID).Msg("Subject created")
	return created, nil
}

func (s *streamServiceImpl) UpdateSubject(ctx context.Context, streamID string, semester int, id string, subject *models.Subject) (*models.Subject, error) {
	if err := prepareSubject(streamID, semester, subject); err != nil {
		return nil, err
	}
	coll, err := s.semester(ctx, streamID, semester)
	if err != nil {
		return nil, err
	}
	updated, err := coll.Update(ctx, id, subject)
	if err != nil {
		return nil, notFoundAs(err, "Subject not found", "save subject")
	}
	return updated, nil
}

func (s *streamServiceImpl) DeleteSubject(ctx context.Context, streamID string, semester int, id string) error {
	coll, err := s.semester(ctx, streamID, semester)
	if err != nil {
		return err
	}
	if err := coll.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Subject not found", "delete subject")
	}
	s.logger.Info().Str("streamId", streamID).Int("semester", semester).Str("id", id).Msg("Subject deleted")
	return nil
}
