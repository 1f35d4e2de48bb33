package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/docstore"
)

const semesterPrefix = "semester"

// SubjectRepository handles /streamSubjects/{streamId}/semester{n}/{id}
type SubjectRepository struct {
	store  docstore.Store
	logger zerolog.Logger
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(store docstore.Store, logger zerolog.Logger) *SubjectRepository {
	return &SubjectRepository{store: store, logger: logger}
}

// SemesterKey is the store key of semester n
func SemesterKey(n int) string {
	return semesterPrefix + strconv.Itoa(n)
}

// Semester returns the subject collection of one semester of a stream
func (r *SubjectRepository) Semester(streamID string, n int) (*Collection[models.Subject], error) {
	if err := docstore.ValidateKey(streamID); err != nil {
		return nil, fmt.Errorf("invalid stream id: %w", err)
	}
	return NewCollection[models.Subject](r.store, docstore.Join(StreamSubjectsPath, streamID, SemesterKey(n)), r.logger), nil
}

// ByStream fetches every subject of a stream grouped by semester number.
// Groups whose key is not semester{n} are ignored.
func (r *SubjectRepository) ByStream(ctx context.Context, streamID string) (map[int][]*models.Subject, error) {
	if err := docstore.ValidateKey(streamID); err != nil {
		return nil, fmt.Errorf("invalid stream id: %w", err)
	}
	grouped := NewGrouped[models.Subject](r.store, docstore.Join(StreamSubjectsPath, streamID), "", r.logger)
	groups, err := grouped.Groups(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[int][]*models.Subject, len(groups))
	for key, subjects := range groups {
		n, err := strconv.Atoi(strings.TrimPrefix(key, semesterPrefix))
		if err != nil || !strings.HasPrefix(key, semesterPrefix) {
			continue
		}
		for _, s := range subjects {
			s.Semester = models.FlexInt(n)
			s.StreamID = streamID
		}
		out[n] = subjects
	}
	return out, nil
}

// DeleteStream removes every subject of a stream
func (r *SubjectRepository) DeleteStream(ctx context.Context, streamID string) error {
	if err := docstore.ValidateKey(streamID); err != nil {
		return fmt.Errorf("invalid stream id: %w", err)
	}
	if err := r.store.Remove(ctx, docstore.Join(StreamSubjectsPath, streamID)); err != nil {
		r.logger.Error().Err(err).Str("streamId", streamID).Msg("Error deleting stream subjects")
		return err
	}
	return nil
}
