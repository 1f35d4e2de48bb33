package repositories

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/docstore"
)

// VoteRepository handles /curriculumVotes/{curriculumId}/{choice}/{email}
type VoteRepository struct {
	store  docstore.Store
	logger zerolog.Logger
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(store docstore.Store, logger zerolog.Logger) *VoteRepository {
	return &VoteRepository{store: store, logger: logger}
}

func votePath(curriculumID, choice, email string) (string, error) {
	for _, k := range []string{curriculumID, choice, email} {
		if err := docstore.ValidateKey(k); err != nil {
			return "", apperrors.NewValidationError("Invalid vote")
		}
	}
	return docstore.Join(CurriculumVotesPath, curriculumID, choice, email), nil
}

// Cast records vote under choice after null-writing the voter's vote
// under the other choice.
func (r *VoteRepository) Cast(ctx context.Context, curriculumID, choice string, vote *models.Vote) error {
	previous := models.VoteReject
	if choice == models.VoteReject {
		previous = models.VoteApprove
	}
	prevPath, err := votePath(curriculumID, previous, vote.TeacherEmail)
	if err != nil {
		return err
	}
	nextPath, err := votePath(curriculumID, choice, vote.TeacherEmail)
	if err != nil {
		return err
	}

	if err := r.store.Remove(ctx, prevPath); err != nil {
		r.logger.Error().Err(err).Str("curriculumId", curriculumID).Msg("Error clearing previous vote")
		return err
	}
	if err := r.store.Set(ctx, nextPath, vote); err != nil {
		r.logger.Error().Err(err).Str("curriculumId", curriculumID).Msg("Error writing vote")
		return err
	}
	return nil
}

// Tally fetches the votes on one curriculum
func (r *VoteRepository) Tally(ctx context.Context, curriculumID string) (*models.VoteTally, error) {
	if err := docstore.ValidateKey(curriculumID); err != nil {
		return nil, apperrors.NewResourceNotFoundError("Curriculum not found")
	}
	tree, err := r.store.Get(ctx, docstore.Join(CurriculumVotesPath, curriculumID))
	if err != nil {
		r.logger.Error().Err(err).Str("curriculumId", curriculumID).Msg("Error fetching votes")
		return nil, err
	}
	return tallyOf(curriculumID, tree)
}

// Tallies fetches the votes on every curriculum
func (r *VoteRepository) Tallies(ctx context.Context) (map[string]*models.VoteTally, error) {
	tree, err := r.store.Get(ctx, CurriculumVotesPath)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error fetching votes")
		return nil, err
	}
	out := make(map[string]*models.VoteTally)
	for id, subtree := range docstore.Children(tree) {
		tally, err := tallyOf(id, subtree)
		if err != nil {
			return nil, err
		}
		out[id] = tally
	}
	return out, nil
}

func tallyOf(curriculumID string, tree any) (*models.VoteTally, error) {
	tally := &models.VoteTally{
		CurriculumID: curriculumID,
		Approve:      []*models.Vote{},
		Reject:       []*models.Vote{},
	}
	choices := docstore.Children(tree)
	for _, choice := range []string{models.VoteApprove, models.VoteReject} {
		voters := docstore.Children(choices[choice])
		emails := make([]string, 0, len(voters))
		for email := range voters {
			emails = append(emails, email)
		}
		sort.Strings(emails)
		for _, email := range emails {
			var v models.Vote
			if err := docstore.Decode(voters[email], &v); err != nil {
				return nil, err
			}
			if v.TeacherEmail == "" {
				v.TeacherEmail = email
			}
			if choice == models.VoteApprove {
				tally.Approve = append(tally.Approve, &v)
			} else {
				tally.Reject = append(tally.Reject, &v)
			}
		}
	}
	return tally, nil
}
