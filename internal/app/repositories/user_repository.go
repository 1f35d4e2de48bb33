package repositories

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/docstore"
)

// UserRepository handles the profiles at /users/{uid}
type UserRepository struct {
	store  docstore.Store
	logger zerolog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(store docstore.Store, logger zerolog.Logger) *UserRepository {
	return &UserRepository{store: store, logger: logger}
}

// GetAll fetches every profile
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	tree, err := r.store.Get(ctx, UsersPath)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error fetching users")
		return nil, err
	}
	children := docstore.Children(tree)
	uids := make([]string, 0, len(children))
	for uid := range children {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	users := make([]*models.UserProfile, 0, len(uids))
	for _, uid := range uids {
		var profile models.UserProfile
		if err := docstore.Decode(children[uid], &profile); err != nil {
			r.logger.Warn().Err(err).Str("uid", uid).Msg("Skipping unreadable user profile")
			continue
		}
		if profile.UID == "" {
			profile.UID = uid
		}
		users = append(users, &profile)
	}
	return users, nil
}

// GetByUID fetches one profile
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if err := docstore.ValidateKey(uid); err != nil {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}
	raw, err := r.store.Get(ctx, docstore.Join(UsersPath, uid))
	if err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("Error fetching user profile")
		return nil, err
	}
	if raw == nil {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}
	var profile models.UserProfile
	if err := docstore.Decode(raw, &profile); err != nil {
		return nil, err
	}
	if profile.UID == "" {
		profile.UID = uid
	}
	return &profile, nil
}

// Merge writes the given profile fields, leaving the others untouched
func (r *UserRepository) Merge(ctx context.Context, uid string, fields map[string]any) error {
	if err := docstore.ValidateKey(uid); err != nil {
		return apperrors.NewValidationError("Invalid user id")
	}
	if err := r.store.Update(ctx, docstore.Join(UsersPath, uid), fields); err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("Error writing user profile")
		return err
	}
	return nil
}
