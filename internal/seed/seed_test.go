package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appRepos "github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/config"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/credentials"
	"github.com/yigit/eduportal/internal/pkg/docstore"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateDefaultData_Idempotent(t *testing.T) {
	ctx := context.Background()
	repos := appRepos.NewRepositories(docstore.NewMemoryStore(), zerolog.Nop())

	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))

	universities, err := repos.Universities.List(ctx)
	require.NoError(t, err)
	assert.Len(t, universities, len(defaultUniversities))

	streams, err := repos.Streams.List(ctx)
	require.NoError(t, err)
	assert.Len(t, streams, len(defaultStreams))
}

func TestCreateAdminAccounts(t *testing.T) {
	auth.BcryptCost = bcrypt.MinCost
	ctx := context.Background()
	provider := credentials.NewLocalProvider(docstore.NewMemoryStore(), time.Hour, zerolog.Nop())

	cfg := &config.Config{}
	cfg.Admin.Emails = []string{"admin@gmail.com"}

	// no seed password
	require.NoError(t, CreateAdminAccounts(ctx, cfg, provider, zerolog.Nop()))
	_, err := provider.SignIn(ctx, "admin@gmail.com", "admin123")
	assert.Equal(t, credentials.CodeUserNotFound, credentials.CodeOf(err))

	cfg.Admin.SeedPassword = "admin123"
	require.NoError(t, CreateAdminAccounts(ctx, cfg, provider, zerolog.Nop()))
	require.NoError(t, CreateAdminAccounts(ctx, cfg, provider, zerolog.Nop()))

	sess, err := provider.SignIn(ctx, "admin@gmail.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin@gmail.com", sess.User.Email)
}
