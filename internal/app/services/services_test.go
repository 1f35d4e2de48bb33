package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/app/session"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/credentials"
	"github.com/yigit/eduportal/internal/pkg/docstore"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	store    docstore.Store
	repos    *repositories.Repositories
	provider *credentials.LocalProvider
	sessions *session.Manager
	auth     AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	store := docstore.NewMemoryStore()
	logger := zerolog.Nop()
	provider := credentials.NewLocalProvider(store, time.Hour, logger)
	tokens := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", Expiration: time.Hour, TokenIssuer: "eduportal"})
	isAdmin := func(email string) bool { return email == "admin@gmail.com" }
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), tokens, provider, isAdmin, logger)
	repos := repositories.NewRepositories(store, logger)

	return &testEnv{
		store:    store,
		repos:    repos,
		provider: provider,
		sessions: sessions,
		auth:     NewAuthService(sessions, provider, repos, isAdmin, logger),
	}
}

// sessionFor starts a session and selects role
func (e *testEnv) sessionFor(t *testing.T, role string) string {
	t.Helper()
	ctx := context.Background()
	ticket, err := e.auth.StartSession(ctx, "")
	require.NoError(t, err)
	_, err = e.auth.SelectRole(ctx, ticket.Session.ID, role)
	require.NoError(t, err)
	return ticket.Session.ID
}

func (e *testEnv) put(t *testing.T, path string, value any) {
	t.Helper()
	require.NoError(t, e.store.Set(context.Background(), path, value))
}
