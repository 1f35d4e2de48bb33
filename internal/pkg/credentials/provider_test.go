package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/docstore"
	"golang.org/x/crypto/bcrypt"
)

func newProvider(t *testing.T) (*LocalProvider, docstore.Store) {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost
	store := docstore.NewMemoryStore()
	return NewLocalProvider(store, time.Hour, zerolog.Nop()), store
}

func TestLocalProvider_SignUpAndSignIn(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	sess, err := p.SignUp(ctx, "Student@Uni.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "student@uni.edu", sess.User.Email)
	assert.NotEmpty(t, sess.Token)

	again, err := p.SignIn(ctx, "student@uni.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.UID, again.User.UID)

	user, err := p.Verify(ctx, again.Token)
	require.NoError(t, err)
	assert.Equal(t, "student@uni.edu", user.Email)
}

func TestLocalProvider_Errors(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "taken@uni.edu", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		run     func() error
		code    string
		message string
	}{
		{
			name:    "email in use",
			run:     func() error { _, err := p.SignUp(ctx, "taken@uni.edu", "another1"); return err },
			code:    CodeEmailInUse,
			message: "Email is already registered",
		},
		{
			name:    "weak password",
			run:     func() error { _, err := p.SignUp(ctx, "new@uni.edu", "12345"); return err },
			code:    CodeWeakPassword,
			message: "Password is too weak",
		},
		{
			name:    "invalid email",
			run:     func() error { _, err := p.SignUp(ctx, "not-an-email", "secret1"); return err },
			code:    CodeInvalidEmail,
			message: "Invalid email address",
		},
		{
			name:    "unknown user",
			run:     func() error { _, err := p.SignIn(ctx, "ghost@uni.edu", "secret1"); return err },
			code:    CodeUserNotFound,
			message: "No account found with this email",
		},
		{
			name:    "wrong password",
			run:     func() error { _, err := p.SignIn(ctx, "taken@uni.edu", "nope123"); return err },
			code:    CodeWrongPassword,
			message: "Incorrect password",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.Equal(t, tt.code, CodeOf(err))
			assert.Equal(t, tt.message, err.Error())
			assert.ErrorIs(t, err, apperrors.ErrAuthFailed)
		})
	}
}

func TestLocalProvider_SignOutAndExpiry(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	sess, err := p.SignUp(ctx, "t@uni.edu", "secret1")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, sess.Token))
	_, err = p.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	sess, err = p.SignIn(ctx, "t@uni.edu", "secret1")
	require.NoError(t, err)
	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestLocalProvider_EnsureAccountIsIdempotent(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	created, err := p.EnsureAccount(ctx, "admin@gmail.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = p.EnsureAccount(ctx, "admin@gmail.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestMessageFor_Fallback(t *testing.T) {
	assert.Equal(t, "Authentication failed. Please try again.", MessageFor("auth/too-many-requests"))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("boom")))
}
