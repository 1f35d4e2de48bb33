// Package credentials is the email/password identity provider used by the
// student, teacher and administrator roles.
package credentials

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/docstore"
)

// Provider error codes
const (
	CodeEmailInUse    = "auth/email-already-in-use"
	CodeWeakPassword  = "auth/weak-password"
	CodeUserNotFound  = "auth/user-not-found"
	CodeWrongPassword = "auth/wrong-password"
	CodeInvalidEmail  = "auth/invalid-email"
	CodeUnknown       = "auth/unknown"
)

// MinPasswordLength is the shortest password the provider accepts
const MinPasswordLength = 6

var messages = map[string]string{
	CodeEmailInUse:    "Email is already registered",
	CodeWeakPassword:  "Password is too weak",
	CodeUserNotFound:  "No account found with this email",
	CodeWrongPassword: "Incorrect password",
	CodeInvalidEmail:  "Invalid email address",
}

// MessageFor maps a provider error code to the message shown to the user.
func MessageFor(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "Authentication failed. Please try again."
}

// CodeOf extracts the provider code from err, or CodeUnknown.
func CodeOf(err error) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && strings.HasPrefix(ce.Code, "auth/") {
		return ce.Code
	}
	return CodeUnknown
}

func providerError(code string) error {
	return apperrors.NewAuthError(code, MessageFor(code))
}

// User is a provider identity
type User struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a signed-in provider session
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Provider is the external credential service
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// Verify observes the provider session behind token
	Verify(ctx context.Context, token string) (*User, error)
	SignOut(ctx context.Context, token string) error
}

const (
	accountsPath = "_credentials/accounts"
	emailsPath   = "_credentials/emails"
	sessionsPath = "_credentials/sessions"
)

type account struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type sessionRecord struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LocalProvider keeps accounts and provider sessions in the document store.
type LocalProvider struct {
	store    docstore.Store
	validate *validator.Validate
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewLocalProvider creates a provider on top of store
func NewLocalProvider(store docstore.Store, sessionTTL time.Duration, logger zerolog.Logger) *LocalProvider {
	return &LocalProvider{
		store:    store,
		validate: validator.New(),
		ttl:      sessionTTL,
		logger:   logger,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) checkEmail(email string) error {
	if email == "" || p.validate.Var(email, "required,email") != nil {
		return providerError(CodeInvalidEmail)
	}
	return docstore.ValidateKey(email)
}

// SignUp creates an account and signs it in
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := p.checkEmail(email); err != nil {
		return nil, providerError(CodeInvalidEmail)
	}
	if len(password) < MinPasswordLength {
		return nil, providerError(CodeWeakPassword)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.NewOperationError("create account", err)
	}

	uid := uuid.NewString()
	_, err = p.store.Transaction(ctx, docstore.Join(emailsPath, email), func(current any) (any, error) {
		if current != nil {
			return nil, docstore.ErrTransactionAborted
		}
		return uid, nil
	})
	if errors.Is(err, docstore.ErrTransactionAborted) {
		return nil, providerError(CodeEmailInUse)
	}
	if err != nil {
		p.logger.Error().Err(err).Str("email", email).Msg("Error claiming account email")
		return nil, apperrors.NewOperationError("create account", err)
	}

	acc := account{UID: uid, Email: email, PasswordHash: hash, CreatedAt: p.now().UTC()}
	if err := p.store.Set(ctx, docstore.Join(accountsPath, uid), acc); err != nil {
		p.logger.Error().Err(err).Str("uid", uid).Msg("Error writing account")
		_ = p.store.Remove(ctx, docstore.Join(emailsPath, email))
		return nil, apperrors.NewOperationError("create account", err)
	}

	p.logger.Info().Str("uid", uid).Msg("Account created")
	return p.openSession(ctx, acc)
}

// SignIn checks credentials and opens a provider session
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := p.checkEmail(email); err != nil {
		return nil, providerError(CodeInvalidEmail)
	}

	acc, err := p.accountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(acc.PasswordHash, password) {
		return nil, providerError(CodeWrongPassword)
	}
	return p.openSession(ctx, *acc)
}

// Verify resolves a provider token to its user
func (p *LocalProvider) Verify(ctx context.Context, token string) (*User, error) {
	if docstore.ValidateKey(token) != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	raw, err := p.store.Get(ctx, docstore.Join(sessionsPath, token))
	if err != nil {
		return nil, apperrors.NewOperationError("verify session", err)
	}
	if raw == nil {
		return nil, apperrors.ErrTokenNotFound
	}
	var rec sessionRecord
	if err := docstore.Decode(raw, &rec); err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if p.now().After(rec.ExpiresAt) {
		_ = p.store.Remove(ctx, docstore.Join(sessionsPath, token))
		return nil, apperrors.ErrTokenExpired
	}
	return &User{UID: rec.UID, Email: rec.Email}, nil
}

// SignOut ends a provider session. Unknown tokens are ignored.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	if docstore.ValidateKey(token) != nil {
		return nil
	}
	if err := p.store.Remove(ctx, docstore.Join(sessionsPath, token)); err != nil {
		return apperrors.NewOperationError("sign out", err)
	}
	return nil
}

// EnsureAccount creates the account when the email is not registered yet.
// It is used to seed the administrator identity.
func (p *LocalProvider) EnsureAccount(ctx context.Context, email, password string) (bool, error) {
	_, err := p.SignUp(ctx, email, password)
	if CodeOf(err) == CodeEmailInUse {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *LocalProvider) accountByEmail(ctx context.Context, email string) (*account, error) {
	uid, err := p.store.Get(ctx, docstore.Join(emailsPath, email))
	if err != nil {
		return nil, apperrors.NewOperationError("sign in", err)
	}
	id, _ := uid.(string)
	if id == "" {
		return nil, providerError(CodeUserNotFound)
	}
	raw, err := p.store.Get(ctx, docstore.Join(accountsPath, id))
	if err != nil {
		return nil, apperrors.NewOperationError("sign in", err)
	}
	if raw == nil {
		return nil, providerError(CodeUserNotFound)
	}
	var acc account
	if err := docstore.Decode(raw, &acc); err != nil {
		return nil, apperrors.NewOperationError("sign in", err)
	}
	return &acc, nil
}

func (p *LocalProvider) openSession(ctx context.Context, acc account) (*Session, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	expires := p.now().Add(p.ttl).UTC()
	rec := sessionRecord{UID: acc.UID, Email: acc.Email, ExpiresAt: expires}
	if err := p.store.Set(ctx, docstore.Join(sessionsPath, token), rec); err != nil {
		p.logger.Error().Err(err).Str("uid", acc.UID).Msg("Error opening provider session")
		return nil, apperrors.NewOperationError("sign in", err)
	}
	return &Session{
		Token:     token,
		User:      User{UID: acc.UID, Email: acc.Email, CreatedAt: acc.CreatedAt},
		ExpiresAt: expires,
	}, nil
}
