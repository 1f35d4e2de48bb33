package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/credentials"
)

// AdminChecker reports whether an email belongs to the administrator set
type AdminChecker func(email string) bool

// Manager drives sessions through the navigation state machine
type Manager struct {
	store    Store
	tokens   *auth.JWTService
	provider credentials.Provider
	isAdmin  AdminChecker
	logger   zerolog.Logger
	now      func() time.Time
}

// NewManager creates a session manager
func NewManager(store Store, tokens *auth.JWTService, provider credentials.Provider, isAdmin AdminChecker, logger zerolog.Logger) *Manager {
	return &Manager{
		store:    store,
		tokens:   tokens,
		provider: provider,
		isAdmin:  isAdmin,
		logger:   logger,
		now:      time.Now,
	}
}

// Ticket is a session together with the token that addresses it
type Ticket struct {
	Session   *Session
	Token     string
	ExpiresIn int
}

// Start opens a new session. When providerToken belongs to a signed-in
// administrator the session goes straight to the admin view, otherwise any
// such provider session is signed out and the session starts on the landing
// page.
func (m *Manager) Start(ctx context.Context, providerToken string) (*Ticket, error) {
	now := m.now().UTC()
	s := New(uuid.NewString(), now)

	if providerToken != "" {
		user, err := m.provider.Verify(ctx, providerToken)
		switch {
		case err == nil && m.isAdmin(user.Email):
			s.EnterAdmin(&models.Identity{UID: user.UID, Email: user.Email, DisplayName: models.RoleAdmin.Label()}, providerToken, now)
			m.logger.Info().Str("sessionId", s.ID).Str("email", user.Email).Msg("Administrator session detected at mount")
		case err == nil:
			m.signOut(ctx, providerToken)
			m.logger.Debug().Str("sessionId", s.ID).Msg("Signed out stray provider session")
		default:
			m.logger.Debug().Err(err).Msg("Ignoring unusable provider token")
		}
	}

	if err := m.store.Create(ctx, s); err != nil {
		m.logger.Error().Err(err).Msg("Error creating session")
		return nil, apperrors.NewOperationError("start session", err)
	}

	token, expiresIn, err := m.tokens.GenerateSessionToken(s.ID)
	if err != nil {
		return nil, err
	}
	return &Ticket{Session: s, Token: token, ExpiresIn: expiresIn}, nil
}

// Resolve maps a session token to its stored session
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}
	s, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, err
		}
		return nil, apperrors.NewOperationError("load session", err)
	}
	return s, nil
}

// Get returns a session by id
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

func (m *Manager) update(ctx context.Context, id string, fn UpdateFn) (*Session, error) {
	s, err := m.store.Update(ctx, id, fn)
	if err != nil {
		var ce *apperrors.CustomError
		if errors.As(err, &ce) || apperrors.Is(err, apperrors.ErrSessionNotFound, apperrors.ErrInvalidTransition, apperrors.ErrStaleSession) {
			return nil, err
		}
		m.logger.Error().Err(err).Str("sessionId", id).Msg("Error updating session")
		return nil, apperrors.NewOperationError("update session", err)
	}
	return s, nil
}

// SelectRole applies a role choice
func (m *Manager) SelectRole(ctx context.Context, id, role string) (*Session, error) {
	return m.update(ctx, id, func(s *Session) error {
		return s.SelectRole(role, m.now().UTC())
	})
}

// Attempt captures the session an authentication request started from
type Attempt struct {
	SessionID string
	Role      models.RoleType
	State     State
	Epoch     int64
}

// BeginAuth snapshots the session before a credential check runs. The
// result of the check is committed only while the session is unchanged.
func (m *Manager) BeginAuth(ctx context.Context, id string) (*Attempt, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State != StateAuthenticating && s.State != StateAdminSignIn {
		return nil, invalid(s, "authenticate")
	}
	return &Attempt{SessionID: s.ID, Role: s.Role, State: s.State, Epoch: s.Epoch}, nil
}

func (m *Manager) checkEpoch(s *Session, a *Attempt) error {
	if s.Epoch != a.Epoch {
		return fmt.Errorf("%w: epoch %d, attempt started at %d", apperrors.ErrStaleSession, s.Epoch, a.Epoch)
	}
	return nil
}

// dropStale discards the outcome of an attempt whose session moved on
func (m *Manager) dropStale(ctx context.Context, a *Attempt, providerToken string, err error) {
	if !errors.Is(err, apperrors.ErrStaleSession) {
		return
	}
	m.logger.Warn().Str("sessionId", a.SessionID).Int64("epoch", a.Epoch).Msg("Dropping authentication result for a session that changed")
	if providerToken != "" {
		m.signOut(ctx, providerToken)
	}
}

// CompleteAuth commits a successful credential check
func (m *Manager) CompleteAuth(ctx context.Context, a *Attempt, identity *models.Identity, providerToken string) (*Session, error) {
	s, err := m.update(ctx, a.SessionID, func(s *Session) error {
		if err := m.checkEpoch(s, a); err != nil {
			return err
		}
		return s.AuthSuccess(identity, a.Role, providerToken, m.now().UTC())
	})
	if err != nil {
		m.dropStale(ctx, a, providerToken, err)
		return nil, err
	}
	m.logger.Info().Str("sessionId", s.ID).Str("role", string(s.Role)).Str("uid", identity.UID).Msg("Session authenticated")
	return s, nil
}

// FailAuth records a failed credential check. The session stays on its form.
func (m *Manager) FailAuth(ctx context.Context, a *Attempt) error {
	_, err := m.update(ctx, a.SessionID, func(s *Session) error {
		if err := m.checkEpoch(s, a); err != nil {
			return err
		}
		return s.AuthFailure()
	})
	if errors.Is(err, apperrors.ErrStaleSession) {
		m.dropStale(ctx, a, "", err)
		return nil
	}
	return err
}

// CompleteAdmin commits a successful administrator sign-in
func (m *Manager) CompleteAdmin(ctx context.Context, a *Attempt, identity *models.Identity, providerToken string) (*Session, error) {
	s, err := m.update(ctx, a.SessionID, func(s *Session) error {
		if err := m.checkEpoch(s, a); err != nil {
			return err
		}
		if s.State != StateAdminSignIn {
			return invalid(s, "enter the admin view")
		}
		s.EnterAdmin(identity, providerToken, m.now().UTC())
		return nil
	})
	if err != nil {
		m.dropStale(ctx, a, providerToken, err)
		return nil, err
	}
	m.logger.Info().Str("sessionId", s.ID).Str("email", identity.Email).Msg("Administrator signed in")
	return s, nil
}

// BackToRoles returns from an authentication form to the role selector
func (m *Manager) BackToRoles(ctx context.Context, id string) (*Session, error) {
	return m.update(ctx, id, func(s *Session) error {
		return s.BackToRoles(m.now().UTC())
	})
}

// Back returns the session to the landing page and signs out its provider
// session.
func (m *Manager) Back(ctx context.Context, id string) (*Session, error) {
	var token string
	s, err := m.update(ctx, id, func(s *Session) error {
		token = s.ProviderToken
		s.Back(m.now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if token != "" {
		m.signOut(ctx, token)
	}
	return s, nil
}

// End signs out and deletes the session
func (m *Manager) End(ctx context.Context, id string) error {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil
		}
		return apperrors.NewOperationError("end session", err)
	}
	if s.ProviderToken != "" {
		m.signOut(ctx, s.ProviderToken)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.Error().Err(err).Str("sessionId", id).Msg("Error deleting session")
		return apperrors.NewOperationError("end session", err)
	}
	return nil
}

func (m *Manager) signOut(ctx context.Context, token string) {
	if err := m.provider.SignOut(ctx, token); err != nil {
		m.logger.Warn().Err(err).Msg("Error signing out provider session")
	}
}
