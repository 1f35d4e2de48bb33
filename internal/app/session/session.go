// Package session holds the navigation state machine that decides which
// portal a client sees: landing, role selection, per-role authentication,
// the authenticated portal, and the administrator path.
package session

import (
	"fmt"
	"time"

	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

// State is a navigation state
type State string

const (
	StateLanding        State = "landing"
	StateRoleSelected   State = "role_selected"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateAdminSignIn    State = "admin_sign_in"
	StateAdmin          State = "admin"
)

// Session is the navigation state of one client
type Session struct {
	ID            string           `json:"id"`
	State         State            `json:"state"`
	Role          models.RoleType  `json:"role,omitempty"`
	Identity      *models.Identity `json:"identity,omitempty"`
	ProviderToken string           `json:"providerToken,omitempty"`
	Epoch         int64            `json:"epoch"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// New returns a session in the landing state
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateLanding,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAuthenticated reports whether a portal or the admin view is mounted
func (s *Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated || s.State == StateAdmin
}

// EffectiveRole is the role whose views the session may use
func (s *Session) EffectiveRole() models.RoleType {
	if s.State == StateAdmin {
		return models.RoleAdmin
	}
	if s.State == StateAuthenticated {
		return s.Role
	}
	return ""
}

func (s *Session) advance(to State, now time.Time) {
	s.State = to
	s.Epoch++
	s.UpdatedAt = now
}

func (s *Session) clear() {
	s.Role = ""
	s.Identity = nil
	s.ProviderToken = ""
}

func invalid(s *Session, action string) error {
	return fmt.Errorf("%w: cannot %s from %s", apperrors.ErrInvalidTransition, action, s.State)
}

// SelectRole handles a role picked on the landing page or role selector.
// The admin role opens the administrator sign-in form and the role-selection
// sentinel returns to the selector without a role.
func (s *Session) SelectRole(role string, now time.Time) error {
	if s.State != StateLanding && s.State != StateRoleSelected {
		return invalid(s, "select a role")
	}

	if role == models.RoleSelection {
		s.clear()
		s.advance(StateRoleSelected, now)
		return nil
	}

	r, ok := models.ParseRole(role)
	if !ok {
		return apperrors.NewValidationError("Please select a valid role")
	}

	s.clear()
	if r == models.RoleAdmin {
		s.advance(StateAdminSignIn, now)
		return nil
	}
	s.Role = r
	s.advance(StateAuthenticating, now)
	return nil
}

// AuthSuccess mounts the portal of the selected role
func (s *Session) AuthSuccess(identity *models.Identity, role models.RoleType, providerToken string, now time.Time) error {
	if s.State != StateAuthenticating {
		return invalid(s, "complete authentication")
	}
	if role != s.Role {
		return fmt.Errorf("%w: authenticated as %s while %s was selected", apperrors.ErrInvalidTransition, role, s.Role)
	}
	s.Identity = identity
	s.ProviderToken = providerToken
	s.advance(StateAuthenticated, now)
	return nil
}

// AuthFailure keeps the session on the authentication form
func (s *Session) AuthFailure() error {
	if s.State != StateAuthenticating && s.State != StateAdminSignIn {
		return invalid(s, "fail authentication")
	}
	return nil
}

// BackToRoles leaves an authentication form for the role selector
func (s *Session) BackToRoles(now time.Time) error {
	if s.State != StateAuthenticating && s.State != StateAdminSignIn {
		return invalid(s, "return to role selection")
	}
	s.clear()
	s.advance(StateRoleSelected, now)
	return nil
}

// Back returns to the landing page from any state
func (s *Session) Back(now time.Time) {
	s.clear()
	s.advance(StateLanding, now)
}

// EnterAdmin mounts the administrator view
func (s *Session) EnterAdmin(identity *models.Identity, providerToken string, now time.Time) {
	s.Role = models.RoleAdmin
	s.Identity = identity
	s.ProviderToken = providerToken
	s.advance(StateAdmin, now)
}
