package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/app/session"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/credentials"
	"github.com/yigit/eduportal/internal/pkg/docstore"
	"github.com/yigit/eduportal/internal/pkg/helpers"
	"github.com/yigit/eduportal/internal/pkg/validation"
)

// Authentication messages
const (
	MsgLoginSuccess        = "Login successful!"
	MsgRegistrationSuccess = "Registration successful!"
	msgCredentialsRequired = "Email and password are required"
	msgUniquenessFailed    = "Error checking email uniqueness. Please try again."
	msgNotAdministrator    = "This account does not have administrator access"
)

// AuthResult is the outcome of a successful sign-in or registration
type AuthResult struct {
	Session       *session.Session
	ProviderToken string
	Message       string
}

// AuthService drives the navigation session through role selection and the
// per-role credential schemes.
type AuthService interface {
	StartSession(ctx context.Context, providerToken string) (*session.Ticket, error)
	SelectRole(ctx context.Context, sessionID, role string) (*session.Session, error)
	BackToRoles(ctx context.Context, sessionID string) (*session.Session, error)
	Back(ctx context.Context, sessionID string) (*session.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	Login(ctx context.Context, sessionID string, req *dto.LoginRequest) (*AuthResult, error)
	Register(ctx context.Context, sessionID string, req *dto.RegisterRequest) (*AuthResult, error)
	AdminLogin(ctx context.Context, sessionID string, req *dto.AdminLoginRequest) (*AuthResult, error)
}

type authServiceImpl struct {
	sessions *session.Manager
	provider credentials.Provider
	store    docstore.Store
	userRepo *repositories.UserRepository
	isAdmin  session.AdminChecker
	logger   zerolog.Logger
	now      Clock
}

// NewAuthService creates a new AuthService
func NewAuthService(
	sessions *session.Manager,
	provider credentials.Provider,
	repos *repositories.Repositories,
	isAdmin session.AdminChecker,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		sessions: sessions,
		provider: provider,
		store:    repos.Store,
		userRepo: repos.Users,
		isAdmin:  isAdmin,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authServiceImpl) StartSession(ctx context.Context, providerToken string) (*session.Ticket, error) {
	return s.sessions.Start(ctx, strings.TrimSpace(providerToken))
}

func (s *authServiceImpl) SelectRole(ctx context.Context, sessionID, role string) (*session.Session, error) {
	return s.sessions.SelectRole(ctx, sessionID, strings.TrimSpace(role))
}

func (s *authServiceImpl) BackToRoles(ctx context.Context, sessionID string) (*session.Session, error) {
	return s.sessions.BackToRoles(ctx, sessionID)
}

func (s *authServiceImpl) Back(ctx context.Context, sessionID string) (*session.Session, error) {
	return s.sessions.Back(ctx, sessionID)
}

func (s *authServiceImpl) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.End(ctx, sessionID)
}

// beginRoleAuth starts an attempt on a session that is on the role form
func (s *authServiceImpl) beginRoleAuth(ctx context.Context, sessionID string) (*session.Attempt, error) {
	attempt, err := s.sessions.BeginAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if attempt.State != session.StateAuthenticating {
		return nil, fmt.Errorf("%w: use the administrator sign-in", apperrors.ErrInvalidTransition)
	}
	return attempt, nil
}

// fail records a failed attempt and returns err
func (s *authServiceImpl) fail(ctx context.Context, attempt *session.Attempt, err error) error {
	if ferr := s.sessions.FailAuth(ctx, attempt); ferr != nil {
		s.logger.Warn().Err(ferr).Str("sessionId", attempt.SessionID).Msg("Could not record failed authentication")
	}
	return err
}

// Login authenticates with the scheme of the selected role
func (s *authServiceImpl) Login(ctx context.Context, sessionID string, req *dto.LoginRequest) (*AuthResult, error) {
	attempt, err := s.beginRoleAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	scheme, err := SchemeFor(attempt.Role)
	if err != nil {
		return nil, err
	}

	var identity *models.Identity
	var providerToken string

	switch sc := scheme.(type) {
	case StandardCredential:
		if err := validation.NewForm().Require(msgCredentialsRequired, req.Email, req.Password).Err(); err != nil {
			return nil, s.fail(ctx, attempt, err)
		}
		provSession, err := s.provider.SignIn(ctx, req.Email, req.Password)
		if err != nil {
			s.logger.Info().Str("role", string(attempt.Role)).Str("code", credentials.CodeOf(err)).Msg("Sign-in rejected")
			return nil, s.fail(ctx, attempt, err)
		}
		identity = s.standardIdentity(ctx, provSession.User)
		providerToken = provSession.Token

	case DirectLookupCredential:
		identifier := req.Email
		if sc.Role == models.RoleIndustry {
			identifier = req.CompanyID
		}
		if err := validation.NewForm().Require(sc.MissingMessage, identifier, req.Password).Err(); err != nil {
			return nil, s.fail(ctx, attempt, err)
		}
		identity, err = sc.Lookup(ctx, s.store, identifier, req.Password)
		if err != nil {
			if errors.Is(err, apperrors.ErrStoreFailure) {
				s.logger.Error().Err(err).Str("role", string(attempt.Role)).Msg("Error looking up credentials")
			} else {
				s.logger.Info().Str("role", string(attempt.Role)).Msg("Direct lookup sign-in rejected")
			}
			return nil, s.fail(ctx, attempt, err)
		}
	}

	sess, err := s.sessions.CompleteAuth(ctx, attempt, identity, providerToken)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Session: sess, ProviderToken: providerToken, Message: MsgLoginSuccess}, nil
}

// standardIdentity builds the identity of a provider user, naming it after
// the stored profile when there is one.
func (s *authServiceImpl) standardIdentity(ctx context.Context, user credentials.User) *models.Identity {
	identity := &models.Identity{UID: user.UID, Email: user.Email, DisplayName: user.Email}
	profile, err := s.userRepo.GetByUID(ctx, user.UID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Warn().Err(err).Str("uid", user.UID).Msg("Could not load profile for display name")
		}
		return identity
	}
	if profile.FullName != "" {
		identity.DisplayName = profile.FullName
	}
	return identity
}

func (s *authServiceImpl) validateRegistration(role models.RoleType, req *dto.RegisterRequest) error {
	return validation.NewForm().
		Require(msgCredentialsRequired, req.Email, req.Password).
		Require(validation.MsgRequiredFields, req.FullName, req.Institution).
		Check(req.Password == req.ConfirmPassword, "Passwords do not match").
		MinLength(req.Password, credentials.MinPasswordLength, "Password must be at least 6 characters").
		Check(role != models.RoleStudent || strings.TrimSpace(req.StudentID) != "", "Student ID is required").
		Check(role != models.RoleTeacher || strings.TrimSpace(req.EmployeeID) != "", "Employee ID is required").
		Err()
}

// checkEmailRole scans every profile for the email registered under a
// different role. The scan and the later write are not atomic.
func (s *authServiceImpl) checkEmailRole(ctx context.Context, email string, role models.RoleType) error {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error checking email uniqueness")
		return &apperrors.CustomError{
			Err:     fmt.Errorf("%w: %w", apperrors.ErrStoreFailure, err),
			Message: msgUniquenessFailed,
		}
	}
	email = strings.TrimSpace(email)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) && u.Role != role {
			conflict := &apperrors.CustomError{
				Err:     apperrors.ErrEmailRoleConflict,
				Message: fmt.Sprintf("This email is already registered as a %s. Each email can only be associated with one role.", u.Role),
			}
			return conflict.WithDetails(map[string]any{"registeredRole": string(u.Role)})
		}
	}
	return nil
}

// Register creates a provider account and profile for the selected role
func (s *authServiceImpl) Register(ctx context.Context, sessionID string, req *dto.RegisterRequest) (*AuthResult, error) {
	attempt, err := s.beginRoleAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	role := attempt.Role

	if _, ok := mustScheme(role).(DirectLookupCredential); ok {
		return nil, s.fail(ctx, attempt, &apperrors.CustomError{
			Err:     apperrors.ErrRoleNotRegistrable,
			Message: fmt.Sprintf("%s accounts cannot be registered through this form. Please contact your administrator.", role.Label()),
		})
	}

	if err := s.validateRegistration(role, req); err != nil {
		return nil, s.fail(ctx, attempt, err)
	}
	if err := s.checkEmailRole(ctx, req.Email, role); err != nil {
		return nil, s.fail(ctx, attempt, err)
	}

	provSession, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Info().Str("role", string(role)).Str("code", credentials.CodeOf(err)).Msg("Registration rejected")
		return nil, s.fail(ctx, attempt, err)
	}
	uid := provSession.User.UID

	profile := map[string]any{
		"uid":         uid,
		"email":       strings.TrimSpace(req.Email),
		"fullName":    req.FullName,
		"role":        string(role),
		"institution": req.Institution,
		"department":  req.Department,
		"phone":       req.Phone,
		"createdAt":   helpers.Timestamp(s.now()),
		"status":      "active",
	}
	switch role {
	case models.RoleStudent:
		profile["studentId"] = req.StudentID
	case models.RoleTeacher:
		profile["employeeId"] = req.EmployeeID
	}
	if err := s.userRepo.Merge(ctx, uid, profile); err != nil {
		_ = s.provider.SignOut(ctx, provSession.Token)
		return nil, s.fail(ctx, attempt, storeErr("create user profile", err))
	}
	s.logger.Info().Str("uid", uid).Str("role", string(role)).Msg("User registered")

	identity := &models.Identity{UID: uid, Email: provSession.User.Email, DisplayName: req.FullName}
	sess, err := s.sessions.CompleteAuth(ctx, attempt, identity, provSession.Token)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Session: sess, ProviderToken: provSession.Token, Message: MsgRegistrationSuccess}, nil
}

func mustScheme(role models.RoleType) Scheme {
	scheme, err := SchemeFor(role)
	if err != nil {
		return StandardCredential{}
	}
	return scheme
}

// AdminLogin signs an administrator in through the provider. Accounts outside
// the administrator set are signed out again.
func (s *authServiceImpl) AdminLogin(ctx context.Context, sessionID string, req *dto.AdminLoginRequest) (*AuthResult, error) {
	attempt, err := s.sessions.BeginAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if attempt.State != session.StateAdminSignIn {
		return nil, fmt.Errorf("%w: select the admin role first", apperrors.ErrInvalidTransition)
	}
	if err := validation.NewForm().Require(msgCredentialsRequired, req.Email, req.Password).Err(); err != nil {
		return nil, s.fail(ctx, attempt, err)
	}

	provSession, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, attempt, err)
	}
	if !s.isAdmin(provSession.User.Email) {
		_ = s.provider.SignOut(ctx, provSession.Token)
		s.logger.Warn().Str("email", provSession.User.Email).Msg("Administrator sign-in by a non-administrator")
		return nil, s.fail(ctx, attempt, apperrors.NewForbiddenError(msgNotAdministrator))
	}

	identity := &models.Identity{UID: provSession.User.UID, Email: provSession.User.Email, DisplayName: models.RoleAdmin.Label()}
	sess, err := s.sessions.CompleteAdmin(ctx, attempt, identity, provSession.Token)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Session: sess, ProviderToken: provSession.Token, Message: MsgLoginSuccess}, nil
}
