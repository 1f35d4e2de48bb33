package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/session"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

func validStudent() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:           "ada@uni.edu",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "Ada Lovelace",
		Institution:     "Uni",
		Department:      "CS",
		StudentID:       "S-1",
	}
}

func TestAuthService_RegisterValidationOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		role    string
		mutate  func(r *dto.RegisterRequest)
		message string
	}{
		{"missing password", "student", func(r *dto.RegisterRequest) { r.Password = "" }, "Email and password are required"},
		{"missing institution", "student", func(r *dto.RegisterRequest) { r.Institution = "" }, "Please fill in all required fields"},
		{"confirmation differs", "student", func(r *dto.RegisterRequest) { r.ConfirmPassword = "secret2" }, "Passwords do not match"},
		{"short password", "student", func(r *dto.RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, "Password must be at least 6 characters"},
		{"student id", "student", func(r *dto.RegisterRequest) { r.StudentID = "" }, "Student ID is required"},
		{"employee id", "teacher", func(r *dto.RegisterRequest) {}, "Employee ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := env.sessionFor(t, tt.role)
			req := validStudent()
			tt.mutate(req)

			_, err := env.auth.Register(ctx, id, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Equal(t, tt.message, err.Error())

			s, err := env.sessions.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, session.StateAuthenticating, s.State)
		})
	}

	users, err := env.repos.Users.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAuthService_RegisterStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.sessionFor(t, "student")

	res, err := env.auth.Register(ctx, id, validStudent())
	require.NoError(t, err)
	assert.Equal(t, MsgRegistrationSuccess, res.Message)
	assert.Equal(t, session.StateAuthenticated, res.Session.State)
	assert.Equal(t, models.RoleStudent, res.Session.Role)
	assert.NotEmpty(t, res.ProviderToken)

	profile, err := env.repos.Users.GetByUID(ctx, res.Session.Identity.UID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.FullName)
	assert.Equal(t, models.RoleStudent, profile.Role)
	assert.Equal(t, "S-1", profile.StudentID)
	assert.Equal(t, "active", profile.Status)
	assert.Empty(t, profile.EmployeeID)
}

func TestAuthService_RegisterRejectsEmailUnderOtherRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, env.sessionFor(t, "student"), validStudent())
	require.NoError(t, err)

	req := validStudent()
	req.EmployeeID = "E-9"
	_, err = env.auth.Register(ctx, env.sessionFor(t, "teacher"), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmailRoleConflict)
	assert.Equal(t, "This email is already registered as a student. Each email can only be associated with one role.", err.Error())

	// same role falls through to the provider
	_, err = env.auth.Register(ctx, env.sessionFor(t, "student"), validStudent())
	require.Error(t, err)
	assert.Equal(t, "Email is already registered", err.Error())
}

func TestAuthService_RegisterDirectLookupRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, role := range []string{"industry", "curriculum-developer"} {
		_, err := env.auth.Register(ctx, env.sessionFor(t, role), validStudent())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrRoleNotRegistrable)
	}
	_, err := env.auth.Register(ctx, env.sessionFor(t, "industry"), &dto.RegisterRequest{})
	assert.Equal(t, "Industry accounts cannot be registered through this form. Please contact your administrator.", err.Error())
}

func TestAuthService_LoginStandard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, env.sessionFor(t, "student"), validStudent())
	require.NoError(t, err)

	id := env.sessionFor(t, "student")
	_, err = env.auth.Login(ctx, id, &dto.LoginRequest{Email: "ada@uni.edu"})
	assert.Equal(t, "Email and password are required", err.Error())

	_, err = env.auth.Login(ctx, id, &dto.LoginRequest{Email: "ada@uni.edu", Password: "wrong1"})
	assert.Equal(t, "Incorrect password", err.Error())

	res, err := env.auth.Login(ctx, id, &dto.LoginRequest{Email: "ada@uni.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, MsgLoginSuccess, res.Message)
	assert.Equal(t, "Ada Lovelace", res.Session.Identity.DisplayName)
}

func TestAuthService_LoginIndustry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.put(t, "industries/ind1", map[string]any{
		"companyName": "Acme", "email": "hr@acme.io", "companyId": "ACME01", "password": "industry123", "status": "Active",
	})
	env.put(t, "industries/ind2", map[string]any{
		"companyName": "Dormant", "companyId": "DORM01", "password": "industry123", "status": "Inactive",
	})

	id := env.sessionFor(t, "industry")
	_, err := env.auth.Login(ctx, id, &dto.LoginRequest{Email: "hr@acme.io", Password: "industry123"})
	assert.Equal(t, "Company ID and password are required", err.Error())

	_, err = env.auth.Login(ctx, id, &dto.LoginRequest{CompanyID: "DORM01", Password: "industry123"})
	assert.Equal(t, "Invalid company ID or password, or account is inactive", err.Error())

	res, err := env.auth.Login(ctx, id, &dto.LoginRequest{CompanyID: "ACME01", Password: "industry123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleIndustry, res.Session.Role)
	assert.Equal(t, "ind1", res.Session.Identity.UID)
	assert.Equal(t, "Acme", res.Session.Identity.DisplayName)
	assert.Equal(t, "ACME01", res.Session.Identity.CompanyID)
	assert.Empty(t, res.ProviderToken)
}

func TestAuthService_LoginDeveloperByEmailOrID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.put(t, "curriculum-developers/dev1", map[string]any{
		"fullName": "Grace", "email": "grace@dev.io", "developerId": "DEV-7", "password": "devpass", "status": "Active",
	})

	res, err := env.auth.Login(ctx, env.sessionFor(t, "curriculum-developer"), &dto.LoginRequest{Email: "Grace@Dev.io", Password: "devpass"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", res.Session.Identity.DisplayName)
	assert.Equal(t, "DEV-7", res.Session.Identity.DeveloperID)

	_, err = env.auth.Login(ctx, env.sessionFor(t, "curriculum-developer"), &dto.LoginRequest{Email: "DEV-7", Password: "devpass"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, env.sessionFor(t, "curriculum-developer"), &dto.LoginRequest{Email: "grace@dev.io", Password: "nope"})
	assert.Equal(t, "Invalid email or password, or account is inactive", err.Error())
}

func TestAuthService_LoginRequiresAuthenticatingState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ticket, err := env.auth.StartSession(ctx, "")
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, ticket.Session.ID, &dto.LoginRequest{Email: "a@b.io", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	adminID := env.sessionFor(t, "admin")
	_, err = env.auth.Login(ctx, adminID, &dto.LoginRequest{Email: "a@b.io", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestAuthService_AdminLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.provider.EnsureAccount(ctx, "admin@gmail.com", "admin123")
	require.NoError(t, err)
	_, err = env.provider.EnsureAccount(ctx, "teacher@uni.edu", "secret1")
	require.NoError(t, err)

	id := env.sessionFor(t, "admin")
	_, err = env.auth.AdminLogin(ctx, id, &dto.AdminLoginRequest{Email: "teacher@uni.edu", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	res, err := env.auth.AdminLogin(ctx, id, &dto.AdminLoginRequest{Email: "admin@gmail.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, session.StateAdmin, res.Session.State)
	assert.Equal(t, models.RoleAdmin, res.Session.EffectiveRole())
}

func TestAuthService_BackSignsOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res, err := env.auth.Register(ctx, env.sessionFor(t, "student"), validStudent())
	require.NoError(t, err)

	s, err := env.auth.Back(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateLanding, s.State)
	assert.Nil(t, s.Identity)

	_, err = env.provider.Verify(ctx, res.ProviderToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
