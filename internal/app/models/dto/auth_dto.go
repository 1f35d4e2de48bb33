package dto

import "github.com/yigit/eduportal/internal/app/models"

// StartSessionRequest opens a navigation session. ProviderToken is the
// credential provider session the client still holds, if any.
type StartSessionRequest struct {
	ProviderToken string `json:"providerToken"`
}

// SelectRoleRequest picks a role on the landing page or role selector
type SelectRoleRequest struct {
	Role string `json:"role" binding:"required" example:"student"`
}

// LoginRequest carries the credentials of every sign-in scheme. Industry
// partners sign in with CompanyID, everyone else with Email.
type LoginRequest struct {
	Email     string `json:"email" example:"student@uni.edu"`
	CompanyID string `json:"companyId,omitempty" example:"ACME1"`
	Password  string `json:"password" example:"secret1"`
}

// RegisterRequest is the self-registration form
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName"`
	Institution     string `json:"institution"`
	Department      string `json:"department"`
	Phone           string `json:"phone"`
	StudentID       string `json:"studentId,omitempty"`
	EmployeeID      string `json:"employeeId,omitempty"`
	CompanyID       string `json:"companyId,omitempty"`
	DeveloperID     string `json:"developerId,omitempty"`
}

// AdminLoginRequest is the administrator sign-in form
type AdminLoginRequest struct {
	Email    string `json:"email" example:"admin@gmail.com"`
	Password string `json:"password"`
}

// TokenResponse represents session token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// SessionResponse is the navigation state shown to the client
type SessionResponse struct {
	ID        string           `json:"id"`
	State     string           `json:"state" example:"authenticating"`
	Role      models.RoleType  `json:"role,omitempty" example:"student"`
	RoleLabel string           `json:"roleLabel,omitempty" example:"Student"`
	Identity  *models.Identity `json:"identity,omitempty"`
	Epoch     int64            `json:"epoch"`
}

// StartSessionResponse is returned when a session is opened
type StartSessionResponse struct {
	Token   TokenResponse   `json:"token"`
	Session SessionResponse `json:"session"`
}

// AuthResponse represents a successful sign-in or registration
type AuthResponse struct {
	Session       SessionResponse `json:"session"`
	ProviderToken string          `json:"providerToken,omitempty"`
	Message       string          `json:"message" example:"Welcome back, Acme!"`
}
