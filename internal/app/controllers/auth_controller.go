// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/services"
	"github.com/yigit/eduportal/internal/middleware"
)

// AuthController drives the navigation session: landing, role selection,
// the per-role sign-in forms and the administrator sign-in.
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// StartSession opens a navigation session
// @Summary Start a session
// @Description Opens a navigation session on the landing page. When the client still holds a provider session of an administrator, the session starts in the admin view; any other provider session is signed out.
// @Tags session
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest false "Provider session held by the client"
// @Success 201 {object} dto.APIResponse{data=dto.StartSessionResponse} "Session started"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /session [post]
func (c *AuthController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}

	ticket, err := c.authService.StartSession(ctx.Request.Context(), req.ProviderToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.StartSessionResponse{
		Token: dto.TokenResponse{
			AccessToken: ticket.Token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(ticket.ExpiresIn),
		},
		Session: toSessionResponse(ticket.Session),
	}, ""))
}

// GetSession returns the current navigation state
// @Summary Get the current session
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Current session"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /session [get]
func (c *AuthController) GetSession(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toSessionResponse(s), ""))
}

// SelectRole handles a role picked on the landing page or the role selector
// @Summary Select a role
// @Description Picks a portal role, "admin" for the administrator sign-in, or "role-selection" to open the role selector.
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SelectRoleRequest true "Role"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Role selected"
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Failure 409 {object} dto.ErrorResponse "Not available in the current step"
// @Router /session/role [post]
func (c *AuthController) SelectRole(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	var req dto.SelectRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	updated, err := c.authService.SelectRole(ctx.Request.Context(), s.ID, req.Role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toSessionResponse(updated), ""))
}

// BackToRoles leaves a sign-in form for the role selector
// @Summary Back to role selection
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Role selector"
// @Failure 409 {object} dto.ErrorResponse "Not available in the current step"
// @Router /session/roles [post]
func (c *AuthController) BackToRoles(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	updated, err := c.authService.BackToRoles(ctx.Request.Context(), s.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toSessionResponse(updated), ""))
}

// Back returns to the landing page and signs out
// @Summary Back to the landing page
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Landing page"
// @Router /session/back [post]
func (c *AuthController) Back(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	updated, err := c.authService.Back(ctx.Request.Context(), s.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toSessionResponse(updated), ""))
}

// EndSession signs out and discards the session
// @Summary End the session
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Session ended"
// @Router /session [delete]
func (c *AuthController) EndSession(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	if err := c.authService.EndSession(ctx.Request.Context(), s.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Signed out"))
}

// Login signs in with the scheme of the selected role
// @Summary Sign in
// @Description Industry partners sign in with companyId and password, every other role with email and password.
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful!"
// @Failure 400 {object} dto.ErrorResponse "Missing credentials"
// @Failure 401 {object} dto.ErrorResponse "Authentication failed"
// @Failure 409 {object} dto.ErrorResponse "Not available in the current step"
// @Router /session/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), s.ID, &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("sessionId", s.ID).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(authResponse(result), result.Message))
}

// Register creates an account for the selected role and signs it in
// @Summary Register
// @Description Self-registration is available to students and teachers only.
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterRequest true "Registration form"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Registration successful!"
// @Failure 400 {object} dto.ErrorResponse "Invalid form"
// @Failure 401 {object} dto.ErrorResponse "Provider rejected the account"
// @Failure 403 {object} dto.ErrorResponse "Role cannot self-register"
// @Failure 409 {object} dto.ErrorResponse "Email registered under another role"
// @Router /session/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	var req dto.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.Register(ctx.Request.Context(), s.ID, &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("sessionId", s.ID).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(authResponse(result), result.Message))
}

// AdminLogin signs in an administrator
// @Summary Administrator sign-in
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Administrator signed in"
// @Failure 401 {object} dto.ErrorResponse "Authentication failed"
// @Failure 403 {object} dto.ErrorResponse "Not an administrator"
// @Router /session/admin [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	var req dto.AdminLoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.AdminLogin(ctx.Request.Context(), s.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(authResponse(result), result.Message))
}

func authResponse(result *services.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Session:       toSessionResponse(result.Session),
		ProviderToken: result.ProviderToken,
		Message:       result.Message,
	}
}
