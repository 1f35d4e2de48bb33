package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/logger"
)

// errorMapping maps a sentinel error to its response. message is used when
// the error carries no user facing message of its own.
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{apperrors.ErrSessionNotFound, http.StatusUnauthorized, dto.ErrorCodeSessionNotFound, "Session not found. Please start a new session."},
	{apperrors.ErrStaleSession, http.StatusConflict, dto.ErrorCodeStaleSession, "The session changed before this request completed"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "This action is not available in the current step"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrRoleNotRegistrable, http.StatusForbidden, dto.ErrorCodeForbidden, "Registration is not available for this role"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled"},
	{apperrors.ErrAuthFailed, http.StatusUnauthorized, dto.ErrorCodeAuthFailed, "Authentication failed. Please try again."},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrSeminarFull, http.StatusConflict, dto.ErrorCodeSeminarFull, "Seminar is full. Registration closed."},
	{apperrors.ErrEmailRoleConflict, http.StatusConflict, dto.ErrorCodeConflict, "Email is registered under another role"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrStoreFailure, http.StatusInternalServerError, dto.ErrorCodeStoreError, "Something went wrong. Please try again."},
}

// ErrorStatus returns the HTTP status and error detail for err
func ErrorStatus(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			detail := dto.NewErrorDetail(m.code, apperrors.UserMessage(err, m.message))
			var ce *apperrors.CustomError
			if errors.As(err, &ce) && ce.Details != nil {
				detail.WithDetails(ce.Details)
			}
			return m.status, detail
		}
	}
	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.FullPath()).
			Str("traceId", c.GetString(TraceContextKey)).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
