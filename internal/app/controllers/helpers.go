package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/session"
	"github.com/yigit/eduportal/internal/middleware"
)

// MsgDeletionNotConfirmed is returned when a delete request lacks ?confirm=true
const MsgDeletionNotConfirmed = "Deletion must be confirmed"

// bindJSON binds the request body into obj and writes a 400 on failure
func bindJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be empty
func bindOptionalJSON(ctx *gin.Context, obj any) bool {
	err := ctx.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
	return false
}

// deletionConfirmed enforces the confirmation step of every delete
func deletionConfirmed(ctx *gin.Context) bool {
	if confirmed, _ := strconv.ParseBool(ctx.Query("confirm")); confirmed {
		return true
	}
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, MsgDeletionNotConfirmed).
		WithDetails("Repeat the request with ?confirm=true")
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
	return false
}

// currentSession returns the session loaded by the auth middleware
func currentSession(ctx *gin.Context) (*session.Session, bool) {
	s, ok := middleware.CurrentSession(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return s, true
}

// currentIdentity returns the signed-in principal of the request
func currentIdentity(ctx *gin.Context) (*models.Identity, bool) {
	identity := middleware.CurrentIdentity(ctx)
	if identity == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Sign in to access this view")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return identity, true
}

func toSessionResponse(s *session.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:       s.ID,
		State:    string(s.State),
		Role:     s.Role,
		Identity: s.Identity,
		Epoch:    s.Epoch,
	}
	if s.Role != "" {
		resp.RoleLabel = s.Role.Label()
	}
	return resp
}

// editor serves the list/editor pattern of one entity. Handlers receive the
// gin context so that writes can be stamped with the caller's identity.
type editor[T any] struct {
	noun string
	// createdMsg replaces the "{noun} added successfully!" message
	createdMsg string
	idParam    string
	filters    []string
	list       func(ctx *gin.Context, q listing.Query) (listing.Result[*T], error)
	get        func(ctx *gin.Context, id string) (*T, error)
	create     func(ctx *gin.Context, item *T) (*T, error)
	update     func(ctx *gin.Context, id string, item *T) (*T, error)
	remove     func(ctx *gin.Context, id string) error
	// view strips fields that must not leave the server from the single
	// record Get serves. The list, create and update operations are expected
	// to return already stripped records.
	view func(*T) *T
}

func (e *editor[T]) id(ctx *gin.Context) string {
	if e.idParam == "" {
		return ctx.Param("id")
	}
	return ctx.Param(e.idParam)
}

// List writes the filtered list
func (e *editor[T]) List(ctx *gin.Context) {
	result, err := e.list(ctx, listing.ParseQuery(ctx, e.filters...))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// Get writes one record
func (e *editor[T]) Get(ctx *gin.Context) {
	item, err := e.get(ctx, e.id(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if e.view != nil {
		item = e.view(item)
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(item, ""))
}

// Create stores a new record from the request body
func (e *editor[T]) Create(ctx *gin.Context) {
	item := new(T)
	if !bindJSON(ctx, item) {
		return
	}
	created, err := e.create(ctx, item)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	msg := e.createdMsg
	if msg == "" {
		msg = e.noun + " added successfully!"
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, msg))
}

// Update overlays the request body on the stored record and saves it.
// Fields the client leaves out keep their stored values.
func (e *editor[T]) Update(ctx *gin.Context) {
	id := e.id(ctx)
	existing, err := e.get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !bindJSON(ctx, existing) {
		return
	}
	updated, err := e.update(ctx, id, existing)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(updated, e.noun+" updated successfully!"))
}

// Delete removes a record once the client confirmed it
func (e *editor[T]) Delete(ctx *gin.Context) {
	if !deletionConfirmed(ctx) {
		return
	}
	if err := e.remove(ctx, e.id(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, e.noun+" deleted successfully!"))
}
