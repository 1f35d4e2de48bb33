package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/services"
	"github.com/yigit/eduportal/internal/middleware"
)

// StreamController manages streams and the subjects of each semester
type StreamController struct {
	streamService services.StreamService
	streams       *editor[models.Stream]
	subjects      *editor[models.Subject]
}

// semesterParam reads the semester path segment; anything unparsable
// becomes 0 and is rejected by the range check.
func semesterParam(ctx *gin.Context) int {
	n, err := strconv.Atoi(ctx.Param("semester"))
	if err != nil {
		return 0
	}
	return n
}

// NewStreamController creates a new StreamController
func NewStreamController(streamService services.StreamService) *StreamController {
	return &StreamController{
		streamService: streamService,
		streams: &editor[models.Stream]{
			noun:    "Stream",
			filters: []string{"category"},
			list: func(ctx *gin.Context, q listing.Query) (listing.Result[*models.Stream], error) {
				return streamService.ListStreams(ctx.Request.Context(), q)
			},
			get: func(ctx *gin.Context, id string) (*models.Stream, error) {
				return streamService.GetStream(ctx.Request.Context(), id)
			},
			create: func(ctx *gin.Context, item *models.Stream) (*models.Stream, error) {
				return streamService.CreateStream(ctx.Request.Context(), item)
			},
			update: func(ctx *gin.Context, id string, item *models.Stream) (*models.Stream, error) {
				return streamService.UpdateStream(ctx.Request.Context(), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return streamService.DeleteStream(ctx.Request.Context(), id)
			},
		},
		subjects: &editor[models.Subject]{
			noun:    "Subject",
			idParam: "subjectId",
			get: func(ctx *gin.Context, id string) (*models.Subject, error) {
				return streamService.GetSubject(ctx.Request.Context(), ctx.Param("id"), semesterParam(ctx), id)
			},
			create: func(ctx *gin.Context, item *models.Subject) (*models.Subject, error) {
				return streamService.CreateSubject(ctx.Request.Context(), ctx.Param("id"), semesterParam(ctx), item)
			},
			update: func(ctx *gin.Context, id string, item *models.Subject) (*models.Subject, error) {
				return streamService.UpdateSubject(ctx.Request.Context(), ctx.Param("id"), semesterParam(ctx), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return streamService.DeleteSubject(ctx.Request.Context(), ctx.Param("id"), semesterParam(ctx), id)
			},
		},
	}
}

// ListStreams lists academic streams
// @Summary List streams
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, code or description"
// @Param category query string false "Category, All for any"
// @Success 200 {object} dto.APIResponse "Streams"
// @Failure 500 {object} dto.ErrorResponse "Failed to fetch streams"
// @Router /admin/streams [get]
func (c *StreamController) ListStreams(ctx *gin.Context) { c.streams.List(ctx) }

// GetStream returns one stream
// @Summary Get a stream
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Success 200 {object} dto.APIResponse{data=models.Stream} "Stream"
// @Failure 404 {object} dto.ErrorResponse "Stream not found"
// @Router /admin/streams/{id} [get]
func (c *StreamController) GetStream(ctx *gin.Context) { c.streams.Get(ctx) }

// CreateStream adds a stream
// @Summary Add a stream
// @Tags streams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Stream true "Stream"
// @Success 201 {object} dto.APIResponse{data=models.Stream} "Stream added successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Router /admin/streams [post]
func (c *StreamController) CreateStream(ctx *gin.Context) { c.streams.Create(ctx) }

// UpdateStream edits a stream
// @Summary Update a stream
// @Tags streams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Param request body models.Stream true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Stream} "Stream updated successfully!"
// @Router /admin/streams/{id} [put]
func (c *StreamController) UpdateStream(ctx *gin.Context) { c.streams.Update(ctx) }

// DeleteStream removes a stream and its subjects
// @Summary Delete a stream
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Stream deleted successfully!"
// @Router /admin/streams/{id} [delete]
func (c *StreamController) DeleteStream(ctx *gin.Context) { c.streams.Delete(ctx) }

// Semesters returns the semester slots of a stream with their subjects
// @Summary Semester view of a stream
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Success 200 {object} dto.APIResponse{data=services.SemesterView} "Semesters"
// @Failure 404 {object} dto.ErrorResponse "Stream not found"
// @Router /admin/streams/{id}/semesters [get]
func (c *StreamController) Semesters(ctx *gin.Context) {
	view, err := c.streamService.Semesters(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(view, ""))
}

// GetSubject returns one subject
// @Summary Get a subject
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Param semester path int true "Semester number"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/streams/{id}/semesters/{semester}/subjects/{subjectId} [get]
func (c *StreamController) GetSubject(ctx *gin.Context) { c.subjects.Get(ctx) }

// CreateSubject adds a subject to a semester
// @Summary Add a subject
// @Tags streams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Param semester path int true "Semester number"
// @Param request body models.Subject true "Subject"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject added successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Router /admin/streams/{id}/semesters/{semester}/subjects [post]
func (c *StreamController) CreateSubject(ctx *gin.Context) { c.subjects.Create(ctx) }

// UpdateSubject edits a subject
// @Summary Update a subject
// @Tags streams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Param semester path int true "Semester number"
// @Param subjectId path string true "Subject ID"
// @Param request body models.Subject true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject updated successfully!"
// @Router /admin/streams/{id}/semesters/{semester}/subjects/{subjectId} [put]
func (c *StreamController) UpdateSubject(ctx *gin.Context) { c.subjects.Update(ctx) }

// DeleteSubject removes a subject
// @Summary Delete a subject
// @Tags streams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stream ID"
// @Param semester path int true "Semester number"
// @Param subjectId path string true "Subject ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Subject deleted successfully!"
// @Router /admin/streams/{id}/semesters/{semester}/subjects/{subjectId} [delete]
func (c *StreamController) DeleteSubject(ctx *gin.Context) { c.subjects.Delete(ctx) }
