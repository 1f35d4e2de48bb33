package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/services"
	"github.com/yigit/eduportal/internal/middleware"
)

// DeveloperController serves the curriculum developer portal
type DeveloperController struct {
	developerService services.DeveloperService
	curricula        *editor[models.Curriculum]
	events           *editor[models.CalendarEvent]
}

// NewDeveloperController creates a new DeveloperController
func NewDeveloperController(developerService services.DeveloperService) *DeveloperController {
	return &DeveloperController{
		developerService: developerService,
		curricula: &editor[models.Curriculum]{
			noun:    "Curriculum",
			filters: []string{"status", "level"},
			list: func(ctx *gin.Context, q listing.Query) (listing.Result[*models.Curriculum], error) {
				return developerService.Curricula(ctx.Request.Context(), q)
			},
			get: func(ctx *gin.Context, id string) (*models.Curriculum, error) {
				return developerService.GetCurriculum(ctx.Request.Context(), id)
			},
			create: func(ctx *gin.Context, item *models.Curriculum) (*models.Curriculum, error) {
				return developerService.CreateCurriculum(ctx.Request.Context(), middleware.CurrentIdentity(ctx), item)
			},
			update: func(ctx *gin.Context, id string, item *models.Curriculum) (*models.Curriculum, error) {
				return developerService.UpdateCurriculum(ctx.Request.Context(), middleware.CurrentIdentity(ctx), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return developerService.DeleteCurriculum(ctx.Request.Context(), id)
			},
		},
		events: &editor[models.CalendarEvent]{
			noun:    "Event",
			filters: []string{"type", "curriculumId"},
			list: func(ctx *gin.Context, q listing.Query) (listing.Result[*models.CalendarEvent], error) {
				return developerService.Events(ctx.Request.Context(), q)
			},
			get: func(ctx *gin.Context, id string) (*models.CalendarEvent, error) {
				return developerService.GetEvent(ctx.Request.Context(), id)
			},
			create: func(ctx *gin.Context, item *models.CalendarEvent) (*models.CalendarEvent, error) {
				return developerService.CreateEvent(ctx.Request.Context(), middleware.CurrentIdentity(ctx), item)
			},
			update: func(ctx *gin.Context, id string, item *models.CalendarEvent) (*models.CalendarEvent, error) {
				return developerService.UpdateEvent(ctx.Request.Context(), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return developerService.DeleteEvent(ctx.Request.Context(), id)
			},
		},
	}
}

// ListCurricula lists every curriculum
// @Summary List curricula
// @Tags developer
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, code, tags or level"
// @Param status query string false "Status, All for any"
// @Param level query string false "Level, All for any"
// @Success 200 {object} dto.APIResponse "Curricula"
// @Router /developer/curricula [get]
func (c *DeveloperController) ListCurricula(ctx *gin.Context) { c.curricula.List(ctx) }

// GetCurriculum returns one curriculum
// @Summary Get a curriculum
// @Tags developer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Curriculum ID"
// @Success 200 {object} dto.APIResponse{data=models.Curriculum} "Curriculum"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /developer/curricula/{id} [get]
func (c *DeveloperController) GetCurriculum(ctx *gin.Context) { c.curricula.Get(ctx) }

// CreateCurriculum starts a curriculum draft
// @Summary Create a curriculum
// @Tags developer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Curriculum true "Curriculum"
// @Success 201 {object} dto.APIResponse{data=models.Curriculum} "Curriculum added successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Router /developer/curricula [post]
func (c *DeveloperController) CreateCurriculum(ctx *gin.Context) { c.curricula.Create(ctx) }

// UpdateCurriculum edits a curriculum
// @Summary Update a curriculum
// @Tags developer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Curriculum ID"
// @Param request body models.Curriculum true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Curriculum} "Curriculum updated successfully!"
// @Router /developer/curricula/{id} [put]
func (c *DeveloperController) UpdateCurriculum(ctx *gin.Context) { c.curricula.Update(ctx) }

// DeleteCurriculum removes a curriculum
// @Summary Delete a curriculum
// @Tags developer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Curriculum ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Curriculum deleted successfully!"
// @Router /developer/curricula/{id} [delete]
func (c *DeveloperController) DeleteCurriculum(ctx *gin.Context) { c.curricula.Delete(ctx) }

// ListEvents lists calendar events
// @Summary List calendar events
// @Tags developer
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title or description"
// @Param type query string false "Event type, All for any"
// @Param curriculumId query string false "Curriculum the event belongs to"
// @Success 200 {object} dto.APIResponse "Events by date"
// @Router /developer/events [get]
func (c *DeveloperController) ListEvents(ctx *gin.Context) { c.events.List(ctx) }

// GetEvent returns one calendar event
// @Summary Get a calendar event
// @Tags developer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=models.CalendarEvent} "Event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /developer/events/{id} [get]
func (c *DeveloperController) GetEvent(ctx *gin.Context) { c.events.Get(ctx) }

// CreateEvent adds a calendar event
// @Summary Create a calendar event
// @Tags developer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CalendarEvent true "Event"
// @Success 201 {object} dto.APIResponse{data=models.CalendarEvent} "Event added successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Router /developer/events [post]
func (c *DeveloperController) CreateEvent(ctx *gin.Context) { c.events.Create(ctx) }

// UpdateEvent edits a calendar event
// @Summary Update a calendar event
// @Tags developer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body models.CalendarEvent true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.CalendarEvent} "Event updated successfully!"
// @Router /developer/events/{id} [put]
func (c *DeveloperController) UpdateEvent(ctx *gin.Context) { c.events.Update(ctx) }

// DeleteEvent removes a calendar event
// @Summary Delete a calendar event
// @Tags developer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Event deleted successfully!"
// @Router /developer/events/{id} [delete]
func (c *DeveloperController) DeleteEvent(ctx *gin.Context) { c.events.Delete(ctx) }

// Votes returns the approve and reject counts of every curriculum
// @Summary Curriculum votes
// @Tags developer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]services.CurriculumVotes} "Vote tallies"
// @Router /developer/votes [get]
func (c *DeveloperController) Votes(ctx *gin.Context) {
	votes, err := c.developerService.Votes(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(votes, ""))
}
