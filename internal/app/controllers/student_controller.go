package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/app/services"
	"github.com/yigit/eduportal/internal/middleware"
)

// StudentController serves the student portal
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Curricula lists every curriculum
// @Summary Browse curricula
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, tags or level"
// @Param level query string false "Level, All for any"
// @Success 200 {object} dto.APIResponse "Curricula"
// @Failure 500 {object} dto.ErrorResponse "Failed to fetch curricula"
// @Router /student/curricula [get]
func (c *StudentController) Curricula(ctx *gin.Context) {
	result, err := c.studentService.Curricula(ctx.Request.Context(), listing.ParseQuery(ctx, "level"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// Experts lists active domain experts
// @Summary Browse domain experts
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, specialization, domain or organization"
// @Param domain query string false "Domain, All for any"
// @Success 200 {object} dto.APIResponse{data=services.ExpertCatalog} "Experts with the list of domains"
// @Router /student/experts [get]
func (c *StudentController) Experts(ctx *gin.Context) {
	catalog, err := c.studentService.Experts(ctx.Request.Context(), listing.ParseQuery(ctx, "domain"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(catalog, ""))
}

// Seminars lists upcoming scheduled seminars
// @Summary Upcoming seminars
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, topic, teacher or tags"
// @Success 200 {object} dto.APIResponse "Seminars, soonest first"
// @Router /student/seminars [get]
func (c *StudentController) Seminars(ctx *gin.Context) {
	result, err := c.studentService.UpcomingSeminars(ctx.Request.Context(), listing.ParseQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// RegisterForSeminar takes one seat of a seminar
// @Summary Register for a seminar
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Seminar ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse} "Successfully registered for the seminar!"
// @Failure 404 {object} dto.ErrorResponse "Seminar not found"
// @Failure 409 {object} dto.ErrorResponse "Seminar is full. Registration closed."
// @Router /student/seminars/{id}/register [post]
func (c *StudentController) RegisterForSeminar(ctx *gin.Context) {
	seminar, err := c.studentService.RegisterForSeminar(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RegistrationResponse{
		SeminarID:       seminar.ID,
		Registrations:   seminar.Registrations.Int(),
		MaxParticipants: seminar.MaxParticipants.Int(),
	}, services.MsgSeminarRegistered))
}

// Internships lists active internships
// @Summary Browse internships
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, description, company or location"
// @Success 200 {object} dto.APIResponse "Internships"
// @Router /student/internships [get]
func (c *StudentController) Internships(ctx *gin.Context) {
	result, err := c.studentService.Internships(ctx.Request.Context(), listing.ParseQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// Hackathons lists active hackathons that have not ended
// @Summary Browse hackathons
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, description, company or theme"
// @Success 200 {object} dto.APIResponse "Hackathons, earliest start first"
// @Router /student/hackathons [get]
func (c *StudentController) Hackathons(ctx *gin.Context) {
	result, err := c.studentService.Hackathons(ctx.Request.Context(), listing.ParseQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// Universities lists universities
// @Summary Browse universities
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, short name or location"
// @Success 200 {object} dto.APIResponse "Universities"
// @Router /student/universities [get]
func (c *StudentController) Universities(ctx *gin.Context) {
	result, err := c.studentService.Universities(ctx.Request.Context(), listing.ParseQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}
