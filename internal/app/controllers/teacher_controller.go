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

// TeacherController serves the teacher portal
type TeacherController struct {
	teacherService services.TeacherService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService services.TeacherService) *TeacherController {
	return &TeacherController{teacherService: teacherService}
}

// GetProfile returns the signed-in teacher's profile
// @Summary Get teacher profile
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=services.TeacherProfile} "Profile"
// @Router /teacher/profile [get]
func (c *TeacherController) GetProfile(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	profile, err := c.teacherService.Profile(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// UpdateProfile saves the teacher profile form
// @Summary Update teacher profile
// @Tags teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TeacherProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=services.TeacherProfile} "Profile updated successfully!"
// @Failure 500 {object} dto.ErrorResponse "Failed to update profile"
// @Router /teacher/profile [put]
func (c *TeacherController) UpdateProfile(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var req dto.TeacherProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}
	profile, err := c.teacherService.UpdateProfile(ctx.Request.Context(), identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Profile updated successfully!"))
}

// Curricula lists curricula awaiting review
// @Summary Curricula awaiting review
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, tags or level"
// @Success 200 {object} dto.APIResponse "Draft and pending curricula"
// @Router /teacher/curricula [get]
func (c *TeacherController) Curricula(ctx *gin.Context) {
	result, err := c.teacherService.CurriculaForReview(ctx.Request.Context(), listing.ParseQuery(ctx, "level"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// Vote approves or rejects a curriculum
// @Summary Vote on a curriculum
// @Description A teacher holds at most one vote per curriculum; voting again replaces the earlier vote.
// @Tags teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Curriculum ID"
// @Param request body dto.VoteRequest true "approve or reject"
// @Success 200 {object} dto.APIResponse{data=models.VoteTally} "Curriculum approved!"
// @Failure 400 {object} dto.ErrorResponse "Invalid vote"
// @Failure 404 {object} dto.ErrorResponse "Curriculum not found"
// @Router /teacher/curricula/{id}/vote [post]
func (c *TeacherController) Vote(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var req dto.VoteRequest
	if !bindJSON(ctx, &req) {
		return
	}
	tally, err := c.teacherService.Vote(ctx.Request.Context(), identity, ctx.Param("id"), req.Vote)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	msg := "Curriculum approved!"
	if req.Vote == models.VoteReject {
		msg = "Curriculum rejected!"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tally, msg))
}

// Seminars lists the seminars the teacher hosts
// @Summary My seminars
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, topic, teacher or tags"
// @Param status query string false "Status, All for any"
// @Success 200 {object} dto.APIResponse "Seminars"
// @Router /teacher/seminars [get]
func (c *TeacherController) Seminars(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	result, err := c.teacherService.Seminars(ctx.Request.Context(), identity, listing.ParseQuery(ctx, "status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// CreateSeminar schedules a seminar hosted by the teacher
// @Summary Create a seminar
// @Tags teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Seminar true "Seminar"
// @Success 201 {object} dto.APIResponse{data=models.Seminar} "Seminar created successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please provide a valid Google Meet link"
// @Router /teacher/seminars [post]
func (c *TeacherController) CreateSeminar(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var seminar models.Seminar
	if !bindJSON(ctx, &seminar) {
		return
	}
	created, err := c.teacherService.CreateSeminar(ctx.Request.Context(), identity, &seminar)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Seminar created successfully!"))
}

// Events lists the curriculum calendar
// @Summary Calendar events
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title or description"
// @Param type query string false "Event type, All for any"
// @Success 200 {object} dto.APIResponse "Events by date"
// @Router /teacher/events [get]
func (c *TeacherController) Events(ctx *gin.Context) {
	result, err := c.teacherService.Events(ctx.Request.Context(), listing.ParseQuery(ctx, "type", "curriculumId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}
