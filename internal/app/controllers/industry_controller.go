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

// IndustryController serves the industry partner portal
type IndustryController struct {
	industryService services.IndustryService
}

// NewIndustryController creates a new IndustryController
func NewIndustryController(industryService services.IndustryService) *IndustryController {
	return &IndustryController{industryService: industryService}
}

// companyQuery limits a list to the postings of the signed-in company
func companyQuery(ctx *gin.Context, company *models.Identity) listing.Query {
	q := listing.ParseQuery(ctx, "status")
	q.Filters["companyId"] = company.CompanyID
	return q
}

// Internships lists the company's internships
// @Summary My internships
// @Tags industry
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, description, company or location"
// @Param status query string false "Status, All for any"
// @Success 200 {object} dto.APIResponse "Internships"
// @Router /industry/internships [get]
func (c *IndustryController) Internships(ctx *gin.Context) {
	company, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	result, err := c.industryService.Internships(ctx.Request.Context(), companyQuery(ctx, company))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// CreateInternship posts an internship
// @Summary Post an internship
// @Tags industry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Internship true "Internship"
// @Success 201 {object} dto.APIResponse{data=models.Internship} "Internship created successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Router /industry/internships [post]
func (c *IndustryController) CreateInternship(ctx *gin.Context) {
	company, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var internship models.Internship
	if !bindJSON(ctx, &internship) {
		return
	}
	created, err := c.industryService.CreateInternship(ctx.Request.Context(), company, &internship)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Internship created successfully!"))
}

// Hackathons lists the company's hackathons
// @Summary My hackathons
// @Tags industry
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, description, company or theme"
// @Param status query string false "Status, All for any"
// @Success 200 {object} dto.APIResponse "Hackathons"
// @Router /industry/hackathons [get]
func (c *IndustryController) Hackathons(ctx *gin.Context) {
	company, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	result, err := c.industryService.Hackathons(ctx.Request.Context(), companyQuery(ctx, company))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// CreateHackathon posts a hackathon
// @Summary Post a hackathon
// @Tags industry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Hackathon true "Hackathon"
// @Success 201 {object} dto.APIResponse{data=models.Hackathon} "Hackathon created successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Router /industry/hackathons [post]
func (c *IndustryController) CreateHackathon(ctx *gin.Context) {
	company, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	var hackathon models.Hackathon
	if !bindJSON(ctx, &hackathon) {
		return
	}
	created, err := c.industryService.CreateHackathon(ctx.Request.Context(), company, &hackathon)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Hackathon created successfully!"))
}
