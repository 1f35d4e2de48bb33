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

// AdminController serves the administrator directory editors
type AdminController struct {
	adminService services.AdminService
	industries   *editor[models.Industry]
	developers   *editor[models.CurriculumDeveloper]
	experts      *editor[models.DomainExpert]
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
		industries: &editor[models.Industry]{
			noun:    "Industry",
			filters: []string{"industryType", "status"},
			list: func(ctx *gin.Context, q listing.Query) (listing.Result[*models.Industry], error) {
				return adminService.ListIndustries(ctx.Request.Context(), q)
			},
			get: func(ctx *gin.Context, id string) (*models.Industry, error) {
				return adminService.GetIndustry(ctx.Request.Context(), id)
			},
			create: func(ctx *gin.Context, item *models.Industry) (*models.Industry, error) {
				return adminService.CreateIndustry(ctx.Request.Context(), item)
			},
			update: func(ctx *gin.Context, id string, item *models.Industry) (*models.Industry, error) {
				return adminService.UpdateIndustry(ctx.Request.Context(), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return adminService.DeleteIndustry(ctx.Request.Context(), id)
			},
			view: (*models.Industry).Public,
		},
		developers: &editor[models.CurriculumDeveloper]{
			noun:    "Curriculum developer",
			filters: []string{"specialization", "status"},
			list: func(ctx *gin.Context, q listing.Query) (listing.Result[*models.CurriculumDeveloper], error) {
				return adminService.ListDevelopers(ctx.Request.Context(), q)
			},
			get: func(ctx *gin.Context, id string) (*models.CurriculumDeveloper, error) {
				return adminService.GetDeveloper(ctx.Request.Context(), id)
			},
			create: func(ctx *gin.Context, item *models.CurriculumDeveloper) (*models.CurriculumDeveloper, error) {
				return adminService.CreateDeveloper(ctx.Request.Context(), item)
			},
			update: func(ctx *gin.Context, id string, item *models.CurriculumDeveloper) (*models.CurriculumDeveloper, error) {
				return adminService.UpdateDeveloper(ctx.Request.Context(), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return adminService.DeleteDeveloper(ctx.Request.Context(), id)
			},
			view: (*models.CurriculumDeveloper).Public,
		},
		experts: &editor[models.DomainExpert]{
			noun:    "Expert",
			filters: []string{"domain", "status"},
			list: func(ctx *gin.Context, q listing.Query) (listing.Result[*models.DomainExpert], error) {
				return adminService.ListExperts(ctx.Request.Context(), q)
			},
			get: func(ctx *gin.Context, id string) (*models.DomainExpert, error) {
				return adminService.GetExpert(ctx.Request.Context(), id)
			},
			create: func(ctx *gin.Context, item *models.DomainExpert) (*models.DomainExpert, error) {
				return adminService.CreateExpert(ctx.Request.Context(), item)
			},
			update: func(ctx *gin.Context, id string, item *models.DomainExpert) (*models.DomainExpert, error) {
				return adminService.UpdateExpert(ctx.Request.Context(), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return adminService.DeleteExpert(ctx.Request.Context(), id)
			},
		},
	}
}

// ListIndustries lists industry partners
// @Summary List industry partners
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches company name, email, company ID or industry type"
// @Param industryType query string false "Industry type, All for any"
// @Param status query string false "Active or Inactive"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse "Industry partners"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Failed to fetch industries"
// @Router /admin/industries [get]
func (c *AdminController) ListIndustries(ctx *gin.Context) { c.industries.List(ctx) }

// GetIndustry returns one industry partner without its password
// @Summary Get an industry partner
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Industry ID"
// @Success 200 {object} dto.APIResponse{data=models.Industry} "Industry partner"
// @Failure 404 {object} dto.ErrorResponse "Industry not found"
// @Router /admin/industries/{id} [get]
func (c *AdminController) GetIndustry(ctx *gin.Context) { c.industries.Get(ctx) }

// CreateIndustry adds an industry partner
// @Summary Add an industry partner
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Industry true "Industry partner"
// @Success 201 {object} dto.APIResponse{data=models.Industry} "Industry added successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Failure 409 {object} dto.ErrorResponse "Company ID already exists"
// @Router /admin/industries [post]
func (c *AdminController) CreateIndustry(ctx *gin.Context) { c.industries.Create(ctx) }

// UpdateIndustry edits an industry partner
// @Summary Update an industry partner
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Industry ID"
// @Param request body models.Industry true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Industry} "Industry updated successfully!"
// @Failure 404 {object} dto.ErrorResponse "Industry not found"
// @Failure 409 {object} dto.ErrorResponse "Company ID already exists"
// @Router /admin/industries/{id} [put]
func (c *AdminController) UpdateIndustry(ctx *gin.Context) { c.industries.Update(ctx) }

// DeleteIndustry removes an industry partner
// @Summary Delete an industry partner
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Industry ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Industry deleted successfully!"
// @Failure 400 {object} dto.ErrorResponse "Deletion must be confirmed"
// @Router /admin/industries/{id} [delete]
func (c *AdminController) DeleteIndustry(ctx *gin.Context) { c.industries.Delete(ctx) }

// ListDevelopers lists curriculum developers
// @Summary List curriculum developers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, email, developer ID or specialization"
// @Param specialization query string false "Specialization, All for any"
// @Param status query string false "Active or Inactive"
// @Success 200 {object} dto.APIResponse "Curriculum developers"
// @Router /admin/developers [get]
func (c *AdminController) ListDevelopers(ctx *gin.Context) { c.developers.List(ctx) }

// GetDeveloper returns one curriculum developer without its password
// @Summary Get a curriculum developer
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Developer ID"
// @Success 200 {object} dto.APIResponse{data=models.CurriculumDeveloper} "Curriculum developer"
// @Failure 404 {object} dto.ErrorResponse "Curriculum developer not found"
// @Router /admin/developers/{id} [get]
func (c *AdminController) GetDeveloper(ctx *gin.Context) { c.developers.Get(ctx) }

// CreateDeveloper adds a curriculum developer
// @Summary Add a curriculum developer
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CurriculumDeveloper true "Curriculum developer"
// @Success 201 {object} dto.APIResponse{data=models.CurriculumDeveloper} "Curriculum developer added successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Failure 409 {object} dto.ErrorResponse "Developer ID already exists"
// @Router /admin/developers [post]
func (c *AdminController) CreateDeveloper(ctx *gin.Context) { c.developers.Create(ctx) }

// UpdateDeveloper edits a curriculum developer
// @Summary Update a curriculum developer
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Developer ID"
// @Param request body models.CurriculumDeveloper true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.CurriculumDeveloper} "Curriculum developer updated successfully!"
// @Router /admin/developers/{id} [put]
func (c *AdminController) UpdateDeveloper(ctx *gin.Context) { c.developers.Update(ctx) }

// DeleteDeveloper removes a curriculum developer
// @Summary Delete a curriculum developer
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Developer ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Curriculum developer deleted successfully!"
// @Router /admin/developers/{id} [delete]
func (c *AdminController) DeleteDeveloper(ctx *gin.Context) { c.developers.Delete(ctx) }

// ListExperts lists domain experts
// @Summary List domain experts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, specialization, domain or organization"
// @Param domain query string false "Domain, All for any"
// @Param status query string false "Active or Inactive"
// @Success 200 {object} dto.APIResponse "Domain experts"
// @Router /admin/experts [get]
func (c *AdminController) ListExperts(ctx *gin.Context) { c.experts.List(ctx) }

// GetExpert returns one domain expert
// @Summary Get a domain expert
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expert ID"
// @Success 200 {object} dto.APIResponse{data=models.DomainExpert} "Domain expert"
// @Failure 404 {object} dto.ErrorResponse "Expert not found"
// @Router /admin/experts/{id} [get]
func (c *AdminController) GetExpert(ctx *gin.Context) { c.experts.Get(ctx) }

// CreateExpert adds a domain expert
// @Summary Add a domain expert
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DomainExpert true "Domain expert"
// @Success 201 {object} dto.APIResponse{data=models.DomainExpert} "Expert added successfully!"
// @Failure 400 {object} dto.ErrorResponse "Please fill in all required fields"
// @Router /admin/experts [post]
func (c *AdminController) CreateExpert(ctx *gin.Context) { c.experts.Create(ctx) }

// UpdateExpert edits a domain expert
// @Summary Update a domain expert
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expert ID"
// @Param request body models.DomainExpert true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.DomainExpert} "Expert updated successfully!"
// @Router /admin/experts/{id} [put]
func (c *AdminController) UpdateExpert(ctx *gin.Context) { c.experts.Update(ctx) }

// DeleteExpert removes a domain expert
// @Summary Delete a domain expert
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expert ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Expert deleted successfully!"
// @Router /admin/experts/{id} [delete]
func (c *AdminController) DeleteExpert(ctx *gin.Context) { c.experts.Delete(ctx) }

// ListUsers lists registered portal users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name, email or institution"
// @Param role query string false "student or teacher"
// @Success 200 {object} dto.APIResponse "Users"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	result, err := c.adminService.ListUsers(ctx.Request.Context(), listing.ParseQuery(ctx, "role"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}
