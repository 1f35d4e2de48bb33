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

// BlogController serves the blog editor, publishing from the portals and
// the public reader.
type BlogController struct {
	blogService services.BlogService
	blogs       *editor[models.Blog]
}

// NewBlogController creates a new BlogController
func NewBlogController(blogService services.BlogService) *BlogController {
	return &BlogController{
		blogService: blogService,
		blogs: &editor[models.Blog]{
			noun:       "Blog",
			createdMsg: "Blog created successfully!",
			filters:    []string{"category", "status"},
			list: func(ctx *gin.Context, q listing.Query) (listing.Result[*models.Blog], error) {
				return blogService.List(ctx.Request.Context(), q)
			},
			get: func(ctx *gin.Context, id string) (*models.Blog, error) {
				return blogService.Get(ctx.Request.Context(), id)
			},
			create: func(ctx *gin.Context, item *models.Blog) (*models.Blog, error) {
				return blogService.Create(ctx.Request.Context(), item)
			},
			update: func(ctx *gin.Context, id string, item *models.Blog) (*models.Blog, error) {
				return blogService.Update(ctx.Request.Context(), id, item)
			},
			remove: func(ctx *gin.Context, id string) error {
				return blogService.Delete(ctx.Request.Context(), id)
			},
		},
	}
}

// ListBlogs lists every blog regardless of status
// @Summary List blogs
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, content, author or tags"
// @Param category query string false "Category, All for any"
// @Param status query string false "draft, published or archived"
// @Success 200 {object} dto.APIResponse "Blogs"
// @Router /admin/blogs [get]
func (c *BlogController) ListBlogs(ctx *gin.Context) { c.blogs.List(ctx) }

// GetBlog returns one blog
// @Summary Get a blog
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Success 200 {object} dto.APIResponse{data=models.Blog} "Blog"
// @Failure 404 {object} dto.ErrorResponse "Blog not found"
// @Router /admin/blogs/{id} [get]
func (c *BlogController) GetBlog(ctx *gin.Context) { c.blogs.Get(ctx) }

// CreateBlog writes a new blog
// @Summary Create a blog
// @Description The excerpt is generated from the content when left empty; word count and reading time are always recomputed.
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Blog true "Blog"
// @Success 201 {object} dto.APIResponse{data=models.Blog} "Blog created successfully!"
// @Failure 400 {object} dto.ErrorResponse "Title and content are required"
// @Router /admin/blogs [post]
func (c *BlogController) CreateBlog(ctx *gin.Context) { c.blogs.Create(ctx) }

// UpdateBlog edits a blog
// @Summary Update a blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Param request body models.Blog true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Blog} "Blog updated successfully!"
// @Router /admin/blogs/{id} [put]
func (c *BlogController) UpdateBlog(ctx *gin.Context) { c.blogs.Update(ctx) }

// DeleteBlog removes a blog
// @Summary Delete a blog
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse "Blog deleted successfully!"
// @Router /admin/blogs/{id} [delete]
func (c *BlogController) DeleteBlog(ctx *gin.Context) { c.blogs.Delete(ctx) }

// SetBlogStatus publishes, archives or returns a blog to draft
// @Summary Change blog status
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Param request body dto.BlogStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Blog} "Blog status updated successfully!"
// @Failure 400 {object} dto.ErrorResponse "Invalid blog status"
// @Router /admin/blogs/{id}/status [patch]
func (c *BlogController) SetBlogStatus(ctx *gin.Context) {
	var req dto.BlogStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}
	blog, err := c.blogService.SetStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(blog, "Blog status updated successfully!"))
}

// PublishBlog publishes a blog written from a student or teacher portal
// @Summary Publish a blog
// @Description The author and author role are taken from the signed-in user.
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Blog true "Blog"
// @Success 201 {object} dto.APIResponse{data=models.Blog} "Blog published successfully!"
// @Failure 400 {object} dto.ErrorResponse "Title and content are required"
// @Router /student/blogs [post]
// @Router /teacher/blogs [post]
func (c *BlogController) PublishBlog(ctx *gin.Context) {
	s, ok := currentSession(ctx)
	if !ok {
		return
	}
	var blog models.Blog
	if !bindJSON(ctx, &blog) {
		return
	}
	created, err := c.blogService.Publish(ctx.Request.Context(), s.EffectiveRole(), s.Identity, &blog)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Blog published successfully!"))
}

// PublishedBlogs lists published blogs, newest first
// @Summary Read blogs
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, content, author or tags"
// @Param category query string false "Category, All for any"
// @Success 200 {object} dto.APIResponse{data=services.BlogCatalog} "Published blogs with their categories"
// @Router /blogs [get]
func (c *BlogController) PublishedBlogs(ctx *gin.Context) {
	catalog, err := c.blogService.Published(ctx.Request.Context(), listing.ParseQuery(ctx, "category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(catalog, ""))
}

// ReadBlog returns a published blog and counts the view
// @Summary Read a blog
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Blog ID"
// @Success 200 {object} dto.APIResponse{data=models.Blog} "Blog"
// @Failure 404 {object} dto.ErrorResponse "Blog not found"
// @Router /blogs/{id} [get]
func (c *BlogController) ReadBlog(ctx *gin.Context) {
	blog, err := c.blogService.Read(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(blog, ""))
}
