package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/eduportal/internal/app/controllers"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	Admin     *controllers.AdminController
	Streams   *controllers.StreamController
	Blogs     *controllers.BlogController
	Student   *controllers.StudentController
	Teacher   *controllers.TeacherController
	Developer *controllers.DeveloperController
	Industry  *controllers.IndustryController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.POST("/session", c.Auth.StartSession)

	// --- Session routes: any navigation state ---
	withSession := v1.Group("")
	withSession.Use(authMiddleware.SessionAuth())

	sessionRoutes := withSession.Group("/session")
	{
		sessionRoutes.GET("", c.Auth.GetSession)
		sessionRoutes.DELETE("", c.Auth.EndSession)
		sessionRoutes.POST("/role", c.Auth.SelectRole)
		sessionRoutes.POST("/roles", c.Auth.BackToRoles)
		sessionRoutes.POST("/back", c.Auth.Back)
		sessionRoutes.POST("/login", c.Auth.Login)
		sessionRoutes.POST("/register", c.Auth.Register)
		sessionRoutes.POST("/admin", c.Auth.AdminLogin)
	}

	// --- Blog reader: any signed-in role ---
	blogs := withSession.Group("/blogs")
	blogs.Use(authMiddleware.RoleRequired(
		models.RoleStudent, models.RoleTeacher, models.RoleCurriculumDeveloper, models.RoleIndustry, models.RoleAdmin,
	))
	{
		blogs.GET("", c.Blogs.PublishedBlogs)
		blogs.GET("/:id", c.Blogs.ReadBlog)
	}

	// --- Student portal ---
	student := withSession.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/curricula", c.Student.Curricula)
		student.GET("/experts", c.Student.Experts)
		student.GET("/seminars", c.Student.Seminars)
		student.POST("/seminars/:id/register", c.Student.RegisterForSeminar)
		student.GET("/internships", c.Student.Internships)
		student.GET("/hackathons", c.Student.Hackathons)
		student.GET("/universities", c.Student.Universities)
		student.POST("/blogs", c.Blogs.PublishBlog)
	}

	// --- Teacher portal ---
	teacher := withSession.Group("/teacher")
	teacher.Use(authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/profile", c.Teacher.GetProfile)
		teacher.PUT("/profile", c.Teacher.UpdateProfile)
		teacher.GET("/curricula", c.Teacher.Curricula)
		teacher.POST("/curricula/:id/vote", c.Teacher.Vote)
		teacher.GET("/seminars", c.Teacher.Seminars)
		teacher.POST("/seminars", c.Teacher.CreateSeminar)
		teacher.GET("/events", c.Teacher.Events)
		teacher.POST("/blogs", c.Blogs.PublishBlog)
	}

	// --- Curriculum developer portal ---
	developer := withSession.Group("/developer")
	developer.Use(authMiddleware.RoleRequired(models.RoleCurriculumDeveloper))
	{
		developer.GET("/curricula", c.Developer.ListCurricula)
		developer.POST("/curricula", c.Developer.CreateCurriculum)
		developer.GET("/curricula/:id", c.Developer.GetCurriculum)
		developer.PUT("/curricula/:id", c.Developer.UpdateCurriculum)
		developer.DELETE("/curricula/:id", c.Developer.DeleteCurriculum)

		developer.GET("/events", c.Developer.ListEvents)
		developer.POST("/events", c.Developer.CreateEvent)
		developer.GET("/events/:id", c.Developer.GetEvent)
		developer.PUT("/events/:id", c.Developer.UpdateEvent)
		developer.DELETE("/events/:id", c.Developer.DeleteEvent)

		developer.GET("/votes", c.Developer.Votes)
	}

	// --- Industry portal ---
	industry := withSession.Group("/industry")
	industry.Use(authMiddleware.RoleRequired(models.RoleIndustry))
	{
		industry.GET("/internships", c.Industry.Internships)
		industry.POST("/internships", c.Industry.CreateInternship)
		industry.GET("/hackathons", c.Industry.Hackathons)
		industry.POST("/hackathons", c.Industry.CreateHackathon)
	}

	// --- Administrator ---
	admin := withSession.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/industries", c.Admin.ListIndustries)
		admin.POST("/industries", c.Admin.CreateIndustry)
		admin.GET("/industries/:id", c.Admin.GetIndustry)
		admin.PUT("/industries/:id", c.Admin.UpdateIndustry)
		admin.DELETE("/industries/:id", c.Admin.DeleteIndustry)

		admin.GET("/developers", c.Admin.ListDevelopers)
		admin.POST("/developers", c.Admin.CreateDeveloper)
		admin.GET("/developers/:id", c.Admin.GetDeveloper)
		admin.PUT("/developers/:id", c.Admin.UpdateDeveloper)
		admin.DELETE("/developers/:id", c.Admin.DeleteDeveloper)

		admin.GET("/experts", c.Admin.ListExperts)
		admin.POST("/experts", c.Admin.CreateExpert)
		admin.GET("/experts/:id", c.Admin.GetExpert)
		admin.PUT("/experts/:id", c.Admin.UpdateExpert)
		admin.DELETE("/experts/:id", c.Admin.DeleteExpert)

		admin.GET("/streams", c.Streams.ListStreams)
		admin.POST("/streams", c.Streams.CreateStream)
		admin.GET("/streams/:id", c.Streams.GetStream)
		admin.PUT("/streams/:id", c.Streams.UpdateStream)
		admin.DELETE("/streams/:id", c.Streams.DeleteStream)
		admin.GET("/streams/:id/semesters", c.Streams.Semesters)
		admin.POST("/streams/:id/semesters/:semester/subjects", c.Streams.CreateSubject)
		admin.GET("/streams/:id/semesters/:semester/subjects/:subjectId", c.Streams.GetSubject)
		admin.PUT("/streams/:id/semesters/:semester/subjects/:subjectId", c.Streams.UpdateSubject)
		admin.DELETE("/streams/:id/semesters/:semester/subjects/:subjectId", c.Streams.DeleteSubject)

		admin.GET("/blogs", c.Blogs.ListBlogs)
		admin.POST("/blogs", c.Blogs.CreateBlog)
		admin.GET("/blogs/:id", c.Blogs.GetBlog)
		admin.PUT("/blogs/:id", c.Blogs.UpdateBlog)
		admin.DELETE("/blogs/:id", c.Blogs.DeleteBlog)
		admin.PATCH("/blogs/:id/status", c.Blogs.SetBlogStatus)

		admin.GET("/users", c.Admin.ListUsers)
	}
}
