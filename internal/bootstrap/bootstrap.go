package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/eduportal/internal/app/controllers"
	appMigrations "github.com/yigit/eduportal/internal/app/migrations"
	appRepos "github.com/yigit/eduportal/internal/app/repositories"
	appRoutes "github.com/yigit/eduportal/internal/app/routes"
	appServices "github.com/yigit/eduportal/internal/app/services"
	"github.com/yigit/eduportal/internal/app/session"
	"github.com/yigit/eduportal/internal/config"
	"github.com/yigit/eduportal/internal/db"
	appMiddleware "github.com/yigit/eduportal/internal/middleware"
	pkgAuth "github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/credentials"
	"github.com/yigit/eduportal/internal/pkg/docstore"
	"github.com/yigit/eduportal/internal/pkg/helpers"
	"github.com/yigit/eduportal/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store        docstore.Store
	Database     *db.PostgresDB // nil unless the postgres store is used
	Redis        *redis.Client  // nil unless sessions live in redis
	Registry     *prometheus.Registry
	Repos        *appRepos.Repositories
	Provider     *credentials.LocalProvider
	JWTService   *pkgAuth.JWTService
	Sessions     *session.Manager
	AuthService  appServices.AuthService
	AdminService appServices.AdminService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	HTTPMetrics    *appMiddleware.HTTPMetrics
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the document store selected by store.driver. For the
// postgres driver the returned database must be closed by the caller.
func SetupStore(cfg *config.Config, lgr zerolog.Logger) (docstore.Store, *db.PostgresDB, error) {
	switch cfg.Store.Driver {
	case "memory":
		lgr.Warn().Msg("Using the in-memory document store; data is lost on restart")
		return docstore.NewMemoryStore(), nil, nil

	case "bolt":
		if dir := filepath.Dir(cfg.Store.BoltPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		store, err := docstore.OpenBoltStore(cfg.Store.BoltPath)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.Store.BoltPath).Msg("Failed to open bolt store")
			return nil, nil, err
		}
		lgr.Info().Str("path", cfg.Store.BoltPath).Msg("Bolt document store opened")
		return store, nil, nil

	case "postgres":
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		if err := runMigrations(cfg, database, lgr); err != nil {
			database.Close()
			return nil, nil, err
		}
		return docstore.NewPostgresStore(database), database, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// runMigrations applies the migrations directory when it exists on disk and
// the bundled migrations otherwise.
func runMigrations(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)

	var err error
	if _, statErr := os.Stat(cfg.Database.MigrationsDir); statErr == nil {
		err = migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir)
	} else {
		err = migrator.Migrate(ctx)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupSessionStore opens the navigation session store selected by
// session.driver. The redis client is nil for the memory driver.
func SetupSessionStore(cfg *config.Config, lgr zerolog.Logger) (session.Store, *redis.Client, error) {
	ttl := helpers.ParseDuration(cfg.Session.TTL, 24*time.Hour)
	if cfg.Session.Driver != "redis" {
		return session.NewMemoryStore(ttl), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		_ = client.Close()
		return nil, nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis session store connected")
	return session.NewRedisStore(client, ttl), client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, store docstore.Store, sessionStore session.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Registry: prometheus.NewRegistry()}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	storeMetrics, err := docstore.NewMetrics(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register store metrics: %w", err)
	}
	deps.Store = docstore.Instrument(store, storeMetrics)

	deps.HTTPMetrics, err = appMiddleware.NewHTTPMetrics(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(deps.Store, logger.Component("repositories"))

	deps.Provider = credentials.NewLocalProvider(
		deps.Store,
		helpers.ParseDuration(cfg.Credentials.SessionTTL, 168*time.Hour),
		logger.Component("credentials"),
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		Expiration:  helpers.ParseDuration(cfg.JWT.Expiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Sessions = session.NewManager(sessionStore, deps.JWTService, deps.Provider, cfg.IsAdminEmail, logger.Component("session"))

	// Initialize services
	deps.AuthService = appServices.NewAuthService(deps.Sessions, deps.Provider, deps.Repos, cfg.IsAdminEmail, logger.Component("auth"))
	deps.AdminService = appServices.NewAdminService(deps.Repos, logger.Component("admin"))
	streamService := appServices.NewStreamService(deps.Repos, logger.Component("streams"))
	blogService := appServices.NewBlogService(deps.Repos, logger.Component("blogs"))
	studentService := appServices.NewStudentService(deps.Repos, logger.Component("student"))
	teacherService := appServices.NewTeacherService(deps.Repos, logger.Component("teacher"))
	developerService := appServices.NewDeveloperService(deps.Repos, logger.Component("developer"))
	industryService := appServices.NewIndustryService(deps.Repos, logger.Component("industry"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Sessions)

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		Admin:     appControllers.NewAdminController(deps.AdminService),
		Streams:   appControllers.NewStreamController(streamService),
		Blogs:     appControllers.NewBlogController(blogService),
		Student:   appControllers.NewStudentController(studentService),
		Teacher:   appControllers.NewTeacherController(teacherService),
		Developer: appControllers.NewDeveloperController(developerService),
		Industry:  appControllers.NewIndustryController(industryService),
	}

	return deps, nil
}

// Close releases the store and the connections it was built on
func (d *Dependencies) Close() error {
	var errs error
	if d.Store != nil {
		errs = errors.Join(errs, d.Store.Close())
	}
	if d.Redis != nil {
		errs = errors.Join(errs, d.Redis.Close())
	}
	if d.Database != nil {
		d.Database.Close()
	}
	return errs
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.TraceMiddleware())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(deps.HTTPMetrics.Handler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", appMiddleware.TraceHeader},
		ExposeHeaders: []string{"Content-Length", appMiddleware.TraceHeader},
		MaxAge:        12 * time.Hour,
	}))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
