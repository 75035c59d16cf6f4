package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/handler"
	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/pkg/config"
	"github.com/noah-isme/learnhub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/learnhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/learnhub-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Courses    *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	Dashboard  *handler.DashboardHandler
	Metrics    *handler.MetricsHandler
}

// Options carries the cross-cutting collaborators used by middleware.
type Options struct {
	Config      *config.Config
	Logger      *zap.Logger
	Tokens      middleware.TokenValidator
	Observer    middleware.HTTPObserver
	RateLimiter *middleware.RateLimiter
}

// New builds the gin engine with the full route table.
func New(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	logr := opts.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if opts.Observer != nil {
		r.Use(middleware.Metrics(opts.Observer))
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(normalizePrefix(cfg.APIPrefix))
	api.Use(middleware.WithResponseMeta())
	api.GET("/metrics/summary", h.Metrics.Summary)

	authRequired := middleware.JWT(opts.Tokens)
	studentOnly := middleware.RequireRoles(models.RoleStudent)
	trainerOnly := middleware.RequireRoles(models.RoleTrainer)

	auth := api.Group("/auth")
	auth.POST("/register", opts.RateLimiter.Limit("register"), h.Auth.Register)
	auth.POST("/login", opts.RateLimiter.Limit("login"), h.Auth.Login)
	auth.GET("/session", h.Auth.Session)
	auth.POST("/logout", authRequired, h.Auth.Logout)
	auth.GET("/me", authRequired, h.Auth.Me)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.GET("/popular", h.Courses.Popular)
	courses.GET("/filters", h.Courses.Filters)
	courses.GET("/:id", h.Courses.Get)
	courses.POST("", authRequired, trainerOnly, h.Courses.Create)
	courses.DELETE("/:id", authRequired, trainerOnly, h.Courses.Delete)
	courses.POST("/:id/enroll", authRequired, studentOnly, h.Enrollment.Enroll)
	courses.GET("/:id/progress", authRequired, h.Enrollment.Progress)

	enrollments := api.Group("/enrollments", authRequired)
	enrollments.GET("", h.Enrollment.List)
	enrollments.POST("/:id/videos/:videoId/complete", studentOnly, h.Enrollment.CompleteVideo)

	dashboard := api.Group("/dashboard", authRequired)
	dashboard.GET("/student", studentOnly, h.Dashboard.Student)
	dashboard.GET("/trainer", trainerOnly, h.Dashboard.Trainer)

	reports := api.Group("/reports", authRequired, trainerOnly)
	reports.GET("/trainer", h.Dashboard.TrainerReport)

	return r
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return "/"
	}
	return "/" + strings.Trim(prefix, "/")
}
