package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-lms-api/internal/config"
	"github.com/noah-isme/gema-lms-api/internal/handler"
	"github.com/noah-isme/gema-lms-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TodoHandler       *handler.TodoHandler
	DashboardHandler  *handler.DashboardHandler
	AssignmentHandler *handler.AssignmentHandler
	ChapterHandler    *handler.ChapterHandler
	SubmissionHandler *handler.SubmissionHandler
	GradeHandler      *handler.GradeHandler
	ActivityHandler   *handler.ActivityHandler
	HealthChecks      map[string]handler.Pinger
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	v1 := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	v1.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret, cfg.AuthCookieName)
	}

	adminOnly := middleware.RequireRole(middleware.RoleAdmin)
	teacherOnly := middleware.RequireRole(middleware.RoleTeacher)
	staffOnly := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTeacher)
	studentOnly := middleware.RequireRole(middleware.RoleStudent)

	api := app.Group("/api/v2", jwtMiddleware)

	if deps.TodoHandler != nil {
		deps.TodoHandler.Register(api.Group("/todo", studentOnly))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard"), adminOnly, teacherOnly)
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(api.Group("/assignment"), staffOnly)
	}

	if deps.ChapterHandler != nil {
		deps.ChapterHandler.Register(api.Group("/chapter"), staffOnly, studentOnly)
	}

	if deps.SubmissionHandler != nil {
		submitLimit := middleware.RateLimit("submission", cfg.SubmissionRateLimit, time.Minute)
		deps.SubmissionHandler.Register(api.Group("/submission"), staffOnly, studentOnly, submitLimit)
	}

	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(api.Group("/grade"), adminOnly)
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", adminOnly))
	}
}
