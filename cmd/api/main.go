package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/config"
	"github.com/noah-isme/gema-lms-api/internal/database"
	"github.com/noah-isme/gema-lms-api/internal/events"
	"github.com/noah-isme/gema-lms-api/internal/handler"
	"github.com/noah-isme/gema-lms-api/internal/middleware"
	"github.com/noah-isme/gema-lms-api/internal/observability"
	"github.com/noah-isme/gema-lms-api/internal/repository"
	"github.com/noah-isme/gema-lms-api/internal/router"
	"github.com/noah-isme/gema-lms-api/internal/service"
	cloud "github.com/noah-isme/gema-lms-api/pkg/cloudinary"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "gema-lms-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AppEnv != "production" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, events stay on redis")
		natsConn = nil
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	var uploader service.FileUploader
	if cfg.UploadsEnabled() {
		cld, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		uploader = cld
	} else {
		logger.Warn().Msg("cloudinary credentials missing, file uploads disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	bus := events.NewBus(redisClient, natsConn, cfg.EventsChannel, logger)
	teachers := service.NewTeacherLookup(teacherRepo, redisClient, cfg.TeacherCacheTTL, logger)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	todoService := service.NewTodoService(studentRepo, assignmentRepo, submissionRepo, chapterRepo, validate, cfg.Location, logger)
	dashboardService := service.NewDashboardService(dashboardRepo, teachers, redisClient, cfg.DashboardCacheTTL, cfg.Location, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, gradeRepo, validate, uploader, activityService, bus, logger)
	chapterService := service.NewChapterService(chapterRepo, studentRepo, validate, activityService, bus, cfg.Location, logger)
	gradeService := service.NewGradeService(gradeRepo, validate, bus, logger)
	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		Submissions: submissionRepo,
		Assignments: assignmentRepo,
		Students:    studentRepo,
		Teachers:    teachers,
		Validator:   validate,
		Uploader:    uploader,
		Activity:    activityService,
		Events:      bus,
	}, logger)

	bus.Subscribe(dashboardService.HandleEvent)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	bus.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	app.Get("/metrics", observability.MetricsHandler())

	checks := map[string]handler.Pinger{
		"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	router.Register(app, cfg, router.Dependencies{
		TodoHandler:       handler.NewTodoHandler(todoService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		ChapterHandler:    handler.NewChapterHandler(chapterService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		GradeHandler:      handler.NewGradeHandler(gradeService),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		HealthChecks:      checks,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret, cfg.AuthCookieName),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	shutdown(app, logger)
}

func shutdown(app *fiber.App, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
