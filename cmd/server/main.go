package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/studieplein/presentie-api/internal/handler"
	"github.com/studieplein/presentie-api/internal/middleware"
	"github.com/studieplein/presentie-api/internal/repository"
	"github.com/studieplein/presentie-api/internal/schedule"
	"github.com/studieplein/presentie-api/internal/service"
	"github.com/studieplein/presentie-api/internal/vclock"
	"github.com/studieplein/presentie-api/pkg/cache"
	"github.com/studieplein/presentie-api/pkg/config"
	"github.com/studieplein/presentie-api/pkg/database"
	"github.com/studieplein/presentie-api/pkg/export"
	"github.com/studieplein/presentie-api/pkg/logger"
	corsmiddleware "github.com/studieplein/presentie-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studieplein/presentie-api/pkg/middleware/requestid"
	"github.com/studieplein/presentie-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		redisClient = nil
	}

	clock, err := vclock.New(vclock.Defaults{
		Date: cfg.Clock.DefaultDate,
		Time: cfg.Clock.DefaultTime,
	})
	if err != nil {
		logr.Sugar().Fatalw("invalid virtual clock defaults", "error", err)
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	// repositories
	students := repository.NewStudentRepository(db)
	employees := repository.NewEmployeeRepository(db)
	groups := repository.NewGroupRepository(db)
	timetables := repository.NewTimetableRepository(db)
	records := repository.NewRecordRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// services
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Cache.ScheduleTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	clockService := service.NewClockService(clock, cacheService, logr)
	scheduleService := service.NewScheduleService(timetables, cacheService, clock, logr)
	classifier := schedule.NewClassifier(cfg.Attendance.MaxLateMinutes, cfg.Attendance.MaxAbsentMinutes)
	authService := service.NewAuthService(students, employees, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	checkinService := service.NewCheckinService(students, records, scheduleService, classifier, validate, logr, metricsService, cfg.Attendance)
	rosterService := service.NewRosterService(students, records, groups, scheduleService, classifier, cfg.Attendance.SeniorYear, logr)
	yearStart, err := vclock.ParseDate(cfg.Attendance.YearStart)
	if err != nil {
		logr.Sugar().Fatalw("invalid school year start", "value", cfg.Attendance.YearStart, "error", err)
	}
	reportService := service.NewReportService(students, groups, records, scheduleService, yearStart, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	exportStore, err := storage.NewArchive(cfg.Export.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export archive", "error", err)
	}
	exportSigner := storage.NewSigner(cfg.Export.URLSecret, cfg.Export.URLTTL)
	exportService := service.NewExportService(reportService, exportStore, exportSigner, cfg.Export.Workers, logr)
	exportService.Start(context.Background())
	defer exportService.Stop()

	// handlers
	authHandler := handler.NewAuthHandler(authService)
	checkinHandler := handler.NewCheckinHandler(checkinService)
	clockHandler := handler.NewClockHandler(clockService)
	rosterHandler := handler.NewRosterHandler(rosterService, scheduleService)
	reportHandler := handler.NewReportHandler(reportService)
	exportHandler := handler.NewExportHandler(exportService)
	healthHandler := handler.NewHealthHandler(db, redisClient, metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", healthHandler.Metrics)

	api := r.Group(cfg.APIPrefix)

	// the swipe terminal authenticates per request with code and password
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/student-login", checkinHandler.CheckIn)
	api.POST("/checkin", checkinHandler.CheckIn)
	api.GET("/causes", checkinHandler.Causes)
	// the signed token is the download credential
	api.GET("/exports/download", exportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))
	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/students/:code", reportHandler.Report)
	authed.GET("/students/:code/records/export", reportHandler.Export)

	staff := authed.Group("")
	staff.Use(middleware.RequireEmployee())
	staff.GET("/clock", clockHandler.State)
	staff.PUT("/clock", clockHandler.Update)
	staff.POST("/clock/reset", clockHandler.Reset)
	staff.POST("/clock/now", clockHandler.SetToNow)
	staff.GET("/students", rosterHandler.Overview)
	staff.GET("/groups", rosterHandler.Groups)
	staff.GET("/groups/:id/schedule", rosterHandler.GroupSchedule)
	staff.POST("/students/:code/exports", exportHandler.Create)
	staff.GET("/exports/jobs/:id", exportHandler.Status)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "demo_mode", cfg.Attendance.DemoMode)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
