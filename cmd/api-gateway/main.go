package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/twill-app/twill-api/api/swagger"
	"github.com/twill-app/twill-api/internal/handler"
	"github.com/twill-app/twill-api/internal/middleware"
	"github.com/twill-app/twill-api/internal/repository"
	"github.com/twill-app/twill-api/internal/service"
	"github.com/twill-app/twill-api/pkg/cache"
	"github.com/twill-app/twill-api/pkg/config"
	"github.com/twill-app/twill-api/pkg/database"
	"github.com/twill-app/twill-api/pkg/logger"
	corsmiddleware "github.com/twill-app/twill-api/pkg/middleware/cors"
	reqidmiddleware "github.com/twill-app/twill-api/pkg/middleware/requestid"
)

// @title Twill API
// @version 1.0.0
// @description Personal attendance tracker for the 75% minimum-attendance rule
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	overlayRepo := repository.NewOverlayRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	scheduleSvc := service.NewScheduleService(semesterRepo, overlayRepo, cacheRepo, metricsSvc, logr, cfg.Attendance)
	semesterSvc := service.NewSemesterService(semesterRepo, overlayRepo, scheduleSvc, validate, logr, cfg.Attendance)
	attendanceSvc := service.NewAttendanceService(overlayRepo, scheduleSvc, validate, logr)
	exportSvc := service.NewExportService(scheduleSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	semesterHandler := handler.NewSemesterHandler(semesterSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	protected.POST("/semester", semesterHandler.Create)
	protected.GET("/semester", semesterHandler.Get)

	protected.POST("/holidays", semesterHandler.AddHoliday)
	protected.DELETE("/holidays/:id", semesterHandler.RemoveHoliday)
	protected.POST("/holidays/exclusions", semesterHandler.ExcludeAutoHoliday)
	protected.DELETE("/holidays/exclusions/:date", semesterHandler.RestoreAutoHoliday)

	protected.GET("/schedule", scheduleHandler.Schedule)
	protected.GET("/stats", scheduleHandler.Stats)
	protected.GET("/stats/export", exportHandler.Export)

	protected.PUT("/attendance/:sessionId", attendanceHandler.SetAttendance)
	protected.PUT("/planned-skips", attendanceHandler.BatchPlannedSkips)
	protected.PUT("/planned-skips/:sessionId", attendanceHandler.SetPlannedSkip)
	protected.PUT("/home-days/:date", attendanceHandler.SetHomeDay)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
