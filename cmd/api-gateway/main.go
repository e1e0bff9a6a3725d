package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/arms-api/api/swagger"
	"github.com/noah-isme/arms-api/internal/handler"
	"github.com/noah-isme/arms-api/internal/middleware"
	"github.com/noah-isme/arms-api/internal/models"
	"github.com/noah-isme/arms-api/internal/repository"
	"github.com/noah-isme/arms-api/internal/service"
	"github.com/noah-isme/arms-api/pkg/cache"
	"github.com/noah-isme/arms-api/pkg/config"
	"github.com/noah-isme/arms-api/pkg/database"
	"github.com/noah-isme/arms-api/pkg/jobs"
	"github.com/noah-isme/arms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/arms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/arms-api/pkg/middleware/requestid"
	"github.com/noah-isme/arms-api/pkg/storage"
)

// @title ARMS API
// @version 1.0.0
// @description Academic resource management dashboard API
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	fileStore, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewSectionScheduleRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	substituteRepo := repository.NewSubstituteHistoryRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Views.CacheTTL, logr, cfg.Views.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "arms-api",
	})
	userSvc := service.NewUserService(userRepo, nil, logr)

	viewSvc := service.NewResourceViewService(scheduleRepo, cacheSvc, nil, logr)
	editorSvc := service.NewScheduleEditorService(scheduleRepo, curriculumRepo, facultyRepo, roomRepo, viewSvc, userRepo, nil, logr)
	candidateSvc := service.NewCandidateService(scheduleRepo, facultyRepo, roomRepo, curriculumRepo, nil, logr)
	substituteSvc := service.NewSubstituteService(scheduleRepo, substituteRepo, facultyRepo, viewSvc, userRepo, db, nil, logr)
	facultySvc := service.NewFacultyService(facultyRepo, nil, logr)
	roomSvc := service.NewRoomService(roomRepo, nil, logr)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, nil, logr)

	signer := storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL)

	// The queue handler and the export service reference each other, so the
	// queue delegates through a late-bound variable.
	var exportSvc *service.ExportService
	exportQueue := jobs.NewQueue("schedule-export", func(ctx context.Context, job jobs.Job) error {
		return exportSvc.Process(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Export.WorkerConcurrency,
		MaxRetries: cfg.Export.WorkerRetries,
		Logger:     logr,
	})
	exportSvc = service.NewExportService(exportJobRepo, scheduleRepo, fileStore, exportQueue, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Export.ResultTTL,
	}, nil, logr)

	exportQueue.Start(ctx)
	defer exportQueue.Stop()

	go func() {
		ticker := time.NewTicker(cfg.Export.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				exportSvc.Cleanup(ctx)
			}
		}
	}()

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	scheduleHandler := handler.NewScheduleHandler(editorSvc)
	candidateHandler := handler.NewCandidateHandler(candidateSvc)
	substituteHandler := handler.NewSubstituteHandler(substituteSvc)
	viewHandler := handler.NewViewHandler(viewSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	curriculumHandler := handler.NewCurriculumHandler(curriculumSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	users := secured.Group("/users")
	users.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	schedules := secured.Group("/schedules")
	{
		schedules.GET("", scheduleHandler.List)
		schedules.GET("/:id", scheduleHandler.Get)
		schedules.GET("/:id/candidates/rooms", candidateHandler.Rooms)
		schedules.GET("/:id/candidates/professors", candidateHandler.Professors)

		editing := schedules.Group("")
		editing.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleDean))
		{
			editing.POST("", scheduleHandler.Create)
			editing.POST("/:id/entries", scheduleHandler.Place)
			editing.POST("/:id/entries/remove", scheduleHandler.Remove)
			editing.PUT("/:id/room", scheduleHandler.AssignRoom)
			editing.PUT("/:id/professor", scheduleHandler.AssignProfessor)
			editing.PUT("/:id/substitute", substituteHandler.Assign)
			editing.POST("/:id/substitute/clear", substituteHandler.Clear)
			editing.POST("/:id/submit", scheduleHandler.Submit)
			editing.POST("/:id/archive", scheduleHandler.Archive)
			editing.DELETE("/:id", scheduleHandler.Delete)
		}
	}

	secured.GET("/substitutes/history", substituteHandler.History)

	views := secured.Group("/views")
	{
		views.GET("/rooms", viewHandler.ByRoom)
		views.GET("/professors", viewHandler.ByProfessor)
	}

	export := secured.Group("/export")
	{
		export.POST("", exportHandler.Create)
		export.GET("/:id", exportHandler.Status)
	}
	// Download carries its own signed token, no session required.
	api.GET("/export/download/:token", exportHandler.Download)

	faculty := secured.Group("/faculty")
	{
		faculty.GET("", facultyHandler.List)
		faculty.GET("/:id", facultyHandler.Get)

		managing := faculty.Group("")
		managing.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleDean))
		managing.Use(middleware.Audit(userRepo, models.AuditActionFacultyWrite, "faculty"))
		{
			managing.POST("", facultyHandler.Create)
			managing.PUT("/:id", facultyHandler.Update)
			managing.DELETE("/:id", facultyHandler.Deactivate)
		}
	}

	rooms := secured.Group("/rooms")
	{
		rooms.GET("", roomHandler.List)
		rooms.GET("/:id", roomHandler.Get)

		managing := rooms.Group("")
		managing.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleDean))
		managing.Use(middleware.Audit(userRepo, models.AuditActionRoomWrite, "room"))
		{
			managing.POST("", roomHandler.Create)
			managing.PUT("/:id", roomHandler.Update)
			managing.DELETE("/:id", roomHandler.Deactivate)
		}
	}

	curricula := secured.Group("/curricula")
	{
		curricula.GET("", curriculumHandler.List)
		curricula.GET("/:id", curriculumHandler.Get)
		curricula.GET("/:id/subjects", curriculumHandler.Subjects)

		managing := curricula.Group("")
		managing.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleDean))
		managing.Use(middleware.Audit(userRepo, models.AuditActionCurriculumWrite, "curriculum"))
		{
			managing.POST("", curriculumHandler.Create)
			managing.POST("/:id/archive", curriculumHandler.Archive)
			managing.POST("/:id/restore", curriculumHandler.Restore)
			managing.POST("/:id/subjects", curriculumHandler.AddSubject)
			managing.DELETE("/:id/subjects/:subjectId", curriculumHandler.RemoveSubject)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
