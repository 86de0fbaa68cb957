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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/talentra/ems-api/api/swagger"
	"github.com/talentra/ems-api/internal/handler"
	"github.com/talentra/ems-api/internal/middleware"
	"github.com/talentra/ems-api/internal/repository"
	"github.com/talentra/ems-api/internal/service"
	"github.com/talentra/ems-api/pkg/cache"
	"github.com/talentra/ems-api/pkg/config"
	"github.com/talentra/ems-api/pkg/database"
	"github.com/talentra/ems-api/pkg/jobs"
	"github.com/talentra/ems-api/pkg/logger"
	corsmiddleware "github.com/talentra/ems-api/pkg/middleware/cors"
	reqidmiddleware "github.com/talentra/ems-api/pkg/middleware/requestid"
	"github.com/talentra/ems-api/pkg/storage"
)

// @title Talentra EMS API
// @version 1.0.0
// @description Employee management backend: attendance, leave, projects, payroll
// @BasePath /api/v1
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.AttendanceTTL, logr, true)
	}

	location, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		logr.Sugar().Warnw("invalid attendance timezone, falling back to local", "timezone", cfg.Attendance.Timezone)
		location = time.Local
	}

	documentStore, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare document storage", "error", err)
	}
	payslipStore, err := storage.NewLocalStorage(cfg.Payslips.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare payslip storage", "error", err)
	}
	payslipSigner := storage.NewSignedURLSigner(cfg.JWT.Secret, cfg.Payslips.DownloadTokenTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	salaryRepo := repository.NewSalaryRepository(db)
	refdataRepo := repository.NewRefdataRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "talentra-ems",
	})
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, leaveRepo, cacheSvc, logr, service.AttendanceServiceConfig{
		Location:      location,
		LateAfter:     cfg.Attendance.LateAfter,
		HalfDayBefore: cfg.Attendance.HalfDayBefore,
		CacheTTL:      cfg.Cache.AttendanceTTL,
	})
	leaveSvc := service.NewLeaveService(leaveRepo, notificationSvc, validate, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, cacheSvc, validate, logr)
	projectSvc := service.NewProjectService(projectRepo, validate, logr)
	documentSvc := service.NewDocumentService(documentRepo, documentStore, validate, logr, cfg.Documents.MaxFileSizeBytes)
	skillSvc := service.NewSkillService(skillRepo, validate, logr)
	refdataSvc := service.NewRefdataService(refdataRepo, cacheSvc, cfg.Cache.RefdataTTL, validate, logr)
	salarySvc := service.NewSalaryService(salaryRepo, employeeRepo, payslipStore, nil, payslipSigner, validate, logr, service.SalaryServiceConfig{
		CompanyName: cfg.Payslips.CompanyName,
	})

	var payslipQueue *jobs.Queue
	if cfg.Payslips.Enabled {
		payslipQueue = jobs.NewQueue("payslips", salarySvc.ProcessJob, jobs.QueueConfig{
			Workers:    cfg.Payslips.WorkerConcurrency,
			MaxRetries: cfg.Payslips.WorkerRetries,
			Logger:     logr,
		})
		payslipQueue.Start(ctx)
		defer payslipQueue.Stop()
		salarySvc.SetQueue(payslipQueue)

		cleanup := jobs.NewPoller("payslip-cleanup", time.Hour, func(context.Context) error {
			deleted, err := payslipStore.CleanupOlderThan(7 * 24 * time.Hour)
			if len(deleted) > 0 {
				logr.Sugar().Infow("removed stale payslip files", "count", len(deleted))
			}
			return err
		}, logr)
		cleanup.Start(ctx)
		defer cleanup.Stop()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc),
		Employee:     handler.NewEmployeeHandler(employeeSvc),
		Leave:        handler.NewLeaveHandler(leaveSvc),
		Project:      handler.NewProjectHandler(projectSvc),
		Document:     handler.NewDocumentHandler(documentSvc),
		Skill:        handler.NewSkillHandler(skillSvc),
		Salary:       handler.NewSalaryHandler(salarySvc),
		Refdata:      handler.NewRefdataHandler(refdataSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Metrics: handler.NewMetricsHandler(metricsSvc, func(ctx context.Context) error {
			return db.PingContext(ctx)
		}),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
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
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
