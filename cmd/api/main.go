package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/smartcvnaija/jobbroker/docs" // swagger docs

	"github.com/smartcvnaija/jobbroker/internal/config"
	"github.com/smartcvnaija/jobbroker/internal/conversation"
	"github.com/smartcvnaija/jobbroker/internal/intent"
	"github.com/smartcvnaija/jobbroker/internal/platform/ai"
	"github.com/smartcvnaija/jobbroker/internal/platform/auth"
	httpPlatform "github.com/smartcvnaija/jobbroker/internal/platform/http"
	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	"github.com/smartcvnaija/jobbroker/internal/platform/logger"
	"github.com/smartcvnaija/jobbroker/internal/platform/mailer"
	"github.com/smartcvnaija/jobbroker/internal/platform/messaging"
	"github.com/smartcvnaija/jobbroker/internal/platform/metrics"
	"github.com/smartcvnaija/jobbroker/internal/platform/postgres"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
	"github.com/smartcvnaija/jobbroker/internal/platform/ratelimit"
	"github.com/smartcvnaija/jobbroker/internal/platform/redis"
	"github.com/smartcvnaija/jobbroker/internal/platform/storage"
	"github.com/smartcvnaija/jobbroker/internal/webhook"
	"github.com/smartcvnaija/jobbroker/internal/worker"

	authHandler "github.com/smartcvnaija/jobbroker/modules/auth/handler"
	authRepo "github.com/smartcvnaija/jobbroker/modules/auth/repository"
	authService "github.com/smartcvnaija/jobbroker/modules/auth/service"
	userRepo "github.com/smartcvnaija/jobbroker/modules/users/repository"

	appHandler "github.com/smartcvnaija/jobbroker/modules/applications/handler"
	appRepo "github.com/smartcvnaija/jobbroker/modules/applications/repository"
	appService "github.com/smartcvnaija/jobbroker/modules/applications/service"

	companyHandler "github.com/smartcvnaija/jobbroker/modules/companies/handler"
	companyRepo "github.com/smartcvnaija/jobbroker/modules/companies/repository"
	companyService "github.com/smartcvnaija/jobbroker/modules/companies/service"

	resumeHandler "github.com/smartcvnaija/jobbroker/modules/resumes/handler"
	resumeRepo "github.com/smartcvnaija/jobbroker/modules/resumes/repository"
	resumeService "github.com/smartcvnaija/jobbroker/modules/resumes/service"

	commentHandler "github.com/smartcvnaija/jobbroker/modules/comments/handler"
	commentRepo "github.com/smartcvnaija/jobbroker/modules/comments/repository"
	commentService "github.com/smartcvnaija/jobbroker/modules/comments/service"

	analyticsHandler "github.com/smartcvnaija/jobbroker/modules/analytics/handler"
	analyticsRepo "github.com/smartcvnaija/jobbroker/modules/analytics/repository"
	analyticsService "github.com/smartcvnaija/jobbroker/modules/analytics/service"

	jlHandler "github.com/smartcvnaija/jobbroker/modules/joblistings/handler"
	jlRepo "github.com/smartcvnaija/jobbroker/modules/joblistings/repository"
	jlService "github.com/smartcvnaija/jobbroker/modules/joblistings/service"

	usageRepo "github.com/smartcvnaija/jobbroker/modules/dailyusage/repository"
	usageService "github.com/smartcvnaija/jobbroker/modules/dailyusage/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title SmartCVNaija Job Broker API
// @version 1.0
// @description Conversational WhatsApp job-application broker: inbound message routing, CV intake, AI-assisted cover letters and ATS scoring, and a recruiter/admin console over the same catalog.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@smartcvnaija.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()
	zapLog := appLogger.Logger

	appLogger.Info("starting jobbroker API server",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	startedAt := time.Now()
	ctx := context.Background()

	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()
	appLogger.Info("connected to PostgreSQL")

	migrationsPath := "./migrations"
	if err := postgres.RunMigrations(ctx, cfg.Database, appLogger, migrationsPath); err != nil {
		appLogger.Fatal("failed to run database migrations",
			zap.Error(err),
			zap.String("migrations_path", migrationsPath),
		)
	}

	// Two logical Redis databases on one physical server: session/rate-limit
	// traffic (C1/C2) never contends with the queue fabric's lists (C4).
	sessionRedis, err := redis.New(ctx, cfg.Redis, cfg.Redis.SessionDB)
	if err != nil {
		appLogger.Fatal("failed to connect to session Redis", zap.Error(err))
	}
	defer sessionRedis.Close()

	queueRedis, err := redis.New(ctx, cfg.Redis, cfg.Redis.QueueDB)
	if err != nil {
		appLogger.Fatal("failed to connect to queue Redis", zap.Error(err))
	}
	defer queueRedis.Close()
	appLogger.Info("connected to Redis", zap.Int("session_db", cfg.Redis.SessionDB), zap.Int("queue_db", cfg.Redis.QueueDB))

	var s3Client *storage.S3Client
	if cfg.S3.Endpoint != "" && cfg.S3.Bucket != "" {
		s3Client, err = storage.NewS3Client(cfg.S3)
		if err != nil {
			appLogger.Warn("failed to initialize S3 client, resume uploads disabled", zap.Error(err))
		} else {
			appLogger.Info("S3 client initialized", zap.String("bucket", cfg.S3.Bucket))
		}
	} else {
		appLogger.Info("S3 configuration not provided, resume uploads disabled")
	}

	if err := os.MkdirAll(cfg.App.UploadsDir, 0o755); err != nil {
		appLogger.Fatal("failed to create uploads directory", zap.Error(err))
	}

	// ── platform singletons ────────────────────────────────────────────────
	kvStore := kv.New(sessionRedis.Client)
	limiter := ratelimit.New(kvStore, zapLog)
	jobQueue := queue.New(queueRedis.Client, kvStore, cfg.Queue, zapLog)
	msgClient := messaging.New(cfg.Messaging, zapLog)

	aiRouter := ai.NewRouter(zapLog, cfg.AI.IntentTimeout,
		ai.NewOpenAIProvider(cfg.AI.PrimaryAPIKey, cfg.AI.PrimaryBaseURL, cfg.AI.PrimaryModel),
		ai.NewAnthropicProvider(cfg.AI.FallbackAPIKey, cfg.AI.FallbackModel),
	)

	alertChannel := mailer.NewAlertChannel(cfg.Alert)

	memoryGovernor := worker.NewMemoryGovernor(zapLog)
	memoryGovernor.Start(ctx)

	healthChecker := metrics.NewHealthChecker(pgClient, kvStore, memoryGovernor)
	metricsCollector := metrics.New(pgClient, jobQueue, startedAt)
	metricsHandler := metrics.NewHandler(metricsCollector, healthChecker, jobQueue)

	// ── repositories ────────────────────────────────────────────────────────
	userRepository := userRepo.NewUserRepository(pgClient.Pool)
	tokenRepository := authRepo.NewRefreshTokenRepository(pgClient.Pool)
	companyRepository := companyRepo.NewCompanyRepository(pgClient.Pool)
	resumeRepository := resumeRepo.NewResumeRepository(pgClient.Pool)
	commentRepository := commentRepo.NewCommentRepository(pgClient.Pool)
	listingRepository := jlRepo.NewJobListingRepository(pgClient.Pool)
	applicationRepository := appRepo.NewApplicationRepository(pgClient.Pool)
	analyticsRepository := analyticsRepo.NewAnalyticsRepository(pgClient.Pool)
	usageRepository := usageRepo.NewDailyUsageRepository(pgClient.Pool)

	// ── domain services ─────────────────────────────────────────────────────
	jwtManager := auth.NewJWTManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	authMiddleware := auth.AuthMiddleware(jwtManager)

	authSvc := authService.NewAuthService(userRepository, tokenRepository, jwtManager, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	companySvc := companyService.NewCompanyService(companyRepository)
	resumeSvc := resumeService.NewResumeService(resumeRepository, s3Client)
	commentSvc := commentService.NewCommentService(commentRepository)
	listingSvc := jlService.NewJobListingService(listingRepository)
	applicationSvc := appService.NewApplicationService(applicationRepository, listingRepository, resumeRepository, commentRepository, zapLog)
	analyticsSvc := analyticsService.NewAnalyticsService(analyticsRepository)
	usageSvc := usageService.NewDailyUsageService(usageRepository, cfg.Payment)

	// ── conversational pipeline (C6-C9) ─────────────────────────────────────
	// The CV (C7) and application (C8) workers are registered and driven by
	// cmd/worker, a separate process, so an API-server restart never drops
	// or double-delivers an in-flight background job. This process only
	// enqueues onto jobQueue; it never calls RegisterHandler or Start on it.
	session := conversation.NewSession(kvStore)
	resolver := intent.NewResolver(aiRouter, zapLog)
	orchestrator := conversation.NewOrchestrator(session, resolver, msgClient, limiter, jobQueue, listingSvc, usageSvc, cfg.Payment, cfg.App.UploadsDir, zapLog)

	// ── webhook router (C10) ────────────────────────────────────────────────
	webhookRouter := &webhook.Router{
		Inbound:   webhook.NewInboundHandler(orchestrator, session, msgClient, zapLog),
		Payment:   webhook.NewPaymentHandler(cfg.Payment, usageSvc, session, orchestrator, msgClient, alertChannel, zapLog),
		Recruiter: webhook.NewRecruiterHandler(listingSvc, limiter, alertChannel, zapLog),
	}

	// ── admin-console handlers ───────────────────────────────────────────────
	authHdl := authHandler.NewAuthHandler(authSvc)
	companyHdl := companyHandler.NewCompanyHandler(companySvc)
	resumeHdl := resumeHandler.NewResumeHandler(resumeSvc)
	applicationHdl := appHandler.NewApplicationHandler(applicationSvc, jobQueue)
	commentHdl := commentHandler.NewCommentHandler(commentSvc)
	analyticsHdl := analyticsHandler.NewAnalyticsHandler(analyticsSvc)
	listingHdl := jlHandler.NewJobListingHandler(listingSvc)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpPlatform.RequestIDMiddleware())
	router.Use(httpPlatform.LoggerMiddleware(appLogger))
	router.Use(httpPlatform.CORSMiddleware())

	if cfg.Server.Env != "production" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		appLogger.Info("swagger UI available at /swagger/index.html")
	}

	metricsHandler.RegisterRoutes(router)
	webhookRouter.RegisterRoutes(router.Group(""))

	v1 := router.Group("/api/v1")
	{
		authHdl.RegisterRoutes(v1)
		companyHdl.RegisterRoutes(v1, authMiddleware)
		resumeHdl.RegisterRoutes(v1, authMiddleware)
		applicationHdl.RegisterRoutes(v1, authMiddleware)
		commentHdl.RegisterRoutes(v1, authMiddleware)
		analyticsHdl.RegisterRoutes(v1, authMiddleware)
		listingHdl.RegisterRoutes(v1, authMiddleware)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.Info("server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("server exited")
}
