// Command worker runs the background job fabric (C7/C8): CV text
// extraction and identity parsing, and the slower AI-assisted application
// pipeline, plus the cleanup sweep that reaps expired uploads. It shares no
// in-process state with cmd/api — only the same Postgres database and
// Redis queue DB — so either can restart independently.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartcvnaija/jobbroker/internal/config"
	"github.com/smartcvnaija/jobbroker/internal/platform/ai"
	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	"github.com/smartcvnaija/jobbroker/internal/platform/logger"
	"github.com/smartcvnaija/jobbroker/internal/platform/mailer"
	"github.com/smartcvnaija/jobbroker/internal/platform/postgres"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
	"github.com/smartcvnaija/jobbroker/internal/platform/redis"
	"github.com/smartcvnaija/jobbroker/internal/worker"

	appRepo "github.com/smartcvnaija/jobbroker/modules/applications/repository"
	appService "github.com/smartcvnaija/jobbroker/modules/applications/service"
	cleanupRepo "github.com/smartcvnaija/jobbroker/modules/cleanup/repository"
	cleanupService "github.com/smartcvnaija/jobbroker/modules/cleanup/service"
	commentRepo "github.com/smartcvnaija/jobbroker/modules/comments/repository"
	jlRepo "github.com/smartcvnaija/jobbroker/modules/joblistings/repository"
	jlService "github.com/smartcvnaija/jobbroker/modules/joblistings/service"
	resumeRepo "github.com/smartcvnaija/jobbroker/modules/resumes/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()
	zapLog := appLogger.Logger

	appLogger.Info("starting jobbroker worker process", zap.String("env", cfg.Server.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()

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

	if err := os.MkdirAll(cfg.App.UploadsDir, 0o755); err != nil {
		appLogger.Fatal("failed to create uploads directory", zap.Error(err))
	}

	kvStore := kv.New(sessionRedis.Client)
	jobQueue := queue.New(queueRedis.Client, kvStore, cfg.Queue, zapLog)

	aiRouter := ai.NewRouter(zapLog, cfg.AI.CoverLetterTimeout,
		ai.NewOpenAIProvider(cfg.AI.PrimaryAPIKey, cfg.AI.PrimaryBaseURL, cfg.AI.PrimaryModel),
		ai.NewAnthropicProvider(cfg.AI.FallbackAPIKey, cfg.AI.FallbackModel),
	)

	recruiterMail := mailer.NewIdentity(cfg.SMTP)
	confirmMail := mailer.NewIdentity(cfg.Confirm)

	listingRepository := jlRepo.NewJobListingRepository(pgClient.Pool)
	resumeRepository := resumeRepo.NewResumeRepository(pgClient.Pool)
	commentRepository := commentRepo.NewCommentRepository(pgClient.Pool)
	applicationRepository := appRepo.NewApplicationRepository(pgClient.Pool)
	cleanupRepository := cleanupRepo.NewCleanupRepository(pgClient.Pool)

	listingSvc := jlService.NewJobListingService(listingRepository)
	applicationSvc := appService.NewApplicationService(applicationRepository, listingRepository, resumeRepository, commentRepository, zapLog)
	cleanupSvc := cleanupService.NewCleanupService(cleanupRepository, zapLog)

	memoryGovernor := worker.NewMemoryGovernor(zapLog)
	memoryGovernor.Start(ctx)

	cvWorker := worker.NewCVWorker(kvStore, cfg.App.UploadsDir, memoryGovernor, zapLog)
	applicationWorker := worker.NewApplicationWorker(applicationSvc, listingSvc, aiRouter, recruiterMail, confirmMail, cleanupSvc, zapLog)

	jobQueue.RegisterHandler(queue.QueueCVProcessing, cfg.Queue.Concurrency, cfg.Queue.MaxRetries, cfg.Queue.JobTimeout, cvWorker.Handle)
	jobQueue.RegisterHandler(queue.QueueCVProcessingBackground, 1, cfg.Queue.MaxRetries, cfg.Queue.JobTimeout, cvWorker.Handle)
	jobQueue.RegisterHandler(queue.QueueJobApplications, cfg.Queue.Concurrency, cfg.Queue.MaxRetries, cfg.Queue.JobTimeout, applicationWorker.Handle)
	jobQueue.Start(ctx)

	// startup recovery: any cleanup task left mid-flight by a prior process
	// death is picked back up before the periodic sweep takes over.
	cleanupSvc.Start(ctx, 5*time.Minute)

	appLogger.Info("worker process ready, consuming queues",
		zap.String("cv_processing", queue.QueueCVProcessing),
		zap.String("cv_processing_background", queue.QueueCVProcessingBackground),
		zap.String("job_applications", queue.QueueJobApplications),
	)

	<-ctx.Done()
	appLogger.Info("worker process shutting down")
}
