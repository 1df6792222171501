package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/morning-affirmations/internal/config"
	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/queue"
	"github.com/benvon/morning-affirmations/internal/telemetry"
	"github.com/benvon/morning-affirmations/internal/workers"
	"go.uber.org/zap"
)

const version = "2.0.0"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(telemetry.WorkerServiceName, version, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.Duration("lock_max_age", cfg.LockMaxAge),
		zap.String("timezone", cfg.Location.String()),
	)

	shutdownTracing, _ := telemetry.Setup(context.Background(), cfg.OTELEnabled, telemetry.WorkerServiceName, cfg.OTELEndpoint, zapLogger)
	defer shutdownTracing()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	statsRepo := database.NewSelectionStatisticsRepository(db)
	lockRepo := database.NewLockedSelectionRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobQueue, err := queue.ConnectWithRetry(ctx, cfg.RabbitMQURL, zapLogger, 10, 2*time.Second)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("rabbitmq_ready", zap.Int("prefetch", cfg.RabbitMQPrefetch))

	processor := workers.NewProcessor(statsRepo, lockRepo, jobQueue, cfg.LockMaxAge, logger.Component(zapLogger, "processor"))
	scheduler := workers.NewScheduler(jobQueue, cfg.Location, workers.DefaultMaintenanceHour, logger.Component(zapLogger, "scheduler"))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("scheduler_stopped_with_error", zap.Error(err))
		}
	}()

	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}
	zapLogger.Info("worker_started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}
				if err := processor.ProcessJob(ctx, msg); err != nil {
					job := msg.GetJob()
					zapLogger.Error("failed_to_process_job",
						zap.Error(err),
						zap.String("job_id", job.ID.String()),
						zap.String("job_type", string(job.Type)),
					)
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	<-sigChan
	zapLogger.Info("worker_shutting_down")
	cancel()
	zapLogger.Info("worker_stopped")
}
