package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/benvon/morning-affirmations/internal/cache"
	"github.com/benvon/morning-affirmations/internal/catalog"
	"github.com/benvon/morning-affirmations/internal/config"
	"github.com/benvon/morning-affirmations/internal/database"
	"github.com/benvon/morning-affirmations/internal/handlers"
	"github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/middleware"
	"github.com/benvon/morning-affirmations/internal/queue"
	"github.com/benvon/morning-affirmations/internal/selector"
	"github.com/benvon/morning-affirmations/internal/services/curation"
	"github.com/benvon/morning-affirmations/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
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

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(telemetry.ServerServiceName, version, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.Strings("frontend_urls", cfg.FrontendURLs),
		zap.String("content_dir", cfg.ContentDir),
		zap.String("timezone", cfg.Location.String()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	shutdownTracing, tracing := telemetry.Setup(context.Background(), cfg.OTELEnabled, telemetry.ServerServiceName, cfg.OTELEndpoint, zapLogger)
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

	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	jobQueue, err := queue.ConnectWithRetry(context.Background(), cfg.RabbitMQURL, zapLogger, 10, 2*time.Second)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()

	// Content and selection
	contentStore := catalog.NewStore(cfg.ContentDir, logger.Component(zapLogger, "catalog"))
	contentStore.OnReload(func(snap *catalog.Snapshot) {
		if len(snap.ActiveAffirmations()) == 0 {
			zapLogger.Warn("content_reloaded_without_affirmations", zap.String("dir", snap.Dir))
		}
	})
	sel := selector.New(
		selector.WithCategories(cfg.VideoCategories),
		selector.WithLogger(logger.Component(zapLogger, "selector")),
	)

	lockRepo := database.NewLockedSelectionRepository(db)
	statsRepo := database.NewSelectionStatisticsRepository(db)
	prefStore := cache.NewPreferenceStore(redisClient, cfg.PreferencesTTL)

	curationService := curation.NewService(contentStore, sel, lockRepo, prefStore,
		curation.WithPublisher(jobQueue),
		curation.WithLocation(cfg.Location),
		curation.WithLogger(logger.Component(zapLogger, "curation")),
	)

	contentHandler := handlers.NewContentHandler(curationService, zapLogger)
	lockHandler := handlers.NewLockHandler(curationService, zapLogger)
	preferencesHandler := handlers.NewPreferencesHandler(curationService, zapLogger)
	statisticsHandler := handlers.NewStatisticsHandler(statsRepo, zapLogger)
	healthChecker := handlers.NewHealthCheckerWithDeps(db, handlers.PingFunc(redisClient.Ping), jobQueue, contentStore)

	rateLimitMW, err := middleware.RateLimit(redisClient.Redis(), cfg.RateLimit, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	r := mux.NewRouter()

	// gorilla/mux runs middleware in registration order: the first registered is outermost
	zapLogger.Info("setting_up_middleware")
	if tracing {
		r.Use(otelmux.Middleware(telemetry.ServerServiceName))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURLs, zapLogger))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Session)
	r.Use(middleware.Logging(zapLogger))

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	openAPIHandler := handlers.NewOpenAPIHandler(filepath.Join("api", "openapi", "openapi.yaml"))
	openAPIHandler.RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)
	contentHandler.RegisterRoutes(apiRouter)
	lockHandler.RegisterRoutes(apiRouter)
	preferencesHandler.RegisterRoutes(apiRouter)
	statisticsHandler.RegisterRoutes(apiRouter)

	// Preflight requests for any path; CORS has already written its headers
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   35 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if cfg.ContentWatch {
		watcher, err := catalog.NewWatcher(contentStore, logger.Component(zapLogger, "catalog"), catalog.DefaultDebounce)
		if err != nil {
			zapLogger.Warn("content_watcher_unavailable", zap.Error(err))
		} else if err := watcher.Start(bgCtx); err != nil {
			zapLogger.Warn("content_watcher_unavailable", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	dlqGC := queue.NewGarbageCollector(jobQueue, queue.DefaultGCInterval, queue.DefaultDLQRetention, zapLogger)
	go func() {
		if err := dlqGC.Start(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
		}
	}()

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	bgCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
		return
	}

	zapLogger.Info("server_exited")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":"%s","timestamp":"%s"}`, version, time.Now().UTC().Format(time.RFC3339))
}
