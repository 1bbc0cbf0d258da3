package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/admin"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/analysis"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/handler"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/auth"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/config"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/consultation"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/database"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/document"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/ingest"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/lawyer"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/legalcase"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/metrics"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/storage"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	blobs, err := storage.New(storage.Config{
		Type:         cfg.StorageType,
		LocalPath:    cfg.StoragePath,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
	})
	if err != nil {
		slog.Error("failed to initialize document storage", "error", err)
		os.Exit(1)
	}

	var genaiClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		genaiClient, err = genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			slog.Warn("gemini client initialization failed; falling back to heuristic analysis", "error", err)
		} else {
			defer genaiClient.Close()
		}
	} else {
		slog.Info("no gemini api key configured; case analysis uses heuristics")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	userRepo := auth.NewUserRepository(db.Pool())
	sessionRepo := auth.NewSessionRepository(db.Pool())
	adminRepo := admin.NewRepository(db.Pool())
	adminResolver := admin.NewResolver(adminRepo, time.Duration(cfg.AdminCacheTTLSec)*time.Second)
	authService := auth.NewService(userRepo, sessionRepo, adminResolver,
		cfg.BcryptCost, time.Duration(cfg.SessionMaxAgeSec)*time.Second)

	notifRepo := notification.NewRepository(db.Pool())
	feed := notification.NewFeed(notifRepo, collector)
	notifService := notification.NewService(notifRepo, feed)

	lawyerRepo := lawyer.NewRepository(db.Pool())
	caseRepo := legalcase.NewRepository(db.Pool())
	caseService := legalcase.NewService(caseRepo, notifService)
	analyzer := analysis.NewService(caseRepo, notifService, genaiClient, cfg.GeminiModel)
	consultRepo := consultation.NewRepository(db.Pool())
	consultService := consultation.NewService(consultRepo, notifService)
	docRepo := document.NewRepository(db.Pool())
	docService := document.NewService(docRepo, blobs, notifService)

	cleaner := worker.NewSessionCleaner(sessionRepo, time.Duration(cfg.SessionSweepSec)*time.Second)
	go cleaner.Start(ctx)

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		consumer := ingest.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, notifService, collector)
		defer consumer.Close()
		go consumer.Run(ctx)
	}

	stop := make(chan struct{})
	defer close(stop)
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerMin, cfg.AuthRateBurst, stop)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:      db,
		Version:       cfg.Version,
		Resolver:      authService,
		AuthLimiter:   limiter,
		Collector:     collector,
		Registry:      registry,
		Auth:          handler.NewAuthHandler(authService, collector),
		Lawyers:       handler.NewLawyerHandler(lawyerRepo),
		Cases:         handler.NewCaseHandler(caseService, caseRepo, analyzer),
		Documents:     handler.NewDocumentHandler(docService, docRepo, caseRepo),
		Consultations: handler.NewConsultationHandler(consultService, consultRepo),
		Notifications: handler.NewNotificationHandler(notifService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting legalaid server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
