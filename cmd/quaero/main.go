package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quaero-io/quaero/internal/config"
	"github.com/quaero-io/quaero/internal/db"
	dbMemory "github.com/quaero-io/quaero/internal/db/memory"
	dbRedis "github.com/quaero-io/quaero/internal/db/redis"
	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/document"
	logpkg "github.com/quaero-io/quaero/internal/logger"
	"github.com/quaero-io/quaero/internal/metrics"
	documentrepo "github.com/quaero-io/quaero/internal/repository/document"
	searchrepo "github.com/quaero-io/quaero/internal/repository/search"
	chiTransport "github.com/quaero-io/quaero/internal/transport/chi"
	documentuc "github.com/quaero-io/quaero/internal/usecase/document"
	healthuc "github.com/quaero-io/quaero/internal/usecase/health"
	searchuc "github.com/quaero-io/quaero/internal/usecase/search"
	"github.com/quaero-io/quaero/internal/version"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting quaero API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	case "memory":
		store = dbMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Bootstrap the full-text index; safe to repeat on every boot.
	if err := store.EnsureIndex(ctx, documentIndex()); err != nil {
		logger.Fatal("Failed to ensure document index", zap.Error(err))
	}
	logger.Info("Document index ready", zap.String("index", domain.IndexName))

	// Repositories and use case services
	docRepo := documentrepo.NewRepository(store)
	searchRepo := searchrepo.NewRepository(store)

	docSvc := documentuc.New(docRepo)
	searchSvc := searchuc.New(searchRepo)
	healthSvc := healthuc.New(store, docRepo)

	server := chiTransport.NewServer(searchSvc, docSvc, healthSvc, cfg.Search.SnippetLength)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// documentIndex is the full-text index over document records.
func documentIndex() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     domain.IndexName,
		Prefixes: []string{domain.DocKeyPrefix},
		Fields: []db.IndexField{
			{Name: db.FieldContent, Type: db.IndexFieldText},
			{Name: document.MetaTitle, Type: db.IndexFieldText},
			{Name: document.MetaDescription, Type: db.IndexFieldText},
			{Name: db.FieldCreatedAt, Type: db.IndexFieldNumeric, Sortable: true},
		},
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
