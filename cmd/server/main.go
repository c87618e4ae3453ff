package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/freeslots/internal/auth"
	"github.com/mmynk/freeslots/internal/config"
	"github.com/mmynk/freeslots/internal/metrics"
	"github.com/mmynk/freeslots/internal/middleware"
	"github.com/mmynk/freeslots/internal/resolver"
	"github.com/mmynk/freeslots/internal/service"
	"github.com/mmynk/freeslots/internal/storage/sqlite"
	"github.com/mmynk/freeslots/pkg/api/apiconnect"
	"github.com/mmynk/freeslots/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := logging.SetupWithLevel(cfg.LogLevel())
	if cfg.IsLocal() && os.Getenv("JWT_SECRET") == "" {
		logger.Warn("JWT_SECRET not set, using the local development secret")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error("Failed to create data directory", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	opts := []resolver.Option{
		resolver.WithLocation(cfg.Resolve.Location),
		resolver.WithMaxParallel(cfg.Resolve.MaxParallel),
		resolver.WithMetrics(m),
		resolver.WithLogger(logger),
	}
	if cfg.Cache.Enabled {
		cache, err := resolver.NewCache(cfg.Cache.Size)
		if err != nil {
			logger.Error("Failed to create resolve cache", "error", err)
			os.Exit(1)
		}
		opts = append(opts, resolver.WithCache(cache))
	}
	res := resolver.New(store, opts...)
	logger.Info("Resolver initialized",
		"timezone", res.Location().String(),
		"max_parallel", cfg.Resolve.MaxParallel,
		"cache", cfg.Cache.Enabled,
	)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	// Auth endpoints are public; GetCurrentUser checks the caller itself.
	public := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.OptionalAuth(jwtManager),
	)
	protected := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.RequireAuth(jwtManager),
	)

	mux := http.NewServeMux()

	// Register Connect services
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger), public)
	mux.Handle(authPath, authHandler)

	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(
		service.NewGroupService(store), protected)
	mux.Handle(groupPath, groupHandler)

	availabilityPath, availabilityHandler := apiconnect.NewAvailabilityServiceHandler(
		service.NewAvailabilityService(store, res), protected)
	mux.Handle(availabilityPath, availabilityHandler)

	mux.Handle("/metrics", metrics.Handler(registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Add logging and CORS middleware
	handler := middleware.HTTPLogging(middleware.CORS(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Connect server starting", "address", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
