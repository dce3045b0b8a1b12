package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/edsapi/internal/config"
	"github.com/kailas-cloud/edsapi/internal/db"
	"github.com/kailas-cloud/edsapi/internal/db/memory"
	dbRedis "github.com/kailas-cloud/edsapi/internal/db/redis"
	"github.com/kailas-cloud/edsapi/internal/domain/options"
	logpkg "github.com/kailas-cloud/edsapi/internal/logger"
	"github.com/kailas-cloud/edsapi/internal/metrics"
	"github.com/kailas-cloud/edsapi/internal/repository/tokencache"
	chiTransport "github.com/kailas-cloud/edsapi/internal/transport/chi"
	"github.com/kailas-cloud/edsapi/internal/transport/eds"
	backenduc "github.com/kailas-cloud/edsapi/internal/usecase/backend"
	healthuc "github.com/kailas-cloud/edsapi/internal/usecase/health"
	"github.com/kailas-cloud/edsapi/internal/usecase/records"
	"github.com/kailas-cloud/edsapi/internal/usecase/request"
	tokenuc "github.com/kailas-cloud/edsapi/internal/usecase/token"
	"github.com/kailas-cloud/edsapi/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, closeLog, err := logpkg.NewFileLogger(env, cfg.Logging.Level, logpkg.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = closeLog() }()

	logger.Info("Starting edsapi server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("profile", cfg.EDS.Profile),
		zap.Bool("ip_auth", cfg.EDS.IPAuth),
	)

	store, err := newStore(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create token store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Token store not ready", zap.Error(err))
	}
	logger.Info("Token store ready")

	// Metrics are registered explicitly, not from init().
	metrics.Register()

	// Composition root. The client needs the manager to renew sessions and
	// the manager needs the client to authenticate, so the renewer is set
	// after both exist.
	client := eds.NewClient(&eds.Config{
		AuthURL:   cfg.EDS.AuthURL,
		APIURL:    cfg.EDS.APIURL,
		Timeout:   time.Duration(cfg.EDS.TimeoutSec) * time.Second,
		UserAgent: version.UserAgent("server"),
		Logger:    logger,
	})
	tokens := tokenuc.New(
		cfg.EDS.Account(),
		tokencache.New(store, cfg.Cache.KeyPrefix),
		client,
		metrics.TokenRefreshTotal,
		metrics.TokenCacheTotal,
		logger,
	)
	client.WithSessionRenewer(tokens)

	backend := backenduc.New(
		tokens,
		client,
		request.NewBuilder(options.Build(options.Info{}, cfg.Search)),
		records.NewFactory(nil),
		metrics.BackendErrorsTotal,
		logger,
	).WithSourceIdentifier(cfg.EDS.SourceIdentifier)

	opts, err := backend.DiscoverOptions(ctx, cfg.Search)
	if err != nil {
		logger.Warn("Search options discovery failed, using configured defaults", zap.Error(err))
	}
	backend.WithOptions(opts)

	healthSvc := healthuc.New(store, backend)
	server := chiTransport.NewServer(backend, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLog(logger))
	r.Use(chiTransport.Recoverer(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// newStore creates the token store for the configured driver.
// Valkey speaks the Redis protocol and shares the rueidis store.
func newStore(cfg config.CacheConfig) (db.Store, error) {
	switch cfg.Driver {
	case "memory":
		s, err := memory.NewStore(cfg.MaxItems)
		if err != nil {
			return nil, fmt.Errorf("create memory store: %w", err)
		}
		return s, nil
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
