package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/config"
	"github.com/kailas-cloud/esdex/internal/db"
	dbMemory "github.com/kailas-cloud/esdex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/esdex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/esdex/internal/db/sqlite"
	"github.com/kailas-cloud/esdex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/esdex/internal/logger"
	"github.com/kailas-cloud/esdex/internal/metrics"
	"github.com/kailas-cloud/esdex/internal/repository/persistence"
	"github.com/kailas-cloud/esdex/internal/storage"
	chiTransport "github.com/kailas-cloud/esdex/internal/transport/chi"
	"github.com/kailas-cloud/esdex/internal/usecase/catalog"
	"github.com/kailas-cloud/esdex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting esdex server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	metrics.RegisterStorageMetrics()

	store, err := openStore(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}

	ctx := context.Background()
	opts := storage.Options{
		IOWorkers:         cfg.Storage.IOWorkers,
		Limits:            request.Limits{DefaultSize: cfg.Search.DefaultSize, MaxResultWindow: cfg.Search.MaxResultWindow},
		MaxBulkActions:    cfg.Bulk.MaxActions,
		SearchParallelism: cfg.Search.Parallelism,
		NodeName:          cfg.Cluster.NodeName,
		ClusterName:       cfg.Cluster.Name,
		Version:           cfg.Cluster.ESVersion,
	}

	var st *storage.Storage
	if store == nil {
		logger.Warn("Persistence disabled, data lives only in memory")
		st = storage.NewInMemory(opts, logger)
	} else {
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")

		var p catalog.Persistence = persistence.NewInstrumented(
			persistence.New(store, cfg.Storage.KeyPrefix), logger.Named("persistence"))
		st = storage.New(p, store, opts, logger)
	}

	loadStart := time.Now()
	if err := st.Load(ctx); err != nil {
		logger.Fatal("Failed to load persisted indices", zap.Error(err))
	}
	logger.Info("Persisted state loaded",
		zap.Int("indices", len(st.ListIndices())),
		zap.Duration("took", time.Since(loadStart)),
	)

	server := chiTransport.NewServer(st, logger.Named("http")).
		WithWatchInterval(time.Duration(cfg.HTTP.WatchIntervalSec) * time.Second)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	if err := st.Flush(shutdownCtx); err != nil {
		logger.Error("Final flush failed", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the backend named by cfg.Driver. The none driver
// returns a nil store.
func openStore(cfg config.StorageConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverMemory:
		return dbMemory.NewStore(), nil
	case config.DriverSQLite:
		return dbSQLite.NewStore(dbSQLite.Config{Path: cfg.Path})
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
