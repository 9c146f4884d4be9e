package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/quality"
	"github.com/tablens/tablens/internal/server"
	"github.com/tablens/tablens/internal/storage"
	"github.com/tablens/tablens/internal/storage/implementations/file"
	"github.com/tablens/tablens/internal/storage/implementations/postgres"
	"github.com/tablens/tablens/internal/storage/implementations/redis"
	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/constants"
)

func main() {
	config := ParseFlags()

	logger := setupLogger(config.LogLevel, config.LogFormat)

	logger.WithFields(logrus.Fields{
		"version":   Version,
		"commit":    GitCommit,
		"buildDate": BuildDate,
	}).Info("Starting tablens data quality server")

	store, err := storage.NewRuleStore(storageConfig(config), logger)
	if err != nil {
		logger.WithError(err).Fatal("Cannot create rule store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Connect(ctx); err != nil {
		logger.WithError(err).Fatal("Cannot connect rule store")
	}
	defer store.Close()

	engine := quality.NewEngine(nil, logger)
	ruleEngine := validation.NewRuleEngine(nil, logger)

	srv := server.NewServer(&server.Config{
		Host:         config.Host,
		Port:         config.Port,
		ReadTimeout:  constants.DefaultReadTimeout,
		WriteTimeout: constants.DefaultWriteTimeout,
	}, logger, engine, ruleEngine, store, Version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("Server stopped unexpectedly")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.DefaultShutdownGrace)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}

func storageConfig(config *Config) *storage.Config {
	switch config.StorageBackend {
	case constants.StorageBackendRedis:
		return &storage.Config{
			Backend: constants.StorageBackendRedis,
			Redis:   &redis.Config{Addr: config.RedisAddr},
		}
	case constants.StorageBackendPostgres:
		return &storage.Config{
			Backend:  constants.StorageBackendPostgres,
			Postgres: &postgres.Config{DSN: config.PostgresDSN},
		}
	default:
		return &storage.Config{
			Backend: constants.StorageBackendFile,
			File:    &file.Config{BasePath: config.StoragePath, CreateDirs: true},
		}
	}
}

func setupLogger(level, format string) *logrus.Logger {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
