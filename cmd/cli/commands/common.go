package commands

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tablens/tablens/internal/storage"
	"github.com/tablens/tablens/internal/storage/implementations/file"
	"github.com/tablens/tablens/internal/storage/implementations/postgres"
	"github.com/tablens/tablens/internal/storage/implementations/redis"
	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/interfaces"
)

// Verbose is set by the root command's --verbose flag
var Verbose bool

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

// openStore builds and connects the rule store named by the viper config
func openStore(ctx context.Context, logger *logrus.Logger) (interfaces.RuleStore, error) {
	config := &storage.Config{Backend: viper.GetString("storage.backend")}

	switch config.Backend {
	case constants.StorageBackendRedis:
		config.Redis = &redis.Config{
			Addr:     viper.GetString("storage.redis_addr"),
			Password: viper.GetString("storage.redis_password"),
			DB:       viper.GetInt("storage.redis_db"),
		}
	case constants.StorageBackendPostgres:
		config.Postgres = &postgres.Config{
			DSN: viper.GetString("storage.postgres_dsn"),
		}
	default:
		config.Backend = constants.StorageBackendFile
		config.File = &file.Config{
			BasePath:   viper.GetString("storage.path"),
			CreateDirs: true,
		}
	}

	store, err := storage.NewRuleStore(config, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Connect(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
