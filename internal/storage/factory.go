package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/storage/implementations/file"
	"github.com/tablens/tablens/internal/storage/implementations/postgres"
	"github.com/tablens/tablens/internal/storage/implementations/redis"
	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/interfaces"
)

// Config selects and configures a rule storage backend
type Config struct {
	Backend  string           `json:"backend" yaml:"backend"`
	File     *file.Config     `json:"file,omitempty" yaml:"file,omitempty"`
	Redis    *redis.Config    `json:"redis,omitempty" yaml:"redis,omitempty"`
	Postgres *postgres.Config `json:"postgres,omitempty" yaml:"postgres,omitempty"`
}

// NewRuleStore builds the rule store named by the config. The caller owns
// the Connect/Close lifecycle.
func NewRuleStore(config *Config, logger *logrus.Logger) (interfaces.RuleStore, error) {
	if config == nil {
		return nil, errors.NewConfigurationError("MISSING_CONFIG", "storage config cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	var (
		store interfaces.RuleStore
		err   error
	)

	switch config.Backend {
	case constants.StorageBackendFile, "":
		store, err = file.NewRuleStore(config.File, logger)
	case constants.StorageBackendRedis:
		store, err = redis.NewRuleStore(config.Redis, logger)
	case constants.StorageBackendPostgres:
		store, err = postgres.NewRuleStore(config.Postgres, logger)
	default:
		return nil, errors.NewConfigurationError("UNSUPPORTED_BACKEND",
			fmt.Sprintf("storage backend %q is not supported", config.Backend))
	}
	if err != nil {
		return nil, err
	}

	logger.WithField("backend", config.Backend).Info("Created rule store")
	return store, nil
}
