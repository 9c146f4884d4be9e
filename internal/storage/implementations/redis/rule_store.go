package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/models"
)

// Config holds configuration for Redis rule storage
type Config struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Password     string        `json:"password" yaml:"password"`
	DB           int           `json:"db" yaml:"db"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	PoolSize     int           `json:"pool_size" yaml:"pool_size"`
	TTL          time.Duration `json:"ttl" yaml:"ttl"`
	KeyPrefix    string        `json:"key_prefix" yaml:"key_prefix"`
}

// RuleStore persists per-dataset rules and validation results in Redis as
// JSON payloads under prefixed keys.
type RuleStore struct {
	config *Config
	client *redis.Client
	logger *logrus.Logger
	mu     sync.RWMutex
}

// NewRuleStore creates a Redis-backed rule store
func NewRuleStore(config *Config, logger *logrus.Logger) (*RuleStore, error) {
	if config == nil {
		return nil, errors.NewStorageError("INVALID_CONFIG", "redis config cannot be nil")
	}
	if config.Addr == "" {
		return nil, errors.NewStorageError("INVALID_CONFIG", "redis address is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "tablens"
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &RuleStore{
		config: config,
		logger: logger,
	}, nil
}

// Connect establishes the connection to Redis
func (s *RuleStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         s.config.Addr,
		Password:     s.config.Password,
		DB:           s.config.DB,
		DialTimeout:  s.config.DialTimeout,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		PoolSize:     s.config.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "CONNECTION_FAILED", "redis ping failed")
	}

	s.client = client
	s.logger.WithField("addr", s.config.Addr).Info("Redis rule store connected")
	return nil
}

// Close releases the Redis connection
func (s *RuleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// SaveRules replaces the rule set stored for a dataset
func (s *RuleStore) SaveRules(ctx context.Context, datasetID string, rules []*models.CustomRule) error {
	return s.setJSON(ctx, s.key("rules", datasetID), rules)
}

// LoadRules returns the rule set stored for a dataset
func (s *RuleStore) LoadRules(ctx context.Context, datasetID string) ([]*models.CustomRule, error) {
	var rules []*models.CustomRule
	if err := s.getJSON(ctx, s.key("rules", datasetID), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// SaveResults replaces the validation results stored for a dataset
func (s *RuleStore) SaveResults(ctx context.Context, datasetID string, results []*models.ValidationResult) error {
	return s.setJSON(ctx, s.key("results", datasetID), results)
}

// LoadResults returns the validation results stored for a dataset
func (s *RuleStore) LoadResults(ctx context.Context, datasetID string) ([]*models.ValidationResult, error) {
	var results []*models.ValidationResult
	if err := s.getJSON(ctx, s.key("results", datasetID), &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *RuleStore) key(kind, datasetID string) string {
	return fmt.Sprintf("%s:%s:%s", s.config.KeyPrefix, kind, datasetID)
}

func (s *RuleStore) setJSON(ctx context.Context, key string, payload interface{}) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return errors.NewStorageError("NOT_CONNECTED", "redis rule store is not connected")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MARSHAL_FAILED", key)
	}
	if err := client.Set(ctx, key, data, s.config.TTL).Err(); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", key)
	}
	return nil
}

func (s *RuleStore) getJSON(ctx context.Context, key string, target interface{}) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return errors.NewStorageError("NOT_CONNECTED", "redis rule store is not connected")
	}

	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return errors.WrapError(err, errors.ErrorTypeStorage, "READ_FAILED", key)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "UNMARSHAL_FAILED", key)
	}
	return nil
}
