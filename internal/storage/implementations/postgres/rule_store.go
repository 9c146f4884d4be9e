package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/models"
)

// Config holds configuration for Postgres rule storage
type Config struct {
	DSN             string        `json:"dsn" yaml:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

// RuleStore persists per-dataset rules and validation results in Postgres
// as JSONB payloads keyed by dataset id.
type RuleStore struct {
	config *Config
	db     *sql.DB
	logger *logrus.Logger
	mu     sync.RWMutex
}

const schema = `
CREATE TABLE IF NOT EXISTS dataset_rules (
	dataset_id TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS dataset_results (
	dataset_id TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// NewRuleStore creates a Postgres-backed rule store
func NewRuleStore(config *Config, logger *logrus.Logger) (*RuleStore, error) {
	if config == nil {
		return nil, errors.NewStorageError("INVALID_CONFIG", "postgres config cannot be nil")
	}
	if config.DSN == "" {
		return nil, errors.NewStorageError("INVALID_CONFIG", "postgres DSN is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &RuleStore{
		config: config,
		logger: logger,
	}, nil
}

// Connect opens the connection pool and bootstraps the schema
func (s *RuleStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.config.DSN)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "OPEN_FAILED", "cannot open postgres connection")
	}

	if s.config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(s.config.MaxOpenConns)
	}
	if s.config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(s.config.MaxIdleConns)
	}
	if s.config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(s.config.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.WrapError(err, errors.ErrorTypeStorage, "CONNECTION_FAILED", "postgres ping failed")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return errors.WrapError(err, errors.ErrorTypeStorage, "SCHEMA_FAILED", "cannot bootstrap rule tables")
	}

	s.db = db
	s.logger.Info("Postgres rule store connected")
	return nil
}

// Close releases the connection pool
func (s *RuleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveRules replaces the rule set stored for a dataset
func (s *RuleStore) SaveRules(ctx context.Context, datasetID string, rules []*models.CustomRule) error {
	return s.upsert(ctx, "dataset_rules", datasetID, rules)
}

// LoadRules returns the rule set stored for a dataset
func (s *RuleStore) LoadRules(ctx context.Context, datasetID string) ([]*models.CustomRule, error) {
	var rules []*models.CustomRule
	if err := s.load(ctx, "dataset_rules", datasetID, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// SaveResults replaces the validation results stored for a dataset
func (s *RuleStore) SaveResults(ctx context.Context, datasetID string, results []*models.ValidationResult) error {
	return s.upsert(ctx, "dataset_results", datasetID, results)
}

// LoadResults returns the validation results stored for a dataset
func (s *RuleStore) LoadResults(ctx context.Context, datasetID string) ([]*models.ValidationResult, error) {
	var results []*models.ValidationResult
	if err := s.load(ctx, "dataset_results", datasetID, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *RuleStore) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.NewStorageError("NOT_CONNECTED", "postgres rule store is not connected")
	}
	return s.db, nil
}

func (s *RuleStore) upsert(ctx context.Context, table, datasetID string, payload interface{}) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MARSHAL_FAILED", datasetID)
	}

	query := `INSERT INTO ` + table + ` (dataset_id, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (dataset_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	if _, err := db.ExecContext(ctx, query, datasetID, data); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", datasetID)
	}
	return nil
}

func (s *RuleStore) load(ctx context.Context, table, datasetID string, target interface{}) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	var data []byte
	query := `SELECT payload FROM ` + table + ` WHERE dataset_id = $1`
	if err := db.QueryRowContext(ctx, query, datasetID).Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.WrapError(err, errors.ErrorTypeStorage, "READ_FAILED", datasetID)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "UNMARSHAL_FAILED", datasetID)
	}
	return nil
}
