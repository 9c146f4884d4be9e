package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/models"
)

// Config contains configuration for file-based rule storage
type Config struct {
	BasePath   string `json:"base_path" yaml:"base_path"`
	CreateDirs bool   `json:"create_dirs" yaml:"create_dirs"`
}

// RuleStore persists per-dataset rules and validation results as JSON
// files under a base path. It is the default backend for the CLI.
type RuleStore struct {
	config    *Config
	logger    *logrus.Logger
	mu        sync.RWMutex
	connected bool
}

// NewRuleStore creates a file-backed rule store
func NewRuleStore(config *Config, logger *logrus.Logger) (*RuleStore, error) {
	if config == nil {
		return nil, errors.NewStorageError("INVALID_CONFIG", "file store config cannot be nil")
	}
	if config.BasePath == "" {
		return nil, errors.NewStorageError("INVALID_CONFIG", "BasePath is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &RuleStore{
		config: config,
		logger: logger,
	}, nil
}

// Connect prepares the base path
func (s *RuleStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	if s.config.CreateDirs {
		if err := os.MkdirAll(s.config.BasePath, 0o755); err != nil {
			return errors.WrapError(err, errors.ErrorTypeStorage, "MKDIR_FAILED", s.config.BasePath)
		}
	}
	if info, err := os.Stat(s.config.BasePath); err != nil || !info.IsDir() {
		return errors.NewStorageError("INVALID_BASE_PATH", fmt.Sprintf("%s is not a directory", s.config.BasePath))
	}

	s.connected = true
	s.logger.WithField("base_path", s.config.BasePath).Info("File rule store connected")
	return nil
}

// Close releases the store; file handles are not held between calls
func (s *RuleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

// SaveRules replaces the rule set stored for a dataset
func (s *RuleStore) SaveRules(ctx context.Context, datasetID string, rules []*models.CustomRule) error {
	return s.writeJSON(s.path(datasetID, "rules"), rules)
}

// LoadRules returns the rule set stored for a dataset
func (s *RuleStore) LoadRules(ctx context.Context, datasetID string) ([]*models.CustomRule, error) {
	var rules []*models.CustomRule
	if err := s.readJSON(s.path(datasetID, "rules"), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// SaveResults replaces the validation results stored for a dataset
func (s *RuleStore) SaveResults(ctx context.Context, datasetID string, results []*models.ValidationResult) error {
	return s.writeJSON(s.path(datasetID, "results"), results)
}

// LoadResults returns the validation results stored for a dataset
func (s *RuleStore) LoadResults(ctx context.Context, datasetID string) ([]*models.ValidationResult, error) {
	var results []*models.ValidationResult
	if err := s.readJSON(s.path(datasetID, "results"), &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *RuleStore) path(datasetID, kind string) string {
	return filepath.Join(s.config.BasePath, fmt.Sprintf("%s.%s.json", sanitizeID(datasetID), kind))
}

// sanitizeID keeps dataset ids filesystem-safe
func sanitizeID(id string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return replacer.Replace(id)
}

func (s *RuleStore) writeJSON(path string, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "MARSHAL_FAILED", path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "WRITE_FAILED", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "RENAME_FAILED", path)
	}
	return nil
}

func (s *RuleStore) readJSON(path string, target interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Unknown dataset yields an empty list, not an error.
			return nil
		}
		return errors.WrapError(err, errors.ErrorTypeStorage, "READ_FAILED", path)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, "UNMARSHAL_FAILED", path)
	}
	return nil
}
