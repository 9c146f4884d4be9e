package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/observability/metrics"
	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/interfaces"
	"github.com/tablens/tablens/pkg/models"
)

// ValidationHandler runs the rule engine over datasets, loading the
// dataset's persisted rules and storing the run's results.
type ValidationHandler struct {
	ruleEngine *validation.RuleEngine
	store      interfaces.RuleStore
	logger     *logrus.Logger
}

// NewValidationHandler creates a validation handler
func NewValidationHandler(ruleEngine *validation.RuleEngine, store interfaces.RuleStore, logger *logrus.Logger) *ValidationHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ValidationHandler{ruleEngine: ruleEngine, store: store, logger: logger}
}

// ValidateRequest carries the dataset to validate. Rules may be supplied
// inline; otherwise the dataset's persisted rules are used.
type ValidateRequest struct {
	Dataset *models.Dataset      `json:"dataset"`
	Rules   []*models.CustomRule `json:"rules,omitempty"`
}

// ValidateResponse returns the run's results
type ValidateResponse struct {
	Results []*models.ValidationResult `json:"results"`
}

// Validate runs built-in checks plus active custom rules
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var request ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if request.Dataset == nil {
		http.Error(w, "Dataset is required", http.StatusBadRequest)
		return
	}

	rules := request.Rules
	if rules == nil && request.Dataset.ID != "" {
		loaded, err := h.store.LoadRules(r.Context(), request.Dataset.ID)
		if err != nil {
			respondError(w, err)
			return
		}
		rules = loaded
	}

	results, err := h.ruleEngine.ValidateDataset(r.Context(), request.Dataset, rules)
	if err != nil {
		respondError(w, err)
		return
	}

	if request.Dataset.ID != "" {
		if err := h.store.SaveResults(r.Context(), request.Dataset.ID, results); err != nil {
			h.logger.WithError(err).Warn("Could not persist validation results")
		}
	}

	metrics.RecordValidation(len(results))
	respondJSON(w, http.StatusOK, &ValidateResponse{Results: results})
}

// Results returns the last persisted validation results for a dataset
func (h *ValidationHandler) Results(w http.ResponseWriter, r *http.Request) {
	datasetID := datasetIDFrom(r)
	if datasetID == "" {
		http.Error(w, "Dataset id is required", http.StatusBadRequest)
		return
	}

	results, err := h.store.LoadResults(r.Context(), datasetID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &ValidateResponse{Results: results})
}
