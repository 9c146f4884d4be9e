package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/observability/metrics"
	"github.com/tablens/tablens/internal/profiling"
	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/models"
)

// FixHandler exposes fix-option generation and fix application
type FixHandler struct {
	applicator *validation.FixApplicator
	logger     *logrus.Logger
}

// NewFixHandler creates a fix handler
func NewFixHandler(applicator *validation.FixApplicator, logger *logrus.Logger) *FixHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &FixHandler{applicator: applicator, logger: logger}
}

// OptionsRequest asks for the fixes applicable to one validation result.
// The dataset is used to infer the affected column's type.
type OptionsRequest struct {
	Dataset *models.Dataset          `json:"dataset"`
	Result  *models.ValidationResult `json:"result"`
}

// Options returns the fix options for a validation result
func (h *FixHandler) Options(w http.ResponseWriter, r *http.Request) {
	var request OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if request.Result == nil {
		http.Error(w, "Validation result is required", http.StatusBadRequest)
		return
	}

	colType := models.ColumnTypeUnknown
	if request.Dataset != nil && request.Result.Column != "" {
		colType = profiling.InferColumnType(request.Dataset.ColumnValues(request.Result.Column))
	}

	options := h.applicator.GenerateFixOptions(request.Result, colType)
	respondJSON(w, http.StatusOK, options)
}

// ApplyRequest carries the dataset, the validation result and the chosen
// fix option
type ApplyRequest struct {
	Dataset *models.Dataset          `json:"dataset"`
	Result  *models.ValidationResult `json:"result"`
	Option  *models.FixOption        `json:"option"`
}

// ApplyResponse returns the transformed dataset
type ApplyResponse struct {
	Dataset *models.Dataset `json:"dataset"`
}

// Apply runs the chosen fix and returns the new dataset
func (h *FixHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var request ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if request.Dataset == nil || request.Result == nil || request.Option == nil {
		http.Error(w, "Dataset, result and option are required", http.StatusBadRequest)
		return
	}

	fixed, err := h.applicator.ApplyFix(request.Dataset, request.Result, request.Option)
	if err != nil {
		respondError(w, err)
		return
	}

	metrics.RecordFix(request.Option.Action)
	respondJSON(w, http.StatusOK, &ApplyResponse{Dataset: fixed})
}
