package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/observability/metrics"
	"github.com/tablens/tablens/internal/quality"
	"github.com/tablens/tablens/pkg/models"
)

// AnalysisHandler exposes the profiling engine over HTTP
type AnalysisHandler struct {
	engine *quality.Engine
	logger *logrus.Logger
}

// NewAnalysisHandler creates an analysis handler
func NewAnalysisHandler(engine *quality.Engine, logger *logrus.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AnalysisHandler{engine: engine, logger: logger}
}

// AnalyzeRequest carries the dataset to profile
type AnalyzeRequest struct {
	Dataset *models.Dataset `json:"dataset"`
}

// Analyze runs one profiling pass and returns the analysis snapshot
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var request AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if request.Dataset == nil {
		http.Error(w, "Dataset is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := h.engine.Analyze(r.Context(), request.Dataset, nil)
	if err != nil {
		metrics.RecordAnalysisFailure()
		respondError(w, err)
		return
	}

	metrics.RecordAnalysis(time.Since(start), result.QualityScore,
		len(result.ContextualIssues), len(result.CrossFieldIssues), len(result.Outliers))
	respondJSON(w, http.StatusOK, result)
}
