package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablens/tablens/internal/quality"
	"github.com/tablens/tablens/internal/storage/implementations/file"
	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := file.NewRuleStore(&file.Config{BasePath: t.TempDir(), CreateDirs: true}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Connect(context.Background()))

	engine := quality.NewEngine(nil, nil)
	ruleEngine := validation.NewRuleEngine(nil, nil)
	return NewServer(nil, nil, engine, ruleEngine, store, "test")
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestServerAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	ds := &models.Dataset{
		ID:      "people",
		Columns: []string{"name", "age"},
		Rows: []models.Row{
			{"name": "alice", "age": "34"},
			{"name": "bob", "age": "29"},
		},
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", map[string]interface{}{"dataset": ds})
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "people", result.DatasetID)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, models.ColumnTypeNumber, result.ColumnTypes["age"])
	assert.Equal(t, 100, result.QualityScore)
}

func TestServerAnalyzeRejectsMissingDataset(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerAnalyzeEmptyDatasetMapsToBadRequest(t *testing.T) {
	srv := newTestServer(t)

	ds := &models.Dataset{Columns: []string{"a"}}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", map[string]interface{}{"dataset": ds})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerRuleLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rule := &models.CustomRule{
		Name:      "no negative ages",
		Condition: "age < 0",
		Columns:   []string{"age"},
		Active:    true,
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/datasets/people/rules", rule)
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored models.CustomRule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.NotEmpty(t, stored.ID)
	assert.Equal(t, models.SeverityMedium, stored.Severity)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/datasets/people/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []*models.CustomRule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/datasets/people/rules/%s/toggle", stored.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled models.CustomRule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.False(t, toggled.Active)

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/datasets/people/rules/%s", stored.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/datasets/people/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestServerRuleNotFoundStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/datasets/people/rules/missing", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerValidateEndpointPersistsResults(t *testing.T) {
	srv := newTestServer(t)

	ds := &models.Dataset{
		ID:      "people",
		Columns: []string{"name"},
		Rows: []models.Row{
			{"name": "alice"},
			{"name": ""},
		},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/validate", map[string]interface{}{"dataset": ds})
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Results []*models.ValidationResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, "name", response.Results[0].Column)
	assert.True(t, response.Results[0].CanAutoFix)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/datasets/people/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Results, 1)
}

func TestServerHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test")
}

func TestServerMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
