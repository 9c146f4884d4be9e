package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/models"
)

// RulesHandler exposes the custom-rule lifecycle over HTTP
type RulesHandler struct {
	manager *validation.RuleManager
	logger  *logrus.Logger
}

// NewRulesHandler creates a rules handler
func NewRulesHandler(manager *validation.RuleManager, logger *logrus.Logger) *RulesHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &RulesHandler{manager: manager, logger: logger}
}

func datasetIDFrom(r *http.Request) string {
	return mux.Vars(r)["datasetID"]
}

// List returns every rule attached to a dataset
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.manager.ListRules(r.Context(), datasetIDFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	if rules == nil {
		rules = []*models.CustomRule{}
	}
	respondJSON(w, http.StatusOK, rules)
}

// Create adds a new rule to a dataset
func (h *RulesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rule models.CustomRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	stored, err := h.manager.AddRule(r.Context(), datasetIDFrom(r), &rule)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, stored)
}

// Update replaces an existing rule definition
func (h *RulesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var rule models.CustomRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	rule.ID = mux.Vars(r)["ruleID"]

	updated, err := h.manager.UpdateRule(r.Context(), datasetIDFrom(r), &rule)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a rule from a dataset
func (h *RulesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteRule(r.Context(), datasetIDFrom(r), mux.Vars(r)["ruleID"]); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle flips a rule between active and inactive
func (h *RulesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	rule, err := h.manager.ToggleRule(r.Context(), datasetIDFrom(r), mux.Vars(r)["ruleID"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}
