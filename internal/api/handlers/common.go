package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tablens/tablens/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	status := errors.GetHTTPStatus(err)
	respondJSON(w, status, map[string]interface{}{
		"error": err.Error(),
	})
}
