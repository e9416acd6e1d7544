// Package api exposes the triage engine over HTTP. All decision logic
// lives in internal/triage and internal/filterstate; handlers only
// decode, delegate and encode.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ignite/lead-triage/internal/domain"
	"github.com/ignite/lead-triage/internal/filterstate"
)

// LeadSource provides the materialized lead collection for a user. The
// Postgres repository implements it; tests use a static slice.
type LeadSource interface {
	ListLeads(ctx context.Context, userID string) ([]domain.Lead, error)
}

// Handlers carries the dependencies shared by all HTTP handlers.
type Handlers struct {
	leads       LeadSource
	filterState *filterstate.Store

	// now is injected so handler tests are deterministic.
	now func() time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(leads LeadSource, filterState *filterstate.Store) *Handlers {
	return &Handlers{
		leads:       leads,
		filterState: filterState,
		now:         time.Now,
	}
}

// HealthCheck reports server liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
