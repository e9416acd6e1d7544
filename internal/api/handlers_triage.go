package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/lead-triage/internal/domain"
	"github.com/ignite/lead-triage/internal/pkg/logger"
	"github.com/ignite/lead-triage/internal/triage"
)

// defaultUserID is used when a client does not scope the request.
const defaultUserID = "default"

func userID(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return defaultUserID
}

// queueItem is one entry of the work queue response: the lead plus its
// derived priority.
type queueItem struct {
	domain.Lead
	Tier  int                   `json:"tier"`
	Label *triage.PriorityLabel `json:"label,omitempty"`
}

// GetTriageQueue returns the ordered, filtered work queue for a user.
func (h *Handlers) GetTriageQueue(w http.ResponseWriter, r *http.Request) {
	if h.leads == nil {
		respondError(w, http.StatusServiceUnavailable, "Lead source not configured")
		return
	}

	uid := userID(r)
	leads, err := h.leads.ListLeads(r.Context(), uid)
	if err != nil {
		logger.Error("listing leads failed", "user_id", uid, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "Failed to load leads")
		return
	}

	state := h.filterState.GetFilterState()
	now := h.now()
	queue := triage.BuildQueue(leads, state.Active, state.Operator, now)

	items := make([]queueItem, len(queue))
	for i, lead := range queue {
		item := queueItem{Lead: lead, Tier: triage.Classify(lead, now).Tier}
		if label, ok := triage.LabelFor(lead, now); ok {
			item.Label = &label
		}
		items[i] = item
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"queue":    items,
		"total":    len(items),
		"filtered": len(leads) - len(items),
	})
}

// GetFilters returns the active criteria, operator, count and summary.
func (h *Handlers) GetFilters(w http.ResponseWriter, r *http.Request) {
	state := h.filterState.GetFilterState()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"active":       state.Active,
		"operator":     state.Operator,
		"active_count": state.Active.ActiveCount(),
		"description":  triage.DescribeFilters(state.Active, state.Operator),
	})
}

// DescribeFilters returns just the human-readable filter summary, for
// clients that render the description without the full state.
func (h *Handlers) DescribeFilters(w http.ResponseWriter, r *http.Request) {
	state := h.filterState.GetFilterState()
	respondJSON(w, http.StatusOK, map[string]string{
		"description": triage.DescribeFilters(state.Active, state.Operator),
	})
}

// UpdateFilters replaces the active criteria and/or the operator. Absent
// fields are left untouched.
func (h *Handlers) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Criteria *triage.FilterCriteria `json:"criteria,omitempty"`
		Operator *triage.FilterOperator `json:"operator,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Operator != nil && !req.Operator.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid operator: %s", *req.Operator))
		return
	}

	if req.Criteria != nil {
		h.filterState.SetFilterCriteria(r.Context(), *req.Criteria)
	}
	if req.Operator != nil {
		h.filterState.SetOperator(r.Context(), *req.Operator)
	}

	h.GetFilters(w, r)
}

// ResetFilters clears the active criteria.
func (h *Handlers) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.filterState.ResetFilters(r.Context())
	h.GetFilters(w, r)
}

// ListPresets returns all saved filter presets.
func (h *Handlers) ListPresets(w http.ResponseWriter, r *http.Request) {
	state := h.filterState.GetFilterState()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"presets": state.Presets,
		"total":   len(state.Presets),
	})
}

// CreatePreset saves the current active criteria and operator under a
// name.
func (h *Handlers) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Preset name required")
		return
	}

	preset := h.filterState.SavePreset(r.Context(), req.Name, userID(r))
	respondJSON(w, http.StatusCreated, preset)
}

// LoadPreset activates a saved preset's criteria and operator.
func (h *Handlers) LoadPreset(w http.ResponseWriter, r *http.Request) {
	presetID := chi.URLParam(r, "presetId")
	if presetID == "" {
		respondError(w, http.StatusBadRequest, "Preset ID required")
		return
	}

	if !h.filterState.LoadPreset(r.Context(), presetID) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Preset not found: %s", presetID))
		return
	}
	h.GetFilters(w, r)
}

// DeletePreset removes a saved preset.
func (h *Handlers) DeletePreset(w http.ResponseWriter, r *http.Request) {
	presetID := chi.URLParam(r, "presetId")
	if presetID == "" {
		respondError(w, http.StatusBadRequest, "Preset ID required")
		return
	}

	if !h.filterState.DeletePreset(r.Context(), presetID) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Preset not found: %s", presetID))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Preset deleted"})
}
