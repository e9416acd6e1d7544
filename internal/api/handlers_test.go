package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/lead-triage/internal/domain"
	"github.com/ignite/lead-triage/internal/filterstate"
	"github.com/ignite/lead-triage/internal/kvstore"
)

var handlerNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

// staticLeadSource serves a fixed lead slice, standing in for the
// Postgres repository.
type staticLeadSource struct {
	leads []domain.Lead
	err   error
}

func (s staticLeadSource) ListLeads(ctx context.Context, userID string) ([]domain.Lead, error) {
	return s.leads, s.err
}

func contactedAt(days int) *time.Time {
	ts := handlerNow.Add(-time.Duration(days) * 24 * time.Hour)
	return &ts
}

func testLeads() []domain.Lead {
	return []domain.Lead{
		{ID: "stale", Segment: "consumer", Status: "qualified", Temperature: domain.TemperatureCold, LastContacted: contactedAt(20)},
		{ID: "fresh", Segment: "vip", Status: "new", Temperature: domain.TemperatureWarm},
		{ID: "urgent", Segment: "vip", Status: "contacted", Temperature: domain.TemperatureHot, LastContacted: contactedAt(1)},
	}
}

func setupTestRouter(t *testing.T, leads LeadSource) http.Handler {
	t.Helper()
	fs := filterstate.New(kvstore.NewMemoryStore())
	fs.Initialize(context.Background())

	h := NewHandlers(leads, fs)
	h.now = func() time.Time { return handlerNow }

	return SetupRoutes(h, []string{"http://localhost:5173"})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	rec := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lead-triage-v1.0", rec.Header().Get("X-Server-Identity"))
	payload := decodeBody(t, rec)
	assert.Equal(t, "ok", payload["status"])
}

func TestGetTriageQueue_OrdersByPriority(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{leads: testLeads()})

	rec := doJSON(t, router, http.MethodGet, "/api/triage/queue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, float64(3), payload["total"])
	assert.Equal(t, float64(0), payload["filtered"])

	queue := payload["queue"].([]interface{})
	ids := make([]string, len(queue))
	for i, raw := range queue {
		ids[i] = raw.(map[string]interface{})["id"].(string)
	}
	// Hot contacted lead outranks fresh lead outranks stale lead.
	assert.Equal(t, []string{"urgent", "fresh", "stale"}, ids)

	first := queue[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["tier"])
	require.NotNil(t, first["label"])
	label := first["label"].(map[string]interface{})
	assert.Equal(t, "Antwort erwartet!", label["label"])
}

func TestGetTriageQueue_AppliesActiveFilters(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{leads: testLeads()})

	update := map[string]interface{}{
		"criteria": map[string]interface{}{"segments": []string{"vip"}},
	}
	rec := doJSON(t, router, http.MethodPut, "/api/triage/filters/", update)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/triage/queue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, float64(2), payload["total"])
	assert.Equal(t, float64(1), payload["filtered"])
}

func TestGetTriageQueue_NoLeadSource(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/triage/queue", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetTriageQueue_LeadSourceError(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{err: errors.New("connection refused")})

	rec := doJSON(t, router, http.MethodGet, "/api/triage/queue", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetFilters_Defaults(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	rec := doJSON(t, router, http.MethodGet, "/api/triage/filters/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "AND", payload["operator"])
	assert.Equal(t, float64(0), payload["active_count"])
	assert.Equal(t, "Alle Leads", payload["description"])
}

func TestDescribeFilters(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	doJSON(t, router, http.MethodPut, "/api/triage/filters/", map[string]interface{}{
		"criteria": map[string]interface{}{"segments": []string{"vip"}},
	})

	rec := doJSON(t, router, http.MethodGet, "/api/triage/filters/describe", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "Segment: vip", payload["description"])
}

func TestUpdateFilters(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	update := map[string]interface{}{
		"criteria": map[string]interface{}{
			"segments":   []string{"vip"},
			"isNewToday": true,
		},
		"operator": "OR",
	}
	rec := doJSON(t, router, http.MethodPut, "/api/triage/filters/", update)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "OR", payload["operator"])
	assert.Equal(t, float64(2), payload["active_count"])
	assert.Contains(t, payload["description"], "Heute neu")
	assert.Contains(t, payload["description"], " ODER ")
}

func TestUpdateFilters_OperatorOnlyKeepsCriteria(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	doJSON(t, router, http.MethodPut, "/api/triage/filters/", map[string]interface{}{
		"criteria": map[string]interface{}{"segments": []string{"vip"}},
	})
	rec := doJSON(t, router, http.MethodPut, "/api/triage/filters/", map[string]interface{}{
		"operator": "OR",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "OR", payload["operator"])
	assert.Equal(t, float64(1), payload["active_count"])
}

func TestUpdateFilters_InvalidOperator(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	rec := doJSON(t, router, http.MethodPut, "/api/triage/filters/", map[string]interface{}{
		"operator": "XOR",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFilters_InvalidBody(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	req := httptest.NewRequest(http.MethodPut, "/api/triage/filters/", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetFilters(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	doJSON(t, router, http.MethodPut, "/api/triage/filters/", map[string]interface{}{
		"criteria": map[string]interface{}{"segments": []string{"vip"}},
		"operator": "OR",
	})

	rec := doJSON(t, router, http.MethodDelete, "/api/triage/filters/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, float64(0), payload["active_count"])
	// Reset clears criteria but keeps the chosen operator.
	assert.Equal(t, "OR", payload["operator"])
}

func TestPresetLifecycle(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	doJSON(t, router, http.MethodPut, "/api/triage/filters/", map[string]interface{}{
		"criteria": map[string]interface{}{"tags": []string{"solar"}},
	})

	rec := doJSON(t, router, http.MethodPost, "/api/triage/presets/", map[string]string{"name": "Solar Leads"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	presetID := created["id"].(string)
	assert.Equal(t, "Solar Leads", created["name"])

	rec = doJSON(t, router, http.MethodGet, "/api/triage/presets/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decodeBody(t, rec)
	assert.Equal(t, float64(1), listing["total"])

	// Clear, then load the preset back.
	doJSON(t, router, http.MethodDelete, "/api/triage/filters/", nil)
	rec = doJSON(t, router, http.MethodPost, "/api/triage/presets/"+presetID+"/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, float64(1), payload["active_count"])
	assert.Contains(t, payload["description"], "solar")

	rec = doJSON(t, router, http.MethodDelete, "/api/triage/presets/"+presetID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/triage/presets/", nil)
	listing = decodeBody(t, rec)
	assert.Equal(t, float64(0), listing["total"])
}

func TestCreatePreset_NameRequired(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	rec := doJSON(t, router, http.MethodPost, "/api/triage/presets/", map[string]string{"name": ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadPreset_NotFound(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	rec := doJSON(t, router, http.MethodPost, "/api/triage/presets/nope/load", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePreset_NotFound(t *testing.T) {
	router := setupTestRouter(t, staticLeadSource{})

	rec := doJSON(t, router, http.MethodDelete, "/api/triage/presets/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
