// Package filterstate owns the active filter criteria, operator and
// saved presets for one account, persisting them through the kvstore
// contract.
//
// The in-memory state is always authoritative for the current session:
// persistence failures are logged and never propagated, so a rep keeps a
// working filter even when the device store misbehaves. Mutators
// serialize through the store mutex, so two concurrent writers cannot
// interleave their persistence writes.
package filterstate

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/lead-triage/internal/kvstore"
	"github.com/ignite/lead-triage/internal/pkg/logger"
	"github.com/ignite/lead-triage/internal/triage"
)

// Persistence keys within the account namespace. Values are JSON.
const (
	stateKey   = "lead_filters_state"
	presetsKey = "lead_filter_presets"
)

// FilterPreset is a named snapshot of criteria + operator. Immutable once
// created except via delete.
type FilterPreset struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Criteria  triage.FilterCriteria `json:"criteria"`
	Operator  triage.FilterOperator `json:"operator"`
	CreatedAt time.Time             `json:"created_at"`
	UserID    string                `json:"user_id"`
}

// FilterState is a point-in-time copy of the store's contents.
type FilterState struct {
	Active   triage.FilterCriteria `json:"active"`
	Operator triage.FilterOperator `json:"operator"`
	Presets  []FilterPreset        `json:"presets"`
}

// persistedState is the lead_filters_state document. Active is a pointer
// so a partially-missing stored object merges over defaults instead of
// clobbering them.
type persistedState struct {
	Active   *triage.FilterCriteria `json:"active,omitempty"`
	Operator triage.FilterOperator  `json:"operator,omitempty"`
}

// Store owns the filter state for one account. Construct one per account
// (no global singleton) and call Initialize once at startup; after that
// all methods are safe for concurrent use.
type Store struct {
	kv kvstore.Store

	mu       sync.Mutex
	active   triage.FilterCriteria
	operator triage.FilterOperator
	presets  []FilterPreset

	// Injected for deterministic tests.
	clock func() time.Time
	newID func() string
}

// New creates a store with defaults: empty criteria, AND operator, no
// presets.
func New(kv kvstore.Store) *Store {
	return &Store{
		kv:       kv,
		operator: triage.OperatorAnd,
		clock:    time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Initialize hydrates the store from persistence. Missing or malformed
// data for either key falls back to the corresponding default; problems
// are logged, never surfaced. Call once before relying on persisted
// state — mutations racing Initialize are overwritten by the hydration.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := s.kv.Get(ctx, stateKey); err == nil {
		var stored persistedState
		if jsonErr := json.Unmarshal([]byte(raw), &stored); jsonErr != nil {
			logger.Warn("discarding malformed filter state", "key", stateKey, "error", jsonErr.Error())
		} else {
			if stored.Active != nil {
				s.active = *stored.Active
			}
			if stored.Operator.Valid() {
				s.operator = stored.Operator
			}
		}
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		logger.Warn("loading filter state failed", "key", stateKey, "error", err.Error())
	}

	if raw, err := s.kv.Get(ctx, presetsKey); err == nil {
		var presets []FilterPreset
		if jsonErr := json.Unmarshal([]byte(raw), &presets); jsonErr != nil {
			logger.Warn("discarding malformed filter presets", "key", presetsKey, "error", jsonErr.Error())
		} else {
			s.presets = presets
		}
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		logger.Warn("loading filter presets failed", "key", presetsKey, "error", err.Error())
	}
}

// GetFilterState returns a copy of the current state. Mutating the
// returned value does not affect the store.
func (s *Store) GetFilterState() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets := make([]FilterPreset, len(s.presets))
	copy(presets, s.presets)

	return FilterState{
		Active:   s.active,
		Operator: s.operator,
		Presets:  presets,
	}
}

// SetFilterCriteria replaces the active criteria and persists.
func (s *Store) SetFilterCriteria(ctx context.Context, criteria triage.FilterCriteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = criteria
	s.saveStateLocked(ctx)
}

// SetOperator replaces the combination operator and persists. Invalid
// values are ignored.
func (s *Store) SetOperator(ctx context.Context, operator triage.FilterOperator) {
	if !operator.Valid() {
		logger.Warn("ignoring invalid filter operator", "operator", string(operator))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operator = operator
	s.saveStateLocked(ctx)
}

// ResetFilters clears the active criteria (the operator is kept) and
// persists.
func (s *Store) ResetFilters(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = triage.FilterCriteria{}
	s.saveStateLocked(ctx)
}

// SavePreset snapshots the current active criteria and operator under a
// name, appends it to the preset list, persists, and returns the created
// preset.
func (s *Store) SavePreset(ctx context.Context, name, userID string) FilterPreset {
	s.mu.Lock()
	defer s.mu.Unlock()

	preset := FilterPreset{
		ID:        s.newID(),
		Name:      name,
		Criteria:  s.active,
		Operator:  s.operator,
		CreatedAt: s.clock(),
		UserID:    userID,
	}
	s.presets = append(s.presets, preset)
	s.savePresetsLocked(ctx)
	return preset
}

// LoadPreset copies a preset's criteria and operator into the active
// state and persists. Unknown ids are a no-op; the return value reports
// whether the preset existed.
func (s *Store) LoadPreset(ctx context.Context, presetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, preset := range s.presets {
		if preset.ID == presetID {
			s.active = preset.Criteria
			s.operator = preset.Operator
			s.saveStateLocked(ctx)
			return true
		}
	}
	return false
}

// DeletePreset removes a preset by id and persists. Unknown ids are a
// no-op; the return value reports whether a preset was removed.
func (s *Store) DeletePreset(ctx context.Context, presetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, preset := range s.presets {
		if preset.ID == presetID {
			s.presets = append(s.presets[:i], s.presets[i+1:]...)
			s.savePresetsLocked(ctx)
			return true
		}
	}
	return false
}

// ActiveFilterCount returns how many criteria fields are currently set.
func (s *Store) ActiveFilterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.ActiveCount()
}

func (s *Store) saveStateLocked(ctx context.Context) {
	doc := persistedState{Active: &s.active, Operator: s.operator}
	data, err := json.Marshal(doc)
	if err != nil {
		logger.Error("marshaling filter state", "error", err.Error())
		return
	}
	if err := s.kv.Set(ctx, stateKey, string(data)); err != nil {
		logger.Warn("persisting filter state failed", "key", stateKey, "error", err.Error())
	}
}

func (s *Store) savePresetsLocked(ctx context.Context) {
	data, err := json.Marshal(s.presets)
	if err != nil {
		logger.Error("marshaling filter presets", "error", err.Error())
		return
	}
	if err := s.kv.Set(ctx, presetsKey, string(data)); err != nil {
		logger.Warn("persisting filter presets failed", "key", presetsKey, "error", err.Error())
	}
}
