package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/lead-triage/internal/domain"
)

func TestBuildQueue_SingleNewLead(t *testing.T) {
	leads := []domain.Lead{
		{ID: "1", Status: "new", Temperature: domain.TemperatureCold, LastActivityDays: 0},
	}

	queue := BuildQueue(leads, FilterCriteria{}, OperatorAnd, classifierNow)

	require.Len(t, queue, 1)
	assert.Equal(t, "1", queue[0].ID)
	assert.Equal(t, 3, Classify(queue[0], classifierNow).Tier)
}

func TestBuildQueue_OrdersByTier(t *testing.T) {
	leads := []domain.Lead{
		{ID: "stale", Status: "qualified", LastContacted: daysAgo(20)},
		{ID: "new", Status: "new"},
		{ID: "hot-contacted", Temperature: domain.TemperatureHot, Status: "contacted", LastContacted: daysAgo(1)},
		{ID: "follow-up", Status: "contacted", LastContacted: daysAgo(4)},
	}

	queue := BuildQueue(leads, FilterCriteria{}, OperatorAnd, classifierNow)

	assert.Equal(t, []string{"hot-contacted", "follow-up", "new", "stale"}, leadIDs(queue))
}

func TestBuildQueue_TieBreakByTemperatureRank(t *testing.T) {
	// All three are tier 3 (new); temperature decides the order.
	leads := []domain.Lead{
		{ID: "cold", Status: "new", Temperature: domain.TemperatureCold},
		{ID: "hot", Status: "new", Temperature: domain.TemperatureHot},
		{ID: "warm", Status: "new", Temperature: domain.TemperatureWarm},
	}

	queue := BuildQueue(leads, FilterCriteria{}, OperatorAnd, classifierNow)

	assert.Equal(t, []string{"hot", "warm", "cold"}, leadIDs(queue))
}

func TestBuildQueue_TieBreakNewestFirst(t *testing.T) {
	older := classifierNow.Add(-48 * time.Hour)
	newer := classifierNow.Add(-1 * time.Hour)

	leads := []domain.Lead{
		{ID: "older", Status: "new", CreatedAt: older},
		{ID: "newer", Status: "new", CreatedAt: newer},
	}

	queue := BuildQueue(leads, FilterCriteria{}, OperatorAnd, classifierNow)

	assert.Equal(t, []string{"newer", "older"}, leadIDs(queue))
}

func TestBuildQueue_StableForIdenticalKeys(t *testing.T) {
	created := classifierNow.Add(-24 * time.Hour)
	leads := []domain.Lead{
		{ID: "a", Status: "new", CreatedAt: created},
		{ID: "b", Status: "new", CreatedAt: created},
		{ID: "c", Status: "new", CreatedAt: created},
	}

	queue := BuildQueue(leads, FilterCriteria{}, OperatorAnd, classifierNow)

	assert.Equal(t, []string{"a", "b", "c"}, leadIDs(queue))
}

func TestBuildQueue_AppliesFilters(t *testing.T) {
	leads := []domain.Lead{
		{ID: "vip", Segment: "vip", Status: "new"},
		{ID: "consumer", Segment: "consumer", Status: "new"},
	}
	criteria := FilterCriteria{Segments: []string{"vip"}}

	queue := BuildQueue(leads, criteria, OperatorAnd, classifierNow)

	assert.Equal(t, []string{"vip"}, leadIDs(queue))
}

func TestBuildQueue_DoesNotReorderInput(t *testing.T) {
	leads := []domain.Lead{
		{ID: "stale", Status: "qualified", LastContacted: daysAgo(20)},
		{ID: "hot", Temperature: domain.TemperatureHot, Status: "contacted", LastContacted: daysAgo(1)},
	}

	BuildQueue(leads, FilterCriteria{}, OperatorAnd, classifierNow)

	assert.Equal(t, []string{"stale", "hot"}, leadIDs(leads))
}
