package triage

import (
	"sort"
	"time"

	"github.com/ignite/lead-triage/internal/domain"
)

// BuildQueue produces the ordered work queue for a lead collection: the
// leads matching the active criteria, sorted most urgent first by
// (tier, temperature rank, newest created_at). The sort is stable, so
// leads with identical keys keep their relative input order. The input
// slice is never reordered.
func BuildQueue(leads []domain.Lead, criteria FilterCriteria, operator FilterOperator, now time.Time) []domain.Lead {
	filtered := ApplyFilters(leads, criteria, operator)

	type queued struct {
		lead domain.Lead
		key  Classification
	}
	items := make([]queued, len(filtered))
	for i, lead := range filtered {
		items[i] = queued{lead: lead, key: Classify(lead, now)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].key, items[j].key
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.TemperatureRank != b.TemperatureRank {
			return a.TemperatureRank < b.TemperatureRank
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	queue := make([]domain.Lead, len(items))
	for i, item := range items {
		queue[i] = item.lead
	}
	return queue
}
