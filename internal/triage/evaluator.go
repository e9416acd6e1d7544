package triage

import (
	"fmt"
	"strings"

	"github.com/ignite/lead-triage/internal/domain"
)

// Matches evaluates a single lead against a criteria set. One boolean
// check is built per criteria field that is present and non-empty, and
// the operator decides how the checks combine. A criteria with no active
// constraint matches unconditionally.
//
// A lead without a tags field never satisfies a tags constraint, even
// under OR.
func Matches(lead domain.Lead, criteria FilterCriteria, operator FilterOperator) bool {
	var checks []bool

	if len(criteria.Segments) > 0 {
		checks = append(checks, containsString(criteria.Segments, lead.Segment))
	}
	if len(criteria.Sources) > 0 {
		checks = append(checks, containsString(criteria.Sources, lead.Source))
	}
	if len(criteria.Stages) > 0 {
		checks = append(checks, containsString(criteria.Stages, lead.Stage))
	}
	if len(criteria.Channels) > 0 {
		checks = append(checks, containsString(criteria.Channels, lead.Channel))
	}
	if len(criteria.Companies) > 0 {
		checks = append(checks, containsString(criteria.Companies, lead.CompanyName))
	}

	if r := criteria.DaysInactive; r != nil {
		ok := true
		if r.Min != nil && lead.LastActivityDays < *r.Min {
			ok = false
		}
		if r.Max != nil && lead.LastActivityDays > *r.Max {
			ok = false
		}
		checks = append(checks, ok)
	}

	if r := criteria.PriorityScore; r != nil {
		ok := true
		if r.Min != nil && lead.PriorityScore < *r.Min {
			ok = false
		}
		if r.Max != nil && lead.PriorityScore > *r.Max {
			ok = false
		}
		checks = append(checks, ok)
	}

	if criteria.IsNewToday != nil {
		checks = append(checks, lead.IsNewToday == *criteria.IsNewToday)
	}

	if len(criteria.Tags) > 0 {
		checks = append(checks, lead.Tags != nil && anyOverlap(criteria.Tags, lead.Tags))
	}

	if len(checks) == 0 {
		return true
	}

	if operator == OperatorOr {
		for _, ok := range checks {
			if ok {
				return true
			}
		}
		return false
	}

	for _, ok := range checks {
		if !ok {
			return false
		}
	}
	return true
}

// ApplyFilters returns the leads matching the criteria, preserving input
// order. When the criteria is empty the input slice is returned as-is.
func ApplyFilters(leads []domain.Lead, criteria FilterCriteria, operator FilterOperator) []domain.Lead {
	if criteria.IsEmpty() {
		return leads
	}

	filtered := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if Matches(lead, criteria, operator) {
			filtered = append(filtered, lead)
		}
	}
	return filtered
}

// DescribeFilters renders the active criteria as a short human-readable
// summary, joining constraint labels with the operator word. Purely
// presentational; the strings are the original product wording.
func DescribeFilters(criteria FilterCriteria, operator FilterOperator) string {
	var parts []string

	appendList := func(label string, values []string) {
		if len(values) > 0 {
			parts = append(parts, label+": "+strings.Join(values, ", "))
		}
	}
	appendList("Segment", criteria.Segments)
	appendList("Quelle", criteria.Sources)
	appendList("Phase", criteria.Stages)
	appendList("Kanal", criteria.Channels)
	appendList("Firma", criteria.Companies)

	if r := criteria.DaysInactive; r != nil {
		switch {
		case r.Min != nil && r.Max != nil:
			parts = append(parts, fmt.Sprintf("Inaktiv %d-%d Tage", *r.Min, *r.Max))
		case r.Min != nil:
			parts = append(parts, fmt.Sprintf("Inaktiv ab %d Tagen", *r.Min))
		case r.Max != nil:
			parts = append(parts, fmt.Sprintf("Inaktiv bis %d Tage", *r.Max))
		}
	}

	if r := criteria.PriorityScore; r != nil {
		switch {
		case r.Min != nil && r.Max != nil:
			parts = append(parts, fmt.Sprintf("Score %.2f-%.2f", *r.Min, *r.Max))
		case r.Min != nil:
			parts = append(parts, fmt.Sprintf("Score ab %.2f", *r.Min))
		case r.Max != nil:
			parts = append(parts, fmt.Sprintf("Score bis %.2f", *r.Max))
		}
	}

	if criteria.IsNewToday != nil {
		if *criteria.IsNewToday {
			parts = append(parts, "Heute neu")
		} else {
			parts = append(parts, "Nicht heute neu")
		}
	}

	appendList("Tags", criteria.Tags)

	if len(parts) == 0 {
		return "Alle Leads"
	}

	joiner := " UND "
	if operator == OperatorOr {
		joiner = " ODER "
	}
	return strings.Join(parts, joiner)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func anyOverlap(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
