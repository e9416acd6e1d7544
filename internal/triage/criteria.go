// Package triage implements the lead triage engine: a boolean
// multi-criteria filter evaluator, an eight-tier priority classifier,
// and the queue sorter that turns a rep's raw lead collection into an
// ordered work queue.
//
// Everything in this package is pure and synchronous. Functions take the
// current time as an explicit parameter where they need one, never read
// the wall clock, and never mutate their inputs, so they are safe to call
// concurrently without coordination.
package triage

// FilterOperator governs how the active constraints of a FilterCriteria
// combine: AND requires every check to pass, OR requires at least one.
type FilterOperator string

const (
	OperatorAnd FilterOperator = "AND"
	OperatorOr  FilterOperator = "OR"
)

// Valid reports whether the operator is one of the two supported values.
func (op FilterOperator) Valid() bool {
	return op == OperatorAnd || op == OperatorOr
}

// IntRange is an optional inclusive range constraint on an integer field.
// A nil bound leaves that side unconstrained.
type IntRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// FloatRange is an optional inclusive range constraint on a float field.
type FloatRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// FilterCriteria is a set of independently optional constraints used to
// narrow a lead collection. An empty or absent field is unconstrained.
// The JSON field names match the documents persisted by the mobile
// clients, so stored filter state round-trips unchanged.
type FilterCriteria struct {
	Segments  []string `json:"segments,omitempty"`
	Sources   []string `json:"sources,omitempty"`
	Stages    []string `json:"stages,omitempty"`
	Channels  []string `json:"channels,omitempty"`
	Companies []string `json:"companies,omitempty"`

	DaysInactive  *IntRange   `json:"daysInactive,omitempty"`
	PriorityScore *FloatRange `json:"priorityScore,omitempty"`
	IsNewToday    *bool       `json:"isNewToday,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
}

// IsEmpty reports whether the criteria supplies no constraint at all, in
// which case filtering is a no-op.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Segments) == 0 &&
		len(c.Sources) == 0 &&
		len(c.Stages) == 0 &&
		len(c.Channels) == 0 &&
		len(c.Companies) == 0 &&
		c.DaysInactive == nil &&
		c.PriorityScore == nil &&
		c.IsNewToday == nil &&
		len(c.Tags) == 0
}

// ActiveCount returns how many criteria fields are currently set, for the
// filter badge in clients. List fields count when non-empty. Range
// constraints count as soon as the range object is present, even with
// both bounds nil. IsNewToday counts whenever present, including an
// explicit false.
func (c FilterCriteria) ActiveCount() int {
	count := 0
	for _, values := range [][]string{c.Segments, c.Sources, c.Stages, c.Channels, c.Companies, c.Tags} {
		if len(values) > 0 {
			count++
		}
	}
	if c.DaysInactive != nil {
		count++
	}
	if c.PriorityScore != nil {
		count++
	}
	if c.IsNewToday != nil {
		count++
	}
	return count
}
