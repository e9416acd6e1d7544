package domain

import "time"

// Temperature is the coarse engagement signal attached to a lead.
type Temperature string

const (
	TemperatureCold Temperature = "cold"
	TemperatureWarm Temperature = "warm"
	TemperatureHot  Temperature = "hot"
)

// Lead statuses the classifier treats specially. Any other status string
// is carried through untouched and handled generically.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
)

// ActivityNever is the LastActivityDays value for leads with no recorded
// activity at all. Inactivity range filters see it as effectively
// unbounded.
const ActivityNever = 9999

// Lead represents one prospect/contact tracked by a sales rep through the
// pipeline. Leads are immutable input to the triage engine; the engine
// only computes derived values (match result, tier, sort key) and never
// writes back.
type Lead struct {
	ID          string `json:"id" db:"id"`
	CompanyName string `json:"company_name,omitempty" db:"company_name"`

	// Free-form categorical classification, filterable.
	Segment string `json:"segment,omitempty" db:"segment"`
	Source  string `json:"source,omitempty" db:"source"`
	Stage   string `json:"stage,omitempty" db:"stage"`
	Channel string `json:"channel,omitempty" db:"channel"`

	// Engagement metrics.
	LastActivityDays int      `json:"last_activity_days" db:"last_activity_days"`
	PriorityScore    float64  `json:"priority_score" db:"priority_score"`
	IsNewToday       bool     `json:"is_new_today" db:"is_new_today"`
	Tags             []string `json:"tags,omitempty" db:"tags"`

	// Pipeline state used by the classifier.
	Temperature   Temperature `json:"temperature,omitempty" db:"temperature"`
	Status        string      `json:"status,omitempty" db:"status"`
	LastContacted *time.Time  `json:"last_contacted,omitempty" db:"last_contacted"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}
