package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/ignite/lead-triage/internal/domain"
)

// DaysNeverContacted is the days-since-contact sentinel for leads with no
// recorded contact. Large enough to satisfy every "stale" threshold.
const DaysNeverContacted = 999

// Temperature ranks used as the first tie-break within a tier. Unknown
// temperature values rank like cold.
const (
	RankHot  = 1
	RankWarm = 2
	RankCold = 3
)

// Classification is the derived priority of a single lead. Lower Tier is
// more urgent; TemperatureRank and CreatedAt are the tie-break keys
// within a tier.
type Classification struct {
	Tier             int       `json:"tier"`
	TemperatureRank  int       `json:"temperature_rank"`
	DaysSinceContact int       `json:"days_since_contact"`
	CreatedAt        time.Time `json:"created_at"`
}

// Classify assigns a lead to one of eight priority tiers. The rules are
// evaluated in order and the first match wins:
//
//	1 hot lead that has been contacted (a reply is expected)
//	2 contacted 2-7 days ago (follow-up window)
//	3 never contacted (status "new")
//	4 hot, not covered above
//	5 warm
//	6 last contact more than 7 days ago (stale)
//	7 contacted less than 2 days ago (awaiting response)
//	8 everything else
//
// now must be supplied by the caller so classification is deterministic
// under test.
func Classify(lead domain.Lead, now time.Time) Classification {
	days := DaysNeverContacted
	if lead.LastContacted != nil {
		days = int(now.Sub(*lead.LastContacted).Hours() / 24)
	}

	status := strings.ToLower(lead.Status)
	if status == "" {
		status = domain.StatusNew
	}
	temp := domain.Temperature(strings.ToLower(string(lead.Temperature)))
	if temp == "" {
		temp = domain.TemperatureCold
	}

	tier := 8
	switch {
	case temp == domain.TemperatureHot && status == domain.StatusContacted:
		tier = 1
	case status == domain.StatusContacted && days >= 2 && days <= 7:
		tier = 2
	case status == domain.StatusNew:
		tier = 3
	case temp == domain.TemperatureHot:
		tier = 4
	case temp == domain.TemperatureWarm:
		tier = 5
	case days > 7:
		tier = 6
	case status == domain.StatusContacted && days < 2:
		tier = 7
	}

	return Classification{
		Tier:             tier,
		TemperatureRank:  temperatureRank(temp),
		DaysSinceContact: days,
		CreatedAt:        lead.CreatedAt,
	}
}

func temperatureRank(temp domain.Temperature) int {
	switch temp {
	case domain.TemperatureHot:
		return RankHot
	case domain.TemperatureWarm:
		return RankWarm
	default:
		return RankCold
	}
}

// PriorityLabel is the display badge for a lead's priority. Not every
// tier carries a badge.
type PriorityLabel struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// tierLabels maps tiers to their display badge. This table is the single
// source of truth: badges are derived from the classified tier, so the
// queue order and the badge a rep sees can never disagree. Tiers 4, 5, 7
// and 8 intentionally carry no badge.
var tierLabels = map[int]PriorityLabel{
	1: {Icon: "🔥", Label: "Antwort erwartet!", Color: "#ef4444"},
	2: {Icon: "⏰", Label: "Follow-up fällig", Color: "#f97316"},
	3: {Icon: "🆕", Label: "Erstkontakt nötig", Color: "#3b82f6"},
	6: {Icon: "💀", Label: "Wiederbeleben", Color: "#6b7280"},
}

// LabelFor returns the badge for a lead, derived from its classification.
// The second return is false for unlabeled tiers. The tier-2 badge
// carries the number of days since last contact.
func LabelFor(lead domain.Lead, now time.Time) (PriorityLabel, bool) {
	c := Classify(lead, now)
	label, ok := tierLabels[c.Tier]
	if !ok {
		return PriorityLabel{}, false
	}
	if c.Tier == 2 {
		label.Label = fmt.Sprintf("%s (%dd)", label.Label, c.DaysSinceContact)
	}
	return label, true
}
