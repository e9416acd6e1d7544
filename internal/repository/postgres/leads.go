// Package postgres implements the lead data provider against PostgreSQL.
// The triage engine itself performs no I/O; this repository materializes
// the lead collection it consumes.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/lead-triage/internal/domain"
)

// LeadRepo reads lead records from PostgreSQL.
type LeadRepo struct{ db *sql.DB }

// NewLeadRepo creates a Postgres-backed lead repository.
func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{db: db} }

// ListLeads returns all leads owned by a user, newest first. Leads with
// no recorded activity get the ActivityNever sentinel so inactivity
// filters treat them as unbounded.
func (r *LeadRepo) ListLeads(ctx context.Context, userID string) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(company_name,''),
		       COALESCE(segment,''), COALESCE(source,''), COALESCE(stage,''), COALESCE(channel,''),
		       last_activity_days, COALESCE(priority_score,0), COALESCE(is_new_today,false), tags,
		       COALESCE(temperature,''), COALESCE(status,''), last_contacted, created_at
		FROM leads
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var l domain.Lead
		var activityDays sql.NullInt64
		var tags pq.StringArray
		var lastContacted sql.NullTime

		err := rows.Scan(
			&l.ID, &l.CompanyName,
			&l.Segment, &l.Source, &l.Stage, &l.Channel,
			&activityDays, &l.PriorityScore, &l.IsNewToday, &tags,
			&l.Temperature, &l.Status, &lastContacted, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}

		if activityDays.Valid {
			l.LastActivityDays = int(activityDays.Int64)
		} else {
			l.LastActivityDays = domain.ActivityNever
		}
		if tags != nil {
			l.Tags = []string(tags)
		}
		if lastContacted.Valid {
			t := lastContacted.Time
			l.LastContacted = &t
		}

		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, nil
}
