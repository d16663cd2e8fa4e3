package models

import "time"

// Usage is the per-user, per-billing-period episode counter. A row is created
// lazily on the first successful pipeline run of a period.
type Usage struct {
	UserID            string    `db:"user_id"`
	PeriodStart       time.Time `db:"period_start"`
	EpisodesGenerated int       `db:"episodes_generated"`
	EpisodesLimit     int       `db:"episodes_limit"`
}
