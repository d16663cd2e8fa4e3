package db

import (
	"time"

	"podblog/internal/models"
)

// DefaultEpisodesLimit applies when a usage row is created for a new period.
const DefaultEpisodesLimit = 12

// CurrentPeriodStart returns the first day of the current billing period as a
// YYYY-MM-DD string.
func CurrentPeriodStart() string {
	return time.Now().UTC().Format("2006-01") + "-01"
}

func GetUsage(userID, periodStart string) (models.Usage, error) {
	usage := models.Usage{}
	err := DB.Get(&usage, "SELECT * FROM usage WHERE user_id = $1 AND period_start = $2", userID, periodStart)
	return usage, err
}

// IncrementUsage bumps the episode counter for the period, creating the row on
// first use. Called exactly once per successful pipeline run; it is a separate
// write from the episode completion update.
func IncrementUsage(userID, periodStart string) error {
	query := `
		INSERT INTO usage (user_id, period_start, episodes_generated, episodes_limit)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id, period_start)
		DO UPDATE SET episodes_generated = usage.episodes_generated + 1
	`
	_, err := DB.Exec(query, userID, periodStart, DefaultEpisodesLimit)
	return err
}
