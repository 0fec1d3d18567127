package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/health-sync/internal/model"
)

// ActivityRepo stores per-day activity summaries (daily_activity table).
// The date column is unique: syncs upsert by date instead of appending,
// because the provider revises daily totals throughout the day.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// Upsert writes the summary for a.Date, overwriting the numeric fields and
// updated_at when a row for that date already exists.
func (r *ActivityRepo) Upsert(ctx context.Context, a model.DailyActivity) error {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM daily_activity WHERE date=? LIMIT 1", a.Date).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		_, err = r.DB.ExecContext(ctx,
			`INSERT INTO daily_activity (date, steps, distance_miles, active_calories, elevation_ft, source)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.Date, a.Steps, a.DistanceMiles, a.ActiveCalories, a.ElevationFt, a.Source)
		return err
	case err != nil:
		return err
	default:
		_, err = r.DB.ExecContext(ctx,
			`UPDATE daily_activity
			 SET steps=?, distance_miles=?, active_calories=?, elevation_ft=?, source=?, updated_at=NOW()
			 WHERE id=?`,
			a.Steps, a.DistanceMiles, a.ActiveCalories, a.ElevationFt, a.Source, id)
		return err
	}
}
