package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/health-sync/internal/model"
)

// SleepRepo stores sleep sessions (sleep table).
type SleepRepo struct{ DB *sql.DB }

func NewSleepRepo(db *sql.DB) *SleepRepo { return &SleepRepo{DB: db} }

// ExistsByWithingsID reports whether the provider session id was already synced.
func (r *SleepRepo) ExistsByWithingsID(ctx context.Context, withingsID string) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM sleep WHERE withings_id=? LIMIT 1", withingsID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert writes a new sleep row.
func (r *SleepRepo) Insert(ctx context.Context, s model.Sleep) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sleep
		 (date, sleep_start, sleep_end, duration_minutes, deep_minutes, light_minutes, rem_minutes, awake_minutes, source, withings_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Date, s.SleepStart, s.SleepEnd, s.DurationMinutes, s.DeepMinutes, s.LightMinutes, s.RemMinutes, s.AwakeMinutes, s.Source, s.WithingsID)
	return err
}
