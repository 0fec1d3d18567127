package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/health-sync/internal/model"
)

// BloodPressureRepo stores blood-pressure readings (blood_pressure table).
type BloodPressureRepo struct{ DB *sql.DB }

func NewBloodPressureRepo(db *sql.DB) *BloodPressureRepo { return &BloodPressureRepo{DB: db} }

// ExistsByWithingsID reports whether the provider group id was already synced.
func (r *BloodPressureRepo) ExistsByWithingsID(ctx context.Context, withingsID string) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM blood_pressure WHERE withings_id=? LIMIT 1", withingsID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert writes a new blood-pressure row.
func (r *BloodPressureRepo) Insert(ctx context.Context, m model.BloodPressure) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO blood_pressure (date, time, systolic, diastolic, heart_rate, source, withings_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Date, m.Time, m.Systolic, m.Diastolic, m.HeartRate, m.Source, m.WithingsID)
	return err
}
