package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/health-sync/internal/model"
)

// BodyRepo stores body-composition readings (body_measurements table).
type BodyRepo struct{ DB *sql.DB }

func NewBodyRepo(db *sql.DB) *BodyRepo { return &BodyRepo{DB: db} }

// ExistsByWithingsID reports whether a row for the provider group id is
// already present. Synced rows are immutable, so an existing row means the
// group must be skipped.
func (r *BodyRepo) ExistsByWithingsID(ctx context.Context, withingsID string) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM body_measurements WHERE withings_id=? LIMIT 1", withingsID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert writes a new body-composition row.
func (r *BodyRepo) Insert(ctx context.Context, m model.BodyMeasurement) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO body_measurements
		 (date, time, weight_lbs, waist_cm, fat_mass_lbs, muscle_mass_lbs, bone_mass_lbs, body_water_pct, source, withings_id)
		 VALUES (?, ?, ?, NULL, ?, ?, ?, ?, ?, ?)`,
		m.Date, m.Time, m.WeightLbs, m.FatMassLbs, m.MuscleMassLbs, m.BoneMassLbs, m.BodyWaterPct, m.Source, m.WithingsID)
	return err
}
