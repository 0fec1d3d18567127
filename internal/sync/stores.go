// Package sync turns raw Withings records into storage rows: deduplication
// for the immutable domains, upsert-by-date for activity, unit conversion on
// the way in, and a dispatcher that routes appli codes to the right
// fetch+sync pair. Expected no-data conditions (duplicates, missing required
// fields, empty responses) are skips, never errors.
package sync

import (
	"context"

	"github.com/iliyamo/health-sync/internal/model"
)

// BodyStore is the body_measurements access the sync needs.
type BodyStore interface {
	ExistsByWithingsID(ctx context.Context, withingsID string) (bool, error)
	Insert(ctx context.Context, m model.BodyMeasurement) error
}

// BloodPressureStore is the blood_pressure access the sync needs.
type BloodPressureStore interface {
	ExistsByWithingsID(ctx context.Context, withingsID string) (bool, error)
	Insert(ctx context.Context, m model.BloodPressure) error
}

// ActivityStore upserts daily_activity rows by their date key.
type ActivityStore interface {
	Upsert(ctx context.Context, a model.DailyActivity) error
}

// SleepStore is the sleep table access the sync needs.
type SleepStore interface {
	ExistsByWithingsID(ctx context.Context, withingsID string) (bool, error)
	Insert(ctx context.Context, s model.Sleep) error
}
