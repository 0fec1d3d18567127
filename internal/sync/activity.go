package sync

import (
	"context"
	"math"

	"github.com/iliyamo/health-sync/internal/model"
	"github.com/iliyamo/health-sync/internal/units"
	"github.com/iliyamo/health-sync/internal/withings"
)

// SyncActivity upserts daily activity summaries keyed by date and returns
// how many days were written. Unlike the measurement tables a later sync for
// the same date overwrites the earlier one, since the provider revises its
// daily totals intraday.
func SyncActivity(ctx context.Context, store ActivityStore, activities []withings.Activity) (int, error) {
	count := 0
	for _, act := range activities {
		out, err := syncActivityDay(ctx, store, act)
		if err != nil {
			return count, err
		}
		if out == Inserted || out == Updated {
			count++
		}
	}
	return count, nil
}

func syncActivityDay(ctx context.Context, store ActivityStore, act withings.Activity) (Outcome, error) {
	if act.Date == "" {
		return SkippedNoDate, nil
	}

	row := model.DailyActivity{
		Date:   act.Date,
		Steps:  act.Steps,
		Source: model.SourceWithings,
	}
	// Zero distance/elevation means the tracker recorded nothing; stored
	// as NULL like an absent field.
	if act.Distance != nil && *act.Distance != 0 {
		mi := units.MetersToMiles(*act.Distance)
		row.DistanceMiles = &mi
	}
	if act.Calories != nil {
		cal := int(math.Round(*act.Calories))
		row.ActiveCalories = &cal
	}
	if act.Elevation != nil && *act.Elevation != 0 {
		ft := units.MetersToFeet(*act.Elevation)
		row.ElevationFt = &ft
	}

	if err := store.Upsert(ctx, row); err != nil {
		return Updated, err
	}
	return Updated, nil
}
