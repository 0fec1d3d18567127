package sync

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/health-sync/internal/model"
	"github.com/iliyamo/health-sync/internal/units"
	"github.com/iliyamo/health-sync/internal/withings"
)

// SyncBody writes new body-composition rows for the given measure groups and
// returns how many were inserted. Duplicates and weightless groups are
// skipped; only storage failures surface as errors.
func SyncBody(ctx context.Context, store BodyStore, groups []withings.MeasureGroup) (int, error) {
	count := 0
	for _, grp := range groups {
		out, err := syncBodyGroup(ctx, store, grp)
		if err != nil {
			return count, err
		}
		if out == Inserted {
			count++
		}
	}
	return count, nil
}

func syncBodyGroup(ctx context.Context, store BodyStore, grp withings.MeasureGroup) (Outcome, error) {
	id := strconv.FormatInt(grp.GrpID, 10)

	exists, err := store.ExistsByWithingsID(ctx, id)
	if err != nil {
		return SkippedDuplicate, err
	}
	if exists {
		return SkippedDuplicate, nil
	}

	var weightKg, fatKg, muscleKg, boneKg, waterPct *float64
	for _, m := range grp.Measures {
		v := units.Decode(m.Value, m.Unit)
		switch m.Type {
		case withings.MeasTypeWeight:
			weightKg = &v
		case withings.MeasTypeFatMass:
			fatKg = &v
		case withings.MeasTypeMuscleMass:
			muscleKg = &v
		case withings.MeasTypeBoneMass:
			boneKg = &v
		case withings.MeasTypeBodyWater:
			waterPct = &v
		}
		// other measurement types are not modeled here
	}

	// weight is the required primary field for this table
	if weightKg == nil {
		return SkippedNoWeight, nil
	}

	captured := time.Unix(grp.Date, 0).UTC()
	row := model.BodyMeasurement{
		Date:          captured.Format("2006-01-02"),
		Time:          captured.Format("15:04:05"),
		WeightLbs:     units.KgToLbs(*weightKg),
		FatMassLbs:    lbsOrNil(fatKg),
		MuscleMassLbs: lbsOrNil(muscleKg),
		BoneMassLbs:   lbsOrNil(boneKg),
		BodyWaterPct:  waterPct,
		Source:        model.SourceWithings,
		WithingsID:    id,
	}
	if err := store.Insert(ctx, row); err != nil {
		return Inserted, err
	}
	return Inserted, nil
}

// lbsOrNil converts an optional mass, treating a present-but-zero reading
// the same as an absent one: the scale reports 0 when it could not measure
// the component, and that must land as NULL.
func lbsOrNil(kg *float64) *float64 {
	if kg == nil || *kg == 0 {
		return nil
	}
	lbs := units.KgToLbs(*kg)
	return &lbs
}
