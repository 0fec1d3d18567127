package sync

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/health-sync/internal/model"
	"github.com/iliyamo/health-sync/internal/units"
	"github.com/iliyamo/health-sync/internal/withings"
)

// SyncBloodPressure writes new blood-pressure rows for the given measure
// groups and returns how many were inserted. Groups without both systolic
// and diastolic are skipped: cuffs report heart rate alone at times, and the
// same measure groups also flow through the body sync.
func SyncBloodPressure(ctx context.Context, store BloodPressureStore, groups []withings.MeasureGroup) (int, error) {
	count := 0
	for _, grp := range groups {
		out, err := syncBloodPressureGroup(ctx, store, grp)
		if err != nil {
			return count, err
		}
		if out == Inserted {
			count++
		}
	}
	return count, nil
}

func syncBloodPressureGroup(ctx context.Context, store BloodPressureStore, grp withings.MeasureGroup) (Outcome, error) {
	id := strconv.FormatInt(grp.GrpID, 10)

	exists, err := store.ExistsByWithingsID(ctx, id)
	if err != nil {
		return SkippedDuplicate, err
	}
	if exists {
		return SkippedDuplicate, nil
	}

	var systolic, diastolic, heartRate *int
	for _, m := range grp.Measures {
		v := int(units.Decode(m.Value, m.Unit))
		switch m.Type {
		case withings.MeasTypeSystolic:
			systolic = &v
		case withings.MeasTypeDiastolic:
			diastolic = &v
		case withings.MeasTypeHeartRate:
			heartRate = &v
		}
	}

	if systolic == nil || diastolic == nil {
		return SkippedNoPressure, nil
	}

	captured := time.Unix(grp.Date, 0).UTC()
	row := model.BloodPressure{
		Date:       captured.Format("2006-01-02"),
		Time:       captured.Format("15:04:05"),
		Systolic:   *systolic,
		Diastolic:  *diastolic,
		HeartRate:  heartRate,
		Source:     model.SourceWithings,
		WithingsID: id,
	}
	if err := store.Insert(ctx, row); err != nil {
		return Inserted, err
	}
	return Inserted, nil
}
