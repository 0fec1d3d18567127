package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/health-sync/internal/model"
	"github.com/iliyamo/health-sync/internal/withings"
)

// fake stores backed by maps, keyed the way the real tables are.

type fakeBodyStore struct {
	rows      map[string]model.BodyMeasurement
	insertErr error
	existsErr error
}

func newFakeBodyStore() *fakeBodyStore {
	return &fakeBodyStore{rows: map[string]model.BodyMeasurement{}}
}

func (s *fakeBodyStore) ExistsByWithingsID(ctx context.Context, id string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeBodyStore) Insert(ctx context.Context, m model.BodyMeasurement) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.rows[m.WithingsID] = m
	return nil
}

type fakeBPStore struct {
	rows      map[string]model.BloodPressure
	existsErr error
}

func newFakeBPStore() *fakeBPStore {
	return &fakeBPStore{rows: map[string]model.BloodPressure{}}
}

func (s *fakeBPStore) ExistsByWithingsID(ctx context.Context, id string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeBPStore) Insert(ctx context.Context, m model.BloodPressure) error {
	s.rows[m.WithingsID] = m
	return nil
}

type fakeActivityStore struct {
	rows map[string]model.DailyActivity
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{rows: map[string]model.DailyActivity{}}
}

func (s *fakeActivityStore) Upsert(ctx context.Context, a model.DailyActivity) error {
	s.rows[a.Date] = a
	return nil
}

type fakeSleepStore struct {
	rows map[string]model.Sleep
}

func newFakeSleepStore() *fakeSleepStore {
	return &fakeSleepStore{rows: map[string]model.Sleep{}}
}

func (s *fakeSleepStore) ExistsByWithingsID(ctx context.Context, id string) (bool, error) {
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeSleepStore) Insert(ctx context.Context, m model.Sleep) error {
	s.rows[m.WithingsID] = m
	return nil
}

func meas(typ int, value int64, unit int) withings.Measure {
	return withings.Measure{Type: typ, Value: value, Unit: unit}
}

func TestSyncBodyInsertsAndConverts(t *testing.T) {
	store := newFakeBodyStore()
	groups := []withings.MeasureGroup{{
		GrpID: 12345,
		Date:  1700000000, // 2023-11-14 22:13:20 UTC
		Measures: []withings.Measure{
			meas(withings.MeasTypeWeight, 80000, -3),   // 80 kg
			meas(withings.MeasTypeFatMass, 20000, -3),  // 20 kg
			meas(withings.MeasTypeBodyWater, 551, -1),  // 55.1 %
		},
	}}

	n, err := SyncBody(context.Background(), store, groups)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	row := store.rows["12345"]
	require.Equal(t, "2023-11-14", row.Date)
	require.Equal(t, "22:13:20", row.Time)
	require.InDelta(t, 176.37, row.WeightLbs, 0.01)
	require.NotNil(t, row.FatMassLbs)
	require.InDelta(t, 44.09, *row.FatMassLbs, 0.01)
	require.NotNil(t, row.BodyWaterPct)
	require.InDelta(t, 55.1, *row.BodyWaterPct, 0.001)
	require.Nil(t, row.MuscleMassLbs)
	require.Equal(t, model.SourceWithings, row.Source)
}

func TestSyncBodyZeroMassStoredAsNull(t *testing.T) {
	// A scale that cannot measure a component reports it as 0; that is an
	// absent reading, not 0 lbs.
	store := newFakeBodyStore()
	groups := []withings.MeasureGroup{{
		GrpID: 12346,
		Date:  1700000000,
		Measures: []withings.Measure{
			meas(withings.MeasTypeWeight, 80000, -3),
			meas(withings.MeasTypeFatMass, 0, -3),
			meas(withings.MeasTypeBoneMass, 0, 0),
		},
	}}

	n, err := SyncBody(context.Background(), store, groups)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	row := store.rows["12346"]
	require.InDelta(t, 176.37, row.WeightLbs, 0.01)
	require.Nil(t, row.FatMassLbs)
	require.Nil(t, row.BoneMassLbs)
}

func TestSyncBodyIdempotent(t *testing.T) {
	store := newFakeBodyStore()
	groups := []withings.MeasureGroup{{
		GrpID:    12345,
		Date:     1700000000,
		Measures: []withings.Measure{meas(withings.MeasTypeWeight, 80000, -3)},
	}}

	n, err := SyncBody(context.Background(), store, groups)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = SyncBody(context.Background(), store, groups)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Len(t, store.rows, 1)
}

func TestSyncBodySkipsWeightlessGroup(t *testing.T) {
	store := newFakeBodyStore()

	out, err := syncBodyGroup(context.Background(), store, withings.MeasureGroup{
		GrpID:    7,
		Date:     1700000000,
		Measures: []withings.Measure{meas(withings.MeasTypeFatMass, 20000, -3)},
	})
	require.NoError(t, err)
	require.Equal(t, SkippedNoWeight, out)
	require.Empty(t, store.rows)
}

func TestSyncBodyStopsOnStorageError(t *testing.T) {
	store := newFakeBodyStore()
	store.insertErr = errors.New("disk full")
	groups := []withings.MeasureGroup{{
		GrpID:    1,
		Date:     1700000000,
		Measures: []withings.Measure{meas(withings.MeasTypeWeight, 80000, -3)},
	}}

	_, err := SyncBody(context.Background(), store, groups)
	require.Error(t, err)
}

func TestSyncBloodPressureInserts(t *testing.T) {
	store := newFakeBPStore()
	groups := []withings.MeasureGroup{{
		GrpID: 555,
		Date:  1700000000,
		Measures: []withings.Measure{
			meas(withings.MeasTypeSystolic, 120, 0),
			meas(withings.MeasTypeDiastolic, 80, 0),
			meas(withings.MeasTypeHeartRate, 62, 0),
		},
	}}

	n, err := SyncBloodPressure(context.Background(), store, groups)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	row := store.rows["555"]
	require.Equal(t, 120, row.Systolic)
	require.Equal(t, 80, row.Diastolic)
	require.NotNil(t, row.HeartRate)
	require.Equal(t, 62, *row.HeartRate)
	require.Equal(t, "2023-11-14", row.Date)
}

func TestSyncBloodPressureRequiresBothReadings(t *testing.T) {
	store := newFakeBPStore()

	out, err := syncBloodPressureGroup(context.Background(), store, withings.MeasureGroup{
		GrpID: 556,
		Date:  1700000000,
		Measures: []withings.Measure{
			meas(withings.MeasTypeSystolic, 120, 0),
			meas(withings.MeasTypeHeartRate, 62, 0),
		},
	})
	require.NoError(t, err)
	require.Equal(t, SkippedNoPressure, out)
	require.Empty(t, store.rows)
}

func TestSyncBloodPressureIgnoresWeightOnlyGroups(t *testing.T) {
	// Scale readings flow through the same measure groups; they must not
	// produce blood pressure rows.
	store := newFakeBPStore()

	n, err := SyncBloodPressure(context.Background(), store, []withings.MeasureGroup{{
		GrpID:    12345,
		Date:     1700000000,
		Measures: []withings.Measure{meas(withings.MeasTypeWeight, 80000, -3)},
	}})
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Empty(t, store.rows)
}

func TestSyncActivityUpsertsByDate(t *testing.T) {
	store := newFakeActivityStore()
	steps1, steps2 := 4000, 9500
	dist := 3218.688 // meters
	cal := 420.4
	elev := 10.0

	n, err := SyncActivity(context.Background(), store, []withings.Activity{{
		Date: "2024-03-01", Steps: &steps1,
	}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Same day again with revised totals overwrites, never duplicates.
	n, err = SyncActivity(context.Background(), store, []withings.Activity{{
		Date: "2024-03-01", Steps: &steps2, Distance: &dist, Calories: &cal, Elevation: &elev,
	}})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, store.rows, 1)

	row := store.rows["2024-03-01"]
	require.Equal(t, 9500, *row.Steps)
	require.InDelta(t, 2.0, *row.DistanceMiles, 0.001)
	require.Equal(t, 420, *row.ActiveCalories)
	require.InDelta(t, 32.8084, *row.ElevationFt, 0.001)
}

func TestSyncActivityZeroDistanceStoredAsNull(t *testing.T) {
	store := newFakeActivityStore()
	steps := 0
	dist, elev := 0.0, 0.0
	cal := 0.0

	n, err := SyncActivity(context.Background(), store, []withings.Activity{{
		Date: "2024-03-02", Steps: &steps, Distance: &dist, Calories: &cal, Elevation: &elev,
	}})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	row := store.rows["2024-03-02"]
	require.Nil(t, row.DistanceMiles)
	require.Nil(t, row.ElevationFt)
	// Steps and calories pass through even at zero: an inactive day is a
	// real observation, not a missing one.
	require.Equal(t, 0, *row.Steps)
	require.Equal(t, 0, *row.ActiveCalories)
}

func TestSyncActivitySkipsMissingDate(t *testing.T) {
	store := newFakeActivityStore()
	steps := 4000

	out, err := syncActivityDay(context.Background(), store, withings.Activity{Steps: &steps})
	require.NoError(t, err)
	require.Equal(t, SkippedNoDate, out)
	require.Empty(t, store.rows)
}

func TestSyncSleepDerivesDurations(t *testing.T) {
	store := newFakeSleepStore()
	sessions := []withings.SleepSummary{{
		ID:        98765,
		Date:      "2024-03-01",
		StartDate: 1709258400, // 2024-03-01 02:00:00 UTC
		EndDate:   1709287200, // 2024-03-01 10:00:00 UTC
		Data: withings.SleepData{
			DeepSeconds:   3600,
			LightSeconds:  7200,
			RemSeconds:    1800,
			WakeupSeconds: 90,
		},
	}}

	n, err := SyncSleep(context.Background(), store, sessions)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	row := store.rows["98765"]
	require.Equal(t, "2024-03-01", row.Date)
	require.Equal(t, 60, *row.DeepMinutes)
	require.Equal(t, 120, *row.LightMinutes)
	require.Equal(t, 30, *row.RemMinutes)
	require.Equal(t, 1, *row.AwakeMinutes) // 90s floors to 1
	require.Equal(t, 210, *row.DurationMinutes)
	require.Equal(t, time.Unix(1709258400, 0).UTC(), *row.SleepStart)
	require.Equal(t, time.Unix(1709287200, 0).UTC(), *row.SleepEnd)
}

func TestSyncSleepKeepsReportedDate(t *testing.T) {
	// The provider attributes a session to the "night of" date, which can
	// be the evening before the start instant's calendar date.
	store := newFakeSleepStore()
	sessions := []withings.SleepSummary{{
		ID:        1,
		Date:      "2024-02-29",
		StartDate: 1709258400, // already 2024-03-01 in UTC
		Data:      withings.SleepData{DeepSeconds: 3600},
	}}

	n, err := SyncSleep(context.Background(), store, sessions)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "2024-02-29", store.rows["1"].Date)
}

func TestSyncSleepFallsBackToDateID(t *testing.T) {
	store := newFakeSleepStore()
	sessions := []withings.SleepSummary{{
		Date: "2024-03-01",
		Data: withings.SleepData{LightSeconds: 600},
	}}

	n, err := SyncSleep(context.Background(), store, sessions)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Contains(t, store.rows, "2024-03-01")

	// Re-sync of the same id-less session is a duplicate.
	n, err = SyncSleep(context.Background(), store, sessions)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestSyncSleepSkipsSessionWithoutDate(t *testing.T) {
	store := newFakeSleepStore()

	out, err := syncSleepSession(context.Background(), store, withings.SleepSummary{ID: 5})
	require.NoError(t, err)
	require.Equal(t, SkippedNoDate, out)
	require.Empty(t, store.rows)
}
