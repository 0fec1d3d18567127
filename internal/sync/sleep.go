package sync

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/health-sync/internal/model"
	"github.com/iliyamo/health-sync/internal/units"
	"github.com/iliyamo/health-sync/internal/withings"
)

// SyncSleep writes new sleep sessions and returns how many were inserted.
// Sessions are deduplicated by the provider's session id, falling back to
// the reported date when no id is supplied.
func SyncSleep(ctx context.Context, store SleepStore, sessions []withings.SleepSummary) (int, error) {
	count := 0
	for _, s := range sessions {
		out, err := syncSleepSession(ctx, store, s)
		if err != nil {
			return count, err
		}
		if out == Inserted {
			count++
		}
	}
	return count, nil
}

func syncSleepSession(ctx context.Context, store SleepStore, s withings.SleepSummary) (Outcome, error) {
	// The reported date is the "night of" date and is stored as-is; it may
	// be the evening before the session's literal start instant, so it must
	// never be recomputed from start/end.
	if s.Date == "" {
		return SkippedNoDate, nil
	}
	id := s.Date
	if s.ID != 0 {
		id = strconv.FormatInt(s.ID, 10)
	}

	exists, err := store.ExistsByWithingsID(ctx, id)
	if err != nil {
		return SkippedDuplicate, err
	}
	if exists {
		return SkippedDuplicate, nil
	}

	row := model.Sleep{
		Date:         s.Date,
		DeepMinutes:  minutesOrNil(s.Data.DeepSeconds),
		LightMinutes: minutesOrNil(s.Data.LightSeconds),
		RemMinutes:   minutesOrNil(s.Data.RemSeconds),
		AwakeMinutes: minutesOrNil(s.Data.WakeupSeconds),
		Source:       model.SourceWithings,
		WithingsID:   id,
	}
	if s.StartDate != 0 {
		start := time.Unix(s.StartDate, 0).UTC()
		row.SleepStart = &start
	}
	if s.EndDate != 0 {
		end := time.Unix(s.EndDate, 0).UTC()
		row.SleepEnd = &end
	}
	row.DurationMinutes = minutesOrNil(s.Data.DeepSeconds + s.Data.LightSeconds + s.Data.RemSeconds)

	if err := store.Insert(ctx, row); err != nil {
		return Inserted, err
	}
	return Inserted, nil
}

func minutesOrNil(seconds int) *int {
	if seconds == 0 {
		return nil
	}
	m := units.SecondsToMinutes(seconds)
	return &m
}
