package sync

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/health-sync/internal/withings"
)

// ErrUnknownDomain is returned for appli codes this service does not track.
var ErrUnknownDomain = errors.New("sync: unknown appli code")

// defaultWindowDays is the trailing window used for webhook pushes that
// carry no explicit bounds.
const defaultWindowDays = 7

// fullHistoryDays is the trailing window for full-history backfills; the
// provider keeps roughly two years of data.
const fullHistoryDays = 730

// Fetcher is the provider data access the dispatcher needs. *withings.Client
// satisfies it.
type Fetcher interface {
	FetchMeasurements(ctx context.Context, token string, start, end time.Time) []withings.MeasureGroup
	FetchActivity(ctx context.Context, token string, start, end time.Time) []withings.Activity
	FetchSleep(ctx context.Context, token string, start, end time.Time) []withings.SleepSummary
}

// TokenSource yields a currently valid bearer token. *withings.TokenManager
// satisfies it.
type TokenSource interface {
	ValidAccessToken(ctx context.Context) (string, error)
}

// Dispatcher routes a domain code (or an explicit backfill window) to the
// matching fetcher and sync function.
type Dispatcher struct {
	Tokens   TokenSource
	Client   Fetcher
	Body     BodyStore
	BP       BloodPressureStore
	Activity ActivityStore
	Sleep    SleepStore
}

// SyncByAppli syncs one domain over [startTS, endTS] (Unix seconds), or over
// the default trailing week when either bound is absent. Returns the number
// of rows written.
func (d *Dispatcher) SyncByAppli(ctx context.Context, appli int, startTS, endTS *int64) (int, error) {
	var start, end time.Time
	if startTS != nil && endTS != nil {
		start = time.Unix(*startTS, 0).UTC()
		end = time.Unix(*endTS, 0).UTC()
	} else {
		end = time.Now().UTC()
		start = end.AddDate(0, 0, -defaultWindowDays)
	}

	token, err := d.Tokens.ValidAccessToken(ctx)
	if err != nil {
		return 0, err
	}

	switch appli {
	case withings.AppliBody:
		return SyncBody(ctx, d.Body, d.Client.FetchMeasurements(ctx, token, start, end))
	case withings.AppliBloodPressure:
		return SyncBloodPressure(ctx, d.BP, d.Client.FetchMeasurements(ctx, token, start, end))
	case withings.AppliActivity:
		return SyncActivity(ctx, d.Activity, d.Client.FetchActivity(ctx, token, start, end))
	case withings.AppliSleep:
		return SyncSleep(ctx, d.Sleep, d.Client.FetchSleep(ctx, token, start, end))
	default:
		return 0, ErrUnknownDomain
	}
}

// Backfill syncs all four domains over [start, end] in a fixed order: body,
// blood pressure, activity, sleep. The domains are independent — a failure
// in one is logged and reported as zero while the others still run. Every
// domain key is always present in the result.
func (d *Dispatcher) Backfill(ctx context.Context, start, end time.Time) map[string]int {
	counts := map[string]int{
		"body_measurements": 0,
		"blood_pressure":    0,
		"daily_activity":    0,
		"sleep":             0,
	}

	token, err := d.Tokens.ValidAccessToken(ctx)
	if err != nil {
		log.Printf("withings-sync: backfill aborted, no usable credential: %v", err)
		return counts
	}

	// One measurements fetch feeds both the body and blood-pressure syncs.
	groups := d.Client.FetchMeasurements(ctx, token, start, end)
	if n, err := SyncBody(ctx, d.Body, groups); err != nil {
		log.Printf("withings-sync: body sync failed: %v", err)
	} else {
		counts["body_measurements"] = n
	}
	if n, err := SyncBloodPressure(ctx, d.BP, groups); err != nil {
		log.Printf("withings-sync: blood pressure sync failed: %v", err)
	} else {
		counts["blood_pressure"] = n
	}

	if n, err := SyncActivity(ctx, d.Activity, d.Client.FetchActivity(ctx, token, start, end)); err != nil {
		log.Printf("withings-sync: activity sync failed: %v", err)
	} else {
		counts["daily_activity"] = n
	}

	if n, err := SyncSleep(ctx, d.Sleep, d.Client.FetchSleep(ctx, token, start, end)); err != nil {
		log.Printf("withings-sync: sleep sync failed: %v", err)
	} else {
		counts["sleep"] = n
	}

	return counts
}

// BackfillFullHistory backfills the provider's full retention window.
func (d *Dispatcher) BackfillFullHistory(ctx context.Context) map[string]int {
	end := time.Now().UTC()
	return d.Backfill(ctx, end.AddDate(0, 0, -fullHistoryDays), end)
}
