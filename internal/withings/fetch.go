package withings

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"time"
)

// maxDaySpan is the widest date window the activity and sleep endpoints
// accept per request; longer windows are split into consecutive chunks.
const maxDaySpan = 200

const dateLayout = "2006-01-02"

// fetchPage posts one data request and returns the decoded envelope. Any
// transport failure, timeout, or non-JSON body is logged and reported as
// (nil, false) so the caller stops its loop while keeping what it already
// accumulated. The same applies to a non-zero provider status.
func (c *Client) fetchPage(ctx context.Context, endpoint string, form url.Values, token string) (*dataEnvelope, bool) {
	var env dataEnvelope
	if err := c.postForm(ctx, endpoint, form, token, &env); err != nil {
		log.Printf("withings-fetch: request to %s failed: %v", endpoint, err)
		return nil, false
	}
	if env.Status != 0 {
		log.Printf("withings-fetch: %s returned provider status %d", endpoint, env.Status)
		return nil, false
	}
	return &env, true
}

// nextOffset returns the cursor for the following page, or -1 when the loop
// must stop: no further pages, or a cursor that failed to advance (a stuck
// cursor would otherwise loop forever).
func nextOffset(env *dataEnvelope, current int) int {
	if !bool(env.Body.More) {
		return -1
	}
	if env.Body.Offset <= current {
		return -1
	}
	return env.Body.Offset
}

// FetchMeasurements returns all measure groups captured in [start, end],
// following the offset cursor across pages. The window bounds are expanded
// to whole UTC days.
func (c *Client) FetchMeasurements(ctx context.Context, token string, start, end time.Time) []MeasureGroup {
	startTS := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).Unix()
	endTS := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC).Unix()

	var groups []MeasureGroup
	offset := 0
	for {
		form := url.Values{
			"action":    {"getmeas"},
			"startdate": {strconv.FormatInt(startTS, 10)},
			"enddate":   {strconv.FormatInt(endTS, 10)},
		}
		if offset > 0 {
			form.Set("offset", strconv.Itoa(offset))
		}
		env, ok := c.fetchPage(ctx, c.MeasureURL, form, token)
		if !ok {
			break
		}
		groups = append(groups, env.Body.MeasureGroups...)
		if offset = nextOffset(env, offset); offset < 0 {
			break
		}
	}
	return groups
}

// FetchActivity returns daily activity summaries for [start, end]. The
// window is split into chunks of at most maxDaySpan days, each chunk cursor-
// paginated; a failure mid-way keeps whatever earlier chunks produced.
func (c *Client) FetchActivity(ctx context.Context, token string, start, end time.Time) []Activity {
	var all []Activity
	c.eachChunk(ctx, token, c.MeasureV2URL, "getactivity", start, end, func(env *dataEnvelope) {
		all = append(all, env.Body.Activities...)
	})
	return all
}

// FetchSleep returns sleep session summaries for [start, end], chunked and
// paginated the same way as activity.
func (c *Client) FetchSleep(ctx context.Context, token string, start, end time.Time) []SleepSummary {
	var all []SleepSummary
	c.eachChunk(ctx, token, c.SleepURL, "getsummary", start, end, func(env *dataEnvelope) {
		all = append(all, env.Body.Series...)
	})
	return all
}

// eachChunk walks [start, end] in maxDaySpan-sized chunks, runs the cursor
// loop inside each chunk, and hands every successful page to collect. A
// failed page ends only the current chunk; later chunks still run, so a long
// backfill never throws away data it already gathered.
func (c *Client) eachChunk(ctx context.Context, token, endpoint, action string, start, end time.Time, collect func(*dataEnvelope)) {
	for chunkStart := start; !chunkStart.After(end); {
		chunkEnd := chunkStart.AddDate(0, 0, maxDaySpan-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		offset := 0
		for {
			form := url.Values{
				"action":       {action},
				"startdateymd": {chunkStart.Format(dateLayout)},
				"enddateymd":   {chunkEnd.Format(dateLayout)},
			}
			if offset > 0 {
				form.Set("offset", strconv.Itoa(offset))
			}
			env, ok := c.fetchPage(ctx, endpoint, form, token)
			if !ok {
				break
			}
			collect(env)
			if offset = nextOffset(env, offset); offset < 0 {
				break
			}
		}

		chunkStart = chunkEnd.AddDate(0, 0, 1)
	}
}
