package model

import "time"

// Sleep is one night's sleep session in the `sleep` table. The Date field is
// the "night of" date exactly as reported by the provider; it is NOT derived
// from the start/end instants, since the provider may attribute a session to
// the evening before its literal start. Stage durations arrive in seconds and
// are stored as whole minutes (floored).
//
// Fields:
//  Date            – sleep.date, night-of date (YYYY-MM-DD)
//  SleepStart      – sleep.sleep_start, session start instant (nullable)
//  SleepEnd        – sleep.sleep_end, session end instant (nullable)
//  DurationMinutes – sleep.duration_minutes, deep+light+REM seconds / 60 (nullable)
//  DeepMinutes     – sleep.deep_minutes (nullable)
//  LightMinutes    – sleep.light_minutes (nullable)
//  RemMinutes      – sleep.rem_minutes (nullable)
//  AwakeMinutes    – sleep.awake_minutes (nullable)
//  Source          – sleep.source ("withings" | "manual")
//  WithingsID      – sleep.withings_id, unique session id (falls back to the
//                    reported date when the provider supplies no id)
type Sleep struct {
	Date            string
	SleepStart      *time.Time
	SleepEnd        *time.Time
	DurationMinutes *int
	DeepMinutes     *int
	LightMinutes    *int
	RemMinutes      *int
	AwakeMinutes    *int
	Source          string
	WithingsID      string
}
