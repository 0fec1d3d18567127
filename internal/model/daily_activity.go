package model

// DailyActivity is the per-day summary row in the `daily_activity` table.
// The calendar date is the natural key: exactly one row exists per day, and a
// later sync for the same date overwrites the numeric fields. The provider
// revises daily summaries intraday, so unlike the measurement tables this
// table is upsert-by-date rather than insert-only.
//
// Fields:
//  Date           – daily_activity.date (YYYY-MM-DD), unique
//  Steps          – daily_activity.steps (nullable)
//  DistanceMiles  – daily_activity.distance_miles (nullable)
//  ActiveCalories – daily_activity.active_calories (nullable)
//  ElevationFt    – daily_activity.elevation_ft (nullable)
//  Source         – daily_activity.source ("withings" | "manual")
type DailyActivity struct {
	Date           string
	Steps          *int
	DistanceMiles  *float64
	ActiveCalories *int
	ElevationFt    *float64
	Source         string
}
