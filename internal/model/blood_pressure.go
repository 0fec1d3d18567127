package model

// BloodPressure is one reading in the `blood_pressure` table. Like body
// measurements, synced rows are immutable and deduplicated by the provider
// group id; a reading missing either systolic or diastolic is never stored.
//
// Fields:
//  Date       – blood_pressure.date (YYYY-MM-DD, UTC)
//  Time       – blood_pressure.time (HH:MM:SS, UTC)
//  Systolic   – blood_pressure.systolic, mmHg
//  Diastolic  – blood_pressure.diastolic, mmHg
//  HeartRate  – blood_pressure.heart_rate, bpm (nullable)
//  Source     – blood_pressure.source ("withings" | "manual")
//  WithingsID – blood_pressure.withings_id, unique provider group id
type BloodPressure struct {
	Date       string
	Time       string
	Systolic   int
	Diastolic  int
	HeartRate  *int
	Source     string
	WithingsID string
}
