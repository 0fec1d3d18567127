package model

// BodyMeasurement is one body-composition reading in the `body_measurements`
// table. Rows synced from Withings correspond to one provider measure group;
// the group id is kept in WithingsID and acts as the deduplication key, so a
// group is written at most once and never mutated afterwards.
//
// Fields:
//  Date          – body_measurements.date, calendar date (YYYY-MM-DD, UTC)
//  Time          – body_measurements.time, time of day (HH:MM:SS, UTC)
//  WeightLbs     – body_measurements.weight_lbs; required, a reading
//                  without weight is never stored
//  FatMassLbs    – body_measurements.fat_mass_lbs (nullable)
//  MuscleMassLbs – body_measurements.muscle_mass_lbs (nullable)
//  BoneMassLbs   – body_measurements.bone_mass_lbs (nullable)
//  BodyWaterPct  – body_measurements.body_water_pct (nullable)
//  Source        – body_measurements.source ("withings" | "manual")
//  WithingsID    – body_measurements.withings_id, unique provider group id
type BodyMeasurement struct {
	Date          string
	Time          string
	WeightLbs     float64
	FatMassLbs    *float64
	MuscleMassLbs *float64
	BoneMassLbs   *float64
	BodyWaterPct  *float64
	Source        string
	WithingsID    string
}
