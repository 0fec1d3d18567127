package sync

// Outcome says what happened to a single provider record. Skips are normal
// operation — devices legitimately omit fields, and webhook windows overlap
// previously synced data — so they are modeled explicitly instead of being
// silent no-ops.
type Outcome int

const (
	// Inserted: a new row was written.
	Inserted Outcome = iota
	// Updated: an existing daily_activity row was overwritten.
	Updated
	// SkippedDuplicate: a row with this external id already exists.
	SkippedDuplicate
	// SkippedNoWeight: body-composition group without a weight measure.
	SkippedNoWeight
	// SkippedNoPressure: blood-pressure group missing systolic or diastolic.
	SkippedNoPressure
	// SkippedNoDate: record without the date its table is keyed on.
	SkippedNoDate
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case SkippedDuplicate:
		return "skipped_duplicate"
	case SkippedNoWeight:
		return "skipped_no_weight"
	case SkippedNoPressure:
		return "skipped_no_pressure"
	case SkippedNoDate:
		return "skipped_no_date"
	}
	return "unknown"
}
