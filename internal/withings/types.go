package withings

import (
	"bytes"
	"encoding/json"
)

// Withings appli codes, used both for webhook subscriptions and for routing
// inbound notifications to the right sync.
const (
	AppliBody          = 1  // weight / body composition
	AppliBloodPressure = 4  // blood pressure
	AppliActivity      = 16 // daily activity summaries
	AppliSleep         = 44 // sleep summaries
)

// Measurement type codes inside a measure group. The provider's catalogue is
// much larger; codes not listed here are ignored during sync.
const (
	MeasTypeWeight     = 1
	MeasTypeFatMass    = 8
	MeasTypeDiastolic  = 9
	MeasTypeSystolic   = 10
	MeasTypeHeartRate  = 11
	MeasTypeMuscleMass = 76
	MeasTypeBodyWater  = 77
	MeasTypeBoneMass   = 88
)

// Measure is a single typed value inside a measure group, in the provider's
// scaled-integer encoding (actual = Value * 10^Unit).
type Measure struct {
	Value int64 `json:"value"`
	Type  int   `json:"type"`
	Unit  int   `json:"unit"`
}

// MeasureGroup is one device reading: a provider-assigned group id, a Unix
// capture timestamp, and the measures taken together in that reading.
type MeasureGroup struct {
	GrpID    int64     `json:"grpid"`
	Date     int64     `json:"date"`
	Measures []Measure `json:"measures"`
}

// Activity is one day's activity summary. Distances and elevation arrive in
// meters; any of the numeric fields may be absent.
type Activity struct {
	Date      string   `json:"date"`
	Steps     *int     `json:"steps"`
	Distance  *float64 `json:"distance"`
	Calories  *float64 `json:"calories"`
	Elevation *float64 `json:"elevation"`
}

// SleepSummary is one sleep session. Date is the "night of" date as the
// provider reports it, which can differ from the calendar date of StartDate.
type SleepSummary struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	StartDate int64     `json:"startdate"`
	EndDate   int64     `json:"enddate"`
	Data      SleepData `json:"data"`
}

// SleepData carries the per-stage durations of a session, in seconds.
type SleepData struct {
	DeepSeconds     int `json:"deepsleepduration"`
	LightSeconds    int `json:"lightsleepduration"`
	RemSeconds      int `json:"remsleepduration"`
	WakeupSeconds   int `json:"wakeupduration"`
	ToSleepSeconds  int `json:"durationtosleep"`
	ToWakeupSeconds int `json:"durationtowakeup"`
}

// flexBool tolerates the provider's mixed encoding of the pagination flag,
// which appears as true/false on some endpoints and 0/1 on others.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", `""`:
		*b = false
		return nil
	case "true":
		*b = true
		return nil
	case "false":
		*b = false
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*b = n != 0
	return nil
}

// dataEnvelope is the common response wrapper of the data endpoints. Status 0
// means success; any other value is a provider-side API error even when the
// HTTP status is 200.
type dataEnvelope struct {
	Status int `json:"status"`
	Body   struct {
		MeasureGroups []MeasureGroup `json:"measuregrps"`
		Activities    []Activity     `json:"activities"`
		Series        []SleepSummary `json:"series"`
		More          flexBool       `json:"more"`
		Offset        int            `json:"offset"`
	} `json:"body"`
}

// tokenEnvelope wraps the token endpoint responses.
type tokenEnvelope struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Body   struct {
		AccessToken  string      `json:"access_token"`
		RefreshToken string      `json:"refresh_token"`
		ExpiresIn    int         `json:"expires_in"`
		UserID       json.Number `json:"userid"`
	} `json:"body"`
}

// notifyEnvelope wraps the subscription endpoint responses.
type notifyEnvelope struct {
	Status int `json:"status"`
	Body   struct {
		Profiles []struct {
			Appli int `json:"appli"`
		} `json:"profiles"`
	} `json:"body"`
}
