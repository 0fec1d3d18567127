// Package queue defines message payloads exchanged over the message broker
// and the background consumer that executes sync jobs.
package queue

// SyncQueueName is the durable queue carrying Withings sync jobs.
const SyncQueueName = "withings.sync"

// SyncRequestedEvent asks the consumer to run one sync. When Backfill is
// true the whole retention window is synced for all domains and the other
// fields are ignored; otherwise Appli selects the domain and the optional
// Unix-second bounds narrow the window (absent bounds mean the default
// trailing week).
type SyncRequestedEvent struct {
	JobID       string `json:"job_id"`
	Appli       int    `json:"appli,omitempty"`
	StartDate   *int64 `json:"startdate,omitempty"`
	EndDate     *int64 `json:"enddate,omitempty"`
	Backfill    bool   `json:"backfill,omitempty"`
	RequestedAt string `json:"requested_at"`
}
