package model

import "time"

// Credential status values stored in withings_tokens.status. A credential is
// active while its refresh token is usable; it becomes needs_reauth when the
// provider rejects a refresh, at which point only a full re-authorization can
// restore the integration.
const (
	StatusActive      = "active"
	StatusNeedsReauth = "needs_reauth"
)

// Source tag written by the sync engine. Rows created through the manual
// entry API carry other values and are never touched by sync.
const SourceWithings = "withings"

// Credential is the single OAuth credential record held in the
// `withings_tokens` table. Exactly one row (id = 1) exists while the
// integration is connected; it is overwritten on every refresh or
// re-exchange and deleted on disconnect.
//
// Fields:
//  AccessToken    – withings_tokens.access_token (secret)
//  RefreshToken   – withings_tokens.refresh_token (secret)
//  ExpiresAt      – withings_tokens.expires_at, absolute UTC expiry
//  WithingsUserID – withings_tokens.withings_user_id (nullable)
//  Status         – withings_tokens.status ("active" | "needs_reauth")
//  UpdatedAt      – withings_tokens.updated_at
type Credential struct {
	AccessToken    string
	RefreshToken   string
	ExpiresAt      time.Time
	WithingsUserID *string
	Status         string
	UpdatedAt      time.Time
}
