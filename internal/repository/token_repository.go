package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/health-sync/internal/model"
)

// TokenRepo persists the singleton Withings credential (withings_tokens id=1).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Get returns the stored credential, or nil when the integration has never
// been connected (or was disconnected).
func (r *TokenRepo) Get(ctx context.Context) (*model.Credential, error) {
	var (
		c      model.Credential
		userID sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, expires_at, withings_user_id, status, updated_at "+
			"FROM withings_tokens WHERE id=1",
	).Scan(&c.AccessToken, &c.RefreshToken, &c.ExpiresAt, &userID, &c.Status, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		c.WithingsUserID = &userID.String
	}
	return &c, nil
}

// Save overwrites the credential row, creating it on first exchange. The
// status is always reset to active; a nil userID keeps the previously stored
// one (refresh responses may omit it).
func (r *TokenRepo) Save(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time, userID *string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO withings_tokens (id, access_token, refresh_token, expires_at, withings_user_id, status, updated_at)
		 VALUES (1, ?, ?, ?, ?, 'active', NOW())
		 ON DUPLICATE KEY UPDATE
		   access_token=VALUES(access_token),
		   refresh_token=VALUES(refresh_token),
		   expires_at=VALUES(expires_at),
		   withings_user_id=COALESCE(VALUES(withings_user_id), withings_user_id),
		   status='active',
		   updated_at=NOW()`,
		accessToken, refreshToken, expiresAt, userID)
	return err
}

// SetStatus flips the credential status ("active" or "needs_reauth").
func (r *TokenRepo) SetStatus(ctx context.Context, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE withings_tokens SET status=?, updated_at=NOW() WHERE id=1", status)
	return err
}

// Delete removes the credential entirely (disconnect).
func (r *TokenRepo) Delete(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM withings_tokens WHERE id=1")
	return err
}
