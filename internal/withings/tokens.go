package withings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/iliyamo/health-sync/internal/model"
)

// expiryMargin guards against clock skew and in-flight request latency: a
// token within 60s of its expiry is treated as already expired.
const expiryMargin = 60 * time.Second

var (
	// ErrNoCredential means no usable credential exists; callers must treat
	// the integration as disconnected.
	ErrNoCredential = errors.New("withings: no usable credential")
	// ErrRefreshDenied means the provider rejected the refresh token. The
	// stored credential has been flagged needs_reauth; retrying is pointless.
	ErrRefreshDenied = errors.New("withings: refresh rejected by provider")
	// ErrNotConfigured means client id/secret are absent from configuration.
	ErrNotConfigured = errors.New("withings: integration not configured")
)

// ExchangeError carries the provider's own status code and error string from
// a failed authorization-code exchange. The exchange path is interactive, so
// unlike refresh failures the detail is surfaced verbatim to the caller.
type ExchangeError struct {
	Status int
	Reason string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("withings: code exchange rejected (status %d): %s", e.Status, e.Reason)
}

// Store is the credential persistence the manager needs.
type Store interface {
	Get(ctx context.Context) (*model.Credential, error)
	Save(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time, userID *string) error
	SetStatus(ctx context.Context, status string) error
}

// TokenManager owns the OAuth credential lifecycle: validity checks,
// transparent refresh, and the one-shot authorization-code exchange. The
// mutex serializes credential writes so concurrent syncs racing for an
// expired token trigger a single refresh instead of invalidating each
// other's rotated refresh tokens.
type TokenManager struct {
	store  Store
	client *Client

	mu sync.Mutex
}

func NewTokenManager(store Store, client *Client) *TokenManager {
	return &TokenManager{store: store, client: client}
}

// IsValid reports whether a credential exists and its access token is still
// inside the safety margin.
func (m *TokenManager) IsValid(ctx context.Context) (bool, error) {
	cred, err := m.store.Get(ctx)
	if err != nil {
		return false, err
	}
	return credentialValid(cred), nil
}

func credentialValid(cred *model.Credential) bool {
	return cred != nil && time.Now().UTC().Before(cred.ExpiresAt.Add(-expiryMargin))
}

// ValidAccessToken returns an access token usable right now, refreshing
// transparently when the stored one is expired. Any failure collapses into
// ErrNoCredential: from the caller's perspective the integration is
// disconnected, whatever the underlying cause.
func (m *TokenManager) ValidAccessToken(ctx context.Context) (string, error) {
	cred, err := m.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if credentialValid(cred) {
		return cred.AccessToken, nil
	}
	refreshed, err := m.Refresh(ctx)
	if err != nil {
		return "", ErrNoCredential
	}
	return refreshed.AccessToken, nil
}

// Refresh posts a refresh-token grant and overwrites the credential with the
// rotated tokens. A provider rejection flags the credential needs_reauth and
// returns ErrRefreshDenied; no detail propagates because refresh runs
// silently on every sync and status check. Transport errors return as-is and
// leave the status untouched.
func (m *TokenManager) Refresh(ctx context.Context) (*model.Credential, error) {
	if !m.client.Configured() {
		return nil, ErrNotConfigured
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cred, err := m.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrNoCredential
	}
	// A racer may have refreshed while we waited on the lock.
	if credentialValid(cred) {
		return cred, nil
	}

	env, err := m.client.requestToken(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {cred.RefreshToken},
	})
	if err != nil {
		return nil, err
	}
	if env.Status != 0 {
		if serr := m.store.SetStatus(ctx, model.StatusNeedsReauth); serr != nil {
			return nil, serr
		}
		return nil, ErrRefreshDenied
	}

	if err := m.saveGrant(ctx, env); err != nil {
		return nil, err
	}
	return m.store.Get(ctx)
}

// ExchangeCode performs the one-shot code-for-token exchange of the OAuth
// callback. Provider rejections come back as *ExchangeError so the facade
// can show the provider's status and reason to the user.
func (m *TokenManager) ExchangeCode(ctx context.Context, code string) (*model.Credential, error) {
	if !m.client.Configured() {
		return nil, ErrNotConfigured
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	env, err := m.client.requestToken(ctx, url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {m.client.RedirectURI()},
	})
	if err != nil {
		return nil, err
	}
	if env.Status != 0 {
		reason := env.Error
		if reason == "" {
			reason = "unknown error"
		}
		return nil, &ExchangeError{Status: env.Status, Reason: reason}
	}

	if err := m.saveGrant(ctx, env); err != nil {
		return nil, err
	}
	return m.store.Get(ctx)
}

// saveGrant overwrites the credential from a successful token response,
// computing the absolute expiry from the relative expires_in.
func (m *TokenManager) saveGrant(ctx context.Context, env *tokenEnvelope) error {
	expiresAt := time.Now().UTC().Add(time.Duration(env.Body.ExpiresIn) * time.Second)
	var userID *string
	if s := env.Body.UserID.String(); s != "" {
		userID = &s
	}
	return m.store.Save(ctx, env.Body.AccessToken, env.Body.RefreshToken, expiresAt, userID)
}
