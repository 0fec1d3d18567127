package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/health-sync/internal/config"
	"github.com/iliyamo/health-sync/internal/model"
	"github.com/iliyamo/health-sync/internal/queue"
	queue_publisher "github.com/iliyamo/health-sync/internal/service"
	"github.com/iliyamo/health-sync/internal/sync"
	"github.com/iliyamo/health-sync/internal/withings"
)

// subsCacheKey and subsCacheTTL control the Redis cache of the provider's
// subscription list; listing subscriptions is a provider round-trip, and the
// status endpoint is polled by dashboards.
const (
	subsCacheKey = "withings:subscriptions"
	subsCacheTTL = 5 * time.Minute
)

// CredentialStore is the credential access the facade needs beyond the token
// manager: the raw record for status display and deletion on disconnect.
// *repository.TokenRepo satisfies it.
type CredentialStore interface {
	Get(ctx context.Context) (*model.Credential, error)
	Delete(ctx context.Context) error
}

// WithingsHandler bundles dependencies for the integration endpoints. It
// orchestrates the client, token manager, and dispatcher but holds no
// business rules of its own.
type WithingsHandler struct {
	Cfg        config.Config
	Client     *withings.Client
	Tokens     *withings.TokenManager
	Dispatcher *sync.Dispatcher
	Creds      CredentialStore
	Redis      *redis.Client // nil disables the subscription cache

	// Publish enqueues a background sync job; swapped out in tests. When the
	// broker is unreachable the handlers fall back to an inline goroutine so
	// the provider-facing response never blocks on sync work.
	Publish func(ctx context.Context, ev queue.SyncRequestedEvent) error
}

func NewWithingsHandler(cfg config.Config, client *withings.Client, tokens *withings.TokenManager,
	dispatcher *sync.Dispatcher, creds CredentialStore, rdb *redis.Client) *WithingsHandler {
	return &WithingsHandler{
		Cfg:        cfg,
		Client:     client,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Creds:      creds,
		Redis:      rdb,
		Publish:    queue_publisher.PublishSyncRequested,
	}
}

// ----- DTOs -----

type statusResp struct {
	Connected        bool       `json:"connected"`
	Status           string     `json:"status,omitempty"`
	WithingsUserID   *string    `json:"withings_user_id,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	ExpiresInSeconds *int       `json:"expires_in_seconds,omitempty"`
	Subscriptions    []int      `json:"subscriptions,omitempty"`
}

type backfillReq struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// AuthURL returns the provider authorization URL the operator opens to
// (re)connect the integration.
func (h *WithingsHandler) AuthURL(c echo.Context) error {
	if !h.Client.Configured() || h.Cfg.BaseURL == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "withings integration not configured"})
	}
	state, err := newStateToken(h.Cfg.StateSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue state failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"auth_url": h.Client.AuthCodeURL(state)})
}

// Callback handles the OAuth redirect: verifies state, exchanges the code,
// subscribes all four domains, and kicks off a full-history backfill in the
// background.
func (h *WithingsHandler) Callback(c echo.Context) error {
	if !h.Client.Configured() {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "withings integration not configured"})
	}
	if !verifyStateToken(h.Cfg.StateSecret, c.QueryParam("state")) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid state parameter"})
	}
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing authorization code"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	cred, err := h.Tokens.ExchangeCode(ctx, code)
	if err != nil {
		var xe *withings.ExchangeError
		if errors.As(err, &xe) {
			// Interactive flow: the provider's own diagnostics go back verbatim.
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":           "failed to exchange authorization code",
				"provider_status": xe.Status,
				"provider_error":  xe.Reason,
			})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "token exchange failed"})
	}

	subscribed := h.Client.SubscribeAll(ctx, cred.AccessToken)
	h.invalidateSubscriptions(ctx)

	h.enqueue(queue.SyncRequestedEvent{
		JobID:       uuid.NewString(),
		Backfill:    true,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})

	userID := ""
	if cred.WithingsUserID != nil {
		userID = *cred.WithingsUserID
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":          "Withings connected successfully",
		"withings_user_id": userID,
		"subscriptions":    subscribed,
		"backfill_started": true,
	})
}

// Status reports the connection state: credential status, expiry countdown,
// and the provider-side subscription list.
func (h *WithingsHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	cred, err := h.Creds.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if cred == nil {
		return c.JSON(http.StatusOK, statusResp{Connected: false})
	}

	expiresIn := int(time.Until(cred.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return c.JSON(http.StatusOK, statusResp{
		Connected:        true,
		Status:           cred.Status,
		WithingsUserID:   cred.WithingsUserID,
		ExpiresAt:        &cred.ExpiresAt,
		ExpiresInSeconds: &expiresIn,
		Subscriptions:    h.subscriptions(ctx),
	})
}

// Refresh forces a token refresh regardless of remaining validity.
func (h *WithingsHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	cred, err := h.Tokens.Refresh(ctx)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to refresh token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Token refreshed successfully",
		"expires_at": cred.ExpiresAt,
	})
}

// Disconnect tears the integration down: webhook subscriptions revoked, the
// access token revoked with the provider, and the local credential deleted.
// Provider-side failures are tolerated; the local credential always goes.
func (h *WithingsHandler) Disconnect(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	unsubscribed := 0
	if token, err := h.Tokens.ValidAccessToken(ctx); err == nil {
		unsubscribed = h.Client.UnsubscribeAll(ctx, token)
	}
	if cred, err := h.Creds.Get(ctx); err == nil && cred != nil {
		_, _ = h.Client.RevokeToken(ctx, cred.AccessToken)
	}
	if err := h.Creds.Delete(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete credential failed"})
	}
	h.invalidateSubscriptions(ctx)

	return c.JSON(http.StatusOK, echo.Map{
		"message":               "Withings disconnected",
		"webhooks_unsubscribed": unsubscribed,
	})
}

// Webhook receives provider push notifications. The HMAC signature is
// verified against the raw body before any parsing; once it passes the
// response is 200 no matter what happens downstream, because repeated
// non-200 answers make the provider disable the subscription. The sync
// itself runs in the background.
func (h *WithingsHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	signature := c.Request().Header.Get("X-Withings-Signature")
	if !withings.VerifySignature(h.Cfg.WithingsClientSecret, body, signature) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		// Signed but unparseable: acknowledge and drop.
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
	appli, _ := strconv.Atoi(form.Get("appli"))

	ev := queue.SyncRequestedEvent{
		JobID:       uuid.NewString(),
		Appli:       appli,
		StartDate:   optionalUnix(form.Get("startdate")),
		EndDate:     optionalUnix(form.Get("enddate")),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	h.enqueue(ev)

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Backfill runs an explicit-window sync of all four domains synchronously
// and reports per-domain counts.
func (h *WithingsHandler) Backfill(c echo.Context) error {
	var req backfillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid start_date: expected YYYY-MM-DD"})
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid end_date: expected YYYY-MM-DD"})
	}

	counts := h.Dispatcher.Backfill(c.Request().Context(), start, end)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Backfill completed",
		"counts":  counts,
	})
}

// enqueue hands a sync job to the broker, falling back to running the job
// inline when publishing fails. The whole thing runs off the response path:
// webhook answers must stay prompt even when the broker host blackholes,
// since the provider disables subscriptions that time out repeatedly.
func (h *WithingsHandler) enqueue(ev queue.SyncRequestedEvent) {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := h.Publish(pubCtx, ev)
		cancel()
		if err == nil {
			return
		}
		jobCtx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		if ev.Backfill {
			h.Dispatcher.BackfillFullHistory(jobCtx)
			return
		}
		_, _ = h.Dispatcher.SyncByAppli(jobCtx, ev.Appli, ev.StartDate, ev.EndDate)
	}()
}

// subscriptions returns the provider's active subscription list, served from
// Redis when a fresh copy is cached.
func (h *WithingsHandler) subscriptions(ctx context.Context) []int {
	if h.Redis != nil {
		if raw, err := h.Redis.Get(ctx, subsCacheKey).Result(); err == nil {
			var subs []int
			if json.Unmarshal([]byte(raw), &subs) == nil {
				return subs
			}
		}
	}

	token, err := h.Tokens.ValidAccessToken(ctx)
	if err != nil {
		return []int{}
	}
	subs, err := h.Client.ListSubscriptions(ctx, token)
	if err != nil {
		return []int{}
	}

	if h.Redis != nil {
		if raw, err := json.Marshal(subs); err == nil {
			_ = h.Redis.Set(ctx, subsCacheKey, raw, subsCacheTTL).Err()
		}
	}
	return subs
}

func (h *WithingsHandler) invalidateSubscriptions(ctx context.Context) {
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, subsCacheKey).Err()
	}
}

func optionalUnix(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
