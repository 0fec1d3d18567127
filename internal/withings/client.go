// Package withings talks to the Withings provider API: the OAuth token
// endpoint, the webhook subscription endpoint, and the three data endpoints
// (measurements, activity, sleep). It also owns the credential lifecycle and
// webhook signature verification. All storage access goes through the small
// Store interface so the package stays testable without a database.
package withings

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Production endpoint URLs. They are fields on Client so tests can point the
// client at a local server.
const (
	defaultAuthorizeURL = "https://account.withings.com/oauth2_user/authorize2"
	defaultTokenURL     = "https://wbsapi.withings.net/v2/oauth2"
	defaultNotifyURL    = "https://wbsapi.withings.net/notify"
	defaultMeasureURL   = "https://wbsapi.withings.net/measure"
	defaultMeasureV2URL = "https://wbsapi.withings.net/v2/measure"
	defaultSleepURL     = "https://wbsapi.withings.net/v2/sleep"
)

const requestTimeout = 30 * time.Second

// Client issues requests against the Withings API. BaseURL is this service's
// own public base URL, used to build the OAuth redirect and webhook callback
// addresses the provider calls back into.
type Client struct {
	ClientID     string
	ClientSecret string
	BaseURL      string

	AuthorizeURL string
	TokenURL     string
	NotifyURL    string
	MeasureURL   string
	MeasureV2URL string
	SleepURL     string

	HTTP *http.Client
}

// NewClient builds a client against the production endpoints.
func NewClient(clientID, clientSecret, baseURL string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		AuthorizeURL: defaultAuthorizeURL,
		TokenURL:     defaultTokenURL,
		NotifyURL:    defaultNotifyURL,
		MeasureURL:   defaultMeasureURL,
		MeasureV2URL: defaultMeasureV2URL,
		SleepURL:     defaultSleepURL,
		HTTP:         &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether provider credentials are present. Unconfigured
// clients make the integration routes fail fast instead of calling out.
func (c *Client) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// RedirectURI is the OAuth callback address registered with the provider.
func (c *Client) RedirectURI() string { return c.BaseURL + "/withings/callback" }

// CallbackURL is the webhook delivery address registered on subscribe.
func (c *Client) CallbackURL() string { return c.BaseURL + "/withings/webhook" }

// AuthCodeURL builds the user-facing authorization URL for the given state.
func (c *Client) AuthCodeURL(state string) string {
	q := url.Values{
		"response_type": {"code"},
		"client_id":     {c.ClientID},
		"redirect_uri":  {c.RedirectURI()},
		"scope":         {"user.metrics,user.activity"},
		"state":         {state},
	}
	return c.AuthorizeURL + "?" + q.Encode()
}

// postForm sends a form-encoded POST and decodes the JSON response into out.
// A non-empty token is sent as a bearer Authorization header.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode withings response: %w", err)
	}
	return nil
}

// requestToken posts a grant to the token endpoint.
func (c *Client) requestToken(ctx context.Context, form url.Values) (*tokenEnvelope, error) {
	form.Set("action", "requesttoken")
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	var env tokenEnvelope
	if err := c.postForm(ctx, c.TokenURL, form, "", &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// nonce returns a 32-hex-char request nonce for signed notify calls.
func nonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// signRequest computes the provider's request signature over
// "action,client_id,nonce" with the client secret.
func (c *Client) signRequest(action, n string) string {
	mac := hmac.New(sha256.New, []byte(c.ClientSecret))
	fmt.Fprintf(mac, "%s,%s,%s", action, c.ClientID, n)
	return hex.EncodeToString(mac.Sum(nil))
}

// notifyForm builds the common signed fields of a notify-endpoint call.
func (c *Client) notifyForm(action string) url.Values {
	n := nonce()
	return url.Values{
		"action":    {action},
		"client_id": {c.ClientID},
		"nonce":     {n},
		"signature": {c.signRequest(action, n)},
	}
}

// Subscribe registers the webhook callback for one appli code. Provider
// status 0 and 294 (already subscribed) both count as success.
func (c *Client) Subscribe(ctx context.Context, token string, appli int) (bool, error) {
	form := c.notifyForm("subscribe")
	form.Set("callbackurl", c.CallbackURL())
	form.Set("appli", strconv.Itoa(appli))
	var env notifyEnvelope
	if err := c.postForm(ctx, c.NotifyURL, form, token, &env); err != nil {
		return false, err
	}
	return env.Status == 0 || env.Status == 294, nil
}

// Unsubscribe revokes the webhook callback for one appli code.
func (c *Client) Unsubscribe(ctx context.Context, token string, appli int) (bool, error) {
	form := c.notifyForm("revoke")
	form.Set("callbackurl", c.CallbackURL())
	form.Set("appli", strconv.Itoa(appli))
	var env notifyEnvelope
	if err := c.postForm(ctx, c.NotifyURL, form, token, &env); err != nil {
		return false, err
	}
	return env.Status == 0, nil
}

// ListSubscriptions returns the appli codes with an active subscription.
func (c *Client) ListSubscriptions(ctx context.Context, token string) ([]int, error) {
	var env notifyEnvelope
	if err := c.postForm(ctx, c.NotifyURL, c.notifyForm("list"), token, &env); err != nil {
		return nil, err
	}
	if env.Status != 0 {
		return nil, fmt.Errorf("withings list subscriptions: status %d", env.Status)
	}
	applis := make([]int, 0, len(env.Body.Profiles))
	for _, p := range env.Body.Profiles {
		applis = append(applis, p.Appli)
	}
	return applis, nil
}

// SubscribeAll subscribes the four tracked applis, returning the codes that
// succeeded. Failures are per-appli; one rejection does not stop the rest.
func (c *Client) SubscribeAll(ctx context.Context, token string) []int {
	subscribed := make([]int, 0, 4)
	for _, appli := range []int{AppliBody, AppliBloodPressure, AppliActivity, AppliSleep} {
		ok, err := c.Subscribe(ctx, token, appli)
		if err != nil || !ok {
			continue
		}
		subscribed = append(subscribed, appli)
	}
	return subscribed
}

// UnsubscribeAll revokes all four applis and returns how many succeeded.
func (c *Client) UnsubscribeAll(ctx context.Context, token string) int {
	count := 0
	for _, appli := range []int{AppliBody, AppliBloodPressure, AppliActivity, AppliSleep} {
		if ok, err := c.Unsubscribe(ctx, token, appli); err == nil && ok {
			count++
		}
	}
	return count
}

// RevokeToken invalidates the access token with the provider (disconnect).
func (c *Client) RevokeToken(ctx context.Context, accessToken string) (bool, error) {
	form := url.Values{
		"action":        {"revoke"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"token":         {accessToken},
	}
	var env notifyEnvelope
	if err := c.postForm(ctx, c.TokenURL, form, "", &env); err != nil {
		return false, err
	}
	return env.Status == 0, nil
}
