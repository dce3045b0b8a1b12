package eds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/edsapi/internal/domain"
	"github.com/kailas-cloud/edsapi/internal/domain/options"
	"github.com/kailas-cloud/edsapi/internal/domain/params"
	"github.com/kailas-cloud/edsapi/internal/domain/token"
	"github.com/kailas-cloud/edsapi/internal/metrics"
)

// Default service locations.
const (
	DefaultAuthURL = "https://eds-api.ebscohost.com/authservice/rest"
	DefaultAPIURL  = "https://eds-api.ebscohost.com/edsapi/rest"
)

const (
	headerAuthToken    = "x-authenticationToken"
	headerSessionToken = "x-sessionToken"
	contentTypeJSON    = "application/json"

	// maxSessionRetries bounds re-issuing a call after the service rejects
	// the session token.
	maxSessionRetries = 1
)

// Doer is the minimal HTTP client interface.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionRenewer creates a replacement session after the service reports the
// current one invalid.
type SessionRenewer interface {
	RenewSession(ctx context.Context, authToken, profile string) (string, error)
}

// Client calls the remote authentication and search services.
type Client struct {
	authURL   string
	apiURL    string
	http      Doer
	renewer   SessionRenewer
	userAgent string
	logger    *zap.Logger
}

// Config holds the client settings.
type Config struct {
	AuthURL    string
	APIURL     string
	HTTPClient Doer
	// Timeout applies only when HTTPClient is nil. Zero means no timeout.
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

// NewClient creates a Client.
func NewClient(cfg *Config) *Client {
	c := &Client{
		authURL:   strings.TrimRight(cfg.AuthURL, "/"),
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		http:      cfg.HTTPClient,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
	}
	if c.authURL == "" {
		c.authURL = DefaultAuthURL
	}
	if c.apiURL == "" {
		c.apiURL = DefaultAPIURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// WithSessionRenewer enables the single retry on an invalid session.
func (c *Client) WithSessionRenewer(r SessionRenewer) *Client {
	c.renewer = r
	return c
}

type authRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	OrgID    string `json:"orgid,omitempty"`
}

type authResponse struct {
	AuthToken   string  `json:"AuthToken"`
	AuthTimeout flexInt `json:"AuthTimeout"`
}

type sessionResponse struct {
	SessionToken string `json:"SessionToken"`
}

// Authenticate exchanges credentials for an authentication token.
func (c *Client) Authenticate(ctx context.Context, username, password, orgID string) (token.Grant, error) {
	body, err := json.Marshal(authRequest{Username: username, Password: password, OrgID: orgID})
	if err != nil {
		return token.Grant{}, fmt.Errorf("marshal auth request: %w", err)
	}

	data, err := c.execute(ctx, "uidauth", http.MethodPost, c.authURL+"/uidauth", body, token.Pair{})
	if err != nil {
		return token.Grant{}, err
	}

	var resp authResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return token.Grant{}, fmt.Errorf("uidauth: %w: %w", domain.ErrDecode, err)
	}
	if resp.AuthToken == "" {
		return token.Grant{}, fmt.Errorf("uidauth: missing AuthToken: %w", domain.ErrDecode)
	}
	return token.Grant{Token: resp.AuthToken, TimeoutSec: int64(resp.AuthTimeout)}, nil
}

// CreateSession opens a session for profile.
func (c *Client) CreateSession(ctx context.Context, authToken, profile string, guest bool) (string, error) {
	q := params.New()
	q.Set(params.Profile, profile)
	q.Set("guest", token.GuestFlag(guest))

	data, err := c.execute(ctx, "createsession", http.MethodGet,
		c.apiURL+"/createsession?"+q.Encode(), nil, token.Pair{AuthToken: authToken})
	if err != nil {
		return "", err
	}

	var resp sessionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("createsession: %w: %w", domain.ErrDecode, err)
	}
	if resp.SessionToken == "" {
		return "", fmt.Errorf("createsession: missing SessionToken: %w", domain.ErrDecode)
	}
	return resp.SessionToken, nil
}

// Search runs a search and returns the decoded response.
func (c *Client) Search(ctx context.Context, pair token.Pair, p *params.Set) (any, error) {
	data, err := c.callWithSession(ctx, "search", c.apiURL+"/search?"+p.Encode(), pair)
	if err != nil {
		return nil, err
	}
	return decode(data, "search")
}

// Retrieve fetches one record. highlightTerms is optional.
func (c *Client) Retrieve(ctx context.Context, pair token.Pair, an, dbID, highlightTerms string) (any, error) {
	q := url.Values{}
	q.Set("an", an)
	q.Set("dbid", dbID)
	if highlightTerms != "" {
		q.Set("highlightterms", highlightTerms)
	}
	data, err := c.callWithSession(ctx, "retrieve", c.apiURL+"/retrieve?"+q.Encode(), pair)
	if err != nil {
		return nil, err
	}
	return decode(data, "retrieve")
}

// Info fetches the profile's available search criteria.
func (c *Client) Info(ctx context.Context, pair token.Pair) (options.Info, error) {
	data, err := c.callWithSession(ctx, "info", c.apiURL+"/info", pair)
	if err != nil {
		return options.Info{}, err
	}
	var info options.Info
	if err := json.Unmarshal(data, &info); err != nil {
		return options.Info{}, fmt.Errorf("info: %w: %w", domain.ErrDecode, err)
	}
	return info, nil
}

// callWithSession issues a GET and re-issues it at most maxSessionRetries
// times with a fresh session when the service rejects the session token.
func (c *Client) callWithSession(ctx context.Context, endpoint, rawURL string, pair token.Pair) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		data, err := c.execute(ctx, endpoint, http.MethodGet, rawURL, nil, pair)
		if err == nil {
			return data, nil
		}
		if attempt >= maxSessionRetries || c.renewer == nil || !domain.IsSessionInvalid(err) {
			return nil, err
		}

		c.logger.Info("Session token rejected, creating a new session",
			zap.String("endpoint", endpoint), zap.String("profile", pair.Profile))
		metrics.SessionRetriesTotal.Inc()

		session, rerr := c.renewer.RenewSession(ctx, pair.AuthToken, pair.Profile)
		if rerr != nil {
			return nil, fmt.Errorf("renew session: %w", rerr)
		}
		pair.SessionToken = session
	}
}

// execute performs one HTTP exchange and returns the validated JSON body.
func (c *Client) execute(
	ctx context.Context,
	endpoint, method, rawURL string,
	body []byte,
	pair token.Pair,
) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if pair.SessionToken != "" {
		req.Header.Set(headerSessionToken, pair.SessionToken)
	}
	if pair.AuthToken != "" {
		req.Header.Set(headerAuthToken, pair.AuthToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, "transport_error", start)
		return nil, fmt.Errorf("%s: %w: %w", endpoint, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, "transport_error", start)
		return nil, fmt.Errorf("%s: read body: %w: %w", endpoint, domain.ErrTransport, err)
	}

	if apiErr := parseAPIError(data, resp.StatusCode); apiErr != nil {
		c.observe(endpoint, "api_error", start)
		c.logger.Debug("Remote API error",
			zap.String("endpoint", endpoint),
			zap.Int("code", apiErr.Code),
			zap.String("description", apiErr.Description))
		return nil, fmt.Errorf("%s: %w", endpoint, apiErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(endpoint, "transport_error", start)
		return nil, fmt.Errorf("%s: unexpected status %d: %w", endpoint, resp.StatusCode, domain.ErrTransport)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		c.observe(endpoint, "decode_error", start)
		return nil, fmt.Errorf("%s: empty response body: %w", endpoint, domain.ErrDecode)
	}
	if !json.Valid(trimmed) {
		c.observe(endpoint, "decode_error", start)
		return nil, fmt.Errorf("%s: invalid JSON response: %w", endpoint, domain.ErrDecode)
	}

	c.observe(endpoint, "ok", start)
	c.logger.Debug("Remote call completed",
		zap.String("endpoint", endpoint),
		zap.Duration("duration", time.Since(start)))
	return trimmed, nil
}

func (c *Client) observe(endpoint, status string, start time.Time) {
	metrics.RemoteRequestsTotal.WithLabelValues(endpoint, status).Inc()
	metrics.RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func decode(data []byte, endpoint string) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", endpoint, domain.ErrDecode, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%s: null response: %w", endpoint, domain.ErrDecode)
	}
	return v, nil
}
