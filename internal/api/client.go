package api

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

	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/session"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client is the HTTP client for the Texturnhub backend. It owns the
// transport concerns every service shares: the base URL, the bearer header,
// a client-side token bucket so the poller and the user together cannot
// hammer the backend, and the uniform 401 policy (purge credential, publish
// session.expired, return ErrUnauthorized).
type Client struct {
	baseURL string
	httpc   *http.Client
	creds   *session.Store
	bus     *bus.Bus
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a backend client. creds supplies the bearer token for
// authenticated calls; b may be nil when no one listens for session events.
func NewClient(baseURL string, timeout time.Duration, creds *session.Store, b *bus.Bus, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		creds:   creds,
		bus:     b,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:  logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Credentials returns the credential store backing this client.
func (c *Client) Credentials() *session.Store { return c.creds }

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

// do issues a JSON request. body is marshalled when non-nil; out is decoded
// when non-nil. authed controls the Authorization header.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	return c.doRaw(ctx, method, path, query, reader, "application/json", out, authed)
}

// doRaw is the single choke point for every request this client makes.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any, authed bool) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		token := c.creds.Token()
		if token == "" {
			return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession()
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError extracts the server's {"error": ...} text.
func (c *Client) decodeError(resp *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &eb); err != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(string(data))
	}
	return &Error{Status: resp.StatusCode, Message: eb.Error}
}

// expireSession purges the stored credential and tells the rest of the app.
// Runs at most usefully once; repeated 401s just re-purge an empty store.
func (c *Client) expireSession() {
	c.logger.Warn("token rejected by backend, purging credentials")
	if err := c.creds.Purge(); err != nil {
		c.logger.Error("failed to purge credentials", zap.Error(err))
	}
	if c.bus != nil {
		c.bus.Publish(bus.Event{Kind: bus.KindSessionExpired, Timestamp: time.Now()})
	}
}
