// File: services/pms/client.go
package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Gateway is the single request/response primitive the rest of the system
// uses to talk to the PMS.
type Gateway interface {
	Call(ctx context.Context, method, path string, body any) Result
}

// Result is the uniform, non-throwing outcome of a PMS call. The PMS encodes
// conflict and duplicate conditions in free-text error bodies rather than
// distinct status codes, so Err preserves the raw body text for callers to
// inspect when deciding on fallback paths.
type Result struct {
	Status   int
	Body     []byte
	Location string
	Err      string
}

// Failed reports whether the call produced an error (transport or HTTP-level).
func (r Result) Failed() bool {
	return r.Err != ""
}

// Decode unmarshals the response body into v. An empty body is not an error;
// some PMS endpoints answer 201 with only a Location header.
func (r Result) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Client is the authenticated HTTP client for the PMS REST API.
type Client struct {
	tokenURL     string
	apiBase      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	limiter      *rate.Limiter
	creds        credentialCache
	logger       *zap.Logger
}

// NewClient builds a PMS client. The outbound limiter caps calls to the PMS
// at 10/s so a burst of guest traffic cannot trip upstream quotas.
func NewClient(tokenURL, apiBase, clientID, clientSecret string, logger *zap.Logger) *Client {
	return &Client{
		tokenURL:     tokenURL,
		apiBase:      apiBase,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(time.Second/10), 10),
		creds:        credentialCache{now: time.Now},
		logger:       logger,
	}
}

// Call performs an authenticated JSON request against the PMS API. HTTP error
// statuses are captured in Result.Err rather than returned as Go errors, so
// business-level failure text survives for the caller to branch on.
func (c *Client) Call(ctx context.Context, method, path string, body any) Result {
	token, err := c.getToken(ctx)
	if err != nil {
		c.logger.Error("PMS token exchange failed", zap.Error(err))
		return Result{Err: err.Error()}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Result{Err: err.Error()}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{Err: err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return Result{Err: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("PMS request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return Result{Err: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		return Result{Status: resp.StatusCode, Err: string(raw)}
	}

	return Result{
		Status:   resp.StatusCode,
		Body:     raw,
		Location: resp.Header.Get("Location"),
	}
}
