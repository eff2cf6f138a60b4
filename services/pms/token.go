// File: services/pms/token.go
package pms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenRefreshMargin is subtracted from the upstream TTL so a token is never
// handed out within a minute of its expiry.
const tokenRefreshMargin = 60 * time.Second

// AuthError reports a failed client-credentials exchange. A failing credential
// configuration will not self-heal, so callers must not retry within a request.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("pms: token exchange returned status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("pms: token exchange failed: %s", e.Body)
}

// credentialCache holds the process-lifetime bearer token. Mutated only under
// its lock; the lock is never held across the network exchange, so concurrent
// refreshes may race a duplicate exchange and the last write wins.
type credentialCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// getToken returns the cached bearer token, refreshing it via the identity
// endpoint when missing or within the refresh margin of expiry. A slow
// identity endpoint must never stall callers on the cached fast path, so the
// exchange itself runs unlocked.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.creds.mu.Lock()
	if c.creds.token != "" && c.creds.now().Before(c.creds.expiresAt) {
		token := c.creds.token
		c.creds.mu.Unlock()
		return token, nil
	}
	c.creds.mu.Unlock()

	token, ttl, err := c.exchangeCredentials(ctx)
	if err != nil {
		return "", err
	}

	c.creds.mu.Lock()
	c.creds.token = token
	c.creds.expiresAt = c.creds.now().Add(ttl - tokenRefreshMargin)
	c.creds.mu.Unlock()
	return token, nil
}

// exchangeCredentials performs the client-credentials grant and returns the
// fresh token with its upstream TTL.
func (c *Client) exchangeCredentials(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &AuthError{Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, &AuthError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", 0, &AuthError{Status: resp.StatusCode, Body: "malformed token response"}
	}

	ttl := time.Duration(tr.ExpiresIn) * time.Second
	if ttl == 0 {
		ttl = time.Hour
	}
	return tr.AccessToken, ttl, nil
}
