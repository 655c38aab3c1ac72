package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxRetryAfter caps how long a 429 response can make us wait.
const maxRetryAfter = 30 * time.Second

// get makes an authorized GET request to the Web API and decodes the
// JSON response into v.
//
// It handles:
// - Bearer authorization with the client's current token
// - A single token refresh, either before the request when the token
//   has expired or after a 401 response, followed by one retry
// - 429 rate limiting via the Retry-After header
// - Context cancellation
func (c *Client) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	if c.token == nil {
		return ErrNoToken
	}

	// Refresh up front when the stored expiry has already passed, so
	// the original request goes out with a usable token.
	refreshed := false
	if !c.token.Valid() && c.token.RefreshToken != "" {
		c.logDebugf("spotify: access token expired, refreshing")
		if err := c.refreshToken(ctx); err != nil {
			return err
		}
		refreshed = true
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	for {
		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
		req.Header.Set("User-Agent", "spins/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized && !refreshed:
			// Token expired or was revoked server-side. Refresh once
			// and retry the original request.
			c.logDebugf("spotify: got 401, refreshing token and retrying")
			if err := c.refreshToken(ctx); err != nil {
				return err
			}
			refreshed = true
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp)
			c.logDebugf("spotify: rate limited, waiting %s", wait)
			if !sleep(ctx, wait) {
				return ctx.Err()
			}
			continue

		case resp.StatusCode != http.StatusOK:
			return apiError(resp.StatusCode, body)
		}

		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		return nil
	}
}

// refreshToken exchanges the refresh token for a new access token and
// installs it on the client.
func (c *Client) refreshToken(ctx context.Context) error {
	newToken, err := c.auth.Refresh(ctx, c.token)
	if err != nil {
		return fmt.Errorf("refreshing access token: %w", err)
	}
	c.setRefreshedToken(newToken)
	return nil
}

// apiError builds a structured *Error from an error response body.
func apiError(status int, body []byte) error {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return &Error{Status: parsed.Error.Status, Message: parsed.Error.Message}
	}
	return &Error{Status: status, Message: http.StatusText(status)}
}

// retryAfter reads the Retry-After header of a 429 response, capped
// at maxRetryAfter. Defaults to one second when the header is absent
// or unparseable.
func retryAfter(resp *http.Response) time.Duration {
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds < 1 {
		seconds = 1
	}
	wait := time.Duration(seconds) * time.Second
	if wait > maxRetryAfter {
		return maxRetryAfter
	}
	return wait
}

// sleep waits for the specified duration or until context is cancelled.
// Returns true if sleep completed, false if context was cancelled.
func sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(duration):
		return true
	}
}
