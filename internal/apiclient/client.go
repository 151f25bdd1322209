// Package apiclient talks to the Jaivier REST backend. It handles Bearer
// token authentication and exposes per-entity services for projects,
// sprints and tasks.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
)

// Client is the low-level HTTP client for the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Authenticated reports whether a login has succeeded.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	AccessToken2 string `json:"access_token"`
	Token        string `json:"token"`
}

// Login authenticates against /auth/login and stores the Bearer token.
// Backends disagree on the token field name, so all known spellings are
// accepted.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.APIError("Login failed with status %d", resp.StatusCode)
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(data))
	}

	var lr loginResponse
	if err := json.Unmarshal(data, &lr); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	token := lr.AccessToken
	if token == "" {
		token = lr.AccessToken2
	}
	if token == "" {
		token = lr.Token
	}
	if token == "" {
		return fmt.Errorf("no access token in login response")
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	logging.API("Login successful for user %s", username)
	return nil
}

// HealthCheck probes the backend with a lightweight authenticated request.
func (c *Client) HealthCheck(ctx context.Context) bool {
	var out any
	err := c.doJSON(ctx, http.MethodGet, "/userlist", nil, nil, &out)
	return err == nil
}

// doJSON performs a request with Bearer auth and decodes the JSON response
// into out (which may be nil for responses without a useful body).
// Transient failures and 429s are retried with exponential backoff.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		c.mu.RLock()
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		c.mu.RUnlock()

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			logging.APIDebug("%s %s attempt %d failed: %v", method, path, i+1, err)
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		logging.APIDebug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			if out == nil || len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				// Some endpoints answer 200 with plain text
				return nil
			}
			return nil
		case http.StatusNoContent:
			return nil
		default:
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// decodeList normalizes the two list shapes the backend produces: a bare
// JSON array, or an object with a "data" array.
func decodeList(raw json.RawMessage) []map[string]any {
	if len(raw) == 0 {
		return nil
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}

	var wrapped struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Data
	}

	return nil
}
