// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

// Package client is the Go API client used by frontends and tooling. It
// maintains a bearer token and a local entity cache, and implements the
// synchronization contract: the cache is patched only from the server's
// canonical rows, and any 401 discards both token and cache so the caller
// can force a re-login.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pbartnik/trasownik/internal/models"
)

// ErrSessionExpired is returned when the server answers 401. The client has
// already discarded its token and cache; the caller must log in again.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-401 error response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// envelope mirrors the server's response wrapper with the payload left raw.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// Cache is the client-side snapshot of all entities, refreshed on login and
// patched from canonical rows on every mutation.
type Cache struct {
	Points  []models.Point
	Tunnels []models.Tunnel
}

// Client is a Trasownik API client. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.Mutex
	token string
	cache Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithToken seeds a previously stored bearer token, e.g. from disk. Whether
// it is still valid is discovered on the first request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Cache returns a copy of the current entity cache.
func (c *Client) Cache() Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Cache{
		Points:  append([]models.Point(nil), c.cache.Points...),
		Tunnels: append([]models.Tunnel(nil), c.cache.Tunnels...),
	}
}

// Logout discards the token and cache client-side. Tokens are stateless;
// there is nothing to revoke on the server.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset clears token and cache. Caller holds the lock.
func (c *Client) reset() {
	c.token = ""
	c.cache = Cache{}
}

// do performs a request and decodes the envelope into out (when non-nil).
// A 401 resets the client and returns ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		// The session is gone; local state must not outlive it.
		c.mu.Lock()
		c.reset()
		c.mu.Unlock()
		return ErrSessionExpired
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if env.Status != "success" {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: "unknown error"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// Login authenticates and fills the cache with a fresh snapshot of all
// points and tunnels.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("login succeeded but initial fetch failed: %w", err)
	}
	return resp.User, nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh replaces the whole cache with the server's current state.
func (c *Client) Refresh(ctx context.Context) error {
	var points []models.Point
	if err := c.do(ctx, http.MethodGet, "/api/v1/points", nil, &points); err != nil {
		return err
	}
	var tunnels []models.Tunnel
	if err := c.do(ctx, http.MethodGet, "/api/v1/tunnels", nil, &tunnels); err != nil {
		return err
	}

	c.mu.Lock()
	c.cache = Cache{Points: points, Tunnels: tunnels}
	c.mu.Unlock()
	return nil
}
