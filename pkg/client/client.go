// Package client provides a typed HTTP client for the EMS API. It is used
// by the web dashboard's backend-for-frontend and by integration tooling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	appErrors "github.com/talentra/ems-api/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// Client talks to the EMS API over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option customises the client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken seeds the bearer token, for callers that persist sessions.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client against the given base URL, e.g.
// "https://ems.talentra.io/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope mirrors the server's response contract.
type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

// Login authenticates and stores the returned access token for subsequent
// calls. The refresh token is returned to the caller for safekeeping.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Refresh exchanges a refresh token for a new token pair and adopts the new
// access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// MonthAttendance fetches the month view for an employee. Pass "me" to view
// the authenticated user's own calendar.
func (c *Client) MonthAttendance(ctx context.Context, employeeID string, year, month int) (*dto.MonthViewResponse, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(month))
	path := fmt.Sprintf("/employees/%s/attendance", url.PathEscape(employeeID))
	var out dto.MonthViewResponse
	if err := c.do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TodayAttendance fetches the current check-in state for the authenticated
// employee.
func (c *Client) TodayAttendance(ctx context.Context) (*dto.TodayResponse, error) {
	var out dto.TodayResponse
	if err := c.do(ctx, http.MethodGet, "/attendance/today", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckIn records today's check-in. The server returns no body; callers must
// re-fetch TodayAttendance to observe the new state.
func (c *Client) CheckIn(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/attendance/check-in", nil, nil, nil)
}

// CheckOut closes today's open check-in.
func (c *Client) CheckOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/attendance/check-out", nil, nil, nil)
}

// Notifications lists the authenticated user's notifications.
func (c *Client) Notifications(ctx context.Context, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := url.Values{}
	if unreadOnly {
		query.Set("unread", "true")
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []models.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (status %d)", method, path, resp.StatusCode)
	}
	if env.Error != nil {
		if env.Error.Status == 0 {
			env.Error.Status = resp.StatusCode
		}
		return env.Error
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return appErrors.New("HTTP_ERROR", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
