// ABOUTME: HTTP client for a running workoutlog server.
// ABOUTME: Maps {"error": ...} bodies and non-2xx statuses to APIError.
package client

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

	"github.com/harperreed/workoutlog/internal/models"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 10 * time.Second

// APIError is a failure reported by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return "server error: " + e.Message
}

// Client talks to the record endpoints at a base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Append sends r to the write endpoint.
func (c *Client) Append(ctx context.Context, r *models.Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var out struct {
		Status string  `json:"status"`
		Error  *string `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return &APIError{StatusCode: http.StatusOK, Message: *out.Error}
	}
	if out.Status != "ok" {
		return &APIError{StatusCode: http.StatusOK, Message: fmt.Sprintf("unexpected response: %s", body)}
	}
	return nil
}

// List fetches the records of user (all users when empty), newest first.
func (c *Client) List(ctx context.Context, user string) ([]*models.Record, error) {
	u := c.baseURL + "/"
	if user != "" {
		u += "?" + url.Values{"user": {user}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var out struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: out.Error}
	}

	var records []*models.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return body, nil
}
