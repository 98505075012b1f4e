package xtrackerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://xtracker.polymarket.com"

type Client struct {
	host          string
	httpClient    *http.Client
	detailTimeout time.Duration
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string, detailTimeout time.Duration) *Client {
	if host == "" {
		host = DefaultBaseURL
	}
	host = strings.TrimRight(host, "/")
	if detailTimeout <= 0 {
		detailTimeout = 10 * time.Second
	}
	return &Client{
		host:          host,
		httpClient:    httpClient,
		detailTimeout: detailTimeout,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// GetUser fetches a user's profile including its list of tracking summaries.
func (c *Client) GetUser(ctx context.Context, handle string) (*RemoteUser, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, fmt.Errorf("handle is required")
	}
	body, err := c.doRequest(ctx, "/api/users/"+url.PathEscape(handle), nil)
	if err != nil {
		return nil, err
	}
	var user RemoteUser
	if err := json.Unmarshal(unwrap(body), &user); err != nil {
		return nil, fmt.Errorf("failed to decode user payload: %w", err)
	}
	return &user, nil
}

// GetTracking fetches one tracking's detail. The detail call gets its own
// tighter deadline on top of whatever the caller's context carries.
func (c *Client) GetTracking(ctx context.Context, trackingID string, includeStats bool) (*RemoteTracking, error) {
	if strings.TrimSpace(trackingID) == "" {
		return nil, fmt.Errorf("tracking_id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.detailTimeout)
	defer cancel()

	query := url.Values{}
	if includeStats {
		query.Set("includeStats", "true")
	}
	body, err := c.doRequest(ctx, "/api/trackings/"+url.PathEscape(trackingID), query)
	if err != nil {
		return nil, err
	}
	var tracking RemoteTracking
	if err := json.Unmarshal(unwrap(body), &tracking); err != nil {
		return nil, fmt.Errorf("failed to decode tracking payload: %w", err)
	}
	return &tracking, nil
}

// unwrap tolerates both `{ "data": {...} }` and the bare object.
func unwrap(body []byte) []byte {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err == nil {
		if len(probe.Data) > 0 && string(probe.Data) != "null" {
			return probe.Data
		}
	}
	return body
}
