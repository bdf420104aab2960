package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloudpulse/app/feed"
)

const defaultTimeout = 30 * time.Second

// Client consumes the upstream JSON endpoints: a feed API returning
// {"items": [...]} and an incidents endpoint returning a bare array.
// Non-2xx responses are fetch failures; the caller decides whether a
// cached fallback applies.
type Client struct {
	httpClient   *http.Client
	feedURL      string
	incidentsURL string
	userAgent    string
}

func NewClient(httpClient *http.Client, feedURL, incidentsURL, userAgent string) *Client {
	return &Client{
		httpClient:   httpClient,
		feedURL:      feedURL,
		incidentsURL: incidentsURL,
		userAgent:    userAgent,
	}
}

type feedResponse struct {
	Items []feed.Item `json:"items"`
}

// GetFeed fetches the aggregated feed payload.
func (c *Client) GetFeed(ctx context.Context) ([]feed.Item, error) {
	data, err := c.fetch(ctx, c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	var resp feedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	return resp.Items, nil
}

// GetIncidents fetches the incidents payload.
func (c *Client) GetIncidents(ctx context.Context) ([]feed.Item, error) {
	data, err := c.fetch(ctx, c.incidentsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incidents: %w", err)
	}

	var items []feed.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode incidents response: %w", err)
	}

	for i := range items {
		if items[i].Source == "" {
			items[i].Source = feed.SourceCloudIncidents
		}
	}

	return items, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
