package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cloudpulse/app/channels"
	"cloudpulse/app/feed"
)

// Collector aggregates the configured channels directly when no remote feed
// API is available. Each channel is fetched and parsed independently; a
// failing channel is logged and skipped so one broken upstream does not take
// down the whole payload.
type Collector struct {
	channelCache     *channels.Cache
	httpClient       *http.Client
	parser           *feed.Parser
	contentExtractor *feed.ContentExtractor
	userAgent        string
}

func NewCollector(channelCache *channels.Cache, httpClient *http.Client, parser *feed.Parser,
	contentExtractor *feed.ContentExtractor, userAgent string) *Collector {
	return &Collector{
		channelCache:     channelCache,
		httpClient:       httpClient,
		parser:           parser,
		contentExtractor: contentExtractor,
		userAgent:        userAgent,
	}
}

// Collect fetches every enabled channel and returns the merged payload
// sorted by date descending.
func (c *Collector) Collect(ctx context.Context) ([]feed.Item, error) {
	enabled := c.channelCache.GetEnabledChannels()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no enabled channels configured")
	}

	var merged []feed.Item
	failed := 0

	for _, channel := range enabled {
		items, err := c.collectChannel(ctx, channel)
		if err != nil {
			slog.Warn("Channel collection failed, skipping", "channel", channel.Name, "error", err)
			failed++
			continue
		}
		merged = append(merged, items...)
	}

	if failed == len(enabled) {
		return nil, fmt.Errorf("all %d channels failed", failed)
	}

	return feed.SortByDateDesc(merged), nil
}

func (c *Collector) collectChannel(ctx context.Context, channel *channels.Channel) ([]feed.Item, error) {
	data, err := c.fetch(ctx, channel.URL, channel.Settings.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel: %w", err)
	}

	items, err := c.parser.Run(data, channel.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel: %w", err)
	}

	if channel.Settings.ExtractContent {
		c.backfillContent(ctx, channel, items)
	}

	slog.Debug("Channel collected", "channel", channel.Name, "items", len(items))

	return items, nil
}

// backfillContent fills empty item content from the linked page. Extraction
// is best effort; a miss leaves the item untouched.
func (c *Collector) backfillContent(ctx context.Context, channel *channels.Channel, items []feed.Item) {
	for i := range items {
		if items[i].Content != "" || items[i].Link == "" {
			continue
		}

		page, err := c.fetch(ctx, items[i].Link, channel.Settings.Timeout)
		if err != nil {
			slog.Debug("Content page fetch failed", "channel", channel.Name, "link", items[i].Link, "error", err)
			continue
		}

		snippet, err := c.contentExtractor.Run(page)
		if err != nil {
			slog.Debug("Content extraction failed", "channel", channel.Name, "link", items[i].Link, "error", err)
			continue
		}

		items[i].Content = snippet
		if items[i].ContentSnippet == "" {
			items[i].ContentSnippet = snippet
		}
	}
}

func (c *Collector) fetch(ctx context.Context, url string, timeoutSeconds int) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

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
