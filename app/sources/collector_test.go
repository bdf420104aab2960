package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cloudpulse/app/channels"
	"cloudpulse/app/feed"
)

const collectorSampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Updates</title>
<item>
<title>First update</title>
<link>https://example.com/1</link>
<guid>item-1</guid>
<pubDate>Mon, 02 Feb 2026 10:00:00 GMT</pubDate>
<description>First description</description>
</item>
<item>
<title>Second update</title>
<link>https://example.com/2</link>
<guid>item-2</guid>
<pubDate>Tue, 03 Feb 2026 10:00:00 GMT</pubDate>
<description>Second description</description>
</item>
</channel>
</rss>`

func writeChannelFile(t *testing.T, dir, name, url string) {
	t.Helper()
	content := fmt.Sprintf("url: %s\nsource: Security Bulletins\nkind: security\nsettings:\n  enabled: true\n  timeout: 10\n", url)
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestChannelCache(t *testing.T, dir string) *channels.Cache {
	t.Helper()
	cache := channels.NewCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}
	return cache
}

func TestCollectorCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(collectorSampleFeed))
	}))
	defer server.Close()

	dir := t.TempDir()
	writeChannelFile(t, dir, "bulletins", server.URL)

	collector := NewCollector(newTestChannelCache(t, dir), server.Client(), feed.NewParser(), feed.NewContentExtractor(), "test-agent")

	items, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	// Merged payload is sorted most recent first.
	if items[0].ID != "item-2" || items[1].ID != "item-1" {
		t.Errorf("Unexpected order: %s, %s", items[0].ID, items[1].ID)
	}
	for _, item := range items {
		if item.Source != feed.SourceSecurityBulletins {
			t.Errorf("Expected channel source stamped, got '%s'", item.Source)
		}
	}
}

func TestCollectorSkipsFailingChannel(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(collectorSampleFeed))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	dir := t.TempDir()
	writeChannelFile(t, dir, "good", good.URL)
	writeChannelFile(t, dir, "bad", bad.URL)

	collector := NewCollector(newTestChannelCache(t, dir), good.Client(), feed.NewParser(), feed.NewContentExtractor(), "test-agent")

	items, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Errorf("Expected items from the healthy channel only, got %d", len(items))
	}
}

func TestCollectorAllChannelsFailing(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	dir := t.TempDir()
	writeChannelFile(t, dir, "bad", bad.URL)

	collector := NewCollector(newTestChannelCache(t, dir), bad.Client(), feed.NewParser(), feed.NewContentExtractor(), "test-agent")

	if _, err := collector.Collect(context.Background()); err == nil {
		t.Error("Expected error when every channel fails")
	}
}

func TestCollectorNoEnabledChannels(t *testing.T) {
	dir := t.TempDir()
	content := "url: https://example.com/feed\nsource: Security Bulletins\nsettings:\n  enabled: false\n"
	if err := os.WriteFile(filepath.Join(dir, "disabled.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	collector := NewCollector(newTestChannelCache(t, dir), http.DefaultClient, feed.NewParser(), feed.NewContentExtractor(), "test-agent")

	if _, err := collector.Collect(context.Background()); err == nil {
		t.Error("Expected error when no channels are enabled")
	}
}
