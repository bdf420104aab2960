package feed

import (
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Google Cloud Security Bulletins</title>
    <link>https://cloud.google.com/support/bulletins</link>
    <item>
      <guid>bulletin-gcp-2024-001</guid>
      <title>GCP-2024-001</title>
      <link>https://cloud.google.com/support/bulletins#gcp-2024-001</link>
      <description>A vulnerability was discovered.</description>
      <pubDate>Mon, 03 Jun 2024 10:00:00 GMT</pubDate>
      <category>Security</category>
      <category>Security</category>
    </item>
    <item>
      <title>GCP-2024-002</title>
      <link>https://cloud.google.com/support/bulletins#gcp-2024-002</link>
      <description>Another bulletin.</description>
      <pubDate>Tue, 04 Jun 2024 09:30:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestParserRun(t *testing.T) {
	parser := NewParser()

	items, err := parser.Run([]byte(sampleRSS), SourceSecurityBulletins)
	if err != nil {
		t.Fatal(err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.ID != "bulletin-gcp-2024-001" {
		t.Errorf("Expected GUID as id, got '%s'", first.ID)
	}
	if first.Source != SourceSecurityBulletins {
		t.Errorf("Expected source label stamped, got '%s'", first.Source)
	}
	if first.ISODate != "2024-06-03T10:00:00Z" {
		t.Errorf("Expected RFC3339 ISO date, got '%s'", first.ISODate)
	}
	if first.ContentSnippet != "A vulnerability was discovered." {
		t.Errorf("Expected description as snippet, got '%s'", first.ContentSnippet)
	}
	if len(first.Categories) != 1 {
		t.Errorf("Expected duplicate categories removed, got %v", first.Categories)
	}

	// Items without a GUID fall back to the link.
	if items[1].ID != "https://cloud.google.com/support/bulletins#gcp-2024-002" {
		t.Errorf("Expected link as fallback id, got '%s'", items[1].ID)
	}
}

func TestParserInvalidData(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Run([]byte("not a feed"), SourceSecurityBulletins); err == nil {
		t.Error("Expected error for unparsable feed data")
	}
}

func TestSortByDateDesc(t *testing.T) {
	items := []Item{
		{ID: "a", ISODate: "2024-05-01T00:00:00Z"},
		{ID: "b", ISODate: "2024-06-01T00:00:00Z"},
		{ID: "c", ISODate: "garbage"},
	}

	sorted := SortByDateDesc(items)

	if sorted[0].ID != "b" || sorted[1].ID != "a" {
		t.Errorf("Expected most recent first, got %v", []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	}
	if sorted[2].ID != "c" {
		t.Errorf("Expected unparsable date last, got '%s'", sorted[2].ID)
	}

	// Input order untouched.
	if items[0].ID != "a" {
		t.Error("SortByDateDesc must not modify its input")
	}
}

func TestParseISODate(t *testing.T) {
	if _, ok := ParseISODate("2026-01-01"); !ok {
		t.Error("Expected bare date to parse")
	}
	if _, ok := ParseISODate("2024-06-03T10:00:00Z"); !ok {
		t.Error("Expected RFC3339 timestamp to parse")
	}
	if _, ok := ParseISODate("next tuesday"); ok {
		t.Error("Expected garbage to fail parsing")
	}
}
