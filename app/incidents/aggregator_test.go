package incidents

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"cloudpulse/app/feed"
)

type fakeCopier struct {
	copied string
	err    error
}

func (f *fakeCopier) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = text
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(message string) {
	f.messages = append(f.messages, message)
}

func boolPtr(b bool) *bool {
	return &b
}

func newTestAggregator() (*Aggregator, *fakeCopier, *fakeNotifier) {
	copier := &fakeCopier{}
	notifier := &fakeNotifier{}
	return NewAggregator(copier, notifier), copier, notifier
}

func TestActiveOrdering(t *testing.T) {
	agg, _, _ := newTestAggregator()

	items := []feed.Item{
		{ID: "older", ISODate: "2024-05-01T00:00:00Z", IsActive: boolPtr(true)},
		{ID: "newer", ISODate: "2024-06-01T00:00:00Z", IsActive: boolPtr(true)},
		{ID: "closed", ISODate: "2024-07-01T00:00:00Z", IsActive: boolPtr(false)},
		{ID: "unset", ISODate: "2024-08-01T00:00:00Z"},
	}

	active := agg.Active(items)

	if len(active) != 2 {
		t.Fatalf("Expected 2 active incidents, got %d", len(active))
	}
	if active[0].ID != "newer" || active[1].ID != "older" {
		t.Errorf("Unexpected order: %s, %s", active[0].ID, active[1].ID)
	}
}

func TestHistoryYearWindow(t *testing.T) {
	agg, _, _ := newTestAggregator()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	items := []feed.Item{
		{ID: "current-year", ISODate: "2026-03-01T00:00:00Z", IsActive: boolPtr(false)},
		{ID: "previous-year", ISODate: "2025-11-01T00:00:00Z", IsActive: boolPtr(false)},
		{ID: "too-old", ISODate: "2024-12-31T00:00:00Z", IsActive: boolPtr(false)},
		{ID: "still-active", ISODate: "2026-04-01T00:00:00Z", IsActive: boolPtr(true)},
	}

	history := agg.History(items, now)

	if len(history) != 2 {
		t.Fatalf("Expected 2 history incidents, got %d", len(history))
	}
	if history[0].ID != "current-year" || history[1].ID != "previous-year" {
		t.Errorf("Unexpected order: %s, %s", history[0].ID, history[1].ID)
	}
}

func TestDuration(t *testing.T) {
	agg, _, _ := newTestAggregator()

	tests := []struct {
		start    string
		end      string
		expected string
	}{
		{"2024-01-01T00:00:00Z", "2024-01-01T01:30:00Z", "1h 30m"},
		{"2024-01-01T00:00:00Z", "2024-01-01T00:45:00Z", "45m"},
		{"2024-01-01T00:00:00Z", "2024-01-01T00:00:30Z", "0m"},
		{"2024-01-01T00:00:00Z", "2024-01-02T02:05:00Z", "26h 5m"},
		{"2024-01-01T01:00:00Z", "2024-01-01T00:00:00Z", "0m"},
		{"not a date", "2024-01-01T00:00:00Z", ""},
	}

	for _, tt := range tests {
		if got := agg.Duration(tt.start, tt.end); got != tt.expected {
			t.Errorf("Duration(%q, %q) = %q, expected %q", tt.start, tt.end, got, tt.expected)
		}
	}
}

func TestDurationOpenEnded(t *testing.T) {
	agg, _, _ := newTestAggregator()

	start := time.Now().Add(-90 * time.Minute).UTC().Format(time.RFC3339)
	got := agg.Duration(start, "")
	if got != "1h 30m" && got != "1h 29m" {
		t.Errorf("Expected roughly 1h 30m for open-ended duration, got %q", got)
	}
}

func TestCopyUpdateTemplate(t *testing.T) {
	agg, copier, notifier := newTestAggregator()

	item := feed.Item{
		ServiceName: "Cloud SQL",
		Severity:    "High",
		Begin:       "2026-02-01T14:30:00Z",
	}

	text, err := agg.CopyUpdateTemplate(item)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(text, "Cloud SQL") {
		t.Errorf("Expected service name in template: %q", text)
	}
	if !strings.Contains(text, "Severity: High") {
		t.Errorf("Expected severity in template: %q", text)
	}
	if copier.copied != text {
		t.Error("Expected template copied to clipboard")
	}
	if len(notifier.messages) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifier.messages))
	}
}

func TestCopyUpdateTemplateDefaults(t *testing.T) {
	agg, _, _ := newTestAggregator()

	text, err := agg.CopyUpdateTemplate(feed.Item{})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(text, "Google Cloud") {
		t.Errorf("Expected default service name: %q", text)
	}
	if !strings.Contains(text, "Severity: Unknown") {
		t.Errorf("Expected default severity: %q", text)
	}
	if !strings.Contains(text, "began at .") {
		t.Errorf("Expected empty time of day when begin is absent: %q", text)
	}
}

func TestCopyUpdateTemplateCopierFailure(t *testing.T) {
	copier := &fakeCopier{err: fmt.Errorf("no clipboard")}
	notifier := &fakeNotifier{}
	agg := NewAggregator(copier, notifier)

	if _, err := agg.CopyUpdateTemplate(feed.Item{}); err == nil {
		t.Error("Expected error when clipboard write fails")
	}
	if len(notifier.messages) != 0 {
		t.Error("Expected no notification on failed copy")
	}
}

func TestToggleExpand(t *testing.T) {
	agg, _, _ := newTestAggregator()

	if agg.ExpandedID() != "" {
		t.Errorf("Expected no initial expansion, got '%s'", agg.ExpandedID())
	}

	agg.ToggleExpand("inc-1")
	if agg.ExpandedID() != "inc-1" {
		t.Errorf("Expected 'inc-1' expanded, got '%s'", agg.ExpandedID())
	}

	agg.ToggleExpand("inc-2")
	if agg.ExpandedID() != "inc-2" {
		t.Errorf("Expected expansion to move to 'inc-2', got '%s'", agg.ExpandedID())
	}

	agg.ToggleExpand("inc-2")
	if agg.ExpandedID() != "" {
		t.Errorf("Expected toggle to collapse, got '%s'", agg.ExpandedID())
	}
}
