package incidents

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"cloudpulse/app/feed"
)

const defaultServiceName = "Google Cloud"

// Copier writes text to the system clipboard.
type Copier interface {
	WriteAll(text string) error
}

// Notifier surfaces a user-visible message after a successful copy.
type Notifier interface {
	Notify(message string)
}

// ClipboardCopier is the production Copier backed by the OS clipboard.
type ClipboardCopier struct{}

func (ClipboardCopier) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// LogNotifier reports copy notifications through the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	slog.Info("Notification", "message", message)
}

// Aggregator derives the incident views and owns the single piece of mutable
// presentation state: the currently expanded incident id.
type Aggregator struct {
	copier   Copier
	notifier Notifier

	mu         sync.Mutex
	expandedID string
}

func NewAggregator(copier Copier, notifier Notifier) *Aggregator {
	return &Aggregator{
		copier:   copier,
		notifier: notifier,
	}
}

// Active returns the open incidents, most recent first. The partition is a
// pure derivation of the input; nothing is retained between calls.
func (a *Aggregator) Active(items []feed.Item) []feed.Item {
	var active []feed.Item
	for _, item := range items {
		if item.Active() {
			active = append(active, item)
		}
	}
	return feed.SortByDateDesc(active)
}

// History returns resolved incidents dated in the current or previous year
// relative to now, most recent first.
func (a *Aggregator) History(items []feed.Item, now time.Time) []feed.Item {
	var history []feed.Item
	for _, item := range items {
		if item.Active() {
			continue
		}
		at, ok := item.PublishedAt()
		if !ok {
			continue
		}
		if year := at.Year(); year == now.Year() || year == now.Year()-1 {
			history = append(history, item)
		}
	}
	return feed.SortByDateDesc(history)
}

// Duration renders the elapsed time between two ISO timestamps as
// "{H}h {M}m", or "{M}m" when under an hour. An empty end means now.
// Minutes are floored; a start after the end clamps to "0m".
func (a *Aggregator) Duration(start, end string) string {
	from, ok := feed.ParseISODate(start)
	if !ok {
		return ""
	}

	to := time.Now()
	if end != "" {
		parsed, ok := feed.ParseISODate(end)
		if !ok {
			return ""
		}
		to = parsed
	}

	minutes := int(to.Sub(from).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// CopyUpdateTemplate builds the status update text for an incident, copies
// it to the clipboard and raises a success notification. The template falls
// back to "Google Cloud" when no service is named and "Unknown" when no
// severity is set; the time of day is omitted when the incident has no
// recorded start.
func (a *Aggregator) CopyUpdateTemplate(item feed.Item) (string, error) {
	service := item.ServiceName
	if service == "" {
		service = defaultServiceName
	}

	severity := item.Severity
	if severity == "" {
		severity = feed.SeverityUnknown
	}

	timeOfDay := ""
	if begin, ok := feed.ParseISODate(item.Begin); ok {
		timeOfDay = begin.In(time.Local).Format("15:04")
	}

	text := fmt.Sprintf("[%s] Severity: %s. Impact began at %s. We are investigating and will share updates as they become available.",
		service, severity, timeOfDay)

	if err := a.copier.WriteAll(text); err != nil {
		return "", fmt.Errorf("failed to copy update template: %w", err)
	}

	a.notifier.Notify("Incident update copied to clipboard")

	return text, nil
}

// ToggleExpand expands the given incident id, or collapses it when it is
// already expanded. At most one incident is expanded at a time.
func (a *Aggregator) ToggleExpand(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.expandedID == id {
		a.expandedID = ""
		return
	}
	a.expandedID = id
}

// ExpandedID returns the currently expanded incident id, or empty.
func (a *Aggregator) ExpandedID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expandedID
}
