package eos

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"cloudpulse/app/feed"
)

const deprecationsURL = "https://cloud.google.com/terms/deprecation"

const maxEntries = 20

// prompt instructs the model to return a bare JSON array. The output
// contract lives entirely in these instructions; the response is still
// treated as untrusted text.
const promptTemplate = `Search for Google Cloud products and services that have announced ` +
	`end-of-support, end-of-life or deprecation dates, focusing on dates in %d. ` +
	`Respond with ONLY a JSON array, no prose, no markdown fences. ` +
	`Each element must have exactly these fields: ` +
	`"title" (string), "date" (string, YYYY-MM-DD), "description" (string), ` +
	`"link" (string, may be empty), "service" (string, the product name). ` +
	`Sort ascending by date. Return at most %d elements.`

type entry struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Service     string `json:"service"`
}

// Synthesizer derives end-of-support feed items from a search-grounded
// generative response. Every failure mode resolves to an empty result; this
// channel is advisory and never blocks the rest of the feed.
type Synthesizer struct {
	generator Generator
	apiKey    string
}

func NewSynthesizer(generator Generator, apiKey string) *Synthesizer {
	return &Synthesizer{
		generator: generator,
		apiKey:    apiKey,
	}
}

// Run produces the end-of-support items for this cycle.
func (s *Synthesizer) Run(ctx context.Context) []feed.Item {
	if s.apiKey == "" {
		slog.Warn("Generative API key not configured, skipping end-of-support synthesis")
		return nil
	}

	prompt := fmt.Sprintf(promptTemplate, time.Now().Year()+1, maxEntries)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Error("End-of-support generation failed", "error", err)
		return nil
	}

	entries, err := parseEntries(text)
	if err != nil {
		slog.Error("End-of-support response parsing failed", "error", err)
		return nil
	}

	items := s.mapEntries(entries)

	slog.Debug("End-of-support items synthesized", "count", len(items))

	return items
}

// parseEntries slices the response to its outermost JSON array before
// decoding, tolerating prose the model may have wrapped around it.
func parseEntries(text string) ([]entry, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var entries []entry
	if err := json.Unmarshal([]byte(text[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	return entries, nil
}

func (s *Synthesizer) mapEntries(entries []entry) []feed.Item {
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	now := time.Now()
	stamp := now.UnixMilli()

	var items []feed.Item
	for i, e := range entries {
		if e.Title == "" {
			continue
		}

		link := e.Link
		if link == "" {
			link = deprecationsURL
		}

		active := false
		if date, ok := feed.ParseISODate(e.Date); ok {
			active = date.After(now)
		}

		items = append(items, feed.Item{
			ID:             fmt.Sprintf("eos-%d-%d", i, stamp),
			Title:          e.Title,
			Link:           link,
			ISODate:        e.Date,
			ContentSnippet: e.Description,
			Source:         feed.SourceEndOfSupport,
			Categories:     eosCategories(e.Service),
			ServiceName:    e.Service,
			IsActive:       &active,
		})
	}

	// The prompt asks for ascending order but the model is not trusted to
	// honor it; re-sort items with parseable dates.
	sort.SliceStable(items, func(a, b int) bool {
		at, aok := items[a].PublishedAt()
		bt, bok := items[b].PublishedAt()
		if aok && bok {
			return at.Before(bt)
		}
		return aok && !bok
	})

	return items
}

func eosCategories(service string) []string {
	if service == "" || service == feed.SourceEndOfSupport {
		return []string{feed.SourceEndOfSupport}
	}
	return []string{feed.SourceEndOfSupport, service}
}
