package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"cloudpulse/app/database"
	"cloudpulse/app/feed"
)

// Cache keys. Derived views share their base key so the underlying payload
// is fetched once and selected on read.
const (
	KeyFeed      = "feed"
	KeyIncidents = "incidents"
	KeyEOS       = "eos"
)

// maxEntries bounds the LRU; the working set is a handful of keys.
const maxEntries = 32

// LoadFunc fetches a payload from upstream. It runs at most once per key at
// a time, detached from any single caller's context.
type LoadFunc func(ctx context.Context) ([]feed.Item, error)

// Selector derives a view from a cached payload. Selections are applied on
// read and never stored.
type Selector func([]feed.Item) []feed.Item

type entry struct {
	items     []feed.Item
	fetchedAt time.Time
}

// Store is the shared access layer between the HTTP handlers, the background
// warmer and the upstream sources. Per key it holds one payload with its
// fetch time; within the freshness window reads are served from memory with
// no upstream call, concurrent refreshes collapse into a single in-flight
// load, and after staleness the entry is retained as a fallback until
// eviction.
type Store struct {
	freshFor  time.Duration
	keepFor   time.Duration
	entries   *expirable.LRU[string, entry]
	group     singleflight.Group
	snapshots database.SnapshotRepository
}

// NewStore creates a store with the given freshness window and post-staleness
// retention. The snapshot repository is optional; when present, successful
// loads are persisted and a cold start can fall back to the last-known-good
// payload.
func NewStore(freshFor, keepFor time.Duration, snapshots database.SnapshotRepository) *Store {
	return &Store{
		freshFor:  freshFor,
		keepFor:   keepFor,
		entries:   expirable.NewLRU[string, entry](maxEntries, nil, freshFor+keepFor),
		snapshots: snapshots,
	}
}

// Get returns the payload for key, loading it when no fresh entry exists.
// A caller whose context is cancelled stops waiting, but the shared load
// keeps running and its result is cached for the next consumer.
func (s *Store) Get(ctx context.Context, key string, load LoadFunc) ([]feed.Item, error) {
	if e, ok := s.entries.Get(key); ok && time.Since(e.fetchedAt) < s.freshFor {
		return e.items, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.refresh(key, load)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]feed.Item), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Select returns a derived view of the payload for key. The selection is
// computed on every read from the shared cached payload.
func (s *Store) Select(ctx context.Context, key string, load LoadFunc, selector Selector) ([]feed.Item, error) {
	items, err := s.Get(ctx, key, load)
	if err != nil {
		return nil, err
	}
	return selector(items), nil
}

func (s *Store) refresh(key string, load LoadFunc) ([]feed.Item, error) {
	// A concurrent caller may have refreshed while this one queued.
	if e, ok := s.entries.Get(key); ok && time.Since(e.fetchedAt) < s.freshFor {
		return e.items, nil
	}

	// Detached from caller contexts: a consumer going away must not cancel
	// the fetch for everyone else. Loaders apply their own timeouts.
	items, err := load(context.Background())
	if err == nil {
		fetchedAt := time.Now()
		s.entries.Add(key, entry{items: items, fetchedAt: fetchedAt})

		if s.snapshots != nil {
			if snapErr := s.snapshots.Save(key, items, fetchedAt); snapErr != nil {
				slog.Warn("Failed to persist snapshot", "key", key, "error", snapErr)
			}
		}

		return items, nil
	}

	// Stale entry within the retention window.
	if e, ok := s.entries.Get(key); ok {
		slog.Warn("Serving stale cache entry after failed refresh", "key", key, "age", time.Since(e.fetchedAt).String(), "error", err)
		return e.items, nil
	}

	// Cold start: last-known-good snapshot, whatever its age.
	if s.snapshots != nil {
		items, fetchedAt, snapErr := s.snapshots.Load(key)
		if snapErr != nil {
			slog.Warn("Snapshot fallback failed", "key", key, "error", snapErr)
		} else if items != nil && fetchedAt != nil {
			slog.Warn("Serving snapshot after failed refresh", "key", key, "age", time.Since(*fetchedAt).String(), "error", err)
			s.entries.Add(key, entry{items: items, fetchedAt: *fetchedAt})
			return items, nil
		}
	}

	return nil, err
}
