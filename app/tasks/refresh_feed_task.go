package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"cloudpulse/app/cache"
)

// RefreshFeedTask warms the shared feed payload. The store skips the fetch
// when the entry is still fresh, so running the task on every tick is cheap.
type RefreshFeedTask struct {
	Task
	store *cache.Store
	load  cache.LoadFunc
}

func NewRefreshFeedTask(store *cache.Store, load cache.LoadFunc) *RefreshFeedTask {
	return &RefreshFeedTask{
		Task:  NewTask(TaskTypeRefreshFeed, cache.KeyFeed),
		store: store,
		load:  load,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.store.Get(ctx, cache.KeyFeed, t.load)
	if err != nil {
		return fmt.Errorf("failed to refresh feed: %w", err)
	}

	slog.Info("Task completed", "type", "RefreshFeed", "duration", t.GetDuration(), "items", len(items))

	return nil
}
