package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"cloudpulse/app/cache"
)

// RefreshIncidentsTask warms the incidents payload.
type RefreshIncidentsTask struct {
	Task
	store *cache.Store
	load  cache.LoadFunc
}

func NewRefreshIncidentsTask(store *cache.Store, load cache.LoadFunc) *RefreshIncidentsTask {
	return &RefreshIncidentsTask{
		Task:  NewTask(TaskTypeRefreshIncidents, cache.KeyIncidents),
		store: store,
		load:  load,
	}
}

func (t *RefreshIncidentsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.store.Get(ctx, cache.KeyIncidents, t.load)
	if err != nil {
		return fmt.Errorf("failed to refresh incidents: %w", err)
	}

	slog.Info("Task completed", "type", "RefreshIncidents", "duration", t.GetDuration(), "items", len(items))

	return nil
}
