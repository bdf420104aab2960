package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloudpulse/app/cache"
	"cloudpulse/app/feed"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask(TaskTypeRefreshFeed, cache.KeyFeed)

	if task.ID == "" {
		t.Error("Expected generated task id")
	}
	if task.GetType() != TaskTypeRefreshFeed {
		t.Errorf("Unexpected type '%s'", task.GetType())
	}
	if task.GetKey() != cache.KeyFeed {
		t.Errorf("Unexpected key '%s'", task.GetKey())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Unexpected max retries %d", task.GetMaxRetries())
	}

	other := NewTask(TaskTypeRefreshFeed, cache.KeyFeed)
	if task.ID == other.ID {
		t.Error("Expected unique task ids")
	}
}

func TestTaskRetryMechanics(t *testing.T) {
	task := NewTask(TaskTypeRefreshIncidents, cache.KeyIncidents)

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry available at count %d", task.GetRetryCount())
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Error("Expected retries exhausted")
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeSynthesizeEOS, cache.KeyEOS)

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}

	task.Start()
	time.Sleep(5 * time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after start")
	}
}

func TestRefreshFeedTaskExecute(t *testing.T) {
	store := cache.NewStore(time.Minute, time.Minute, nil)

	calls := 0
	load := func(ctx context.Context) ([]feed.Item, error) {
		calls++
		return []feed.Item{{ID: "a"}}, nil
	}

	task := NewRefreshFeedTask(store, load)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 load, got %d", calls)
	}

	// The warmed entry serves subsequent reads without another fetch.
	items, err := store.Get(context.Background(), cache.KeyFeed, load)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || calls != 1 {
		t.Errorf("Expected warmed payload reused, items=%d calls=%d", len(items), calls)
	}
}

func TestRefreshFeedTaskExecuteFailure(t *testing.T) {
	store := cache.NewStore(time.Minute, time.Minute, nil)

	load := func(ctx context.Context) ([]feed.Item, error) {
		return nil, fmt.Errorf("upstream down")
	}

	task := NewRefreshFeedTask(store, load)
	task.Start()

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when refresh fails with nothing cached")
	}
}

func TestRefreshFeedTaskCancelledContext(t *testing.T) {
	store := cache.NewStore(time.Minute, time.Minute, nil)

	task := NewRefreshFeedTask(store, func(ctx context.Context) ([]feed.Item, error) {
		t.Error("Load must not run for a cancelled task")
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := task.Execute(ctx); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
