package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"cloudpulse/app/cache"
	"cloudpulse/app/eos"
	"cloudpulse/app/feed"
)

// SynthesizeEOSTask warms the end-of-support payload. The synthesizer never
// fails; an empty result this cycle is cached like any other payload.
type SynthesizeEOSTask struct {
	Task
	store       *cache.Store
	synthesizer *eos.Synthesizer
}

func NewSynthesizeEOSTask(store *cache.Store, synthesizer *eos.Synthesizer) *SynthesizeEOSTask {
	return &SynthesizeEOSTask{
		Task:        NewTask(TaskTypeSynthesizeEOS, cache.KeyEOS),
		store:       store,
		synthesizer: synthesizer,
	}
}

func (t *SynthesizeEOSTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.store.Get(ctx, cache.KeyEOS, func(loadCtx context.Context) ([]feed.Item, error) {
		return t.synthesizer.Run(loadCtx), nil
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize end-of-support items: %w", err)
	}

	slog.Info("Task completed", "type", "SynthesizeEOS", "duration", t.GetDuration(), "items", len(items))

	return nil
}
