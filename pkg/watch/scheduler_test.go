// pkg/watch/scheduler_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test debounce batching, coalescing and cancellation

package watch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/codeguard/pkg/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	batches []watch.Batch
}

func (r *recorder) trigger(b watch.Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, b)
}

func (r *recorder) snapshot() []watch.Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]watch.Batch(nil), r.batches...)
}

func TestScheduler_CoalescesWithinWindow(t *testing.T) {
	rec := &recorder{}
	s := watch.NewScheduler(50*time.Millisecond, rec.trigger)

	s.Notify(watch.Event{Path: "b.go", Kind: watch.EventWrite})
	s.Notify(watch.Event{Path: "a.go", Kind: watch.EventWrite})
	s.Notify(watch.Event{Path: "b.go", Kind: watch.EventWrite})

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	batch := rec.snapshot()[0]
	assert.Equal(t, []string{"a.go", "b.go"}, batch.Paths)
	assert.False(t, batch.Structural)

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1, "no stale timer fires")
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_EventRestartsTimer(t *testing.T) {
	rec := &recorder{}
	s := watch.NewScheduler(80*time.Millisecond, rec.trigger)

	for i := 0; i < 5; i++ {
		s.Notify(watch.Event{Path: "a.go", Kind: watch.EventWrite})
		time.Sleep(30 * time.Millisecond)
	}
	assert.Empty(t, rec.snapshot(), "window restarts on every event")

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StructuralBatches(t *testing.T) {
	tests := []struct {
		name  string
		event watch.Event
		want  bool
	}{
		{"write", watch.Event{Path: "a.go", Kind: watch.EventWrite}, false},
		{"create", watch.Event{Path: "a.go", Kind: watch.EventCreate}, true},
		{"remove", watch.Event{Path: "a.go", Kind: watch.EventRemove}, true},
		{"rename", watch.Event{Path: "a.go", Kind: watch.EventRename}, true},
		{"ignore_file_write", watch.Event{Path: "src/.codeguardignore", Kind: watch.EventWrite}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := watch.NewScheduler(time.Hour, rec.trigger, watch.WithIgnoreFiles(".codeguardignore"))
			s.Notify(tt.event)
			s.Flush()

			batches := rec.snapshot()
			require.Len(t, batches, 1)
			assert.Equal(t, tt.want, batches[0].Structural)
		})
	}
}

func TestScheduler_FlushAndStop(t *testing.T) {
	rec := &recorder{}
	s := watch.NewScheduler(time.Hour, rec.trigger)

	s.Flush()
	assert.Empty(t, rec.snapshot(), "empty flush does not trigger")

	s.Notify(watch.Event{Path: "a.go"})
	s.Stop()
	s.Notify(watch.Event{Path: "b.go"})
	s.Flush()
	assert.Empty(t, rec.snapshot())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_Run(t *testing.T) {
	t.Run("closed_channel_flushes", func(t *testing.T) {
		rec := &recorder{}
		s := watch.NewScheduler(time.Hour, rec.trigger)
		ch := make(chan watch.Event, 2)
		ch <- watch.Event{Path: "a.go"}
		ch <- watch.Event{Path: "a.go"}
		close(ch)

		require.NoError(t, s.Run(context.Background(), ch))
		batches := rec.snapshot()
		require.Len(t, batches, 1)
		assert.Equal(t, []string{"a.go"}, batches[0].Paths)
	})

	t.Run("cancel_discards", func(t *testing.T) {
		rec := &recorder{}
		s := watch.NewScheduler(time.Hour, rec.trigger)
		ch := make(chan watch.Event, 1)
		ch <- watch.Event{Path: "a.go"}

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- s.Run(ctx, ch) }()

		assert.Eventually(t, func() bool { return s.Pending() == 1 }, time.Second, 5*time.Millisecond)
		cancel()
		assert.ErrorIs(t, <-errc, context.Canceled)
		assert.Empty(t, rec.snapshot())
	})
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "write", watch.EventWrite.String())
	assert.Equal(t, "rename", watch.EventRename.String())
	assert.False(t, watch.EventWrite.Structural())
	assert.True(t, watch.EventCreate.Structural())
}
