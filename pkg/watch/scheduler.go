package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultWindow is the debounce window used when none is configured
const DefaultWindow = 300 * time.Millisecond

// Scheduler debounces events into batches
type Scheduler struct {
	window  time.Duration
	trigger func(Batch)

	mu          sync.Mutex
	pending     map[string]struct{}
	structural  bool
	timer       *time.Timer
	generation  uint64
	stopped     bool
	ignoreFiles map[string]struct{}

	// runMu keeps trigger calls sequential
	runMu  sync.Mutex
	logger zerolog.Logger
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithIgnoreFiles names files whose changes make a batch structural
func WithIgnoreFiles(names ...string) SchedulerOption {
	return func(s *Scheduler) {
		for _, n := range names {
			s.ignoreFiles[n] = struct{}{}
		}
	}
}

// NewScheduler creates a scheduler calling trigger after window of quiet.
// A non-positive window uses DefaultWindow.
func NewScheduler(window time.Duration, trigger func(Batch), opts ...SchedulerOption) *Scheduler {
	if window <= 0 {
		window = DefaultWindow
	}
	s := &Scheduler{
		window:      window,
		trigger:     trigger,
		pending:     make(map[string]struct{}),
		ignoreFiles: make(map[string]struct{}),
		logger:      logging.GetLogger("watch"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify records ev and restarts the debounce timer
func (s *Scheduler) Notify(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.pending[ev.Path] = struct{}{}
	if ev.Kind.Structural() {
		s.structural = true
	}
	if _, ok := s.ignoreFiles[filepath.Base(ev.Path)]; ok {
		s.structural = true
	}

	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, func() { s.fire(gen) })

	s.logger.Trace().Str("path", ev.Path).Stringer("kind", ev.Kind).Int("pending", len(s.pending)).Msg("Change queued")
}

// Pending returns the number of paths waiting for the window to close
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush triggers the pending batch immediately
func (s *Scheduler) Flush() {
	s.mu.Lock()
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	batch, ok := s.take()
	s.mu.Unlock()

	if ok {
		s.run(batch)
	}
}

// Stop discards pending changes and ignores further events
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = make(map[string]struct{})
	s.structural = false
}

// Run feeds events from ch until ctx is done or ch is closed. A closed
// channel flushes what is pending; cancellation discards it.
func (s *Scheduler) Run(ctx context.Context, ch <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				s.Flush()
				return nil
			}
			s.Notify(ev)
		}
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	batch, ok := s.take()
	s.mu.Unlock()

	if ok {
		s.run(batch)
	}
}

// take empties the pending set. Callers hold mu.
func (s *Scheduler) take() (Batch, bool) {
	if len(s.pending) == 0 {
		return Batch{}, false
	}
	paths := make([]string, 0, len(s.pending))
	for p := range s.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	batch := Batch{Paths: paths, Structural: s.structural}
	s.pending = make(map[string]struct{})
	s.structural = false
	return batch, true
}

func (s *Scheduler) run(batch Batch) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.logger.Debug().Int("paths", len(batch.Paths)).Bool("structural", batch.Structural).Msg("Triggering batch")
	if s.trigger != nil {
		s.trigger(batch)
	}
}
