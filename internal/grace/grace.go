// Package grace tracks the per-batch undo grace window that follows an apply.
//
// The window is advisory: when it closes the user interface stops offering
// undo, but nothing is evicted from the undo stack. Remaining time is always
// derived from the clock and the apply time, so a countdown is correct even
// when no ticker is running.
package grace

import (
	"math"
	"sync"
	"time"

	"github.com/danieljhkim/previewdeck/internal/clock"
	"github.com/rs/zerolog"
)

const (
	// DefaultWindow is how long undo is offered after apply.
	DefaultWindow = 5 * time.Second

	// DefaultTick is how often a running countdown reports.
	DefaultTick = time.Second
)

// Tick reports the state of one countdown.
type Tick struct {
	BatchID          string        `json:"batchId"`
	Remaining        time.Duration `json:"remaining"`
	SecondsRemaining int           `json:"secondsRemaining"`
	Expired          bool          `json:"expired"`
}

// Listener receives countdown ticks. It is called from the countdown's
// goroutine.
type Listener func(Tick)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWindow sets the grace window length.
func WithWindow(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithTick sets the tick interval. Zero disables background countdowns.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		if d >= 0 {
			s.tick = d
		}
	}
}

// WithListener registers the tick listener.
func WithListener(l Listener) Option {
	return func(s *Scheduler) { s.listener = l }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

type countdown struct {
	appliedAt time.Time
	done      chan struct{}
}

// Scheduler owns one independent countdown per applied batch.
type Scheduler struct {
	clock    clock.Clock
	window   time.Duration
	tick     time.Duration
	listener Listener
	logger   zerolog.Logger

	mu         sync.Mutex
	countdowns map[string]*countdown
	wg         sync.WaitGroup
}

// NewScheduler creates a Scheduler with the default window and tick.
func NewScheduler(clk clock.Clock, opts ...Option) *Scheduler {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	s := &Scheduler{
		clock:      clk,
		window:     DefaultWindow,
		tick:       DefaultTick,
		logger:     zerolog.Nop(),
		countdowns: make(map[string]*countdown),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Window returns the configured window length.
func (s *Scheduler) Window() time.Duration {
	return s.window
}

// Start begins the countdown for a batch applied at appliedAt, replacing any
// countdown already running for it.
func (s *Scheduler) Start(batchID string, appliedAt time.Time) {
	cd := &countdown{appliedAt: appliedAt, done: make(chan struct{})}

	s.mu.Lock()
	if prev, ok := s.countdowns[batchID]; ok {
		close(prev.done)
		delete(s.countdowns, batchID)
	}
	if s.tick == 0 {
		s.pruneLocked()
	}
	s.countdowns[batchID] = cd
	s.mu.Unlock()

	if s.tick > 0 {
		s.wg.Add(1)
		go s.run(batchID, cd)
	}
}

// Cancel stops the batch's countdown. It reports whether one was running.
func (s *Scheduler) Cancel(batchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cd, ok := s.countdowns[batchID]
	if !ok {
		return false
	}
	close(cd.done)
	delete(s.countdowns, batchID)
	return true
}

// Remaining returns how much of the batch's window is left, or zero when no
// countdown is tracked.
func (s *Scheduler) Remaining(batchID string) time.Duration {
	s.mu.Lock()
	cd, ok := s.countdowns[batchID]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return s.remaining(cd)
}

// Active reports whether undo should still be offered for the batch.
func (s *Scheduler) Active(batchID string) bool {
	return s.Remaining(batchID) > 0
}

// Stop cancels every countdown and waits for their goroutines to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, cd := range s.countdowns {
		close(cd.done)
		delete(s.countdowns, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) remaining(cd *countdown) time.Duration {
	rem := s.window - s.clock.Now().Sub(cd.appliedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// pruneLocked drops countdowns whose window has closed. Without a ticker
// nothing else removes them.
func (s *Scheduler) pruneLocked() {
	for id, cd := range s.countdowns {
		if s.remaining(cd) == 0 {
			close(cd.done)
			delete(s.countdowns, id)
		}
	}
}

func (s *Scheduler) run(batchID string, cd *countdown) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		rem := s.remaining(cd)
		if rem == 0 {
			s.expire(batchID, cd)
			return
		}
		s.emit(Tick{BatchID: batchID, Remaining: rem, SecondsRemaining: Seconds(rem)})

		select {
		case <-cd.done:
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) expire(batchID string, cd *countdown) {
	s.mu.Lock()
	current, ok := s.countdowns[batchID]
	if !ok || current != cd {
		s.mu.Unlock()
		return
	}
	delete(s.countdowns, batchID)
	s.mu.Unlock()

	s.logger.Debug().Str("batch_id", batchID).Msg("grace window closed")
	s.emit(Tick{BatchID: batchID, Expired: true})
}

func (s *Scheduler) emit(t Tick) {
	if s.listener == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("batch_id", t.BatchID).Interface("panic", r).Msg("grace listener panicked")
		}
	}()
	s.listener(t)
}

// Seconds rounds a remaining duration up to whole seconds for display.
func Seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
