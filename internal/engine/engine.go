// Package engine provides the preview manager, the controller that owns the
// preview state.
//
// Every user intent (apply, dismiss, undo, redo, resolve, select) goes
// through the Manager, which serializes mutations behind a mutex, keeps the
// undo grace countdowns, records metrics and notifies the trip store.
//
// Key components:
//   - Manager: owns the PreviewState and dispatches intents
//   - Handlers: the fixed record of callbacks handed to the UI
//   - Selection: per-batch action selection for partial apply
//
// Failed operations return a sentinel error from errors.go and leave the
// state untouched. Notifications are sent after the lock is released.
package engine

import (
	"sync"

	"github.com/danieljhkim/previewdeck/internal/clock"
	"github.com/danieljhkim/previewdeck/internal/config"
	"github.com/danieljhkim/previewdeck/internal/grace"
	"github.com/danieljhkim/previewdeck/internal/metrics"
	"github.com/danieljhkim/previewdeck/internal/notify"
	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/resolver"
	"github.com/danieljhkim/previewdeck/internal/state"
	"github.com/rs/zerolog"
)

// Manager orchestrates the preview lifecycle.
// It is the only mutation path for the preview state.
type Manager struct {
	mu    sync.Mutex
	state *state.PreviewState

	clock         clock.Clock
	settings      config.Settings
	logger        zerolog.Logger
	notifier      notify.Notifier
	metrics       *metrics.Metrics
	resolver      *resolver.Resolver
	grace         *grace.Scheduler
	graceListener grace.Listener

	handlers Handlers
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for timestamps and grace windows.
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) { m.clock = clk }
}

// WithSettings sets the grace window, tick and undo limit.
func WithSettings(s config.Settings) Option {
	return func(m *Manager) { m.settings = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithNotifier sets the outbound notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithGraceListener receives countdown ticks for applied batches.
func WithGraceListener(l grace.Listener) Option {
	return func(m *Manager) { m.graceListener = l }
}

// New creates a Manager with an empty state.
func New(opts ...Option) *Manager {
	m := &Manager{
		clock:    &clock.RealClock{},
		settings: config.DefaultSettings(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = metrics.New()
	}
	m.logger = m.logger.With().Str("component", "engine").Logger()
	m.notifier = notify.Guard(m.notifier, m.logger)
	m.resolver = resolver.New()
	m.grace = grace.NewScheduler(m.clock,
		grace.WithWindow(m.settings.GraceWindow),
		grace.WithTick(m.settings.GraceTick),
		grace.WithListener(m.graceListener),
		grace.WithLogger(m.logger),
	)
	m.state = state.NewPreviewState(m.settings.UndoLimit)
	m.handlers = m.newHandlers()
	m.recordDepths()
	return m
}

// Metrics returns the manager's collectors.
func (m *Manager) Metrics() *metrics.Metrics {
	return m.metrics
}

// Settings returns the settings the manager was built with.
func (m *Manager) Settings() config.Settings {
	return m.settings
}

// mutate runs fn under the lock. The follow-up it returns, typically
// notifications, runs after the lock is released and only on success.
func (m *Manager) mutate(fn func(st *state.PreviewState) (func(), error)) error {
	m.mu.Lock()
	after, err := fn(m.state)
	if err == nil {
		m.recordDepths()
	}
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if after != nil {
		after()
	}
	return nil
}

// recordDepths must be called with the lock held.
func (m *Manager) recordDepths() {
	c := m.state.Counts()
	m.metrics.Depths(c.Active, c.Undo, c.Redo)
}

// locate finds a pending batch by id, looking inside exclusive-choice groups.
// group is the index of the owning active batch; alt is -1 for the primary.
func locate(st *state.PreviewState, batchID string) (b preview.Batch, group, alt int, ok bool) {
	if i := st.FindActive(batchID); i >= 0 {
		return st.ActiveBatches[i], i, -1, true
	}
	if g, a, found := st.FindAlternative(batchID); found {
		return st.ActiveBatches[g].Alternatives[a], g, a, true
	}
	return preview.Batch{}, -1, -1, false
}

// isKnown reports whether the id is taken: pending, on either stack, or
// retired by a dismissal.
func isKnown(st *state.PreviewState, batchID string) bool {
	if _, _, _, ok := locate(st, batchID); ok {
		return true
	}
	if st.InUndo(batchID) || st.InRedo(batchID) {
		return true
	}
	ev, ok := st.LastEvent(batchID)
	return ok && (ev == state.EventDismissed || ev == state.EventDiscarded)
}
