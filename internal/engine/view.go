package engine

import (
	"time"

	"github.com/danieljhkim/previewdeck/internal/state"
)

// State returns a deep copy of the current preview state.
func (m *Manager) State() *state.PreviewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Restore replaces the state with a snapshot, typically one saved by the dev
// console. Grace countdowns restart for applied batches whose window is
// still open.
func (m *Manager) Restore(snapshot *state.PreviewState) {
	st := snapshot.Clone()
	st.Normalize()
	if m.settings.UndoLimit > 0 {
		st.UndoLimit = m.settings.UndoLimit
	}

	m.grace.Stop()

	m.mu.Lock()
	m.state = st
	now := m.clock.Now()
	for _, b := range st.UndoStack {
		if b.AppliedAt != nil && now.Sub(*b.AppliedAt) < m.grace.Window() {
			m.grace.Start(b.ID, *b.AppliedAt)
		}
	}
	m.recordDepths()
	m.mu.Unlock()

	c := st.Counts()
	m.logger.Debug().Int("active", c.Active).Int("undo", c.Undo).Int("redo", c.Redo).Msg("state restored")
}

// GraceRemaining returns how long undo is still offered for an applied
// batch, zero once the window has closed or the batch is not applied.
func (m *Manager) GraceRemaining(batchID string) time.Duration {
	return m.grace.Remaining(batchID)
}

// UndoOffered reports whether the UI should still offer undo for the batch.
// Undo itself stays callable while the batch is on the undo stack.
func (m *Manager) UndoOffered(batchID string) bool {
	m.mu.Lock()
	inUndo := m.state.InUndo(batchID)
	m.mu.Unlock()
	return inUndo && m.grace.Active(batchID)
}

// Close stops every grace countdown.
func (m *Manager) Close() {
	m.grace.Stop()
}
