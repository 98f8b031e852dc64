package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

// Dismiss rejects a pending batch.
//
// Dismissing the primary of an exclusive-choice group dismisses the whole
// group; its alternatives are recorded as discarded. Dismissing a single
// alternative removes only that option. The undo stack is untouched; a redo
// entry for the same proposal is dropped so it cannot come back.
//
// A batch that is no longer pending yields ErrNotFound and changes nothing,
// so repeated dismissals are harmless.
func (m *Manager) Dismiss(ctx context.Context, batchID string) (*DismissResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *DismissResult
	err := m.mutate(func(st *state.PreviewState) (func(), error) {
		b, group, alt, ok := locate(st, batchID)
		if !ok {
			return nil, fmt.Errorf("%w: batch %s is not pending", ErrNotFound, batchID)
		}

		now := m.clock.Now()
		var siblings []preview.Batch
		if alt < 0 {
			siblings = removeGroup(st, group, alt)
		} else {
			removeAlternative(st, group, alt)
		}

		dismissed := b.Clone()
		dismissed.Status = preview.StatusDismissed
		dismissed.DismissedAt = &now
		dismissed.AppliedAt = nil
		dismissed.Alternatives = nil
		st.Record(state.EventDismissed, dismissed, now, "")
		st.TakeRedo(batchID)
		m.metrics.Transition(string(state.EventDismissed))

		result = &DismissResult{Batch: dismissed.Clone()}
		for _, s := range siblings {
			s.Status = preview.StatusDismissed
			s.DismissedAt = &now
			st.Record(state.EventDiscarded, s, now, "group dismissed")
			st.TakeRedo(s.ID)
			m.metrics.Transition(string(state.EventDiscarded))
			result.Discarded = append(result.Discarded, s.ID)
		}

		m.logger.Info().Str("batch_id", batchID).Str("agent", b.AgentName).Msg("batch dismissed")
		return func() { m.notifier.OnDismissed(batchID) }, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// removeAlternative drops one option from a pending exclusive-choice group.
func removeAlternative(st *state.PreviewState, group, alt int) {
	primary := &st.ActiveBatches[group]
	removed := primary.Alternatives[alt]
	primary.Alternatives = append(primary.Alternatives[:alt:alt], primary.Alternatives[alt+1:]...)
	if len(primary.Alternatives) == 0 {
		primary.Alternatives = nil
		primary.RequiresUserChoice = false
	}
	delete(st.Selections, removed.ID)
	if st.SelectedBatchID == removed.ID {
		st.SelectedBatchID = ""
	}
}
