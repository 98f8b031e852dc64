package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

// Apply commits a pending batch.
//
// Algorithm:
// 1. Locate the batch among the pending batches and their alternatives
// 2. Refuse if any batch-level or action-level conflict is blocking
// 3. Resolve the action selection (whole batch unless partial apply is allowed)
// 4. Move the applied record to history and the undo stack, clear redo
// 5. Discard sibling alternatives of an exclusive-choice group
// 6. Start the grace countdown and notify the trip store
func (m *Manager) Apply(ctx context.Context, req *ApplyRequest) (*ApplyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil || req.BatchID == "" {
		return nil, fmt.Errorf("%w: batch id is required", ErrValidation)
	}

	var result *ApplyResult
	err := m.mutate(func(st *state.PreviewState) (func(), error) {
		// Step 1: Locate
		b, group, alt, ok := locate(st, req.BatchID)
		if !ok {
			return nil, fmt.Errorf("%w: batch %s is not pending", ErrNotFound, req.BatchID)
		}

		// Step 2: Gate on blocking conflicts
		if b.IsBlocking() {
			m.metrics.ApplyRejected("blocked")
			return nil, fmt.Errorf("%w: batch %s (%s)", ErrBlocked, b.ID, blockingIDs(b))
		}

		// Step 3: Selection
		actionIDs, err := selectedActions(st, b, req.ActionIDs)
		if err != nil {
			m.metrics.ApplyRejected(rejectReason(err))
			return nil, err
		}

		// Step 4: Transition
		now := m.clock.Now()
		discarded := removeGroup(st, group, alt)

		applied := b.Clone()
		applied.Status = preview.StatusApplied
		applied.AppliedAt = &now
		applied.DismissedAt = nil
		applied.AppliedActionIDs = actionIDs
		applied.Alternatives = nil

		st.Record(state.EventApplied, applied, now, "")
		evicted := st.PushUndo(applied)
		cleared := st.ClearRedo()

		// Step 5: Discard siblings
		discardedIDs := make([]string, 0, len(discarded))
		for _, d := range discarded {
			d.Status = preview.StatusDismissed
			d.DismissedAt = &now
			st.Record(state.EventDiscarded, d, now, "alternative "+applied.ID+" chosen")
			m.metrics.Transition(string(state.EventDiscarded))
			discardedIDs = append(discardedIDs, d.ID)
		}

		// Step 6: Countdown
		m.grace.Start(applied.ID, now)
		m.metrics.Transition(string(state.EventApplied))

		evictedIDs := make([]string, len(evicted))
		for i, e := range evicted {
			evictedIDs[i] = e.ID
		}

		m.logger.Info().
			Str("batch_id", applied.ID).
			Str("agent", applied.AgentName).
			Strs("actions", actionIDs).
			Int("redo_cleared", cleared).
			Msg("batch applied")

		result = &ApplyResult{
			Batch:            applied.Clone(),
			AppliedActionIDs: actionIDs,
			Discarded:        discardedIDs,
			Evicted:          evictedIDs,
			RedoCleared:      cleared,
			GraceRemaining:   m.grace.Remaining(applied.ID),
		}
		return func() { m.notifier.OnApplied(applied.ID, actionIDs) }, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// removeGroup takes the pending entry at group out of the active batches and
// returns every batch that leaves with it other than the one at alt, which
// is -1 for the primary.
func removeGroup(st *state.PreviewState, group, alt int) []preview.Batch {
	primary := st.ActiveBatches[group]
	st.RemoveActive(primary.ID)

	members := make([]preview.Batch, 0, len(primary.Alternatives)+1)
	head := primary.Clone()
	head.Alternatives = nil
	members = append(members, head)
	members = append(members, primary.Alternatives...)

	var rest []preview.Batch
	for i, b := range members {
		delete(st.Selections, b.ID)
		if st.SelectedBatchID == b.ID {
			st.SelectedBatchID = ""
		}
		if i == alt+1 {
			continue
		}
		rest = append(rest, b)
	}
	return rest
}

func blockingIDs(b preview.Batch) string {
	var ids []string
	for _, c := range b.AllConflicts() {
		if c.IsBlocking() {
			ids = append(ids, c.ID)
		}
	}
	return strings.Join(ids, ", ")
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNoSelection):
		return "no_selection"
	case errors.Is(err, ErrValidation):
		return "invalid_selection"
	default:
		return "other"
	}
}
