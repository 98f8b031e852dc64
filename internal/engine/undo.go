package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

// Undo reverses an applied batch.
//
// The applied record becomes undone and moves to the redo stack, and a
// pending copy of the proposal is offered again. Undo is allowed for as long
// as the batch is on the undo stack, whether or not its grace window has
// closed.
func (m *Manager) Undo(ctx context.Context, batchID string) (*UndoResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *UndoResult
	err := m.mutate(func(st *state.PreviewState) (func(), error) {
		if _, _, _, pending := locate(st, batchID); pending {
			return nil, fmt.Errorf("%w: batch %s is already pending", ErrValidation, batchID)
		}
		record, ok := st.TakeUndo(batchID)
		if !ok {
			return nil, fmt.Errorf("%w: batch %s is not on the undo stack", ErrNotFound, batchID)
		}

		now := m.clock.Now()
		reoffered := record.AsPending()

		record.Status = preview.StatusUndone
		record.AppliedAt = nil
		st.PushRedo(record)
		st.ActiveBatches = append(st.ActiveBatches, reoffered)
		st.Record(state.EventUndone, record, now, "")

		m.grace.Cancel(batchID)
		m.metrics.Transition(string(state.EventUndone))
		m.logger.Info().Str("batch_id", batchID).Msg("batch undone")

		result = &UndoResult{Record: record.Clone(), Reoffered: reoffered.Clone()}
		return func() { m.notifier.OnUndone(batchID) }, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Redo re-applies an undone batch.
//
// The pending copy offered by undo is withdrawn and the original record goes
// back onto the undo stack as applied, with a fresh apply time and a new
// grace window. The applied notification is sent again unless the settings
// turn that off.
func (m *Manager) Redo(ctx context.Context, batchID string) (*RedoResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *RedoResult
	err := m.mutate(func(st *state.PreviewState) (func(), error) {
		record, ok := st.TakeRedo(batchID)
		if !ok {
			return nil, fmt.Errorf("%w: batch %s is not on the redo stack", ErrNotFound, batchID)
		}

		now := m.clock.Now()
		st.RemoveActive(batchID)

		record.Status = preview.StatusApplied
		record.AppliedAt = &now
		if len(record.AppliedActionIDs) == 0 {
			record.AppliedActionIDs = record.ActionIDs()
		}
		st.PushUndo(record)
		st.Record(state.EventRedone, record, now, "")

		m.grace.Start(batchID, now)
		m.metrics.Transition(string(state.EventRedone))
		m.logger.Info().Str("batch_id", batchID).Msg("batch redone")

		refire := m.settings.RedoRefiresApplied
		result = &RedoResult{Batch: record.Clone(), Notified: refire}
		if !refire {
			return nil, nil
		}
		actionIDs := record.AppliedActionIDs
		return func() { m.notifier.OnApplied(batchID, actionIDs) }, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReportApplyFailed tells the engine that committing an applied batch to the
// trip store failed. The batch leaves the undo stack and is offered again as
// pending so the user can retry or dismiss it. The redo stack is untouched.
func (m *Manager) ReportApplyFailed(ctx context.Context, req *ApplyFailedRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req == nil || req.BatchID == "" {
		return fmt.Errorf("%w: batch id is required", ErrValidation)
	}

	return m.mutate(func(st *state.PreviewState) (func(), error) {
		if _, _, _, pending := locate(st, req.BatchID); pending {
			return nil, fmt.Errorf("%w: batch %s is already pending", ErrValidation, req.BatchID)
		}
		record, ok := st.TakeUndo(req.BatchID)
		if !ok {
			return nil, fmt.Errorf("%w: batch %s is not on the undo stack", ErrNotFound, req.BatchID)
		}

		now := m.clock.Now()
		st.ActiveBatches = append(st.ActiveBatches, record.AsPending())
		st.Record(state.EventApplyFailed, record, now, req.Reason)

		m.grace.Cancel(req.BatchID)
		m.metrics.Transition(string(state.EventApplyFailed))
		m.logger.Warn().Str("batch_id", req.BatchID).Str("reason", req.Reason).Msg("batch apply failed")

		return func() { m.notifier.OnApplyFailed(req.BatchID, req.Reason) }, nil
	})
}
