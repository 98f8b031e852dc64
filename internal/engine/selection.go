package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

// selectedActions decides which actions an apply commits.
// Batches without partial apply always commit every action. Otherwise
// explicit ids win over the stored selection; both must be non-empty and
// name actions of the batch.
func selectedActions(st *state.PreviewState, b preview.Batch, explicit []string) ([]string, error) {
	if !b.AllowPartialApply {
		return b.ActionIDs(), nil
	}

	ids := explicit
	if ids == nil {
		ids = st.SelectionFor(b)
	}
	for _, id := range ids {
		if !b.HasAction(id) {
			return nil, fmt.Errorf("%w: action %s is not in batch %s", ErrValidation, id, b.ID)
		}
	}

	// Keep batch order and drop repeats.
	ordered := make([]string, 0, len(ids))
	for _, id := range b.ActionIDs() {
		if slices.Contains(ids, id) {
			ordered = append(ordered, id)
		}
	}
	if len(ordered) == 0 {
		return nil, fmt.Errorf("%w: batch %s", ErrNoSelection, b.ID)
	}
	return ordered, nil
}

// SelectAction toggles an action in the batch's partial-apply selection and
// returns the resulting selection.
func (m *Manager) SelectAction(ctx context.Context, batchID, actionID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var selection []string
	err := m.mutate(func(st *state.PreviewState) (func(), error) {
		b, _, _, ok := locate(st, batchID)
		if !ok {
			return nil, fmt.Errorf("%w: batch %s is not pending", ErrNotFound, batchID)
		}
		if !b.AllowPartialApply {
			return nil, fmt.Errorf("%w: batch %s", ErrPartialNotAllowed, batchID)
		}
		if !b.HasAction(actionID) {
			return nil, fmt.Errorf("%w: action %s is not in batch %s", ErrValidation, actionID, batchID)
		}

		current := st.SelectionFor(b)
		if i := slices.Index(current, actionID); i >= 0 {
			current = slices.Delete(current, i, i+1)
		} else {
			current = append(current, actionID)
		}
		st.SetSelection(b, current)
		selection = st.SelectionFor(b)

		m.logger.Debug().
			Str("batch_id", batchID).
			Str("action_id", actionID).
			Strs("selection", selection).
			Msg("selection changed")
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return selection, nil
}

// Selection returns the batch's current selection; every action is selected
// until the user toggles one.
func (m *Manager) Selection(batchID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, _, _, ok := locate(m.state, batchID)
	if !ok {
		return nil, fmt.Errorf("%w: batch %s is not pending", ErrNotFound, batchID)
	}
	return m.state.SelectionFor(b), nil
}

// SelectBatch focuses a pending batch or alternative. An empty id clears the
// focus.
func (m *Manager) SelectBatch(ctx context.Context, batchID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.mutate(func(st *state.PreviewState) (func(), error) {
		if batchID != "" {
			if _, _, _, ok := locate(st, batchID); !ok {
				return nil, fmt.Errorf("%w: batch %s is not pending", ErrNotFound, batchID)
			}
		}
		st.SelectedBatchID = batchID
		return nil, nil
	})
}
