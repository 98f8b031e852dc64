package engine

import (
	"context"

	"github.com/danieljhkim/previewdeck/internal/resolver"
)

// Handlers is the fixed set of callbacks the UI binds to a preview card.
// Each returns the engine's error so the card can stay as it was on failure.
type Handlers struct {
	OnApply           func(batchID string, actionIDs []string) error
	OnDismiss         func(batchID string) error
	OnUndo            func(batchID string) error
	OnRedo            func(batchID string) error
	OnResolveConflict func(conflictID string, resolution resolver.Resolution) error
	OnSelectAction    func(batchID, actionID string) error
	OnSelectBatch     func(batchID string) error
}

// Handlers returns the manager's handler record. The same record is returned
// on every call.
func (m *Manager) Handlers() Handlers {
	return m.handlers
}

func (m *Manager) newHandlers() Handlers {
	ctx := context.Background()
	return Handlers{
		OnApply: func(batchID string, actionIDs []string) error {
			_, err := m.Apply(ctx, &ApplyRequest{BatchID: batchID, ActionIDs: actionIDs})
			return err
		},
		OnDismiss: func(batchID string) error {
			_, err := m.Dismiss(ctx, batchID)
			return err
		},
		OnUndo: func(batchID string) error {
			_, err := m.Undo(ctx, batchID)
			return err
		},
		OnRedo: func(batchID string) error {
			_, err := m.Redo(ctx, batchID)
			return err
		},
		OnResolveConflict: func(conflictID string, resolution resolver.Resolution) error {
			_, err := m.ResolveConflict(ctx, &ResolveRequest{ConflictID: conflictID, Resolution: resolution})
			return err
		},
		OnSelectAction: func(batchID, actionID string) error {
			_, err := m.SelectAction(ctx, batchID, actionID)
			return err
		},
		OnSelectBatch: func(batchID string) error {
			return m.SelectBatch(ctx, batchID)
		},
	}
}
