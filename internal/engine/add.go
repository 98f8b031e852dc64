package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

// AddBatch admits a pending batch for review.
//
// The batch must be pending, satisfy the batch invariants and use an id the
// engine does not already know. Conflicts are carried as-is. No
// notification is sent.
func (m *Manager) AddBatch(ctx context.Context, b *preview.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("%w: nil batch", ErrValidation)
	}
	if b.Status != preview.StatusPending {
		return fmt.Errorf("%w: batch %s has status %s, want pending", ErrValidation, b.ID, b.Status)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return m.mutate(func(st *state.PreviewState) (func(), error) {
		ids := append([]string{b.ID}, alternativeIDs(*b)...)
		for _, id := range ids {
			if isKnown(st, id) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicate, id)
			}
		}

		st.ActiveBatches = append(st.ActiveBatches, b.Clone())
		m.metrics.Transition("proposed")
		m.logger.Debug().
			Str("batch_id", b.ID).
			Str("agent", b.AgentName).
			Int("actions", len(b.Actions)).
			Int("alternatives", len(b.Alternatives)).
			Msg("batch proposed")
		return nil, nil
	})
}

func alternativeIDs(b preview.Batch) []string {
	ids := make([]string, len(b.Alternatives))
	for i, alt := range b.Alternatives {
		ids[i] = alt.ID
	}
	return ids
}
