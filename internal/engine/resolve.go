package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/resolver"
	"github.com/danieljhkim/previewdeck/internal/state"
)

// ResolveConflict settles a conflict across every pending batch.
// Batches left without actions by a skip are dismissed.
func (m *Manager) ResolveConflict(ctx context.Context, req *ResolveRequest) (*ResolveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil || req.ConflictID == "" {
		return nil, fmt.Errorf("%w: conflict id is required", ErrValidation)
	}

	var result *ResolveResult
	err := m.mutate(func(st *state.PreviewState) (func(), error) {
		next, out, err := m.resolver.Resolve(st, req.ConflictID, req.Resolution)
		if err != nil {
			return nil, err
		}

		dismissed := m.dismissEmptied(next, out.Emptied)
		m.state = next
		m.metrics.ConflictResolved(string(out.Strategy))
		m.logger.Info().
			Str("conflict_id", out.ConflictID).
			Str("strategy", string(out.Strategy)).
			Strs("batches", out.BatchIDs).
			Strs("dropped", out.DroppedActionIDs).
			Msg("conflict resolved")

		result = &ResolveResult{Outcome: out, Dismissed: dismissed}
		return func() {
			for _, id := range dismissed {
				m.notifier.OnDismissed(id)
			}
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AutoResolve resolves every auto-resolvable conflict of a pending batch with
// the adjust strategy. Conflicts are handled independently; failures are
// reported in the result and do not stop the rest.
func (m *Manager) AutoResolve(ctx context.Context, batchID string) (*resolver.AutoResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *resolver.AutoResult
	err := m.mutate(func(st *state.PreviewState) (func(), error) {
		next, res, err := m.resolver.AutoResolve(st, batchID)
		if err != nil {
			if errors.Is(err, resolver.ErrBatchNotFound) {
				return nil, fmt.Errorf("%w: batch %s is not pending", ErrNotFound, batchID)
			}
			return nil, err
		}

		m.state = next
		for _, out := range res.Resolved {
			m.metrics.ConflictResolved(string(out.Strategy))
		}
		m.logger.Info().
			Str("batch_id", batchID).
			Int("resolved", len(res.Resolved)).
			Int("failed", len(res.Failed)).
			Msg("auto-resolve finished")

		result = res
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// dismissEmptied records batches emptied by a resolution as dismissed.
func (m *Manager) dismissEmptied(st *state.PreviewState, emptied []preview.Batch) []string {
	if len(emptied) == 0 {
		return nil
	}
	now := m.clock.Now()
	ids := make([]string, 0, len(emptied))
	for _, b := range emptied {
		b.Status = preview.StatusDismissed
		b.DismissedAt = &now
		st.Record(state.EventDismissed, b, now, "no actions left after conflict resolution")
		st.TakeRedo(b.ID)
		m.metrics.Transition(string(state.EventDismissed))
		ids = append(ids, b.ID)
	}
	return ids
}
