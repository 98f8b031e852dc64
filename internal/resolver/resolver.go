package resolver

import (
	"fmt"
	"slices"

	"github.com/danieljhkim/previewdeck/internal/factory"
	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

// Outcome describes what one resolution changed.
type Outcome struct {
	// ConflictID is the resolved conflict
	ConflictID string `json:"conflictId"`

	// Strategy is the strategy that was applied
	Strategy Strategy `json:"strategy"`

	// Severity is the conflict's severity before resolution
	Severity preview.Severity `json:"severity"`

	// BatchIDs are the batches that carried the conflict
	BatchIDs []string `json:"batchIds"`

	// PatchedActionIDs are the actions whose item was rewritten
	PatchedActionIDs []string `json:"patchedActionIds,omitempty"`

	// DroppedActionIDs are the actions removed by skip
	DroppedActionIDs []string `json:"droppedActionIds,omitempty"`

	// Emptied are batches left without actions; they are no longer active
	Emptied []preview.Batch `json:"emptied,omitempty"`
}

// EmptiedBatchIDs returns the ids of the emptied batches.
func (o *Outcome) EmptiedBatchIDs() []string {
	ids := make([]string, len(o.Emptied))
	for i, b := range o.Emptied {
		ids[i] = b.ID
	}
	return ids
}

// Resolver settles conflicts in a preview state.
type Resolver struct{}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve applies res to every occurrence of conflictID among the active
// batches and their alternatives. The input state is not modified.
func (r *Resolver) Resolve(st *state.PreviewState, conflictID string, res Resolution) (*state.PreviewState, *Outcome, error) {
	conflict, ok := findConflict(st, conflictID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrConflictNotFound, conflictID)
	}
	if err := res.check(conflict); err != nil {
		return nil, nil, err
	}

	next := st.Clone()
	out := &Outcome{
		ConflictID: conflictID,
		Strategy:   res.Strategy,
		Severity:   conflict.Severity,
	}

	active := make([]preview.Batch, 0, len(next.ActiveBatches))
	for _, b := range next.ActiveBatches {
		alts := make([]preview.Batch, 0, len(b.Alternatives))
		for _, alt := range b.Alternatives {
			if r.apply(next, &alt, conflictID, res, out) {
				out.Emptied = append(out.Emptied, alt)
				forget(next, alt.ID)
				continue
			}
			alts = append(alts, alt)
		}
		pruned := len(alts) != len(b.Alternatives)
		b.Alternatives = alts

		if r.apply(next, &b, conflictID, res, out) {
			emptied := b
			emptied.Alternatives = nil
			out.Emptied = append(out.Emptied, emptied)
			forget(next, b.ID)
			if len(alts) == 0 {
				continue
			}
			// The first surviving alternative takes over the group.
			b = promote(alts)
		} else if pruned {
			b.RequiresUserChoice = len(alts) > 0
		}
		if len(b.Alternatives) == 0 {
			b.Alternatives = nil
		}
		active = append(active, b)
	}
	next.ActiveBatches = active

	return next, out, nil
}

// apply resolves the conflict within one batch and reports whether the batch
// was left with no actions.
func (r *Resolver) apply(st *state.PreviewState, b *preview.Batch, conflictID string, res Resolution, out *Outcome) bool {
	touched := false
	var removed bool
	if b.Conflicts, removed = preview.WithoutConflict(b.Conflicts, conflictID); removed {
		touched = true
	}

	recalc := false
	actions := make([]preview.Action, 0, len(b.Actions))
	for _, a := range b.Actions {
		if !a.HasConflict(conflictID) {
			actions = append(actions, a)
			continue
		}
		touched = true
		if res.Strategy == StrategySkip {
			out.DroppedActionIDs = append(out.DroppedActionIDs, a.ID)
			recalc = true
			continue
		}
		a.Conflicts, _ = preview.WithoutConflict(a.Conflicts, conflictID)
		if res.Strategy.PatchesItem() && !res.Patch.IsEmpty() {
			a.Item = a.Item.WithPatch(res.Patch)
			out.PatchedActionIDs = append(out.PatchedActionIDs, a.ID)
			if res.Patch.Cost != nil || res.Patch.Duration != nil {
				recalc = true
			}
		}
		actions = append(actions, a)
	}

	if !touched {
		return false
	}
	out.BatchIDs = append(out.BatchIDs, b.ID)
	b.Actions = actions

	if recalc {
		recalcTotals(b)
	}
	if sel, ok := st.Selections[b.ID]; ok {
		st.SetSelection(*b, sel)
	}
	return len(b.Actions) == 0
}

// AutoResult collects the outcome of resolving a batch's auto-resolvable
// conflicts.
type AutoResult struct {
	Resolved []Outcome `json:"resolved"`
	Failed   []Failure `json:"failed,omitempty"`
}

// Failure records a conflict that could not be auto-resolved.
type Failure struct {
	ConflictID string `json:"conflictId"`
	Err        error  `json:"-"`
	Message    string `json:"error"`
}

// AutoResolve resolves every auto-resolvable conflict of the batch with the
// adjust strategy. Each conflict is resolved independently; a failure is
// recorded and the remaining conflicts are still attempted.
func (r *Resolver) AutoResolve(st *state.PreviewState, batchID string) (*state.PreviewState, *AutoResult, error) {
	b, ok := findBatch(st, batchID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}

	result := &AutoResult{Resolved: []Outcome{}}
	next := st
	for _, c := range b.AllConflicts() {
		if !c.AutoResolvable {
			continue
		}
		resolved, out, err := r.Resolve(next, c.ID, Resolution{Strategy: StrategyAdjust})
		if err != nil {
			result.Failed = append(result.Failed, Failure{ConflictID: c.ID, Err: err, Message: err.Error()})
			continue
		}
		next = resolved
		result.Resolved = append(result.Resolved, *out)
	}
	if next == st {
		next = st.Clone()
	}
	return next, result, nil
}

func findConflict(st *state.PreviewState, id string) (preview.Conflict, bool) {
	for _, b := range st.ActiveBatches {
		if c, ok := b.FindConflict(id); ok {
			return c, true
		}
		for _, alt := range b.Alternatives {
			if c, ok := alt.FindConflict(id); ok {
				return c, true
			}
		}
	}
	return preview.Conflict{}, false
}

func findBatch(st *state.PreviewState, id string) (preview.Batch, bool) {
	if i := st.FindActive(id); i >= 0 {
		return st.ActiveBatches[i], true
	}
	if g, a, ok := st.FindAlternative(id); ok {
		return st.ActiveBatches[g].Alternatives[a], true
	}
	return preview.Batch{}, false
}

func forget(st *state.PreviewState, batchID string) {
	delete(st.Selections, batchID)
	if st.SelectedBatchID == batchID {
		st.SelectedBatchID = ""
	}
}

// promote makes the first alternative the primary of the group.
func promote(alts []preview.Batch) preview.Batch {
	primary := alts[0]
	primary.Alternatives = slices.Clone(alts[1:])
	primary.RequiresUserChoice = len(primary.Alternatives) > 0
	return primary
}

func recalcTotals(b *preview.Batch) {
	costs := make([]string, len(b.Actions))
	durations := make([]string, len(b.Actions))
	for i, a := range b.Actions {
		costs[i] = a.Item.Cost
		durations[i] = a.Item.Duration
	}
	b.TotalCost = factory.SumCosts(costs)
	b.TotalDuration = factory.SumDurations(durations)
}
