package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/danieljhkim/previewdeck/internal/config"
	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

func TestApply_SucceedsIffNotBlocking(t *testing.T) {
	tests := []struct {
		name      string
		batch     *preview.Batch
		wantError error
	}{
		{"no conflicts", batch("b", action("a1")), nil},
		{"minor action conflict", batch("b", action("a1", conflict("c", preview.SeverityMinor))), nil},
		{"major action conflict", batch("b", action("a1", conflict("c", preview.SeverityMajor))), nil},
		{"blocking action conflict", batch("b", action("a1", conflict("c", preview.SeverityBlocking))), ErrBlocked},
		{"blocking on second action", batch("b", action("a1"), action("a2", conflict("c", preview.SeverityBlocking))), ErrBlocked},
		{"blocking batch conflict", func() *preview.Batch {
			b := batch("b", action("a1"))
			b.Conflicts = []preview.Conflict{conflict("c", preview.SeverityBlocking)}
			return b
		}(), ErrBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.add(t, tt.batch)
			before := h.m.State().ActiveBatches[0]

			_, err := h.apply("b")

			if tt.wantError == nil {
				if err != nil {
					t.Fatalf("Apply() error = %v", err)
				}
				if n := len(h.m.State().ActiveBatches); n != 0 {
					t.Errorf("got %d active batches after apply, want 0", n)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.wantError)
			}
			st := h.m.State()
			if len(st.ActiveBatches) != 1 {
				t.Fatalf("got %d active batches, want the blocked batch to stay pending", len(st.ActiveBatches))
			}
			if !reflect.DeepEqual(before, st.ActiveBatches[0]) {
				t.Error("blocked batch changed")
			}
			if len(st.History) != 0 {
				t.Errorf("history has %d entries, want 0", len(st.History))
			}
			if n := len(h.notes.all()); n != 0 {
				t.Errorf("got %d notifications, want 0", n)
			}
		})
	}
}

func TestApply_Transition(t *testing.T) {
	h := newHarness(t)
	h.add(t, batch("b1", action("a1"), action("a2")))

	result := h.mustApply(t, "b1")

	if result.Batch.Status != preview.StatusApplied {
		t.Errorf("status = %s, want %s", result.Batch.Status, preview.StatusApplied)
	}
	if result.Batch.AppliedAt == nil || !result.Batch.AppliedAt.Equal(testTime) {
		t.Errorf("AppliedAt = %v, want %v", result.Batch.AppliedAt, testTime)
	}
	if result.Batch.DismissedAt != nil {
		t.Errorf("DismissedAt = %v, want nil", result.Batch.DismissedAt)
	}
	equal(t, "applied actions", result.AppliedActionIDs, []string{"a1", "a2"})
	if result.GraceRemaining != 5*time.Second {
		t.Errorf("GraceRemaining = %v, want 5s", result.GraceRemaining)
	}

	st := h.m.State()
	if len(st.ActiveBatches) != 0 {
		t.Errorf("got %d active batches, want 0", len(st.ActiveBatches))
	}
	equal(t, "undo stack", stackIDs(st.UndoStack), []string{"b1"})
	if len(st.History) != 1 || st.History[0].Event != state.EventApplied {
		t.Fatalf("history = %+v, want one applied entry", st.History)
	}
	if err := st.UndoStack[0].Validate(); err != nil {
		t.Errorf("undo entry invalid: %v", err)
	}

	equal(t, "notifications", h.notes.all(), []notification{{kind: "applied", batchID: "b1", actionIDs: []string{"a1", "a2"}}})
}

func TestApply_NotPending(t *testing.T) {
	h := newHarness(t)
	if _, err := h.apply("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Apply(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := h.m.Apply(h.ctx, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("Apply(nil) error = %v, want ErrValidation", err)
	}
}

func TestApply_PartialSelection(t *testing.T) {
	newPartial := func() *preview.Batch {
		b := batch("b1", action("a1"), action("a2"), action("a3"))
		b.AllowPartialApply = true
		return b
	}

	t.Run("reports exactly the selected ids", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newPartial())

		result := h.mustApply(t, "b1", "a3", "a1")

		equal(t, "applied actions", result.AppliedActionIDs, []string{"a1", "a3"})
		if n := len(h.m.State().ActiveBatches); n != 0 {
			t.Errorf("got %d active batches, want 0 regardless of selection size", n)
		}
		notes := h.notes.all()
		if len(notes) != 1 {
			t.Fatalf("got %d notifications, want 1", len(notes))
		}
		equal(t, "notified actions", notes[0].actionIDs, []string{"a1", "a3"})
	})

	t.Run("uses stored selection", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newPartial())
		if _, err := h.m.SelectAction(h.ctx, "b1", "a2"); err != nil {
			t.Fatalf("SelectAction() error = %v", err)
		}

		result := h.mustApply(t, "b1")
		equal(t, "applied actions", result.AppliedActionIDs, []string{"a1", "a3"})
	})

	t.Run("empty selection fails", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newPartial())
		for _, id := range []string{"a1", "a2", "a3"} {
			if _, err := h.m.SelectAction(h.ctx, "b1", id); err != nil {
				t.Fatalf("SelectAction(%s) error = %v", id, err)
			}
		}

		if _, err := h.apply("b1"); !errors.Is(err, ErrNoSelection) {
			t.Fatalf("Apply() error = %v, want ErrNoSelection", err)
		}
		equal(t, "active ids", activeIDs(h.m), []string{"b1"})
		wantMetrics(t, h.m, `previewdeck_apply_rejected_total{reason="no_selection"} 1`)
	})

	t.Run("explicit empty selection fails", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newPartial())

		_, err := h.m.Apply(h.ctx, &ApplyRequest{BatchID: "b1", ActionIDs: []string{}})
		if !errors.Is(err, ErrNoSelection) {
			t.Errorf("Apply() error = %v, want ErrNoSelection", err)
		}
	})

	t.Run("unknown action id fails", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newPartial())

		if _, err := h.apply("b1", "a1", "nope"); !errors.Is(err, ErrValidation) {
			t.Fatalf("Apply() error = %v, want ErrValidation", err)
		}
		equal(t, "active ids", activeIDs(h.m), []string{"b1"})
	})

	t.Run("selection ignored without partial apply", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, batch("b1", action("a1"), action("a2"), action("a3")))

		result := h.mustApply(t, "b1", "a2")
		equal(t, "applied actions", result.AppliedActionIDs, []string{"a1", "a2", "a3"})
	})

	t.Run("blocking wins over selection", func(t *testing.T) {
		h := newHarness(t)
		b := newPartial()
		b.Actions[2].Conflicts = []preview.Conflict{conflict("c", preview.SeverityBlocking)}
		h.add(t, b)

		if _, err := h.apply("b1", "a1"); !errors.Is(err, ErrBlocked) {
			t.Errorf("Apply() error = %v, want ErrBlocked", err)
		}
	})
}

func TestApply_ClearsRedo(t *testing.T) {
	h := newHarness(t)
	h.add(t, batch("b1", action("a1")))
	h.mustApply(t, "b1")
	h.mustUndo(t, "b1")

	if n := len(h.m.State().RedoStack); n != 1 {
		t.Fatalf("redo stack has %d entries after undo, want 1", n)
	}

	h.add(t, batch("b2", action("a2")))
	result := h.mustApply(t, "b2")

	if result.RedoCleared != 1 {
		t.Errorf("RedoCleared = %d, want 1", result.RedoCleared)
	}
	if n := len(h.m.State().RedoStack); n != 0 {
		t.Errorf("redo stack has %d entries after a new apply, want 0", n)
	}
}

func TestApply_ExclusiveChoice(t *testing.T) {
	newGroup := func() *preview.Batch {
		primary := batch("opt-1", action("a1"))
		primary.Alternatives = []preview.Batch{*batch("opt-2", action("a2")), *batch("opt-3", action("a3"))}
		primary.RequiresUserChoice = true
		return primary
	}

	t.Run("choosing an alternative discards the rest", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newGroup())
		h.add(t, batch("other", action("x")))
		if err := h.m.SelectBatch(h.ctx, "opt-2"); err != nil {
			t.Fatalf("SelectBatch() error = %v", err)
		}

		result := h.mustApply(t, "opt-2")

		equal(t, "discarded", sorted(result.Discarded), []string{"opt-1", "opt-3"})
		if result.Batch.Alternatives != nil {
			t.Errorf("applied batch alternatives = %v, want nil", result.Batch.Alternatives)
		}

		st := h.m.State()
		equal(t, "active ids", stackIDs(st.ActiveBatches), []string{"other"})
		equal(t, "undo stack", stackIDs(st.UndoStack), []string{"opt-2"})
		if st.SelectedBatchID != "" {
			t.Errorf("selected = %q, want empty", st.SelectedBatchID)
		}

		var discarded []string
		for _, e := range st.History {
			if e.Event == state.EventDiscarded {
				discarded = append(discarded, e.BatchID)
				if e.Batch.Status != preview.StatusDismissed {
					t.Errorf("discarded %s status = %s, want %s", e.BatchID, e.Batch.Status, preview.StatusDismissed)
				}
			}
		}
		equal(t, "discarded history", sorted(discarded), []string{"opt-1", "opt-3"})
		equal(t, "notifications", h.notes.kinds(), []string{"applied:opt-2"})
	})

	t.Run("choosing the primary discards the alternatives", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newGroup())

		result := h.mustApply(t, "opt-1")
		equal(t, "discarded", sorted(result.Discarded), []string{"opt-2", "opt-3"})
		if n := len(h.m.State().ActiveBatches); n != 0 {
			t.Errorf("got %d active batches, want 0", n)
		}
	})

	t.Run("undo re-offers only the chosen option", func(t *testing.T) {
		h := newHarness(t)
		h.add(t, newGroup())
		h.mustApply(t, "opt-3")

		undo := h.mustUndo(t, "opt-3")
		if undo.Reoffered.Alternatives != nil {
			t.Errorf("re-offered alternatives = %v, want nil", undo.Reoffered.Alternatives)
		}
		equal(t, "active ids", activeIDs(h.m), []string{"opt-3"})
	})
}

func TestApply_UndoLimit(t *testing.T) {
	settings := config.DefaultSettings()
	settings.GraceTick = 0
	settings.UndoLimit = 2
	h := newHarness(t, WithSettings(settings))

	for _, id := range []string{"b1", "b2", "b3"} {
		h.add(t, batch(id, action("a-"+id)))
	}
	h.mustApply(t, "b1")
	h.mustApply(t, "b2")
	result := h.mustApply(t, "b3")

	equal(t, "evicted", result.Evicted, []string{"b1"})
	st := h.m.State()
	equal(t, "undo stack", stackIDs(st.UndoStack), []string{"b2", "b3"})
	if len(st.History) != 3 {
		t.Errorf("history has %d entries, want evicted batches kept (3)", len(st.History))
	}

	if _, err := h.m.Undo(h.ctx, "b1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Undo(evicted) error = %v, want ErrNotFound", err)
	}
}

func TestApply_Metrics(t *testing.T) {
	h := newHarness(t)
	h.add(t, batch("ok", action("a1")))
	h.add(t, batch("blocked", action("a2", conflict("c", preview.SeverityBlocking))))

	h.mustApply(t, "ok")
	if _, err := h.apply("blocked"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("Apply(blocked) error = %v, want ErrBlocked", err)
	}

	wantMetrics(t, h.m,
		`previewdeck_batches_total{event="applied"} 1`,
		`previewdeck_apply_rejected_total{reason="blocked"} 1`,
		"previewdeck_active_batches 1",
		"previewdeck_undo_depth 1",
	)
}
