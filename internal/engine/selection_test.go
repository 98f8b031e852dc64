package engine

import (
	"errors"
	"testing"

	"github.com/danieljhkim/previewdeck/internal/preview"
)

func TestSelectAction(t *testing.T) {
	h := newHarness(t)
	b := batch("b1", action("a1"), action("a2"), action("a3"))
	b.AllowPartialApply = true
	h.add(t, b)

	sel, err := h.m.Selection("b1")
	if err != nil {
		t.Fatalf("Selection() error = %v", err)
	}
	equal(t, "default selection", sel, []string{"a1", "a2", "a3"})

	sel, err = h.m.SelectAction(h.ctx, "b1", "a2")
	if err != nil {
		t.Fatalf("SelectAction() error = %v", err)
	}
	equal(t, "after deselect", sel, []string{"a1", "a3"})

	sel, err = h.m.SelectAction(h.ctx, "b1", "a2")
	if err != nil {
		t.Fatalf("SelectAction() error = %v", err)
	}
	equal(t, "after reselect", sel, []string{"a1", "a2", "a3"})
}

func TestSelectAction_Errors(t *testing.T) {
	h := newHarness(t)
	h.add(t, batch("whole", action("a1")))
	partial := batch("partial", action("a1"))
	partial.AllowPartialApply = true
	h.add(t, partial)

	tests := []struct {
		name     string
		batchID  string
		actionID string
		wantErr  error
	}{
		{"partial not allowed", "whole", "a1", ErrPartialNotAllowed},
		{"unknown action", "partial", "nope", ErrValidation},
		{"unknown batch", "missing", "a1", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.m.SelectAction(h.ctx, tt.batchID, tt.actionID); !errors.Is(err, tt.wantErr) {
				t.Errorf("SelectAction(%s, %s) error = %v, want %v", tt.batchID, tt.actionID, err, tt.wantErr)
			}
		})
	}

	if _, err := h.m.Selection("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Selection(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSelectBatch(t *testing.T) {
	h := newHarness(t)
	primary := batch("opt-1", action("a1"))
	primary.Alternatives = []preview.Batch{*batch("opt-2", action("a2"))}
	primary.RequiresUserChoice = true
	h.add(t, primary)

	if err := h.m.SelectBatch(h.ctx, "opt-2"); err != nil {
		t.Fatalf("SelectBatch(opt-2) error = %v", err)
	}
	if got := h.m.State().SelectedBatchID; got != "opt-2" {
		t.Errorf("selected = %q, want opt-2", got)
	}

	if err := h.m.SelectBatch(h.ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SelectBatch(missing) error = %v, want ErrNotFound", err)
	}
	if got := h.m.State().SelectedBatchID; got != "opt-2" {
		t.Errorf("selected after failed select = %q, want opt-2", got)
	}

	if err := h.m.SelectBatch(h.ctx, ""); err != nil {
		t.Fatalf("SelectBatch(\"\") error = %v", err)
	}
	if got := h.m.State().SelectedBatchID; got != "" {
		t.Errorf("selected after clear = %q, want empty", got)
	}
}
