package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/previewdeck/internal/clock"
	"github.com/danieljhkim/previewdeck/internal/config"
	"github.com/danieljhkim/previewdeck/internal/grace"
	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/state"
)

func TestState_IsACopy(t *testing.T) {
	h := newHarness(t)
	h.add(t, batch("b1", action("a1")))

	st := h.m.State()
	st.ActiveBatches[0].Summary = "mutated"
	st.ActiveBatches = nil

	if got := h.m.State().ActiveBatches[0].Summary; got != "summary b1" {
		t.Errorf("stored summary = %q, want %q", got, "summary b1")
	}
}

func TestRestore(t *testing.T) {
	h := newHarness(t)

	recent := testTime.Add(-2 * time.Second)
	old := testTime.Add(-time.Hour)
	snap := state.NewPreviewState(0)
	snap.ActiveBatches = append(snap.ActiveBatches, *batch("pending", action("a1")))
	for id, at := range map[string]time.Time{"recent": recent, "old": old} {
		b := *batch(id, action("a-"+id))
		b.Status = preview.StatusApplied
		appliedAt := at
		b.AppliedAt = &appliedAt
		snap.PushUndo(b)
	}

	h.m.Restore(snap)

	equal(t, "active ids", activeIDs(h.m), []string{"pending"})
	if got := h.m.GraceRemaining("recent"); got != 3*time.Second {
		t.Errorf("GraceRemaining(recent) = %v, want 3s", got)
	}
	if !h.m.UndoOffered("recent") {
		t.Error("undo not offered for a batch inside its window")
	}
	if h.m.UndoOffered("old") {
		t.Error("undo offered for a batch past its window")
	}
	if got, want := h.m.State().UndoLimit, config.DefaultSettings().UndoLimit; got != want {
		t.Errorf("UndoLimit = %d, want %d", got, want)
	}

	h.mustUndo(t, "old")
	if body := scrape(t, h.m); !strings.Contains(body, "previewdeck_redo_depth 1") {
		t.Errorf("metrics missing redo depth 1:\n%s", body)
	}
}

func TestGraceListener_ReceivesTicks(t *testing.T) {
	var mu sync.Mutex
	var ticks []grace.Tick
	listener := func(tick grace.Tick) {
		mu.Lock()
		defer mu.Unlock()
		ticks = append(ticks, tick)
	}

	settings := config.DefaultSettings()
	settings.GraceTick = 5 * time.Millisecond
	clk := clock.NewFakeClock(testTime)
	m := New(WithClock(clk), WithSettings(settings), WithGraceListener(listener))
	defer m.Close()

	if err := m.AddBatch(context.Background(), batch("b1", action("a1"))); err != nil {
		t.Fatalf("AddBatch() error = %v", err)
	}
	if _, err := m.Apply(context.Background(), &ApplyRequest{BatchID: "b1"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	waitFor(t, "first tick", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ticks) > 0 && ticks[0].SecondsRemaining == 5
	})

	clk.Advance(5 * time.Second)
	waitFor(t, "expiry tick", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ticks) > 0 && ticks[len(ticks)-1].Expired
	})
	if !m.State().InUndo("b1") {
		t.Error("expired batch left the undo stack")
	}
}

func TestManager_ConcurrentOperations(t *testing.T) {
	h := newHarness(t)
	const n = 20
	for i := 0; i < n; i++ {
		h.add(t, batch(fmt.Sprintf("b%d", i), action("a")))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("b%d", i)
			if i%2 == 0 {
				_, _ = h.apply(id)
			} else {
				_, _ = h.m.Dismiss(h.ctx, id)
			}
			_ = h.m.State()
		}(i)
	}
	wg.Wait()

	st := h.m.State()
	if len(st.ActiveBatches) != 0 {
		t.Errorf("got %d active batches, want 0", len(st.ActiveBatches))
	}
	if len(st.UndoStack) != n/2 {
		t.Errorf("undo stack has %d entries, want %d", len(st.UndoStack), n/2)
	}
	if len(st.History) != n {
		t.Errorf("history has %d entries, want %d", len(st.History), n)
	}
	if got := len(h.notes.all()); got != n {
		t.Errorf("got %d notifications, want %d", got, n)
	}
}
