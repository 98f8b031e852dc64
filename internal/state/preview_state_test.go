package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func testBatch(id string, actionIDs ...string) preview.Batch {
	actions := make([]preview.Action, len(actionIDs))
	for i, aid := range actionIDs {
		actions[i] = preview.Action{
			ID:         aid,
			Type:       preview.ActionAdd,
			EntityType: preview.EntityEvent,
			Item:       preview.Item{ID: "item-" + aid, Name: "Item " + aid},
		}
	}
	return preview.Batch{
		ID:        id,
		AgentName: "Concierge",
		Summary:   "summary " + id,
		Actions:   actions,
		Status:    preview.StatusPending,
		CreatedAt: testTime,
	}
}

func TestNewPreviewState_DefaultsLimit(t *testing.T) {
	assert.Equal(t, DefaultUndoLimit, NewPreviewState(0).UndoLimit)
	assert.Equal(t, 3, NewPreviewState(3).UndoLimit)
}

func TestPushUndo_EvictsOldest(t *testing.T) {
	s := NewPreviewState(2)

	assert.Nil(t, s.PushUndo(testBatch("b1", "a")))
	assert.Nil(t, s.PushUndo(testBatch("b2", "a")))
	evicted := s.PushUndo(testBatch("b3", "a"))

	require.Len(t, evicted, 1)
	assert.Equal(t, "b1", evicted[0].ID)
	assert.False(t, s.InUndo("b1"))
	assert.True(t, s.InUndo("b2"))
	assert.True(t, s.InUndo("b3"))
}

func TestTakeUndo_RemovesFromMiddle(t *testing.T) {
	s := NewPreviewState(10)
	for i := 1; i <= 3; i++ {
		s.PushUndo(testBatch(fmt.Sprintf("b%d", i), "a"))
	}

	b, ok := s.TakeUndo("b2")
	require.True(t, ok)
	assert.Equal(t, "b2", b.ID)
	assert.Equal(t, []string{"b1", "b3"}, ids(s.UndoStack))

	_, ok = s.TakeUndo("b2")
	assert.False(t, ok)
}

func TestRedoStack(t *testing.T) {
	s := NewPreviewState(10)
	s.PushRedo(testBatch("b1", "a"))
	s.PushRedo(testBatch("b2", "a"))

	assert.True(t, s.InRedo("b1"))
	b, ok := s.TakeRedo("b1")
	require.True(t, ok)
	assert.Equal(t, "b1", b.ID)

	assert.Equal(t, 1, s.ClearRedo())
	assert.Empty(t, s.RedoStack)
	assert.NotNil(t, s.RedoStack)
}

func TestRemoveActive_ClearsSelection(t *testing.T) {
	s := NewPreviewState(10)
	b := testBatch("b1", "a1", "a2")
	s.ActiveBatches = append(s.ActiveBatches, b)
	s.SetSelection(b, []string{"a2"})
	s.SelectedBatchID = "b1"

	removed, ok := s.RemoveActive("b1")
	require.True(t, ok)
	assert.Equal(t, "b1", removed.ID)
	assert.Empty(t, s.ActiveBatches)
	assert.NotContains(t, s.Selections, "b1")
	assert.Empty(t, s.SelectedBatchID)

	_, ok = s.RemoveActive("b1")
	assert.False(t, ok)
}

func TestFindAlternative(t *testing.T) {
	s := NewPreviewState(10)
	primary := testBatch("opt-1", "a")
	primary.Alternatives = []preview.Batch{testBatch("opt-2", "b"), testBatch("opt-3", "c")}
	s.ActiveBatches = append(s.ActiveBatches, testBatch("other", "x"), primary)

	group, alt, ok := s.FindAlternative("opt-3")
	require.True(t, ok)
	assert.Equal(t, 1, group)
	assert.Equal(t, 1, alt)

	_, _, ok = s.FindAlternative("opt-1")
	assert.False(t, ok)
}

func TestSelection(t *testing.T) {
	s := NewPreviewState(10)
	b := testBatch("b1", "a1", "a2", "a3")

	t.Run("defaults to every action", func(t *testing.T) {
		assert.Equal(t, []string{"a1", "a2", "a3"}, s.SelectionFor(b))
	})

	t.Run("keeps batch order and drops unknown ids", func(t *testing.T) {
		s.SetSelection(b, []string{"a3", "missing", "a1"})
		assert.Equal(t, []string{"a1", "a3"}, s.SelectionFor(b))
	})

	t.Run("empty selection is preserved", func(t *testing.T) {
		s.SetSelection(b, nil)
		assert.Empty(t, s.SelectionFor(b))
		assert.Contains(t, s.Selections, "b1")
	})
}

func TestRecord_SnapshotsBatch(t *testing.T) {
	s := NewPreviewState(10)
	b := testBatch("b1", "a1")
	s.Record(EventDismissed, b, testTime, "user dismissed")

	b.Actions[0].Item.Name = "mutated"

	require.Len(t, s.History, 1)
	h := s.History[0]
	assert.Equal(t, EventDismissed, h.Event)
	assert.Equal(t, "b1", h.BatchID)
	assert.Equal(t, "user dismissed", h.Detail)
	assert.Equal(t, "Item a1", h.Batch.Actions[0].Item.Name)
}

func TestLastEvent(t *testing.T) {
	s := NewPreviewState(10)
	_, ok := s.LastEvent("b1")
	assert.False(t, ok)

	s.Record(EventApplied, testBatch("b1", "a1"), testTime, "")
	s.Record(EventDismissed, testBatch("b2", "a1"), testTime, "")
	s.Record(EventUndone, testBatch("b1", "a1"), testTime, "")

	ev, ok := s.LastEvent("b1")
	require.True(t, ok)
	assert.Equal(t, EventUndone, ev)

	ev, ok = s.LastEvent("b2")
	require.True(t, ok)
	assert.Equal(t, EventDismissed, ev)
}

func TestClone_IsDeep(t *testing.T) {
	s := NewPreviewState(10)
	b := testBatch("b1", "a1", "a2")
	s.ActiveBatches = append(s.ActiveBatches, b)
	s.SetSelection(b, []string{"a1"})
	s.Record(EventApplied, b, testTime, "")

	c := s.Clone()
	c.ActiveBatches[0].Summary = "changed"
	c.Selections["b1"][0] = "changed"
	c.History[0].Batch.Summary = "changed"

	assert.Equal(t, "summary b1", s.ActiveBatches[0].Summary)
	assert.Equal(t, []string{"a1"}, s.Selections["b1"])
	assert.Equal(t, "summary b1", s.History[0].Batch.Summary)
}

func TestNormalize(t *testing.T) {
	s := &PreviewState{}
	s.Normalize()

	assert.NotNil(t, s.ActiveBatches)
	assert.NotNil(t, s.History)
	assert.NotNil(t, s.UndoStack)
	assert.NotNil(t, s.RedoStack)
	assert.NotNil(t, s.Selections)
	assert.Equal(t, DefaultUndoLimit, s.UndoLimit)
}

func TestCounts(t *testing.T) {
	s := NewPreviewState(10)
	s.ActiveBatches = append(s.ActiveBatches, testBatch("b1", "a"))
	s.PushUndo(testBatch("b2", "a"))
	s.Record(EventApplied, testBatch("b2", "a"), testTime, "")

	assert.Equal(t, Counts{Active: 1, Undo: 1, Redo: 0, History: 1}, s.Counts())
}

func ids(batches []preview.Batch) []string {
	out := make([]string, len(batches))
	for i, b := range batches {
		out[i] = b.ID
	}
	return out
}
