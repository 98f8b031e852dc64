package state

import (
	"slices"
	"time"

	"github.com/danieljhkim/previewdeck/internal/preview"
)

// DefaultUndoLimit bounds the undo stack when no limit is configured.
const DefaultUndoLimit = 20

// HistoryEvent names a lifecycle transition.
type HistoryEvent string

const (
	EventApplied     HistoryEvent = "applied"
	EventDismissed   HistoryEvent = "dismissed"
	EventUndone      HistoryEvent = "undone"
	EventRedone      HistoryEvent = "redone"
	EventDiscarded   HistoryEvent = "discarded"
	EventApplyFailed HistoryEvent = "apply_failed"
)

// HistoryEntry records one lifecycle transition of a batch.
type HistoryEntry struct {
	// Event is the transition that happened
	Event HistoryEvent `json:"event"`

	// BatchID is the batch the transition applied to
	BatchID string `json:"batchId"`

	// At is when the transition happened
	At time.Time `json:"at"`

	// Detail is an optional note, such as a failure reason
	Detail string `json:"detail,omitempty"`

	// Batch is the record as it was right after the transition
	Batch preview.Batch `json:"batch"`
}

// PreviewState is the engine's view of every proposal it knows about.
// ActiveBatches are pending, in display order. UndoStack and RedoStack are
// most-recent-last.
type PreviewState struct {
	// ActiveBatches are the pending proposals
	ActiveBatches []preview.Batch `json:"activeBatches"`

	// History is the append-only transition log
	History []HistoryEntry `json:"history"`

	// UndoStack holds applied batches eligible for reversal
	UndoStack []preview.Batch `json:"undoStack"`

	// RedoStack holds undone batches eligible for redo
	RedoStack []preview.Batch `json:"redoStack"`

	// SelectedBatchID is the focused batch in an exclusive-choice group
	SelectedBatchID string `json:"selectedBatchId,omitempty"`

	// Selections holds explicit action selections for partial apply; a batch
	// without an entry has every action selected
	Selections map[string][]string `json:"selections,omitempty"`

	// UndoLimit bounds UndoStack
	UndoLimit int `json:"undoLimit"`
}

// NewPreviewState creates an empty state with the given undo bound.
func NewPreviewState(undoLimit int) *PreviewState {
	if undoLimit <= 0 {
		undoLimit = DefaultUndoLimit
	}
	return &PreviewState{
		ActiveBatches: []preview.Batch{},
		History:       []HistoryEntry{},
		UndoStack:     []preview.Batch{},
		RedoStack:     []preview.Batch{},
		Selections:    map[string][]string{},
		UndoLimit:     undoLimit,
	}
}

// Clone returns a deep copy of the state.
func (s *PreviewState) Clone() *PreviewState {
	out := &PreviewState{
		ActiveBatches:   cloneBatches(s.ActiveBatches),
		History:         make([]HistoryEntry, len(s.History)),
		UndoStack:       cloneBatches(s.UndoStack),
		RedoStack:       cloneBatches(s.RedoStack),
		SelectedBatchID: s.SelectedBatchID,
		Selections:      make(map[string][]string, len(s.Selections)),
		UndoLimit:       s.UndoLimit,
	}
	for i, h := range s.History {
		h.Batch = h.Batch.Clone()
		out.History[i] = h
	}
	for id, sel := range s.Selections {
		out.Selections[id] = slices.Clone(sel)
	}
	return out
}

// Normalize fills nil collections after decoding a snapshot.
func (s *PreviewState) Normalize() {
	if s.ActiveBatches == nil {
		s.ActiveBatches = []preview.Batch{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	if s.UndoStack == nil {
		s.UndoStack = []preview.Batch{}
	}
	if s.RedoStack == nil {
		s.RedoStack = []preview.Batch{}
	}
	if s.Selections == nil {
		s.Selections = map[string][]string{}
	}
	if s.UndoLimit <= 0 {
		s.UndoLimit = DefaultUndoLimit
	}
}

// FindActive returns the index of the active batch with the given id, or -1.
func (s *PreviewState) FindActive(id string) int {
	return indexOf(s.ActiveBatches, id)
}

// FindAlternative locates id among the alternatives of active batches.
// It returns the index of the owning active batch and of the alternative.
func (s *PreviewState) FindAlternative(id string) (group, alt int, ok bool) {
	for g, b := range s.ActiveBatches {
		if i := indexOf(b.Alternatives, id); i >= 0 {
			return g, i, true
		}
	}
	return -1, -1, false
}

// RemoveActive removes and returns the active batch with the given id.
func (s *PreviewState) RemoveActive(id string) (preview.Batch, bool) {
	var b preview.Batch
	var ok bool
	s.ActiveBatches, b, ok = take(s.ActiveBatches, id)
	if ok {
		delete(s.Selections, id)
		if s.SelectedBatchID == id {
			s.SelectedBatchID = ""
		}
	}
	return b, ok
}

// PushUndo appends b to the undo stack, evicting the oldest entries beyond
// UndoLimit. Evicted batches are returned; they remain in History.
func (s *PreviewState) PushUndo(b preview.Batch) []preview.Batch {
	s.UndoStack = append(s.UndoStack, b)
	limit := s.UndoLimit
	if limit <= 0 {
		limit = DefaultUndoLimit
	}
	if over := len(s.UndoStack) - limit; over > 0 {
		evicted := slices.Clone(s.UndoStack[:over])
		s.UndoStack = slices.Clone(s.UndoStack[over:])
		return evicted
	}
	return nil
}

// InUndo reports whether id is on the undo stack.
func (s *PreviewState) InUndo(id string) bool { return indexOf(s.UndoStack, id) >= 0 }

// InRedo reports whether id is on the redo stack.
func (s *PreviewState) InRedo(id string) bool { return indexOf(s.RedoStack, id) >= 0 }

// TakeUndo removes and returns the undo entry with the given id.
func (s *PreviewState) TakeUndo(id string) (preview.Batch, bool) {
	var b preview.Batch
	var ok bool
	s.UndoStack, b, ok = take(s.UndoStack, id)
	return b, ok
}

// PushRedo appends b to the redo stack.
func (s *PreviewState) PushRedo(b preview.Batch) {
	s.RedoStack = append(s.RedoStack, b)
}

// TakeRedo removes and returns the redo entry with the given id.
func (s *PreviewState) TakeRedo(id string) (preview.Batch, bool) {
	var b preview.Batch
	var ok bool
	s.RedoStack, b, ok = take(s.RedoStack, id)
	return b, ok
}

// ClearRedo empties the redo stack and returns how many entries it held.
func (s *PreviewState) ClearRedo() int {
	n := len(s.RedoStack)
	s.RedoStack = []preview.Batch{}
	return n
}

// Record appends a transition to the history log.
func (s *PreviewState) Record(event HistoryEvent, b preview.Batch, at time.Time, detail string) {
	s.History = append(s.History, HistoryEntry{
		Event:   event,
		BatchID: b.ID,
		At:      at,
		Detail:  detail,
		Batch:   b.Clone(),
	})
}

// LastEvent returns the most recent history event recorded for id.
func (s *PreviewState) LastEvent(id string) (HistoryEvent, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].BatchID == id {
			return s.History[i].Event, true
		}
	}
	return "", false
}

// SelectionFor returns the selected action ids for the batch, defaulting to
// every action.
func (s *PreviewState) SelectionFor(b preview.Batch) []string {
	if sel, ok := s.Selections[b.ID]; ok {
		return slices.Clone(sel)
	}
	return b.ActionIDs()
}

// SetSelection stores an explicit selection, kept in batch action order.
func (s *PreviewState) SetSelection(b preview.Batch, ids []string) {
	if s.Selections == nil {
		s.Selections = map[string][]string{}
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	ordered := []string{}
	for _, a := range b.Actions {
		if _, ok := wanted[a.ID]; ok {
			ordered = append(ordered, a.ID)
		}
	}
	s.Selections[b.ID] = ordered
}

// Counts summarizes the state for display and metrics.
type Counts struct {
	Active  int `json:"active"`
	Undo    int `json:"undo"`
	Redo    int `json:"redo"`
	History int `json:"history"`
}

// Counts returns the current collection sizes.
func (s *PreviewState) Counts() Counts {
	return Counts{
		Active:  len(s.ActiveBatches),
		Undo:    len(s.UndoStack),
		Redo:    len(s.RedoStack),
		History: len(s.History),
	}
}

func indexOf(batches []preview.Batch, id string) int {
	return slices.IndexFunc(batches, func(b preview.Batch) bool { return b.ID == id })
}

func take(batches []preview.Batch, id string) ([]preview.Batch, preview.Batch, bool) {
	i := indexOf(batches, id)
	if i < 0 {
		return batches, preview.Batch{}, false
	}
	b := batches[i]
	return slices.Delete(slices.Clone(batches), i, i+1), b, true
}

func cloneBatches(batches []preview.Batch) []preview.Batch {
	out := make([]preview.Batch, len(batches))
	for i, b := range batches {
		out[i] = b.Clone()
	}
	return out
}
