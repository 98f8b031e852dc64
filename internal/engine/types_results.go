package engine

import (
	"time"

	"github.com/danieljhkim/previewdeck/internal/preview"
	"github.com/danieljhkim/previewdeck/internal/resolver"
)

// ApplyResult represents the result of applying a batch.
type ApplyResult struct {
	// Batch is the applied record
	Batch preview.Batch `json:"batch"`

	// AppliedActionIDs are the action ids reported to the notifier
	AppliedActionIDs []string `json:"appliedActionIds"`

	// Discarded are the sibling alternatives dropped by this choice
	Discarded []string `json:"discarded,omitempty"`

	// Evicted are undo entries pushed past the undo limit
	Evicted []string `json:"evicted,omitempty"`

	// RedoCleared is how many redo entries the apply invalidated
	RedoCleared int `json:"redoCleared"`

	// GraceRemaining is the undo window left at return
	GraceRemaining time.Duration `json:"graceRemaining"`
}

// DismissResult represents the result of dismissing a batch.
type DismissResult struct {
	// Batch is the dismissed record
	Batch preview.Batch `json:"batch"`

	// Discarded are the alternatives dismissed along with a group's primary
	Discarded []string `json:"discarded,omitempty"`
}

// UndoResult represents the result of undoing an applied batch.
type UndoResult struct {
	// Record is the undone record now on the redo stack
	Record preview.Batch `json:"record"`

	// Reoffered is the pending copy added back to the active batches
	Reoffered preview.Batch `json:"reoffered"`
}

// RedoResult represents the result of redoing an undone batch.
type RedoResult struct {
	// Batch is the re-applied record
	Batch preview.Batch `json:"batch"`

	// Notified reports whether the applied notification was sent again
	Notified bool `json:"notified"`
}

// ResolveResult represents the result of resolving a conflict.
type ResolveResult struct {
	// Outcome describes which batches and actions changed
	Outcome *resolver.Outcome `json:"outcome"`

	// Dismissed are batches emptied by the resolution
	Dismissed []string `json:"dismissed,omitempty"`
}
