package engine

import "github.com/danieljhkim/previewdeck/internal/resolver"

// ApplyRequest represents a request to apply a pending batch.
type ApplyRequest struct {
	// BatchID is the batch to apply, either a pending batch or one of the
	// alternatives of a pending exclusive-choice group
	BatchID string `json:"batchId"`

	// ActionIDs optionally selects the actions to commit. Nil falls back to
	// the stored selection. Ignored when the batch disallows partial apply.
	ActionIDs []string `json:"actionIds,omitempty"`
}

// ResolveRequest represents a request to resolve one conflict.
type ResolveRequest struct {
	// ConflictID is the conflict to resolve across every pending batch
	ConflictID string `json:"conflictId"`

	// Resolution is the chosen strategy and replacement values
	Resolution resolver.Resolution `json:"resolution"`
}

// ApplyFailedRequest reports that committing an applied batch failed.
type ApplyFailedRequest struct {
	// BatchID is the applied batch
	BatchID string `json:"batchId"`

	// Reason is shown to the user
	Reason string `json:"reason"`
}
