package engine

import "errors"

var (
	// ErrNotFound indicates the batch is not where the operation needs it:
	// pending for apply and dismiss, on the undo stack for undo, on the redo
	// stack for redo.
	ErrNotFound = errors.New("not found")

	// ErrBlocked indicates apply was refused because of a blocking conflict.
	ErrBlocked = errors.New("blocked by conflict")

	// ErrNoSelection indicates apply was attempted with no actions selected.
	ErrNoSelection = errors.New("no actions selected")

	// ErrPartialNotAllowed indicates a selection change on a batch that must
	// be applied as a whole.
	ErrPartialNotAllowed = errors.New("partial apply not allowed")

	// ErrValidation indicates a malformed request or batch.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate indicates a batch id already known to the engine.
	ErrDuplicate = errors.New("duplicate batch")
)
