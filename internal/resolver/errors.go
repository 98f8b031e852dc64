package resolver

import "errors"

var (
	// ErrConflictNotFound indicates no active batch carries the conflict id.
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrBatchNotFound indicates the batch is not pending.
	ErrBatchNotFound = errors.New("batch not found")

	// ErrForceBlocking indicates an attempt to force past a blocking conflict.
	ErrForceBlocking = errors.New("cannot force a blocking conflict")

	// ErrInvalidStrategy indicates an unknown resolution strategy.
	ErrInvalidStrategy = errors.New("invalid resolution strategy")

	// ErrPatchRequired indicates the strategy needs replacement values.
	ErrPatchRequired = errors.New("resolution requires new values")
)
