package preview

import "errors"

var (
	// ErrInvalidItem indicates an item is missing required fields.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidConflict indicates a conflict is malformed.
	ErrInvalidConflict = errors.New("invalid conflict")

	// ErrInvalidAction indicates an action violates its shape invariants.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidBatch indicates a batch violates its shape invariants.
	ErrInvalidBatch = errors.New("invalid batch")

	// ErrUnknownValue indicates an enumeration value outside its closed set.
	ErrUnknownValue = errors.New("unknown value")
)
