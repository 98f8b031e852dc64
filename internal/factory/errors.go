package factory

import "errors"

var (
	// ErrEmptyProposal indicates a builder was given nothing to propose.
	ErrEmptyProposal = errors.New("empty proposal")

	// ErrUnknownKind indicates a proposal kind no builder handles.
	ErrUnknownKind = errors.New("unknown proposal kind")
)
