package resolver

import (
	"fmt"

	"github.com/danieljhkim/previewdeck/internal/preview"
)

// Strategy is how the user chose to settle a conflict.
type Strategy string

const (
	StrategySkip       Strategy = "skip"
	StrategyReplace    Strategy = "replace"
	StrategyReschedule Strategy = "reschedule"
	StrategyAdjust     Strategy = "adjust"
	StrategyForce      Strategy = "force"
)

// Strategies lists every strategy.
var Strategies = []Strategy{StrategySkip, StrategyReplace, StrategyReschedule, StrategyAdjust, StrategyForce}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategySkip, StrategyReplace, StrategyReschedule, StrategyAdjust, StrategyForce:
		return true
	default:
		return false
	}
}

// PatchesItem reports whether the strategy rewrites the conflicting items.
func (s Strategy) PatchesItem() bool {
	switch s {
	case StrategyReplace, StrategyReschedule, StrategyAdjust:
		return true
	case StrategySkip, StrategyForce:
		return false
	default:
		return false
	}
}

// UnmarshalText rejects unknown strategies.
func (s *Strategy) UnmarshalText(text []byte) error {
	v := Strategy(text)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, text)
	}
	*s = v
	return nil
}

// Resolution is the user's choice for one conflict.
type Resolution struct {
	// Strategy selects the behavior
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// Patch carries the new values for replace, reschedule and adjust
	Patch *preview.ItemPatch `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// check validates the resolution against the conflict it targets.
func (r Resolution) check(c preview.Conflict) error {
	if !r.Strategy.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, r.Strategy)
	}
	switch r.Strategy {
	case StrategyForce:
		if c.IsBlocking() {
			return fmt.Errorf("%w: %s", ErrForceBlocking, c.ID)
		}
	case StrategyReschedule:
		if r.Patch == nil || r.Patch.Time == nil {
			return fmt.Errorf("%w: reschedule of %s needs a new time", ErrPatchRequired, c.ID)
		}
	case StrategyReplace:
		if r.Patch.IsEmpty() {
			return fmt.Errorf("%w: replace of %s needs replacement values", ErrPatchRequired, c.ID)
		}
	case StrategySkip, StrategyAdjust:
	}
	return nil
}
