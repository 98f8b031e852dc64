package preview

import (
	"fmt"
	"slices"
)

// Severity ranks how serious a conflict is.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityBlocking Severity = "blocking"
)

// Severities lists every severity from least to most serious.
var Severities = []Severity{SeverityNone, SeverityMinor, SeverityMajor, SeverityBlocking}

// Rank returns the ordinal of the severity: none < minor < major < blocking.
// Unknown severities rank below none.
func (s Severity) Rank() int {
	switch s {
	case SeverityNone:
		return 0
	case SeverityMinor:
		return 1
	case SeverityMajor:
		return 2
	case SeverityBlocking:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool { return s.Rank() >= 0 }

// AtLeast reports whether s is at least as serious as other.
func (s Severity) AtLeast(other Severity) bool { return s.Rank() >= other.Rank() }

// UnmarshalText rejects values outside the closed set.
func (s *Severity) UnmarshalText(text []byte) error {
	v := Severity(text)
	if !v.Valid() {
		return fmt.Errorf("%w: severity %q", ErrUnknownValue, text)
	}
	*s = v
	return nil
}

// ConflictType classifies what kind of problem a conflict describes.
type ConflictType string

const (
	ConflictTimeOverlap      ConflictType = "time_overlap"
	ConflictLocationDistance ConflictType = "location_distance"
	ConflictBudgetExceeded   ConflictType = "budget_exceeded"
	ConflictAvailability     ConflictType = "availability"
	ConflictCapacity         ConflictType = "capacity"
)

// Valid reports whether t is a known conflict type.
func (t ConflictType) Valid() bool {
	switch t {
	case ConflictTimeOverlap, ConflictLocationDistance, ConflictBudgetExceeded,
		ConflictAvailability, ConflictCapacity:
		return true
	default:
		return false
	}
}

// UnmarshalText rejects values outside the closed set.
func (t *ConflictType) UnmarshalText(text []byte) error {
	v := ConflictType(text)
	if !v.Valid() {
		return fmt.Errorf("%w: conflict type %q", ErrUnknownValue, text)
	}
	*t = v
	return nil
}

// ConflictingItem identifies the committed item a proposal collides with.
type ConflictingItem struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Time     string `json:"time,omitempty" yaml:"time,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Conflict is a problem between a proposed item and existing committed state.
// The proposing agent computes it; the engine only carries and resolves it.
type Conflict struct {
	ID              string          `json:"id" yaml:"id"`
	Severity        Severity        `json:"severity" yaml:"severity"`
	Type            ConflictType    `json:"type" yaml:"type"`
	Message         string          `json:"message" yaml:"message"`
	ConflictingItem ConflictingItem `json:"conflictingItem" yaml:"conflictingItem"`
	Suggestions     []string        `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	AutoResolvable  bool            `json:"autoResolvable" yaml:"autoResolvable"`
}

// Clone returns a deep copy of the conflict.
func (c Conflict) Clone() Conflict {
	out := c
	out.Suggestions = slices.Clone(c.Suggestions)
	return out
}

// IsBlocking reports whether the conflict prevents apply.
func (c Conflict) IsBlocking() bool { return c.Severity == SeverityBlocking }

// Validate checks the conflict's identity and enumerations.
func (c Conflict) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidConflict)
	}
	if !c.Severity.Valid() {
		return fmt.Errorf("%w: conflict %s has severity %q", ErrInvalidConflict, c.ID, c.Severity)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: conflict %s has type %q", ErrInvalidConflict, c.ID, c.Type)
	}
	return nil
}

// WorstSeverity returns the most serious severity among conflicts,
// or SeverityNone when there are none.
func WorstSeverity(conflicts []Conflict) Severity {
	worst := SeverityNone
	for _, c := range conflicts {
		if c.Severity.Rank() > worst.Rank() {
			worst = c.Severity
		}
	}
	return worst
}

// MergeConflicts returns the union of the given sets, keyed by conflict id.
// The first occurrence of an id wins and input order is preserved.
func MergeConflicts(sets ...[]Conflict) []Conflict {
	seen := make(map[string]struct{})
	out := []Conflict{}
	for _, set := range sets {
		for _, c := range set {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c.Clone())
		}
	}
	return out
}

// WithoutConflict returns conflicts minus the one with the given id, and
// whether anything was removed.
func WithoutConflict(conflicts []Conflict, id string) ([]Conflict, bool) {
	out := make([]Conflict, 0, len(conflicts))
	removed := false
	for _, c := range conflicts {
		if c.ID == id {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out, removed
}

func cloneConflicts(conflicts []Conflict) []Conflict {
	if conflicts == nil {
		return nil
	}
	out := make([]Conflict, len(conflicts))
	for i, c := range conflicts {
		out[i] = c.Clone()
	}
	return out
}
