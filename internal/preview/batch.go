package preview

import (
	"fmt"
	"slices"
	"time"
)

// Status is the lifecycle state of a batch.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApplied   Status = "applied"
	StatusDismissed Status = "dismissed"
	StatusUndone    Status = "undone"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApplied, StatusDismissed, StatusUndone:
		return true
	default:
		return false
	}
}

// UnmarshalText rejects values outside the closed set.
func (s *Status) UnmarshalText(text []byte) error {
	v := Status(text)
	if !v.Valid() {
		return fmt.Errorf("%w: status %q", ErrUnknownValue, text)
	}
	*s = v
	return nil
}

// Batch is an ordered group of related actions proposed together by one agent.
type Batch struct {
	ID            string     `json:"id" yaml:"id"`
	AgentName     string     `json:"agentName" yaml:"agentName"`
	Summary       string     `json:"summary" yaml:"summary"`
	Explanation   string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Actions       []Action   `json:"actions" yaml:"actions"`
	TotalCost     string     `json:"totalCost,omitempty" yaml:"totalCost,omitempty"`
	TotalDuration string     `json:"totalDuration,omitempty" yaml:"totalDuration,omitempty"`
	AffectedDate  string     `json:"affectedDate,omitempty" yaml:"affectedDate,omitempty"`
	Conflicts     []Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Status        Status     `json:"status" yaml:"status"`
	CreatedAt     time.Time  `json:"createdAt" yaml:"createdAt"`
	AppliedAt     *time.Time `json:"appliedAt,omitempty" yaml:"appliedAt,omitempty"`
	DismissedAt   *time.Time `json:"dismissedAt,omitempty" yaml:"dismissedAt,omitempty"`

	// AppliedActionIDs lists the actions reported as committed on apply.
	AppliedActionIDs []string `json:"appliedActionIds,omitempty" yaml:"appliedActionIds,omitempty"`

	AllowPartialApply  bool    `json:"allowPartialApply" yaml:"allowPartialApply"`
	RequiresUserChoice bool    `json:"requiresUserChoice" yaml:"requiresUserChoice"`
	Alternatives       []Batch `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// Clone returns a deep copy of the batch, alternatives included.
func (b Batch) Clone() Batch {
	out := b
	if b.Actions != nil {
		out.Actions = make([]Action, len(b.Actions))
		for i, a := range b.Actions {
			out.Actions[i] = a.Clone()
		}
	}
	out.Conflicts = cloneConflicts(b.Conflicts)
	if b.AppliedAt != nil {
		t := *b.AppliedAt
		out.AppliedAt = &t
	}
	if b.DismissedAt != nil {
		t := *b.DismissedAt
		out.DismissedAt = &t
	}
	out.AppliedActionIDs = slices.Clone(b.AppliedActionIDs)
	if b.Alternatives != nil {
		out.Alternatives = make([]Batch, len(b.Alternatives))
		for i, alt := range b.Alternatives {
			out.Alternatives[i] = alt.Clone()
		}
	}
	return out
}

// AsPending returns a copy re-offered for review: pending status with the
// lifecycle timestamps and applied ids cleared.
func (b Batch) AsPending() Batch {
	out := b.Clone()
	out.Status = StatusPending
	out.AppliedAt = nil
	out.DismissedAt = nil
	out.AppliedActionIDs = nil
	return out
}

// IsExclusiveChoice reports whether the batch bundles mutually exclusive
// alternatives the user must choose between.
func (b Batch) IsExclusiveChoice() bool {
	return b.RequiresUserChoice && len(b.Alternatives) > 0
}

// AllConflicts returns batch-level conflicts followed by action-level ones,
// deduplicated by id.
func (b Batch) AllConflicts() []Conflict {
	sets := make([][]Conflict, 0, len(b.Actions)+1)
	sets = append(sets, b.Conflicts)
	for _, a := range b.Actions {
		sets = append(sets, a.Conflicts)
	}
	return MergeConflicts(sets...)
}

// WorstSeverity returns the most serious severity across all conflicts.
func (b Batch) WorstSeverity() Severity {
	return WorstSeverity(b.AllConflicts())
}

// IsBlocking reports whether any batch-level or action-level conflict is
// blocking. Apply is rejected for the whole batch in that case.
func (b Batch) IsBlocking() bool {
	if slices.ContainsFunc(b.Conflicts, Conflict.IsBlocking) {
		return true
	}
	for _, a := range b.Actions {
		if slices.ContainsFunc(a.Conflicts, Conflict.IsBlocking) {
			return true
		}
	}
	return false
}

// ActionIDs returns the ids of the batch's actions in order.
func (b Batch) ActionIDs() []string {
	ids := make([]string, len(b.Actions))
	for i, a := range b.Actions {
		ids[i] = a.ID
	}
	return ids
}

// HasAction reports whether the batch contains the action id.
func (b Batch) HasAction(id string) bool {
	return slices.ContainsFunc(b.Actions, func(a Action) bool { return a.ID == id })
}

// FindConflict looks up a conflict anywhere in the batch.
func (b Batch) FindConflict(id string) (Conflict, bool) {
	for _, c := range b.AllConflicts() {
		if c.ID == id {
			return c, true
		}
	}
	return Conflict{}, false
}

// Validate enforces the producer contract: identity, a non-empty valid action
// list, known enumerations, and lifecycle timestamps that match the status.
func (b Batch) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBatch)
	}
	if len(b.Actions) == 0 {
		return fmt.Errorf("%w: batch %s has no actions", ErrInvalidBatch, b.ID)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: batch %s has status %q", ErrInvalidBatch, b.ID, b.Status)
	}

	seen := make(map[string]struct{}, len(b.Actions))
	for _, a := range b.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: batch %s: %v", ErrInvalidBatch, b.ID, err)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: batch %s has duplicate action %s", ErrInvalidBatch, b.ID, a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	for _, c := range b.Conflicts {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: batch %s: %v", ErrInvalidBatch, b.ID, err)
		}
	}

	if (b.AppliedAt != nil) != (b.Status == StatusApplied) {
		return fmt.Errorf("%w: batch %s appliedAt does not match status %s", ErrInvalidBatch, b.ID, b.Status)
	}
	if (b.DismissedAt != nil) != (b.Status == StatusDismissed) {
		return fmt.Errorf("%w: batch %s dismissedAt does not match status %s", ErrInvalidBatch, b.ID, b.Status)
	}

	ids := map[string]struct{}{b.ID: {}}
	for _, alt := range b.Alternatives {
		if alt.ID == b.ID {
			return fmt.Errorf("%w: batch %s lists itself as an alternative", ErrInvalidBatch, b.ID)
		}
		if _, dup := ids[alt.ID]; dup {
			return fmt.Errorf("%w: batch %s lists alternative %s twice", ErrInvalidBatch, b.ID, alt.ID)
		}
		ids[alt.ID] = struct{}{}
		if alt.Status != StatusPending {
			return fmt.Errorf("%w: alternative %s has status %s, want pending", ErrInvalidBatch, alt.ID, alt.Status)
		}
		if len(alt.Alternatives) > 0 {
			return fmt.Errorf("%w: alternative %s has nested alternatives", ErrInvalidBatch, alt.ID)
		}
		if err := alt.Validate(); err != nil {
			return fmt.Errorf("%w: alternative of %s: %v", ErrInvalidBatch, b.ID, err)
		}
	}
	return nil
}
