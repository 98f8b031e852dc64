package preview

import (
	"fmt"
	"time"
)

// ActionType is the kind of change an action proposes.
type ActionType string

const (
	ActionAdd        ActionType = "add"
	ActionRemove     ActionType = "remove"
	ActionModify     ActionType = "modify"
	ActionReplace    ActionType = "replace"
	ActionReorder    ActionType = "reorder"
	ActionReschedule ActionType = "reschedule"
	ActionCompare    ActionType = "compare"
	ActionReserve    ActionType = "reserve"
)

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	switch t {
	case ActionAdd, ActionRemove, ActionModify, ActionReplace,
		ActionReorder, ActionReschedule, ActionCompare, ActionReserve:
		return true
	default:
		return false
	}
}

// RequiresPrevious reports whether actions of this type must carry the item
// they change.
func (t ActionType) RequiresPrevious() bool {
	switch t {
	case ActionModify, ActionReplace, ActionReschedule:
		return true
	case ActionAdd, ActionRemove, ActionReorder, ActionCompare, ActionReserve:
		return false
	default:
		return false
	}
}

// RequiresIndices reports whether actions of this type must carry from/to
// positions.
func (t ActionType) RequiresIndices() bool {
	switch t {
	case ActionReorder:
		return true
	case ActionAdd, ActionRemove, ActionModify, ActionReplace,
		ActionReschedule, ActionCompare, ActionReserve:
		return false
	default:
		return false
	}
}

// UnmarshalText rejects values outside the closed set.
func (t *ActionType) UnmarshalText(text []byte) error {
	v := ActionType(text)
	if !v.Valid() {
		return fmt.Errorf("%w: action type %q", ErrUnknownValue, text)
	}
	*t = v
	return nil
}

// EntityType is the kind of trip entity an action targets.
type EntityType string

const (
	EntityTripActivity EntityType = "trip_activity"
	EntityEvent        EntityType = "event"
	EntityRental       EntityType = "rental"
	EntityRestaurant   EntityType = "restaurant"
	EntityTravel       EntityType = "travel"
	EntityFlexTime     EntityType = "flex_time"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTripActivity, EntityEvent, EntityRental, EntityRestaurant,
		EntityTravel, EntityFlexTime:
		return true
	default:
		return false
	}
}

// UnmarshalText rejects values outside the closed set.
func (t *EntityType) UnmarshalText(text []byte) error {
	v := EntityType(text)
	if !v.Valid() {
		return fmt.Errorf("%w: entity type %q", ErrUnknownValue, text)
	}
	*t = v
	return nil
}

// Action is one atomic proposed change targeting one entity.
type Action struct {
	ID           string     `json:"id" yaml:"id"`
	Type         ActionType `json:"type" yaml:"type"`
	EntityType   EntityType `json:"entityType" yaml:"entityType"`
	Item         Item       `json:"item" yaml:"item"`
	PreviousItem *Item      `json:"previousItem,omitempty" yaml:"previousItem,omitempty"`
	FromIndex    *int       `json:"fromIndex,omitempty" yaml:"fromIndex,omitempty"`
	ToIndex      *int       `json:"toIndex,omitempty" yaml:"toIndex,omitempty"`
	Conflicts    []Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Timestamp    time.Time  `json:"timestamp" yaml:"timestamp"`
	AgentName    string     `json:"agentName,omitempty" yaml:"agentName,omitempty"`
	Reason       string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Clone returns a deep copy of the action.
func (a Action) Clone() Action {
	out := a
	out.Item = a.Item.Clone()
	if a.PreviousItem != nil {
		prev := a.PreviousItem.Clone()
		out.PreviousItem = &prev
	}
	if a.FromIndex != nil {
		from := *a.FromIndex
		out.FromIndex = &from
	}
	if a.ToIndex != nil {
		to := *a.ToIndex
		out.ToIndex = &to
	}
	out.Conflicts = cloneConflicts(a.Conflicts)
	return out
}

// HasConflict reports whether the action carries the conflict id.
func (a Action) HasConflict(id string) bool {
	for _, c := range a.Conflicts {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Validate enforces the shape invariants for the action's type:
// a previous item exactly for modify, replace and reschedule, and
// from/to indices exactly for reorder.
func (a Action) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAction)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: action %s has type %q", ErrInvalidAction, a.ID, a.Type)
	}
	if !a.EntityType.Valid() {
		return fmt.Errorf("%w: action %s has entity type %q", ErrInvalidAction, a.ID, a.EntityType)
	}
	if err := a.Item.Validate(); err != nil {
		return fmt.Errorf("%w: action %s: %v", ErrInvalidAction, a.ID, err)
	}

	hasPrevious := a.PreviousItem != nil
	if a.Type.RequiresPrevious() != hasPrevious {
		if hasPrevious {
			return fmt.Errorf("%w: %s action %s must not carry a previous item", ErrInvalidAction, a.Type, a.ID)
		}
		return fmt.Errorf("%w: %s action %s requires a previous item", ErrInvalidAction, a.Type, a.ID)
	}
	if hasPrevious {
		if err := a.PreviousItem.Validate(); err != nil {
			return fmt.Errorf("%w: action %s previous item: %v", ErrInvalidAction, a.ID, err)
		}
	}

	hasIndices := a.FromIndex != nil || a.ToIndex != nil
	if a.Type.RequiresIndices() {
		if a.FromIndex == nil || a.ToIndex == nil {
			return fmt.Errorf("%w: reorder action %s requires from and to indices", ErrInvalidAction, a.ID)
		}
		if *a.FromIndex < 0 || *a.ToIndex < 0 {
			return fmt.Errorf("%w: reorder action %s has negative index", ErrInvalidAction, a.ID)
		}
	} else if hasIndices {
		return fmt.Errorf("%w: %s action %s must not carry indices", ErrInvalidAction, a.Type, a.ID)
	}

	for _, c := range a.Conflicts {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: action %s: %v", ErrInvalidAction, a.ID, err)
		}
	}
	return nil
}
