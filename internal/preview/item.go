package preview

import (
	"fmt"
	"maps"
)

// Item describes the place, activity or event a change refers to.
// Optional string fields are empty when absent.
type Item struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Details  string            `json:"details" yaml:"details"`
	Time     string            `json:"time,omitempty" yaml:"time,omitempty"`
	Duration string            `json:"duration,omitempty" yaml:"duration,omitempty"`
	Location string            `json:"location,omitempty" yaml:"location,omitempty"`
	Cost     string            `json:"cost,omitempty" yaml:"cost,omitempty"`
	Notes    string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ItemPatch carries caller-supplied replacement values for an item.
// Nil fields are left untouched.
type ItemPatch struct {
	Name     *string           `json:"name,omitempty" yaml:"name,omitempty"`
	Details  *string           `json:"details,omitempty" yaml:"details,omitempty"`
	Time     *string           `json:"time,omitempty" yaml:"time,omitempty"`
	Duration *string           `json:"duration,omitempty" yaml:"duration,omitempty"`
	Location *string           `json:"location,omitempty" yaml:"location,omitempty"`
	Cost     *string           `json:"cost,omitempty" yaml:"cost,omitempty"`
	Notes    *string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p *ItemPatch) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Name == nil && p.Details == nil && p.Time == nil && p.Duration == nil &&
		p.Location == nil && p.Cost == nil && p.Notes == nil && len(p.Metadata) == 0
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := i
	if i.Metadata != nil {
		out.Metadata = maps.Clone(i.Metadata)
	}
	return out
}

// WithPatch returns a copy of the item with the patch applied.
func (i Item) WithPatch(p *ItemPatch) Item {
	out := i.Clone()
	if p == nil {
		return out
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.Name, p.Name)
	set(&out.Details, p.Details)
	set(&out.Time, p.Time)
	set(&out.Duration, p.Duration)
	set(&out.Location, p.Location)
	set(&out.Cost, p.Cost)
	set(&out.Notes, p.Notes)
	if len(p.Metadata) > 0 {
		if out.Metadata == nil {
			out.Metadata = make(map[string]string, len(p.Metadata))
		}
		maps.Copy(out.Metadata, p.Metadata)
	}
	return out
}

// Validate checks that the item can be identified.
func (i Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if i.Name == "" {
		return fmt.Errorf("%w: item %s has no name", ErrInvalidItem, i.ID)
	}
	return nil
}
