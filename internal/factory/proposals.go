package factory

import (
	"fmt"

	"github.com/danieljhkim/previewdeck/internal/preview"
)

// RestaurantRequest proposes adding one restaurant.
type RestaurantRequest struct {
	Restaurant   preview.Item       `json:"restaurant" yaml:"restaurant"`
	Reason       string             `json:"reason,omitempty" yaml:"reason,omitempty"`
	Explanation  string             `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	AffectedDate string             `json:"affectedDate,omitempty" yaml:"affectedDate,omitempty"`
	Conflicts    []preview.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// RestaurantAdd builds a single-action batch adding a restaurant.
func (b *Builder) RestaurantAdd(req RestaurantRequest) (*preview.Batch, error) {
	batch, err := b.build(draft{
		summary:      fmt.Sprintf("Add %s", req.Restaurant.Name),
		explanation:  req.Explanation,
		affectedDate: req.AffectedDate,
		entity:       preview.EntityRestaurant,
		lines: []Line{{
			Item:      req.Restaurant,
			Conflicts: req.Conflicts,
			Reason:    req.Reason,
		}},
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// EventRequest proposes adding one event, optionally with conflicts the
// agent already detected against the itinerary.
type EventRequest struct {
	Event        preview.Item       `json:"event" yaml:"event"`
	Reason       string             `json:"reason,omitempty" yaml:"reason,omitempty"`
	Explanation  string             `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	AffectedDate string             `json:"affectedDate,omitempty" yaml:"affectedDate,omitempty"`
	Conflicts    []preview.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// EventAdd builds a single-action batch adding an event.
func (b *Builder) EventAdd(req EventRequest) (*preview.Batch, error) {
	batch, err := b.build(draft{
		summary:      fmt.Sprintf("Add %s", req.Event.Name),
		explanation:  req.Explanation,
		affectedDate: req.AffectedDate,
		entity:       preview.EntityEvent,
		lines: []Line{{
			Item:      req.Event,
			Conflicts: req.Conflicts,
			Reason:    req.Reason,
		}},
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// TripModifyRequest proposes a set of edits to a trip itinerary.
type TripModifyRequest struct {
	Summary           string             `json:"summary" yaml:"summary"`
	Explanation       string             `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	AffectedDate      string             `json:"affectedDate,omitempty" yaml:"affectedDate,omitempty"`
	Lines             []Line             `json:"lines" yaml:"lines"`
	Conflicts         []preview.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	AllowPartialApply bool               `json:"allowPartialApply" yaml:"allowPartialApply"`
}

// TripModify builds a batch of add, remove, modify, reorder and reschedule
// lines against trip activities.
func (b *Builder) TripModify(req TripModifyRequest) (*preview.Batch, error) {
	summary := req.Summary
	if summary == "" {
		summary = fmt.Sprintf("Update trip (%d changes)", len(req.Lines))
	}
	batch, err := b.build(draft{
		summary:      summary,
		explanation:  req.Explanation,
		affectedDate: req.AffectedDate,
		entity:       preview.EntityTripActivity,
		lines:        req.Lines,
		conflicts:    req.Conflicts,
		partial:      req.AllowPartialApply,
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// RentalCompareRequest proposes a side-by-side comparison of rentals.
type RentalCompareRequest struct {
	Summary      string             `json:"summary,omitempty" yaml:"summary,omitempty"`
	Explanation  string             `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	AffectedDate string             `json:"affectedDate,omitempty" yaml:"affectedDate,omitempty"`
	Rentals      []preview.Item     `json:"rentals" yaml:"rentals"`
	Conflicts    []preview.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// RentalCompare builds one compare action per rental. The user may shortlist
// a subset, so partial apply is allowed.
func (b *Builder) RentalCompare(req RentalCompareRequest) (*preview.Batch, error) {
	summary := req.Summary
	if summary == "" {
		summary = fmt.Sprintf("Compare %d rentals", len(req.Rentals))
	}
	lines := make([]Line, len(req.Rentals))
	for i, r := range req.Rentals {
		lines[i] = Line{Type: preview.ActionCompare, Item: r}
	}
	batch, err := b.build(draft{
		summary:      summary,
		explanation:  req.Explanation,
		affectedDate: req.AffectedDate,
		entity:       preview.EntityRental,
		lines:        lines,
		conflicts:    req.Conflicts,
		partial:      true,
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// Option is one complete proposal inside a multi-option batch.
type Option struct {
	Summary      string `json:"summary" yaml:"summary"`
	Explanation  string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	AffectedDate string `json:"affectedDate,omitempty" yaml:"affectedDate,omitempty"`
	Lines        []Line `json:"lines" yaml:"lines"`
}

// MultiOption bundles mutually exclusive proposals. The first option becomes
// the primary batch and the rest its alternatives; applying one discards the
// others.
func (b *Builder) MultiOption(options []Option) (*preview.Batch, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: no options", ErrEmptyProposal)
	}

	batches := make([]preview.Batch, len(options))
	for i, opt := range options {
		batch, err := b.build(draft{
			summary:      opt.Summary,
			explanation:  opt.Explanation,
			affectedDate: opt.AffectedDate,
			entity:       preview.EntityTripActivity,
			lines:        opt.Lines,
		})
		if err != nil {
			return nil, fmt.Errorf("option %d: %w", i+1, err)
		}
		batches[i] = batch
	}

	primary := batches[0]
	if len(batches) > 1 {
		primary.Alternatives = batches[1:]
	}
	primary.RequiresUserChoice = len(primary.Alternatives) > 0

	if err := primary.Validate(); err != nil {
		return nil, err
	}
	return &primary, nil
}
