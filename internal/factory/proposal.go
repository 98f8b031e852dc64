package factory

import (
	"fmt"

	"github.com/danieljhkim/previewdeck/internal/preview"
)

// Kind names a proposal builder.
type Kind string

const (
	KindRestaurant Kind = "restaurant"
	KindEvent      Kind = "event"
	KindTrip       Kind = "trip"
	KindRental     Kind = "rental"
	KindOptions    Kind = "options"
)

// Kinds lists every proposal kind.
var Kinds = []Kind{KindRestaurant, KindEvent, KindTrip, KindRental, KindOptions}

// Proposal is a serialized builder request, as posted to the dev console or
// read from a proposal file. Only the field matching Kind is used.
type Proposal struct {
	Kind       Kind                  `json:"kind" yaml:"kind"`
	Restaurant *RestaurantRequest    `json:"restaurant,omitempty" yaml:"restaurant,omitempty"`
	Event      *EventRequest         `json:"event,omitempty" yaml:"event,omitempty"`
	Trip       *TripModifyRequest    `json:"trip,omitempty" yaml:"trip,omitempty"`
	Rental     *RentalCompareRequest `json:"rental,omitempty" yaml:"rental,omitempty"`
	Options    []Option              `json:"options,omitempty" yaml:"options,omitempty"`
}

// Build dispatches the proposal to the matching builder.
func (b *Builder) Build(p Proposal) (*preview.Batch, error) {
	switch p.Kind {
	case KindRestaurant:
		if p.Restaurant == nil {
			return nil, fmt.Errorf("%w: restaurant proposal without restaurant", ErrEmptyProposal)
		}
		return b.RestaurantAdd(*p.Restaurant)
	case KindEvent:
		if p.Event == nil {
			return nil, fmt.Errorf("%w: event proposal without event", ErrEmptyProposal)
		}
		return b.EventAdd(*p.Event)
	case KindTrip:
		if p.Trip == nil {
			return nil, fmt.Errorf("%w: trip proposal without lines", ErrEmptyProposal)
		}
		return b.TripModify(*p.Trip)
	case KindRental:
		if p.Rental == nil {
			return nil, fmt.Errorf("%w: rental proposal without rentals", ErrEmptyProposal)
		}
		return b.RentalCompare(*p.Rental)
	case KindOptions:
		return b.MultiOption(p.Options)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
}
