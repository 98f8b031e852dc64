package factory

import (
	"fmt"
	"time"

	"github.com/danieljhkim/previewdeck/internal/clock"
	"github.com/danieljhkim/previewdeck/internal/preview"
)

// DefaultAgentName labels batches when no agent name is configured.
const DefaultAgentName = "Concierge"

// Builder constructs preview batches on behalf of one proposing agent.
type Builder struct {
	clock     clock.Clock
	ids       IDGenerator
	agentName string
}

// NewBuilder creates a Builder. A nil clock or generator falls back to the
// real clock and random ids.
func NewBuilder(clk clock.Clock, ids IDGenerator, agentName string) *Builder {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	if ids == nil {
		ids = NewRandomIDs()
	}
	if agentName == "" {
		agentName = DefaultAgentName
	}
	return &Builder{clock: clk, ids: ids, agentName: agentName}
}

// AgentName returns the name stamped on built batches.
func (b *Builder) AgentName() string {
	return b.agentName
}

// Line is one proposed change inside a batch.
type Line struct {
	// Type is the operation; defaults to add
	Type preview.ActionType `json:"type,omitempty" yaml:"type,omitempty"`

	// EntityType is the target kind; defaults to the builder's entity
	EntityType preview.EntityType `json:"entityType,omitempty" yaml:"entityType,omitempty"`

	// Item is the proposed item
	Item preview.Item `json:"item" yaml:"item"`

	// Previous is the item being changed (modify, replace, reschedule)
	Previous *preview.Item `json:"previous,omitempty" yaml:"previous,omitempty"`

	// FromIndex and ToIndex position a reorder
	FromIndex *int `json:"fromIndex,omitempty" yaml:"fromIndex,omitempty"`
	ToIndex   *int `json:"toIndex,omitempty" yaml:"toIndex,omitempty"`

	// Conflicts seeds the action's conflicts; missing ids are generated
	Conflicts []preview.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`

	// Reason explains the change to the user
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// draft holds everything needed to assemble one batch.
type draft struct {
	summary      string
	explanation  string
	affectedDate string
	entity       preview.EntityType
	lines        []Line
	conflicts    []preview.Conflict
	partial      bool
}

func (b *Builder) build(d draft) (preview.Batch, error) {
	if len(d.lines) == 0 {
		return preview.Batch{}, fmt.Errorf("%w: %q has no lines", ErrEmptyProposal, d.summary)
	}

	now := b.clock.Now()
	batch := preview.Batch{
		ID:                b.ids.BatchID(now),
		AgentName:         b.agentName,
		Summary:           d.summary,
		Explanation:       d.explanation,
		AffectedDate:      d.affectedDate,
		Actions:           make([]preview.Action, 0, len(d.lines)),
		Status:            preview.StatusPending,
		CreatedAt:         now,
		AllowPartialApply: d.partial,
	}

	costs := make([]string, 0, len(d.lines))
	durations := make([]string, 0, len(d.lines))
	perAction := make([][]preview.Conflict, 0, len(d.lines)+1)
	perAction = append(perAction, b.withIDs(d.conflicts))

	for _, line := range d.lines {
		action := b.action(line, d.entity, now)
		batch.Actions = append(batch.Actions, action)
		perAction = append(perAction, action.Conflicts)
		costs = append(costs, action.Item.Cost)
		durations = append(durations, action.Item.Duration)
	}

	batch.Conflicts = preview.MergeConflicts(perAction...)
	batch.TotalCost = SumCosts(costs)
	batch.TotalDuration = SumDurations(durations)

	if err := batch.Validate(); err != nil {
		return preview.Batch{}, err
	}
	return batch, nil
}

func (b *Builder) action(line Line, entity preview.EntityType, now time.Time) preview.Action {
	typ := line.Type
	if typ == "" {
		typ = preview.ActionAdd
	}
	if line.EntityType != "" {
		entity = line.EntityType
	}

	item := line.Item.Clone()
	if item.ID == "" {
		item.ID = b.ids.NewID()
	}

	action := preview.Action{
		ID:         b.ids.NewID(),
		Type:       typ,
		EntityType: entity,
		Item:       item,
		Conflicts:  b.withIDs(line.Conflicts),
		Timestamp:  now,
		AgentName:  b.agentName,
		Reason:     line.Reason,
	}
	if line.Previous != nil {
		prev := line.Previous.Clone()
		action.PreviousItem = &prev
	}
	if line.FromIndex != nil {
		from := *line.FromIndex
		action.FromIndex = &from
	}
	if line.ToIndex != nil {
		to := *line.ToIndex
		action.ToIndex = &to
	}
	return action
}

// withIDs copies the conflicts, generating ids where the producer left them
// blank and defaulting severity to none.
func (b *Builder) withIDs(conflicts []preview.Conflict) []preview.Conflict {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]preview.Conflict, len(conflicts))
	for i, c := range conflicts {
		c = c.Clone()
		if c.ID == "" {
			c.ID = b.ids.NewID()
		}
		if c.Severity == "" {
			c.Severity = preview.SeverityNone
		}
		out[i] = c
	}
	return out
}
