// Package notify carries lifecycle notifications from the preview engine to
// the trip store and anything else that follows committed changes.
//
// Notifications are fire and forget: the engine never consumes a return
// value, and a panicking notifier is recovered and logged by Guard.
package notify

import (
	"github.com/rs/zerolog"
)

// Notifier receives batch lifecycle notifications.
type Notifier interface {
	// OnApplied is called after a batch is applied with the action ids that
	// were actually committed.
	OnApplied(batchID string, actionIDs []string)

	// OnDismissed is called after a batch is dismissed.
	OnDismissed(batchID string)

	// OnUndone is called after an applied batch is undone.
	OnUndone(batchID string)

	// OnApplyFailed is called when the caller reports that committing an
	// applied batch failed and the batch was re-offered.
	OnApplyFailed(batchID string, reason string)
}

// Funcs adapts plain callbacks to a Notifier. Nil callbacks are skipped.
type Funcs struct {
	Applied     func(batchID string, actionIDs []string)
	Dismissed   func(batchID string)
	Undone      func(batchID string)
	ApplyFailed func(batchID string, reason string)
}

// OnApplied calls f.Applied.
func (f Funcs) OnApplied(batchID string, actionIDs []string) {
	if f.Applied != nil {
		f.Applied(batchID, actionIDs)
	}
}

// OnDismissed calls f.Dismissed.
func (f Funcs) OnDismissed(batchID string) {
	if f.Dismissed != nil {
		f.Dismissed(batchID)
	}
}

// OnUndone calls f.Undone.
func (f Funcs) OnUndone(batchID string) {
	if f.Undone != nil {
		f.Undone(batchID)
	}
}

// OnApplyFailed calls f.ApplyFailed.
func (f Funcs) OnApplyFailed(batchID string, reason string) {
	if f.ApplyFailed != nil {
		f.ApplyFailed(batchID, reason)
	}
}

// Log writes every notification to a zerolog logger.
type Log struct {
	logger zerolog.Logger
}

// NewLog creates a Log notifier.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "notify").Logger()}
}

// OnApplied logs the batch and the applied action ids at info level.
func (l *Log) OnApplied(batchID string, actionIDs []string) {
	l.logger.Info().Str("batch_id", batchID).Strs("actions", actionIDs).Msg("batch applied")
}

// OnDismissed logs the dismissal at info level.
func (l *Log) OnDismissed(batchID string) {
	l.logger.Info().Str("batch_id", batchID).Msg("batch dismissed")
}

// OnUndone logs the undo at info level.
func (l *Log) OnUndone(batchID string) {
	l.logger.Info().Str("batch_id", batchID).Msg("batch undone")
}

// OnApplyFailed logs the failure reason at warn level.
func (l *Log) OnApplyFailed(batchID string, reason string) {
	l.logger.Warn().Str("batch_id", batchID).Str("reason", reason).Msg("batch apply failed")
}

// Multi fans each notification out to every notifier in order.
type Multi []Notifier

// OnApplied forwards to each notifier.
func (m Multi) OnApplied(batchID string, actionIDs []string) {
	for _, n := range m {
		n.OnApplied(batchID, actionIDs)
	}
}

// OnDismissed forwards to each notifier.
func (m Multi) OnDismissed(batchID string) {
	for _, n := range m {
		n.OnDismissed(batchID)
	}
}

// OnUndone forwards to each notifier.
func (m Multi) OnUndone(batchID string) {
	for _, n := range m {
		n.OnUndone(batchID)
	}
}

// OnApplyFailed forwards to each notifier.
func (m Multi) OnApplyFailed(batchID string, reason string) {
	for _, n := range m {
		n.OnApplyFailed(batchID, reason)
	}
}

// Guard wraps a notifier so a panic in one callback is logged instead of
// propagating into the engine. Each notifier in a Multi should be guarded
// individually if one failing must not starve the rest.
func Guard(n Notifier, logger zerolog.Logger) Notifier {
	if n == nil {
		return Funcs{}
	}
	return &guarded{next: n, logger: logger}
}

type guarded struct {
	next   Notifier
	logger zerolog.Logger
}

func (g *guarded) catch(event, batchID string) {
	if r := recover(); r != nil {
		g.logger.Error().
			Str("event", event).
			Str("batch_id", batchID).
			Interface("panic", r).
			Msg("notifier panicked")
	}
}

func (g *guarded) OnApplied(batchID string, actionIDs []string) {
	defer g.catch("applied", batchID)
	g.next.OnApplied(batchID, actionIDs)
}

func (g *guarded) OnDismissed(batchID string) {
	defer g.catch("dismissed", batchID)
	g.next.OnDismissed(batchID)
}

func (g *guarded) OnUndone(batchID string) {
	defer g.catch("undone", batchID)
	g.next.OnUndone(batchID)
}

func (g *guarded) OnApplyFailed(batchID string, reason string) {
	defer g.catch("apply_failed", batchID)
	g.next.OnApplyFailed(batchID, reason)
}
