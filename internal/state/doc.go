// Package state holds the preview engine's process-wide state and its
// session snapshots.
//
// The state package provides the PreviewState container and the primitive
// stack/list mutations the engine composes into lifecycle transitions. It
// enforces no policy of its own: gating and notifications live in the engine.
// Dev console sessions are persisted as JSON files in the sessions directory.
//
// Key concepts:
//   - PreviewState: active batches, history log, bounded undo stack, redo stack
//   - HistoryEntry: one lifecycle transition, appended and never rewritten
//   - StateStore: Interface for persisting and loading session snapshots
package state
