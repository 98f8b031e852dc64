// Package preview defines the data model for agent-proposed changes.
//
// A Batch groups the Actions an agent proposes together. Each Action targets a
// single Item and may carry Conflicts detected against committed trip state.
// The model is value-oriented: transformations return copies, and the closed
// enumerations (ActionType, EntityType, Severity, ConflictType, Status) are
// matched exhaustively wherever behavior depends on them.
//
// Key concepts:
//   - Item: the place, activity or event a change refers to
//   - Conflict: a flagged incompatibility carrying a Severity
//   - Action: one atomic proposed change
//   - Batch: an ordered group of actions with a lifecycle Status
package preview
