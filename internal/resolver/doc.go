// Package resolver applies user-chosen resolutions to conflicts carried by
// pending preview batches.
//
// Resolution is batch-wide: a conflict id is removed from every active batch,
// action and alternative that carries it. The resolver never detects new
// conflicts.
//
// Strategies:
//   - skip: drop every action carrying the conflict
//   - force: keep the items unchanged (refused for blocking conflicts)
//   - reschedule: patch the item's time (a time is required)
//   - replace: patch the item with caller-supplied values (required)
//   - adjust: patch the item if values are given, otherwise just clear
//
// Resolve works on a copy and returns the updated state, so a failed
// resolution never leaves a half-applied state behind.
package resolver
