// Package factory assembles preview batches for the proposing agent.
//
// Builders are pure apart from id and timestamp generation: every batch they
// return mirrors its input order, aggregates per-action conflicts onto the
// batch, sums the announced costs and durations, and is checked against the
// batch invariants before it is handed back. A producer mistake such as a
// reorder line without indices fails here, not at apply time.
package factory
