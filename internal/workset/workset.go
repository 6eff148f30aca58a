// Package workset implements the durable, unordered, deduplicated
// multiset that is the only inter-stage IPC in the pipeline (spec §4.1).
// Entries are opaque, already-serialized records; a Set neither knows
// nor cares whether it carries Links or Documents.
package workset

import "context"

// Set is a durable unordered multiset of serialized entries. Identical
// entries collapse on insert; PopMany removes and returns an arbitrary
// subset, with no ordering guarantee (spec §4.1, §5 "Ordering guarantees").
type Set interface {
	// Size returns the set's current cardinality.
	Size(ctx context.Context) (int64, error)

	// AddMany inserts entries, deduplicating identical ones. A nil or
	// empty slice is a no-op.
	AddMany(ctx context.Context, entries [][]byte) error

	// PopMany atomically removes and returns up to n entries. It
	// returns fewer than n (possibly zero) once the set is exhausted.
	PopMany(ctx context.Context, n int64) ([][]byte, error)
}
