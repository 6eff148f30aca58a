// Package visited implements the advisory visited-set: a flat key space
// of doc_ids the spider has enqueued or descended into (spec §3, §4.1).
// It is advisory only — wiped by --reset, never part of the crash-safety
// argument (§9).
package visited

import "context"

// Set records which doc_ids have already been enqueued by the spider.
type Set interface {
	// Mark records key as visited, idempotently.
	Mark(ctx context.Context, key string) error

	// MarkMany records multiple keys in one round trip.
	MarkMany(ctx context.Context, keys []string) error

	// Exists reports whether key has already been marked.
	Exists(ctx context.Context, key string) (bool, error)

	// Reset removes every key, used by --reset (spider.py's reset()).
	Reset(ctx context.Context) error
}
