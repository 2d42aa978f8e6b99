// Package scanner implements the concurrent scan engine: it enumerates
// a directory tree, dispatches per-file classify and read tasks across a
// bounded worker pool, aggregates thread-safe counters and progress
// events, and assembles the final result set despite filesystem errors
// and partial failures.
package scanner

import (
	"github.com/dhalloway/textgrab/pkg/textgrab/cache"
	"github.com/dhalloway/textgrab/pkg/textgrab/policy"
	"github.com/dhalloway/textgrab/pkg/textgrab/reader"
	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// Worker pool bounds. Counts outside the range are clamped.
const (
	DefaultWorkers = 4
	MinWorkers     = 1
	MaxWorkers     = 16
)

// Options configures the scan engine.
type Options struct {
	// Root is the directory to scan. It must exist and be a directory;
	// anything else is a fatal error reported before any dispatch.
	Root string

	// Policy holds the inclusion/exclusion rules. The engine snapshots
	// it at scan start, so concurrent mutation by a UI cannot tear a
	// running scan. Nil gets an empty permissive policy.
	Policy *policy.Policy

	// Workers is the size of the worker pool, clamped to
	// [MinWorkers, MaxWorkers]. Zero means DefaultWorkers.
	Workers int

	// ChunkSize is the read chunk size in bytes for bounded file reads.
	// Zero means reader.DefaultChunkSize.
	ChunkSize int

	// CacheSize bounds the in-memory verdict cache. Zero means
	// cache.DefaultMaxEntries.
	CacheSize int

	// VerdictStore optionally persists classification verdicts across
	// runs. Nil keeps verdicts in memory only.
	VerdictStore *cache.Store

	// OnProgress is called after every completed item and once more at
	// scan completion. It fires from multiple worker goroutines
	// concurrently; receivers must serialize their own rendering.
	OnProgress func(types.Progress)
}

// Validate applies defaults and clamps the worker count.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Policy == nil {
		o.Policy = &policy.Policy{}
	}
	switch {
	case o.Workers == 0:
		o.Workers = DefaultWorkers
	case o.Workers < MinWorkers:
		o.Workers = MinWorkers
	case o.Workers > MaxWorkers:
		o.Workers = MaxWorkers
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = reader.DefaultChunkSize
	}
	if o.CacheSize <= 0 {
		o.CacheSize = cache.DefaultMaxEntries
	}
	return nil
}
