// SPDX-License-Identifier: MIT

// Package sparse: functional configuration for container construction.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - No dead switches: each option changes observable allocation behavior.
//   - Safe by construction: panic only on nonsensical values (programmer error).
package sparse

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultCapacity is the initial entry capacity of backing stores
	// (Row arrays, Vector map hint, Tensor arena). Zero lets the runtime grow
	// storage on demand.
	DefaultCapacity = 0
)

const panicCapacityInvalid = "sparse: WithCapacity: capacity must be >= 0"

// Option mutates construction options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; constructors resolve them via gatherOptions.
type Options struct {
	capacity int // >= 0; DefaultCapacity
}

// WithCapacity presizes the backing store for n stored entries (or n arena
// nodes for a Tensor).
//
// Behavior highlights:
//   - Purely a performance hint; semantics are unchanged.
//   - Panics with a stable message when n < 0.
//
// Complexity:
//   - Time O(1), Space O(1) (allocation happens in the constructor).
func WithCapacity(n int) Option {
	if n < 0 {
		panic(panicCapacityInvalid)
	}

	return func(o *Options) { o.capacity = n }
}

// gatherOptions applies user setters over defaults; last writer wins.
func gatherOptions(user ...Option) Options {
	o := Options{capacity: DefaultCapacity}
	for _, set := range user {
		set(&o)
	}

	return o
}
