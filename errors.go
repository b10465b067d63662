package cmap

import "errors"

// Sentinel panic payloads for precondition violations (§7: these are
// programmer errors, not recoverable control flow, and are never returned
// from any operation).
var (
	// ErrSplitAtLevelZero is raised when a leaf at level 0 overflows its
	// bucket. Under I1 and a well-behaved merge this cannot happen: it
	// would mean more than 2^D entries share a coordinate identical in
	// every bit.
	ErrSplitAtLevelZero = errors.New("cmap: split attempted at level 0")

	// ErrInvalidWidth is raised by New when width is not one of the
	// supported component widths.
	ErrInvalidWidth = errors.New("cmap: width must be one of 8, 16, 32, 64, 128, 256")

	// ErrInvalidDimension is raised by New when dim is outside [1, 8].
	ErrInvalidDimension = errors.New("cmap: dimension must be in [1, 8]")

	// ErrIteratorInvalidated is raised, while debugIterators is set (the
	// default), when an iterator derived before a mutating call (Insert,
	// Erase, Resize, Prune, Clear) is dereferenced or advanced afterwards.
	ErrIteratorInvalidated = errors.New("cmap: iterator invalidated by a structural change")
)
