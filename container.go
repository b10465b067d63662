package cmap

import "github.com/rs/zerolog"

// Map is the public container (C7): a resizable coordinate map over a
// hierarchical bit-partitioned tree. The zero Map is not usable; build
// one with New.
type Map[T any] struct {
	cfg     Config
	root    *node[T]
	size    int
	resizes int
	merge   mergeFunc[T]
	log     *logHook

	// version is bumped by every Insert, Erase, Resize, Prune and Clear
	// call (each of which may change the tree's structure) and lets
	// Iterator detect use-after-invalidation while debugIterators is set
	// (§4.6, §7).
	version int
}

// Option configures a Map at construction time.
type Option[T any] func(*Map[T])

// WithLogger attaches a zerolog.Logger that receives Debug-level tracing
// of split/collapse/prune/clear events (C12). It never affects control
// flow.
func WithLogger[T any](l zerolog.Logger) Option[T] {
	return func(m *Map[T]) {
		m.log = &logHook{l: l}
	}
}

// New builds an empty Map for the given width/dimension config and
// merge function. merge(acc, incoming) folds incoming into acc on
// coordinate collision (§6); it must not throw observable errors.
//
// New panics with ErrInvalidWidth or ErrInvalidDimension if cfg is out
// of range — a programmer error per §7, not a recoverable one.
func New[T any](cfg Config, merge func(acc, incoming *T), opts ...Option[T]) *Map[T] {
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	m := &Map[T]{
		cfg:   cfg,
		merge: merge,
	}
	m.root = newLeaf[T](cfg, cfg.rootLevel(), nil)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert inserts v at coordinate c, or merges it into the existing entry
// at c if one is present (§4.2).
func (m *Map[T]) Insert(c Coordinate, v T) {
	res, _, _ := insertAt(m.root, m.cfg, c, v, m.merge, m.log)
	if res == resultAppended {
		m.size++
	}
	// insertAt may have split a leaf; conservatively bump the version
	// on every call rather than threading a "did it split" flag back
	// out, trading a few extra invalidations for a simpler signature.
	m.bumpVersion()
}

// Emplace builds a payload via build() and inserts/merges it exactly as
// Insert would (§4.2). build() is called on every Emplace, including
// when c is already present and the built payload is merged.
func (m *Map[T]) Emplace(c Coordinate, build func() T) {
	m.Insert(c, build())
}

// Find descends to the leaf owning c and linearly scans its bucket,
// returning an iterator to the entry or the end sentinel (§4.7). c is
// taken in the container's current (post-resize) scale; see
// FindAtOriginalScale for the documented convenience that shifts first.
func (m *Map[T]) Find(c Coordinate) Iterator[T] {
	n := descend(m.root, c)
	if i := n.findInBucket(c); i >= 0 {
		return newIterator(m, n, i, false)
	}
	return m.End()
}

// FindAtOriginalScale shifts c right by NumResizes() bits per axis
// before descending, for callers who kept coordinates at the scale
// before any Resize call. The core Find/Contains/Get/Erase family never
// does this shift implicitly (§9's Open Question is resolved in favor
// of caller-supplied post-resize coordinates; this method is the
// explicitly-opted-into alternative, never silently mixed with it).
func (m *Map[T]) FindAtOriginalScale(c Coordinate) Iterator[T] {
	shifted := c
	for i := 0; i < m.resizes; i++ {
		shifted = shifted.ShiftRight1()
	}
	return m.Find(shifted)
}

// Contains reports whether c is present (§4.7).
func (m *Map[T]) Contains(c Coordinate) bool {
	return !m.Find(c).Done()
}

// Get returns a mutable reference to the payload at c, inserting the
// zero value of T first if c is absent (§4.7's operator[]; total, never
// fails). Creating a new entry invalidates like Insert.
func (m *Map[T]) Get(c Coordinate) *T {
	n := descend(m.root, c)
	if i := n.findInBucket(c); i >= 0 {
		return &n.bucket[i].value
	}
	var zero T
	m.Insert(c, zero)
	it := m.Find(c)
	return it.Value()
}

// Erase removes the entry at c, if present, and prunes the root
// (§4.4, §4.7). Returns 1 if an entry was removed, 0 if c was absent.
func (m *Map[T]) Erase(c Coordinate) int {
	if !m.eraseNoPrune(c) {
		return 0
	}
	pruneNode(m.root, m.log)
	m.bumpVersion()
	return 1
}

// EraseIterator removes the entry at it's current position, if it is
// not already the end sentinel, and prunes the root. Returns 1 if an
// entry was removed, 0 if it was the end sentinel.
func (m *Map[T]) EraseIterator(it Iterator[T]) int {
	if it.Done() {
		return 0
	}
	it.n.removeAt(it.pos)
	m.size--
	pruneNode(m.root, m.log)
	m.bumpVersion()
	return 1
}

// EraseRange removes the half-open sequence [first, last) in iteration
// order and prunes the root once at the end. It tolerates
// first and last sharing the same leaf, in which case only the bucket
// positions between them in that leaf are removed. Returns the count
// removed.
func (m *Map[T]) EraseRange(first, last Iterator[T]) int {
	var coords []Coordinate
	cur := first
	for !cur.Done() && !cur.Equal(last) {
		coords = append(coords, cur.Coord())
		cur.Next()
	}
	count := 0
	for _, c := range coords {
		if m.eraseNoPrune(c) {
			count++
		}
	}
	pruneNode(m.root, m.log)
	m.bumpVersion()
	return count
}

// eraseNoPrune removes c's entry (if present) without pruning or
// bumping the version; callers that need to batch multiple removals
// before a single prune use this directly.
func (m *Map[T]) eraseNoPrune(c Coordinate) bool {
	n := descend(m.root, c)
	i := n.findInBucket(c)
	if i < 0 {
		return false
	}
	n.removeAt(i)
	m.size--
	return true
}

// Resize halves every coordinate axis in the tree and fuses payloads
// whose quotient coordinates collide (§4.3). It invalidates every
// iterator.
func (m *Map[T]) Resize() {
	fused := resizeNode(m.root, m.merge, m.log)
	m.size -= fused
	m.resizes++
	m.bumpVersion()
}

// Prune top-down re-collapses subtrees whose total size is <= 2^D
// (§4.4). It is legal at any quiescent state and is idempotent (P9).
func (m *Map[T]) Prune() {
	pruneNode(m.root, m.log)
	m.bumpVersion()
}

// Size returns the number of live entries (I5).
func (m *Map[T]) Size() int { return m.size }

// Empty reports whether Size() == 0.
func (m *Map[T]) Empty() bool { return m.size == 0 }

// NumResizes returns R, the number of completed Resize calls.
func (m *Map[T]) NumResizes() int { return m.resizes }

// Clear resets the map to a single empty leaf at level W-1, with
// Size() == 0 and NumResizes() == 0. It invalidates every iterator.
func (m *Map[T]) Clear() {
	m.root = newLeaf[T](m.cfg, m.cfg.rootLevel(), nil)
	m.size = 0
	m.resizes = 0
	m.bumpVersion()
	if m.log != nil {
		m.log.clear()
	}
}

// Begin returns a forward iterator to the first entry in iteration
// order, or End() if the map is empty.
func (m *Map[T]) Begin() Iterator[T] {
	leaf := firstNonEmptyLeafInSubtree(m.root)
	if leaf == nil {
		return m.End()
	}
	pos, _ := firstSlot(leaf)
	return newIterator(m, leaf, pos, false)
}

// End returns the forward end sentinel.
func (m *Map[T]) End() Iterator[T] {
	return newIterator[T](m, nil, 0, false)
}

// RBegin returns a reverse iterator to the last entry in iteration
// order, or REnd() if the map is empty.
func (m *Map[T]) RBegin() Iterator[T] {
	leaf := lastNonEmptyLeafInSubtree(m.root)
	if leaf == nil {
		return m.REnd()
	}
	pos, _ := lastSlot(leaf)
	return newIterator(m, leaf, pos, true)
}

// REnd returns the reverse end sentinel.
func (m *Map[T]) REnd() Iterator[T] {
	return newIterator[T](m, nil, 0, true)
}

func (m *Map[T]) bumpVersion() {
	m.version++
}
