package cmap

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/prysmaticlabs/go-bitfield"
)

// node is a tagged-variant tree node (§9: "polymorphism via state, no
// inheritance"): it is a leaf XOR internal (I2), discriminated by the
// leaf field rather than by a type hierarchy. A leaf holds a
// fixed-capacity bucket of entries plus an occupancy bitset (C9) marking
// which of the 2^D slots are live; an internal node holds 2^D children
// plus a presence bitfield (C10) marking which are non-nil.
type node[T any] struct {
	parent *node[T]
	level  int
	leaf   bool

	// valid when leaf. bucket has a fixed length of cfg.BucketCapacity();
	// occupancy.Test(i) reports whether bucket[i] holds a live entry.
	// Slot index doubles as bucket "position" for iterators (§4.6).
	bucket    []entry[T]
	occupancy *bitset.BitSet

	// valid when !leaf, len(children) == cfg.BucketCapacity().
	children []*node[T]
	presence bitfield.Bitvector256

	cfg Config
}

// newLeaf allocates an empty leaf at the given level.
func newLeaf[T any](cfg Config, level int, parent *node[T]) *node[T] {
	return &node[T]{
		parent:    parent,
		level:     level,
		leaf:      true,
		bucket:    make([]entry[T], cfg.BucketCapacity()),
		occupancy: bitset.New(uint(cfg.BucketCapacity())),
		cfg:       cfg,
	}
}

// newInternal allocates an internal node with cfg.BucketCapacity() empty
// (nil) children at the given level.
func newInternal[T any](cfg Config, level int, parent *node[T]) *node[T] {
	return &node[T]{
		parent:   parent,
		level:    level,
		leaf:     false,
		children: make([]*node[T], cfg.BucketCapacity()),
		presence: bitfield.NewBitvector256(),
		cfg:      cfg,
	}
}

// bucketLen is the number of live entries in a leaf's bucket.
func (n *node[T]) bucketLen() int {
	return int(n.occupancy.Count())
}

// setChild installs child c at index i, updating the presence bitfield
// (C10). A nil c marks the slot empty.
func (n *node[T]) setChild(i int, c *node[T]) {
	n.children[i] = c
	n.presence.SetBitAt(uint64(i), c != nil)
}

// appendEntry writes e into the first free bucket slot and marks it
// live, returning the slot index. Callers must have already checked
// bucketLen() < cap(bucket).
func (n *node[T]) appendEntry(e entry[T]) int {
	idx, ok := n.occupancy.NextClear(0)
	if !ok || int(idx) >= len(n.bucket) {
		idx = uint(len(n.bucket))
	}
	i := int(idx)
	n.bucket[i] = e
	n.occupancy.Set(idx)
	return i
}

// removeAt clears the live bit at bucket slot i, leaving a tombstone
// (erase does not compact; only resize's dedup does, per §4.3).
func (n *node[T]) removeAt(i int) {
	n.bucket[i] = entry[T]{}
	n.occupancy.Clear(uint(i))
}

// descend follows child(node, c) until a leaf is reached (§4.1, "leaf
// descent").
func descend[T any](n *node[T], c Coordinate) *node[T] {
	for !n.leaf {
		idx := childIndex(c, n.level)
		n = n.children[idx]
	}
	return n
}

// subtreeSize is the pure function from §4.1: bucket size for a leaf,
// sum over children for an internal node. It is never cached.
func subtreeSize[T any](n *node[T]) int {
	if n.leaf {
		return n.bucketLen()
	}
	total := 0
	for i := 0; i < len(n.children); i++ {
		if !n.presence.BitAt(uint64(i)) {
			continue
		}
		total += subtreeSize(n.children[i])
	}
	return total
}

// collect performs a depth-first, left-to-right concatenation of every
// live entry in the subtree rooted at n into out, moving entries out of
// the subtree (the subtree is consumed; leaves are left empty). Used by
// prune to re-collapse a small subtree into one leaf.
func collect[T any](n *node[T], out []entry[T]) []entry[T] {
	if n.leaf {
		for i, ok := n.occupancy.NextSet(0); ok; i, ok = n.occupancy.NextSet(i + 1) {
			out = append(out, n.bucket[i])
		}
		n.occupancy.ClearAll()
		return out
	}
	for i := 0; i < len(n.children); i++ {
		if !n.presence.BitAt(uint64(i)) {
			continue
		}
		out = collect(n.children[i], out)
	}
	return out
}

// findInBucket returns the slot index of the live entry whose coordinate
// equals c, or -1 if absent. Only occupied slots are scanned (C9).
func (n *node[T]) findInBucket(c Coordinate) int {
	for i, ok := n.occupancy.NextSet(0); ok; i, ok = n.occupancy.NextSet(i + 1) {
		if n.bucket[i].coord.Equal(c) {
			return int(i)
		}
	}
	return -1
}
