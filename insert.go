package cmap

import "github.com/prysmaticlabs/go-bitfield"

// mergeFunc folds incoming into acc, the user-supplied contract of §6.
type mergeFunc[T any] func(acc, incoming *T)

// insertResult distinguishes a merge (0 new entries) from an append (1
// new entry), matching the table in §4.2.
type insertResult int

const (
	resultMerged insertResult = iota
	resultAppended
)

// insertAt performs §4.2's algorithm starting at the leaf that owns c,
// descending from root. merge is called as merge(existing, incoming) on
// collision, matching the resize survivor convention in §4.3.
func insertAt[T any](root *node[T], cfg Config, c Coordinate, v T, merge mergeFunc[T], log *logHook) (insertResult, *node[T], int) {
	n := root
	for {
		if n.leaf {
			if i := n.findInBucket(c); i >= 0 {
				merge(&n.bucket[i].value, &v)
				return resultMerged, n, i
			}
			if n.bucketLen() < cfg.BucketCapacity() {
				i := n.appendEntry(entry[T]{coord: c, value: v})
				return resultAppended, n, i
			}
			// Bucket is full: split, then recurse into the freshly
			// created child that owns c.
			splitLeaf(n, cfg, log)
			continue
		}
		idx := childIndex(c, n.level)
		n = n.children[idx]
	}
}

// splitLeaf implements §4.2 step 3: allocate 2^D fresh leaves one level
// down, redistribute every current entry by its child index, and turn n
// into an internal node. Requires n.level >= 1; violating that means
// more than 2^D entries share a coordinate identical in every bit, which
// cannot happen under I1 with a well-behaved merge (§4.2).
func splitLeaf[T any](n *node[T], cfg Config, log *logHook) {
	if n.level == 0 {
		panic(ErrSplitAtLevelZero)
	}

	childLevel := n.level - 1
	oldBucket := n.bucket
	oldOccupancy := n.occupancy

	n.leaf = false
	n.children = make([]*node[T], cfg.BucketCapacity())
	n.presence = bitfield.NewBitvector256()
	n.bucket = nil
	n.occupancy = nil

	for idx := range n.children {
		n.setChild(idx, newLeaf[T](cfg, childLevel, n))
	}

	for i, ok := oldOccupancy.NextSet(0); ok; i, ok = oldOccupancy.NextSet(i + 1) {
		e := oldBucket[i]
		n.children[childIndex(e.coord, n.level)].appendEntry(e)
	}

	if log != nil {
		log.split(n.level, int(oldOccupancy.Count()))
	}
}
