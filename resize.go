package cmap

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/prysmaticlabs/go-bitfield"
)

// resizeNode implements §4.3's per-node recursive rule and returns the
// number of merge calls performed in this subtree, which the caller
// accumulates into the container's size delta.
func resizeNode[T any](n *node[T], merge mergeFunc[T], log *logHook) int {
	switch {
	case n.leaf:
		return resizeLeaf(n, merge)
	case n.level == 1:
		return collapseInternal(n, merge, log)
	default:
		fused := 0
		for i := 0; i < len(n.children); i++ {
			if !n.presence.BitAt(uint64(i)) {
				continue
			}
			fused += resizeNode(n.children[i], merge, log)
		}
		n.level--
		return fused
	}
}

// resizeLeaf implements the leaf case of §4.3: shift every entry's
// coordinate right by one, then dedup-in-place. The earlier entry in
// bucket order is always the survivor (merge(survivor, later)), and
// surviving entries are compacted to close the gaps left by fused-away
// duplicates — unlike ordinary erase, which leaves tombstones.
func resizeLeaf[T any](n *node[T], merge mergeFunc[T]) int {
	capacity := n.cfg.BucketCapacity()
	live := make([]entry[T], 0, capacity)
	for i, ok := n.occupancy.NextSet(0); ok; i, ok = n.occupancy.NextSet(i + 1) {
		e := n.bucket[i]
		e.coord = e.coord.ShiftRight1()
		live = append(live, e)
	}

	removed := make([]bool, len(live))
	fused := 0
	for h := 0; h < len(live); h++ {
		if removed[h] {
			continue
		}
		for t := h + 1; t < len(live); t++ {
			if removed[t] {
				continue
			}
			if live[t].coord.Equal(live[h].coord) {
				merge(&live[h].value, &live[t].value)
				removed[t] = true
				fused++
			}
		}
	}

	newBucket := make([]entry[T], capacity)
	newOcc := bitset.New(uint(capacity))
	slot := 0
	for h := range live {
		if removed[h] {
			continue
		}
		newBucket[slot] = live[h]
		newOcc.Set(uint(slot))
		slot++
	}
	n.bucket = newBucket
	n.occupancy = newOcc
	n.level--
	return fused
}

// collapseInternal implements the ℓ=1 case of §4.3: the node's children
// are all leaves; after shifting, every surviving entry within a given
// child collapses to the same coordinate, so each non-empty child
// contributes exactly one representative entry (its bucket-order-first
// live entry, with every other entry in that child fused into it) to a
// brand new bucket on the parent, which becomes a leaf at level 0.
func collapseInternal[T any](n *node[T], merge mergeFunc[T], log *logHook) int {
	capacity := n.cfg.BucketCapacity()
	newBucket := make([]entry[T], capacity)
	newOcc := bitset.New(uint(capacity))
	fused := 0
	slot := 0

	for i := 0; i < len(n.children); i++ {
		if !n.presence.BitAt(uint64(i)) {
			continue
		}
		child := n.children[i]
		first := -1
		for j, ok := child.occupancy.NextSet(0); ok; j, ok = child.occupancy.NextSet(j + 1) {
			if first == -1 {
				first = int(j)
				continue
			}
			merge(&child.bucket[first].value, &child.bucket[j].value)
			fused++
		}
		if first == -1 {
			continue
		}
		rep := child.bucket[first]
		rep.coord = rep.coord.ShiftRight1()
		newBucket[slot] = rep
		newOcc.Set(uint(slot))
		slot++
	}

	n.leaf = true
	n.bucket = newBucket
	n.occupancy = newOcc
	n.children = nil
	n.presence = bitfield.Bitvector256{}
	n.level = 0

	if log != nil {
		log.collapse(fused)
	}
	return fused
}
