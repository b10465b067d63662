package cmap

import "github.com/bits-and-blooms/bitset"

// pruneNode implements §4.4's top-down re-collapse rule: a leaf is left
// alone; a node whose subtree size is <= 2^D is replaced by a single
// fresh leaf populated via collect (moving entries), keeping its level
// unchanged; anything larger is recursed into.
func pruneNode[T any](n *node[T], log *logHook) {
	if n.leaf {
		return
	}
	if subtreeSize(n) <= n.cfg.BucketCapacity() {
		collapseToLeaf(n, log)
		return
	}
	for i := 0; i < len(n.children); i++ {
		if !n.presence.BitAt(uint64(i)) {
			continue
		}
		pruneNode(n.children[i], log)
	}
}

// collapseToLeaf replaces an internal node's children with a single leaf
// bucket populated by collect from the subtree. The node's level does
// not change (§4.4, distinct from resize's collapse which always lands
// at level 0).
func collapseToLeaf[T any](n *node[T], log *logHook) {
	capacity := n.cfg.BucketCapacity()
	entries := collect(n, make([]entry[T], 0, capacity))

	level := n.level
	parent := n.parent
	cfg := n.cfg

	n.leaf = true
	n.children = nil
	n.presence = nil
	n.level = level
	n.parent = parent
	n.cfg = cfg
	n.bucket = make([]entry[T], capacity)
	n.occupancy = bitset.New(uint(capacity))
	for _, e := range entries {
		n.appendEntry(e)
	}

	if log != nil {
		log.pruneCollapse(level, len(entries))
	}
}
