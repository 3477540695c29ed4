// SPDX-License-Identifier: ISC

package session

import (
	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
	"github.com/cpniemand/layerkv/store"
)

// isShadowed walks downward from start to the tip: a key is shadowed
// iff the last layer to mention it (in deleted or updated) mentioned it
// as deleted.
func isShadowed(start *node, key buffer.Bytes) bool {
	k := key.Key()
	shadowed := false
	for l := start; l != nil; l = l.child {
		if _, ok := l.deleted[k]; ok {
			shadowed = true
		} else if _, ok := l.updated[k]; ok {
			shadowed = false
		}
	}
	return shadowed
}

// predecessorCandidate walks it backward from its current position,
// skipping entries shadowed below shadowRoot, and returns the first
// surviving one.
func predecessorCandidate(it store.Iterator, shadowRoot *node) (kv.Pair, bool) {
	defer it.Release()
	for it.Prev() {
		if it.Err() != nil {
			return kv.Invalid, false
		}
		k := it.Key()
		if !isShadowed(shadowRoot, k) {
			return kv.New(k, it.Value()), true
		}
	}
	return kv.Invalid, false
}

// successorCandidate walks it forward from its current position,
// skipping key itself (when valid) and entries shadowed below
// shadowRoot, and returns the first surviving one.
func successorCandidate(it store.Iterator, key buffer.Bytes, shadowRoot *node) (kv.Pair, bool) {
	defer it.Release()
	for it.Next() {
		if it.Err() != nil {
			return kv.Invalid, false
		}
		k := it.Key()
		if key.IsValid() && k.Equal(key) {
			continue
		}
		if !isShadowed(shadowRoot, k) {
			return kv.New(k, it.Value()), true
		}
	}
	return kv.Invalid, false
}

func backingPredecessor(root *node, key buffer.Bytes) kv.Pair {
	if root.backing == nil {
		return kv.Invalid
	}
	p, _ := predecessorCandidate(root.backing.Iterator(key), root)
	return p
}

func backingSuccessor(root *node, key buffer.Bytes) kv.Pair {
	if root.backing == nil {
		return kv.Invalid
	}
	p, _ := successorCandidate(root.backing.Iterator(key), key, root)
	return p
}

func layerPredecessor(l *node, key buffer.Bytes) (kv.Pair, bool) {
	return predecessorCandidate(l.overlay.Iterator(key), l.child)
}

func layerSuccessor(l *node, key buffer.Bytes) (kv.Pair, bool) {
	return successorCandidate(l.overlay.Iterator(key), key, l.child)
}

// bounds returns the merged-view predecessor and successor of key,
// exclusive, as seen from layer n (root..n are consulted for candidate
// values; root..tip are consulted to decide whether a candidate is
// shadowed).
func (n *node) bounds(key buffer.Bytes) (lo, hi kv.Pair) {
	root := n.findRoot()

	lo = backingPredecessor(root, key)
	hi = backingSuccessor(root, key)

	for l := root; ; l = l.child {
		if p, ok := layerPredecessor(l, key); ok {
			if !lo.IsValid() || buffer.Compare(p.Key(), lo.Key()) > 0 {
				lo = p
			}
		}
		if p, ok := layerSuccessor(l, key); ok {
			if !hi.IsValid() || buffer.Compare(p.Key(), hi.Key()) < 0 {
				hi = p
			}
		}
		if l == n {
			break
		}
	}
	return lo, hi
}

// globalFirst/globalLast are bounds' degenerate form with no pivot
// key, used to seed begin()/end()-relative iterator construction.
func globalFirst(n *node) kv.Pair {
	root := n.findRoot()

	var best kv.Pair
	if root.backing != nil {
		best, _ = successorCandidate(root.backing.Iterator(buffer.Invalid), buffer.Invalid, root)
	}
	for l := root; ; l = l.child {
		if p, ok := successorCandidate(l.overlay.Iterator(buffer.Invalid), buffer.Invalid, l.child); ok {
			if !best.IsValid() || buffer.Compare(p.Key(), best.Key()) < 0 {
				best = p
			}
		}
		if l == n {
			break
		}
	}
	return best
}

func globalLast(n *node) kv.Pair {
	root := n.findRoot()

	var best kv.Pair
	if root.backing != nil {
		best, _ = predecessorCandidate(root.backing.Iterator(buffer.Invalid), root)
	}
	for l := root; ; l = l.child {
		if p, ok := predecessorCandidate(l.overlay.Iterator(buffer.Invalid), l.child); ok {
			if !best.IsValid() || buffer.Compare(p.Key(), best.Key()) > 0 {
				best = p
			}
		}
		if l == n {
			break
		}
	}
	return best
}

// updateNeighborCache resolves and records the merged-view neighbors of
// key in n's iterator-neighbor cache, subject to the given flags.
func (n *node) updateNeighborCache(key buffer.Bytes, primeOnly, recalculate, markDeleted, overwrite bool) {
	item, exists := n.neighborGet(key)
	if !exists {
		item = neighborItem{key: key}
	}
	if overwrite {
		item.deleted = markDeleted
	}
	if primeOnly {
		n.neighborSet(item)
		return
	}
	if !recalculate && item.nextKnown && item.prevKnown {
		n.neighborSet(item)
		return
	}

	lo, hi := n.bounds(key)

	if lo.IsValid() {
		loItem, ok := n.neighborGet(lo.Key())
		if !ok {
			loItem = neighborItem{key: lo.Key()}
		}
		loItem.nextKnown = true
		n.neighborSet(loItem)
		item.prevKnown = true
	} else {
		item.prevKnown = false
	}

	if hi.IsValid() {
		hiItem, ok := n.neighborGet(hi.Key())
		if !ok {
			hiItem = neighborItem{key: hi.Key()}
		}
		hiItem.prevKnown = true
		n.neighborSet(hiItem)
		item.nextKnown = true
	} else {
		item.nextKnown = false
	}

	n.neighborSet(item)
}
