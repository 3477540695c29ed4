// SPDX-License-Identifier: ISC

package session

import (
	"github.com/google/btree"

	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
	"github.com/cpniemand/layerkv/overlay"
	"github.com/cpniemand/layerkv/store"
)

const neighborTreeDegree = 32

// node is one layer of the chain. The chain is a plain doubly linked
// list of nodes; Go's garbage collector reclaims the parent<->child
// cycle once nothing external still references any node in it, so
// child holds a plain strong pointer back at its parent, and parent
// holds a plain pointer down at its child.
type node struct {
	overlay   *overlay.Cache
	updated   map[string]buffer.Bytes
	deleted   map[string]buffer.Bytes
	neighbors *btree.BTree
	parent    *node
	child     *node
	backing   store.Store
}

// neighborItem is one entry of a node's iterator-neighbor cache.
type neighborItem struct {
	key        buffer.Bytes
	nextKnown  bool
	prevKnown  bool
	deleted    bool
}

func (n neighborItem) Less(than btree.Item) bool {
	return n.key.Less(than.(neighborItem).key)
}

func newNode() *node {
	return &node{
		overlay:   overlay.New(),
		updated:   make(map[string]buffer.Bytes),
		deleted:   make(map[string]buffer.Bytes),
		neighbors: btree.New(neighborTreeDegree),
	}
}

// newRoot builds a root layer over backing, optionally seeded with
// pairs treated as already authored (so a commit at the root writes
// them through).
func newRoot(backing store.Store, seed []kv.Pair) *node {
	n := newNode()
	n.backing = backing
	for _, p := range seed {
		n.applyWrite(p.Key(), p.Value())
	}
	return n
}

// nest creates a new tip above n. It detaches and degrades any stale
// child n already had.
func nest(n *node) *node {
	if stale := n.child; stale != nil {
		stale.parent = nil
		stale.backing = nil
	}
	child := newNode()
	child.parent = n
	child.backing = n.backing
	n.child = child
	return child
}

// invalidateChain clears the neighbor cache of every layer in n's
// chain. A topology change anywhere (attach, detach, commit, undo)
// can change what is shadowed for candidates cached by any ancestor
// layer, so rather than track that precisely this clears the whole
// chain's neighbor caches in one pass.
func invalidateChain(n *node) {
	for l := n.findRoot(); l != nil; l = l.child {
		l.clearNeighbors()
	}
}

// findRoot walks up the chain to the outermost layer.
func (n *node) findRoot() *node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (n *node) neighborGet(key buffer.Bytes) (neighborItem, bool) {
	item := n.neighbors.Get(neighborItem{key: key})
	if item == nil {
		return neighborItem{}, false
	}
	return item.(neighborItem), true
}

func (n *node) neighborSet(item neighborItem) {
	n.neighbors.ReplaceOrInsert(item)
}

func (n *node) clearNeighbors() {
	n.neighbors = btree.New(neighborTreeDegree)
}

// neighborNext returns the cache entry with the smallest key strictly
// greater than key, if any.
func (n *node) neighborNext(key buffer.Bytes) (neighborItem, bool) {
	var found neighborItem
	ok := false
	n.neighbors.AscendGreaterOrEqual(neighborItem{key: key}, func(i btree.Item) bool {
		it := i.(neighborItem)
		if it.key.Equal(key) {
			return true
		}
		found, ok = it, true
		return false
	})
	return found, ok
}

// neighborPrev returns the cache entry with the largest key strictly
// less than key, if any.
func (n *node) neighborPrev(key buffer.Bytes) (neighborItem, bool) {
	var found neighborItem
	ok := false
	n.neighbors.DescendLessOrEqual(neighborItem{key: key}, func(i btree.Item) bool {
		it := i.(neighborItem)
		if it.key.Equal(key) {
			return true
		}
		found, ok = it, true
		return false
	})
	return found, ok
}
