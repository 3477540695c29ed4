// SPDX-License-Identifier: ISC

package session

import (
	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/store"
)

// attach makes host adopt child as its new tip, after detaching and
// returning whatever child it already had.
func attach(host, child *node) *node {
	previous := detach(host)
	child.parent = host
	child.backing = host.backing
	host.child = child
	prime(child)
	invalidateChain(host)
	return previous
}

// detach unlinks host's current child, if any, and returns it with its
// parent/backing cleared.
func detach(host *node) *node {
	child := host.child
	if child == nil {
		return nil
	}
	child.parent = nil
	child.backing = nil
	host.child = nil
	invalidateChain(host)
	return child
}

// prime resets n's neighbor cache and drops any overlay entry that n
// did not itself author, then recurses into n's child (the rest of
// whatever subtree was grafted along with n).
func prime(n *node) {
	n.clearNeighbors()

	it := n.overlay.Iterator(buffer.Invalid)
	var stale []buffer.Bytes
	for it.Next() {
		key := it.Key()
		if _, authored := n.updated[key.Key()]; !authored {
			stale = append(stale, key)
		}
	}
	it.Release()
	for _, key := range stale {
		_ = n.overlay.Delete(key)
	}

	if n.child != nil {
		prime(n.child)
	}
}

// undo removes n from the chain without propagating writes, reconnecting
// n's parent and child to each other.
func undo(n *node) {
	// Whatever remains linked once n is spliced out still needs its
	// neighbor caches invalidated, since n's removal can change what
	// isShadowed finds for candidates any of them had cached. Anchor on
	// a node that survives the splice before mutating any links.
	anchor := n.parent
	if anchor == nil {
		anchor = n.child
	}

	if n.parent != nil {
		n.parent.child = n.child
	}
	if n.child != nil {
		n.child.parent = n.parent
	}
	n.parent = nil
	n.child = nil
	n.backing = nil
	n.clear()

	if anchor != nil {
		invalidateChain(anchor)
	}
}

// committable is the write-through destination shape used by commit:
// either a parent node, whose own write/erase fold the squashed
// entries into its own authored state, or the backing store directly.
type committable interface {
	write(key, value buffer.Bytes) error
	erase(key buffer.Bytes) error
}

func (n *node) write(key, value buffer.Bytes) error {
	n.applyWrite(key, value)
	return nil
}

func (n *node) erase(key buffer.Bytes) error {
	n.applyErase(key)
	return nil
}

type storeDest struct {
	s store.Store
}

func (d storeDest) write(key, value buffer.Bytes) error { return d.s.Put(key, value) }
func (d storeDest) erase(key buffer.Bytes) error        { return d.s.Delete(key) }

// commit folds n's authored writes and tombstones into its parent (or,
// at the root, directly into the backing store), then empties n. It
// leaves n linked into the chain.
func commit(n *node) error {
	if n.parent == nil && n.backing == nil {
		return nil
	}

	var dest committable
	if n.parent != nil {
		dest = n.parent
	} else {
		dest = storeDest{n.backing}
	}

	for _, key := range n.deleted {
		if err := dest.erase(key); err != nil {
			return err
		}
	}
	for _, key := range n.updated {
		value, _, err := n.overlay.Get(key)
		if err != nil {
			return err
		}
		if err := dest.write(key, value); err != nil {
			return err
		}
	}

	n.clear()
	invalidateChain(n)
	return nil
}
