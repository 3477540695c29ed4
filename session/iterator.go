// SPDX-License-Identifier: ISC

package session

import (
	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
)

// Iterator is a bidirectional, cyclical iterator over a session's
// merged view. Dereferencing it re-reads through the owning
// session, so the value it returns always reflects the session's
// current state, not a snapshot taken at construction time. Any
// write, erase, commit or undo on the owning session (or, since the
// merged view spans the whole chain, on any layer below it)
// invalidates previously obtained iterators; do not retain one across
// such a mutation.
type Iterator struct {
	owner *node
	atEnd bool
	key   buffer.Bytes
}

// newIteratorAt primes the cache entry for pair's key (without yet
// resolving its neighbors) and lands the iterator there, or at the end
// sentinel if pair is invalid or the primed entry turns out to be a
// tombstone.
func newIteratorAt(owner *node, pair kv.Pair) *Iterator {
	if !pair.IsValid() {
		return &Iterator{owner: owner, atEnd: true}
	}
	owner.updateNeighborCache(pair.Key(), true, false, false, false)
	item, _ := owner.neighborGet(pair.Key())
	if item.deleted {
		return &Iterator{owner: owner, atEnd: true}
	}
	return &Iterator{owner: owner, key: pair.Key()}
}

func beginIterator(n *node) *Iterator {
	return newIteratorAt(n, globalFirst(n))
}

func lastIterator(n *node) *Iterator {
	return newIteratorAt(n, globalLast(n))
}

func endIterator(n *node) *Iterator {
	return &Iterator{owner: n, atEnd: true}
}

func findIterator(n *node, key buffer.Bytes) *Iterator {
	pair, err := n.read(key)
	if err != nil || !pair.IsValid() {
		return endIterator(n)
	}
	return newIteratorAt(n, pair)
}

func lowerBoundIterator(n *node, key buffer.Bytes) *Iterator {
	if pair, err := n.read(key); err == nil && pair.IsValid() {
		return newIteratorAt(n, pair)
	}
	_, hi := n.bounds(key)
	return newIteratorAt(n, hi)
}

func upperBoundIterator(n *node, key buffer.Bytes) *Iterator {
	_, hi := n.bounds(key)
	return newIteratorAt(n, hi)
}

// Next advances the iterator to the merged view's next key, wrapping
// from the end sentinel back to begin.
func (it *Iterator) Next() {
	if it.atEnd {
		*it = *beginIterator(it.owner)
		return
	}

	item, ok := it.owner.neighborGet(it.key)
	if !ok || !item.nextKnown {
		it.owner.updateNeighborCache(it.key, false, true, false, false)
		item, ok = it.owner.neighborGet(it.key)
	}
	if !ok || !item.nextKnown {
		it.atEnd = true
		it.key = buffer.Invalid
		return
	}

	cur := it.key
	for {
		next, ok := it.owner.neighborNext(cur)
		if !ok {
			it.atEnd = true
			it.key = buffer.Invalid
			return
		}
		if next.deleted {
			cur = next.key
			continue
		}
		it.key = next.key
		return
	}
}

// Prev moves the iterator to the merged view's previous key, wrapping
// from the end sentinel back to the last entry.
func (it *Iterator) Prev() {
	if it.atEnd {
		*it = *lastIterator(it.owner)
		return
	}

	item, ok := it.owner.neighborGet(it.key)
	if !ok || !item.prevKnown {
		it.owner.updateNeighborCache(it.key, false, true, false, false)
		item, ok = it.owner.neighborGet(it.key)
	}
	if !ok || !item.prevKnown {
		it.atEnd = true
		it.key = buffer.Invalid
		return
	}

	cur := it.key
	for {
		prev, ok := it.owner.neighborPrev(cur)
		if !ok {
			it.atEnd = true
			it.key = buffer.Invalid
			return
		}
		if prev.deleted {
			cur = prev.key
			continue
		}
		it.key = prev.key
		return
	}
}

// AtEnd reports whether it is currently the end sentinel.
func (it *Iterator) AtEnd() bool {
	return it.atEnd
}

// Read dereferences the iterator through the owning session. At the
// end sentinel it returns kv.Invalid.
func (it *Iterator) Read() (kv.Pair, error) {
	if it.atEnd {
		return kv.Invalid, nil
	}
	return it.owner.read(it.key)
}

// Equal is defined only for iterators owned by the same session.
func (it *Iterator) Equal(other *Iterator) bool {
	if it.owner != other.owner {
		return false
	}
	if it.atEnd != other.atEnd {
		return false
	}
	if it.atEnd {
		return true
	}
	return it.key.Equal(other.key)
}
