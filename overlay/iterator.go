// SPDX-License-Identifier: ISC

package overlay

import (
	"github.com/google/btree"

	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
)

// Iterator walks a snapshot of a Cache's contents in ascending key
// order. It satisfies store.Iterator. The snapshot is taken at
// construction time; concurrent writes to the Cache are not reflected.
//
// The cursor is left unpositioned at construction; the first Next
// lands on lower_bound(from) (or the first entry with no from given)
// and the first Prev lands on the entry strictly below from (or the
// last entry with no from given).
type Iterator struct {
	pairs   []kv.Pair
	hasFrom bool
	lower   int // index of the first entry with key >= from, valid only when hasFrom
	pos     int
	touched bool
	err     error
}

func newIterator(c *Cache, from buffer.Bytes) *Iterator {
	c.RLock()
	defer c.RUnlock()

	pairs := make([]kv.Pair, 0, c.tree.Len())
	c.tree.Ascend(func(i btree.Item) bool {
		pairs = append(pairs, i.(entry).pair)
		return true
	})

	it := &Iterator{pairs: pairs}
	if from.IsValid() {
		it.hasFrom = true
		it.lower = len(pairs)
		for i, p := range pairs {
			if !p.Key().Less(from) {
				it.lower = i
				break
			}
		}
	}
	return it
}

// Next implements store.Iterator.
func (it *Iterator) Next() bool {
	if !it.touched {
		it.touched = true
		if it.hasFrom {
			it.pos = it.lower
		} else {
			it.pos = 0
		}
		return it.pos < len(it.pairs)
	}
	if it.pos+1 >= len(it.pairs) {
		it.pos = len(it.pairs)
		return false
	}
	it.pos++
	return true
}

// Prev implements store.Iterator.
func (it *Iterator) Prev() bool {
	if !it.touched {
		it.touched = true
		if it.hasFrom {
			it.pos = it.lower - 1
		} else {
			it.pos = len(it.pairs) - 1
		}
		return it.pos >= 0 && it.pos < len(it.pairs)
	}
	if it.pos-1 < 0 {
		it.pos = -1
		return false
	}
	it.pos--
	return true
}

// Seek implements store.Iterator.
func (it *Iterator) Seek(target buffer.Bytes) bool {
	it.touched = true
	for i, p := range it.pairs {
		if !p.Key().Less(target) {
			it.pos = i
			return true
		}
	}
	it.pos = len(it.pairs)
	return false
}

// Key implements store.Iterator.
func (it *Iterator) Key() buffer.Bytes {
	if it.pos < 0 || it.pos >= len(it.pairs) {
		return buffer.Invalid
	}
	return it.pairs[it.pos].Key()
}

// Value implements store.Iterator.
func (it *Iterator) Value() buffer.Bytes {
	if it.pos < 0 || it.pos >= len(it.pairs) {
		return buffer.Invalid
	}
	return it.pairs[it.pos].Value()
}

// Release implements store.Iterator.
func (it *Iterator) Release() {
	it.pairs = nil
}

// Err implements store.Iterator.
func (it *Iterator) Err() error {
	return it.err
}
