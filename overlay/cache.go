// SPDX-License-Identifier: ISC

package overlay

import (
	"sync"

	"github.com/google/btree"

	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/fault"
	"github.com/cpniemand/layerkv/kv"
	"github.com/cpniemand/layerkv/store"
)

const treeDegree = 32

// entry is the btree.Item stored in a Cache.
type entry struct {
	pair kv.Pair
}

func (e entry) Less(than btree.Item) bool {
	return e.pair.Key().Less(than.(entry).pair.Key())
}

// Cache is an ordered, in-memory key/value container backed by a
// google/btree B-tree. It satisfies store.Store.
type Cache struct {
	sync.RWMutex
	tree *btree.BTree
}

var _ store.Store = (*Cache)(nil)

// New returns an empty Cache.
func New() *Cache {
	return &Cache{tree: btree.New(treeDegree)}
}

// Get implements store.Store.
func (c *Cache) Get(key buffer.Bytes) (buffer.Bytes, bool, error) {
	if !key.IsValid() {
		return buffer.Invalid, false, fault.ErrInvalidKey
	}

	c.RLock()
	defer c.RUnlock()

	item := c.tree.Get(entry{pair: kv.New(key, buffer.Invalid)})
	if item == nil {
		return buffer.Invalid, false, nil
	}
	return item.(entry).pair.Value(), true, nil
}

// Put implements store.Store.
func (c *Cache) Put(key, value buffer.Bytes) error {
	if !key.IsValid() {
		return fault.ErrInvalidKey
	}

	c.Lock()
	defer c.Unlock()

	c.tree.ReplaceOrInsert(entry{pair: kv.New(key, value)})
	return nil
}

// Delete implements store.Store.
func (c *Cache) Delete(key buffer.Bytes) error {
	if !key.IsValid() {
		return fault.ErrInvalidKey
	}

	c.Lock()
	defer c.Unlock()

	c.tree.Delete(entry{pair: kv.New(key, buffer.Invalid)})
	return nil
}

// BatchGet implements store.Store.
func (c *Cache) BatchGet(keys []buffer.Bytes) ([]kv.Pair, []buffer.Bytes, error) {
	var found []kv.Pair
	var missing []buffer.Bytes
	for _, key := range keys {
		value, ok, err := c.Get(key)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			found = append(found, kv.New(key, value))
		} else {
			missing = append(missing, key)
		}
	}
	return found, missing, nil
}

// BatchPut implements store.Store.
func (c *Cache) BatchPut(pairs []kv.Pair) error {
	for _, p := range pairs {
		if err := c.Put(p.Key(), p.Value()); err != nil {
			return err
		}
	}
	return nil
}

// BatchDelete implements store.Store.
func (c *Cache) BatchDelete(keys []buffer.Bytes) error {
	for _, key := range keys {
		if err := c.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of entries held.
func (c *Cache) Len() int {
	c.RLock()
	defer c.RUnlock()
	return c.tree.Len()
}

// Ceil returns the entry with the smallest key >= key, if any.
func (c *Cache) Ceil(key buffer.Bytes) (kv.Pair, bool) {
	c.RLock()
	defer c.RUnlock()

	var found kv.Pair
	ok := false
	c.tree.AscendGreaterOrEqual(entry{pair: kv.New(key, buffer.Invalid)}, func(i btree.Item) bool {
		found = i.(entry).pair
		ok = true
		return false
	})
	return found, ok
}

// Floor returns the entry with the largest key <= key, if any.
func (c *Cache) Floor(key buffer.Bytes) (kv.Pair, bool) {
	c.RLock()
	defer c.RUnlock()

	var found kv.Pair
	ok := false
	c.tree.DescendLessOrEqual(entry{pair: kv.New(key, buffer.Invalid)}, func(i btree.Item) bool {
		found = i.(entry).pair
		ok = true
		return false
	})
	return found, ok
}

// Lower returns the entry with the largest key strictly less than key,
// if any.
func (c *Cache) Lower(key buffer.Bytes) (kv.Pair, bool) {
	c.RLock()
	defer c.RUnlock()

	var found kv.Pair
	ok := false
	c.tree.DescendLessOrEqual(entry{pair: kv.New(key, buffer.Invalid)}, func(i btree.Item) bool {
		p := i.(entry).pair
		if p.Key().Equal(key) {
			return true
		}
		found, ok = p, true
		return false
	})
	return found, ok
}

// Higher returns the entry with the smallest key strictly greater than
// key, if any.
func (c *Cache) Higher(key buffer.Bytes) (kv.Pair, bool) {
	c.RLock()
	defer c.RUnlock()

	var found kv.Pair
	ok := false
	c.tree.AscendGreaterOrEqual(entry{pair: kv.New(key, buffer.Invalid)}, func(i btree.Item) bool {
		p := i.(entry).pair
		if p.Key().Equal(key) {
			return true
		}
		found, ok = p, true
		return false
	})
	return found, ok
}

// Iterator implements store.Store.
func (c *Cache) Iterator(from buffer.Bytes) store.Iterator {
	return newIterator(c, from)
}

// Find returns the entry stored under key, matching C++-flavored
// ordered-container vocabulary alongside Ceil/Floor.
func (c *Cache) Find(key buffer.Bytes) (kv.Pair, bool) {
	value, ok, _ := c.Get(key)
	if !ok {
		return kv.Invalid, false
	}
	return kv.New(key, value), true
}

// LowerBound is an alias for Ceil.
func (c *Cache) LowerBound(key buffer.Bytes) (kv.Pair, bool) {
	return c.Ceil(key)
}

// UpperBound is an alias for Higher.
func (c *Cache) UpperBound(key buffer.Bytes) (kv.Pair, bool) {
	return c.Higher(key)
}
