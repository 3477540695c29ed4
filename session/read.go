// SPDX-License-Identifier: ISC

package session

import (
	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
)

// read walks from n toward the root, honoring tombstones, and on an
// ancestor hit memoizes the value into n's own overlay for locality.
func (n *node) read(key buffer.Bytes) (kv.Pair, error) {
	k := key.Key()
	for l := n; l != nil; l = l.parent {
		if _, deleted := l.deleted[k]; deleted {
			return kv.Invalid, nil
		}
		value, ok, err := l.overlay.Get(key)
		if err != nil {
			return kv.Invalid, err
		}
		if ok {
			if l != n {
				_ = n.overlay.Put(key, value)
				n.updateNeighborCache(key, false, true, false, false)
			}
			return kv.New(key, value), nil
		}
	}

	root := n.findRoot()
	if root.backing == nil {
		return kv.Invalid, nil
	}
	value, ok, err := root.backing.Get(key)
	if err != nil {
		return kv.Invalid, err
	}
	if !ok {
		return kv.Invalid, nil
	}
	_ = n.overlay.Put(key, value)
	n.updateNeighborCache(key, false, true, false, false)
	return kv.New(key, value), nil
}

// contains reports whether key is present anywhere in the merged view.
func (n *node) contains(key buffer.Bytes) (bool, error) {
	k := key.Key()
	for l := n; l != nil; l = l.parent {
		if _, deleted := l.deleted[k]; deleted {
			return false, nil
		}
		_, ok, err := l.overlay.Get(key)
		if err != nil {
			return false, err
		}
		if ok {
			n.updateNeighborCache(key, false, true, false, false)
			return true, nil
		}
	}

	root := n.findRoot()
	if root.backing == nil {
		return false, nil
	}
	_, ok, err := root.backing.Get(key)
	if err != nil {
		return false, err
	}
	if ok {
		n.updateNeighborCache(key, false, true, false, false)
	}
	return ok, nil
}

// batchRead resolves every key via a per-key layer walk, then issues
// one backing-store batch fetch for the union of keys still unresolved
// after the walk.
func (n *node) batchRead(keys []buffer.Bytes) (found []kv.Pair, missing []buffer.Bytes, err error) {
	var pending []buffer.Bytes

	for _, key := range keys {
		k := key.Key()
		resolved := false
		for l := n; l != nil; l = l.parent {
			if _, deleted := l.deleted[k]; deleted {
				missing = append(missing, key)
				resolved = true
				break
			}
			value, ok, gerr := l.overlay.Get(key)
			if gerr != nil {
				return nil, nil, gerr
			}
			if ok {
				if l != n {
					_ = n.overlay.Put(key, value)
					n.updateNeighborCache(key, false, true, false, false)
				}
				found = append(found, kv.New(key, value))
				resolved = true
				break
			}
		}
		if !resolved {
			pending = append(pending, key)
		}
	}

	if len(pending) == 0 {
		return found, missing, nil
	}

	root := n.findRoot()
	if root.backing == nil {
		missing = append(missing, pending...)
		return found, missing, nil
	}

	hits, stillMissing, berr := root.backing.BatchGet(pending)
	if berr != nil {
		return nil, nil, berr
	}
	for _, p := range hits {
		_ = n.overlay.Put(p.Key(), p.Value())
		n.updateNeighborCache(p.Key(), false, true, false, false)
		found = append(found, p)
	}
	missing = append(missing, stillMissing...)
	return found, missing, nil
}

// writeTo copies the current merged values for keys from n into dest,
// skipping keys tombstoned at or above n.
func (n *node) writeTo(dest *node, keys []buffer.Bytes) error {
	for _, key := range keys {
		pair, err := n.read(key)
		if err != nil {
			return err
		}
		if !pair.IsValid() {
			continue
		}
		dest.applyWrite(pair.Key(), pair.Value())
	}
	return nil
}

// readFrom is the symmetric counterpart of writeTo: it delegates to
// src.writeTo.
func (n *node) readFrom(src *node, keys []buffer.Bytes) error {
	return src.writeTo(n, keys)
}
