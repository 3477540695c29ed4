// SPDX-License-Identifier: ISC

package session

import (
	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/fault"
	"github.com/cpniemand/layerkv/kv"
	"github.com/cpniemand/layerkv/overlay"
	"github.com/cpniemand/layerkv/store"
)

// Session is the public handle onto one layer of the chain. The zero
// value is Invalid: the distinguished sentinel every chain/accessor
// operation returns in place of a real handle on failure.
type Session struct {
	n *node
}

// Invalid is the sentinel Session.
var Invalid = Session{}

// NewRoot creates a root layer over backing.
func NewRoot(backing store.Store) Session {
	return Session{n: newRoot(backing, nil)}
}

// NewRootWithOverlay creates a root layer over backing, pre-populated
// with seed as though every pair in it had just been written.
func NewRootWithOverlay(backing store.Store, seed []kv.Pair) Session {
	return Session{n: newRoot(backing, seed)}
}

// Nest creates a new tip above s.
func (s Session) Nest() Session {
	if !s.IsValid() {
		return Invalid
	}
	return Session{n: nest(s.n)}
}

// IsValid reports whether s is a real handle rather than the
// sentinel.
func (s Session) IsValid() bool {
	return s.n != nil
}

// Write stores value under key in this layer.
func (s Session) Write(key, value buffer.Bytes) {
	if s.IsValid() {
		s.n.applyWrite(key, value)
	}
}

// Erase tombstones key in this layer.
func (s Session) Erase(key buffer.Bytes) {
	if s.IsValid() {
		s.n.applyErase(key)
	}
}

// BatchWrite writes every pair, tip-locally.
func (s Session) BatchWrite(pairs []kv.Pair) {
	if s.IsValid() {
		s.n.applyBatchWrite(pairs)
	}
}

// BatchErase erases every key, tip-locally.
func (s Session) BatchErase(keys []buffer.Bytes) {
	if s.IsValid() {
		s.n.applyBatchErase(keys)
	}
}

// Clear discards this layer's local state without touching its parent
// or the backing store, and without unlinking it from the chain.
func (s Session) Clear() {
	if s.IsValid() {
		s.n.clear()
	}
}

// Read returns the merged-view value for key.
func (s Session) Read(key buffer.Bytes) (kv.Pair, error) {
	if !s.IsValid() {
		return kv.Invalid, fault.ErrInvalidSession
	}
	return s.n.read(key)
}

// Contains reports whether key is present in the merged view.
func (s Session) Contains(key buffer.Bytes) (bool, error) {
	if !s.IsValid() {
		return false, fault.ErrInvalidSession
	}
	return s.n.contains(key)
}

// BatchRead resolves every key against the merged view in one call.
func (s Session) BatchRead(keys []buffer.Bytes) (found []kv.Pair, missing []buffer.Bytes, err error) {
	if !s.IsValid() {
		return nil, nil, fault.ErrInvalidSession
	}
	return s.n.batchRead(keys)
}

// WriteTo copies the current merged values for keys into dest.
func (s Session) WriteTo(dest Session, keys []buffer.Bytes) error {
	if !s.IsValid() || !dest.IsValid() {
		return fault.ErrInvalidSession
	}
	return s.n.writeTo(dest.n, keys)
}

// ReadFrom copies the current merged values for keys from src.
func (s Session) ReadFrom(src Session, keys []buffer.Bytes) error {
	if !s.IsValid() || !src.IsValid() {
		return fault.ErrInvalidSession
	}
	return s.n.readFrom(src.n, keys)
}

// Attach grafts child onto s as its new tip, returning whatever
// child s previously had.
func (s Session) Attach(child Session) Session {
	if !s.IsValid() || !child.IsValid() {
		return Invalid
	}
	return Session{n: attach(s.n, child.n)}
}

// Detach unlinks and returns s's current child, if any.
func (s Session) Detach() Session {
	if !s.IsValid() {
		return Invalid
	}
	if c := detach(s.n); c != nil {
		return Session{n: c}
	}
	return Invalid
}

// Commit folds s's writes and tombstones into its parent or backing
// store, then empties it.
func (s Session) Commit() error {
	if !s.IsValid() {
		return nil
	}
	return commit(s.n)
}

// Undo removes s from the chain without propagating its writes.
func (s Session) Undo() {
	if s.IsValid() {
		undo(s.n)
	}
}

// Begin returns an iterator at the smallest key in the merged view.
func (s Session) Begin() *Iterator {
	if !s.IsValid() {
		return nil
	}
	return beginIterator(s.n)
}

// End returns the end sentinel iterator.
func (s Session) End() *Iterator {
	if !s.IsValid() {
		return nil
	}
	return endIterator(s.n)
}

// Find returns an iterator at key if it is present in the merged
// view, or End() otherwise.
func (s Session) Find(key buffer.Bytes) *Iterator {
	if !s.IsValid() {
		return nil
	}
	return findIterator(s.n, key)
}

// LowerBound returns an iterator at the smallest key >= key.
func (s Session) LowerBound(key buffer.Bytes) *Iterator {
	if !s.IsValid() {
		return nil
	}
	return lowerBoundIterator(s.n, key)
}

// UpperBound returns an iterator at the smallest key > key.
func (s Session) UpperBound(key buffer.Bytes) *Iterator {
	if !s.IsValid() {
		return nil
	}
	return upperBoundIterator(s.n, key)
}

// Backing returns the backing store this chain was rooted on, or nil
// for a detached, free-standing layer.
func (s Session) Backing() store.Store {
	if !s.IsValid() {
		return nil
	}
	return s.n.findRoot().backing
}

// OverlayCache returns this layer's own overlay cache.
func (s Session) OverlayCache() *overlay.Cache {
	if !s.IsValid() {
		return nil
	}
	return s.n.overlay
}

// MemoryAllocator returns the allocator used to produce Bytes values
// compatible with this session's stores.
func (s Session) MemoryAllocator() buffer.Allocator {
	return buffer.DefaultAllocator
}
