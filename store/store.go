// SPDX-License-Identifier: ISC

package store

import (
	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
)

// Store is the ordered key/value container shape shared by every
// collaborator a session layer can read from or write through: the
// in-memory overlay cache (see package overlay) and the persistent
// backing store (LevelStore below).
type Store interface {
	// Get fetches the value stored for key. ok is false when the key
	// is absent.
	Get(key buffer.Bytes) (value buffer.Bytes, ok bool, err error)

	// Put stores value under key, replacing any existing value.
	Put(key, value buffer.Bytes) error

	// Delete removes key. It is not an error to delete an absent key.
	Delete(key buffer.Bytes) error

	// BatchGet fetches every key in keys, reporting which ones were
	// absent.
	BatchGet(keys []buffer.Bytes) (found []kv.Pair, missing []buffer.Bytes, err error)

	// BatchPut stores every pair, replacing existing values.
	BatchPut(pairs []kv.Pair) error

	// BatchDelete removes every key in keys.
	BatchDelete(keys []buffer.Bytes) error

	// Iterator returns a cursor positioned so that calling Next once
	// yields the first entry with a key >= from. When from is
	// buffer.Invalid the cursor starts at the beginning of the store.
	Iterator(from buffer.Bytes) Iterator
}

// Iterator walks a Store in ascending key order. It must be released
// after use.
type Iterator interface {
	// Next advances to the next entry and reports whether one exists.
	Next() bool

	// Prev moves to the previous entry and reports whether one exists.
	Prev() bool

	// Seek repositions the cursor at the first key >= target.
	Seek(target buffer.Bytes) bool

	// Key returns the key at the current position. Valid only after
	// Next, Prev or Seek has returned true.
	Key() buffer.Bytes

	// Value returns the value at the current position.
	Value() buffer.Bytes

	// Release frees resources held by the iterator. Further use of
	// the iterator after Release is undefined.
	Release()

	// Err returns the first error, if any, encountered while iterating.
	Err() error
}
