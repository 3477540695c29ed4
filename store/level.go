// SPDX-License-Identifier: ISC

package store

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/fault"
	"github.com/cpniemand/layerkv/kv"
)

// LevelStore is a Store backed by a single LevelDB database. It is the
// bottom collaborator of a session chain: the layer a root session
// reads through and, on commit, writes into.
type LevelStore struct {
	sync.Mutex
	db *leveldb.DB
}

// OpenLevelStore opens (creating if necessary) a LevelDB database at
// path and wraps it as a Store.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, err
	}
	return &LevelStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *LevelStore) Close() error {
	s.Lock()
	defer s.Unlock()
	return s.db.Close()
}

// Get implements Store.
func (s *LevelStore) Get(key buffer.Bytes) (buffer.Bytes, bool, error) {
	if !key.IsValid() {
		return buffer.Invalid, false, fault.ErrInvalidKey
	}

	s.Lock()
	defer s.Unlock()

	value, err := s.db.Get(key.Raw(), nil)
	if err == leveldb.ErrNotFound {
		return buffer.Invalid, false, nil
	} else if err != nil {
		return buffer.Invalid, false, err
	}
	return buffer.New(value), true, nil
}

// Put implements Store.
func (s *LevelStore) Put(key, value buffer.Bytes) error {
	if !key.IsValid() {
		return fault.ErrInvalidKey
	}

	s.Lock()
	defer s.Unlock()

	return s.db.Put(key.Raw(), value.Raw(), nil)
}

// Delete implements Store.
func (s *LevelStore) Delete(key buffer.Bytes) error {
	if !key.IsValid() {
		return fault.ErrInvalidKey
	}

	s.Lock()
	defer s.Unlock()

	return s.db.Delete(key.Raw(), nil)
}

// BatchGet implements Store.
func (s *LevelStore) BatchGet(keys []buffer.Bytes) ([]kv.Pair, []buffer.Bytes, error) {
	var found []kv.Pair
	var missing []buffer.Bytes
	for _, key := range keys {
		value, ok, err := s.Get(key)
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

// BatchPut implements Store. Applied as a single atomic LevelDB batch.
func (s *LevelStore) BatchPut(pairs []kv.Pair) error {
	batch := new(leveldb.Batch)
	for _, p := range pairs {
		if !p.Key().IsValid() {
			return fault.ErrInvalidKey
		}
		batch.Put(p.Key().Raw(), p.Value().Raw())
	}

	s.Lock()
	defer s.Unlock()

	return s.db.Write(batch, nil)
}

// BatchDelete implements Store. Applied as a single atomic LevelDB batch.
func (s *LevelStore) BatchDelete(keys []buffer.Bytes) error {
	batch := new(leveldb.Batch)
	for _, key := range keys {
		if !key.IsValid() {
			return fault.ErrInvalidKey
		}
		batch.Delete(key.Raw())
	}

	s.Lock()
	defer s.Unlock()

	return s.db.Write(batch, nil)
}

// Iterator implements Store.
func (s *LevelStore) Iterator(from buffer.Bytes) Iterator {
	s.Lock()
	defer s.Unlock()

	var rng *util.Range
	it := s.db.NewIterator(rng, nil)
	if from.IsValid() {
		return &levelIterator{store: s, it: it, hasFrom: true, from: append([]byte(nil), from.Raw()...)}
	}
	return &levelIterator{store: s, it: it}
}

// levelIterator adapts a goleveldb iterator to the Iterator interface.
// Every step takes the store's lock since goleveldb iterators are not
// safe to use concurrently with writes to the snapshot they were
// created against.
//
// The raw iterator is left unpositioned at construction; the first
// Next or Prev call positions it, so that the first Next lands on
// lower_bound(from) (or the first key overall, with no from) and the
// first Prev lands on the entry strictly below from (or the last key
// overall, with no from).
type levelIterator struct {
	store   *LevelStore
	it      iteratorLike
	hasFrom bool
	from    []byte
	touched bool
}

// iteratorLike is the subset of goleveldb's Iterator this file uses.
type iteratorLike interface {
	First() bool
	Last() bool
	Next() bool
	Prev() bool
	Seek([]byte) bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

func (it *levelIterator) Next() bool {
	it.store.Lock()
	defer it.store.Unlock()
	if !it.touched {
		it.touched = true
		if it.hasFrom {
			return it.it.Seek(it.from)
		}
		return it.it.First()
	}
	return it.it.Next()
}

func (it *levelIterator) Prev() bool {
	it.store.Lock()
	defer it.store.Unlock()
	if !it.touched {
		it.touched = true
		if it.hasFrom {
			if !it.it.Seek(it.from) {
				return it.it.Last()
			}
			return it.it.Prev()
		}
		return it.it.Last()
	}
	return it.it.Prev()
}

func (it *levelIterator) Seek(target buffer.Bytes) bool {
	it.store.Lock()
	defer it.store.Unlock()
	it.touched = true
	return it.it.Seek(target.Raw())
}

func (it *levelIterator) Key() buffer.Bytes {
	return buffer.New(it.it.Key())
}

func (it *levelIterator) Value() buffer.Bytes {
	return buffer.New(it.it.Value())
}

func (it *levelIterator) Release() {
	it.it.Release()
}

func (it *levelIterator) Err() error {
	return it.it.Error()
}
