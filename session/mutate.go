// SPDX-License-Identifier: ISC

package session

import (
	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
	"github.com/cpniemand/layerkv/overlay"
)

// applyWrite writes key/value into n as though n were the tip: it is
// also how a commit write-through behaves when its destination is a
// parent layer rather than the backing store.
func (n *node) applyWrite(key, value buffer.Bytes) {
	k := key.Key()
	delete(n.deleted, k)
	n.updated[k] = key
	_ = n.overlay.Put(key, value)
	n.updateNeighborCache(key, false, true, false, true)
}

// applyErase tombstones key in n as though n were the tip.
func (n *node) applyErase(key buffer.Bytes) {
	k := key.Key()
	delete(n.updated, k)
	n.deleted[k] = key
	_ = n.overlay.Delete(key)
	n.updateNeighborCache(key, false, true, true, true)
}

func (n *node) applyBatchWrite(pairs []kv.Pair) {
	for _, p := range pairs {
		n.applyWrite(p.Key(), p.Value())
	}
}

func (n *node) applyBatchErase(keys []buffer.Bytes) {
	for _, key := range keys {
		n.applyErase(key)
	}
}

// clear discards n's local state without touching parent or backing;
// unlike undo, n stays linked into the chain.
func (n *node) clear() {
	n.overlay = overlay.New()
	n.updated = make(map[string]buffer.Bytes)
	n.deleted = make(map[string]buffer.Bytes)
	n.clearNeighbors()
}
