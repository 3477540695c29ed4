// SPDX-License-Identifier: ISC

// Package overlay implements the in-memory ordered key/value container
// each session layer keeps for its own writes and its opportunistic
// read-through cache of entries pulled up from lower layers. It
// satisfies store.Store, and additionally exposes Ceil/Floor/Lower/Higher
// neighbor lookups. The session engine itself resolves cross-layer
// iterator bounds through the Cache's store.Iterator, which snapshots
// the whole layer.
package overlay
