// SPDX-License-Identifier: ISC

// Package session implements a stack of nested, in-memory write
// buffers ("layers") sitting atop a persistent key/value store. Layers
// form a single linear chain; each one sees the merged view of every
// layer beneath it, can shadow entries with tombstones, can be
// committed (squashed into its parent or, at the root, into the
// backing store) or undone (discarded), and can be iterated in global
// sorted key order across the whole chain plus the backing store.
package session
