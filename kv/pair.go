// SPDX-License-Identifier: ISC

package kv

import "github.com/cpniemand/layerkv/buffer"

// Pair is a key/value entry. The zero value is Invalid.
type Pair struct {
	key   buffer.Bytes
	value buffer.Bytes
}

// Invalid represents "no such entry".
var Invalid = Pair{}

// New builds a Pair from a key and a value.
func New(key, value buffer.Bytes) Pair {
	return Pair{key: key, value: value}
}

// IsValid reports whether p is a real entry.
func (p Pair) IsValid() bool {
	return p.key.IsValid()
}

// Key returns the pair's key.
func (p Pair) Key() buffer.Bytes {
	return p.key
}

// Value returns the pair's value.
func (p Pair) Value() buffer.Bytes {
	return p.value
}

// Equal reports whether two pairs have the same key and value.
func (p Pair) Equal(other Pair) bool {
	return p.key.Equal(other.key) && p.value.Equal(other.value)
}
