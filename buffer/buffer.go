// SPDX-License-Identifier: ISC

package buffer

import (
	"bytes"
	"encoding/hex"
)

// Bytes is an immutable ordered byte sequence. Comparison is lexicographic.
// The zero value is the Invalid sentinel: it is not equal to any real
// buffer, including an empty one.
type Bytes struct {
	data  []byte
	valid bool
}

// Invalid is the distinguished sentinel meaning "no such buffer". It is
// only ever produced as a placeholder return value, never stored.
var Invalid = Bytes{}

// New copies data into a new Bytes. A nil or empty slice produces a valid,
// empty buffer, distinct from Invalid.
func New(data []byte) Bytes {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Bytes{data: cp, valid: true}
}

// FromString copies the bytes of s into a new Bytes.
func FromString(s string) Bytes {
	return New([]byte(s))
}

// IsValid reports whether b is a real buffer rather than the Invalid
// sentinel.
func (b Bytes) IsValid() bool {
	return b.valid
}

// Raw returns the underlying bytes. The caller must not modify the
// returned slice.
func (b Bytes) Raw() []byte {
	return b.data
}

// Len returns the number of bytes in b.
func (b Bytes) Len() int {
	return len(b.data)
}

// String renders b as a hex string, or "<invalid>" for the sentinel.
func (b Bytes) String() string {
	if !b.valid {
		return "<invalid>"
	}
	return hex.EncodeToString(b.data)
}

// Key returns a value suitable for use as a Go map key. Two buffers with
// the same contents always produce the same Key.
func (b Bytes) Key() string {
	return string(b.data)
}

// Equal reports whether a and b hold the same validity and, if valid, the
// same bytes.
func (a Bytes) Equal(b Bytes) bool {
	if a.valid != b.valid {
		return false
	}
	if !a.valid {
		return true
	}
	return bytes.Equal(a.data, b.data)
}

// Less reports whether a sorts strictly before b. Invalid sorts after
// every real buffer and is never less than another Invalid.
func (a Bytes) Less(b Bytes) bool {
	if a.valid && b.valid {
		return bytes.Compare(a.data, b.data) < 0
	}
	return a.valid && !b.valid
}

// Compare returns -1, 0 or +1 as a is less than, equal to, or greater
// than b, treating Invalid as sorting after every real buffer.
func Compare(a, b Bytes) int {
	switch {
	case a.Equal(b):
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}
