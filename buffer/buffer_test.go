// SPDX-License-Identifier: ISC

package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cpniemand/layerkv/buffer"
)

func TestInvalidSentinel(t *testing.T) {
	assert.False(t, buffer.Invalid.IsValid())
	assert.True(t, buffer.Invalid.Equal(buffer.Bytes{}))
	assert.False(t, buffer.New([]byte{}).Equal(buffer.Invalid), "empty buffer is not invalid")
}

func TestEqualAndCompare(t *testing.T) {
	a := buffer.FromString("abc")
	b := buffer.FromString("abc")
	c := buffer.FromString("abd")

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, buffer.Compare(a, b))
	assert.Equal(t, -1, buffer.Compare(a, c))
	assert.Equal(t, 1, buffer.Compare(c, a))
}

func TestInvalidSortsLast(t *testing.T) {
	a := buffer.FromString("zzzz")
	assert.True(t, a.Less(buffer.Invalid))
	assert.False(t, buffer.Invalid.Less(a))
	assert.False(t, buffer.Invalid.Less(buffer.Invalid))
}

func TestNewCopiesInput(t *testing.T) {
	raw := []byte("hello")
	b := buffer.New(raw)
	raw[0] = 'H'
	assert.Equal(t, "hello", string(b.Raw()))
}
