// SPDX-License-Identifier: ISC

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
)

func TestInvalid(t *testing.T) {
	assert.False(t, kv.Invalid.IsValid())
}

func TestNewAndAccessors(t *testing.T) {
	p := kv.New(buffer.FromString("k"), buffer.FromString("v"))
	assert.True(t, p.IsValid())
	assert.Equal(t, "k", string(p.Key().Raw()))
	assert.Equal(t, "v", string(p.Value().Raw()))
}

func TestEqual(t *testing.T) {
	a := kv.New(buffer.FromString("k"), buffer.FromString("v"))
	b := kv.New(buffer.FromString("k"), buffer.FromString("v"))
	c := kv.New(buffer.FromString("k"), buffer.FromString("v2"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
