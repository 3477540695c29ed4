// SPDX-License-Identifier: ISC

package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/kv"
	"github.com/cpniemand/layerkv/session"
	"github.com/cpniemand/layerkv/store"
)

func openBacking(t *testing.T) *store.LevelStore {
	t.Helper()
	s, err := store.OpenLevelStore(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func k(s string) buffer.Bytes { return buffer.FromString(s) }

func readString(t *testing.T, s session.Session, key string) (string, bool) {
	t.Helper()
	p, err := s.Read(k(key))
	require.NoError(t, err)
	if !p.IsValid() {
		return "", false
	}
	return string(p.Value().Raw()), true
}

func TestRootWriteReadErase(t *testing.T) {
	root := session.NewRoot(openBacking(t))

	_, ok := readString(t, root, "a")
	assert.False(t, ok)

	root.Write(k("a"), k("1"))
	v, ok := readString(t, root, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	root.Erase(k("a"))
	_, ok = readString(t, root, "a")
	assert.False(t, ok)
}

func TestRootWriteThroughBacking(t *testing.T) {
	backing := openBacking(t)
	root := session.NewRoot(backing)

	root.Write(k("a"), k("1"))
	require.NoError(t, root.Commit())

	value, ok, err := backing.Get(k("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", string(value.Raw()))
}

func TestNestShadowsParent(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))

	tip := root.Nest()
	v, ok := readString(t, tip, "a")
	require.True(t, ok)
	assert.Equal(t, "1", v, "tip reads through to parent's write")

	tip.Erase(k("a"))
	_, ok = readString(t, tip, "a")
	assert.False(t, ok, "tombstone at tip shadows the parent's value")

	v, ok = readString(t, root, "a")
	require.True(t, ok)
	assert.Equal(t, "1", v, "the parent itself is untouched")
}

func TestNestReadThroughCachesLocally(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))
	tip := root.Nest()

	v, ok := readString(t, tip, "a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	cache := tip.OverlayCache()
	value, ok, err := cache.Get(k("a"))
	require.NoError(t, err)
	require.True(t, ok, "reading through an ancestor memoizes into the tip's own overlay")
	assert.Equal(t, "1", string(value.Raw()))
}

func TestCommitSquashesIntoParent(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))

	tip := root.Nest()
	tip.Write(k("b"), k("2"))
	tip.Erase(k("a"))

	require.NoError(t, tip.Commit())

	_, ok := readString(t, tip, "a")
	assert.False(t, ok, "the committed layer shows the squashed tombstone")

	v, ok := readString(t, root, "a")
	assert.False(t, ok, "the tombstone squashed into the parent")
	v, ok = readString(t, root, "b")
	require.True(t, ok)
	assert.Equal(t, "2", v, "the write squashed into the parent")
}

func TestUndoDropsWritesWithoutTouchingParent(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))

	tip := root.Nest()
	tip.Write(k("a"), k("2"))
	tip.Undo()

	v, ok := readString(t, root, "a")
	require.True(t, ok)
	assert.Equal(t, "1", v, "undo never wrote through")
}

func TestUndoReconnectsChain(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	middle := root.Nest()
	tip := middle.Nest()

	tip.Write(k("a"), k("1"))
	middle.Undo()

	v, ok := readString(t, tip, "a")
	require.True(t, ok)
	assert.Equal(t, "1", v, "tip is still reachable after its former parent is undone")

	root.Write(k("b"), k("2"))
	v, ok = readString(t, tip, "b")
	require.True(t, ok, "tip now reads through directly to what used to be its grandparent")
	assert.Equal(t, "2", v)
}

func TestAttachReplacesExistingChild(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	oldChild := root.Nest()
	oldChild.Write(k("a"), k("old"))

	newChild := session.NewRoot(openBacking(t)).Nest()
	newChild.Write(k("b"), k("new"))

	previous := root.Attach(newChild)
	assert.True(t, previous.IsValid())

	v, ok := readString(t, newChild, "b")
	require.True(t, ok)
	assert.Equal(t, "new", v)

	_, ok = readString(t, previous, "a")
	assert.True(t, ok, "the detached former child keeps its own data")
}

func TestClearDiscardsLocalStateOnly(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))
	tip := root.Nest()
	tip.Write(k("b"), k("2"))

	tip.Clear()

	_, ok := readString(t, tip, "b")
	assert.False(t, ok)
	v, ok := readString(t, tip, "a")
	require.True(t, ok, "clear does not unlink the layer from its parent")
	assert.Equal(t, "1", v)
}

func TestBatchReadMixesLayersAndBacking(t *testing.T) {
	backing := openBacking(t)
	require.NoError(t, backing.Put(k("from-store"), k("s")))

	root := session.NewRoot(backing)
	root.Write(k("from-root"), k("r"))
	tip := root.Nest()
	tip.Write(k("from-tip"), k("t"))

	found, missing, err := tip.BatchRead([]buffer.Bytes{
		k("from-store"), k("from-root"), k("from-tip"), k("absent"),
	})
	require.NoError(t, err)
	assert.Len(t, found, 3)
	assert.Equal(t, []buffer.Bytes{k("absent")}, missing)
}

func TestWriteToAndReadFrom(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))
	root.Write(k("b"), k("2"))

	other := session.NewRoot(openBacking(t))
	require.NoError(t, root.WriteTo(other, []buffer.Bytes{k("a"), k("b"), k("missing")}))

	v, ok := readString(t, other, "a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	third := session.NewRoot(openBacking(t))
	require.NoError(t, third.ReadFrom(root, []buffer.Bytes{k("b")}))
	v, ok = readString(t, third, "b")
	require.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestIteratorWalksMergedViewInOrder(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))
	root.Write(k("c"), k("3"))

	tip := root.Nest()
	tip.Write(k("b"), k("2"))
	tip.Erase(k("a"))

	var got []string
	for it := tip.Begin(); !it.AtEnd(); it.Next() {
		p, err := it.Read()
		require.NoError(t, err)
		got = append(got, string(p.Key().Raw()))
	}
	assert.Equal(t, []string{"b", "c"}, got, "a is shadowed by the tip's tombstone")
}

func TestIteratorWrapsCyclically(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))
	root.Write(k("b"), k("2"))

	it := root.Begin()
	require.False(t, it.AtEnd())

	it.Next()
	require.False(t, it.AtEnd(), "b")
	it.Next()
	assert.True(t, it.AtEnd(), "stepping past the last real entry lands on end")

	it.Next()
	assert.False(t, it.AtEnd(), "the next step after end wraps to begin")
	p, err := it.Read()
	require.NoError(t, err)
	assert.Equal(t, "a", string(p.Key().Raw()))
}

func TestIteratorPrevFromEndReachesLast(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))
	root.Write(k("b"), k("2"))

	it := root.End()
	it.Prev()
	require.False(t, it.AtEnd())
	p, err := it.Read()
	require.NoError(t, err)
	assert.Equal(t, "b", string(p.Key().Raw()))
}

func TestFindLowerBoundUpperBound(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	for _, pair := range []kv.Pair{
		kv.New(k("a"), k("1")),
		kv.New(k("c"), k("3")),
		kv.New(k("e"), k("5")),
	} {
		root.Write(pair.Key(), pair.Value())
	}

	it := root.Find(k("c"))
	require.False(t, it.AtEnd())

	it = root.Find(k("b"))
	assert.True(t, it.AtEnd(), "find on an absent key returns End")

	it = root.LowerBound(k("b"))
	require.False(t, it.AtEnd())
	p, err := it.Read()
	require.NoError(t, err)
	assert.Equal(t, "c", string(p.Key().Raw()))

	it = root.UpperBound(k("c"))
	require.False(t, it.AtEnd())
	p, err = it.Read()
	require.NoError(t, err)
	assert.Equal(t, "e", string(p.Key().Raw()))
}

func TestIteratorEqualityIsPerSession(t *testing.T) {
	root := session.NewRoot(openBacking(t))
	root.Write(k("a"), k("1"))

	it1 := root.Find(k("a"))
	it2 := root.Find(k("a"))
	assert.True(t, it1.Equal(it2))

	other := session.NewRoot(openBacking(t))
	other.Write(k("a"), k("1"))
	it3 := other.Find(k("a"))
	assert.False(t, it1.Equal(it3), "equality is only defined within the same session")
}

func TestInvalidSessionOperationsAreSafeNoOps(t *testing.T) {
	var invalid session.Session
	assert.False(t, invalid.IsValid())

	_, err := invalid.Read(k("a"))
	assert.Error(t, err)

	invalid.Write(k("a"), k("1")) // must not panic
	assert.False(t, invalid.Nest().IsValid())
}

func TestNewRootWithOverlaySeedsAuthoredState(t *testing.T) {
	backing := openBacking(t)
	root := session.NewRootWithOverlay(backing, []kv.Pair{
		kv.New(k("a"), k("1")),
	})

	require.NoError(t, root.Commit())

	value, ok, err := backing.Get(k("a"))
	require.NoError(t, err)
	require.True(t, ok, "seeded pairs are treated as authored, so commit writes them through")
	assert.Equal(t, "1", string(value.Raw()))
}
