package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/internal/errors"
)

func TestCellSetDirtiesTag(t *testing.T) {
	c := NewCell("hello")
	before := c.Tag().Revision()

	assert.True(t, c.Set("goodbye"))
	assert.Greater(t, c.Tag().Revision(), before)
	assert.Equal(t, "goodbye", c.Peek())
}

func TestCellSetSameValueIsNoop(t *testing.T) {
	c := NewCell(3)
	rev := c.Tag().Revision()

	assert.False(t, c.Set(3))
	assert.Equal(t, rev, c.Tag().Revision())
}

func TestCellWithEquals(t *testing.T) {
	type point struct{ X, Y int }
	c := NewCell(point{1, 2}).WithEquals(func(a, b point) bool { return a.X == b.X })

	assert.False(t, c.Set(point{1, 9}), "Y is ignored by the equality func")
	assert.True(t, c.Set(point{2, 2}))
}

func TestCellUpdate(t *testing.T) {
	c := NewCell(1)
	c.Update(func(n int) int { return n + 1 })
	assert.Equal(t, 2, c.Peek())
}

func TestTrackRecordsConsumedTags(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)

	snap := Track(func() {
		_ = a.Current()
		_ = a.Current()
		_ = b.Peek()
	})

	require.Len(t, snap.Tags(), 1)
	assert.Same(t, a.Tag(), snap.Tags()[0])
	assert.True(t, snap.Valid())

	b.Set(5)
	assert.True(t, snap.Valid(), "peeked values are not dependencies")

	a.Set(7)
	assert.False(t, snap.Valid())
	assert.Equal(t, a.Tag().Revision(), snap.MaxRevision())
}

func TestTrackForwardsToParent(t *testing.T) {
	a := NewCell(1)
	var inner *Snapshot

	outer := Track(func() {
		inner = Track(func() { _ = a.Current() })
	})

	assert.Len(t, inner.Tags(), 1)
	assert.Len(t, outer.Tags(), 1)
}

func TestUntrackedHidesReads(t *testing.T) {
	a := NewCell(1)
	snap := Track(func() {
		Untracked(func() { _ = a.Current() })
	})
	assert.True(t, snap.Constant())
}

func TestDerivedMemoizes(t *testing.T) {
	count := NewCell(2)
	runs := 0
	doubled := NewDerived(func() int {
		runs++
		return count.Current() * 2
	})

	assert.Equal(t, 4, doubled.Current())
	assert.Equal(t, 4, doubled.Current())
	assert.Equal(t, 1, runs)

	count.Set(5)
	assert.Equal(t, 10, doubled.Current())
	assert.Equal(t, 2, runs)
}

func TestDerivedChain(t *testing.T) {
	first := NewCell("Ada")
	last := NewCell("Lovelace")
	full := NewDerived(func() string { return first.Current() + " " + last.Current() })
	upper := NewDerived(func() int { return len(full.Current()) })

	snap := Track(func() { _ = upper.Current() })
	assert.Len(t, snap.Tags(), 2, "outer frame sees tags of nested caches")

	last.Set("King")
	assert.False(t, snap.Valid())
	assert.Equal(t, 8, upper.Current())
}

func TestDerivedCachedReadStillConsumes(t *testing.T) {
	c := NewCell(1)
	d := NewDerived(func() int { return c.Current() })
	_ = d.Current()

	snap := Track(func() { _ = d.Current() })
	assert.Len(t, snap.Tags(), 1)
}

func TestDerivedIsStatic(t *testing.T) {
	s := NewStatic(3)
	constant := NewDerived(func() int { return s.Current() + 1 })
	assert.True(t, constant.IsStatic())

	c := NewCell(3)
	dynamic := NewDerived(func() int { return c.Current() + 1 })
	assert.False(t, dynamic.IsStatic())
}

func TestDerivedCircularPanics(t *testing.T) {
	var d *Derived[int]
	d = NewDerived(func() int { return d.Current() + 1 })

	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.True(t, errors.Is(r, errors.CodeCircularDerived))
	}()
	d.Current()
}

func TestWriteAfterReadPanics(t *testing.T) {
	c := NewCell(1).Named("counter")

	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.True(t, errors.Is(r, errors.CodeWriteAfterRead))
		assert.Contains(t, r.(error).Error(), "counter")
	}()
	Track(func() {
		_ = c.Current()
		c.Set(2)
	})
}

func TestWriteBeforeReadIsAllowed(t *testing.T) {
	c := NewCell(1)
	snap := Track(func() {
		c.Set(2)
		_ = c.Current()
	})
	assert.True(t, snap.Valid())
}

func TestOnDirtyHook(t *testing.T) {
	calls := 0
	remove := OnDirty(func() { calls++ })

	c := NewCell(0)
	c.Set(1)
	c.Set(1)
	c.Set(2)
	assert.Equal(t, 2, calls)

	remove()
	remove()
	c.Set(3)
	assert.Equal(t, 2, calls)
}

func TestQuietlySkipsHooksButInvalidates(t *testing.T) {
	calls := 0
	remove := OnDirty(func() { calls++ })
	defer remove()

	c := NewCell(1)
	d := NewDerived(func() int { return c.Current() * 10 })
	require.Equal(t, 10, d.Current())

	Quietly(func() { c.Set(2) })
	assert.Equal(t, 0, calls)
	assert.Equal(t, 20, d.Current())

	c.Set(3)
	assert.Equal(t, 1, calls)
}

func TestMapStaticStaysStatic(t *testing.T) {
	m := Map[int, string](NewStatic(4), func(n int) string { return "n" })
	_, ok := m.(*Static[string])
	assert.True(t, ok)

	c := NewCell(4)
	d := Map[int, int](c, func(n int) int { return n * n })
	assert.False(t, d.IsStatic())
	c.Set(5)
	assert.Equal(t, 25, d.Current())
}
