package reconcile

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/internal/errors"
)

func nodes(keys ...int) []Node[int, string] {
	out := make([]Node[int, string], len(keys))
	for i, k := range keys {
		out[i] = Node[int, string]{Key: k}
	}
	return out
}

func keysOf(ns []Node[int, string]) []int {
	out := make([]int, len(ns))
	for i, n := range ns {
		out[i] = n.Key
	}
	return out
}

// listApplier mirrors patches onto a plain key list the way an output
// tree would see them: every insert and move is an insert-before.
type listApplier struct {
	list []int
	ops  []string
}

func (a *listApplier) index(k int) int {
	for i, v := range a.list {
		if v == k {
			return i
		}
	}
	return -1
}

func (a *listApplier) Remove(n Node[int, string]) {
	i := a.index(n.Key)
	a.list = append(a.list[:i], a.list[i+1:]...)
	a.ops = append(a.ops, "remove")
}

func (a *listApplier) insertBefore(k int, before *Node[int, string]) {
	if before == nil {
		a.list = append(a.list, k)
		return
	}
	i := a.index(before.Key)
	a.list = append(a.list, 0)
	copy(a.list[i+1:], a.list[i:])
	a.list[i] = k
}

func (a *listApplier) Insert(n Node[int, string], before *Node[int, string]) {
	a.insertBefore(n.Key, before)
	a.ops = append(a.ops, "insert")
}

func (a *listApplier) Move(n Node[int, string], before *Node[int, string]) {
	i := a.index(n.Key)
	a.list = append(a.list[:i], a.list[i+1:]...)
	a.insertBefore(n.Key, before)
	a.ops = append(a.ops, "move")
}

func TestDiffMinimalScript(t *testing.T) {
	prev := nodes(1, 3, 4, 2, 5, 6)
	next := nodes(2, 7, 3, 4, 1, 6, 8)

	s := Diff(prev, next)

	var got []string
	for _, p := range s.Patches {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{
		"remove 5@4",
		"insert 7@1",
		"insert 8@6",
		"move 2 3->0",
		"move 1 0->4",
	}, got)
	assert.Equal(t, 1, s.Count(OpRemove))
	assert.Equal(t, 2, s.Count(OpInsert))
	assert.Equal(t, 2, s.Count(OpMove))

	a := &listApplier{list: keysOf(prev)}
	w := s.Apply(prev, a)
	assert.Equal(t, keysOf(next), keysOf(w))
	assert.Equal(t, keysOf(next), a.list)
}

func TestDiffIdentical(t *testing.T) {
	s := Diff(nodes(1, 2, 3), nodes(1, 2, 3))
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
}

func TestDiffReverse(t *testing.T) {
	prev := nodes(1, 2, 3, 4)
	next := nodes(4, 3, 2, 1)
	s := Diff(prev, next)
	assert.Equal(t, 3, s.Count(OpMove))

	a := &listApplier{list: keysOf(prev)}
	s.Apply(prev, a)
	assert.Equal(t, []int{4, 3, 2, 1}, a.list)
}

func TestApplyInsertAroundMovedNeighbor(t *testing.T) {
	// The inserted key sits between two keys that swap places; anchoring
	// it to a moving neighbor would leave it out of order.
	prev := nodes(1, 2)
	next := nodes(2, 9, 1)

	a := &listApplier{list: keysOf(prev)}
	w := Diff(prev, next).Apply(prev, a)

	assert.Equal(t, []int{2, 9, 1}, a.list)
	assert.Equal(t, []int{2, 9, 1}, keysOf(w))
}

func TestApplyCarriesNextValues(t *testing.T) {
	prev := []Node[int, string]{{1, "old"}, {2, "b"}}
	next := []Node[int, string]{{2, "b"}, {1, "new"}}

	w := Diff(prev, next).Apply(prev, &listApplier{list: []int{1, 2}})
	assert.Equal(t, next, w)
}

func TestApplyDoesNotMutateWorking(t *testing.T) {
	prev := nodes(1, 2, 3)
	Diff(prev, nodes(3)).Apply(prev, &listApplier{list: []int{1, 2, 3}})
	assert.Equal(t, []int{1, 2, 3}, keysOf(prev))
}

func TestDiffDuplicateKeys(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.True(t, errors.Is(r, errors.CodeDuplicateKey))
	}()
	Diff(nodes(1), nodes(2, 2))
}

func TestLongestIncreasing(t *testing.T) {
	tests := []struct {
		seq  []int
		want int
	}{
		{nil, 0},
		{[]int{0}, 1},
		{[]int{3, 1, 2, 0, 5}, 3},
		{[]int{5, 4, 3, 2, 1}, 1},
		{[]int{0, 1, 2, 3}, 4},
	}
	for _, tt := range tests {
		keep := longestIncreasing(tt.seq)
		var picked []int
		for i, k := range keep {
			if k {
				picked = append(picked, tt.seq[i])
			}
		}
		assert.Len(t, picked, tt.want, "seq %v", tt.seq)
		for i := 1; i < len(picked); i++ {
			assert.Less(t, picked[i-1], picked[i], "seq %v", tt.seq)
		}
	}
}

func TestRandomScriptsConverge(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 500; round++ {
		prev := randomKeys(rng)
		next := randomKeys(rng)

		s := Diff(nodes(prev...), nodes(next...))
		a := &listApplier{list: append([]int(nil), prev...)}
		w := s.Apply(nodes(prev...), a)

		require.Equal(t, next, a.list, "round %d: %v -> %v", round, prev, next)
		require.Equal(t, next, keysOf(w), "round %d", round)

		survivors := 0
		for _, k := range next {
			for _, p := range prev {
				if p == k {
					survivors++
				}
			}
		}
		require.LessOrEqual(t, s.Count(OpMove), max(survivors-1, 0), "round %d", round)
	}
}

func randomKeys(rng *rand.Rand) []int {
	keys := []int{}
	for _, k := range rng.Perm(10) {
		if rng.Intn(4) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "move", OpMove.String())
	assert.Equal(t, "Op(9)", Op(9).String())
}
