package reconcile

import (
	"fmt"

	"github.com/vango-dev/livetree/internal/errors"
)

// Node is one keyed entry of a list snapshot.
type Node[K comparable, V any] struct {
	Key   K
	Value V
}

// Op is a patch operation.
type Op uint8

const (
	OpRemove Op = iota + 1
	OpInsert
	OpMove
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpRemove:
		return "remove"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	default:
		return fmt.Sprintf("Op(%d)", op)
	}
}

// Patch is one edit. From is the index in the previous snapshot (remove,
// move); To is the index in the next snapshot (insert, move). Unused
// indices are -1.
type Patch[K comparable, V any] struct {
	Op   Op
	Node Node[K, V]
	From int
	To   int
}

// String formats the patch for debugging.
func (p Patch[K, V]) String() string {
	switch p.Op {
	case OpRemove:
		return fmt.Sprintf("remove %v@%d", p.Node.Key, p.From)
	case OpInsert:
		return fmt.Sprintf("insert %v@%d", p.Node.Key, p.To)
	default:
		return fmt.Sprintf("move %v %d->%d", p.Node.Key, p.From, p.To)
	}
}

// Script is the edit script turning one snapshot into the next.
type Script[K comparable, V any] struct {
	// Patches holds removes in ascending From order, then inserts in
	// ascending To order, then moves in ascending To order.
	Patches []Patch[K, V]

	next   []Node[K, V]
	status map[K]keyStatus
}

type keyStatus uint8

const (
	stationary keyStatus = iota + 1
	inserted
	moved
)

// Diff computes the script turning prev into next. Keys must be unique
// within each snapshot.
func Diff[K comparable, V any](prev, next []Node[K, V]) *Script[K, V] {
	prevIndex := indexKeys(prev)
	nextIndex := indexKeys(next)

	s := &Script[K, V]{
		next:   next,
		status: make(map[K]keyStatus, len(next)),
	}

	for i, n := range prev {
		if _, ok := nextIndex[n.Key]; !ok {
			s.Patches = append(s.Patches, Patch[K, V]{Op: OpRemove, Node: n, From: i, To: -1})
		}
	}

	// Previous positions of surviving keys, in next order.
	var seq, seqAt []int
	for j, n := range next {
		i, ok := prevIndex[n.Key]
		if !ok {
			s.status[n.Key] = inserted
			s.Patches = append(s.Patches, Patch[K, V]{Op: OpInsert, Node: n, From: -1, To: j})
			continue
		}
		seq = append(seq, i)
		seqAt = append(seqAt, j)
	}

	keep := longestIncreasing(seq)
	for k, j := range seqAt {
		key := next[j].Key
		if keep[k] {
			s.status[key] = stationary
			continue
		}
		s.status[key] = moved
		s.Patches = append(s.Patches, Patch[K, V]{Op: OpMove, Node: next[j], From: seq[k], To: j})
	}
	return s
}

// Len returns the number of patches.
func (s *Script[K, V]) Len() int { return len(s.Patches) }

// Empty reports whether the snapshots were identical in key order.
func (s *Script[K, V]) Empty() bool { return len(s.Patches) == 0 }

// Count returns the number of patches with the given operation.
func (s *Script[K, V]) Count(op Op) int {
	n := 0
	for _, p := range s.Patches {
		if p.Op == op {
			n++
		}
	}
	return n
}

func indexKeys[K comparable, V any](nodes []Node[K, V]) map[K]int {
	index := make(map[K]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.Key]; dup {
			panic(errors.New(errors.CodeDuplicateKey).WithDetailf("key %v at index %d", n.Key, i))
		}
		index[n.Key] = i
	}
	return index
}

// longestIncreasing marks the members of one longest strictly
// increasing subsequence of seq.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	// tails[l] is the index in seq of the smallest tail of an increasing
	// run of length l+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
