package reconcile

// Applier performs patches on the output. before is the entry the node
// must end up immediately in front of, or nil for the end of the list.
type Applier[K comparable, V any] interface {
	Remove(n Node[K, V])
	Insert(n Node[K, V], before *Node[K, V])
	Move(n Node[K, V], before *Node[K, V])
}

// Apply runs the script against working, which must hold the previous
// snapshot, calling a for every patch. It returns the updated working
// array, which equals the next snapshot.
//
// Patches run in the order remove, insert, move. Each insert is placed
// before the nearest following stationary entry and each move before the
// nearest following entry that is not itself waiting to move. Both
// neighbors are already in their final relative order when the patch
// runs.
func (s *Script[K, V]) Apply(working []Node[K, V], a Applier[K, V]) []Node[K, V] {
	w := append([]Node[K, V](nil), working...)

	for _, p := range s.Patches {
		switch p.Op {
		case OpRemove:
			i := indexOf(w, p.Node.Key)
			a.Remove(w[i])
			w = append(w[:i], w[i+1:]...)

		case OpInsert:
			before := s.anchor(p.To, func(st keyStatus) bool { return st == stationary })
			w = place(w, p.Node, before)
			a.Insert(p.Node, before)

		case OpMove:
			i := indexOf(w, p.Node.Key)
			w = append(w[:i], w[i+1:]...)
			before := s.anchor(p.To, func(st keyStatus) bool { return st != moved })
			w = place(w, p.Node, before)
			a.Move(p.Node, before)
		}
	}

	// Values of the next snapshot win for surviving keys.
	copy(w, s.next)
	return w
}

// anchor returns the first entry after position to whose status
// satisfies ok, or nil.
func (s *Script[K, V]) anchor(to int, ok func(keyStatus) bool) *Node[K, V] {
	for k := to + 1; k < len(s.next); k++ {
		if ok(s.status[s.next[k].Key]) {
			n := s.next[k]
			return &n
		}
	}
	return nil
}

func place[K comparable, V any](w []Node[K, V], n Node[K, V], before *Node[K, V]) []Node[K, V] {
	if before == nil {
		return append(w, n)
	}
	i := indexOf(w, before.Key)
	w = append(w, Node[K, V]{})
	copy(w[i+1:], w[i:])
	w[i] = n
	return w
}

func indexOf[K comparable, V any](w []Node[K, V], key K) int {
	for i, n := range w {
		if n.Key == key {
			return i
		}
	}
	panic("reconcile: key missing from working array")
}
