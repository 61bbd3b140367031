package content

import (
	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
	"github.com/vango-dev/livetree/pkg/reconcile"
)

// EachContent renders one item per element of a reactive list,
// reconciled by key.
type EachContent struct {
	staticBody Content
	start      func(anchor dom.CharacterData) state
	static     bool
}

// Each returns content rendering item for every element of source.
// Items are identified by key: when the list changes, the rendering of a
// surviving key is kept (and moved if needed) and its element is pushed
// into the Reactive the item template received. Keys must be unique.
func Each[T any, K comparable](source reactive.Reactive[[]T], key func(T) K, item func(reactive.Reactive[T]) Content) *EachContent {
	c := &EachContent{}

	if source.IsStatic() {
		c.staticBody = staticItems(source.Current(), key, item)
	}
	c.start = func(anchor dom.CharacterData) state {
		return &eachState[T, K]{
			source:  source,
			key:     key,
			item:    item,
			anchor:  anchor,
			entries: make(map[K]*eachEntry[T]),
		}
	}

	c.static = computeStatic(c)
	return c
}

func (c *EachContent) Kind() Kind     { return KindEach }
func (c *EachContent) IsStatic() bool { return c.static }
func (c *EachContent) content()       {}

// staticItems instantiates a fixed list. It returns nil when any item
// turns out dynamic.
func staticItems[T any, K comparable](values []T, key func(T) K, item func(reactive.Reactive[T]) Content) Content {
	seen := make(map[K]struct{}, len(values))
	children := make([]Content, len(values))
	for i, v := range values {
		k := key(v)
		if _, dup := seen[k]; dup {
			panic(errors.New(errors.CodeDuplicateKey).WithDetailf("key %v at index %d", k, i))
		}
		seen[k] = struct{}{}

		children[i] = item(reactive.NewStatic(v))
		if !children[i].IsStatic() {
			return nil
		}
	}
	return Fragment(children...)
}

// eachEntry is the rendering of one key.
type eachEntry[T any] struct {
	wrapper *reactive.Cell[T]
	content Content
	result  Result
}

type eachState[T any, K comparable] struct {
	source reactive.Reactive[[]T]
	key    func(T) K
	item   func(reactive.Reactive[T]) Content

	// anchor closes the list; items are always inserted before it.
	anchor   dom.CharacterData
	entries  map[K]*eachEntry[T]
	items    []reconcile.Node[K, *eachEntry[T]]
	snapshot *reactive.Snapshot
}

func (s *eachState[T, K]) bounds() Bounds {
	return liveBounds{
		first: func() dom.Node {
			if len(s.items) == 0 {
				return s.anchor
			}
			return firstNode(s.items[0].Value.result)
		},
		last: func() dom.Node { return s.anchor },
	}
}

func (s *eachState[T, K]) poll() {
	if !s.snapshot.Valid() {
		s.reconcile()
	}
	for _, n := range s.items {
		Poll(n.Value.result)
	}
}

// reconcile re-reads the source and patches the rendered items to match.
func (s *eachState[T, K]) reconcile() {
	var values []T
	s.snapshot = reactive.Track(func() { values = s.source.Current() })

	next := make([]reconcile.Node[K, *eachEntry[T]], len(values))
	seen := make(map[K]struct{}, len(values))
	for i, v := range values {
		k := s.key(v)
		if _, dup := seen[k]; dup {
			panic(errors.New(errors.CodeDuplicateKey).WithDetailf("key %v at index %d", k, i))
		}
		seen[k] = struct{}{}

		e, ok := s.entries[k]
		if ok {
			// Items are polled right after reconciling.
			reactive.Quietly(func() { e.wrapper.Set(v) })
		} else {
			w := reactive.NewCell(v)
			e = &eachEntry[T]{wrapper: w, content: s.item(w)}
			s.entries[k] = e
		}
		next[i] = reconcile.Node[K, *eachEntry[T]]{Key: k, Value: e}
	}

	script := reconcile.Diff(s.items, next)
	s.items = script.Apply(s.items, eachApplier[T, K]{s})
}

// cursor returns the insertion point in front of before, or in front of
// the anchor.
func (s *eachState[T, K]) cursor(before *reconcile.Node[K, *eachEntry[T]]) Cursor {
	if before == nil {
		return CursorBefore(s.anchor)
	}
	return CursorBefore(firstNode(before.Value.result))
}

type eachApplier[T any, K comparable] struct {
	s *eachState[T, K]
}

func (a eachApplier[T, K]) Remove(n reconcile.Node[K, *eachEntry[T]]) {
	n.Value.result.Bounds().Clear()
	delete(a.s.entries, n.Key)
}

func (a eachApplier[T, K]) Insert(n reconcile.Node[K, *eachEntry[T]], before *reconcile.Node[K, *eachEntry[T]]) {
	n.Value.result = Render(n.Value.content, a.s.cursor(before))
}

func (a eachApplier[T, K]) Move(n reconcile.Node[K, *eachEntry[T]], before *reconcile.Node[K, *eachEntry[T]]) {
	n.Value.result.Bounds().Move(a.s.cursor(before))
}

func renderEach(c *EachContent, cur Cursor) Result {
	if c.static {
		r := Render(c.staticBody, cur)
		return static(r.Bounds())
	}

	anchor := cur.Document().CreateComment("")
	cur.Insert(anchor)

	s := c.start(anchor)
	s.poll()
	return dynamic(KindEach, s)
}
