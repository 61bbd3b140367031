package content

import (
	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
)

// Bounds is the span of sibling nodes a rendered result occupies.
type Bounds interface {
	Parent() dom.Node
	First() dom.Node
	Last() dom.Node

	// Clear detaches every node in the span and returns the cursor the
	// span occupied.
	Clear() Cursor

	// Move relocates the span to the cursor without re-rendering it.
	Move(to Cursor) Bounds
}

// fixedBounds spans first..last; the nodes never change.
type fixedBounds struct {
	first, last dom.Node
}

// NodeBounds returns the bounds of a single node.
func NodeBounds(n dom.Node) Bounds {
	return fixedBounds{first: n, last: n}
}

// RangeBounds returns the bounds spanning first..last, which must be
// siblings in document order.
func RangeBounds(first, last dom.Node) Bounds {
	return fixedBounds{first: first, last: last}
}

func (b fixedBounds) Parent() dom.Node      { return b.first.Parent() }
func (b fixedBounds) First() dom.Node       { return b.first }
func (b fixedBounds) Last() dom.Node        { return b.last }
func (b fixedBounds) Clear() Cursor         { return clearSpan(b) }
func (b fixedBounds) Move(to Cursor) Bounds { moveSpan(b, to); return b }

// liveBounds resolves its ends on every call, so it follows the current
// bounds of the sub-results it is composed of.
type liveBounds struct {
	first func() dom.Node
	last  func() dom.Node
}

// composite spans from the first node of head to the last node of tail.
func composite(head, tail Result) Bounds {
	return liveBounds{
		first: func() dom.Node { return head.Bounds().First() },
		last:  func() dom.Node { return tail.Bounds().Last() },
	}
}

func (b liveBounds) Parent() dom.Node      { return b.first().Parent() }
func (b liveBounds) First() dom.Node       { return b.first() }
func (b liveBounds) Last() dom.Node        { return b.last() }
func (b liveBounds) Clear() Cursor         { return clearSpan(b) }
func (b liveBounds) Move(to Cursor) Bounds { moveSpan(b, to); return b }

// spanNodes lists the nodes of b in order.
func spanNodes(b Bounds) []dom.Node {
	first, last := b.First(), b.Last()
	if first.Parent() == nil {
		panic(errors.New(errors.CodeDetachedBounds))
	}

	var nodes []dom.Node
	for n := first; ; n = n.NextSibling() {
		if n == nil {
			panic(errors.New(errors.CodeDetachedBounds).WithDetail("last node does not follow first node"))
		}
		nodes = append(nodes, n)
		if n == last {
			return nodes
		}
	}
}

func clearSpan(b Bounds) Cursor {
	parent := b.Parent()
	if parent == nil {
		panic(errors.New(errors.CodeDetachedBounds))
	}
	nodes := spanNodes(b)
	next := b.Last().NextSibling()
	for _, n := range nodes {
		parent.RemoveChild(n)
	}
	return Cursor{Parent: parent, Next: next}
}

func moveSpan(b Bounds, to Cursor) {
	to.validate()
	for _, n := range spanNodes(b) {
		to.Insert(n)
	}
}
