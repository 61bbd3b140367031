package content

import (
	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
)

// Cursor is an insertion point: new nodes go into Parent before Next.
// A nil Next appends.
type Cursor struct {
	Parent dom.Node
	Next   dom.Node
}

// AppendTo returns a cursor appending to parent.
func AppendTo(parent dom.Node) Cursor {
	return Cursor{Parent: parent}
}

// CursorBefore returns the cursor immediately before n.
// n must be attached.
func CursorBefore(n dom.Node) Cursor {
	p := n.Parent()
	if p == nil {
		panic(errors.New(errors.CodeMalformedCursor).WithDetail("node has no parent"))
	}
	return Cursor{Parent: p, Next: n}
}

// CursorAfter returns the cursor immediately after n.
// n must be attached.
func CursorAfter(n dom.Node) Cursor {
	p := n.Parent()
	if p == nil {
		panic(errors.New(errors.CodeMalformedCursor).WithDetail("node has no parent"))
	}
	return Cursor{Parent: p, Next: n.NextSibling()}
}

// Document returns the document that owns the cursor's parent.
func (c Cursor) Document() dom.Document {
	if c.Parent.Type() == dom.DocumentNode {
		if d, ok := c.Parent.(dom.Document); ok {
			return d
		}
	}
	return c.Parent.OwnerDocument()
}

// Insert places n at the cursor.
func (c Cursor) Insert(n dom.Node) {
	c.Parent.InsertBefore(n, c.Next)
}

// validate panics unless the cursor can be rendered into: the parent
// must exist and be attached, and Next must be one of its children.
func (c Cursor) validate() {
	if c.Parent == nil {
		panic(errors.New(errors.CodeMalformedCursor).WithDetail("cursor parent is nil"))
	}
	if c.Parent.Type() != dom.DocumentNode && c.Parent.Parent() == nil {
		panic(errors.New(errors.CodeMalformedCursor).WithDetail("cursor parent is not attached"))
	}
	if c.Next != nil && c.Next.Parent() != c.Parent {
		panic(errors.New(errors.CodeMalformedCursor).WithDetail("cursor next node is not a child of the parent"))
	}
}
