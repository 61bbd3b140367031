package content

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// TextContent renders one text node.
type TextContent struct {
	value  reactive.Reactive[string]
	static bool
}

// Text returns content rendering value as a text node.
func Text(value reactive.Reactive[string]) *TextContent {
	c := &TextContent{value: value}
	c.static = computeStatic(c)
	return c
}

// StaticText returns text content that never changes.
func StaticText(s string) *TextContent {
	return Text(reactive.NewStatic(s))
}

func (c *TextContent) Kind() Kind     { return KindText }
func (c *TextContent) IsStatic() bool { return c.static }
func (c *TextContent) content()       {}

// CommentContent renders one comment node.
type CommentContent struct {
	value  reactive.Reactive[string]
	static bool
}

// Comment returns content rendering value as a comment node.
func Comment(value reactive.Reactive[string]) *CommentContent {
	c := &CommentContent{value: value}
	c.static = computeStatic(c)
	return c
}

// StaticComment returns comment content that never changes.
func StaticComment(s string) *CommentContent {
	return Comment(reactive.NewStatic(s))
}

func (c *CommentContent) Kind() Kind     { return KindComment }
func (c *CommentContent) IsStatic() bool { return c.static }
func (c *CommentContent) content()       {}

// dataState keeps a character-data node in sync with its value.
type dataState struct {
	node  dom.CharacterData
	value reactive.Reactive[string]
	last  string
}

func (s *dataState) bounds() Bounds { return NodeBounds(s.node) }

func (s *dataState) poll() {
	v := s.value.Current()
	if v == s.last {
		return
	}
	s.node.SetData(v)
	s.last = v
}

func renderText(c *TextContent, cur Cursor) Result {
	v := c.value.Current()
	n := cur.Document().CreateText(v)
	cur.Insert(n)
	if c.static {
		return static(NodeBounds(n))
	}
	return dynamic(KindText, &dataState{node: n, value: c.value, last: v})
}

func renderComment(c *CommentContent, cur Cursor) Result {
	v := c.value.Current()
	n := cur.Document().CreateComment(v)
	cur.Insert(n)
	if c.static {
		return static(NodeBounds(n))
	}
	return dynamic(KindComment, &dataState{node: n, value: c.value, last: v})
}
