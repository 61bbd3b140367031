package content

import (
	"fmt"

	"github.com/vango-dev/livetree/pkg/dom"
)

// Kind identifies a content variant.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindComment
	KindFragment
	KindElement
	KindChoice
	KindEach
	KindBlock
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindFragment:
		return "fragment"
	case KindElement:
		return "element"
	case KindChoice:
		return "choice"
	case KindEach:
		return "each"
	case KindBlock:
		return "block"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Content is a reusable description of output structure.
// The set of implementations is closed.
type Content interface {
	Kind() Kind
	IsStatic() bool
	content()
}

// computeStatic decides once, at construction, whether c can ever change.
func computeStatic(c Content) bool {
	switch c := c.(type) {
	case *TextContent:
		return c.value.IsStatic()
	case *CommentContent:
		return c.value.IsStatic()
	case *FragmentContent:
		for _, child := range c.children {
			if !child.IsStatic() {
				return false
			}
		}
		return true
	case *ElementContent:
		for _, m := range c.modifiers {
			if !m.IsStatic() {
				return false
			}
		}
		return c.body == nil || c.body.IsStatic()
	case *ChoiceContent:
		return c.sourceStatic && c.initial.IsStatic()
	case *EachContent:
		return c.staticBody != nil
	case *BlockContent:
		return c.body == nil || c.body.IsStatic()
	default:
		panic(fmt.Sprintf("content: unknown content %T", c))
	}
}

// Result is what Render produces: either a *StaticResult or a *Dynamic.
type Result interface {
	Bounds() Bounds
	result()
}

// StaticResult is the output of static content. It holds no state
// beyond its bounds and is never polled.
type StaticResult struct {
	bounds Bounds
}

// Bounds returns the rendered span.
func (r *StaticResult) Bounds() Bounds { return r.bounds }

func (r *StaticResult) result() {}

// Dynamic is the stable handle of rendered dynamic content. Its per-kind
// state may be replaced by a poll; the handle itself never is.
type Dynamic struct {
	kind  Kind
	state state
}

// state is the per-kind rendered state behind a Dynamic.
type state interface {
	bounds() Bounds
	poll()
}

// Kind returns the kind of the content that was rendered.
func (d *Dynamic) Kind() Kind { return d.kind }

// Bounds returns the current span. It may change after Poll.
func (d *Dynamic) Bounds() Bounds { return d.state.bounds() }

// Poll brings the rendered output up to date with its reactive inputs.
func (d *Dynamic) Poll() { d.state.poll() }

func (d *Dynamic) result() {}

// IsDynamic reports whether r needs polling.
func IsDynamic(r Result) bool {
	_, ok := r.(*Dynamic)
	return ok
}

// Poll polls r when it is dynamic and does nothing otherwise.
func Poll(r Result) {
	if d, ok := r.(*Dynamic); ok {
		d.Poll()
	}
}

// Render inserts c at cur and returns its result.
func Render(c Content, cur Cursor) Result {
	cur.validate()

	switch c := c.(type) {
	case *TextContent:
		return renderText(c, cur)
	case *CommentContent:
		return renderComment(c, cur)
	case *FragmentContent:
		return renderFragment(c, cur)
	case *ElementContent:
		return renderElement(c, cur)
	case *ChoiceContent:
		return renderChoice(c, cur)
	case *EachContent:
		return renderEach(c, cur)
	case *BlockContent:
		return renderBlock(c, cur)
	default:
		panic(fmt.Sprintf("content: unknown content %T", c))
	}
}

// static wraps bounds of content that never changes.
func static(b Bounds) *StaticResult {
	return &StaticResult{bounds: b}
}

func dynamic(kind Kind, s state) *Dynamic {
	return &Dynamic{kind: kind, state: s}
}

// placeholder renders an empty comment, the stand-in for content that
// has no nodes of its own.
func placeholder(cur Cursor) *StaticResult {
	n := cur.Document().CreateComment("")
	cur.Insert(n)
	return static(NodeBounds(n))
}

// slot holds the current rendering of a region that may be replaced
// wholesale.
type slot struct {
	current Result
}

// fill renders c at cur into an empty slot.
func (s *slot) fill(c Content, cur Cursor) {
	s.current = Render(c, cur)
}

// replace clears the current rendering and renders c where it was.
func (s *slot) replace(c Content) {
	cur := s.current.Bounds().Clear()
	s.current = nil
	s.fill(c, cur)
}

func (s *slot) bounds() Bounds { return s.current.Bounds() }
func (s *slot) poll()          { Poll(s.current) }

// firstNode and lastNode resolve the ends of a result's span.
func firstNode(r Result) dom.Node { return r.Bounds().First() }
func lastNode(r Result) dom.Node  { return r.Bounds().Last() }
