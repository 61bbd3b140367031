package content

// FragmentContent renders its children in order, with no wrapper node.
type FragmentContent struct {
	children []Content
	static   bool
}

// Fragment returns content rendering children in order. A fragment
// without children renders an empty comment so that it still occupies
// a position.
func Fragment(children ...Content) *FragmentContent {
	c := &FragmentContent{children: children}
	c.static = computeStatic(c)
	return c
}

func (c *FragmentContent) Kind() Kind     { return KindFragment }
func (c *FragmentContent) IsStatic() bool { return c.static }
func (c *FragmentContent) content()       {}

// Children returns the fragment's children.
func (c *FragmentContent) Children() []Content { return c.children }

type fragmentState struct {
	children []Result
	span     Bounds
}

func (s *fragmentState) bounds() Bounds { return s.span }

func (s *fragmentState) poll() {
	for _, r := range s.children {
		Poll(r)
	}
}

func renderFragment(c *FragmentContent, cur Cursor) Result {
	if len(c.children) == 0 {
		return placeholder(cur)
	}

	results := make([]Result, len(c.children))
	for i, child := range c.children {
		results[i] = Render(child, cur)
	}
	head, tail := results[0], results[len(results)-1]

	if c.static {
		return static(RangeBounds(firstNode(head), lastNode(tail)))
	}
	return dynamic(KindFragment, &fragmentState{
		children: results,
		span:     composite(head, tail),
	})
}
