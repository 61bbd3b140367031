package content

// BlockContent is a named invocation of a sub-template.
type BlockContent struct {
	name   string
	body   Content
	static bool
}

// Block wraps body under a name. It renders exactly like body; the name
// shows up in inspection output.
func Block(name string, body Content) *BlockContent {
	c := &BlockContent{name: name, body: body}
	c.static = computeStatic(c)
	return c
}

// Invoke instantiates template with args and wraps the result in a
// named block.
func Invoke[A any](name string, template func(A) Content, args A) *BlockContent {
	return Block(name, template(args))
}

// Slot instantiates a template without arguments.
func Slot(name string, template func() Content) *BlockContent {
	return Block(name, template())
}

func (c *BlockContent) Kind() Kind     { return KindBlock }
func (c *BlockContent) IsStatic() bool { return c.static }
func (c *BlockContent) content()       {}

// Name returns the block name.
func (c *BlockContent) Name() string { return c.name }

type blockState struct {
	body Result
}

func (s *blockState) bounds() Bounds { return s.body.Bounds() }
func (s *blockState) poll()          { Poll(s.body) }

func renderBlock(c *BlockContent, cur Cursor) Result {
	if c.body == nil {
		return placeholder(cur)
	}
	r := Render(c.body, cur)
	if c.static {
		return static(r.Bounds())
	}
	return dynamic(KindBlock, &blockState{body: r})
}
