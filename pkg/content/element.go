package content

import (
	"github.com/vango-dev/livetree/pkg/dom"
)

// ElementContent renders one element with modifiers and an optional body.
type ElementContent struct {
	namespace string
	tag       string
	modifiers []Modifier
	body      Content
	static    bool
}

// Element returns content rendering a tag element. body may be nil.
func Element(tag string, body Content, modifiers ...Modifier) *ElementContent {
	return ElementNS("", tag, body, modifiers...)
}

// ElementNS returns content rendering a namespaced element.
func ElementNS(namespace, tag string, body Content, modifiers ...Modifier) *ElementContent {
	c := &ElementContent{
		namespace: namespace,
		tag:       tag,
		modifiers: modifiers,
		body:      body,
	}
	c.static = computeStatic(c)
	return c
}

func (c *ElementContent) Kind() Kind     { return KindElement }
func (c *ElementContent) IsStatic() bool { return c.static }
func (c *ElementContent) content()       {}

// Tag returns the element's tag name.
func (c *ElementContent) Tag() string { return c.tag }

type elementState struct {
	el        dom.Element
	modifiers []modifierState
	owners    map[string]*tokenOwners
	body      Result
}

// tokens returns the shared ownership table of a token-list attribute.
func (e *elementState) tokens(name string) *tokenOwners {
	o, ok := e.owners[name]
	if !ok {
		o = &tokenOwners{list: e.el.TokenList(name), count: make(map[string]int)}
		e.owners[name] = o
	}
	return o
}

func (e *elementState) bounds() Bounds { return NodeBounds(e.el) }

func (e *elementState) poll() {
	for _, m := range e.modifiers {
		m.poll()
	}
	if e.body != nil {
		Poll(e.body)
	}
}

func renderElement(c *ElementContent, cur Cursor) Result {
	doc := cur.Document()
	var el dom.Element
	if c.namespace != "" {
		el = doc.CreateElementNS(c.namespace, c.tag)
	} else {
		el = doc.CreateElement(c.tag)
	}

	e := &elementState{el: el, owners: make(map[string]*tokenOwners)}
	for _, m := range c.modifiers {
		if s := e.apply(m); s != nil {
			e.modifiers = append(e.modifiers, s)
		}
	}

	cur.Insert(el)

	if c.body != nil {
		e.body = Render(c.body, AppendTo(el))
	}

	if c.static {
		return static(NodeBounds(el))
	}
	return dynamic(KindElement, e)
}
