package dom

import (
	"fmt"
	"strings"
)

// MemoryDocument is an in-memory Document.
type MemoryDocument struct {
	root *memNode
	body *memNode

	nextID    uint64
	observers []observerEntry
	nextObs   uint64
	counts    map[MutationOp]int
}

type observerEntry struct {
	id uint64
	fn func(Mutation)
}

// NewDocument creates an empty document containing a <body> element.
func NewDocument() *MemoryDocument {
	d := &MemoryDocument{counts: make(map[MutationOp]int)}
	d.root = d.newNode(DocumentNode)
	d.body = d.newNode(ElementNode)
	d.body.tag = "body"
	d.root.link(d.body, nil)
	return d
}

// Root returns the document node.
func (d *MemoryDocument) Root() Node {
	return d.root
}

// Body returns the <body> element.
func (d *MemoryDocument) Body() Element {
	return d.body
}

// Observe registers fn for every subsequent mutation. The returned func
// removes the observer.
func (d *MemoryDocument) Observe(fn func(Mutation)) (remove func()) {
	d.nextObs++
	id := d.nextObs
	d.observers = append(d.observers, observerEntry{id: id, fn: fn})
	return func() {
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// Counts returns the number of mutations recorded per op since the
// document was created or ResetCounts was called.
func (d *MemoryDocument) Counts() map[MutationOp]int {
	out := make(map[MutationOp]int, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}

// ResetCounts zeroes the mutation counters.
func (d *MemoryDocument) ResetCounts() {
	d.counts = make(map[MutationOp]int)
}

// CreateText creates a detached text node.
func (d *MemoryDocument) CreateText(data string) CharacterData {
	n := d.newNode(TextNode)
	n.data = data
	return n
}

// CreateComment creates a detached comment node.
func (d *MemoryDocument) CreateComment(data string) CharacterData {
	n := d.newNode(CommentNode)
	n.data = data
	return n
}

// CreateElement creates a detached element.
func (d *MemoryDocument) CreateElement(tag string) Element {
	return d.CreateElementNS("", tag)
}

// CreateElementNS creates a detached element in a namespace.
func (d *MemoryDocument) CreateElementNS(namespace, tag string) Element {
	n := d.newNode(ElementNode)
	n.tag = tag
	n.ns = namespace
	return n
}

func (d *MemoryDocument) newNode(typ NodeType) *memNode {
	d.nextID++
	return &memNode{doc: d, id: d.nextID, typ: typ}
}

func (d *MemoryDocument) record(m Mutation) {
	d.counts[m.Op]++
	if len(d.observers) == 0 {
		return
	}
	obs := make([]observerEntry, len(d.observers))
	copy(obs, d.observers)
	for _, o := range obs {
		o.fn(m)
	}
}

// unwrap converts an interface node back to this document's node type.
func (d *MemoryDocument) unwrap(n Node) *memNode {
	if n == nil {
		return nil
	}
	m, ok := n.(*memNode)
	if !ok || m.doc != d {
		panic("dom: node belongs to a different document")
	}
	return m
}

// memNode implements Node, CharacterData and Element.
type memNode struct {
	doc *MemoryDocument
	id  uint64
	typ NodeType

	tag   string
	ns    string
	attrs []Attribute
	data  string

	parent, first, last, next, prev *memNode
}

func nodeOrNil(n *memNode) Node {
	if n == nil {
		return nil
	}
	return n
}

func (n *memNode) Type() NodeType          { return n.typ }
func (n *memNode) OwnerDocument() Document { return n.doc }
func (n *memNode) Parent() Node            { return nodeOrNil(n.parent) }
func (n *memNode) FirstChild() Node        { return nodeOrNil(n.first) }
func (n *memNode) LastChild() Node         { return nodeOrNil(n.last) }
func (n *memNode) NextSibling() Node       { return nodeOrNil(n.next) }
func (n *memNode) PrevSibling() Node       { return nodeOrNil(n.prev) }

// String identifies the node in panics and debug output.
func (n *memNode) String() string {
	switch n.typ {
	case ElementNode:
		return fmt.Sprintf("<%s>#%d", n.tag, n.id)
	case TextNode:
		return fmt.Sprintf("#text(%q)#%d", n.data, n.id)
	case CommentNode:
		return fmt.Sprintf("#comment#%d", n.id)
	default:
		return fmt.Sprintf("#document#%d", n.id)
	}
}

func (n *memNode) InsertBefore(child, ref Node) {
	c := n.doc.unwrap(child)
	r := n.doc.unwrap(ref)

	if c == nil {
		panic("dom: InsertBefore with nil child")
	}
	if n.typ == TextNode || n.typ == CommentNode {
		panic(fmt.Sprintf("dom: %s cannot have children", n))
	}
	if r != nil && r.parent != n {
		panic(fmt.Sprintf("dom: %s is not a child of %s", r, n))
	}
	for cur := n; cur != nil; cur = cur.parent {
		if cur == c {
			panic(fmt.Sprintf("dom: inserting %s into its own subtree", c))
		}
	}
	if c == r {
		return
	}

	moved := c.parent != nil
	if moved {
		c.parent.unlink(c)
	}
	n.link(c, r)

	op := MutationInsertNode
	if moved {
		op = MutationMoveNode
	}
	n.doc.record(Mutation{Op: op, Target: n, Node: c})
}

func (n *memNode) RemoveChild(child Node) {
	c := n.doc.unwrap(child)
	if c == nil || c.parent != n {
		panic(fmt.Sprintf("dom: %v is not a child of %s", child, n))
	}
	n.unlink(c)
	n.doc.record(Mutation{Op: MutationRemoveNode, Target: n, Node: c})
}

// link inserts c before r (append when r is nil). c must be detached.
func (n *memNode) link(c, r *memNode) {
	c.parent = n
	if r == nil {
		c.prev = n.last
		c.next = nil
		if n.last != nil {
			n.last.next = c
		} else {
			n.first = c
		}
		n.last = c
		return
	}
	c.next = r
	c.prev = r.prev
	if r.prev != nil {
		r.prev.next = c
	} else {
		n.first = c
	}
	r.prev = c
}

func (n *memNode) unlink(c *memNode) {
	if c.prev != nil {
		c.prev.next = c.next
	} else {
		n.first = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	} else {
		n.last = c.prev
	}
	c.parent, c.prev, c.next = nil, nil, nil
}

// Character data.

func (n *memNode) Data() string {
	return n.data
}

func (n *memNode) SetData(data string) {
	if n.typ != TextNode && n.typ != CommentNode {
		panic(fmt.Sprintf("dom: SetData on %s", n))
	}
	n.data = data
	n.doc.record(Mutation{Op: MutationSetText, Target: n, Value: data})
}

// Elements.

func (n *memNode) TagName() string   { return n.tag }
func (n *memNode) Namespace() string { return n.ns }

func (n *memNode) AttributeNS(namespace, name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Namespace == namespace && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *memNode) SetAttributeNS(namespace, name, value string) {
	if n.typ != ElementNode {
		panic(fmt.Sprintf("dom: SetAttributeNS on %s", n))
	}
	found := false
	for i := range n.attrs {
		if n.attrs[i].Namespace == namespace && n.attrs[i].Name == name {
			n.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, Attribute{Namespace: namespace, Name: name, Value: value})
	}
	n.doc.record(Mutation{Op: MutationSetAttr, Target: n, Namespace: namespace, Name: name, Value: value})
}

func (n *memNode) RemoveAttributeNS(namespace, name string) {
	for i, a := range n.attrs {
		if a.Namespace == namespace && a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.record(Mutation{Op: MutationRemoveAttr, Target: n, Namespace: namespace, Name: name})
			return
		}
	}
}

func (n *memNode) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

func (n *memNode) TokenList(name string) TokenList {
	return &tokenList{el: n, name: name}
}

// tokenList is a view over one attribute of a memNode.
type tokenList struct {
	el   *memNode
	name string
}

func (l *tokenList) Tokens() []string {
	v, _ := l.el.AttributeNS("", l.name)
	return strings.Fields(v)
}

func (l *tokenList) write(tokens []string) {
	// An emptied list drops the attribute instead of leaving name="".
	if len(tokens) == 0 {
		l.el.RemoveAttributeNS("", l.name)
		return
	}
	l.el.SetAttributeNS("", l.name, strings.Join(tokens, " "))
}

func (l *tokenList) Contains(token string) bool {
	for _, t := range l.Tokens() {
		if t == token {
			return true
		}
	}
	return false
}

func (l *tokenList) Add(tokens ...string) {
	cur := l.Tokens()
	changed := false
	for _, t := range tokens {
		if t == "" || containsToken(cur, t) {
			continue
		}
		cur = append(cur, t)
		changed = true
	}
	if changed {
		l.write(cur)
	}
}

func (l *tokenList) Remove(tokens ...string) {
	cur := l.Tokens()
	out := cur[:0]
	for _, t := range cur {
		if !containsToken(tokens, t) {
			out = append(out, t)
		}
	}
	if len(out) != len(cur) {
		l.write(out)
	}
}

func (l *tokenList) Replace(oldToken, newToken string) bool {
	cur := l.Tokens()
	idx := -1
	for i, t := range cur {
		if t == oldToken {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	if oldToken == newToken {
		return true
	}
	if containsToken(cur, newToken) {
		cur = append(cur[:idx], cur[idx+1:]...)
	} else {
		cur[idx] = newToken
	}
	l.write(cur)
	return true
}

func containsToken(tokens []string, t string) bool {
	for _, x := range tokens {
		if x == t {
			return true
		}
	}
	return false
}
