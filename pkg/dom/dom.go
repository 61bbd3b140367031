package dom

// NodeType is the node type discriminator.
type NodeType uint8

const (
	DocumentNode NodeType = iota // the document root
	ElementNode                  // <div>, <li>, etc.
	TextNode                     // character data rendered as text
	CommentNode                  // character data invisible in text output
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Document creates nodes.
type Document interface {
	CreateText(data string) CharacterData
	CreateComment(data string) CharacterData
	CreateElement(tag string) Element
	CreateElementNS(namespace, tag string) Element
}

// Node is a node of the output tree. Navigation methods return nil
// (an untyped nil interface) when there is no such node.
type Node interface {
	Type() NodeType
	OwnerDocument() Document

	Parent() Node
	FirstChild() Node
	LastChild() Node
	NextSibling() Node
	PrevSibling() Node

	// InsertBefore inserts child before ref, or appends it when ref is
	// nil. A child that is already attached somewhere is moved.
	InsertBefore(child, ref Node)

	// RemoveChild detaches child, which must be a child of this node.
	RemoveChild(child Node)
}

// CharacterData is a text or comment node.
type CharacterData interface {
	Node
	Data() string
	SetData(data string)
}

// Attribute is one attribute of an element.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// Element is an element node.
type Element interface {
	Node
	TagName() string
	Namespace() string

	AttributeNS(namespace, name string) (string, bool)
	SetAttributeNS(namespace, name, value string)
	RemoveAttributeNS(namespace, name string)

	// Attributes returns the attributes in insertion order.
	Attributes() []Attribute

	// TokenList returns a view of the named attribute as a
	// space-separated token list.
	TokenList(name string) TokenList
}

// TokenList is a live view of a space-separated attribute value.
type TokenList interface {
	Add(tokens ...string)
	Remove(tokens ...string)

	// Replace substitutes newToken for oldToken in place. It reports
	// false when oldToken is not present.
	Replace(oldToken, newToken string) bool

	Contains(token string) bool
	Tokens() []string
}

// Attr returns a non-namespaced attribute.
func Attr(el Element, name string) (string, bool) {
	return el.AttributeNS("", name)
}

// Children returns the child nodes of n in order.
func Children(n Node) []Node {
	var out []Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// Contains reports whether n is ancestor or equal to other.
func Contains(n, other Node) bool {
	for cur := other; cur != nil; cur = cur.Parent() {
		if cur == n {
			return true
		}
	}
	return false
}
