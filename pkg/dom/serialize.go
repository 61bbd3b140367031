package dom

import (
	"fmt"
	"io"
	"strings"
)

// OuterHTML serializes n including its own tag.
func OuterHTML(n Node) string {
	var b strings.Builder
	_ = Write(&b, n)
	return b.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		_ = Write(&b, c)
	}
	return b.String()
}

// TextContent concatenates the text nodes under n. Comments contribute
// nothing.
func TextContent(n Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n Node) {
	switch n.Type() {
	case TextNode:
		b.WriteString(n.(CharacterData).Data())
	case CommentNode:
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeText(b, c)
		}
	}
}

// Write streams the HTML serialization of n to w.
func Write(w io.Writer, n Node) error {
	switch n.Type() {
	case DocumentNode:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := Write(w, c); err != nil {
				return err
			}
		}
		return nil
	case TextNode:
		_, err := io.WriteString(w, escapeHTML(n.(CharacterData).Data()))
		return err
	case CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", escapeComment(n.(CharacterData).Data()))
		return err
	case ElementNode:
		return writeElement(w, n.(Element))
	default:
		return fmt.Errorf("unknown node type: %d", n.Type())
	}
}

func writeElement(w io.Writer, el Element) error {
	tag := el.TagName()
	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}

	for _, a := range el.Attributes() {
		var err error
		if a.Value == "" && booleanAttrs[a.Name] {
			_, err = io.WriteString(w, " "+a.Name)
		} else {
			_, err = fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value))
		}
		if err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidElements[tag] && el.FirstChild() == nil {
		return nil
	}

	for c := el.FirstChild(); c != nil; c = c.NextSibling() {
		if err := Write(w, c); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", tag)
	return err
}

// Dump returns an indented outline of the tree under n, one node per
// line, for debugging and the CLI.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	switch n.Type() {
	case DocumentNode:
		b.WriteString("#document")
	case TextNode:
		fmt.Fprintf(b, "#text %q", n.(CharacterData).Data())
	case CommentNode:
		fmt.Fprintf(b, "#comment %q", n.(CharacterData).Data())
	case ElementNode:
		el := n.(Element)
		b.WriteString("<" + el.TagName())
		for _, a := range el.Attributes() {
			fmt.Fprintf(b, " %s=%q", a.Name, a.Value)
		}
		b.WriteString(">")
	}
	if id := NodeID(n); id != 0 {
		fmt.Fprintf(b, " #%d", id)
	}
	b.WriteString("\n")

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		dump(b, c, depth+1)
	}
}
