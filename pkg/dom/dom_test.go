package dom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentHasBody(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()

	require.NotNil(t, body.Parent())
	assert.Equal(t, DocumentNode, body.Parent().Type())
	assert.Equal(t, "<body></body>", OuterHTML(doc.Root()))
}

func TestInsertAndNavigate(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	a := doc.CreateText("a")
	b := doc.CreateText("b")
	c := doc.CreateText("c")

	body.InsertBefore(a, nil)
	body.InsertBefore(c, nil)
	body.InsertBefore(b, c)

	assert.Equal(t, "abc", TextContent(body))
	assert.Equal(t, Node(a), body.FirstChild())
	assert.Equal(t, Node(c), body.LastChild())
	assert.Equal(t, Node(b), a.NextSibling())
	assert.Equal(t, Node(b), c.PrevSibling())
	assert.Nil(t, a.PrevSibling())
	assert.Nil(t, c.NextSibling())
	assert.Len(t, Children(body), 3)
}

func TestInsertAttachedNodeIsMove(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	a := doc.CreateText("a")
	b := doc.CreateText("b")
	body.InsertBefore(a, nil)
	body.InsertBefore(b, nil)

	var ops []MutationOp
	remove := doc.Observe(func(m Mutation) { ops = append(ops, m.Op) })
	defer remove()

	body.InsertBefore(b, a)

	assert.Equal(t, "ba", TextContent(body))
	assert.Equal(t, []MutationOp{MutationMoveNode}, ops)
}

func TestInsertBeforeSelfIsNoop(t *testing.T) {
	doc := NewDocument()
	a := doc.CreateText("a")
	doc.Body().InsertBefore(a, nil)
	doc.ResetCounts()

	doc.Body().InsertBefore(a, a)
	assert.Empty(t, doc.Counts())
}

func TestRemoveChild(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	a := doc.CreateText("a")
	body.InsertBefore(a, nil)

	body.RemoveChild(a)
	assert.Nil(t, a.Parent())
	assert.Nil(t, body.FirstChild())
	assert.Equal(t, 1, doc.Counts()[MutationRemoveNode])
}

func TestRemoveNonChildPanics(t *testing.T) {
	doc := NewDocument()
	a := doc.CreateText("a")
	assert.Panics(t, func() { doc.Body().RemoveChild(a) })
}

func TestInsertIntoOwnSubtreePanics(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	doc.Body().InsertBefore(outer, nil)
	outer.InsertBefore(inner, nil)

	assert.Panics(t, func() { inner.InsertBefore(outer, nil) })
}

func TestForeignNodePanics(t *testing.T) {
	a := NewDocument()
	b := NewDocument()
	assert.Panics(t, func() { a.Body().InsertBefore(b.CreateText("x"), nil) })
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("a")

	el.SetAttributeNS("", "href", "/x")
	el.SetAttributeNS("http://www.w3.org/1999/xlink", "xlink:title", "t")
	el.SetAttributeNS("", "href", "/y")

	v, ok := Attr(el, "href")
	assert.True(t, ok)
	assert.Equal(t, "/y", v)

	_, ok = el.AttributeNS("", "xlink:title")
	assert.False(t, ok, "namespace is part of the attribute identity")

	el.RemoveAttributeNS("", "href")
	_, ok = Attr(el, "href")
	assert.False(t, ok)
	assert.Len(t, el.Attributes(), 1)
}

func TestTokenList(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	classes := el.TokenList("class")

	classes.Add("a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, classes.Tokens())

	assert.True(t, classes.Replace("a", "A"))
	v, _ := Attr(el, "class")
	assert.Equal(t, "A b", v)

	assert.False(t, classes.Replace("zzz", "y"))
	assert.True(t, classes.Replace("A", "b"), "replacing with a present token dedupes")
	assert.Equal(t, []string{"b"}, classes.Tokens())

	assert.True(t, classes.Contains("b"))
	classes.Remove("b")
	_, ok := Attr(el, "class")
	assert.False(t, ok, "emptied token list drops the attribute")
}

func TestSerialize(t *testing.T) {
	doc := NewDocument()
	ul := doc.CreateElement("ul")
	ul.SetAttributeNS("", "class", `x "y"`)
	li := doc.CreateElement("li")
	li.InsertBefore(doc.CreateText("1 < 2"), nil)
	ul.InsertBefore(li, nil)
	ul.InsertBefore(doc.CreateComment(""), nil)
	input := doc.CreateElement("input")
	input.SetAttributeNS("", "disabled", "")
	ul.InsertBefore(input, nil)
	doc.Body().InsertBefore(ul, nil)

	assert.Equal(t,
		`<ul class="x &quot;y&quot;"><li>1 &lt; 2</li><!----><input disabled></ul>`,
		InnerHTML(doc.Body()))
	assert.Equal(t, "1 < 2", TextContent(doc.Body()))
}

func TestDump(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("p")
	p.InsertBefore(doc.CreateText("hi"), nil)
	doc.Body().InsertBefore(p, nil)

	out := Dump(doc.Body())
	assert.Contains(t, out, "<body>")
	assert.Contains(t, out, "  <p>")
	assert.Contains(t, out, `    #text "hi"`)
}

func TestMutationJSON(t *testing.T) {
	doc := NewDocument()
	text := doc.CreateText("a")
	var got []Mutation
	doc.Observe(func(m Mutation) { got = append(got, m) })

	text.SetData("b")
	require.Len(t, got, 1)

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "SetText", decoded["op"])
	assert.Equal(t, "b", decoded["value"])
	assert.EqualValues(t, NodeID(text), decoded["target"])
}

func TestSerializeEscapes(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("p")
	p.SetAttributeNS("", "title", "a\"b'<c>\n\td&")
	p.InsertBefore(doc.CreateText(`<x> & "y" 'z'`+"\n"), nil)
	p.InsertBefore(doc.CreateComment("a--b"), nil)
	doc.Body().InsertBefore(p, nil)

	assert.Equal(t,
		`<p title="a&quot;b&#39;&lt;c&gt;&#10;&#9;d&amp;">&lt;x&gt; &amp; &quot;y&quot; &#39;z&#39;`+"\n"+`<!--a- -b--></p>`,
		InnerHTML(doc.Body()))
}
