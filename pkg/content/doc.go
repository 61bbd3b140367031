// Package content provides the declarative content model and its
// incremental renderer.
//
// Content is a reusable description of output-tree structure. It is
// built from a closed set of variants:
//
//	Text, Comment      one reactive string
//	Fragment           an ordered list of children
//	Element            tag + modifiers + optional body
//	Choice             a reactive discriminant selecting one branch
//	Each               a keyed list reconciled by key identity
//	Block              a named sub-template invocation
//
// Every Content knows at construction whether it is static: built only
// from values that can never change. Rendering static content produces a
// *StaticResult that holds nothing but its bounds. Rendering dynamic
// content produces a *Dynamic, a stable handle whose Poll revalidates the
// reactive inputs and applies the smallest mutation that brings the
// output back in sync:
//
//	name := reactive.NewCell("world")
//	greeting := content.Element("p", content.Fragment(
//	    content.StaticText("hello "),
//	    content.Text(name),
//	))
//
//	result := content.Render(greeting, content.AppendTo(doc.Body()))
//	name.Set("gopher")
//	content.Poll(result) // mutates the text node in place
//
// When a poll cannot update in place (a Choice switching branches, an
// Each gaining items), the affected region is cleared and re-rendered at
// the same position while the outer handle stays the same.
//
// # Bounds and Cursors
//
// Each rendered result spans a contiguous run of sibling nodes under one
// parent, exposed as Bounds. A Cursor is an insertion point: a parent and
// the node to insert before (nil to append). Bounds.Clear removes the
// span and returns the cursor where it was; Bounds.Move relocates the
// span without re-rendering it.
package content
