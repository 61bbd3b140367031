// Package dom defines the output tree livetree renders into.
//
// The engine only needs a small document interface: creating text,
// comment and element nodes, inserting and removing children, reading
// and writing namespaced attributes, and manipulating space-separated
// token lists. Document, Node, CharacterData, Element and TokenList
// describe exactly that surface.
//
// NewDocument returns an in-memory implementation. It keeps a document
// node with a single <body> element, records every mutation for
// observers, and serializes to HTML:
//
//	doc := dom.NewDocument()
//	p := doc.CreateElement("p")
//	p.InsertBefore(doc.CreateText("hi"), nil)
//	doc.Body().InsertBefore(p, nil)
//	dom.InnerHTML(doc.Body()) // "<p>hi</p>"
//
// # Mutations
//
// Every change is reported as a Mutation. Inserting a node that already
// has a parent is reported as a single MutationMoveNode rather than a
// remove followed by an insert, so callers can verify that a node was
// relocated and not recreated.
package dom
