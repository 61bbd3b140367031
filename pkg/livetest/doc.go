// Package livetest provides testing helpers for livetree content.
//
// A Harness mounts content into a fresh in-memory document under its own
// runtime, records every mutation and offers assertions on the output.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    count := reactive.NewCell(0)
//	    h := livetest.New(t, Counter(count))
//
//	    h.Write(func() { count.Set(3) })
//	    h.ExpectText("3")
//	    h.ExpectMutations(dom.MutationSetText, 1)
//	}
//
// Write runs the function and then settles the runtime, so assertions
// always observe the output after revalidation.
package livetest
