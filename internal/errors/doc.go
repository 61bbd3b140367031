// Package errors provides coded, structured errors for livetree.
//
// Programmer errors in the engine (a malformed cursor, a duplicate key in
// a keyed list, a cell written after it was read in the same computation)
// are raised as panics whose value is an *Error. Each error carries a code
// that maps to a registered template:
//
//	panic(errors.New(errors.CodeMalformedCursor).
//	    WithDetail("cursor parent is nil"))
//
// The code identifies the failure regardless of the detail text, so
// callers that recover a panic can match on it:
//
//	if errors.Is(recovered, errors.CodeDuplicateKey) { ... }
//
// # Error Categories
//
//   - runtime: invariant violations inside render, poll or the tag layer
//   - scheduler: revalidation batch failures
//   - config: configuration file problems
package errors
