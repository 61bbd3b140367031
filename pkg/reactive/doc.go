// Package reactive provides the value layer livetree renders from.
//
// The layer is pull-based. Every mutable value owns a Tag; writing the
// value dirties the tag, which stamps it with the next revision of a
// process-wide monotonic counter. Reading a value consumes its tag into
// the innermost active tracking frame. A memoized Cache remembers the
// tags consumed by its last computation and the revision at which that
// computation finished, and recomputes only when one of those tags has a
// newer revision.
//
// # Core Types
//
// Cell[T] is a mutable value:
//
//	count := NewCell(0)
//	value := count.Current()  // Read (consumes the cell's tag)
//	count.Set(5)              // Write (dirties the tag if the value changed)
//
// Static[T] never changes and consumes nothing:
//
//	title := NewStatic("Inbox")
//
// Derived[T] is a memoized computation over other values:
//
//	doubled := NewDerived(func() int { return count.Current() * 2 })
//
// All three implement Reactive[T]. IsStatic reports whether a value can
// never change, which lets content built only from static inputs skip
// revalidation entirely.
//
// # Notification
//
// OnDirty registers a hook called after every tag write. The scheduler
// package uses it to batch revalidation into one microtask.
//
// # Concurrency
//
// The layer is not safe for concurrent use. Reads, writes and
// computations must be confined to one goroutine (see scheduler.Loop for
// a way to funnel work from other goroutines).
package reactive
