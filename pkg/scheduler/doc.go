// Package scheduler batches revalidation of rendered content.
//
// Writes to reactive cells do not touch the output tree directly. They
// mark tags dirty, and the dirty hook asks the Scheduler for a
// revalidation. However many writes happen before the batch runs, at
// most one batch is queued; when it runs it polls every registered
// renderable once, in registration order, then runs the registered
// assertions.
//
// Batches run as microtasks on a Microtasks implementation supplied by
// the caller. Queue is drained manually, which suits tests and
// single-shot tools. Loop is a goroutine-confined event loop: other
// goroutines submit work with Do and every task is followed by a full
// microtask drain.
//
//	q := scheduler.NewQueue()
//	s := scheduler.New(scheduler.WithQueue(q))
//	defer s.Attach()()
//
//	s.AddRenderable(result)
//	cell.Set("x")
//	err := s.Wait(ctx) // drains q and returns once the batch settled
//
// Polls may write cells themselves. Such writes schedule a follow-up
// batch; WithMaxCascade bounds how many follow-ups may chain.
package scheduler
