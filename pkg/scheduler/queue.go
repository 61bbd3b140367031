package scheduler

import "sync"

// Microtasks runs deferred tasks after the current unit of work.
type Microtasks interface {
	Enqueue(task func())
}

// Drainer is a Microtasks whose pending tasks the caller may run
// directly. Scheduler.Wait drains such queues instead of blocking.
type Drainer interface {
	Microtasks
	Drain() int
}

// Queue is a FIFO microtask queue drained by its owner.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a task.
func (q *Queue) Enqueue(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Drain runs tasks until the queue is empty, including tasks enqueued by
// the tasks it runs, and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return n
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
		n++
	}
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
