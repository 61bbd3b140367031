package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	lterrors "github.com/vango-dev/livetree/internal/errors"
)

// ErrLoopClosed is returned when work is submitted to a stopped loop.
var ErrLoopClosed = errors.New("scheduler: loop closed")

// Loop is a single-goroutine event loop. All tasks, and the microtasks
// they enqueue, run on the goroutine that called Run.
//
// A panic in a task submitted with Do is returned by Do. A panic that
// escapes any other task or microtask is logged and the loop keeps
// running; revalidation batches recover their own panics and report them
// through Scheduler.Wait.
type Loop struct {
	micro  *Queue
	logger *slog.Logger

	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

// NewLoop creates a loop. It does nothing until Run is called.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		micro:  NewQueue(),
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Enqueue adds a microtask. It runs after the current task, before the
// next one.
func (l *Loop) Enqueue(task func()) {
	l.micro.Enqueue(task)
	l.signal()
}

// Post adds a task from any goroutine. It reports false when the loop
// has stopped.
func (l *Loop) Post(task func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	l.signal()
	return true
}

// Do runs fn on the loop and waits for it and the microtasks it caused
// to finish. A panic in fn is returned as an error and the loop keeps
// running.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	ok := l.Post(func() {
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = lterrors.FromPanic(r)
					l.logger.Error("loop task panicked", "error", err)
				}
			}()
			err = fn()
		}()
		// Report after the microtasks the task caused have run.
		l.Enqueue(func() { result <- err })
	})
	if !ok {
		return ErrLoopClosed
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrLoopClosed
		}
	}
}

// Run processes tasks until ctx is canceled. Each task is followed by a
// full microtask drain. Pending tasks are dropped when Run returns.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.tasks = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		l.drainMicro()

		task, ok := l.next()
		if ok {
			task()
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

func (l *Loop) drainMicro() {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("microtask panicked", "error", lterrors.FromPanic(r))
		}
	}()
	l.micro.Drain()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
