package scheduler

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/reactive"
)

const defaultTracerName = "livetree"

// Poller is a renderable that can bring itself up to date.
// content.Dynamic implements it.
type Poller interface {
	Poll()
}

// Assertion is checked after every batch.
type Assertion interface {
	Check() error
}

// AssertionFunc adapts a function to Assertion.
type AssertionFunc func() error

// Check calls f.
func (f AssertionFunc) Check() error { return f() }

// entry is one registration. removed is set when it is unregistered so
// that a batch holding an older snapshot skips it.
type entry struct {
	value   any
	removed bool
}

// registry is an ordered set with idempotent add and remove.
type registry struct {
	order []*entry
	index map[any]*entry
}

func (r *registry) add(v any) bool {
	if r.index == nil {
		r.index = make(map[any]*entry)
	}
	if _, ok := r.index[v]; ok {
		return false
	}
	e := &entry{value: v}
	r.index[v] = e
	r.order = append(r.order, e)
	return true
}

func (r *registry) remove(v any) bool {
	e, ok := r.index[v]
	if !ok {
		return false
	}
	e.removed = true
	delete(r.index, v)
	for i, o := range r.order {
		if o == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *registry) snapshot() []*entry {
	return append([]*entry(nil), r.order...)
}

func (r *registry) clear() {
	for _, e := range r.order {
		e.removed = true
	}
	r.order = nil
	r.index = nil
}

// Scheduler coalesces revalidation requests into batches.
type Scheduler struct {
	queue      Microtasks
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	maxCascade int

	mu          sync.Mutex
	renderables registry
	assertions  registry
	pending     bool
	inBatch     bool
	cascade     int
	settled     chan struct{} // non-nil while a batch is pending or running
	errs        []error
	batches     uint64
	detach      func()
	closed      bool
}

// New creates a scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.queue == nil {
		s.queue = NewQueue()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(defaultTracerName)
	}
	return s
}

// Queue returns the microtask queue batches run on.
func (s *Scheduler) Queue() Microtasks {
	return s.queue
}

// AddRenderable registers r for polling in every batch. r must be
// comparable; adding it again is a no-op.
func (s *Scheduler) AddRenderable(r any) {
	mustComparable(r)
	s.mu.Lock()
	s.renderables.add(r)
	n := len(s.renderables.order)
	s.mu.Unlock()
	s.metrics.setRenderables(n)
}

// RemoveRenderable unregisters r. A batch in progress skips r if it has
// not been polled yet.
func (s *Scheduler) RemoveRenderable(r any) {
	mustComparable(r)
	s.mu.Lock()
	s.renderables.remove(r)
	n := len(s.renderables.order)
	s.mu.Unlock()
	s.metrics.setRenderables(n)
}

// Renderables returns the number of registered renderables.
func (s *Scheduler) Renderables() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.renderables.order)
}

// AddAssertion registers a check to run after every batch.
func (s *Scheduler) AddAssertion(a Assertion) {
	mustComparable(a)
	s.mu.Lock()
	s.assertions.add(a)
	s.mu.Unlock()
}

// RemoveAssertion unregisters a check.
func (s *Scheduler) RemoveAssertion(a Assertion) {
	mustComparable(a)
	s.mu.Lock()
	s.assertions.remove(a)
	s.mu.Unlock()
}

// Pending reports whether a batch is queued and has not started.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Batches returns how many batches have run.
func (s *Scheduler) Batches() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

// ScheduleRevalidate queues a batch unless one is already queued.
func (s *Scheduler) ScheduleRevalidate() {
	s.mu.Lock()
	if s.pending || s.closed {
		s.mu.Unlock()
		return
	}

	if s.inBatch {
		s.cascade++
		if s.maxCascade > 0 && s.cascade > s.maxCascade {
			err := errors.New(errors.CodeCascadeExceeded).
				WithDetailf("%d batches scheduled in a row", s.cascade)
			s.errs = append(s.errs, err)
			s.mu.Unlock()

			s.logger.Warn("revalidation cascade dropped", "limit", s.maxCascade)
			s.metrics.recordCascadeDropped()
			return
		}
	} else {
		s.cascade = 0
	}

	s.pending = true
	if s.settled == nil {
		s.settled = make(chan struct{})
	}
	s.mu.Unlock()

	s.queue.Enqueue(s.runBatch)
}

// runBatch polls a snapshot of the registry. Renderables added during
// the batch wait for the next one. A panic in a poll or an assertion
// ends the batch and is recorded for Wait.
func (s *Scheduler) runBatch() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.inBatch = true
	s.batches++
	renderables := s.renderables.snapshot()
	assertions := s.assertions.snapshot()
	s.mu.Unlock()

	start := time.Now()
	_, span := s.tracer.Start(context.Background(), "livetree.revalidate")
	polled := 0

	defer func() {
		if r := recover(); r != nil {
			err := errors.FromPanic(r)
			s.mu.Lock()
			s.errs = append(s.errs, err)
			s.mu.Unlock()
			s.logger.Error("revalidation panicked", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(
			attribute.Int("livetree.renderables", len(renderables)),
			attribute.Int("livetree.polled", polled),
		)
		span.End()
		s.finishBatch()
	}()

	for _, e := range renderables {
		if s.skip(e) {
			continue
		}
		if p, ok := e.value.(Poller); ok {
			p.Poll()
			polled++
		}
	}

	var errs []error
	for _, e := range assertions {
		if s.skip(e) {
			continue
		}
		if err := e.value.(Assertion).Check(); err != nil {
			errs = append(errs, err)
		}
	}

	elapsed := time.Since(start)
	s.metrics.recordBatch(polled, elapsed.Seconds())
	s.logger.Debug("revalidated",
		"renderables", len(renderables),
		"polled", polled,
		"duration", elapsed,
	)

	if len(errs) > 0 {
		s.mu.Lock()
		s.errs = append(s.errs, errs...)
		s.mu.Unlock()
		for _, err := range errs {
			s.logger.Warn("assertion failed", "error", err)
		}
	}
}

func (s *Scheduler) skip(e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.removed
}

func (s *Scheduler) finishBatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inBatch = false
	if !s.pending && s.settled != nil {
		s.cascade = 0
		close(s.settled)
		s.settled = nil
	}
}

// Wait returns once no batch is pending or running. When the queue is a
// Drainer, Wait runs the queued batches itself. It returns the first
// error recorded since the previous Wait: a failed assertion, a dropped
// cascade, or a panic raised inside a batch (such as a duplicate key).
//
// With a Loop, Wait must not be called from the loop goroutine.
func (s *Scheduler) Wait(ctx context.Context) error {
	for {
		if d, ok := s.queue.(Drainer); ok {
			d.Drain()
		}

		s.mu.Lock()
		ch := s.settled
		s.mu.Unlock()
		if ch == nil {
			return s.takeError()
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Scheduler) takeError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = nil
	return err
}

// Attach makes every reactive write schedule a revalidation. It returns
// the function that undoes it.
func (s *Scheduler) Attach() (detach func()) {
	remove := reactive.OnDirty(s.ScheduleRevalidate)
	var once sync.Once
	detach = func() { once.Do(remove) }

	s.mu.Lock()
	s.detach = detach
	s.mu.Unlock()
	return detach
}

// Close detaches the scheduler and drops all registrations. Queued
// batches become no-ops.
func (s *Scheduler) Close() {
	s.mu.Lock()
	detach := s.detach
	s.detach = nil
	s.closed = true
	s.pending = false
	s.renderables.clear()
	s.assertions.clear()
	if s.settled != nil && !s.inBatch {
		close(s.settled)
		s.settled = nil
	}
	s.mu.Unlock()

	if detach != nil {
		detach()
	}
	s.metrics.setRenderables(0)
}

func mustComparable(v any) {
	if v == nil {
		panic(errors.New(errors.CodeNotComparable).WithDetail("nil renderable"))
	}
	if t := reflect.TypeOf(v); !t.Comparable() {
		panic(errors.New(errors.CodeNotComparable).WithDetailf("type %s", t))
	}
}
