// Package livetree keeps a live output tree in sync with reactive state.
//
// A Runtime owns one revalidation scheduler. Content mounted through it
// is rendered once and then polled by the scheduler whenever a reactive
// cell it depends on is written:
//
//	rt := livetree.New(livetree.DefaultConfig())
//	defer rt.Close()
//
//	doc := dom.NewDocument()
//	count := reactive.NewCell(0)
//	rt.MountDocument(doc, content.Text(reactive.Map[int, string](count, strconv.Itoa)))
//
//	count.Set(1)
//	rt.Settle(ctx) // doc now reads "1"
//
// The content model lives in pkg/content, reactive values in
// pkg/reactive and the output tree in pkg/dom.
package livetree

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/vango-dev/livetree/pkg/content"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/scheduler"
)

// Version is the livetree release.
const Version = "0.1.0"

// Runtime wires rendered content to a revalidation scheduler.
type Runtime struct {
	config    Config
	scheduler *scheduler.Scheduler
	metrics   *scheduler.Metrics
	detach    func()

	mu     sync.Mutex
	roots  map[*Root]struct{}
	closed bool
}

// New creates a runtime and attaches its scheduler to reactive writes.
func New(cfg Config) *Runtime {
	cfg = cfg.withDefaults()

	var metrics *scheduler.Metrics
	if cfg.Metrics != nil {
		metrics = scheduler.NewMetrics(
			scheduler.WithRegistry(cfg.Metrics),
			scheduler.WithNamespace(cfg.MetricsNamespace),
		)
	}

	opts := []scheduler.Option{
		scheduler.WithLogger(cfg.Logger),
		scheduler.WithMetrics(metrics),
		scheduler.WithTracer(otel.Tracer(cfg.TracerName)),
		scheduler.WithMaxCascade(cfg.MaxCascade),
	}
	if cfg.Queue != nil {
		opts = append(opts, scheduler.WithQueue(cfg.Queue))
	}

	s := scheduler.New(opts...)
	rt := &Runtime{
		config:    cfg,
		scheduler: s,
		metrics:   metrics,
		roots:     make(map[*Root]struct{}),
	}
	rt.detach = s.Attach()
	return rt
}

// Config returns the runtime configuration.
func (rt *Runtime) Config() Config {
	return rt.config
}

// Scheduler returns the runtime's scheduler.
func (rt *Runtime) Scheduler() *scheduler.Scheduler {
	return rt.scheduler
}

// Metrics returns the runtime metrics, or nil when disabled.
func (rt *Runtime) Metrics() *scheduler.Metrics {
	return rt.metrics
}

// Mount renders c at cur and keeps it up to date.
func (rt *Runtime) Mount(c content.Content, cur content.Cursor) *Root {
	result := content.Render(c, cur)
	root := &Root{rt: rt, content: c, result: result}

	rt.mu.Lock()
	rt.roots[root] = struct{}{}
	rt.mu.Unlock()

	if d, ok := result.(*content.Dynamic); ok {
		rt.scheduler.AddRenderable(d)
	}
	rt.config.Logger.Debug("mounted",
		"kind", c.Kind().String(),
		"static", c.IsStatic(),
	)
	return root
}

// MountDocument appends c to the document body and counts the
// document's mutations in the runtime metrics.
func (rt *Runtime) MountDocument(doc *dom.MemoryDocument, c content.Content) *Root {
	root := rt.Mount(c, content.AppendTo(doc.Body()))
	if rt.metrics != nil {
		root.unobserve = doc.Observe(rt.metrics.RecordMutation)
	}
	return root
}

// Settle waits until no revalidation is pending. With the default
// queue it runs the pending batches itself.
func (rt *Runtime) Settle(ctx context.Context) error {
	return rt.scheduler.Wait(ctx)
}

// Roots returns the number of mounted roots.
func (rt *Runtime) Roots() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.roots)
}

// Close detaches the runtime from reactive writes. Mounted output stays
// in place but is no longer updated.
func (rt *Runtime) Close() {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return
	}
	rt.closed = true
	roots := rt.roots
	rt.roots = make(map[*Root]struct{})
	rt.mu.Unlock()

	for r := range roots {
		r.stopObserving()
	}
	rt.detach()
	rt.scheduler.Close()
}

// Root is mounted content.
type Root struct {
	rt        *Runtime
	content   content.Content
	result    content.Result
	unobserve func()
	unmounted bool
}

// Content returns the mounted content.
func (r *Root) Content() content.Content { return r.content }

// Result returns the render result.
func (r *Root) Result() content.Result { return r.result }

// Bounds returns the span the root currently occupies.
func (r *Root) Bounds() content.Bounds { return r.result.Bounds() }

// Dynamic reports whether the root is polled.
func (r *Root) Dynamic() bool { return content.IsDynamic(r.result) }

// Unmount stops updating the root and removes its nodes. It returns the
// cursor where the nodes were.
func (r *Root) Unmount() content.Cursor {
	if r.unmounted {
		panic("livetree: root unmounted twice")
	}
	r.unmounted = true

	if d, ok := r.result.(*content.Dynamic); ok {
		r.rt.scheduler.RemoveRenderable(d)
	}
	r.stopObserving()

	r.rt.mu.Lock()
	delete(r.rt.roots, r)
	r.rt.mu.Unlock()

	return r.result.Bounds().Clear()
}

func (r *Root) stopObserving() {
	if r.unobserve != nil {
		r.unobserve()
		r.unobserve = nil
	}
}
