package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/livetree"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/middleware"
	"github.com/vango-dev/livetree/pkg/scheduler"
)

// Config configures an Inspector.
type Config struct {
	// Runtime is the runtime whose batches produce snapshots. Required.
	Runtime *livetree.Runtime

	// Document is the inspected document. Required.
	Document *dom.MemoryDocument

	// Loop is the event loop the runtime runs on. Required.
	Loop *scheduler.Loop

	// Cells are readable at /cells/{name}. Each func is called on the loop.
	Cells map[string]func() any

	// Gatherer serves /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	// Registerer receives request metrics. Nil disables them.
	Registerer prometheus.Registerer

	// TracerName names the tracer for request spans.
	// Default: "livetree".
	TracerName string

	// Archive receives every settled snapshot. Optional.
	Archive Archive

	// History is the number of mutations kept for /mutations.
	// Default: 256.
	History int

	// ReadBufferSize and WriteBufferSize size websocket buffers.
	// Default: 1024 each.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates websocket origins. Nil accepts same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger
}

// Inspector serves a live view of one document.
type Inspector struct {
	config   Config
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	hub      *hub

	// Touched on the loop only.
	history history
	latest  Snapshot
	stop    func()

	archiving sync.WaitGroup
}

// New creates an inspector and registers it with the runtime's
// scheduler. Call it from the loop goroutine, or before the loop runs.
func New(cfg Config) *Inspector {
	if cfg.History <= 0 {
		cfg.History = 256
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = 1024
	}
	if cfg.WriteBufferSize <= 0 {
		cfg.WriteBufferSize = 1024
	}
	if cfg.TracerName == "" {
		cfg.TracerName = "livetree"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "inspect")

	i := &Inspector{
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		hub:     newHub(logger),
		history: history{limit: cfg.History},
	}

	i.stop = cfg.Document.Observe(i.history.record)
	i.latest = i.capture()
	cfg.Runtime.Scheduler().AddAssertion(i)

	i.router = i.routes()
	return i
}

func (i *Inspector) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(middleware.WithTracerName(i.config.TracerName)))
	if i.config.Registerer != nil {
		r.Use(middleware.Prometheus(middleware.WithRegistry(i.config.Registerer)))
	}

	r.Get("/", i.handleHTML)
	r.Get("/tree", i.handleTree)
	r.Get("/text", i.handleText)
	r.Get("/mutations", i.handleMutations)
	r.Get("/snapshot", i.handleSnapshot)
	r.Get("/cells/{name}", i.handleCell)
	if i.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(i.config.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/ws", i.handleWebSocket)
	return r
}

// ServeHTTP implements http.Handler.
func (i *Inspector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	i.router.ServeHTTP(w, r)
}

// Clients returns the number of connected websocket clients.
func (i *Inspector) Clients() int {
	return i.hub.count()
}

// Check captures a snapshot after a batch, pushes it to websocket
// clients and archives it. It runs on the loop as a scheduler
// assertion and never fails the batch.
func (i *Inspector) Check() error {
	snap := i.capture()
	i.latest = snap

	msg, err := json.Marshal(snap)
	if err != nil {
		i.logger.Error("encode snapshot", "error", err)
		return nil
	}
	i.hub.broadcast(msg)

	if i.config.Archive != nil {
		i.archiving.Add(1)
		go func() {
			defer i.archiving.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := i.config.Archive.Put(ctx, snap); err != nil {
				i.logger.Error("archive snapshot", "id", snap.ID, "error", err)
			}
		}()
	}
	return nil
}

func (i *Inspector) capture() Snapshot {
	return Snapshot{
		ID:        newSnapshotID(),
		Batch:     i.config.Runtime.Scheduler().Batches(),
		Time:      time.Now().UTC(),
		HTML:      dom.InnerHTML(i.config.Document.Body()),
		Mutations: i.history.takeSince(),
	}
}

// Close disconnects clients, unregisters from the scheduler and waits
// for pending archive writes. Call it from the loop goroutine, or after
// the loop has stopped.
func (i *Inspector) Close() {
	i.config.Runtime.Scheduler().RemoveAssertion(i)
	if i.stop != nil {
		i.stop()
		i.stop = nil
	}
	i.hub.close()
	i.archiving.Wait()
}

// ListenAndServe serves on addr until ctx is canceled.
func (i *Inspector) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return i.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (i *Inspector) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           i,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	i.logger.Info("inspector listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	i.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	i.logger.Info("inspector stopped")
	return nil
}

// read runs fn on the loop and reports loop failures as 503.
func (i *Inspector) read(w http.ResponseWriter, r *http.Request, fn func() error) bool {
	if err := i.config.Loop.Do(r.Context(), fn); err != nil {
		i.logger.Warn("inspector read failed", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (i *Inspector) handleHTML(w http.ResponseWriter, r *http.Request) {
	var body string
	if !i.read(w, r, func() error {
		body = dom.OuterHTML(i.config.Document.Body())
		return nil
	}) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>livetree</title></head>%s</html>\n", body)
}

func (i *Inspector) handleTree(w http.ResponseWriter, r *http.Request) {
	var tree string
	if !i.read(w, r, func() error {
		tree = dom.Dump(i.config.Document.Root())
		return nil
	}) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, tree)
}

func (i *Inspector) handleText(w http.ResponseWriter, r *http.Request) {
	var text string
	if !i.read(w, r, func() error {
		text = dom.TextContent(i.config.Document.Body())
		return nil
	}) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, text)
}

func (i *Inspector) handleMutations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var records []dom.Mutation
	if !i.read(w, r, func() error {
		records = i.history.last(limit)
		return nil
	}) {
		return
	}
	if records == nil {
		records = []dom.Mutation{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (i *Inspector) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap Snapshot
	if !i.read(w, r, func() error {
		snap = i.latest
		return nil
	}) {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (i *Inspector) handleCell(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	get, ok := i.config.Cells[name]
	if !ok {
		http.Error(w, "unknown cell "+strconv.Quote(name), http.StatusNotFound)
		return
	}

	var value any
	if !i.read(w, r, func() error {
		value = get()
		return nil
	}) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "value": value})
}

func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := i.hub.add(conn)
	if c == nil {
		conn.Close()
		return
	}

	// Send the current state first, ordered against later broadcasts by
	// running on the loop.
	err = i.config.Loop.Do(r.Context(), func() error {
		msg, err := json.Marshal(i.latest)
		if err != nil {
			return err
		}
		i.hub.sendTo(c, msg)
		return nil
	})
	if err != nil {
		i.logger.Warn("initial snapshot failed", "client", c.id, "error", err)
		i.hub.remove(c)
		return
	}

	conn.SetReadLimit(4096)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			i.hub.remove(c)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
