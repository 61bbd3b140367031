package livetest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/livetree"
	"github.com/vango-dev/livetree/pkg/content"
	"github.com/vango-dev/livetree/pkg/dom"
)

// Harness is mounted content under test.
type Harness struct {
	t       testing.TB
	rt      *livetree.Runtime
	doc     *dom.MemoryDocument
	root    *livetree.Root
	records []dom.Mutation
	timeout time.Duration
}

// Option configures a Harness.
type Option func(*options)

type options struct {
	config  livetree.Config
	timeout time.Duration
}

// WithConfig sets the runtime configuration.
func WithConfig(cfg livetree.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithTimeout bounds how long Settle waits. Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// New mounts c into a new document. The runtime is closed when the test
// ends.
func New(t testing.TB, c content.Content, opts ...Option) *Harness {
	t.Helper()
	o := options{config: livetree.DefaultConfig(), timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Harness{
		t:       t,
		rt:      livetree.New(o.config),
		doc:     dom.NewDocument(),
		timeout: o.timeout,
	}
	remove := h.doc.Observe(func(m dom.Mutation) { h.records = append(h.records, m) })
	h.root = h.rt.MountDocument(h.doc, c)
	h.records = nil

	t.Cleanup(func() {
		remove()
		h.rt.Close()
	})
	return h
}

// Runtime returns the harness runtime.
func (h *Harness) Runtime() *livetree.Runtime { return h.rt }

// Document returns the harness document.
func (h *Harness) Document() *dom.MemoryDocument { return h.doc }

// Root returns the mounted root.
func (h *Harness) Root() *livetree.Root { return h.root }

// Settle runs pending revalidation and fails the test on error.
func (h *Harness) Settle() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.rt.Settle(ctx); err != nil {
		h.t.Fatalf("settle: %v", err)
	}
}

// Write clears the recorded mutations, runs fn and settles.
func (h *Harness) Write(fn func()) {
	h.t.Helper()
	h.records = nil
	fn()
	h.Settle()
}

// HTML returns the serialized body content.
func (h *Harness) HTML() string {
	return dom.InnerHTML(h.doc.Body())
}

// Text returns the text content of the body.
func (h *Harness) Text() string {
	return dom.TextContent(h.doc.Body())
}

// Mutations returns the mutations recorded since the last Write.
func (h *Harness) Mutations() []dom.Mutation {
	return append([]dom.Mutation(nil), h.records...)
}

// Count returns how many recorded mutations have the given op.
func (h *Harness) Count(op dom.MutationOp) int {
	n := 0
	for _, m := range h.records {
		if m.Op == op {
			n++
		}
	}
	return n
}

// ExpectHTML asserts the serialized body content.
func (h *Harness) ExpectHTML(expected string) {
	h.t.Helper()
	if got := h.HTML(); got != expected {
		h.t.Errorf("HTML = %s, want %s", truncate(got, 500), expected)
	}
}

// ExpectText asserts the body text content.
func (h *Harness) ExpectText(expected string) {
	h.t.Helper()
	if got := h.Text(); got != expected {
		h.t.Errorf("text = %q, want %q", truncate(got, 500), expected)
	}
}

// ExpectContains asserts that the output contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		h.t.Errorf("expected output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the output does not contain unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		h.t.Errorf("expected output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectMutations asserts how many mutations of one op the last Write
// caused.
func (h *Harness) ExpectMutations(op dom.MutationOp, n int) {
	h.t.Helper()
	if got := h.Count(op); got != n {
		h.t.Errorf("%s mutations = %d, want %d", op, got, n)
	}
}

// ExpectNoMutations asserts that the last Write changed nothing.
func (h *Harness) ExpectNoMutations() {
	h.t.Helper()
	if len(h.records) != 0 {
		h.t.Errorf("expected no mutations, got %d (first: %s)", len(h.records), h.records[0].Op)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
