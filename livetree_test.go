package livetree

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/pkg/content"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

func newRuntime(t *testing.T, cfg Config) *Runtime {
	t.Helper()
	rt := New(cfg)
	t.Cleanup(rt.Close)
	return rt
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.MaxCascade)
	assert.Equal(t, "livetree", cfg.TracerName)
	assert.NotNil(t, cfg.Logger)

	rt := newRuntime(t, Config{})
	assert.NotNil(t, rt.Config().Logger)
	assert.Nil(t, rt.Metrics())
}

func TestMountUpdatesOnSettle(t *testing.T) {
	rt := newRuntime(t, DefaultConfig())
	doc := dom.NewDocument()
	count := reactive.NewCell(0)

	root := rt.MountDocument(doc, content.Element("span",
		content.Text(reactive.Map[int, string](count, strconv.Itoa))))
	require.True(t, root.Dynamic())
	assert.Equal(t, 1, rt.Scheduler().Renderables())

	count.Set(1)
	count.Set(2)
	require.NoError(t, rt.Settle(context.Background()))

	assert.Equal(t, "<span>2</span>", dom.InnerHTML(doc.Body()))
	assert.Equal(t, uint64(1), rt.Scheduler().Batches())
}

func TestStaticRootIsNotRegistered(t *testing.T) {
	rt := newRuntime(t, DefaultConfig())
	doc := dom.NewDocument()

	root := rt.MountDocument(doc, content.Element("p", content.StaticText("x")))

	assert.False(t, root.Dynamic())
	assert.Equal(t, 0, rt.Scheduler().Renderables())
	assert.Equal(t, 1, rt.Roots())
}

func TestUnmount(t *testing.T) {
	rt := newRuntime(t, DefaultConfig())
	doc := dom.NewDocument()
	name := reactive.NewCell("a")

	root := rt.MountDocument(doc, content.Text(name))
	cur := root.Unmount()

	assert.Equal(t, "", dom.InnerHTML(doc.Body()))
	assert.Equal(t, 0, rt.Scheduler().Renderables())
	assert.Equal(t, 0, rt.Roots())
	assert.Same(t, doc.Body(), cur.Parent)

	name.Set("b")
	require.NoError(t, rt.Settle(context.Background()))
	assert.Panics(t, func() { root.Unmount() })
}

func TestMetricsAndLogging(t *testing.T) {
	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	rt := newRuntime(t, Config{
		Logger:  slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Metrics: reg,
	})
	doc := dom.NewDocument()
	v := reactive.NewCell("a")
	rt.MountDocument(doc, content.Text(v))

	v.Set("b")
	require.NoError(t, rt.Settle(context.Background()))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["livetree_scheduler_batches_total"])
	assert.True(t, names["livetree_dom_mutations_total"])
	assert.Contains(t, logs.String(), "msg=mounted")
	assert.Contains(t, logs.String(), "msg=revalidated")
}

func TestCloseStopsUpdates(t *testing.T) {
	rt := New(DefaultConfig())
	doc := dom.NewDocument()
	v := reactive.NewCell("a")
	rt.MountDocument(doc, content.Text(v))

	rt.Close()
	rt.Close()
	v.Set("b")
	require.NoError(t, rt.Settle(context.Background()))

	assert.Equal(t, "a", dom.InnerHTML(doc.Body()))
}
