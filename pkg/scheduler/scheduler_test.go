package scheduler

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/content"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

type counter struct {
	name   string
	polls  int
	onPoll func()
	log    *[]string
}

func (c *counter) Poll() {
	c.polls++
	if c.log != nil {
		*c.log = append(*c.log, c.name)
	}
	if c.onPoll != nil {
		c.onPoll()
	}
}

func newScheduler(t *testing.T, opts ...Option) (*Scheduler, *Queue) {
	t.Helper()
	q := NewQueue()
	s := New(append([]Option{WithQueue(q)}, opts...)...)
	t.Cleanup(s.Attach())
	return s, q
}

func TestWritesCoalesceIntoOneBatch(t *testing.T) {
	s, q := newScheduler(t)
	cell := reactive.NewCell(0)
	r := &counter{}
	s.AddRenderable(r)

	cell.Set(1)
	cell.Set(2)

	assert.True(t, s.Pending())
	assert.Equal(t, 1, q.Len())

	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, 1, r.polls)
	assert.Equal(t, uint64(1), s.Batches())
	assert.False(t, s.Pending())
}

type row struct {
	ID   int
	Name string
}

func TestEachItemUpdateStaysInOneBatch(t *testing.T) {
	s, q := newScheduler(t)
	doc := dom.NewDocument()
	rows := reactive.NewCell([]row{{1, "A"}, {2, "b"}})
	list := content.Each(rows,
		func(r row) int { return r.ID },
		func(r reactive.Reactive[row]) content.Content {
			return content.Text(reactive.Map(r, func(r row) string { return r.Name }))
		},
	)
	s.AddRenderable(content.Render(list, content.AppendTo(doc.Body())))
	other := &counter{}
	s.AddRenderable(other)

	rows.Set([]row{{1, "AA"}, {2, "b"}})
	require.NoError(t, s.Wait(context.Background()))

	assert.Equal(t, "AAb<!---->", dom.InnerHTML(doc.Body()))
	assert.Equal(t, uint64(1), s.Batches())
	assert.Equal(t, 1, other.polls)
	assert.False(t, s.Pending())
	assert.Equal(t, 0, q.Len())
}

func TestBatchPanicIsReturnedByWait(t *testing.T) {
	s, _ := newScheduler(t)
	var log []string
	bad := &counter{name: "bad", log: &log, onPoll: func() {
		panic(errors.New(errors.CodeMissingBranch))
	}}
	after := &counter{name: "after", log: &log}
	s.AddRenderable(bad)
	s.AddRenderable(after)

	s.ScheduleRevalidate()
	err := s.Wait(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeMissingBranch))
	assert.Equal(t, []string{"bad"}, log)
	assert.False(t, s.Pending())

	bad.onPoll = nil
	s.ScheduleRevalidate()
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, []string{"bad", "bad", "after"}, log)
}

func TestWaitWithNothingPending(t *testing.T) {
	s, q := newScheduler(t)
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(0), s.Batches())
}

func TestPollOrderFollowsRegistration(t *testing.T) {
	s, _ := newScheduler(t)
	var log []string
	a := &counter{name: "a", log: &log}
	b := &counter{name: "b", log: &log}
	c := &counter{name: "c", log: &log}
	s.AddRenderable(b)
	s.AddRenderable(a)
	s.AddRenderable(c)
	s.AddRenderable(b)

	s.ScheduleRevalidate()
	require.NoError(t, s.Wait(context.Background()))

	assert.Equal(t, []string{"b", "a", "c"}, log)
	assert.Equal(t, 3, s.Renderables())
}

func TestRemoveDuringBatchSkipsRenderable(t *testing.T) {
	s, _ := newScheduler(t)
	b := &counter{name: "b"}
	a := &counter{name: "a", onPoll: func() { s.RemoveRenderable(b) }}
	s.AddRenderable(a)
	s.AddRenderable(b)

	s.ScheduleRevalidate()
	require.NoError(t, s.Wait(context.Background()))

	assert.Equal(t, 1, a.polls)
	assert.Equal(t, 0, b.polls)

	s.RemoveRenderable(b)
	assert.Equal(t, 1, s.Renderables())
}

func TestAddDuringBatchWaitsForNextBatch(t *testing.T) {
	s, _ := newScheduler(t)
	late := &counter{name: "late"}
	added := false
	a := &counter{name: "a", onPoll: func() {
		if !added {
			s.AddRenderable(late)
			added = true
		}
	}}
	s.AddRenderable(a)

	s.ScheduleRevalidate()
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, 0, late.polls)

	s.ScheduleRevalidate()
	require.NoError(t, s.Wait(context.Background()))
	assert.Equal(t, 1, late.polls)
}

func TestWriteDuringBatchSchedulesFollowUp(t *testing.T) {
	s, _ := newScheduler(t)
	cell := reactive.NewCell(0)
	r := &counter{}
	r.onPoll = func() {
		if r.polls == 1 {
			cell.Set(10)
		}
	}
	s.AddRenderable(r)

	cell.Set(1)
	require.NoError(t, s.Wait(context.Background()))

	assert.Equal(t, 2, r.polls)
	assert.Equal(t, uint64(2), s.Batches())
}

func TestCascadeBudget(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	s, _ := newScheduler(t, WithMaxCascade(3), WithMetrics(m))

	cell := reactive.NewCell(0)
	s.AddRenderable(&counter{onPoll: func() { cell.Update(func(v int) int { return v + 1 }) }})

	cell.Set(1)
	err := s.Wait(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeCascadeExceeded))
	assert.Equal(t, uint64(4), s.Batches())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cascadesDropped))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.batches))

	// The error is reported once.
	assert.NoError(t, s.Wait(context.Background()))
}

func TestAssertionsRunAfterPolls(t *testing.T) {
	s, _ := newScheduler(t)
	var log []string
	s.AddRenderable(&counter{name: "poll", log: &log})

	boom := stderrors.New("boom")
	check := AssertionFunc(func() error {
		log = append(log, "check")
		return boom
	})
	s.AddAssertion(&check)

	s.ScheduleRevalidate()
	assert.ErrorIs(t, s.Wait(context.Background()), boom)
	assert.Equal(t, []string{"poll", "check"}, log)

	s.RemoveAssertion(&check)
	s.ScheduleRevalidate()
	assert.NoError(t, s.Wait(context.Background()))
}

func TestRenderableMustBeComparable(t *testing.T) {
	s, _ := newScheduler(t)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.True(t, errors.Is(r, errors.CodeNotComparable))
	}()
	s.AddRenderable([]int{1})
}

func TestCloseDetaches(t *testing.T) {
	q := NewQueue()
	s := New(WithQueue(q))
	s.Attach()
	r := &counter{}
	s.AddRenderable(r)

	s.Close()
	reactive.NewCell(0).Set(1)

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, s.Renderables())
	require.NoError(t, s.Wait(context.Background()))
}

func TestWaitCanceled(t *testing.T) {
	// A queue the caller cannot drain never settles on its own.
	s := New(WithQueue(stuckQueue{}))
	s.ScheduleRevalidate()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}

type stuckQueue struct{}

func (stuckQueue) Enqueue(func()) {}

func TestPollsRenderedContent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	s, _ := newScheduler(t, WithMetrics(m))

	doc := dom.NewDocument()
	doc.Observe(m.RecordMutation)
	name := reactive.NewCell("hello")
	res := content.Render(content.Element("p", content.Text(name)), content.AppendTo(doc.Body()))
	s.AddRenderable(res)

	name.Set("goodbye")
	require.NoError(t, s.Wait(context.Background()))

	assert.Equal(t, "<p>goodbye</p>", dom.InnerHTML(doc.Body()))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mutations.WithLabelValues("SetText")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.renderables))
}
