package scheduler

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/reactive"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l
}

func TestQueueDrainRunsNestedTasks(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Enqueue(func() {
		order = append(order, 1)
		q.Enqueue(func() { order = append(order, 3) })
	})
	q.Enqueue(func() { order = append(order, 2) })

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Len())
}

func TestLoopDoRunsMicrotasksFirst(t *testing.T) {
	l := startLoop(t)
	var order []string

	err := l.Do(context.Background(), func() error {
		l.Enqueue(func() { order = append(order, "micro") })
		order = append(order, "task")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"task", "micro"}, order)
}

func TestLoopDoReturnsErrorsAndPanics(t *testing.T) {
	l := startLoop(t)
	boom := stderrors.New("boom")

	assert.ErrorIs(t, l.Do(context.Background(), func() error { return boom }), boom)

	err := l.Do(context.Background(), func() error { panic("kaput") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")

	// The loop survives.
	assert.NoError(t, l.Do(context.Background(), func() error { return nil }))
}

func TestLoopClosed(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, l.Run(ctx), context.Canceled)

	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(context.Background(), func() error { return nil }), ErrLoopClosed)
}

func TestSchedulerOnLoop(t *testing.T) {
	l := startLoop(t)
	s := New(WithQueue(l))

	var cell *reactive.Cell[int]
	r := &counter{}
	require.NoError(t, l.Do(context.Background(), func() error {
		s.Attach()
		cell = reactive.NewCell(0)
		s.AddRenderable(r)
		return nil
	}))

	require.NoError(t, l.Do(context.Background(), func() error {
		cell.Set(1)
		cell.Set(2)
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))

	require.NoError(t, l.Do(context.Background(), func() error {
		assert.Equal(t, 1, r.polls)
		s.Close()
		return nil
	}))
}

func TestSchedulerOnLoopReportsBatchPanics(t *testing.T) {
	l := startLoop(t)
	s := New(WithQueue(l))

	r := &counter{onPoll: func() {
		panic(errors.New(errors.CodeDuplicateKey).WithDetail("key 1 at index 1"))
	}}
	require.NoError(t, l.Do(context.Background(), func() error {
		s.AddRenderable(r)
		s.ScheduleRevalidate()
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeDuplicateKey))
	assert.NoError(t, s.Wait(ctx))
}
