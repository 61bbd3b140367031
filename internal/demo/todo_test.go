package demo

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/livetest"
)

func TestScriptGolden(t *testing.T) {
	app := New()
	Seed(app)
	h := livetest.New(t, app.View())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, step := range Script() {
		h.Write(func() { step.Run(app) })
		g.Assert(t, step.Name, []byte(h.HTML()))
	}
}

func TestReorderMovesExistingNodes(t *testing.T) {
	app := New()
	Seed(app)
	h := livetest.New(t, app.View())

	h.Write(func() { app.Move(3, 0) })

	h.ExpectMutations(dom.MutationMoveNode, 1)
	h.ExpectMutations(dom.MutationInsertNode, 0)
	h.ExpectMutations(dom.MutationRemoveNode, 0)
}

func TestToggleTouchesOneItem(t *testing.T) {
	app := New()
	Seed(app)
	h := livetest.New(t, app.View())

	h.Write(func() { app.Toggle(2) })

	// class + checked on the item, count text, the clear button swap.
	h.ExpectMutations(dom.MutationSetText, 1)
	h.ExpectContains(`<li data-id="2" class="completed">`)
	h.ExpectContains("2 items left")
	h.ExpectContains("clear completed")
}

func TestAppOperations(t *testing.T) {
	app := New()
	a := app.Add("a")
	b := app.Add("b")
	c := app.Add("c")
	require.Equal(t, []int{1, 2, 3}, []int{a, b, c})

	app.Move(a, 10)
	assert.Equal(t, []int{b, c, a}, ids(app.Todos()))

	app.Move(a, -1)
	assert.Equal(t, []int{a, b, c}, ids(app.Todos()))

	app.Toggle(b)
	app.Rename(c, "C")
	assert.True(t, app.Todos()[1].Done)
	assert.Equal(t, "C", app.Todos()[2].Title)

	before := app.Todos()
	app.ClearDone()
	assert.Equal(t, []int{a, c}, ids(app.Todos()))
	assert.Len(t, before, 3, "previous snapshot must stay intact")

	app.Remove(a)
	assert.Equal(t, []int{c}, ids(app.Todos()))

	app.SetFilter(FilterDone)
	cells := app.Cells()
	assert.Equal(t, FilterDone, cells["filter"]())
	assert.Empty(t, cells["visible"]())
}

func TestItemsLeft(t *testing.T) {
	assert.Equal(t, "1 item left", itemsLeft(1))
	assert.Equal(t, "0 items left", itemsLeft(0))
}

func ids(todos []Todo) []int {
	out := make([]int, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}
