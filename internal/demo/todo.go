// Package demo is a small todo application built from content
// constructors. The CLI runs it and the inspector serves it.
package demo

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/vango-dev/livetree/pkg/content"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Todo is one entry.
type Todo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Filter selects which todos are listed.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterDone   Filter = "done"
)

// Filters lists the filters in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterDone}

// App is the todo application state.
type App struct {
	todos  *reactive.Cell[[]Todo]
	filter *reactive.Cell[Filter]
	nextID int

	visible *reactive.Derived[[]Todo]
	status  *reactive.Derived[content.Variant[int]]
	hasDone *reactive.Derived[bool]
}

// New creates an empty application.
func New() *App {
	a := &App{
		todos:  reactive.NewCell[[]Todo](nil).Named("todos"),
		filter: reactive.NewCell(FilterAll).Named("filter"),
		nextID: 1,
	}

	a.visible = reactive.NewDerived(func() []Todo {
		f := a.filter.Current()
		var out []Todo
		for _, t := range a.todos.Current() {
			if f == FilterAll || (f == FilterDone) == t.Done {
				out = append(out, t)
			}
		}
		return out
	})

	a.status = reactive.NewDerived(func() content.Variant[int] {
		todos := a.todos.Current()
		if len(todos) == 0 {
			return content.Case("empty", 0)
		}
		left := 0
		for _, t := range todos {
			if !t.Done {
				left++
			}
		}
		return content.Case("count", left)
	})

	a.hasDone = reactive.NewDerived(func() bool {
		return slices.ContainsFunc(a.todos.Current(), func(t Todo) bool { return t.Done })
	})
	return a
}

// Todos returns the current todos without tracking the read.
func (a *App) Todos() []Todo {
	return a.todos.Peek()
}

// Add appends a todo and returns its ID.
func (a *App) Add(title string) int {
	id := a.nextID
	a.nextID++
	a.update(func(todos []Todo) []Todo {
		return append(todos, Todo{ID: id, Title: title})
	})
	return id
}

// Toggle flips the done state of a todo.
func (a *App) Toggle(id int) {
	a.edit(id, func(t *Todo) { t.Done = !t.Done })
}

// Rename changes a todo's title.
func (a *App) Rename(id int, title string) {
	a.edit(id, func(t *Todo) { t.Title = title })
}

// Remove deletes a todo.
func (a *App) Remove(id int) {
	a.update(func(todos []Todo) []Todo {
		return slices.DeleteFunc(todos, func(t Todo) bool { return t.ID == id })
	})
}

// Move places a todo at index to of the full list.
func (a *App) Move(id, to int) {
	a.update(func(todos []Todo) []Todo {
		i := slices.IndexFunc(todos, func(t Todo) bool { return t.ID == id })
		if i < 0 {
			return todos
		}
		t := todos[i]
		todos = slices.Delete(todos, i, i+1)
		to = min(max(to, 0), len(todos))
		return slices.Insert(todos, to, t)
	})
}

// ClearDone removes every finished todo.
func (a *App) ClearDone() {
	a.update(func(todos []Todo) []Todo {
		return slices.DeleteFunc(todos, func(t Todo) bool { return t.Done })
	})
}

// SetFilter changes the listed subset.
func (a *App) SetFilter(f Filter) {
	a.filter.Set(f)
}

// update applies fn to a copy of the list so the previous snapshot
// stays intact.
func (a *App) update(fn func([]Todo) []Todo) {
	a.todos.Set(fn(slices.Clone(a.todos.Peek())))
}

func (a *App) edit(id int, fn func(*Todo)) {
	a.update(func(todos []Todo) []Todo {
		for i := range todos {
			if todos[i].ID == id {
				fn(&todos[i])
			}
		}
		return todos
	})
}

// Cells exposes the application state by name for inspection.
func (a *App) Cells() map[string]func() any {
	return map[string]func() any{
		"todos":   func() any { return a.todos.Peek() },
		"filter":  func() any { return a.filter.Peek() },
		"visible": func() any { return a.visible.Current() },
	}
}

// View returns the application content.
func (a *App) View() content.Content {
	return content.Element("section", content.Fragment(
		content.Element("h1", content.StaticText("todos")),
		content.Element("ul",
			content.Each[Todo, int](a.visible, todoKey, a.item),
			content.StaticClass("todo-list"),
		),
		content.Element("footer", content.Fragment(
			content.Choice[int](a.status, content.Match[int]{
				"empty": func(reactive.Reactive[int]) content.Content {
					return content.Element("span", content.StaticText("nothing to do"))
				},
				"count": func(left reactive.Reactive[int]) content.Content {
					return content.Element("span",
						content.Text(reactive.Map(left, itemsLeft)),
						content.StaticClass("count"),
					)
				},
			}),
			content.Invoke("filters", a.filterLinks, Filters),
			content.If(a.hasDone,
				content.Element("button", content.StaticText("clear completed"), content.StaticClass("clear")),
				nil,
			),
		), content.StaticClass("footer")),
	), content.StaticClass("todoapp"))
}

func (a *App) item(t reactive.Reactive[Todo]) content.Content {
	done := reactive.Map(t, func(t Todo) bool { return t.Done })
	return content.Element("li", content.Fragment(
		content.Element("input", nil,
			content.StaticAttr("type", "checkbox"),
			content.Toggle("checked", done),
		),
		content.Element("label", content.Text(reactive.Map(t, func(t Todo) string { return t.Title }))),
	),
		content.Class(reactive.Map(done, func(d bool) string {
			if d {
				return "completed"
			}
			return ""
		})),
		content.Attr("data-id", reactive.Map(t, func(t Todo) string { return strconv.Itoa(t.ID) })),
	)
}

func (a *App) filterLinks(filters []Filter) content.Content {
	links := make([]content.Content, len(filters))
	for i, f := range filters {
		f := f
		selected := reactive.NewDerived(func() string {
			if a.filter.Current() == f {
				return "selected"
			}
			return ""
		})
		links[i] = content.Element("a", content.StaticText(string(f)), content.Class(selected))
	}
	return content.Fragment(links...)
}

func todoKey(t Todo) int { return t.ID }

func itemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}
