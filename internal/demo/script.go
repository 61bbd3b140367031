package demo

// Step is one scripted interaction with the application.
type Step struct {
	Name string
	Run  func(*App)
}

// Seed fills a new application with the starting todos.
func Seed(a *App) {
	a.Add("write the renderer")
	a.Add("test it")
	a.Add("ship")
}

// Script is the scripted session the demo command plays back.
func Script() []Step {
	return []Step{
		{Name: "initial", Run: func(*App) {}},
		{Name: "toggled", Run: func(a *App) { a.Toggle(1) }},
		{Name: "filtered", Run: func(a *App) { a.SetFilter(FilterActive) }},
		{Name: "reordered", Run: func(a *App) { a.Move(3, 0) }},
		{Name: "renamed", Run: func(a *App) { a.Rename(2, "test it twice") }},
		{Name: "cleared", Run: func(a *App) { a.ClearDone() }},
		{Name: "emptied", Run: func(a *App) {
			for _, t := range a.Todos() {
				a.Remove(t.ID)
			}
		}},
	}
}
