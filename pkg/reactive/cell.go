package reactive

// Cell is a mutable reactive value.
// Reading it inside a tracking frame records a dependency on its tag;
// writing a different value dirties the tag.
type Cell[T any] struct {
	tag   *Tag
	value T

	// equal decides whether a write changes the value.
	// If nil, defaultEquals is used.
	equal func(T, T) bool
}

// NewCell creates a cell with the given initial value.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		tag:   NewTag("cell"),
		value: initial,
	}
}

// Named labels the cell's tag for error messages and returns the cell.
func (c *Cell[T]) Named(label string) *Cell[T] {
	c.tag.label = label
	return c
}

// WithEquals configures the equality function used by Set and returns
// the cell. Useful when reflect.DeepEqual is too expensive or wrong for T.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// Current returns the value and consumes the cell's tag.
func (c *Cell[T]) Current() T {
	Consume(c.tag)
	return c.value
}

// Peek returns the value without consuming the tag.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set stores value and dirties the tag if it differs from the current one.
// It reports whether the value changed.
func (c *Cell[T]) Set(value T) bool {
	if c.equals(c.value, value) {
		return false
	}
	c.value = value
	Dirty(c.tag)
	return true
}

// Update replaces the value with fn(current).
func (c *Cell[T]) Update(fn func(T) T) bool {
	return c.Set(fn(c.value))
}

// IsStatic always returns false.
func (c *Cell[T]) IsStatic() bool {
	return false
}

// Tag returns the cell's tag.
func (c *Cell[T]) Tag() *Tag {
	return c.tag
}

func (c *Cell[T]) sealed() {}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}
