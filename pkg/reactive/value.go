package reactive

import "reflect"

// Reactive is a readable value: a *Cell, a *Static or a *Derived.
type Reactive[T any] interface {
	// Current returns the value and consumes whatever it depends on.
	Current() T

	// IsStatic reports whether the value can never change.
	IsStatic() bool

	sealed()
}

// Static is a value that never changes.
type Static[T any] struct {
	value T
}

// NewStatic wraps a constant.
func NewStatic[T any](value T) *Static[T] {
	return &Static[T]{value: value}
}

// Current returns the constant.
func (s *Static[T]) Current() T {
	return s.value
}

// IsStatic always returns true.
func (s *Static[T]) IsStatic() bool {
	return true
}

func (s *Static[T]) sealed() {}

// Derived is a memoized computation over other reactive values.
type Derived[T any] struct {
	cache *Cache[T]
}

// NewDerived creates a derived value. fn must be free of side effects;
// it runs lazily on the first read and again only after a dependency
// changed.
func NewDerived[T any](fn func() T) *Derived[T] {
	return &Derived[T]{cache: NewCache(fn)}
}

// Current returns the (possibly recomputed) value.
func (d *Derived[T]) Current() T {
	return d.cache.Value()
}

// IsStatic computes the value if needed and reports whether the
// computation read no mutable value. Such a derived value is constant.
func (d *Derived[T]) IsStatic() bool {
	if !d.cache.Computed() {
		Untracked(func() { d.cache.Value() })
	}
	return d.cache.Constant()
}

func (d *Derived[T]) sealed() {}

// Map derives a value from r. When r is static the result is a Static
// computed once; otherwise it is a Derived.
func Map[T, U any](r Reactive[T], fn func(T) U) Reactive[U] {
	if r.IsStatic() {
		return NewStatic(fn(r.Current()))
	}
	return NewDerived(func() U { return fn(r.Current()) })
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
