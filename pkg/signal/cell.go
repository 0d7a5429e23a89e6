package signal

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/navigator/pkg/urlparam"
)

// Cell is a type-erased view of a Signal. Values written through a Cell are
// converted into the signal's type with urlparam.Convert, so a signal of
// int accepts the string "3" and a signal of time.Time accepts a date
// formatted with urlparam.DateLayout.
type Cell[T any] struct {
	s *Signal[T]
}

// Cell returns the type-erased view of s.
func (s *Signal[T]) Cell() *Cell[T] {
	return &Cell[T]{s: s}
}

// Signal returns the underlying signal.
func (c *Cell[T]) Signal() *Signal[T] { return c.s }

// Get returns the current value.
func (c *Cell[T]) Get() any {
	return c.s.Get()
}

// Set converts value and writes it to the signal. A nil value resets the
// signal to the zero value of T.
func (c *Cell[T]) Set(value any) error {
	if value == nil {
		var zero T
		c.s.Set(zero)
		return nil
	}
	if v, ok := value.(T); ok {
		c.s.Set(v)
		return nil
	}

	converted, err := urlparam.Convert(value, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return fmt.Errorf("signal: %w", err)
	}
	c.s.Set(converted.(T))
	return nil
}

// Observe registers fn for every new value.
func (c *Cell[T]) Observe(fn func(any)) func() {
	return c.s.Observe(func(v T) { fn(v) })
}

// Intercept registers fn to vet every change before it is applied.
func (c *Cell[T]) Intercept(fn func(next any) bool) func() {
	return c.s.Intercept(func(next T) bool { return fn(next) })
}
