package signal

import (
	"reflect"
	"sync"
	"time"
)

// Signal is an observable value container. It is safe for concurrent use;
// observers and interceptors run without the lock held, so they may read
// or write the signal again.
type Signal[T any] struct {
	mu    sync.RWMutex
	value T

	// equal decides whether a write changes the value.
	// If nil, defaultEquals is used.
	equal func(T, T) bool

	nextID       int
	observers    []observer[T]
	interceptors []interceptor[T]
}

type observer[T any] struct {
	id int
	fn func(T)
}

type interceptor[T any] struct {
	id int
	fn func(T) bool
}

// New creates a new signal with the given initial value.
func New[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and notifies observers. It reports whether the
// value changed; a write equal to the current value or vetoed by an
// interceptor leaves the signal untouched.
func (s *Signal[T]) Set(value T) bool {
	s.mu.RLock()
	unchanged := s.equals(s.value, value)
	interceptors := make([]interceptor[T], len(s.interceptors))
	copy(interceptors, s.interceptors)
	s.mu.RUnlock()

	if unchanged {
		return false
	}
	for _, ic := range interceptors {
		if !ic.fn(value) {
			return false
		}
	}

	s.mu.Lock()
	s.value = value
	observers := make([]observer[T], len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(value)
	}
	return true
}

// Update reads the current value and sets the value fn returns.
func (s *Signal[T]) Update(fn func(T) T) bool {
	return s.Set(fn(s.Get()))
}

// Observe registers fn to be called with every new value and returns a
// function that removes it.
func (s *Signal[T]) Observe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Intercept registers fn to be consulted before every change. Returning
// false vetoes the write. The returned function removes the interceptor.
func (s *Signal[T]) Intercept(fn func(next T) bool) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.interceptors = append(s.interceptors, interceptor[T]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, ic := range s.interceptors {
			if ic.id == id {
				s.interceptors = append(s.interceptors[:i], s.interceptors[i+1:]...)
				return
			}
		}
	}
}

// WithEquals returns the signal configured with a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// equals checks if two values are equal using the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common scalar types, time.Time.Equal for times
// and reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	case time.Time:
		return av.Equal(any(b).(time.Time))
	default:
		return reflect.DeepEqual(a, b)
	}
}
