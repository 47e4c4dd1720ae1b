package stack

import "errors"

// ErrFull is returned by Push when the stack already holds Limit items.
var ErrFull = errors.New("stack: limit reached")

// Stack is a LIFO with an optional upper bound on its size.
// Storage grows on demand; the bound is checked before every push.
type Stack[T any] struct {
	items []T
	limit int
}

// NewBounded creates a stack that refuses to hold more than limit items.
// A limit <= 0 means unbounded.
func NewBounded[T any](limit int) *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0, min(max(limit, 0), 16)),
		limit: limit,
	}
}

// Push adds item on top. It fails with ErrFull when the bound is reached.
func (s *Stack[T]) Push(item T) error {
	if s.limit > 0 && len(s.items) >= s.limit {
		return ErrFull
	}
	s.items = append(s.items, item)
	return nil
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	index := len(s.items) - 1
	item := s.items[index]
	s.items = s.items[:index]
	return item, true
}

// Top allows modifying the top element in place.
func (s *Stack[T]) Top() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

// At returns a reference to the i-th item counted from the bottom.
func (s *Stack[T]) At(i int) *T {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return &s.items[i]
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Limit() int {
	return s.limit
}

// Items orders from bottom to top. The slice aliases the stack storage.
func (s *Stack[T]) Items() []T {
	return s.items
}
