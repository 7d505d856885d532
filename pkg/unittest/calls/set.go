package calls

import (
	"strings"

	"github.com/Manu343726/lc3unit/pkg/utils"
)

// Set is an unordered collection of calls keyed by their canonical form.
// Iteration always follows key order.
type Set[T Call] struct {
	items map[string]T
}

// NewSet builds a set keeping the first occurrence of every call
func NewSet[T Call](calls ...T) Set[T] {
	set := Set[T]{items: make(map[string]T, len(calls))}

	for _, call := range calls {
		set.Add(call)
	}

	return set
}

// Add inserts call, returning false if it was already present
func (s *Set[T]) Add(call T) bool {
	if s.items == nil {
		s.items = make(map[string]T)
	}

	key := call.Key()
	if _, ok := s.items[key]; ok {
		return false
	}

	s.items[key] = call
	return true
}

func (s Set[T]) Contains(call T) bool {
	_, ok := s.items[call.Key()]
	return ok
}

func (s Set[T]) Len() int {
	return len(s.items)
}

func (s Set[T]) Empty() bool {
	return len(s.items) == 0
}

// Items returns the calls sorted by key
func (s Set[T]) Items() []T {
	return utils.Map(utils.SortedKeys(s.items), func(key string) T {
		return s.items[key]
	})
}

// Intersect returns the calls present in both sets
func (s Set[T]) Intersect(other Set[T]) Set[T] {
	return NewSet(utils.Filter(s.Items(), other.Contains)...)
}

// Difference returns the calls of s not present in other
func (s Set[T]) Difference(other Set[T]) Set[T] {
	return NewSet(utils.Filter(s.Items(), func(call T) bool {
		return !other.Contains(call)
	})...)
}

// Union returns the calls of both sets, s first
func (s Set[T]) Union(other Set[T]) Set[T] {
	return NewSet(append(s.Items(), other.Items()...)...)
}

// String renders the calls separated by spaces
func (s Set[T]) String() string {
	return strings.Join(utils.Map(s.Items(), func(call T) string {
		return call.String()
	}), " ")
}
