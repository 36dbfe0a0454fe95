package catalog

import "sort"

// OrderedSet is a string set that remembers first-insertion order.
type OrderedSet struct {
	index  map[string]int
	values []string
}

func NewOrderedSet() *OrderedSet {
	return &OrderedSet{index: make(map[string]int)}
}

// Add inserts v if it is not already present and reports whether it was new.
func (s *OrderedSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.values)
	s.values = append(s.values, v)
	return true
}

func (s *OrderedSet) Has(v string) bool {
	_, ok := s.index[v]
	return ok
}

func (s *OrderedSet) Len() int { return len(s.values) }

// Values returns a copy of the members in insertion order.
func (s *OrderedSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Sort reorders the members lexically.
func (s *OrderedSet) Sort() {
	sort.Strings(s.values)
	for i, v := range s.values {
		s.index[v] = i
	}
}
