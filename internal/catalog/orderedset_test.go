package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedSetFirstSeenWins(t *testing.T) {
	s := NewOrderedSet()
	assert.True(t, s.Add("B"))
	assert.True(t, s.Add("A"))
	assert.False(t, s.Add("B"))
	assert.True(t, s.Add("C"))

	assert.Equal(t, []string{"B", "A", "C"}, s.Values())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("A"))
	assert.False(t, s.Has("D"))
}

func TestOrderedSetSort(t *testing.T) {
	s := NewOrderedSet()
	for _, v := range []string{"c", "a", "b"} {
		s.Add(v)
	}
	s.Sort()
	assert.Equal(t, []string{"a", "b", "c"}, s.Values())
	assert.False(t, s.Add("a"))
	assert.True(t, s.Add("d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Values())
}

func TestOrderedSetValuesIsCopy(t *testing.T) {
	s := NewOrderedSet()
	s.Add("x")
	v := s.Values()
	v[0] = "y"
	assert.Equal(t, []string{"x"}, s.Values())
}
