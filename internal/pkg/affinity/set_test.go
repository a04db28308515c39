package affinity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("add collapses repeats and keeps order", func(t *testing.T) {
		s := NewSet(3, 1, 3, 2, 1)
		assert.Equal(t, []uint64{3, 1, 2}, s.IDs())
		assert.Equal(t, 0, s.Add(1, 2, 3))
		assert.Equal(t, 1, s.Add(4, 4))
		assert.Equal(t, 4, s.Len())
	})

	t.Run("remove", func(t *testing.T) {
		s := NewSet(1, 2, 3)
		assert.Equal(t, 1, s.Remove(2, 9))
		assert.Equal(t, []uint64{1, 3}, s.IDs())
		assert.False(t, s.Contains(2))
	})

	t.Run("nil set is empty", func(t *testing.T) {
		var s *Set
		assert.Equal(t, 0, s.Len())
		assert.False(t, s.Contains(1))
		assert.Equal(t, 0, s.Overlap([]uint64{1}))
		assert.Empty(t, s.IDs())
	})

	t.Run("overlap counts distinct members", func(t *testing.T) {
		s := NewSet(1, 2, 3)
		assert.Equal(t, 2, s.Overlap([]uint64{1, 1, 3, 7}))
	})

	t.Run("IDs returns a copy", func(t *testing.T) {
		s := NewSet(1, 2)
		ids := s.IDs()
		ids[0] = 99
		assert.True(t, s.Contains(1))
	})
}

func TestUnion(t *testing.T) {
	s := Union([]uint64{1, 2}, []uint64{2, 3}, nil, []uint64{1, 4})
	assert.Equal(t, []uint64{1, 2, 3, 4}, s.IDs())
}
