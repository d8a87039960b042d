// Package sparse provides a sparse set of small integers with O(1) insert,
// membership test and clear, used for walks over program states.
package sparse

import "github.com/coregx/bregex/internal/conv"

// SparseSet is a set of uint32 values below a fixed capacity. The dense
// slice keeps insertion order, so it doubles as a worklist.
type SparseSet struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32
}

// NewSparseSet creates a set able to hold values in [0, capacity).
func NewSparseSet(capacity int) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value and reports whether it was not already present.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = conv.IntToUint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// At returns the i-th inserted value.
func (s *SparseSet) At(i int) uint32 {
	return s.dense[i]
}

// Clear removes all elements in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Size returns the number of elements in the set.
func (s *SparseSet) Size() int {
	return len(s.dense)
}

// Values returns the elements in insertion order. The slice is valid until
// the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}
