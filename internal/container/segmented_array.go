// Package container implements container data structures.
package container

const (
	// segmentBits determines the size of each segment.
	// 10 bits = 1024 items per segment.
	segmentBits = 10
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedArray is an append-only array made of fixed-size segments.
//
// Growing never moves existing items, so a pointer returned by At stays
// valid for the lifetime of the array. It is not safe for concurrent use.
type SegmentedArray[T any] struct {
	segments []*Segment[T]
	length   uint32
}

// Segment is a fixed-size array of items.
type Segment[T any] struct {
	items [segmentSize]T
}

// NewSegmentedArray creates a new SegmentedArray with room for capacity
// items before the first segment allocation.
func NewSegmentedArray[T any](capacity int) *SegmentedArray[T] {
	sa := &SegmentedArray[T]{}
	if capacity > 0 {
		sa.segments = make([]*Segment[T], 0, (capacity+segmentMask)>>segmentBits)
	}
	return sa
}

// Len returns the number of items appended so far.
func (sa *SegmentedArray[T]) Len() uint32 {
	return sa.length
}

// At returns a stable pointer to the item at index.
// Returns nil if index is out of bounds.
func (sa *SegmentedArray[T]) At(index uint32) *T {
	if index >= sa.length {
		return nil
	}
	return &sa.segments[index>>segmentBits].items[index&segmentMask]
}

// Append adds value at the end and returns its index.
func (sa *SegmentedArray[T]) Append(value T) uint32 {
	index := sa.length
	segIdx := int(index >> segmentBits)
	if segIdx >= len(sa.segments) {
		sa.segments = append(sa.segments, &Segment[T]{})
	}
	sa.segments[segIdx].items[index&segmentMask] = value
	sa.length++
	return index
}
