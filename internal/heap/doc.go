// Package heap provides the allocator for managed objects.
//
// Objects live in a slot-indexed store and are addressed by Handle, a
// (slot, generation) pair. Releasing an object bumps the generation of its
// slot, so any handle still pointing at it becomes stale and is rejected
// instead of silently reading a recycled slot.
//
// # Features
//
//   - Fixed-layout objects: mark bit, two payload scalars, one successor
//   - Stable object addresses (segmented backing store)
//   - Slot reuse through a free list
//   - Live-set tracking with a roaring bitmap for leak checks
//   - Optional memory budget via resource.Controller
//
// # Safety
//
// All methods return errors instead of panicking. Release on a nil or stale
// handle reports ErrNilHandle or ErrStaleHandle and leaves the heap untouched.
//
// A Heap is not safe for concurrent use.
package heap
