package heap

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"time"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/time/rate"

	"github.com/Daltonhensley19/refcollect/internal/container"
	"github.com/Daltonhensley19/refcollect/internal/conv"
	"github.com/Daltonhensley19/refcollect/internal/resource"
)

var (
	// ErrNilHandle is returned when the nil handle is passed where an object is required.
	ErrNilHandle = errors.New("heap: nil handle")
	// ErrStaleHandle is returned for handles whose object was already released or never existed.
	ErrStaleHandle = errors.New("heap: stale handle")
	// ErrOutOfMemory is returned when an allocation cannot be satisfied.
	ErrOutOfMemory = errors.New("heap: out of memory")
)

// ObjectSize is the number of bytes charged against the memory budget per object.
const ObjectSize = int64(unsafe.Sizeof(slot{}))

// Handle is a reference to a managed object.
// The zero value is Nil and marks the end of a chain.
//
// A handle does not record which Heap issued it. Resolving it against a
// different heap may find an unrelated live object in the same slot and
// generation, so handles must only be used with the heap that issued them.
type Handle struct {
	slot uint32
	gen  uint32
}

// Nil is the end-marker handle. It never refers to an object.
var Nil Handle

// IsNil reports whether h is the end-marker.
func (h Handle) IsNil() bool { return h.gen == 0 }

// Slot returns the slot index of the handle.
func (h Handle) Slot() uint32 { return h.slot }

// Generation returns the slot generation the handle was issued for.
func (h Handle) Generation() uint32 { return h.gen }

func (h Handle) String() string {
	if h.IsNil() {
		return "NULL"
	}
	return fmt.Sprintf("#%d.%d", h.slot, h.gen)
}

// Object is a managed object with a fixed layout.
type Object struct {
	// Marked flags the object for reclamation at the next sweep.
	Marked bool
	// Payload is populated at allocation and never changed.
	Payload Payload
	// Next is the successor in the chain, Nil for a tail.
	Next Handle
	// Attached is set once a root slot or a predecessor owns the object.
	Attached bool
	// Owner identifies the arena holding the object, 0 if none does. Arenas
	// sharing a heap use it to refuse each other's objects.
	Owner uint64
}

type slot struct {
	gen  uint32
	live bool
	obj  Object
}

// Stats tracks heap usage.
//
//   - Allocs / Releases: cumulative counts
//   - Live: objects currently allocated
//   - Slots: slots ever created (live + free)
//   - FreeSlots: slots waiting for reuse
//   - BytesInUse: bytes charged against the memory budget
type Stats struct {
	Allocs     uint64
	Releases   uint64
	Live       int
	Slots      int
	FreeSlots  int
	BytesInUse int64
}

// Heap is a slot-indexed object allocator.
type Heap struct {
	slots    *container.SegmentedArray[slot]
	free     []uint32
	live     *roaring.Bitmap
	payloads PayloadProvider
	rc       *resource.Controller
	logger   *slog.Logger
	warn     rate.Sometimes

	allocs   uint64
	releases uint64
	capacity int
}

// Option is a configuration option for Heap.
type Option func(*Heap)

// WithPayloadProvider sets the source of payloads for new objects.
func WithPayloadProvider(p PayloadProvider) Option {
	return func(h *Heap) {
		if p != nil {
			h.payloads = p
		}
	}
}

// WithController sets the resource controller that enforces the memory budget.
func WithController(rc *resource.Controller) Option {
	return func(h *Heap) {
		h.rc = rc
	}
}

// WithLogger sets the logger used for allocation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(h *Heap) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithInitialCapacity pre-sizes the slot index for n objects.
func WithInitialCapacity(n int) Option {
	return func(h *Heap) {
		h.capacity = n
	}
}

// New creates a new Heap.
func New(opts ...Option) *Heap {
	h := &Heap{
		live:   roaring.New(),
		logger: slog.New(slog.DiscardHandler),
		warn:   rate.Sometimes{First: 1, Interval: time.Second},
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.payloads == nil {
		h.payloads = defaultPayloads()
	}
	h.slots = container.NewSegmentedArray[slot](h.capacity)

	return h
}

// Allocate creates a new unmarked, unattached object with Next = Nil.
func (h *Heap) Allocate() (Handle, error) {
	if err := h.rc.AcquireMemory(ObjectSize); err != nil {
		h.warn.Do(func() {
			h.logger.Warn("allocation rejected",
				"object_size", ObjectSize,
				"memory_in_use", h.rc.MemoryUsage(),
				"memory_limit", h.rc.MemoryLimit(),
			)
		})
		return Nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	var idx uint32
	if n := len(h.free); n > 0 {
		idx = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		if h.slots.Len() == math.MaxUint32 {
			h.rc.ReleaseMemory(ObjectSize)
			return Nil, fmt.Errorf("%w: slot index exhausted", ErrOutOfMemory)
		}
		idx = h.slots.Append(slot{gen: 1})
	}

	s := h.slots.At(idx)
	s.live = true
	s.obj = Object{Payload: h.payloads.NextPayload()}
	h.live.Add(idx)
	h.allocs++

	return Handle{slot: idx, gen: s.gen}, nil
}

// Release destroys exactly one object.
// The handle, and every copy of it, is stale afterwards.
func (h *Heap) Release(hd Handle) error {
	s, err := h.lookup(hd)
	if err != nil {
		return err
	}

	s.obj = Object{}
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	h.free = append(h.free, hd.slot)
	h.live.Remove(hd.slot)
	h.releases++
	h.rc.ReleaseMemory(ObjectSize)

	return nil
}

// Get returns a pointer to the live object behind hd.
// The pointer stays valid until the object is released.
func (h *Heap) Get(hd Handle) (*Object, error) {
	s, err := h.lookup(hd)
	if err != nil {
		return nil, err
	}
	return &s.obj, nil
}

// Contains reports whether hd refers to a live object.
func (h *Heap) Contains(hd Handle) bool {
	_, err := h.lookup(hd)
	return err == nil
}

func (h *Heap) lookup(hd Handle) (*slot, error) {
	if hd.IsNil() {
		return nil, ErrNilHandle
	}
	s := h.slots.At(hd.slot)
	if s == nil || !s.live || s.gen != hd.gen {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, hd)
	}
	return s, nil
}

// Live iterates over the handles of all live objects in slot order.
func (h *Heap) Live() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		it := h.live.Iterator()
		for it.HasNext() {
			idx := it.Next()
			if !yield(Handle{slot: idx, gen: h.slots.At(idx).gen}) {
				return
			}
		}
	}
}

// Outstanding returns the number of live objects.
func (h *Heap) Outstanding() int {
	n, err := conv.Uint64ToInt(h.live.GetCardinality())
	if err != nil {
		return math.MaxInt
	}
	return n
}

// Stats returns the current heap statistics.
func (h *Heap) Stats() Stats {
	slots, _ := conv.Uint32ToInt(h.slots.Len()) // Safe: bounded by MaxUint32
	return Stats{
		Allocs:     h.allocs,
		Releases:   h.releases,
		Live:       h.Outstanding(),
		Slots:      slots,
		FreeSlots:  len(h.free),
		BytesInUse: int64(h.Outstanding()) * ObjectSize,
	}
}

func (h *Heap) String() string {
	stats := h.Stats()
	return fmt.Sprintf(
		"Heap{live: %d, slots: %d, free: %d, allocs: %d, releases: %d, bytes: %d}",
		stats.Live,
		stats.Slots,
		stats.FreeSlots,
		stats.Allocs,
		stats.Releases,
		stats.BytesInUse,
	)
}
