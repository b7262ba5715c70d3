package refcollect

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/Daltonhensley19/refcollect/internal/bitset"
	"github.com/Daltonhensley19/refcollect/internal/heap"
)

type (
	// Handle references a managed object. The zero value is Nil.
	Handle = heap.Handle
	// Payload is the opaque data carried by every managed object.
	Payload = heap.Payload
	// PayloadProvider supplies payloads for newly allocated objects.
	PayloadProvider = heap.PayloadProvider
	// PayloadFunc adapts a function to PayloadProvider.
	PayloadFunc = heap.PayloadFunc
	// Heap is the allocator managed objects live in.
	Heap = heap.Heap
)

// Nil is the end-marker handle: an empty root or the successor of a tail.
var Nil = heap.Nil

// NewRandomPayloads returns a provider drawing Data1 from [0, 100) and Data2
// from [0.0, 100.0), seeded for reproducible runs.
func NewRandomPayloads(seed uint64) PayloadProvider {
	return heap.NewRandomPayloads(seed)
}

// ObjectSize is the number of bytes each managed object counts against
// WithMemoryLimit.
const ObjectSize = heap.ObjectSize

// SweepStats summarizes one sweep pass.
type SweepStats struct {
	Reclaimed       int
	RootsEmptied    int
	ChainsTruncated int
	Duration        time.Duration
}

// ArenaStats describes the current state of an arena.
type ArenaStats struct {
	Roots      int
	EmptyRoots int
	Objects    int // reachable from a root
	Pending    int // allocated but not yet attached
	Reclaimed  int // released by sweeps and teardown
	Leaked     bool
	Closed     bool
}

// Arena owns an ordered set of roots, each heading a singly-linked chain of
// managed objects, and reclaims them by mark and sweep.
//
// An Arena is not safe for concurrent use. Close must be called exactly
// once (or use Run); until then every object the arena allocated is owned by
// it.
type Arena struct {
	id      uint64
	heap    *Heap
	roots   []Handle
	pending map[Handle]struct{}

	logger  *Logger
	metrics MetricsCollector

	leaked    bool
	closed    bool
	reclaimed int

	visited *bitset.FastBitSet
}

var arenaIDs atomic.Uint64

// New creates an arena.
func New(optFns ...Option) (*Arena, error) {
	o := applyOptions(optFns)
	if o.initialRoots < 0 {
		return nil, contractErr("new", -1, ErrInvalidCount)
	}

	h := o.heap
	if h == nil {
		h = newHeap(o)
	}

	a := &Arena{
		id:      arenaIDs.Add(1),
		heap:    h,
		roots:   make([]Handle, 0, o.initialRoots),
		pending: make(map[Handle]struct{}),
		logger:  o.logger,
		metrics: o.metricsCollector,
		leaked:  o.leak,
	}

	if _, err := a.AddRoots(o.initialRoots); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	return a, nil
}

// Run creates an arena, passes it to fn and closes it when fn returns,
// whatever the outcome. Errors from fn and from teardown are joined.
func Run(fn func(*Arena) error, optFns ...Option) (err error) {
	a, err := New(optFns...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(a)
}

// Heap returns the allocator backing the arena.
func (a *Arena) Heap() *Heap {
	return a.heap
}

// Allocate creates a new unattached object. Attach it with Append or
// AddRootWith; objects still unattached at Close are reclaimed too.
func (a *Arena) Allocate() (Handle, error) {
	if err := a.checkOpen("allocate", -1); err != nil {
		return Nil, err
	}
	hd, _, err := a.allocate()
	if err != nil {
		return Nil, err
	}
	a.pending[hd] = struct{}{}
	return hd, nil
}

// allocate creates an object owned by this arena.
func (a *Arena) allocate() (Handle, *heap.Object, error) {
	hd, err := a.heap.Allocate()
	a.metrics.RecordAllocate(err)
	if err != nil {
		return Nil, nil, err
	}
	obj, err := a.heap.Get(hd)
	if err != nil {
		return Nil, nil, corruptErr("fresh object %s: %v", hd, err)
	}
	obj.Owner = a.id
	return hd, obj, nil
}

// Leak switches the arena to leak mode. Close will then abandon every
// outstanding object instead of reclaiming it. There is no way back.
func (a *Arena) Leak() {
	a.leaked = true
}

// Close tears the arena down. Unless leaked, every chain is reclaimed, every
// root becomes empty, and unattached allocations are released. Close runs
// its teardown once; later calls return nil.
func (a *Arena) Close() error {
	if a == nil || a.closed {
		return nil
	}
	a.closed = true

	if a.leaked {
		abandoned := len(a.pending)
		for _, head := range a.roots {
			abandoned += a.chainLen(head)
		}
		a.logger.LogTeardown(0, abandoned, true, nil)
		a.metrics.RecordTeardown(0, true)
		return nil
	}

	var errs []error
	reclaimed := 0
	for i, head := range a.roots {
		if head.IsNil() {
			continue
		}
		n, err := a.reclaimChain(head)
		reclaimed += n
		a.roots[i] = Nil
		if err != nil {
			errs = append(errs, err)
		}
	}
	for hd := range a.pending {
		if err := a.heap.Release(hd); err != nil {
			errs = append(errs, corruptErr("pending object %s: %v", hd, err))
			continue
		}
		reclaimed++
	}
	clear(a.pending)
	a.reclaimed += reclaimed

	err := errors.Join(errs...)
	a.logger.LogTeardown(reclaimed, 0, false, err)
	a.metrics.RecordTeardown(reclaimed, false)
	return err
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() ArenaStats {
	stats := ArenaStats{
		Roots:     len(a.roots),
		Pending:   len(a.pending),
		Reclaimed: a.reclaimed,
		Leaked:    a.leaked,
		Closed:    a.closed,
	}
	for _, head := range a.roots {
		if head.IsNil() {
			stats.EmptyRoots++
			continue
		}
		stats.Objects += a.chainLen(head)
	}
	return stats
}

func (a *Arena) checkOpen(op string, root int) error {
	if a.closed {
		return contractErr(op, root, ErrClosed)
	}
	return nil
}

// rootAt validates the index and returns the root's head, Nil if empty.
func (a *Arena) rootAt(op string, root int) (Handle, error) {
	if err := a.checkOpen(op, root); err != nil {
		return Nil, err
	}
	if root < 0 || root >= len(a.roots) {
		return Nil, contractErr(op, root, ErrInvalidRoot)
	}
	return a.roots[root], nil
}

// headAt is rootAt for operations that need a non-empty chain.
func (a *Arena) headAt(op string, root int) (Handle, error) {
	head, err := a.rootAt(op, root)
	if err != nil {
		return Nil, err
	}
	if head.IsNil() {
		return Nil, contractErr(op, root, ErrEmptyRoot)
	}
	return head, nil
}

// adoptable returns the object behind hd if it may be given an owner.
func (a *Arena) adoptable(op string, root int, hd Handle) (*heap.Object, error) {
	obj, err := a.heap.Get(hd)
	if err != nil {
		return nil, contractErr(op, root, err)
	}
	if obj.Attached || (obj.Owner != 0 && obj.Owner != a.id) {
		return nil, contractErr(op, root, ErrAlreadyOwned)
	}
	return obj, nil
}

func (a *Arena) adopt(hd Handle, obj *heap.Object) {
	obj.Attached = true
	obj.Owner = a.id
	delete(a.pending, hd)
}

// walk advances up to depth hops from head and reports the hops taken.
func (a *Arena) walk(head Handle, depth int) (Handle, *heap.Object, int, error) {
	obj, err := a.heap.Get(head)
	if err != nil {
		return Nil, nil, 0, corruptErr("head %s: %v", head, err)
	}
	cur, hops := head, 0
	for hops < depth && !obj.Next.IsNil() {
		next, err := a.heap.Get(obj.Next)
		if err != nil {
			return Nil, nil, hops, corruptErr("successor of %s: %v", cur, err)
		}
		cur, obj = obj.Next, next
		hops++
	}
	return cur, obj, hops, nil
}

// chainLen counts the objects from head to the tail, stopping at the first
// broken link. A chain cannot be longer than the live object count, which
// bounds the count should a cycle ever form.
func (a *Arena) chainLen(head Handle) int {
	n, limit := 0, a.heap.Outstanding()
	for hd := head; !hd.IsNil() && n < limit; n++ {
		obj, err := a.heap.Get(hd)
		if err != nil {
			break
		}
		hd = obj.Next
	}
	return n
}

// reclaimChain releases every object from hd to the tail, in chain order.
// The successor is read before its predecessor is released.
func (a *Arena) reclaimChain(hd Handle) (int, error) {
	n := 0
	for !hd.IsNil() {
		obj, err := a.heap.Get(hd)
		if err != nil {
			return n, corruptErr("reclaim %s: %v", hd, err)
		}
		next := obj.Next
		if err := a.heap.Release(hd); err != nil {
			return n, corruptErr("reclaim %s: %v", hd, err)
		}
		n++
		hd = next
	}
	return n, nil
}
