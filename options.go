package refcollect

import (
	"log/slog"

	"github.com/Daltonhensley19/refcollect/internal/heap"
	"github.com/Daltonhensley19/refcollect/internal/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	payloads         PayloadProvider
	memoryLimit      int64
	initialRoots     int
	leak             bool
	heap             *Heap
}

// Option configures an Arena or a Heap.
type Option func(*options)

// WithLogger configures structured logging for arena operations.
// Pass nil to disable logging.
//
//	logger := refcollect.NewJSONLogger(slog.LevelDebug)
//	a, _ := refcollect.New(refcollect.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithPayloadProvider sets the source of payload values for new objects.
// The default draws random values.
func WithPayloadProvider(p PayloadProvider) Option {
	return func(o *options) {
		o.payloads = p
	}
}

// WithMemoryLimit caps the bytes the allocator may hand out.
// Allocations beyond the limit fail with ErrOutOfMemory. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithInitialRoots creates n single-object roots at construction.
func WithInitialRoots(n int) Option {
	return func(o *options) {
		o.initialRoots = n
	}
}

// WithLeak creates the arena in leak mode: Close abandons all objects.
func WithLeak() Option {
	return func(o *options) {
		o.leak = true
	}
}

// WithHeap makes the arena allocate from h instead of a private heap.
// WithPayloadProvider and WithMemoryLimit are ignored when h is set; they
// belong to the heap's own construction via NewHeap.
func WithHeap(h *Heap) Option {
	return func(o *options) {
		o.heap = h
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// NewHeap creates an allocator configured by the payload, memory limit and
// logger options. Share it between arenas with WithHeap, or keep it to check
// for outstanding objects after an arena is closed.
func NewHeap(optFns ...Option) *Heap {
	return newHeap(applyOptions(optFns))
}

func newHeap(o options) *Heap {
	opts := []heap.Option{
		heap.WithLogger(o.logger.Logger),
		heap.WithPayloadProvider(o.payloads),
		heap.WithInitialCapacity(o.initialRoots),
	}
	if o.memoryLimit > 0 {
		opts = append(opts, heap.WithController(resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimit,
		})))
	}
	return heap.New(opts...)
}
