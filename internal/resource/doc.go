// Package resource governs the resources an arena is allowed to consume.
//
// The Controller tracks two things:
//
//   - Memory: a byte budget for managed objects (non-blocking, fail-fast)
//   - IO: a token bucket for diagnostic output such as heap snapshots
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage. AcquireMemory never blocks: it returns
// ErrMemoryLimitExceeded immediately when the budget is exhausted. There is
// no retry policy; the allocator surfaces the failure to its caller.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 20,
//	})
//
//	if err := rc.AcquireMemory(objectSize); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(objectSize)
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 1 << 20,
//	})
//	w := resource.NewRateLimitedWriter(ctx, file, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
