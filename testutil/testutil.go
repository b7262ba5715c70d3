package testutil

import (
	"math/rand"
	"sync"

	"github.com/Daltonhensley19/refcollect/internal/heap"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// NextPayload implements heap.PayloadProvider with Data1 in [0,100) and
// Data2 in [0.0,100.0).
func (r *RNG) NextPayload() heap.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return heap.Payload{
		Data1: r.rand.Int31n(100),
		Data2: r.rand.Float32() * 100,
	}
}

// ChainLengths returns n random chain lengths in [1, maxLen].
func (r *RNG) ChainLengths(n, maxLen int) []int {
	lengths := make([]int, n)
	for i := range lengths {
		lengths[i] = 1 + r.Intn(maxLen)
	}
	return lengths
}

// Sequence hands out payloads with Data1 = 1, 2, 3, ... and Data2 = Data1 / 10.
// Useful to identify objects by payload in assertions.
type Sequence struct {
	mu   sync.Mutex
	next int32
}

// NewSequence creates a Sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NextPayload implements heap.PayloadProvider.
func (s *Sequence) NextPayload() heap.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return heap.Payload{Data1: s.next, Data2: float32(s.next) / 10}
}
