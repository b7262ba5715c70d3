package heap

import (
	"math/rand/v2"
	"time"
)

// Payload is the opaque data carried by every managed object.
// It is set once at allocation and never mutated.
type Payload struct {
	Data1 int32   `json:"data1"`
	Data2 float32 `json:"data2"`
}

// PayloadProvider supplies the payload for newly allocated objects.
type PayloadProvider interface {
	NextPayload() Payload
}

// PayloadFunc adapts a function to PayloadProvider.
type PayloadFunc func() Payload

// NextPayload implements PayloadProvider.
func (f PayloadFunc) NextPayload() Payload { return f() }

// RandomPayloads draws Data1 from [0, 100) and Data2 from [0.0, 100.0).
type RandomPayloads struct {
	rng *rand.Rand
}

// NewRandomPayloads creates a RandomPayloads seeded with seed.
func NewRandomPayloads(seed uint64) *RandomPayloads {
	return &RandomPayloads{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NextPayload implements PayloadProvider.
func (r *RandomPayloads) NextPayload() Payload {
	return Payload{
		Data1: r.rng.Int32N(100),
		Data2: r.rng.Float32() * 100,
	}
}

func defaultPayloads() PayloadProvider {
	return NewRandomPayloads(uint64(time.Now().UnixNano())) //nolint:gosec // seed only
}
