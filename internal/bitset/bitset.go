package bitset

// FastBitSet is a non-thread-safe bitset optimized for reuse.
// It uses a dirty list to allow O(K) reset where K is the number of set bits.
type FastBitSet struct {
	bits  []uint64
	dirty []uint32
}

// NewFast creates a new FastBitSet sized for capacity slots.
func NewFast(capacity int) *FastBitSet {
	if capacity < 0 {
		capacity = 0
	}
	return &FastBitSet{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]uint32, 0, 64),
	}
}

// TestAndSet sets the bit and returns true if it was already set.
func (b *FastBitSet) TestAndSet(id uint32) bool {
	wordIdx := int(id >> 6)
	bitMask := uint64(1) << (id & 63)

	if wordIdx >= len(b.bits) {
		b.grow(wordIdx + 1)
	}

	if b.bits[wordIdx]&bitMask != 0 {
		return true
	}

	b.bits[wordIdx] |= bitMask
	b.dirty = append(b.dirty, id)
	return false
}

// Reset clears all set bits.
func (b *FastBitSet) Reset() {
	for _, id := range b.dirty {
		b.bits[id>>6] &^= uint64(1) << (id & 63)
	}
	b.dirty = b.dirty[:0]
}

func (b *FastBitSet) grow(newLen int) {
	newCap := len(b.bits) * 2
	if newCap < newLen {
		newCap = newLen
	}

	newBits := make([]uint64, newCap)
	copy(newBits, b.bits)
	b.bits = newBits
}
