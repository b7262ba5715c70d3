// Package bitset provides a reusable visited-set keyed by slot index.
//
// FastBitSet keeps a dirty list of the bits it has set so Reset costs O(K)
// in the number of set bits rather than O(capacity). The arena uses it while
// verifying chain invariants: every object must be seen at most once across
// all roots.
package bitset
