// Package conv provides checked integer conversions.
//
// Slot indices are stored as uint32 inside handles while the public API
// speaks int. Every crossing between the two goes through this package so an
// overflow surfaces as an error instead of a silently wrapped index.
package conv
