// Package testutil provides testing utilities for refcollect.
//
// This package is intended for use in tests, benchmarks and examples only.
// It provides a deterministic RNG and payload providers so that chains built
// in tests carry reproducible values.
//
// # Deterministic Payloads
//
//	rng := testutil.NewRNG(4711)
//	a, _ := refcollect.New(refcollect.WithPayloadProvider(rng))
//
// # Sequential Payloads
//
//	seq := testutil.NewSequence()
//	a, _ := refcollect.New(refcollect.WithPayloadProvider(seq))
//	// objects receive Data1 = 1, 2, 3, ...
package testutil
