// Package refcollect provides an in-process memory arena with mark-and-sweep
// reclamation over singly-linked chains.
//
// Every managed object has the same fixed layout: a mark bit, two payload
// scalars and at most one successor. Objects hang off an ordered set of root
// slots, so the object graph is a forest of simple paths. Roots are addressed
// by the zero-based index they received at insertion; indices are never
// reused and a collected root keeps its index.
//
// # Quick Start
//
//	a, err := refcollect.New(refcollect.WithInitialRoots(2))
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	obj, _ := a.Allocate()
//	_ = a.Append(0, obj)             // root 0: head -> obj
//	_ = a.MarkUnreachable(0, 1)      // flag obj
//	stats, _ := a.Sweep()            // obj reclaimed, head is the tail again
//
// # Sweep Semantics
//
// Within one chain only the first marked object counts: it and its whole
// suffix are reclaimed, and the object before it becomes the tail. A marked
// head empties the root. Chains without marks are untouched.
//
// # Errors
//
// Every precondition violation (bad root index, empty root, depth past the
// tail, reused or stale handle, use after Close) returns an error that
// satisfies errors.Is(err, ErrContractViolation) and leaves the arena
// unchanged. Allocation failures return ErrOutOfMemory. Use Must to turn
// either into a panic.
//
// # Lifecycle
//
// Close reclaims every outstanding object exactly once. Leak (or WithLeak)
// turns that off for processes that rely on exit to free memory. Run wraps
// New and Close around a function.
//
// # Read-only Access
//
// View exposes traversal (Walk, Trail, ChainLen, IsEmpty) and an invariant
// check for display and debugging code that must not mutate the arena. See
// package dump for the text and snapshot renderers built on it.
package refcollect
