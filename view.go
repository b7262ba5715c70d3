package refcollect

import (
	"iter"

	"github.com/Daltonhensley19/refcollect/internal/bitset"
)

// Node is a read-only copy of a managed object.
type Node struct {
	Handle  Handle
	Marked  bool
	Payload Payload
	Next    Handle
}

// View is a read-only window onto an arena, for display and debugging
// collaborators. It observes later changes to the arena but cannot make any.
type View struct {
	a *Arena
}

// View returns a read-only view of the arena.
func (a *Arena) View() View {
	return View{a: a}
}

// Len returns the number of roots, empty ones included.
func (v View) Len() int {
	return len(v.a.roots)
}

// Head returns the head of the root's chain, Nil if the root is empty.
func (v View) Head(root int) (Handle, error) {
	return v.a.rootAt("head", root)
}

// IsEmpty reports whether the root was collected.
func (v View) IsEmpty(root int) (bool, error) {
	head, err := v.a.rootAt("is empty", root)
	if err != nil {
		return false, err
	}
	return head.IsNil(), nil
}

// ChainLen returns the number of objects in the root's chain.
func (v View) ChainLen(root int) (int, error) {
	head, err := v.a.rootAt("chain length", root)
	if err != nil {
		return 0, err
	}
	return v.a.chainLen(head), nil
}

// Walk advances depth hops from the root's head and returns the object
// reached together with the hops actually taken. The walk stops early at the
// tail. An empty root yields (Nil, 0).
func (v View) Walk(root, depth int) (Handle, int, error) {
	const op = "walk"
	head, err := v.a.rootAt(op, root)
	if err != nil {
		return Nil, 0, err
	}
	if depth < 0 {
		return Nil, 0, contractErr(op, root, ErrInvalidDepth)
	}
	if head.IsNil() {
		return Nil, 0, nil
	}
	hd, _, hops, err := v.a.walk(head, depth)
	return hd, hops, err
}

// Node returns a copy of the live object behind hd.
func (v View) Node(hd Handle) (Node, error) {
	if err := v.a.checkOpen("node", -1); err != nil {
		return Node{}, err
	}
	obj, err := v.a.heap.Get(hd)
	if err != nil {
		return Node{}, contractErr("node", -1, err)
	}
	return Node{
		Handle:  hd,
		Marked:  obj.Marked,
		Payload: obj.Payload,
		Next:    obj.Next,
	}, nil
}

// Trail returns an iterator over the root's chain, yielding each object's
// depth and a copy of it. An empty root yields nothing.
func (v View) Trail(root int) (iter.Seq2[int, Node], error) {
	head, err := v.a.rootAt("trail", root)
	if err != nil {
		return nil, err
	}
	return func(yield func(int, Node) bool) {
		hd := head
		for depth := 0; !hd.IsNil(); depth++ {
			obj, err := v.a.heap.Get(hd)
			if err != nil {
				return
			}
			n := Node{Handle: hd, Marked: obj.Marked, Payload: obj.Payload, Next: obj.Next}
			if !yield(depth, n) {
				return
			}
			hd = obj.Next
		}
	}, nil
}

// Check verifies the chain invariants: every link resolves to a live object
// attached to this arena, no chain is cyclic, and no object is reachable twice
// across all roots. It returns an error wrapping ErrCorrupt on the first
// violation found.
func (v View) Check() error {
	if err := v.a.checkOpen("check", -1); err != nil {
		return err
	}
	if v.a.visited == nil {
		v.a.visited = bitset.NewFast(v.a.heap.Stats().Slots)
	}
	seen := v.a.visited
	defer seen.Reset()

	for root, head := range v.a.roots {
		for hd := head; !hd.IsNil(); {
			if seen.TestAndSet(hd.Slot()) {
				return corruptErr("root %d: object %s reachable twice", root, hd)
			}
			obj, err := v.a.heap.Get(hd)
			if err != nil {
				return corruptErr("root %d: %v", root, err)
			}
			if !obj.Attached || obj.Owner != v.a.id {
				return corruptErr("root %d: object %s has no owner", root, hd)
			}
			hd = obj.Next
		}
	}
	return nil
}
