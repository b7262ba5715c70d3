package refcollect

// Append links hd after the current tail of the root's chain.
//
// The root must not be empty and hd must be a live, unattached object that
// no other arena sharing the heap holds.
// Cost is linear in the chain length. On error nothing is changed.
func (a *Arena) Append(root int, hd Handle) error {
	const op = "append"
	head, err := a.headAt(op, root)
	if err != nil {
		a.logger.LogContractViolation(op, err)
		return err
	}
	obj, err := a.adoptable(op, root, hd)
	if err != nil {
		a.logger.LogContractViolation(op, err)
		return err
	}

	_, tail, _, err := a.walk(head, a.heap.Outstanding())
	if err != nil {
		return err
	}
	if !tail.Next.IsNil() {
		return corruptErr("root %d: chain longer than the live object count", root)
	}

	tail.Next = hd
	a.adopt(hd, obj)
	return nil
}

// Walk advances depth hops from the root's head and returns the object
// reached together with the hops actually taken. The walk stops early at the
// tail. An empty root yields (Nil, 0).
func (a *Arena) Walk(root, depth int) (Handle, int, error) {
	return a.View().Walk(root, depth)
}
