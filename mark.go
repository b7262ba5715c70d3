package refcollect

// MarkUnreachable flags the object depth hops from the root's head for
// reclamation at the next Sweep. Depth 0 is the head.
//
// Only the addressed object is flagged. Marking the same position twice is
// harmless. If the chain is shorter than depth+1 the call fails with a
// *DepthError cause and nothing is marked.
func (a *Arena) MarkUnreachable(root, depth int) (err error) {
	const op = "mark"
	defer func() {
		a.metrics.RecordMark(err)
	}()

	head, err := a.headAt(op, root)
	if err == nil && depth < 0 {
		err = contractErr(op, root, ErrInvalidDepth)
	}
	if err != nil {
		a.logger.LogContractViolation(op, err)
		return err
	}

	_, obj, hops, err := a.walk(head, depth)
	if err != nil {
		return err
	}
	if hops != depth {
		err = contractErr(op, root, &DepthError{Depth: depth, Length: hops + 1})
		a.logger.LogContractViolation(op, err)
		return err
	}

	obj.Marked = true
	return nil
}
