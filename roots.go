package refcollect

// AddRoot allocates a single-object chain and appends a root heading it.
// It returns the new root's index.
func (a *Arena) AddRoot() (int, error) {
	if err := a.checkOpen("add root", -1); err != nil {
		return -1, err
	}
	hd, obj, err := a.allocate()
	if err != nil {
		return -1, err
	}
	obj.Attached = true
	a.roots = append(a.roots, hd)
	return len(a.roots) - 1, nil
}

// AddRootWith appends a root heading the caller's object. The object must be
// live, unattached and not held by another arena sharing the heap; ownership
// moves to the arena.
func (a *Arena) AddRootWith(hd Handle) (int, error) {
	const op = "add root with"
	if err := a.checkOpen(op, -1); err != nil {
		return -1, err
	}
	obj, err := a.adoptable(op, -1, hd)
	if err != nil {
		a.logger.LogContractViolation(op, err)
		return -1, err
	}
	a.adopt(hd, obj)
	a.roots = append(a.roots, hd)
	return len(a.roots) - 1, nil
}

// AddRoots calls AddRoot n times and returns the new indices in insertion
// order. If an allocation fails midway, the roots already created stay and
// their indices are returned along with the error.
func (a *Arena) AddRoots(n int) ([]int, error) {
	if n < 0 {
		return nil, contractErr("add roots", -1, ErrInvalidCount)
	}
	indices := make([]int, 0, n)
	for range n {
		idx, err := a.AddRoot()
		if err != nil {
			return indices, err
		}
		indices = append(indices, idx)
	}
	return indices, nil
}
