package refcollect

import (
	"time"

	"github.com/Daltonhensley19/refcollect/internal/heap"
)

// Sweep reclaims marked objects.
//
// For each non-empty root, the first marked object found from the head
// decides the outcome: it and everything after it are released, and the
// last unmarked object becomes the new tail. A marked head empties the root.
// Chains without marks are left untouched. Marks further down an already
// reclaimed suffix do not matter.
func (a *Arena) Sweep() (stats SweepStats, err error) {
	if err := a.checkOpen("sweep", -1); err != nil {
		return SweepStats{}, err
	}

	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		a.reclaimed += stats.Reclaimed
		a.logger.LogSweep(stats, err)
		a.metrics.RecordSweep(stats, err)
	}()

	for i, head := range a.roots {
		if head.IsNil() {
			continue
		}
		obj, err := a.heap.Get(head)
		if err != nil {
			return stats, corruptErr("root %d head %s: %v", i, head, err)
		}

		if obj.Marked {
			a.roots[i] = Nil
			n, err := a.reclaimChain(head)
			stats.Reclaimed += n
			if err != nil {
				return stats, err
			}
			stats.RootsEmptied++
			continue
		}

		n, err := a.truncateAtMark(obj)
		stats.Reclaimed += n
		if err != nil {
			return stats, err
		}
		if n > 0 {
			stats.ChainsTruncated++
		}
	}

	return stats, nil
}

// truncateAtMark scans from an unmarked head; at the first marked successor
// it cuts the chain and releases the suffix. It returns the objects released.
func (a *Arena) truncateAtMark(prev *heap.Object) (int, error) {
	for !prev.Next.IsNil() {
		next, err := a.heap.Get(prev.Next)
		if err != nil {
			return 0, corruptErr("successor %s: %v", prev.Next, err)
		}
		if next.Marked {
			suffix := prev.Next
			prev.Next = Nil
			return a.reclaimChain(suffix)
		}
		prev = next
	}
	return 0, nil
}
