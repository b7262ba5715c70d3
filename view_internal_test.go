package refcollect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_DetectsCorruption(t *testing.T) {
	newChain := func(t *testing.T) (*Arena, []Handle) {
		a, err := New(WithInitialRoots(1))
		require.NoError(t, err)
		t.Cleanup(func() { a.Leak(); _ = a.Close() })

		hds := []Handle{a.roots[0]}
		for range 2 {
			hd, err := a.Allocate()
			require.NoError(t, err)
			require.NoError(t, a.Append(0, hd))
			hds = append(hds, hd)
		}
		return a, hds
	}

	t.Run("cycle", func(t *testing.T) {
		a, hds := newChain(t)
		tail, err := a.heap.Get(hds[2])
		require.NoError(t, err)
		tail.Next = hds[0]

		assert.ErrorIs(t, a.View().Check(), ErrCorrupt)
	})

	t.Run("shared suffix", func(t *testing.T) {
		a, hds := newChain(t)
		a.roots = append(a.roots, hds[1])

		assert.ErrorIs(t, a.View().Check(), ErrCorrupt)
	})

	t.Run("dangling link", func(t *testing.T) {
		a, hds := newChain(t)
		mid, err := a.heap.Get(hds[1])
		require.NoError(t, err)
		require.NoError(t, a.heap.Release(hds[2]))
		require.Equal(t, hds[2], mid.Next)

		assert.ErrorIs(t, a.View().Check(), ErrCorrupt)
	})

	t.Run("unowned member", func(t *testing.T) {
		a, hds := newChain(t)
		obj, err := a.heap.Get(hds[2])
		require.NoError(t, err)
		obj.Attached = false

		assert.ErrorIs(t, a.View().Check(), ErrCorrupt)
	})

	t.Run("foreign owner", func(t *testing.T) {
		a, hds := newChain(t)
		obj, err := a.heap.Get(hds[1])
		require.NoError(t, err)
		obj.Owner = a.id + 1

		assert.ErrorIs(t, a.View().Check(), ErrCorrupt)
	})
}

func TestSweep_ReportsCorruptChain(t *testing.T) {
	a, err := New(WithInitialRoots(1))
	require.NoError(t, err)
	defer func() { a.Leak(); _ = a.Close() }()

	hd, err := a.Allocate()
	require.NoError(t, err)
	require.NoError(t, a.Append(0, hd))

	head, err := a.heap.Get(a.roots[0])
	require.NoError(t, err)
	require.NoError(t, a.heap.Release(hd))
	require.Equal(t, hd, head.Next)

	_, err = a.Sweep()
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrContractViolation)
}
