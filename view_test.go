package refcollect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daltonhensley19/refcollect"
)

func TestView_Trail(t *testing.T) {
	a := newArena(t)
	root, handles := buildChain(t, a, 3)
	require.NoError(t, a.MarkUnreachable(root, 1))

	trail, err := a.View().Trail(root)
	require.NoError(t, err)

	var depths []int
	var got []refcollect.Node
	for depth, n := range trail {
		depths = append(depths, depth)
		got = append(got, n)
	}

	assert.Equal(t, []int{0, 1, 2}, depths)
	require.Len(t, got, 3)
	for i, n := range got {
		assert.Equal(t, handles[i], n.Handle)
		assert.Equal(t, int32(i+1), n.Payload.Data1)
		assert.Equal(t, i == 1, n.Marked)
	}
	assert.Equal(t, handles[1], got[0].Next)
	assert.True(t, got[2].Next.IsNil())
}

func TestView_TrailStopsEarly(t *testing.T) {
	a := newArena(t)
	root, _ := buildChain(t, a, 5)

	trail, err := a.View().Trail(root)
	require.NoError(t, err)

	n := 0
	for depth := range trail {
		n++
		if depth == 1 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestView_TrailEmptyRoot(t *testing.T) {
	a := newArena(t)
	root, _ := buildChain(t, a, 2)
	require.NoError(t, a.MarkUnreachable(root, 0))
	_, err := a.Sweep()
	require.NoError(t, err)

	trail, err := a.View().Trail(root)
	require.NoError(t, err)
	for range trail {
		t.Fatal("empty root yielded a node")
	}

	_, err = a.View().Trail(root + 1)
	assert.ErrorIs(t, err, refcollect.ErrInvalidRoot)
}

func TestView_Node(t *testing.T) {
	a := newArena(t)
	_, handles := buildChain(t, a, 1)

	n, err := a.View().Node(handles[0])
	require.NoError(t, err)
	assert.Equal(t, refcollect.Payload{Data1: 1, Data2: 0.1}, n.Payload)

	_, err = a.View().Node(refcollect.Nil)
	assert.ErrorIs(t, err, refcollect.ErrNilHandle)
}

func TestView_ObservesChanges(t *testing.T) {
	a := newArena(t)
	v := a.View()
	assert.Zero(t, v.Len())

	root, _ := buildChain(t, a, 2)
	assert.Equal(t, 1, v.Len())

	n, err := v.ChainLen(root)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestView_Check(t *testing.T) {
	a := newArena(t)
	for range 4 {
		buildChain(t, a, 3)
	}
	_, err := a.Allocate()
	require.NoError(t, err)

	assert.NoError(t, a.View().Check())
	// repeated checks start from a clean visited set
	assert.NoError(t, a.View().Check())
}
