package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New(3)
	require.NotNil(t, g)
	assert.Equal(t, 3, g.Len())
	assert.Empty(t, g.Successors(0))
	assert.Nil(t, g.Successors(7))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New(2)
		require.NoError(t, g.AddEdge(0, 1))
		require.NoError(t, g.AddEdge(0, 1)) // idempotent
		require.NoError(t, g.AddEdge(1, 1))
		assert.Equal(t, []int{1}, g.Successors(0))
		assert.Equal(t, []int{1}, g.Successors(1))
	})

	t.Run("error cases", func(t *testing.T) {
		g := New(2)
		assert.Error(t, g.AddEdge(-1, 0))
		assert.Error(t, g.AddEdge(0, 2))
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := New(4)
		require.NoError(t, g.AddEdge(0, 1))
		require.NoError(t, g.AddEdge(0, 2))
		require.NoError(t, g.AddEdge(1, 3))
		require.NoError(t, g.AddEdge(2, 3))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("cycle", func(t *testing.T) {
		g := New(3)
		require.NoError(t, g.AddEdge(0, 1))
		require.NoError(t, g.AddEdge(1, 2))
		require.NoError(t, g.AddEdge(2, 0))
		err := g.DetectCycles()
		var cycleErr *CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Contains(t, []int{0, 1, 2}, cycleErr.Node)
	})

	t.Run("self edge", func(t *testing.T) {
		g := New(1)
		require.NoError(t, g.AddEdge(0, 0))
		assert.Error(t, g.DetectCycles())
	})
}

func TestPostOrder(t *testing.T) {
	g := New(4)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 2))
	require.NoError(t, g.AddEdge(0, 3))

	order := g.PostOrder()
	require.Len(t, order, 4)
	pos := make(map[int]int)
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos[2], pos[1])
	assert.Less(t, pos[1], pos[0])
	assert.Less(t, pos[3], pos[0])
}

func TestComponents(t *testing.T) {
	// 0 -> 1 <-> 2 -> 3, 3 -> 3
	g := New(4)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 2))
	require.NoError(t, g.AddEdge(2, 1))
	require.NoError(t, g.AddEdge(2, 3))
	require.NoError(t, g.AddEdge(3, 3))

	comps := g.Components()
	assert.Equal(t, [][]int{{3}, {1, 2}, {0}}, comps)
	assert.True(t, g.Cyclic(comps[0]))
	assert.True(t, g.Cyclic(comps[1]))
	assert.False(t, g.Cyclic(comps[2]))
}
