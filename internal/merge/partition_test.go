package merge

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_UnionFind(t *testing.T) {
	p := newPartition(5)

	merged, err := p.union(0, 1)
	require.NoError(t, err)
	assert.True(t, merged)

	merged, err = p.union(1, 0)
	require.NoError(t, err)
	assert.False(t, merged, "already in one group")

	_, err = p.union(3, 4)
	require.NoError(t, err)

	assert.Equal(t, p.find(0), p.find(1))
	assert.Equal(t, p.find(3), p.find(4))
	assert.NotEqual(t, p.find(0), p.find(3))
	assert.NotEqual(t, p.find(0), p.find(2))
}

func TestPartition_Transitivity(t *testing.T) {
	p := newPartition(4)
	_, err := p.union(0, 1)
	require.NoError(t, err)
	_, err = p.union(1, 2)
	require.NoError(t, err)

	assert.Equal(t, p.find(0), p.find(2))
	assert.NotEqual(t, p.find(0), p.find(3))
}

func TestPartition_GroupsDeterministic(t *testing.T) {
	p := newPartition(6)
	_, err := p.union(4, 1)
	require.NoError(t, err)
	_, err = p.union(5, 2)
	require.NoError(t, err)
	p.freeze()

	groups := p.groups(func(i int32) bool { return i != 3 })
	// Ordered by smallest member; member lists ascending.
	require.Len(t, groups, 3)
	assert.Equal(t, []int32{0}, groups[0])
	assert.Equal(t, []int32{1, 4}, groups[1])
	assert.Equal(t, []int32{2, 5}, groups[2])
}

func TestPartition_UnionAfterFreeze(t *testing.T) {
	p := newPartition(2)
	p.freeze()
	_, err := p.union(0, 1)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrPartitionInvariant))
}
