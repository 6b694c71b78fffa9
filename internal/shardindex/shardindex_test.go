package shardindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	idx, err := Open(t.TempDir(), "dataset1")
	require.NoError(t, err)
	defer idx.Close()

	entry := Entry{Present: true, Size: 128}
	entry.Hash[0] = 0xAB

	require.NoError(t, idx.Put(3, 5, entry))

	got, found, err := idx.Get(3, 5)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entry, got)
}

func TestGetMissReturnsFalse(t *testing.T) {
	idx, err := Open(t.TempDir(), "dataset1")
	require.NoError(t, err)
	defer idx.Close()

	_, found, err := idx.Get(0, 0)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteStripeRemovesAllShards(t *testing.T) {
	idx, err := Open(t.TempDir(), "dataset1")
	require.NoError(t, err)
	defer idx.Close()

	for j := 0; j < 4; j++ {
		require.NoError(t, idx.Put(2, uint16(j), Entry{Present: true}))
	}

	require.NoError(t, idx.DeleteStripe(2, 4))

	for j := 0; j < 4; j++ {
		_, found, err := idx.Get(2, uint16(j))
		require.NoError(t, err)
		assert.False(t, found)
	}
}
