package rs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCodec(t *testing.T, n, m int) *Codec {
	t.Helper()
	c, err := New(n, m)
	require.NoError(t, err)
	return c
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := mustCodec(t, 4, 4)
	data := bytes.Repeat([]byte{0xAA}, 4*64)

	shards, err := c.Encode(data)
	require.NoError(t, err)
	require.Len(t, shards, 8)

	got, err := c.Decode(shards)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDecodeToleratesMErasures(t *testing.T) {
	c := mustCodec(t, 4, 4)
	data := []byte("this is thirty-two bytes of data")
	for len(data)%4 != 0 {
		data = append(data, 0)
	}

	shards, err := c.Encode(data)
	require.NoError(t, err)

	// Drop exactly M=4 shards, keep exactly N=4.
	dropped := []int{1, 3, 5, 7}
	present := make([][]byte, len(shards))
	copy(present, shards)
	for _, idx := range dropped {
		present[idx] = nil
	}

	got, err := c.Decode(present)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDecodeFailsBelowThreshold(t *testing.T) {
	c := mustCodec(t, 4, 4)
	data := bytes.Repeat([]byte{0x01}, 16)
	shards, err := c.Encode(data)
	require.NoError(t, err)

	present := make([][]byte, len(shards))
	copy(present, shards)
	// Only 3 present, need 4.
	present[0], present[1], present[2], present[3], present[4] = nil, nil, nil, nil, nil

	_, err = c.Decode(present)
	require.Error(t, err)
	var insufficient *InsufficientShardsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Present)
	assert.Equal(t, 4, insufficient.Needed)
}

func TestDecodeWithAllShardsPresentPrefersDataShards(t *testing.T) {
	c := mustCodec(t, 3, 3)
	data := bytes.Repeat([]byte{0x42}, 9)
	shards, err := c.Encode(data)
	require.NoError(t, err)

	// Garble one parity shard: with every data shard present the decoder
	// picks rows 0..N-1 only, so the garbled parity never enters the solve.
	shards[4] = bytes.Repeat([]byte{0xFF}, len(shards[4]))

	got, err := c.Decode(shards)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestParityShardsRegenerateConsistently(t *testing.T) {
	c := mustCodec(t, 2, 2)
	data := []byte("abcdefgh")
	shards, err := c.Encode(data)
	require.NoError(t, err)

	// Reconstruct using only the two parity shards, which is exactly N=2.
	present := make([][]byte, len(shards))
	present[2] = shards[2]
	present[3] = shards[3]

	got, err := c.Decode(present)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	_, err := New(0, 4)
	assert.Error(t, err)
	_, err = New(4, 0)
	assert.Error(t, err)
	_, err = New(200, 100)
	assert.Error(t, err)
}
