package stripe

import (
	"bytes"
	"testing"

	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := New(4, 4, 256)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte{0xAA}, 200)
	shards, err := c.Encode(plaintext)
	require.NoError(t, err)
	require.Len(t, shards, 8)

	got, err := c.Decode(toInterface(shards), len(plaintext), 0)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecodeToleratesMErasures(t *testing.T) {
	c, err := New(4, 4, 256)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte("hello world"), 10)[:100]
	shards, err := c.Encode(plaintext)
	require.NoError(t, err)

	present := toInterface(shards)
	for _, idx := range []int{0, 2, 4, 6} {
		present[idx] = nil
	}

	got, err := c.Decode(present, len(plaintext), 3)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecodeFailsWithFewerThanN(t *testing.T) {
	c, err := New(4, 4, 256)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte{0x01}, 50)
	shards, err := c.Encode(plaintext)
	require.NoError(t, err)

	present := toInterface(shards)
	for _, idx := range []int{0, 1, 2, 3, 4} {
		present[idx] = nil
	}

	_, err = c.Decode(present, len(plaintext), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrInsufficientShard)
}

func TestEncodeRejectsOversizedPlaintext(t *testing.T) {
	c, err := New(4, 4, 16)
	require.NoError(t, err)

	_, err = c.Encode(make([]byte, 17))
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrInvalidArgument)
}

func toInterface(shards [][]byte) [][]byte {
	out := make([][]byte, len(shards))
	copy(out, shards)
	return out
}
