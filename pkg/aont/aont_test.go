package aont

import (
	"bytes"
	"testing"

	"github.com/ironclad-vids/ironclad/pkg/aead"
	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	plaintext := bytes.Repeat([]byte("stripe-plaintext"), 16)

	blob, err := Encode(plaintext)
	require.NoError(t, err)
	assert.Equal(t, BlobLen(len(plaintext)), len(blob))

	got, err := Decode(blob, len(plaintext))
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecodeFailsOnTamperedCiphertext(t *testing.T) {
	plaintext := bytes.Repeat([]byte{0x5A}, 64)
	blob, err := Encode(plaintext)
	require.NoError(t, err)

	blob[0] ^= 0xFF

	_, err = Decode(blob, len(plaintext))
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrAontIntegrity)
}

func TestDecodeFailsOnFlippedEntangledKeyByte(t *testing.T) {
	// Flipping one byte of the entangled key and attempting decode
	// without RS repair must fail integrity, not silently return a
	// plausible plaintext.
	plaintext := bytes.Repeat([]byte{0x11}, 32)
	blob, err := Encode(plaintext)
	require.NoError(t, err)

	entangledKeyStart := len(blob) - aead.NonceSize - aead.KeySize
	blob[entangledKeyStart] ^= 0x01

	_, err = Decode(blob, len(plaintext))
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrAontIntegrity)
}

func TestZeroLeakageUnderZeroedEntangledKeyByte(t *testing.T) {
	// The zero-leakage property literally zeroes a byte of the blob
	// (rather than flipping it) and attempts decode on the tampered
	// blob without RS repair: that must fail integrity, not silently
	// return a plausible plaintext.
	plaintext := bytes.Repeat([]byte{0x22}, 32)
	blob, err := Encode(plaintext)
	require.NoError(t, err)

	entangledKeyStart := len(blob) - aead.NonceSize - aead.KeySize
	blob[entangledKeyStart] = 0x00

	_, err = Decode(blob, len(plaintext))
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrAontIntegrity)
}

func TestEncodeProducesDistinctBlobsForSamePlaintext(t *testing.T) {
	plaintext := []byte("identical stripes should not produce identical blobs")
	b1, err := Encode(plaintext)
	require.NoError(t, err)
	b2, err := Encode(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, b1, b2)
}
