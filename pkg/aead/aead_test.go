package aead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTripBothAlgorithms(t *testing.T) {
	for _, alg := range []Algorithm{AES256GCM, ChaCha20Poly1305} {
		key, err := RandomKey()
		require.NoError(t, err)
		nonce, err := RandomNonce()
		require.NoError(t, err)

		c, err := NewWithAlgorithm(alg, key)
		require.NoError(t, err)

		plaintext := []byte("the quick brown fox jumps over the lazy dog")
		ciphertext, tag := c.Seal(nonce, plaintext)
		require.Len(t, tag, TagSize)
		require.NotEqual(t, plaintext, ciphertext)

		got, err := c.Open(nonce, ciphertext, tag)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestOpenFailsOnTamperedCiphertext(t *testing.T) {
	key, _ := RandomKey()
	nonce, _ := RandomNonce()
	c, err := NewWithAlgorithm(AES256GCM, key)
	require.NoError(t, err)

	ciphertext, tag := c.Seal(nonce, []byte("secret payload"))
	ciphertext[0] ^= 0xFF

	_, err = c.Open(nonce, ciphertext, tag)
	assert.Error(t, err)
}

func TestOpenFailsOnTamperedTag(t *testing.T) {
	key, _ := RandomKey()
	nonce, _ := RandomNonce()
	c, err := NewWithAlgorithm(ChaCha20Poly1305, key)
	require.NoError(t, err)

	ciphertext, tag := c.Seal(nonce, []byte("secret payload"))
	tag[0] ^= 0xFF

	_, err = c.Open(nonce, ciphertext, tag)
	assert.Error(t, err)
}

func TestNewRejectsBadKeySize(t *testing.T) {
	_, err := NewWithAlgorithm(AES256GCM, make([]byte, 10))
	assert.Error(t, err)
}

func TestSelectOptimalIsAESOrChaCha(t *testing.T) {
	alg := SelectOptimal()
	assert.Contains(t, []Algorithm{AES256GCM, ChaCha20Poly1305}, alg)
}
