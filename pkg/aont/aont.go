// Package aont implements the all-or-nothing transform layered on an
// AEAD: a fresh random key encrypts the stripe, and that key is then
// entangled with a hash of the ciphertext and tag so that recovering it
// requires the entire blob to be present.
package aont

import (
	"fmt"

	"github.com/ironclad-vids/ironclad/pkg/aead"
	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/zeebo/blake3"
)

// Blob layout, in order: Ciphertext | Tag | EntangledKey | Nonce, where
// EntangledKey is RandomKey XOR H(Ciphertext || Tag). The nonce trails
// the entangled key rather than leading the blob: a fresh random key
// makes nonce reuse across stripes harmless, so its only job is telling
// the decryptor what nonce sealed this stripe.
const (
	entangledKeySize = aead.KeySize
)

// Encode runs the AONT forward direction on one stripe's plaintext,
// returning the blob Ciphertext||Tag||EntangledKey||Nonce.
func Encode(plaintext []byte) ([]byte, error) {
	key, err := aead.RandomKey()
	if err != nil {
		return nil, err
	}
	nonce, err := aead.RandomNonce()
	if err != nil {
		return nil, err
	}

	c, err := aead.New(key)
	if err != nil {
		return nil, fmt.Errorf("aont: %w", err)
	}
	ciphertext, tag := c.Seal(nonce, plaintext)

	h := hashCiphertextAndTag(ciphertext, tag)
	entangledKey := make([]byte, entangledKeySize)
	for i := range entangledKey {
		entangledKey[i] = key[i] ^ h[i]
	}

	blob := make([]byte, 0, len(ciphertext)+len(tag)+len(entangledKey)+len(nonce))
	blob = append(blob, ciphertext...)
	blob = append(blob, tag...)
	blob = append(blob, entangledKey...)
	blob = append(blob, nonce...)
	return blob, nil
}

// Decode reverses Encode. plaintextLen is the length of the padded
// stripe (S bytes) so the ciphertext/entangled-key split can be located
// unambiguously within the blob.
func Decode(blob []byte, plaintextLen int) ([]byte, error) {
	want := plaintextLen + aead.TagSize + entangledKeySize + aead.NonceSize
	if len(blob) != want {
		return nil, fmt.Errorf("aont: blob has length %d, expected %d", len(blob), want)
	}

	off := 0
	ciphertext := blob[off : off+plaintextLen]
	off += plaintextLen
	tag := blob[off : off+aead.TagSize]
	off += aead.TagSize
	entangledKey := blob[off : off+entangledKeySize]
	off += entangledKeySize
	nonce := blob[off : off+aead.NonceSize]

	h := hashCiphertextAndTag(ciphertext, tag)
	key := make([]byte, entangledKeySize)
	for i := range key {
		key[i] = entangledKey[i] ^ h[i]
	}

	c, err := aead.New(key)
	if err != nil {
		return nil, fmt.Errorf("aont: %w", err)
	}
	plaintext, err := c.Open(nonce, ciphertext, tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ironerr.ErrAontIntegrity, err)
	}
	return plaintext, nil
}

// BlobLen returns the total AONT blob length for a stripe of the given
// plaintext length.
func BlobLen(plaintextLen int) int {
	return plaintextLen + aead.TagSize + entangledKeySize + aead.NonceSize
}

func hashCiphertextAndTag(ciphertext, tag []byte) [entangledKeySize]byte {
	h := blake3.New()
	h.Write(ciphertext)
	h.Write(tag)
	var out [entangledKeySize]byte
	copy(out[:], h.Sum(nil)[:entangledKeySize])
	return out
}
