// Package aead selects and wraps the authenticated cipher used by the
// AONT codec: AES-256-GCM when the CPU offers hardware AES acceleration,
// falling back to ChaCha20-Poly1305 in software otherwise. Both are
// 256-bit-key AEADs with a 96-bit nonce and a 16-byte tag, so callers can
// treat the two interchangeably.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/sys/cpu"
)

const (
	// KeySize is the AEAD key length in bytes (256 bits).
	KeySize = 32
	// NonceSize is the AEAD nonce length in bytes (96 bits).
	NonceSize = 12
	// TagSize is the AEAD authentication tag length in bytes.
	TagSize = 16
)

// Algorithm identifies which concrete cipher a Cipher wraps.
type Algorithm string

const (
	AES256GCM        Algorithm = "aes-256-gcm"
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// HasAESNI reports whether the running CPU has hardware AES instructions,
// making AES-GCM the cheaper choice over ChaCha20-Poly1305.
func HasAESNI() bool {
	return cpu.X86.HasAES || cpu.ARM64.HasAES
}

// SelectOptimal returns the algorithm this platform should use.
func SelectOptimal() Algorithm {
	if HasAESNI() {
		return AES256GCM
	}
	return ChaCha20Poly1305
}

// Cipher is a keyed AEAD instance ready to seal/open.
type Cipher struct {
	Algorithm Algorithm
	aead      cipher.AEAD
}

// New builds a Cipher for the given 32-byte key using the platform's
// optimal algorithm.
func New(key []byte) (*Cipher, error) {
	return NewWithAlgorithm(SelectOptimal(), key)
}

// NewWithAlgorithm builds a Cipher for a specific algorithm, mainly for
// tests that need to exercise both code paths regardless of host CPU
// features.
func NewWithAlgorithm(alg Algorithm, key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aead: key must be %d bytes, got %d", KeySize, len(key))
	}
	var a cipher.AEAD
	switch alg {
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("aead: %w", err)
		}
		a, err = cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("aead: %w", err)
		}
	case ChaCha20Poly1305:
		var err error
		a, err = chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("aead: %w", err)
		}
	default:
		return nil, fmt.Errorf("aead: unknown algorithm %q", alg)
	}
	return &Cipher{Algorithm: alg, aead: a}, nil
}

// RandomKey draws a fresh 32-byte key from the OS CSPRNG.
func RandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("aead: reading random key: %w", err)
	}
	return key, nil
}

// RandomNonce draws a fresh 12-byte nonce from the OS CSPRNG.
func RandomNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("aead: reading random nonce: %w", err)
	}
	return nonce, nil
}

// Seal encrypts plaintext under nonce, returning ciphertext and tag as
// separate slices (the stdlib and x/crypto AEADs both append the tag to
// the ciphertext; this splits it back out because the AONT blob layout
// keeps them as distinct fields).
func (c *Cipher) Seal(nonce, plaintext []byte) (ciphertext, tag []byte) {
	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	n := len(sealed) - c.aead.Overhead()
	return sealed[:n], sealed[n:]
}

// Open verifies tag and decrypts ciphertext under nonce.
func (c *Cipher) Open(nonce, ciphertext, tag []byte) ([]byte, error) {
	sealed := append(append([]byte{}, ciphertext...), tag...)
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("aead: authentication failed: %w", err)
	}
	return plaintext, nil
}
