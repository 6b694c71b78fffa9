// Package stripe composes the AONT and RS codecs into the per-stripe
// pipeline: pad the plaintext window to S, AONT-encode it, frame the
// result with an in-band length prefix and pad to a multiple of N, then
// RS-encode into N+M shards. Reading reverses each step.
package stripe

import (
	"encoding/binary"
	"fmt"

	"github.com/ironclad-vids/ironclad/pkg/aont"
	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/ironclad-vids/ironclad/pkg/rs"
)

const lengthPrefixSize = 8

// Codec holds one dataset's fixed stripe parameters and the RS codec
// derived from them.
type Codec struct {
	StripeSize uint32 // S
	rs         *rs.Codec
}

// New builds a stripe codec for the given data/parity shard counts and
// stripe size.
func New(dataShards, parityShards int, stripeSize uint32) (*Codec, error) {
	rsCodec, err := rs.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}
	return &Codec{StripeSize: stripeSize, rs: rsCodec}, nil
}

// N returns the number of data shards.
func (c *Codec) N() int { return c.rs.N }

// M returns the number of parity shards.
func (c *Codec) M() int { return c.rs.M }

// Encode pads plaintext to S (it must already be <= S), runs the AONT
// transform, frames and pads the blob to a multiple of N, and RS-encodes
// it into N+M shard payloads in canonical order (data shards first).
func (c *Codec) Encode(plaintext []byte) ([][]byte, error) {
	if len(plaintext) > int(c.StripeSize) {
		return nil, fmt.Errorf("%w: plaintext window %d exceeds stripe size %d", ironerr.ErrInvalidArgument, len(plaintext), c.StripeSize)
	}
	padded := make([]byte, c.StripeSize)
	copy(padded, plaintext)

	blob, err := aont.Encode(padded)
	if err != nil {
		return nil, err
	}

	framed := frameAndPad(blob, c.rs.N)

	return c.rs.Encode(framed)
}

// Decode takes up to N+M shard payloads (nil entries mean erased) and
// reconstructs the stripe's plaintext, truncated to plaintextLen (the
// true, unpadded length of this stripe per the manifest).
func (c *Codec) Decode(shardPayloads [][]byte, plaintextLen int, stripeIndex uint64) ([]byte, error) {
	framed, err := c.rs.Decode(shardPayloads)
	if err != nil {
		var insufficient *rs.InsufficientShardsError
		if isInsufficientShards(err, &insufficient) {
			return nil, fmt.Errorf("%w", &ironerr.InsufficientShards{
				Stripe:  stripeIndex,
				Present: insufficient.Present,
				Needed:  insufficient.Needed,
			})
		}
		return nil, err
	}

	blob, err := unframe(framed)
	if err != nil {
		return nil, err
	}

	padded, err := aont.Decode(blob, int(c.StripeSize))
	if err != nil {
		return nil, fmt.Errorf("%w", &ironerr.AontIntegrity{Stripe: stripeIndex})
	}

	if plaintextLen > len(padded) {
		return nil, fmt.Errorf("%w: requested plaintext length %d exceeds stripe size %d", ironerr.ErrInvalidArgument, plaintextLen, len(padded))
	}
	return padded[:plaintextLen], nil
}

func isInsufficientShards(err error, target **rs.InsufficientShardsError) bool {
	ins, ok := err.(*rs.InsufficientShardsError)
	if ok {
		*target = ins
	}
	return ok
}

// frameAndPad prepends an 8-byte little-endian length prefix to blob and
// zero-pads the result to a multiple of n.
func frameAndPad(blob []byte, n int) []byte {
	framed := make([]byte, lengthPrefixSize+len(blob))
	binary.LittleEndian.PutUint64(framed[:lengthPrefixSize], uint64(len(blob)))
	copy(framed[lengthPrefixSize:], blob)

	if rem := len(framed) % n; rem != 0 {
		framed = append(framed, make([]byte, n-rem)...)
	}
	return framed
}

// unframe reads the length prefix back out and returns exactly the
// original blob bytes, discarding the padding.
func unframe(framed []byte) ([]byte, error) {
	if len(framed) < lengthPrefixSize {
		return nil, fmt.Errorf("%w: framed blob shorter than length prefix", ironerr.ErrManifestMalformed)
	}
	blobLen := binary.LittleEndian.Uint64(framed[:lengthPrefixSize])
	end := lengthPrefixSize + blobLen
	if end > uint64(len(framed)) {
		return nil, fmt.Errorf("%w: length prefix %d exceeds framed size %d", ironerr.ErrManifestMalformed, blobLen, len(framed)-lengthPrefixSize)
	}
	return framed[lengthPrefixSize:end], nil
}
