// Package shard implements the fixed on-disk shard header and the
// verify-or-erase logic that promotes a corrupted or malformed shard to
// a missing one before it ever reaches the RS decoder.
package shard

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/zeebo/blake3"
)

const (
	Magic       = "IRCS"
	Version     = 1
	HashSize    = 32
	HeaderSize  = 4 + 1 + 8 + 2 + 1 + 4 + HashSize // 52
	flagParity  = 1 << 0
)

// Header is the fixed-layout shard header, everything except the
// payload bytes.
type Header struct {
	Version     uint8
	StripeIndex uint64
	ShardIndex  uint16
	IsParity    bool
	PayloadLen  uint32
	Hash        [HashSize]byte
}

// Shard is a header plus its payload.
type Shard struct {
	Header  Header
	Payload []byte
}

// New builds a Shard from its plaintext payload, computing the header
// hash and length fields.
func New(stripeIndex uint64, shardIndex uint16, isParity bool, payload []byte) *Shard {
	return &Shard{
		Header: Header{
			Version:     Version,
			StripeIndex: stripeIndex,
			ShardIndex:  shardIndex,
			IsParity:    isParity,
			PayloadLen:  uint32(len(payload)),
			Hash:        blake3.Sum256(payload),
		},
		Payload: payload,
	}
}

// Encode serializes the shard (header + payload) to its fixed byte
// layout.
func (s *Shard) Encode() []byte {
	buf := make([]byte, HeaderSize+len(s.Payload))
	copy(buf[0:4], Magic)
	buf[4] = s.Header.Version
	binary.LittleEndian.PutUint64(buf[5:13], s.Header.StripeIndex)
	binary.LittleEndian.PutUint16(buf[13:15], s.Header.ShardIndex)
	var flags byte
	if s.Header.IsParity {
		flags |= flagParity
	}
	buf[15] = flags
	binary.LittleEndian.PutUint32(buf[16:20], s.Header.PayloadLen)
	copy(buf[20:52], s.Header.Hash[:])
	copy(buf[52:], s.Payload)
	return buf
}

// WriteTo writes the encoded shard to w.
func (s *Shard) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Encode())
	return int64(n), err
}

// Decode parses a full shard (header + payload) from raw bytes without
// verifying the hash; call Verify separately once decoded.
func Decode(raw []byte) (*Shard, error) {
	if len(raw) < HeaderSize {
		return nil, fmt.Errorf("%w: shard shorter than header (%d bytes)", ironerr.ErrShardCorrupt, len(raw))
	}
	if string(raw[0:4]) != Magic {
		return nil, fmt.Errorf("%w: bad magic", ironerr.ErrShardCorrupt)
	}
	h := Header{
		Version:     raw[4],
		StripeIndex: binary.LittleEndian.Uint64(raw[5:13]),
		ShardIndex:  binary.LittleEndian.Uint16(raw[13:15]),
		IsParity:    raw[15]&flagParity != 0,
		PayloadLen:  binary.LittleEndian.Uint32(raw[16:20]),
	}
	copy(h.Hash[:], raw[20:52])

	payload := raw[52:]
	if uint32(len(payload)) != h.PayloadLen {
		return nil, fmt.Errorf("%w: payload_len field says %d, got %d bytes", ironerr.ErrShardCorrupt, h.PayloadLen, len(payload))
	}

	return &Shard{Header: h, Payload: payload}, nil
}

// Verify recomputes the payload hash and compares it against the stored
// header hash. A mismatch (or a malformed shard from Decode) means the
// shard must be treated as an erasure by the RS layer, not repaired here.
func (s *Shard) Verify() error {
	got := blake3.Sum256(s.Payload)
	if got != s.Header.Hash {
		return fmt.Errorf("%w: hash mismatch at stripe %d shard %d", ironerr.ErrShardCorrupt, s.Header.StripeIndex, s.Header.ShardIndex)
	}
	return nil
}

// DecodeAndVerify combines Decode and Verify, returning an error wrapping
// ironerr.ErrShardCorrupt on any failure so callers can
// uniformly treat the shard index as erased.
func DecodeAndVerify(raw []byte) (*Shard, error) {
	s, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}
