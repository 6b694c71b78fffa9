// Package manifest implements the fixed-layout per-dataset manifest file:
// the shard parameters, plaintext length, and stripe count needed to
// drive reconstruction and edits.
package manifest

import (
	"encoding/binary"
	"fmt"

	"github.com/ironclad-vids/ironclad/pkg/ironerr"
)

const (
	Magic      = "IRMF"
	Version    = 1
	HeaderSize = 4 + 1 + 2 + 2 + 4 + 8 + 8 // 29
)

// Manifest holds the parameters of one dataset.
type Manifest struct {
	Version      uint8
	DataShards   uint16 // N
	ParityShards uint16 // M
	StripeSize   uint32 // S
	PlaintextLen uint64
	NumStripes   uint64
}

// New builds a manifest for a plaintext of length plaintextLen with the
// given shard counts and stripe size, computing NumStripes.
func New(dataShards, parityShards uint16, stripeSize uint32, plaintextLen uint64) (*Manifest, error) {
	if dataShards < 1 {
		return nil, fmt.Errorf("%w: data_shards must be >= 1", ironerr.ErrInvalidArgument)
	}
	if parityShards < 1 {
		return nil, fmt.Errorf("%w: parity_shards must be >= 1", ironerr.ErrInvalidArgument)
	}
	if int(dataShards)+int(parityShards) > 255 {
		return nil, fmt.Errorf("%w: data_shards+parity_shards must be <= 255", ironerr.ErrInvalidArgument)
	}
	if stripeSize == 0 {
		return nil, fmt.Errorf("%w: stripe_size must be > 0", ironerr.ErrInvalidArgument)
	}

	m := &Manifest{
		Version:      Version,
		DataShards:   dataShards,
		ParityShards: parityShards,
		StripeSize:   stripeSize,
		PlaintextLen: plaintextLen,
	}
	m.NumStripes = numStripes(plaintextLen, stripeSize)
	return m, nil
}

func numStripes(plaintextLen uint64, stripeSize uint32) uint64 {
	if plaintextLen == 0 {
		return 1
	}
	s := uint64(stripeSize)
	return (plaintextLen + s - 1) / s
}

// SetPlaintextLen updates PlaintextLen and recomputes NumStripes, used by
// the edit engine after a splice.
func (m *Manifest) SetPlaintextLen(plaintextLen uint64) {
	m.PlaintextLen = plaintextLen
	m.NumStripes = numStripes(plaintextLen, m.StripeSize)
}

// FinalStripeLen returns the true (unpadded) byte length of the last
// stripe, derived from PlaintextLen and StripeSize.
func (m *Manifest) FinalStripeLen() uint32 {
	if m.PlaintextLen == 0 {
		return 0
	}
	rem := m.PlaintextLen % uint64(m.StripeSize)
	if rem == 0 {
		return m.StripeSize
	}
	return uint32(rem)
}

// Encode serializes the manifest to its fixed byte layout.
func (m *Manifest) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic)
	buf[4] = m.Version
	binary.LittleEndian.PutUint16(buf[5:7], m.DataShards)
	binary.LittleEndian.PutUint16(buf[7:9], m.ParityShards)
	binary.LittleEndian.PutUint32(buf[9:13], m.StripeSize)
	binary.LittleEndian.PutUint64(buf[13:21], m.PlaintextLen)
	binary.LittleEndian.PutUint64(buf[21:29], m.NumStripes)
	return buf
}

// Decode parses a manifest from raw bytes, validating its invariants.
func Decode(raw []byte) (*Manifest, error) {
	if len(raw) < HeaderSize {
		return nil, fmt.Errorf("%w: manifest shorter than header (%d bytes)", ironerr.ErrManifestMalformed, len(raw))
	}
	if string(raw[0:4]) != Magic {
		return nil, fmt.Errorf("%w: bad magic", ironerr.ErrManifestMalformed)
	}

	m := &Manifest{
		Version:      raw[4],
		DataShards:   binary.LittleEndian.Uint16(raw[5:7]),
		ParityShards: binary.LittleEndian.Uint16(raw[7:9]),
		StripeSize:   binary.LittleEndian.Uint32(raw[9:13]),
		PlaintextLen: binary.LittleEndian.Uint64(raw[13:21]),
		NumStripes:   binary.LittleEndian.Uint64(raw[21:29]),
	}

	if m.DataShards < 1 || m.ParityShards < 1 {
		return nil, fmt.Errorf("%w: data_shards and parity_shards must each be >= 1", ironerr.ErrManifestMalformed)
	}
	if int(m.DataShards)+int(m.ParityShards) > 255 {
		return nil, fmt.Errorf("%w: data_shards+parity_shards exceeds 255", ironerr.ErrManifestMalformed)
	}
	if m.StripeSize == 0 {
		return nil, fmt.Errorf("%w: stripe_size must be > 0", ironerr.ErrManifestMalformed)
	}
	if want := numStripes(m.PlaintextLen, m.StripeSize); want != m.NumStripes {
		return nil, fmt.Errorf("%w: num_stripes %d inconsistent with plaintext_len %d and stripe_size %d", ironerr.ErrManifestMalformed, m.NumStripes, m.PlaintextLen, m.StripeSize)
	}

	return m, nil
}
