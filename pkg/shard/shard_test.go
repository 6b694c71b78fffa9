package shard

import (
	"testing"

	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := New(7, 3, true, []byte("shard payload bytes"))
	raw := s.Encode()
	assert.Equal(t, HeaderSize+len(s.Payload), len(raw))

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, s.Header, got.Header)
	assert.Equal(t, s.Payload, got.Payload)
	assert.NoError(t, got.Verify())
}

func TestHeaderFieldLayout(t *testing.T) {
	s := New(0x0102030405060708, 0x0A0B, false, []byte("x"))
	raw := s.Encode()

	assert.Equal(t, Magic, string(raw[0:4]))
	assert.Equal(t, byte(Version), raw[4])
	assert.Equal(t, byte(0x08), raw[5])
	assert.Equal(t, byte(0x01), raw[12])
	assert.Equal(t, byte(0x0B), raw[13])
	assert.Equal(t, byte(0x0A), raw[14])
	assert.Equal(t, byte(0), raw[15]) // is_parity flag unset
}

func TestVerifyDetectsCorruption(t *testing.T) {
	s := New(1, 0, false, []byte("original payload"))
	raw := s.Encode()
	raw[HeaderSize] ^= 0xFF // flip first payload byte

	got, err := Decode(raw)
	require.NoError(t, err)
	err = got.Verify()
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrShardCorrupt)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	s := New(1, 0, false, []byte("payload"))
	raw := s.Encode()
	raw[0] = 'X'

	_, err := Decode(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrShardCorrupt)
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	_, err := Decode(make([]byte, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrShardCorrupt)
}

func TestDecodeAndVerifyPropagatesHashMismatch(t *testing.T) {
	s := New(2, 1, true, []byte("abc"))
	raw := s.Encode()
	raw[len(raw)-1] ^= 0x01

	_, err := DecodeAndVerify(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ironerr.ErrShardCorrupt)
}
