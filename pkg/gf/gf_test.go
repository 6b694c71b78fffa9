package gf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsXorAndSelfInverse(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			got := Add(byte(a), byte(b))
			assert.Equal(t, byte(a)^byte(b), got)
			assert.Equal(t, byte(a), Add(got, byte(b)))
		}
	}
}

func TestMulIdentityAndZero(t *testing.T) {
	for a := 0; a < 256; a++ {
		assert.Equal(t, byte(0), Mul(byte(a), 0))
		assert.Equal(t, byte(a), Mul(byte(a), 1))
	}
}

func TestMulCommutative(t *testing.T) {
	for a := 1; a < 256; a += 7 {
		for b := 1; b < 256; b += 11 {
			assert.Equal(t, Mul(byte(a), byte(b)), Mul(byte(b), byte(a)))
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	for a := 1; a < 256; a++ {
		inv := Inverse(byte(a))
		assert.Equal(t, byte(1), Mul(byte(a), inv))
	}
}

func TestInverseOfZeroPanics(t *testing.T) {
	assert.Panics(t, func() { Inverse(0) })
}

func TestDiv(t *testing.T) {
	for a := 1; a < 256; a += 3 {
		for b := 1; b < 256; b += 5 {
			q := Div(byte(a), byte(b))
			assert.Equal(t, byte(a), Mul(q, byte(b)))
		}
	}
}

func TestIdentityInvertsToItself(t *testing.T) {
	id := Identity(5)
	inv := id.Invert()
	for i := 0; i < 5; i++ {
		assert.Equal(t, id.Data[i], inv.Data[i])
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := NewMatrix(3, 3)
	m.Data = [][]byte{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 10},
	}
	inv := m.Invert()
	product := NewMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var acc byte
			for k := 0; k < 3; k++ {
				acc ^= Mul(m.Data[i][k], inv.Data[k][j])
			}
			product.Data[i][j] = acc
		}
	}
	require.Equal(t, Identity(3).Data, product.Data)
}

func TestMulShards(t *testing.T) {
	id := Identity(2)
	shards := [][]byte{{1, 2, 3}, {4, 5, 6}}
	out := id.MulShards(shards)
	assert.Equal(t, shards, out)
}
