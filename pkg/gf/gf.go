// Package gf implements arithmetic over GF(2^8) with the Rijndael
// irreducible polynomial 0x11B, plus the small linear-algebra primitives
// the systematic Reed-Solomon codec needs on top of it: multiplying a
// matrix by a vector of byte-slices, and inverting an arbitrary k×k
// nonsingular submatrix by Gauss-Jordan elimination.
package gf

// generator is a primitive element of GF(2^8) under 0x11B, used to build
// the log/exp tables in init.
const generator = 0x03

var (
	expTable [512]byte
	logTable [256]byte
)

func init() {
	x := byte(1)
	for i := 0; i < 255; i++ {
		expTable[i] = x
		logTable[x] = byte(i)
		x = mulNoTable(x, generator)
	}
	for i := 255; i < 512; i++ {
		expTable[i] = expTable[i-255]
	}
}

// mulNoTable multiplies two field elements the slow way (peasant's
// algorithm with reduction by 0x11B), used only to bootstrap the tables.
func mulNoTable(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}
		hi := a & 0x80
		a <<= 1
		if hi != 0 {
			a ^= 0x1B
		}
		b >>= 1
	}
	return p
}

// Add returns a+b in GF(2^8), which is the same operation as Sub.
func Add(a, b byte) byte { return a ^ b }

// Sub returns a-b in GF(2^8).
func Sub(a, b byte) byte { return a ^ b }

// Mul returns a*b in GF(2^8) via the log/exp tables.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Inverse returns the multiplicative inverse of a in GF(2^8). Calling it
// with a == 0 is a programmer error: the decoder never requests the
// inverse of a zero element because Cauchy matrices over GF(2^8) are
// guaranteed nonsingular for N+M <= 255.
func Inverse(a byte) byte {
	if a == 0 {
		panic("gf: inverse of zero")
	}
	return expTable[255-int(logTable[a])]
}

// Div returns a/b in GF(2^8).
func Div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return Mul(a, Inverse(b))
}

// AddVec XORs src into dst in place, dst[i] ^= src[i].
func AddVec(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// MulVecAccum computes dst[i] ^= c*src[i] for every byte, the inner loop
// of matrix-by-shard multiplication.
func MulVecAccum(dst, src []byte, c byte) {
	if c == 0 {
		return
	}
	if c == 1 {
		AddVec(dst, src)
		return
	}
	logC := int(logTable[c])
	for i, s := range src {
		if s == 0 {
			continue
		}
		dst[i] ^= expTable[logC+int(logTable[s])]
	}
}

// Matrix is a dense matrix of GF(2^8) elements in row-major order.
type Matrix struct {
	Rows, Cols int
	Data       [][]byte
}

// NewMatrix allocates a zeroed r×c matrix.
func NewMatrix(r, c int) *Matrix {
	data := make([][]byte, r)
	for i := range data {
		data[i] = make([]byte, c)
	}
	return &Matrix{Rows: r, Cols: c, Data: data}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Data[i][i] = 1
	}
	return m
}

// SubMatrix extracts the rows in rowIdx (in order) as a new matrix.
func (m *Matrix) SubMatrix(rowIdx []int) *Matrix {
	out := NewMatrix(len(rowIdx), m.Cols)
	for i, r := range rowIdx {
		copy(out.Data[i], m.Data[r])
	}
	return out
}

// Invert returns the inverse of a square nonsingular matrix via
// Gauss-Jordan elimination with partial pivoting over GF(2^8). It panics
// if the matrix turns out to be singular, which never happens for the
// Cauchy submatrices this package is built to invert.
func (m *Matrix) Invert() *Matrix {
	if m.Rows != m.Cols {
		panic("gf: Invert requires a square matrix")
	}
	n := m.Rows
	aug := NewMatrix(n, 2*n)
	for i := 0; i < n; i++ {
		copy(aug.Data[i][:n], m.Data[i])
		aug.Data[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if aug.Data[row][col] != 0 {
				pivot = row
				break
			}
		}
		if pivot == -1 {
			panic("gf: matrix is singular")
		}
		aug.Data[col], aug.Data[pivot] = aug.Data[pivot], aug.Data[col]

		inv := Inverse(aug.Data[col][col])
		row := aug.Data[col]
		for k := range row {
			row[k] = Mul(row[k], inv)
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug.Data[r][col]
			if factor == 0 {
				continue
			}
			MulVecAccum(aug.Data[r], row, factor)
		}
	}

	out := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		copy(out.Data[i], aug.Data[i][n:])
	}
	return out
}

// MulShards computes out = m * shards, where shards is a slice of
// equal-length byte slices treated as column vectors and m has
// len(shards) columns. It returns m.Rows new shards of the same length.
func (m *Matrix) MulShards(shards [][]byte) [][]byte {
	if len(shards) != m.Cols {
		panic("gf: shard count does not match matrix column count")
	}
	shardLen := 0
	if len(shards) > 0 {
		shardLen = len(shards[0])
	}
	out := make([][]byte, m.Rows)
	for i := 0; i < m.Rows; i++ {
		acc := make([]byte, shardLen)
		row := m.Data[i]
		for j, s := range shards {
			MulVecAccum(acc, s, row[j])
		}
		out[i] = acc
	}
	return out
}
