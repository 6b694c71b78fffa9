// Package rs implements the systematic Cauchy Reed-Solomon codec used to
// disperse one stripe's entangled blob into N data shards and M parity
// shards, tolerating the loss of up to M of the N+M.
package rs

import (
	"fmt"
	"sort"

	"github.com/ironclad-vids/ironclad/pkg/gf"
)

// Codec holds the fixed N/M parameters and the derived Cauchy parity
// matrix and full systematic generator matrix for one (N, M) pair. It is
// safe to build once per dataset and reuse across every stripe.
type Codec struct {
	N, M      int
	cauchy    *gf.Matrix // M x N
	generator *gf.Matrix // (N+M) x N, identity on top of cauchy
}

// New builds a codec for N data shards and M parity shards. N and M must
// both be at least 1 and N+M must not exceed 255, the GF(2^8) field-size
// constraint used to keep the Cauchy point sets disjoint and distinct.
func New(n, m int) (*Codec, error) {
	if n < 1 || m < 1 {
		return nil, fmt.Errorf("rs: N and M must each be >= 1, got N=%d M=%d", n, m)
	}
	if n+m > 255 {
		return nil, fmt.Errorf("rs: N+M must be <= 255, got %d", n+m)
	}

	// x_i for i in [0,M) and y_j for j in [0,N) drawn from disjoint ranges
	// of GF(2^8), guaranteeing x_i + y_j is never zero and every square
	// submatrix of the resulting Cauchy matrix is invertible.
	xs := make([]byte, m)
	for i := range xs {
		xs[i] = byte(i)
	}
	ys := make([]byte, n)
	for j := range ys {
		ys[j] = byte(m + j)
	}

	cauchy := gf.NewMatrix(m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			denom := gf.Add(xs[i], ys[j])
			cauchy.Data[i][j] = gf.Inverse(denom)
		}
	}

	generator := gf.NewMatrix(n+m, n)
	id := gf.Identity(n)
	for i := 0; i < n; i++ {
		copy(generator.Data[i], id.Data[i])
	}
	for i := 0; i < m; i++ {
		copy(generator.Data[n+i], cauchy.Data[i])
	}

	return &Codec{N: n, M: m, cauchy: cauchy, generator: generator}, nil
}

// Encode splits data (whose length must be divisible by N) into N data
// shards followed by M parity shards, in canonical order.
func (c *Codec) Encode(data []byte) ([][]byte, error) {
	if len(data)%c.N != 0 {
		return nil, fmt.Errorf("rs: input length %d not divisible by N=%d", len(data), c.N)
	}
	shardLen := len(data) / c.N
	dataShards := make([][]byte, c.N)
	for i := 0; i < c.N; i++ {
		dataShards[i] = data[i*shardLen : (i+1)*shardLen]
	}
	parity := c.cauchy.MulShards(dataShards)

	out := make([][]byte, c.N+c.M)
	copy(out[:c.N], dataShards)
	copy(out[c.N:], parity)
	return out, nil
}

// InsufficientShardsError reports that fewer than N shards were present
// for a decode attempt.
type InsufficientShardsError struct {
	Present int
	Needed  int
}

func (e *InsufficientShardsError) Error() string {
	return fmt.Sprintf("rs: insufficient shards: have %d, need %d", e.Present, e.Needed)
}

// Decode reconstructs the original N data shards from shards, a slice of
// length N+M where an absent shard is represented by a nil entry. At
// least N entries must be non-nil. It returns the N data shards
// concatenated back into one byte slice.
func (c *Codec) Decode(shards [][]byte) ([]byte, error) {
	if len(shards) != c.N+c.M {
		return nil, fmt.Errorf("rs: expected %d shards, got %d", c.N+c.M, len(shards))
	}

	present := make([]int, 0, c.N+c.M)
	for i, s := range shards {
		if s != nil {
			present = append(present, i)
		}
	}
	if len(present) < c.N {
		return nil, &InsufficientShardsError{Present: len(present), Needed: c.N}
	}

	// Prefer data shards over parity, then lower index, per the ordering
	// tie-break: cheaper because the corresponding rows of the inverse
	// collapse toward the identity.
	sort.Slice(present, func(a, b int) bool {
		ai, bi := present[a], present[b]
		aData, bData := ai < c.N, bi < c.N
		if aData != bData {
			return aData
		}
		return ai < bi
	})
	chosen := present[:c.N]
	sort.Ints(chosen)

	sub := c.generator.SubMatrix(chosen)
	inv := sub.Invert()

	chosenShards := make([][]byte, c.N)
	for i, idx := range chosen {
		chosenShards[i] = shards[idx]
	}

	dataShards := inv.MulShards(chosenShards)

	out := make([]byte, 0, len(dataShards)*len(dataShards[0]))
	for _, s := range dataShards {
		out = append(out, s...)
	}
	return out, nil
}
