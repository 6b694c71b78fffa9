package dataset

import (
	"fmt"
	"os"
	"sort"

	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/ironclad-vids/ironclad/pkg/shard"
)

type stripeResult struct {
	index     uint64
	plaintext []byte
	err       error
}

// Read reconstructs the full plaintext from the dataset's stripes.
func (d *Dataset) Read() ([]byte, error) {
	results, err := d.readStripesRange(0, d.manifest.NumStripes)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, d.manifest.PlaintextLen)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// readStripesRange reconstructs stripes [first, last) in parallel and
// returns their plaintext windows in stripe order.
func (d *Dataset) readStripesRange(first, last uint64) ([][]byte, error) {
	count := int(last - first)
	room := d.pool.CreateRoom(count)

	for idx := first; idx < last; idx++ {
		idx := idx
		room.NewTaskWaitForFreeSlot(func() interface{} {
			pt, err := d.readAndDecodeStripe(idx)
			return stripeResult{index: idx, plaintext: pt, err: err}
		})
	}

	raw := room.Collect()
	results := make([]stripeResult, len(raw))
	for i, r := range raw {
		results[i] = r.(stripeResult)
	}
	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })

	out := make([][]byte, len(results))
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		out[i] = r.plaintext
	}
	return out, nil
}

// readAndDecodeStripe reads every expected shard file of a stripe,
// verifies each present one, and RS-decodes/AONT-decodes the result. A
// missing file or a shard that fails Verify is treated as an erasure,
// not a fatal error, per the byzantine-to-erasure promotion in the shard
// integrity layer.
func (d *Dataset) readAndDecodeStripe(stripeIndex uint64) ([]byte, error) {
	n := d.numShards()
	payloads := make([][]byte, n)

	for j := 0; j < n; j++ {
		raw, err := os.ReadFile(d.shardPath(stripeIndex, uint16(j)))
		if err != nil {
			if os.IsNotExist(err) {
				continue // missing shard: leave payloads[j] nil (erased)
			}
			return nil, fmt.Errorf("%w: reading shard %d/%d: %v", ironerr.ErrIO, stripeIndex, j, err)
		}

		sh, err := shard.DecodeAndVerify(raw)
		if err != nil {
			d.log.Warn("shard treated as erasure", "stripe", stripeIndex, "shard", j, "reason", err)
			continue
		}
		payloads[j] = sh.Payload
	}

	return d.stripes.Decode(payloads, d.stripeLen(stripeIndex), stripeIndex)
}
