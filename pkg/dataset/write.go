package dataset

import (
	"fmt"
	"os"

	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/ironclad-vids/ironclad/pkg/manifest"
	"github.com/ironclad-vids/ironclad/pkg/shard"
	"github.com/ironclad-vids/ironclad/pkg/stripe"
)

// Create builds a brand-new dataset directory from plaintext, using the
// given shard parameters, and returns a handle to it.
func Create(cfg Config, dataShards, parityShards uint16, stripeSize uint32, plaintext []byte) (*Dataset, error) {
	cfg = cfg.normalize()

	mf, err := manifest.New(dataShards, parityShards, stripeSize, uint64(len(plaintext)))
	if err != nil {
		return nil, err
	}
	codec, err := stripe.New(int(dataShards), int(parityShards), stripeSize)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		storageRoot: cfg.StorageRoot,
		name:        cfg.Name,
		log:         cfg.Logger,
		pool:        cfg.Pool,
		manifest:    mf,
		stripes:     codec,
	}

	if err := os.MkdirAll(d.dir(), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating dataset directory: %v", ironerr.ErrIO, err)
	}

	if err := d.writeStripesFrom(0, plaintext); err != nil {
		return nil, err
	}
	if err := d.writeManifest(); err != nil {
		return nil, err
	}

	d.log.Info("dataset written", "dataset", d.name, "plaintext_len", mf.PlaintextLen, "num_stripes", mf.NumStripes, "N", mf.DataShards, "M", mf.ParityShards)
	return d, nil
}

// writeStripesFrom chunks plaintext into stripeSize windows starting at
// global stripe index firstStripe, encodes each independently, and
// persists their shard files. Stripes are independent given the
// manifest, so this fans the work out across the pool; each stripe owns
// a disjoint set of shard files so no two goroutines ever write the same
// file.
func (d *Dataset) writeStripesFrom(firstStripe uint64, plaintext []byte) error {
	s := int(d.manifest.StripeSize)
	numNewStripes := 1
	if len(plaintext) > 0 {
		numNewStripes = (len(plaintext) + s - 1) / s
	}

	room := d.pool.CreateRoom(numNewStripes)
	for k := 0; k < numNewStripes; k++ {
		stripeIndex := firstStripe + uint64(k)
		start := k * s
		end := start + s
		if end > len(plaintext) {
			end = len(plaintext)
		}
		window := plaintext[start:end]

		room.NewTaskWaitForFreeSlot(func() interface{} {
			return d.encodeAndWriteStripe(stripeIndex, window)
		})
	}

	for _, r := range room.Collect() {
		if err, ok := r.(error); ok && err != nil {
			return err
		}
	}
	return nil
}

func (d *Dataset) encodeAndWriteStripe(stripeIndex uint64, plaintext []byte) error {
	shards, err := d.stripes.Encode(plaintext)
	if err != nil {
		return err
	}
	n := d.stripes.N()
	for j, payload := range shards {
		sh := shard.New(stripeIndex, uint16(j), j >= n, payload)
		if err := os.WriteFile(d.shardPath(stripeIndex, uint16(j)), sh.Encode(), 0o644); err != nil {
			return fmt.Errorf("%w: writing shard %d/%d: %v", ironerr.ErrIO, stripeIndex, j, err)
		}
	}
	return nil
}
