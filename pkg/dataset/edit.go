package dataset

import (
	"fmt"
	"os"

	"github.com/ironclad-vids/ironclad/internal/shardindex"
	"github.com/ironclad-vids/ironclad/pkg/ironerr"
)

// Insert splices text into the plaintext at offset and re-encodes every
// stripe from offset/S onward. Stripes before the affected one are never
// touched, so their shard bytes on disk are unchanged (edit locality).
func (d *Dataset) Insert(offset uint64, text []byte) error {
	if offset > d.manifest.PlaintextLen {
		return fmt.Errorf("%w: insert offset %d exceeds plaintext length %d", ironerr.ErrInvalidArgument, offset, d.manifest.PlaintextLen)
	}

	firstStripe := d.firstAffectedStripe(offset)
	suffix, err := d.reconstructSuffix(firstStripe)
	if err != nil {
		return err
	}

	localOffset := offset - firstStripe*uint64(d.manifest.StripeSize)
	spliced := make([]byte, 0, len(suffix)+len(text))
	spliced = append(spliced, suffix[:localOffset]...)
	spliced = append(spliced, text...)
	spliced = append(spliced, suffix[localOffset:]...)

	return d.reencodeFrom(firstStripe, spliced)
}

// Delete removes length bytes starting at offset and re-encodes every
// stripe from offset/S onward.
func (d *Dataset) Delete(offset, length uint64) error {
	if offset > d.manifest.PlaintextLen {
		return fmt.Errorf("%w: delete offset %d exceeds plaintext length %d", ironerr.ErrInvalidArgument, offset, d.manifest.PlaintextLen)
	}
	if offset+length > d.manifest.PlaintextLen {
		return fmt.Errorf("%w: delete range [%d,%d) exceeds plaintext length %d", ironerr.ErrInvalidArgument, offset, offset+length, d.manifest.PlaintextLen)
	}

	firstStripe := d.firstAffectedStripe(offset)
	suffix, err := d.reconstructSuffix(firstStripe)
	if err != nil {
		return err
	}

	localOffset := offset - firstStripe*uint64(d.manifest.StripeSize)
	excised := make([]byte, 0, len(suffix)-int(length))
	excised = append(excised, suffix[:localOffset]...)
	excised = append(excised, suffix[localOffset+length:]...)

	return d.reencodeFrom(firstStripe, excised)
}

// firstAffectedStripe maps a byte offset to a stripe index, clamping to
// the last existing stripe when offset lands exactly on a stripe
// boundary at end-of-file (an insert/delete at plaintextLen when
// plaintextLen is a multiple of S would otherwise compute a one-past
// stripe index that doesn't exist yet).
func (d *Dataset) firstAffectedStripe(offset uint64) uint64 {
	idx := offset / uint64(d.manifest.StripeSize)
	if idx >= d.manifest.NumStripes {
		idx = d.manifest.NumStripes - 1
	}
	return idx
}

// reconstructSuffix decodes every stripe from firstStripe to the end of
// the dataset and concatenates them into one contiguous buffer.
func (d *Dataset) reconstructSuffix(firstStripe uint64) ([]byte, error) {
	windows, err := d.readStripesRange(firstStripe, d.manifest.NumStripes)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, w := range windows {
		total += len(w)
	}
	out := make([]byte, 0, total)
	for _, w := range windows {
		out = append(out, w...)
	}
	return out, nil
}

// reencodeFrom rechunks newSuffix into stripes of size S starting at
// firstStripe, overwrites their shard files, updates the manifest, and
// removes any stripe files left over from a shrink.
func (d *Dataset) reencodeFrom(firstStripe uint64, newSuffix []byte) error {
	oldNumStripes := d.manifest.NumStripes

	if err := d.writeStripesFrom(firstStripe, newSuffix); err != nil {
		return err
	}

	// firstStripe*S is the plaintext offset of that stripe's first byte:
	// every stripe before it is a full S bytes, since only the final
	// stripe of a dataset is ever short.
	newPlaintextLen := firstStripe*uint64(d.manifest.StripeSize) + uint64(len(newSuffix))
	d.manifest.SetPlaintextLen(newPlaintextLen)
	newNumStripes := d.manifest.NumStripes

	if newNumStripes < oldNumStripes {
		if err := d.deleteStripes(newNumStripes, oldNumStripes); err != nil {
			return err
		}
	}

	return d.writeManifest()
}

// deleteStripes removes every shard file (and audit-log entry) for
// stripe indices in [from, to).
func (d *Dataset) deleteStripes(from, to uint64) error {
	n := d.numShards()

	idx, err := shardindex.Open(d.storageRoot, d.name)
	if err != nil {
		d.log.Warn("delete: shard index unavailable, skipping audit cleanup", "reason", err)
		idx = nil
	} else {
		defer idx.Close()
	}

	for stripeIdx := from; stripeIdx < to; stripeIdx++ {
		for j := 0; j < n; j++ {
			path := d.shardPath(stripeIdx, uint16(j))
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("%w: removing surplus shard %s: %v", ironerr.ErrIO, path, err)
			}
		}
		if idx != nil {
			if err := idx.DeleteStripe(stripeIdx, n); err != nil {
				d.log.Warn("delete: failed to clean up shard index entries", "stripe", stripeIdx, "reason", err)
			}
		}
	}
	return nil
}
