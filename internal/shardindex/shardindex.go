// Package shardindex provides an optional, badger-backed audit log of
// shard presence and hash per dataset, written by Verify (and by the
// edit engine when it removes surplus stripes) after the shard files
// themselves have already been independently read and hashed. It is a
// diagnostic history, not a cache in the sense of skipping work: nothing
// reads from it to decide whether a shard still needs to be re-hashed,
// since the on-disk shard files remain the sole source of truth and every
// access re-verifies what it touches regardless of what this index says.
package shardindex

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

const prefixShard = "shard:"

// Index wraps a badger database scoped to one dataset's index directory.
type Index struct {
	db *badger.DB
}

// Open opens (creating if necessary) the badger index for a dataset at
// storageRoot/<dataset>/.index.
func Open(storageRoot, dataset string) (*Index, error) {
	path := filepath.Join(storageRoot, dataset, ".index")
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("shardindex: opening %s: %w", path, err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying badger handles.
func (idx *Index) Close() error {
	return idx.db.Close()
}

func key(stripeIndex uint64, shardIndex uint16) []byte {
	buf := make([]byte, len(prefixShard)+10)
	copy(buf, prefixShard)
	binary.BigEndian.PutUint64(buf[len(prefixShard):], stripeIndex)
	binary.BigEndian.PutUint16(buf[len(prefixShard)+8:], shardIndex)
	return buf
}

// Entry records the last known state of one shard file.
type Entry struct {
	Present bool
	Hash    [32]byte
	Size    int64
}

func encodeEntry(e Entry) []byte {
	buf := make([]byte, 1+32+8)
	if e.Present {
		buf[0] = 1
	}
	copy(buf[1:33], e.Hash[:])
	binary.BigEndian.PutUint64(buf[33:41], uint64(e.Size))
	return buf
}

func decodeEntry(raw []byte) (Entry, error) {
	if len(raw) != 41 {
		return Entry{}, fmt.Errorf("shardindex: malformed entry (%d bytes)", len(raw))
	}
	var e Entry
	e.Present = raw[0] == 1
	copy(e.Hash[:], raw[1:33])
	e.Size = int64(binary.BigEndian.Uint64(raw[33:41]))
	return e, nil
}

// Put records the state of one shard.
func (idx *Index) Put(stripeIndex uint64, shardIndex uint16, e Entry) error {
	return idx.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(stripeIndex, shardIndex), encodeEntry(e))
	})
}

// Get returns the recorded state of one shard, and false if the index has
// no entry for it (a cache miss, not necessarily absence on disk).
func (idx *Index) Get(stripeIndex uint64, shardIndex uint16) (Entry, bool, error) {
	var e Entry
	found := false
	err := idx.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(stripeIndex, shardIndex))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			decoded, err := decodeEntry(val)
			if err != nil {
				return err
			}
			e = decoded
			return nil
		})
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("shardindex: get: %w", err)
	}
	return e, found, nil
}

// DeleteStripe removes every cached entry for a stripe, used when the
// edit engine deletes surplus stripe files after a shrink.
func (idx *Index) DeleteStripe(stripeIndex uint64, shardCount int) error {
	return idx.db.Update(func(txn *badger.Txn) error {
		for j := 0; j < shardCount; j++ {
			if err := txn.Delete(key(stripeIndex, uint16(j))); err != nil && err != badger.ErrKeyNotFound {
				return err
			}
		}
		return nil
	})
}
