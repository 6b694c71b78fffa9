// Package ironerr defines the error kinds shared across the dispersal
// pipeline and the dataset layer, as wrapped sentinel errors so callers
// can test for a kind with errors.Is/errors.As while still getting
// contextual messages from fmt.Errorf("%w: ...").
package ironerr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap these with fmt.Errorf("%w: ...") to add
// context; never return them bare except where no context exists.
var (
	ErrManifestMissing   = errors.New("manifest missing")
	ErrManifestMalformed = errors.New("manifest malformed")
	ErrInsufficientShard = errors.New("insufficient shards")
	ErrShardCorrupt      = errors.New("shard corrupt")
	ErrAontIntegrity     = errors.New("aont integrity check failed")
	ErrIO                = errors.New("io error")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// InsufficientShards carries the stripe index and present-shard count
// alongside ErrInsufficientShard, retrievable via errors.As.
type InsufficientShards struct {
	Stripe  uint64
	Present int
	Needed  int
}

func (e *InsufficientShards) Error() string {
	return fmt.Sprintf("insufficient shards for stripe %d: have %d, need %d", e.Stripe, e.Present, e.Needed)
}

func (e *InsufficientShards) Unwrap() error { return ErrInsufficientShard }

// ShardCorrupt carries the stripe and shard index of a shard that failed
// its hash check. It is not user-fatal on its own; the caller logs it and
// treats the shard as an erasure.
type ShardCorrupt struct {
	Stripe uint64
	Shard  uint16
	Reason string
}

func (e *ShardCorrupt) Error() string {
	return fmt.Sprintf("shard corrupt at stripe %d shard %d: %s", e.Stripe, e.Shard, e.Reason)
}

func (e *ShardCorrupt) Unwrap() error { return ErrShardCorrupt }

// AontIntegrity carries the stripe index of a stripe whose AEAD tag
// failed to verify after RS decode.
type AontIntegrity struct {
	Stripe uint64
}

func (e *AontIntegrity) Error() string {
	return fmt.Sprintf("aont integrity failure at stripe %d", e.Stripe)
}

func (e *AontIntegrity) Unwrap() error { return ErrAontIntegrity }
