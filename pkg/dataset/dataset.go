// Package dataset implements the on-disk dataset layout and the edit
// engine on top of the stripe pipeline: a named directory holding one
// manifest file and the N+M shard files per stripe. Create, Read, Insert,
// and Delete are the only lifecycle operations; a dataset is destroyed
// by removing its directory.
package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ironclad-vids/ironclad/pkg/ironerr"
	"github.com/ironclad-vids/ironclad/pkg/logging"
	"github.com/ironclad-vids/ironclad/pkg/manifest"
	"github.com/ironclad-vids/ironclad/pkg/stripe"
	"github.com/ironclad-vids/ironclad/pkg/workerpool"
)

// Config configures a Dataset handle.
type Config struct {
	// StorageRoot is the directory containing all dataset subdirectories.
	StorageRoot string
	// Name is the dataset's directory name under StorageRoot.
	Name string
	// Logger is optional; a default stderr logger is used if nil.
	Logger *slog.Logger
	// Pool is optional; a small ad hoc pool is created if nil.
	Pool *workerpool.WorkerPool
}

// Dataset is a handle to one named dataset directory.
type Dataset struct {
	storageRoot string
	name        string
	log         *slog.Logger
	pool        *workerpool.WorkerPool

	manifest *manifest.Manifest
	stripes  *stripe.Codec
}

func (cfg *Config) normalize() Config {
	out := *cfg
	if out.Logger == nil {
		out.Logger = logging.Logger
	}
	if out.Pool == nil {
		out.Pool = workerpool.NewWorkerPool(workerpool.Config{})
	}
	return out
}

func (d *Dataset) dir() string {
	return filepath.Join(d.storageRoot, d.name)
}

func (d *Dataset) manifestPath() string {
	return filepath.Join(d.dir(), "manifest")
}

func shardFileName(stripeIndex uint64, shardIndex uint16) string {
	return fmt.Sprintf("stripe_%08d_shard_%03d", stripeIndex, shardIndex)
}

func (d *Dataset) shardPath(stripeIndex uint64, shardIndex uint16) string {
	return filepath.Join(d.dir(), shardFileName(stripeIndex, shardIndex))
}

// Manifest returns the currently loaded manifest.
func (d *Dataset) Manifest() *manifest.Manifest {
	return d.manifest
}

func (d *Dataset) loadManifest() error {
	raw, err := os.ReadFile(d.manifestPath())
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ironerr.ErrManifestMissing, d.manifestPath())
	}
	if err != nil {
		return fmt.Errorf("%w: reading manifest: %v", ironerr.ErrIO, err)
	}
	m, err := manifest.Decode(raw)
	if err != nil {
		return err
	}
	d.manifest = m
	codec, err := stripe.New(int(m.DataShards), int(m.ParityShards), m.StripeSize)
	if err != nil {
		return err
	}
	d.stripes = codec
	return nil
}

func (d *Dataset) writeManifest() error {
	raw := d.manifest.Encode()
	tmp := d.manifestPath() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: writing manifest: %v", ironerr.ErrIO, err)
	}
	if err := os.Rename(tmp, d.manifestPath()); err != nil {
		return fmt.Errorf("%w: renaming manifest: %v", ironerr.ErrIO, err)
	}
	return nil
}

// Open loads an existing dataset's manifest, ready for Read/Insert/Delete.
func Open(cfg Config) (*Dataset, error) {
	cfg = cfg.normalize()
	d := &Dataset{
		storageRoot: cfg.StorageRoot,
		name:        cfg.Name,
		log:         cfg.Logger,
		pool:        cfg.Pool,
	}
	if err := d.loadManifest(); err != nil {
		return nil, err
	}
	return d, nil
}

// stripeLen returns the true (unpadded) plaintext length of stripeIndex.
func (d *Dataset) stripeLen(stripeIndex uint64) int {
	if stripeIndex == d.manifest.NumStripes-1 {
		return int(d.manifest.FinalStripeLen())
	}
	return int(d.manifest.StripeSize)
}

// numShards is N+M for the dataset's manifest.
func (d *Dataset) numShards() int {
	return int(d.manifest.DataShards) + int(d.manifest.ParityShards)
}
