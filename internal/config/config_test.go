package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ironclad.yaml")
	err := os.WriteFile(path, []byte("data_shards: 6\nstorage_root: /tmp/custom\n"), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(6), cfg.DataShards)
	assert.Equal(t, "/tmp/custom", cfg.StorageRoot)
	assert.Equal(t, DefaultParityShards, cfg.ParityShards)
	assert.Equal(t, DefaultStripeSize, cfg.StripeSize)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ironclad.yaml")
	err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644)
	require.NoError(t, err)

	_, err = Load(path)
	assert.Error(t, err)
}
