// Package config loads the optional YAML defaults file for shard
// parameters and the storage root. CLI flags always take precedence over
// the file, which takes precedence over the built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	DefaultDataShards   uint16 = 4
	DefaultParityShards uint16 = 4
	DefaultStripeSize   uint32 = 256 * 1024
	DefaultStorageRoot         = "./storage"
	DefaultFileName            = "ironclad.yaml"
)

type Config struct {
	DataShards   uint16 `yaml:"data_shards"`
	ParityShards uint16 `yaml:"parity_shards"`
	StripeSize   uint32 `yaml:"stripe_size"`
	StorageRoot  string `yaml:"storage_root"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		DataShards:   DefaultDataShards,
		ParityShards: DefaultParityShards,
		StripeSize:   DefaultStripeSize,
		StorageRoot:  DefaultStorageRoot,
	}
}

// Load reads path (if it exists) and overlays it on top of Default. A
// missing file is not an error, since the config file is optional; a
// present-but-malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if fromFile.DataShards != 0 {
		cfg.DataShards = fromFile.DataShards
	}
	if fromFile.ParityShards != 0 {
		cfg.ParityShards = fromFile.ParityShards
	}
	if fromFile.StripeSize != 0 {
		cfg.StripeSize = fromFile.StripeSize
	}
	if fromFile.StorageRoot != "" {
		cfg.StorageRoot = fromFile.StorageRoot
	}

	return cfg, nil
}
