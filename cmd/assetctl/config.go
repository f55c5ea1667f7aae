package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the assets.yaml schema.
type config struct {
	// SourceDirs are the directories collected, in order. Later directories
	// win on logical-name conflicts.
	SourceDirs []string `yaml:"source_dirs"`

	// Root is the destination store directory.
	Root string `yaml:"root"`

	// Backend selects the destination store: "fs" (default) or "oci".
	Backend string `yaml:"backend"`

	// URLPrefix is prepended to public URLs (default: /static/).
	URLPrefix string `yaml:"url_prefix"`

	// HashLength is the identifier length in hex characters (default: 8).
	HashLength int `yaml:"hash_length"`

	// Strict enables strict manifest mode for resolve.
	Strict bool `yaml:"strict"`

	// Workers bounds concurrent per-asset processing.
	Workers int `yaml:"workers"`

	// Compress selects a pre-hash compressor: "", "gzip" or "zstd".
	Compress string `yaml:"compress"`
}

func loadConfig(path string) (config, error) {
	cfg := config{
		Root:      "./staticroot",
		Backend:   "fs",
		URLPrefix: "/static/",
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = "fs"
	}
	if cfg.Backend != "fs" && cfg.Backend != "oci" {
		return cfg, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	switch cfg.Compress {
	case "", "gzip", "zstd":
	default:
		return cfg, fmt.Errorf("unknown compressor %q", cfg.Compress)
	}
	return cfg, nil
}
