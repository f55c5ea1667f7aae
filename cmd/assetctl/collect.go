package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/stratoform/assets"
	"github.com/stratoform/assets/process"
	"github.com/stratoform/assets/store/fsstore"
	"github.com/stratoform/assets/store/ocistore"
)

var collectCmd = &cobra.Command{
	Use:   "collect [dir...]",
	Short: "Collect source directories into the versioned store",
	Long:  "Walks the source directories (arguments override source_dirs from the config), submits every file as one batch, and writes hashed blobs plus the manifest to the destination store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		dirs := cfg.SourceDirs
		if len(args) > 0 {
			dirs = args
		}
		if len(dirs) == 0 {
			return fmt.Errorf("no source directories: pass them as arguments or set source_dirs in %s", flagConfig)
		}

		batch := make(map[string][]byte)
		for _, dir := range dirs {
			if err := collectDir(dir, batch); err != nil {
				return err
			}
		}

		storage, err := newStorage(cfg)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := storage.LoadManifest(ctx); err != nil {
			return err
		}
		n, err := storage.SaveWithDependencies(ctx, batch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d assets collected into %s\n", n, cfg.Root)
		return nil
	},
}

// collectDir walks dir and adds every regular file to the batch, keyed by
// its path relative to dir. Later sources override earlier ones.
func collectDir(dir string, batch map[string][]byte) error {
	fsys := os.DirFS(dir)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		batch[path.Clean(p)] = content
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect %s: %w", dir, err)
	}
	return nil
}

// newStorage builds the Storage described by the config.
func newStorage(cfg config) (*assets.Storage, error) {
	var store assets.Store
	var err error
	switch cfg.Backend {
	case "oci":
		store, err = ocistore.New(cfg.Root, cfg.URLPrefix)
	default:
		store, err = fsstore.New(cfg.Root, cfg.URLPrefix)
	}
	if err != nil {
		return nil, err
	}

	opts := []assets.Option{
		assets.WithStrict(cfg.Strict),
		assets.WithLogger(logger()),
	}
	if cfg.HashLength > 0 {
		opts = append(opts, assets.WithHashLength(cfg.HashLength))
	}
	if cfg.Workers > 0 {
		opts = append(opts, assets.WithWorkers(cfg.Workers))
	}
	switch cfg.Compress {
	case "gzip":
		opts = append(opts, assets.WithProcessors(process.NewGzip()))
	case "zstd":
		opts = append(opts, assets.WithProcessors(process.NewZstd()))
	}
	return assets.New(store, opts...), nil
}
