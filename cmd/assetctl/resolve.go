package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <logical-name>",
	Short: "Print the hashed name and URL for a logical name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		storage, err := newStorage(cfg)
		if err != nil {
			return err
		}
		if err := storage.LoadManifest(cmd.Context()); err != nil {
			return err
		}
		hashed, ok := storage.HashedPath(args[0])
		if !ok {
			return fmt.Errorf("%s is not in the manifest", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hashed, storage.URL(args[0]))
		return nil
	},
}
