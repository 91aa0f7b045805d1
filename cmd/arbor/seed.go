package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/arbor/store"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the dataset serve would start with",
		Long: `Print the effective seed dataset as YAML.

The dataset comes from the "seed" config key when set, otherwise the
built-in dataset is used. Seed files are validated before printing.

Example:
  arbor seed > seed.yaml
  arbor seed --config ./arbor.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := loadSeed(rootOpts.Config.Seed)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(seed); err != nil {
				return WrapExitError(ExitFailure, "failed to encode seed", err)
			}
			return enc.Close()
		},
	}
}

// loadSeed reads and validates the seed at path, or returns the built-in
// dataset when path is empty.
func loadSeed(path string) (store.Seed, error) {
	if path == "" {
		return store.DefaultSeed(), nil
	}
	seed, err := store.LoadSeed(path)
	if err != nil {
		return store.Seed{}, WrapExitError(ExitCommandError, "failed to load seed", err)
	}
	return seed, nil
}
