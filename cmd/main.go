// Command songs runs the song catalogue HTTP service and its smoke client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/songs/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Without a subcommand it serves.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "songs",
		Short:         "Song catalogue HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configPath == "" {
				return nil
			}
			return os.Setenv(config.EnvConfig, configPath)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (sets "+config.EnvConfig+")")

	root.AddCommand(newServeCmd(), newSmokeCmd())
	return root
}
