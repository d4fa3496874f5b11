package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/songs/internal/smoke"
	"github.com/okian/songs/pkg/logger"
)

const defaultSmokeURL = "http://localhost:8080"

func newSmokeCmd() *cobra.Command {
	cfg := smoke.Config{}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the create/list/update/delete scenario against a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}
			return runSmoke(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", defaultSmokeURL, "Base URL of the service")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", smoke.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Log every step")
	return cmd
}

func runSmoke(ctx context.Context, out io.Writer, cfg smoke.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := smoke.Run(ctx, cfg)
	for _, s := range report.Steps {
		status := "ok"
		if s.Err != nil {
			status = "FAIL: " + s.Err.Error()
		}
		fmt.Fprintf(out, "%-20s %-6s %-40s %3d %8s  %s\n",
			s.Name, s.Method, s.Path, s.Status, s.Duration.Round(time.Millisecond), status)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "passed %d steps in %s\n", len(report.Steps), report.Duration.Round(time.Millisecond))
	return nil
}
