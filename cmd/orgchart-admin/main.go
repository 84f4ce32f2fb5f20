package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"orgchart-backend/infrastructure/config"
	"orgchart-backend/infrastructure/di"

	"github.com/spf13/cobra"
)

// containerFactory builds the dependencies a command runs against
type containerFactory func(ctx context.Context) (*di.Container, error)

func loadContainer(ctx context.Context) (*di.Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return di.InitializeContainer(ctx, cfg)
}

func newRootCmd(build containerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orgchart-admin",
		Short:         "Install and remove the stored org chart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newSeedCmd(build), newResetCmd(build))
	return cmd
}

func newSeedCmd(build containerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the default chart if none is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart %q ready\n", c.Config.ChartKey)
			return nil
		},
	}
}

func newResetCmd(build containerFactory) *cobra.Command {
	var reseed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart %q deleted\n", c.Config.ChartKey)

			if !reseed {
				return nil
			}
			if err := c.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart %q seeded\n", c.Config.ChartKey)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reseed, "reseed", false, "Write the default chart after deleting")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(loadContainer).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
