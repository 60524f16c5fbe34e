package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/config"
	"github.com/papapumpkin/pulsar/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate PARFILE...",
	Short: "Check that par files set up an absolute phase reference",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		p := ui.New(cmd.OutOrStdout())
		e, err := openEnv(ctx, cfg, p, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		failed := 0
		for _, path := range args {
			if _, err := e.load(path); err != nil {
				p.Invalid(path, err)
				failed++
				continue
			}
			p.Valid(path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d par file(s) invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
