package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/clock"
	"github.com/papapumpkin/pulsar/internal/config"
	"github.com/papapumpkin/pulsar/internal/ui"
)

var errNoClockDB = errors.New("no clock store configured; set --clock-db or clock_db")

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Manage the clock correction store",
}

var clockImportCmd = &cobra.Command{
	Use:   "import KEY FILE",
	Short: "Import a two-column clock file (MJD, offset in microseconds) under KEY",
	Args:  cobra.ExactArgs(2),
	RunE:  runClockImport,
}

var clockShowCmd = &cobra.Command{
	Use:   "show [KEY]",
	Short: "List stored clock keys, or the points for KEY",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClockShow,
}

func init() {
	clockCmd.AddCommand(clockImportCmd)
	clockCmd.AddCommand(clockShowCmd)
	rootCmd.AddCommand(clockCmd)
}

func openClockStore(cmd *cobra.Command) (context.Context, *clock.SQLiteStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.ClockDB == "" {
		return nil, nil, errNoClockDB
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := clock.OpenSQLite(ctx, cfg.ClockDB)
	if err != nil {
		return nil, nil, err
	}
	return ctx, store, nil
}

func runClockImport(cmd *cobra.Command, args []string) error {
	key, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("clock: open %s: %w", path, err)
	}
	defer f.Close()
	pts, err := clock.ParseFile(f)
	if err != nil {
		return fmt.Errorf("clock: %s: %w", path, err)
	}

	ctx, store, err := openClockStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(ctx, key, pts); err != nil {
		return err
	}
	ui.New(cmd.OutOrStdout()).ClockImported(key, len(pts))
	return nil
}

func runClockShow(cmd *cobra.Command, args []string) error {
	ctx, store, err := openClockStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	p := ui.New(cmd.OutOrStdout())
	if len(args) == 0 {
		keys, err := store.Keys(ctx)
		if err != nil {
			return err
		}
		p.ClockKeys(keys)
		return nil
	}
	pts, err := store.Points(ctx, args[0])
	if err != nil {
		return err
	}
	p.ClockPoints(args[0], pts)
	return nil
}
