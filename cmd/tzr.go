package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/config"
	"github.com/papapumpkin/pulsar/internal/parfile"
	"github.com/papapumpkin/pulsar/internal/toa"
	"github.com/papapumpkin/pulsar/internal/ui"
)

var tzrCmd = &cobra.Command{
	Use:   "tzr PARFILE",
	Short: "Set up the absolute phase reference and print the reference TOA",
	Long: `Loads PARFILE, applies the TZRMJD, TZRSITE, and TZRFRQ defaults, and
normalizes the reference arrival with the configured clock corrections and
ephemeris.

With --watch, the par file is reloaded and the reference rebuilt on every edit.`,
	Args: cobra.ExactArgs(1),
	RunE: runTZR,
}

func init() {
	tzrCmd.Flags().BoolP("watch", "w", false, "rebuild the reference when the par file changes")
	rootCmd.AddCommand(tzrCmd)
}

func runTZR(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
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

	path := args[0]
	if err := showTZR(ctx, e, p, path); err != nil {
		if !watch {
			return err
		}
		p.Error(err.Error())
	}
	if !watch {
		return nil
	}
	return watchTZR(ctx, e, p, path)
}

// showTZR builds a fresh model from path and prints its reference TOA.
func showTZR(ctx context.Context, e *env, p *ui.Printer, path string) error {
	m, err := e.load(path)
	if err != nil {
		return err
	}
	p.Params(m.file.PSR, m.abs.Params())

	tz, err := m.abs.TZRTOA(ctx, &toa.TOAs{Config: e.toaConfig()})
	if err != nil {
		return err
	}
	p.TZR(tz.TOAs[0])
	return nil
}

func watchTZR(ctx context.Context, e *env, p *ui.Printer, path string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := parfile.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	p.Watching(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if c.Removed {
				p.Error(fmt.Sprintf("%s was removed", path))
				continue
			}
			if err := showTZR(ctx, e, p, path); err != nil {
				p.Error(err.Error())
			}
		}
	}
}
