package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/config"
	"github.com/papapumpkin/pulsar/internal/telemetry"
)

var errNoTelemetryPath = errors.New("no telemetry file given; pass FILE or set telemetry_path")

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [FILE]",
	Short: "View JSONL telemetry recorded during model setup",
	Long: `Reads and formats a JSONL telemetry file written by --telemetry.

Without FILE, the configured telemetry_path is used.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")

	path, err := resolveTelemetryPath(args)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	// Print all existing events. When following, a trailing partial line is
	// held until its writer finishes it.
	lines := &lineReader{r: bufio.NewReader(f)}
	if err := lines.print(cmd.OutOrStdout(), !follow); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tailFollow(ctx, cmd.OutOrStdout(), lines, path)
}

// lineReader yields newline-terminated events from a growing file.
type lineReader struct {
	r       *bufio.Reader
	partial string
}

// print prints every complete line available. Text after the last newline is
// kept for the next call, or printed as a final line when flush is set.
func (l *lineReader) print(w io.Writer, flush bool) error {
	for {
		chunk, err := l.r.ReadString('\n')
		if errors.Is(err, io.EOF) {
			l.partial += chunk
			if flush {
				if line := strings.TrimSpace(l.partial); line != "" {
					printEvent(w, line)
				}
				l.partial = ""
			}
			return nil
		}
		if err != nil {
			return err
		}
		line := strings.TrimSpace(l.partial + chunk)
		l.partial = ""
		if line != "" {
			printEvent(w, line)
		}
	}
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(ctx context.Context, w io.Writer, lines *lineReader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := lines.print(w, false); err != nil {
				return fmt.Errorf("telemetry: read %s: %w", path, err)
			}
		}
	}
}

// printEvent decodes a JSONL line and prints a human-readable representation.
func printEvent(w io.Writer, line string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}

	ts := evt.Timestamp.Format(time.TimeOnly)
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", ts))
	parts = append(parts, evt.Kind)

	if evt.Component != "" {
		parts = append(parts, fmt.Sprintf("component=%s", evt.Component))
	}
	if evt.Param != "" {
		parts = append(parts, fmt.Sprintf("param=%s", evt.Param))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}
	if evt.Message != "" {
		parts = append(parts, fmt.Sprintf("%q", evt.Message))
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}

// resolveTelemetryPath returns the file named on the command line, or the
// configured telemetry path.
func resolveTelemetryPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TelemetryPath == "" {
		return "", errNoTelemetryPath
	}
	return cfg.TelemetryPath, nil
}
