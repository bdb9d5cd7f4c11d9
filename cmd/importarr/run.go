package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/importarr/internal/config"
	"github.com/vmunix/importarr/internal/history"
	"github.com/vmunix/importarr/internal/importer"
	"github.com/vmunix/importarr/internal/server"
	"github.com/vmunix/importarr/pkg/sonarr"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan the downloads directory once and submit files to Sonarr",
	Long: `Scan the downloads directory once and submit files to Sonarr.

Examples:
  importarr run
  importarr run --dry-run`,
	Args: cobra.NoArgs,
	RunE: runRunCmd,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run continuously, scanning on the configured interval",
	Args:  cobra.NoArgs,
	RunE:  runWatchCmd,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("dry-run", false, "Report what would happen without renaming or submitting")

	rootCmd.AddCommand(watchCmd)
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	imp, _, hist, err := buildImporter(dryRun)
	if err != nil {
		return err
	}
	if hist != nil {
		defer hist.Close()
	}

	ctx, stop := signalContext()
	defer stop()

	result, err := imp.Run(ctx)
	if err != nil {
		return err
	}
	printResult(result, dryRun)
	return nil
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	imp, cfg, hist, err := buildImporter(false)
	if err != nil {
		return err
	}
	if hist != nil {
		defer hist.Close()
	}

	log := newLogger(cfg.Log.Level)

	ctx, stop := signalContext()
	defer stop()

	runner := server.NewRunner(imp, cfg.Import.Interval.Duration, log.With("component", "watch"))
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// buildImporter wires config, logger, history store, Sonarr client and
// importer together. The history store is nil in dry-run mode.
func buildImporter(dryRun bool) (*importer.Importer, *config.Config, *history.Store, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log := newLogger(cfg.Log.Level)

	var hist *history.Store
	if !dryRun {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	client := newSonarrClient(cfg, log)

	imp, err := importer.New(cfg, path, client, hist, dryRun, log.With("component", "importer"))
	if err != nil {
		if hist != nil {
			hist.Close()
		}
		return nil, nil, nil, err
	}
	return imp, cfg, hist, nil
}

func newSonarrClient(cfg *config.Config, log *slog.Logger) *sonarr.Client {
	return sonarr.New(cfg.Sonarr.URL, cfg.Sonarr.APIKey, sonarr.WithLogger(log))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printResult(r *importer.Result, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = "[dry-run] "
	}
	fmt.Printf("%sScanned:   %d\n", prefix, r.Scanned)
	fmt.Printf("%sSubmitted: %d\n", prefix, r.Submitted)
	fmt.Printf("%sSkipped:   %d\n", prefix, r.Skipped)
	fmt.Printf("%sUnmatched: %d\n", prefix, r.Unmatched)
	fmt.Printf("%sFailed:    %d\n", prefix, r.Failed)
	if r.Learned > 0 {
		fmt.Printf("%sLearned:   %d new mapping(s)\n", prefix, r.Learned)
	}
}
