package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/importarr/internal/history"
	"github.com/vmunix/importarr/pkg/sonarr"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent submissions from the journal",
	Long: `Show recent submissions from the journal.

With --check, each submitted command is looked up on the Sonarr server to
report whether the import completed.`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Entries to show, newest first (0 for all)")
	historyCmd.Flags().Bool("check", false, "Query Sonarr for the state of each command")
}

// commandGetter is the slice of the Sonarr API the history command needs.
type commandGetter interface {
	Command(ctx context.Context, id int64) (*sonarr.Command, error)
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	check, _ := cmd.Flags().GetBool("check")

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(limit)
	if err != nil {
		return err
	}

	var client commandGetter
	if check {
		client = newSonarrClient(cfg, newLogger(cfg.Log.Level))
	}
	return printHistory(cmd.Context(), cmd.OutOrStdout(), entries, client)
}

func printHistory(ctx context.Context, w io.Writer, entries []*history.Entry, client commandGetter) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No submissions recorded.")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-9s  %s",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Outcome, e.Path)
		if e.SeriesID > 0 {
			line += fmt.Sprintf("  (series %d", e.SeriesID)
			if e.Episodes != "" {
				line += fmt.Sprintf(", S%02dE%s", e.Season, e.Episodes)
			}
			line += ")"
		}
		if client != nil && e.CommandID > 0 {
			if cmd, err := client.Command(ctx, e.CommandID); err != nil {
				line += fmt.Sprintf("  [command %d: %v]", e.CommandID, err)
			} else {
				line += fmt.Sprintf("  [command %d: %s]", e.CommandID, cmd.Status)
			}
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
