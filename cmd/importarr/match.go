package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/importarr/internal/match"
)

var matchCmd = &cobra.Command{
	Use:   "match <filename>",
	Short: "Show how a filename would resolve to a series, without submitting",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchCmd,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatchCmd(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level)

	client := newSonarrClient(cfg, log)
	series, err := client.AllSeries(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch series: %w", err)
	}

	rules := make([]match.Rule, 0, len(cfg.Mappings))
	for _, m := range cfg.Mappings {
		rules = append(rules, match.Rule{Pattern: m.Pattern, SeriesID: m.SeriesID, Comment: m.Comment})
	}
	resolver, err := match.NewResolver(rules, cfg.AutoMatch.Enabled, cfg.AutoMatch.Threshold, log.With("component", "match"))
	if err != nil {
		return err
	}

	res := resolver.Resolve(args[0], series)
	switch res.Method {
	case match.MethodRule:
		fmt.Printf("Matched by rule: series %d (%s)\n", res.SeriesID, orDash(res.SeriesTitle))
		if res.Comment != "" {
			fmt.Printf("Rule comment:    %s\n", res.Comment)
		}
	case match.MethodAuto:
		fmt.Printf("Auto-matched:    series %d (%s), score %.2f\n", res.SeriesID, res.SeriesTitle, res.Score)
		if res.Learned != nil {
			fmt.Printf("Would learn:     %s\n", res.Learned.Pattern)
		}
	default:
		if res.Score > 0 {
			fmt.Printf("No match (best score %.2f below threshold %.2f)\n", res.Score, cfg.AutoMatch.Threshold)
		} else {
			fmt.Println("No match")
		}
	}
	return nil
}
