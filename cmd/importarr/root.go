package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/importarr/internal/config"
)

var version = "dev"

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "importarr",
	Short: "Submit downloaded episodes to Sonarr for import",
	Long: `importarr - scan a downloads directory and submit video files to Sonarr

Files can be renamed first via configurable regex transforms, and resolved
to a series through explicit mapping rules or fuzzy title matching against
the Sonarr library. Successful fuzzy matches are written back to the config
as mapping rules.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file path")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("importarr {{.Version}}\n")
}

// configPath resolves the config file location: flag, then environment,
// then the usual spots.
func configPath() (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if env := os.Getenv("IMPORTARR_CONFIG"); env != "" {
		return env, nil
	}

	candidates := []string{"./importarr.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "importarr", "config.toml"))
	}
	candidates = append(candidates, "/etc/importarr/config.toml")

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("no config file found (tried %s); run 'importarr config init'",
		strings.Join(candidates, ", "))
}

// loadConfig resolves, loads and validates the config. Validation entries
// marked as warnings are logged; anything else is fatal.
func loadConfig() (*config.Config, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}

	var fatal []string
	for _, msg := range cfg.Validate() {
		if config.IsWarning(msg) {
			fmt.Fprintf(os.Stderr, "config: %s\n", msg)
			continue
		}
		fatal = append(fatal, msg)
	}
	if len(fatal) > 0 {
		return nil, "", fmt.Errorf("invalid config %s:\n  %s", path, strings.Join(fatal, "\n  "))
	}

	return cfg, path, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}
