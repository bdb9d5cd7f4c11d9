// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Sonarr    SonarrConfig    `toml:"sonarr"`
	Import    ImportConfig    `toml:"import"`
	AutoMatch AutoMatchConfig `toml:"automatch"`
	History   HistoryConfig   `toml:"history"`
	Log       LogConfig       `toml:"log"`
	Rename    []RenameRule    `toml:"rename"`
	Mappings  []MappingRule   `toml:"mapping"`
}

type SonarrConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

type ImportConfig struct {
	// Downloads is the local directory scanned for video files.
	Downloads string `toml:"downloads"`

	// LocalPath/RemotePath translate scanned paths into the prefix Sonarr
	// sees when it runs on another host or in a container. Both must be set
	// for mapping to apply.
	LocalPath  string `toml:"local_path"`
	RemotePath string `toml:"remote_path"`

	// Mode is how Sonarr takes the file: "copy" or "move".
	Mode string `toml:"mode"`

	// Delay between command submissions, to avoid hammering the server.
	Delay Duration `toml:"delay"`

	// TrimFolders hoists videos out of release subdirectories before
	// submission and prunes directories left empty.
	TrimFolders bool `toml:"trim_folders"`

	// Interval between passes in watch mode.
	Interval Duration `toml:"interval"`

	// MinSizeMB filters out stubs and samples below this size. 0 disables.
	MinSizeMB int64 `toml:"min_size_mb"`
}

// RenameRule is one (search pattern, replacement) pair applied to a filename.
// Rules run in declared order.
type RenameRule struct {
	Pattern string `toml:"pattern"`
	Replace string `toml:"replace"`
}

// MappingRule maps filenames matching Pattern to a Sonarr series.
// First match wins, evaluated in declared order.
type MappingRule struct {
	Pattern  string `toml:"pattern"`
	SeriesID int64  `toml:"series_id"`
	Comment  string `toml:"comment,omitempty"`
}

type AutoMatchConfig struct {
	Enabled   bool    `toml:"enabled"`
	Threshold float64 `toml:"threshold"`
}

type HistoryConfig struct {
	Path      string   `toml:"path"`
	Retention Duration `toml:"retention"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps time.Duration so TOML values can be written as "5s" or "10m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults. Absence is checked through the decode metadata so an
	// explicit zero ("delay = \"0s\"") stays zero.
	if cfg.Import.Mode == "" {
		cfg.Import.Mode = "move"
	}
	if !md.IsDefined("import", "delay") {
		cfg.Import.Delay.Duration = 5 * time.Second
	}
	if !md.IsDefined("import", "interval") {
		cfg.Import.Interval.Duration = 10 * time.Minute
	}
	if !md.IsDefined("automatch", "threshold") {
		cfg.AutoMatch.Threshold = 0.85
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "./data/importarr.db"
	}
	if !md.IsDefined("history", "retention") {
		cfg.History.Retention.Duration = 30 * 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
