package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// warningPrefix marks validation messages that are advisory, not fatal.
const warningPrefix = "warning:"

// IsWarning reports whether a validation message from Validate is advisory.
// Callers log warnings and continue; anything else blocks startup.
func IsWarning(msg string) bool {
	return strings.Contains(msg, warningPrefix)
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validImportModes = map[string]bool{
	"copy": true, "move": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Sonarr connection
	if c.Sonarr.URL == "" {
		errs = append(errs, "sonarr.url: required")
	} else if _, err := url.Parse(c.Sonarr.URL); err != nil {
		errs = append(errs, fmt.Sprintf("sonarr.url: invalid URL: %v", err))
	}
	if c.Sonarr.APIKey == "" {
		errs = append(errs, "sonarr.api_key: required")
	}

	// Import settings
	if c.Import.Downloads == "" {
		errs = append(errs, "import.downloads: required")
	}
	if !validImportModes[c.Import.Mode] {
		errs = append(errs, fmt.Sprintf("import.mode: must be copy or move; got %q", c.Import.Mode))
	}
	if (c.Import.LocalPath == "") != (c.Import.RemotePath == "") {
		errs = append(errs, "import.local_path and import.remote_path: must be set together")
	}
	if c.Import.Delay.Duration < 0 {
		errs = append(errs, "import.delay: must not be negative")
	}
	// Zero would panic the watch ticker; the default applies when unset
	if c.Import.Interval.Duration <= 0 {
		errs = append(errs, "import.interval: must be positive")
	}
	if c.Import.MinSizeMB < 0 {
		errs = append(errs, "import.min_size_mb: must not be negative")
	}

	// Rename rules must compile
	for i, rule := range c.Rename {
		if rule.Pattern == "" {
			errs = append(errs, fmt.Sprintf("rename[%d].pattern: required", i))
			continue
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("rename[%d].pattern: %v", i, err))
		}
	}

	// Mapping rules must compile and point at a series
	for i, rule := range c.Mappings {
		if rule.Pattern == "" {
			errs = append(errs, fmt.Sprintf("mapping[%d].pattern: required", i))
		} else if _, err := regexp.Compile(rule.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("mapping[%d].pattern: %v", i, err))
		}
		if rule.SeriesID <= 0 {
			errs = append(errs, fmt.Sprintf("mapping[%d].series_id: must be positive, got %d", i, rule.SeriesID))
		}
	}

	// Auto-match threshold
	if c.AutoMatch.Enabled && (c.AutoMatch.Threshold <= 0 || c.AutoMatch.Threshold > 1) {
		errs = append(errs, fmt.Sprintf("automatch.threshold: must be in (0, 1], got %v", c.AutoMatch.Threshold))
	}

	// Log level
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	// Downloads path warning (non-fatal for validate, fatal at runtime)
	if c.Import.Downloads != "" {
		if _, err := os.Stat(c.Import.Downloads); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("import.downloads: %s directory %q does not exist", warningPrefix, c.Import.Downloads))
		}
	}

	return errs
}
