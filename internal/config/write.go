package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// WriteDefault writes the example config to the specified path.
// Creates parent directories if needed. Refuses to clobber an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0644)
}

// Write serializes the config to TOML and writes it atomically.
// The config file is the only persistent state that gets mutated (learned
// mappings are appended to it), so a crash mid-write must never truncate it.
func (c *Config) Write(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".importarr-config-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	encoder := toml.NewEncoder(tmp)
	if err := encoder.Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// AppendMapping adds a learned mapping rule and persists the config.
// Learned rules go last so hand-written rules keep winning.
func (c *Config) AppendMapping(rule MappingRule, path string) error {
	c.Mappings = append(c.Mappings, rule)
	if err := c.Write(path); err != nil {
		// Roll back the in-memory append so config stays consistent with disk
		c.Mappings = c.Mappings[:len(c.Mappings)-1]
		return err
	}
	return nil
}
