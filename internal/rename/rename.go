// Package rename applies configurable regex transforms to filenames.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrDestinationExists is returned when a transformed name collides with an
// existing file.
var ErrDestinationExists = errors.New("rename destination already exists")

// Rule is one (search pattern, replacement) pair. Replacements may use
// $1-style group references.
type Rule struct {
	Pattern string
	Replace string
}

type compiledRule struct {
	re      *regexp.Regexp
	replace string
}

// Engine applies an ordered list of rename rules.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the rules. Rule order is preserved: each rule sees the
// output of the previous one.
func NewEngine(rules []Rule) (*Engine, error) {
	e := &Engine{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rename rule %d: %w", i, err)
		}
		e.rules = append(e.rules, compiledRule{re: re, replace: r.Replace})
	}
	return e, nil
}

// Apply runs every rule against the filename and returns the transformed,
// sanitized result. The extension is part of the name and may be rewritten.
func (e *Engine) Apply(name string) string {
	for _, r := range e.rules {
		name = r.re.ReplaceAllString(name, r.replace)
	}
	return SanitizeFilename(name)
}

// Rename applies the rules to the base name of path and renames the file on
// disk when the result differs. The file always stays in its directory.
// Returns the resulting path and whether a rename happened.
func (e *Engine) Rename(path string) (string, bool, error) {
	dir := filepath.Dir(path)
	newName := e.Apply(filepath.Base(path))

	if newName == "" {
		return path, false, fmt.Errorf("rules reduced %q to an empty name", filepath.Base(path))
	}
	if newName == filepath.Base(path) {
		return path, false, nil
	}

	dest := filepath.Join(dir, newName)
	if _, err := os.Stat(dest); err == nil {
		return path, false, fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}

	if err := os.Rename(path, dest); err != nil {
		return path, false, fmt.Errorf("rename %s: %w", path, err)
	}
	return dest, true, nil
}
