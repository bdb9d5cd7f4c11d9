// Package match resolves filenames to Sonarr series, first through explicit
// mapping rules, then by fuzzy title matching against the library.
package match

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/vmunix/importarr/pkg/release"
	"github.com/vmunix/importarr/pkg/sonarr"
)

// Method records which path a resolution took.
type Method int

const (
	MethodNone Method = iota
	MethodRule
	MethodAuto
)

func (m Method) String() string {
	switch m {
	case MethodRule:
		return "rule"
	case MethodAuto:
		return "auto"
	default:
		return "none"
	}
}

// Rule maps filenames matching a regex to a series id. First match wins.
type Rule struct {
	Pattern  string
	SeriesID int64
	Comment  string
}

// LearnedRule is a mapping produced by a successful auto-match, to be
// persisted so the next run resolves the same series without fuzzing.
type LearnedRule struct {
	Pattern  string
	SeriesID int64
	Comment  string
}

// Resolution is the outcome of resolving one filename.
type Resolution struct {
	SeriesID    int64
	SeriesTitle string
	Method      Method
	Score       float64 // set for MethodAuto and near-misses
	Comment     string  // rule comment for MethodRule

	// Learned is non-nil when an auto-match produced a new mapping rule.
	Learned *LearnedRule
}

type compiledRule struct {
	re       *regexp.Regexp
	seriesID int64
	comment  string
}

// Resolver resolves filenames to series.
type Resolver struct {
	rules     []compiledRule
	autoMatch bool
	threshold float64
	log       *slog.Logger
}

// NewResolver compiles the mapping rules. Threshold is the minimum fuzzy
// score accepted when autoMatch is enabled.
func NewResolver(rules []Rule, autoMatch bool, threshold float64, log *slog.Logger) (*Resolver, error) {
	r := &Resolver{
		autoMatch: autoMatch,
		threshold: threshold,
		log:       log,
	}
	for i, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("mapping rule %d: %w", i, err)
		}
		r.rules = append(r.rules, compiledRule{re: re, seriesID: rule.SeriesID, comment: rule.Comment})
	}
	return r, nil
}

// Resolve maps a filename to a series. Mapping rules run first in declared
// order against the raw filename; when none hits and auto-match is on, the
// parsed title is fuzzy-matched against every series title and alternate
// title. A successful auto-match also appends the learned rule to the
// resolver so later files in the same pass reuse it.
func (r *Resolver) Resolve(filename string, series []sonarr.Series) Resolution {
	for _, rule := range r.rules {
		if rule.re.MatchString(filename) {
			return Resolution{
				SeriesID:    rule.seriesID,
				SeriesTitle: titleFor(series, rule.seriesID),
				Method:      MethodRule,
				Comment:     rule.comment,
			}
		}
	}

	if !r.autoMatch {
		return Resolution{Method: MethodNone}
	}

	info := release.Parse(filename)
	if info.Title == "" {
		r.log.Debug("no title parsed", "filename", filename)
		return Resolution{Method: MethodNone}
	}

	candidates, owners := candidateTitles(series)
	best := release.MatchTitle(info.Title, candidates)
	if best.Index < 0 {
		r.log.Debug("no fuzzy candidate", "filename", filename, "title", info.Title)
		return Resolution{Method: MethodNone}
	}

	matched := series[owners[best.Index]]
	if best.Score < r.threshold {
		r.log.Info("fuzzy match below threshold",
			"filename", filename,
			"title", info.Title,
			"candidate", matched.Title,
			"score", best.Score,
			"threshold", r.threshold)
		return Resolution{Method: MethodNone, Score: best.Score}
	}

	learned := r.learn(filename, info, matched, best.Score)

	return Resolution{
		SeriesID:    matched.ID,
		SeriesTitle: matched.Title,
		Method:      MethodAuto,
		Score:       best.Score,
		Learned:     learned,
	}
}

// learn builds a mapping rule from a successful auto-match and appends it to
// the resolver's rule list. The rule must hit the very filename it was
// learned from, otherwise it would never fire and every later file of the
// series would fuzz (and persist) a fresh copy; such patterns are dropped.
func (r *Resolver) learn(filename string, info *release.Info, matched sonarr.Series, score float64) *LearnedRule {
	pattern := patternFromTitle(info.Title)
	if pattern == "" {
		return nil
	}
	re := regexp.MustCompile(pattern)
	if !re.MatchString(filename) {
		r.log.Debug("not learning, pattern cannot cover filename",
			"pattern", pattern, "filename", filename)
		return nil
	}

	rule := &LearnedRule{
		Pattern:  pattern,
		SeriesID: matched.ID,
		Comment: fmt.Sprintf("auto-matched %q (score %.2f, %s)",
			matched.Title, score, time.Now().Format("2006-01-02")),
	}
	r.rules = append(r.rules, compiledRule{
		re:       re,
		seriesID: rule.SeriesID,
		comment:  rule.Comment,
	})

	r.log.Info("learned mapping",
		"pattern", rule.Pattern,
		"series_id", rule.SeriesID,
		"series", matched.Title,
		"score", score)
	return rule
}

// patternFromTitle turns a parsed title into a filename regex: the title's
// word tokens joined by any separator run, anchored at the start,
// case-insensitive. Tokens come from the raw title, articles and accents
// intact, because the rule matches raw filenames, not normalized titles.
func patternFromTitle(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return `(?i)^` + strings.Join(words, `[ ._-]+`) + `\b`
}

// candidateTitles flattens series titles and alternate titles into one
// candidate list, with owners mapping each candidate back to its series index.
func candidateTitles(series []sonarr.Series) (candidates []string, owners []int) {
	for i, s := range series {
		candidates = append(candidates, s.Title)
		owners = append(owners, i)
		for _, alt := range s.AlternateTitles {
			if alt.Title == "" {
				continue
			}
			candidates = append(candidates, alt.Title)
			owners = append(owners, i)
		}
	}
	return candidates, owners
}

func titleFor(series []sonarr.Series, id int64) string {
	for _, s := range series {
		if s.ID == id {
			return s.Title
		}
	}
	return ""
}
