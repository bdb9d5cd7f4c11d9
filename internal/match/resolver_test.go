package match

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/importarr/pkg/sonarr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func library() []sonarr.Series {
	return []sonarr.Series{
		{ID: 1, Title: "One Piece", AlternateTitles: []sonarr.AlternateTitle{
			{Title: "One Piece (JP)"},
		}},
		{ID: 2, Title: "Breaking Bad"},
		{ID: 3, Title: "L'Attaque des Titans", AlternateTitles: []sonarr.AlternateTitle{
			{Title: "Attack on Titan"},
			{Title: "Shingeki no Kyojin"},
		}},
	}
}

func TestNewResolver_BadPattern(t *testing.T) {
	_, err := NewResolver([]Rule{{Pattern: "(", SeriesID: 1}}, false, 0.85, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping rule 0")
}

func TestResolve_RuleFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Pattern: `(?i)^one[ ._-]+piece`, SeriesID: 1, Comment: "anime"},
		{Pattern: `(?i)piece`, SeriesID: 99},
	}
	r, err := NewResolver(rules, false, 0.85, testLogger())
	require.NoError(t, err)

	res := r.Resolve("One.Piece.-.1071.VOSTFR.1080p.mkv", library())
	assert.Equal(t, MethodRule, res.Method)
	assert.Equal(t, int64(1), res.SeriesID)
	assert.Equal(t, "One Piece", res.SeriesTitle)
	assert.Equal(t, "anime", res.Comment)
	assert.Nil(t, res.Learned)
}

func TestResolve_RuleBeatsAutoMatch(t *testing.T) {
	rules := []Rule{{Pattern: `(?i)^breaking[ ._-]+bad`, SeriesID: 42}}
	r, err := NewResolver(rules, true, 0.85, testLogger())
	require.NoError(t, err)

	// The rule's id wins even though fuzzy matching would pick series 2
	res := r.Resolve("Breaking.Bad.S02E05.720p.mkv", library())
	assert.Equal(t, MethodRule, res.Method)
	assert.Equal(t, int64(42), res.SeriesID)
}

func TestResolve_AutoMatch(t *testing.T) {
	r, err := NewResolver(nil, true, 0.85, testLogger())
	require.NoError(t, err)

	res := r.Resolve("Breaking.Bad.S02E05.720p.HDTV.mkv", library())
	assert.Equal(t, MethodAuto, res.Method)
	assert.Equal(t, int64(2), res.SeriesID)
	assert.Equal(t, "Breaking Bad", res.SeriesTitle)
	assert.Equal(t, 1.0, res.Score)

	require.NotNil(t, res.Learned)
	assert.Equal(t, `(?i)^breaking[ ._-]+bad\b`, res.Learned.Pattern)
	assert.Equal(t, int64(2), res.Learned.SeriesID)
	assert.Contains(t, res.Learned.Comment, "auto-matched")
}

func TestResolve_AutoMatchAlternateTitle(t *testing.T) {
	r, err := NewResolver(nil, true, 0.85, testLogger())
	require.NoError(t, err)

	// Matches the alternate title but resolves to the owning series
	res := r.Resolve("Attack.on.Titan.S04E28.1080p.mkv", library())
	assert.Equal(t, MethodAuto, res.Method)
	assert.Equal(t, int64(3), res.SeriesID)
	assert.Equal(t, "L'Attaque des Titans", res.SeriesTitle)
}

func TestResolve_LearnedRuleReusedSamePass(t *testing.T) {
	r, err := NewResolver(nil, true, 0.85, testLogger())
	require.NoError(t, err)

	first := r.Resolve("Breaking.Bad.S02E05.mkv", library())
	require.Equal(t, MethodAuto, first.Method)
	require.NotNil(t, first.Learned)

	// Second file of the same series hits the learned rule, no new mapping
	second := r.Resolve("Breaking.Bad.S02E06.mkv", library())
	assert.Equal(t, MethodRule, second.Method)
	assert.Equal(t, int64(2), second.SeriesID)
	assert.Nil(t, second.Learned)
}

func TestResolve_BelowThreshold(t *testing.T) {
	r, err := NewResolver(nil, true, 0.99, testLogger())
	require.NoError(t, err)

	// "Braking Bed" scores against Breaking Bad but under 0.99
	res := r.Resolve("Braking.Bed.S01E01.mkv", library())
	assert.Equal(t, MethodNone, res.Method)
	assert.Zero(t, res.SeriesID)
	assert.Greater(t, res.Score, 0.0)
	assert.Nil(t, res.Learned)
}

func TestResolve_AutoMatchDisabled(t *testing.T) {
	r, err := NewResolver(nil, false, 0.85, testLogger())
	require.NoError(t, err)

	res := r.Resolve("Breaking.Bad.S02E05.mkv", library())
	assert.Equal(t, MethodNone, res.Method)
}

func TestResolve_NoTitle(t *testing.T) {
	r, err := NewResolver(nil, true, 0.85, testLogger())
	require.NoError(t, err)

	res := r.Resolve("S01E05.mkv", library())
	assert.Equal(t, MethodNone, res.Method)
}

func TestResolve_LearnedRuleKeepsArticle(t *testing.T) {
	series := []sonarr.Series{{ID: 7, Title: "The Walking Dead"}}
	r, err := NewResolver(nil, true, 0.85, testLogger())
	require.NoError(t, err)

	first := r.Resolve("The.Walking.Dead.S11E24.1080p.mkv", series)
	require.Equal(t, MethodAuto, first.Method)
	require.NotNil(t, first.Learned)
	// The pattern matches the raw filename, leading article included
	assert.Equal(t, `(?i)^the[ ._-]+walking[ ._-]+dead\b`, first.Learned.Pattern)

	// The next file of the series hits the learned rule instead of fuzzing
	// and learning a duplicate
	second := r.Resolve("The.Walking.Dead.S11E25.1080p.mkv", series)
	assert.Equal(t, MethodRule, second.Method)
	assert.Equal(t, int64(7), second.SeriesID)
	assert.Nil(t, second.Learned)
}

func TestResolve_NoLearnWhenPatternCannotCoverFilename(t *testing.T) {
	series := []sonarr.Series{{ID: 4, Title: "Show (US)"}}
	r, err := NewResolver(nil, true, 0.85, testLogger())
	require.NoError(t, err)

	// The parenthesis is not a separator the pattern can bridge, so a
	// learned rule would never fire; the match succeeds but nothing is kept
	res := r.Resolve("Show (US) S01E01.mkv", series)
	assert.Equal(t, MethodAuto, res.Method)
	assert.Equal(t, int64(4), res.SeriesID)
	assert.Nil(t, res.Learned)
}

func TestPatternFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"One Piece", `(?i)^one[ ._-]+piece\b`},
		{"The Walking Dead", `(?i)^the[ ._-]+walking[ ._-]+dead\b`},
		{"Élite", `(?i)^élite\b`},
		{"1923", `(?i)^1923\b`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, patternFromTitle(tt.title), "title %q", tt.title)
	}
}

func TestPatternFromTitle_Compiles(t *testing.T) {
	p := patternFromTitle("C.S.I. Miami (2002)")
	require.NotEmpty(t, p)
	re, err := regexp.Compile(p)
	require.NoError(t, err)
	assert.True(t, re.MatchString("C.S.I. Miami 2002 S01E01"))
}
