package release

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

// numberRegex extracts sequence numbers from titles (e.g. "2", "3")
var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence represents the confidence level of a title match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MatchResult represents the result of a fuzzy title match.
type MatchResult struct {
	Title      string          // The matched candidate title
	Index      int             // Index into the candidates slice, -1 when none
	Score      float64         // Jaro-Winkler similarity score (0.0-1.0)
	Confidence MatchConfidence // Confidence level based on score
}

// MatchTitle finds the best match for a parsed title against candidate titles.
// Uses Jaro-Winkler similarity which favors prefix matches (good for series
// titles), with a bonus when sequence numbers agree between parsed and
// candidate and a penalty when they disagree. Candidates are normalized with
// CleanTitle before comparison.
func MatchTitle(parsed string, candidates []string) MatchResult {
	best := MatchResult{Index: -1, Confidence: ConfidenceNone}
	if len(candidates) == 0 || parsed == "" {
		return best
	}

	normalizedParsed := CleanTitle(parsed)
	parsedNumbers := numberRegex.FindAllString(normalizedParsed, -1)

	for i, candidate := range candidates {
		normalizedCandidate := CleanTitle(candidate)

		score := float64(edlib.JaroWinklerSimilarity(normalizedParsed, normalizedCandidate))

		candidateNumbers := numberRegex.FindAllString(normalizedCandidate, -1)
		score = adjustScoreForNumbers(score, parsedNumbers, candidateNumbers)

		if score > best.Score {
			best.Title = candidate
			best.Index = i
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best = MatchResult{Index: -1, Confidence: ConfidenceNone}
	}

	return best
}

// adjustScoreForNumbers modifies the similarity score based on sequence
// number matching. "Show 2" must not fuzzy-match "Show 3" just because the
// words agree, and "Show 2" against plain "Show" is suspicious too.
func adjustScoreForNumbers(score float64, parsedNums, candidateNums []string) float64 {
	if len(parsedNums) == 0 {
		return score
	}

	if len(candidateNums) == 0 {
		return score * 0.85
	}

	candidateSet := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		candidateSet[n] = true
	}

	for _, n := range parsedNums {
		if candidateSet[n] {
			return min(score*1.05, 1.0)
		}
	}

	return score * 0.90
}
