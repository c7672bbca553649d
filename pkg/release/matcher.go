package release

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence buckets a similarity score.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // below 0.70
	ConfidenceLow                           // 0.70 and up
	ConfidenceMedium                        // 0.85 and up
	ConfidenceHigh                          // 0.95 and up
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

// ConfidenceFor returns the bucket a score falls into.
func ConfidenceFor(score float64) MatchConfidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// MatchResult is the best candidate found by MatchTitle.
type MatchResult struct {
	Index      int // position in the candidate list, -1 when nothing matched
	Title      string
	Score      float64
	Confidence MatchConfidence
}

// Similarity scores two titles between 0 and 1 using Jaro-Winkler on their
// cleaned forms, adjusted when sequel numbers agree or disagree.
func Similarity(a, b string) float64 {
	ca, cb := CleanTitle(a), CleanTitle(b)
	if ca == "" || cb == "" {
		return 0
	}
	score := float64(edlib.JaroWinklerSimilarity(ca, cb))
	return adjustScoreForNumbers(score, numberRegex.FindAllString(ca, -1), numberRegex.FindAllString(cb, -1))
}

// MatchTitle picks the candidate most similar to parsed. Ties keep the
// earlier candidate. Scores under the low threshold produce no match.
func MatchTitle(parsed string, candidates []string) MatchResult {
	best := MatchResult{Index: -1}
	for i, candidate := range candidates {
		if score := Similarity(parsed, candidate); score > best.Score {
			best = MatchResult{Index: i, Title: candidate, Score: score}
		}
	}

	best.Confidence = ConfidenceFor(best.Score)
	if best.Confidence == ConfidenceNone {
		best.Index = -1
		best.Title = ""
	}
	return best
}

// adjustScoreForNumbers rewards a shared number and penalizes a missing or
// different one. Titles without numbers are scored as-is.
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
