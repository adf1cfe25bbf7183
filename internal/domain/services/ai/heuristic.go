package ai

import (
	"regexp"
	"strings"

	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
)

// Regexes for the formatting and link checks. Compiled once; the
// scorer itself holds no state.
var (
	shortenedURLRe = regexp.MustCompile(`(?i)(bit\.ly|tinyurl|goo\.gl)`)
	genericURLRe   = regexp.MustCompile(`(?i)(https?://|www\.)`)
	runWhitespace  = regexp.MustCompile(`\s{3,}`)
	midWordCaseRe  = regexp.MustCompile(`[a-z][A-Z]`)
)

// Per-category scoring: a flat base plus a small amount per matched keyword.
const (
	categoryBaseScore     = 15
	perKeywordScore       = 5
	formattingScore       = 10
	shortenedURLScore     = 20
	genericURLScore       = 10
	sensitiveInfoScore    = 25
	shortMessageLeniency  = 10
	shortMessageMaxLength = 50
	maxPhrasesPerCategory = 3
)

// HeuristicResult is the raw output of the keyword scorer, before
// explanation synthesis.
type HeuristicResult struct {
	Patterns          []string
	SuspiciousPhrases []string
	Score             int
}

// ScoreMessage runs the deterministic keyword and formatting checks
// against a single message. It is a pure function: identical input
// always yields an identical result.
func ScoreMessage(message string) HeuristicResult {
	lower := strings.ToLower(message)

	var res HeuristicResult

	for _, cat := range catalog {
		var matched []string
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		res.Patterns = append(res.Patterns, cat.Description)
		n := len(matched)
		if n > maxPhrasesPerCategory {
			n = maxPhrasesPerCategory
		}
		res.SuspiciousPhrases = append(res.SuspiciousPhrases, matched[:n]...)
		res.Score += categoryBaseScore + perKeywordScore*len(matched)
	}

	if hasFormattingAnomalies(message) {
		res.Patterns = append(res.Patterns, descFormatting)
		res.Score += formattingScore
	}

	// A bare URL with no other signal adds nothing: links alone are
	// not evidence. Shortened links always are.
	if shortenedURLRe.MatchString(message) {
		res.Patterns = append(res.Patterns, descShortenedURL)
		res.Score += shortenedURLScore
	} else if genericURLRe.MatchString(message) && len(res.Patterns) > 0 {
		res.Patterns = append(res.Patterns, descGenericURL)
		res.Score += genericURLScore
	}

	for _, kw := range sensitiveInfoKeywords {
		if strings.Contains(lower, kw) {
			res.Patterns = append(res.Patterns, descSensitiveInfo)
			res.Score += sensitiveInfoScore
			break
		}
	}

	if res.Score > 100 {
		res.Score = 100
	}
	if res.Score < 0 {
		res.Score = 0
	}

	// Nudge short benign messages toward zero
	if len(message) < shortMessageMaxLength && len(res.Patterns) == 0 {
		res.Score -= shortMessageLeniency
		if res.Score < 0 {
			res.Score = 0
		}
	}

	res.SuspiciousPhrases = dedupePhrases(res.SuspiciousPhrases, models.MaxSuspiciousPhrases)

	if len(res.Patterns) == 0 {
		res.Patterns = []string{models.NoPatternsDetected}
	}

	return res
}

// hasFormattingAnomalies flags the stylistic tells common to scam
// messages: shouting, excessive exclamation, stray whitespace runs and
// mid-word case breaks.
func hasFormattingAnomalies(message string) bool {
	if strings.Count(message, "!") > 2 {
		return true
	}

	upperWords := 0
	for _, word := range strings.Fields(message) {
		if len(word) <= 3 {
			continue
		}
		if word != strings.ToUpper(word) {
			continue
		}
		// Require at least one letter so numbers aren't counted
		if strings.IndexFunc(word, isUpperLetter) == -1 {
			continue
		}
		upperWords++
		if upperWords > 2 {
			return true
		}
	}

	if runWhitespace.MatchString(message) {
		return true
	}

	return midWordCaseRe.MatchString(message)
}

func isUpperLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// dedupePhrases removes duplicates preserving first-seen order and
// caps the result at limit entries.
func dedupePhrases(phrases []string, limit int) []string {
	if len(phrases) == 0 {
		return phrases
	}
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}
