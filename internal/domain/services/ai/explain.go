package ai

import (
	"fmt"
	"strings"

	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
)

// BuildExplanation renders the human-readable summary for a verdict.
// Pure string templating, selected by tier; no model calls.
func BuildExplanation(score int, level models.RiskLevel, patterns []string) string {
	if score == 0 {
		return "This message appears legitimate with no common scam indicators detected. " +
			"Still, stay cautious with unsolicited messages from unknown senders."
	}

	switch level {
	case models.RiskLevelLow:
		var sb strings.Builder
		sb.WriteString("This message shows minimal risk indicators.")
		if hasRealPatterns(patterns) {
			sb.WriteString(" The elements flagged can also appear in legitimate messages.")
		}
		sb.WriteString(" When in doubt, verify the sender's identity before responding.")
		return sb.String()

	case models.RiskLevelMedium:
		return fmt.Sprintf(
			"This message shows several warning signs, most notably %s. "+
				"Do not act on it until you verify the request through official channels.",
			strings.ToLower(firstPattern(patterns)),
		)

	default:
		concerns := strings.ToLower(firstPattern(patterns))
		if len(patterns) > 1 {
			concerns += " and " + strings.ToLower(patterns[1])
		}
		return fmt.Sprintf(
			"⚠️ This message is very likely a scam, showing %s. "+
				"Do not click any links, do not send money or information, "+
				"and contact the organization directly through its official website or phone number.",
			concerns,
		)
	}
}

func firstPattern(patterns []string) string {
	if len(patterns) == 0 {
		return "suspicious content"
	}
	return patterns[0]
}

func hasRealPatterns(patterns []string) bool {
	return len(patterns) > 0 && patterns[0] != models.NoPatternsDetected
}
