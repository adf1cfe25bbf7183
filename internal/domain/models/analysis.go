package models

// RiskLevel is the coarse risk bucket for an analyzed message
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Valid reports whether l is one of the defined risk levels
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// Risk score thresholds. Scores at or below LowRiskMax are low,
// at or below MediumRiskMax are medium, everything above is high.
const (
	LowRiskMax    = 30
	MediumRiskMax = 70
)

// RiskLevelForScore derives the risk level from a 0-100 score
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score <= LowRiskMax:
		return RiskLevelLow
	case score <= MediumRiskMax:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// MaxMessageLength is the longest message accepted for analysis
const MaxMessageLength = 10000

// MaxSuspiciousPhrases caps the phrases reported in a verdict
const MaxSuspiciousPhrases = 8

// NoPatternsDetected is reported in place of an empty pattern list
const NoPatternsDetected = "No scam patterns detected"

// AnalysisVerdict is the result of analyzing a single message.
// It is constructed once per request and never mutated afterwards.
type AnalysisVerdict struct {
	RiskScore         int       `json:"riskScore"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	Explanation       string    `json:"explanation"`
	Patterns          []string  `json:"patterns"`
	SuspiciousPhrases []string  `json:"suspiciousPhrases"`
}

// VerdictSource identifies which path produced a verdict
type VerdictSource string

const (
	VerdictSourceHeuristic VerdictSource = "heuristic"
	VerdictSourceRemote    VerdictSource = "remote"
)
