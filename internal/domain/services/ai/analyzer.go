package ai

import (
	"context"
	"errors"

	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

// RemoteClassifier is the contract for an external classifier that
// produces the same verdict shape as the heuristic path.
type RemoteClassifier interface {
	// Configured reports whether the classifier has a usable credential
	Configured() bool

	// Classify analyzes the message remotely. It returns a typed error
	// on any failure and never fabricates a verdict.
	Classify(ctx context.Context, message string) (*models.AnalysisVerdict, error)
}

// Analyzer is the entry point for message analysis. It prefers the
// remote classifier when one is configured and falls back to the local
// heuristic scorer on any remote failure.
type Analyzer struct {
	remote RemoteClassifier
	logger *logger.Logger
}

// NewAnalyzer creates an analyzer. remote may be nil for a
// heuristic-only deployment.
func NewAnalyzer(remote RemoteClassifier, log *logger.Logger) *Analyzer {
	return &Analyzer{
		remote: remote,
		logger: log.WithComponent("analyzer"),
	}
}

// RemoteConfigured reports whether the remote path is available
func (a *Analyzer) RemoteConfigured() bool {
	return a.remote != nil && a.remote.Configured()
}

// Analyze produces a verdict for a single message. The caller
// guarantees the message is non-empty and within the length bound.
// Analyze never fails: every remote error degrades to the heuristic
// path, so a verdict is always returned.
func (a *Analyzer) Analyze(ctx context.Context, message string) (*models.AnalysisVerdict, models.VerdictSource) {
	if a.RemoteConfigured() {
		verdict, err := a.remote.Classify(ctx, message)
		if err == nil {
			// Returned untouched, tier as reported
			return verdict, models.VerdictSourceRemote
		}
		if !errors.Is(err, ErrMissingCredential) {
			a.logger.Warn().Err(err).Msg("remote classification failed, using heuristic fallback")
		}
	}

	return a.analyzeHeuristic(message), models.VerdictSourceHeuristic
}

// analyzeHeuristic runs the local scorer and explanation synthesizer
func (a *Analyzer) analyzeHeuristic(message string) *models.AnalysisVerdict {
	res := ScoreMessage(message)
	level := models.RiskLevelForScore(res.Score)

	phrases := res.SuspiciousPhrases
	if phrases == nil {
		phrases = []string{}
	}

	return &models.AnalysisVerdict{
		RiskScore:         res.Score,
		RiskLevel:         level,
		Explanation:       BuildExplanation(res.Score, level, res.Patterns),
		Patterns:          res.Patterns,
		SuspiciousPhrases: phrases,
	}
}
