package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

// fakeRemote is a scriptable RemoteClassifier for orchestrator tests
type fakeRemote struct {
	configured bool
	verdict    *models.AnalysisVerdict
	err        error
	calls      int
}

func (f *fakeRemote) Configured() bool { return f.configured }

func (f *fakeRemote) Classify(ctx context.Context, message string) (*models.AnalysisVerdict, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.verdict, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "fatal", Format: "json"})
}

func TestAnalyzeNoRemoteConfigured(t *testing.T) {
	a := NewAnalyzer(nil, testLogger())

	verdict, source := a.Analyze(context.Background(), "urgent")

	require.NotNil(t, verdict)
	assert.Equal(t, models.VerdictSourceHeuristic, source)
	assert.Equal(t, 20, verdict.RiskScore)
	assert.Equal(t, models.RiskLevelLow, verdict.RiskLevel)
	assert.NotEmpty(t, verdict.Explanation)
}

func TestAnalyzeUnconfiguredRemoteNotCalled(t *testing.T) {
	remote := &fakeRemote{configured: false}
	a := NewAnalyzer(remote, testLogger())

	_, source := a.Analyze(context.Background(), "urgent")

	assert.Equal(t, models.VerdictSourceHeuristic, source)
	assert.Zero(t, remote.calls)
}

func TestAnalyzeRemoteSuccessPassthrough(t *testing.T) {
	// The remote verdict is returned verbatim even when its tier
	// disagrees with the local score thresholds.
	want := &models.AnalysisVerdict{
		RiskScore:         10,
		RiskLevel:         models.RiskLevelHigh,
		Explanation:       "remote says so",
		Patterns:          []string{"Something remote noticed"},
		SuspiciousPhrases: []string{"remote phrase"},
	}
	remote := &fakeRemote{configured: true, verdict: want}
	a := NewAnalyzer(remote, testLogger())

	got, source := a.Analyze(context.Background(), "any message at all")

	assert.Equal(t, models.VerdictSourceRemote, source)
	assert.Same(t, want, got)
	assert.Equal(t, 1, remote.calls)
}

func TestAnalyzeRemoteFailureFallsBack(t *testing.T) {
	msg := "URGENT!!! Your account is suspended. Click here to verify account now: http://bit.ly/x"

	for _, remoteErr := range []error{
		ErrRemoteCallFailed,
		ErrInvalidResponseFormat,
		ErrInvalidResponseSchema,
		errors.New("something else entirely"),
	} {
		remote := &fakeRemote{configured: true, err: remoteErr}
		a := NewAnalyzer(remote, testLogger())

		got, source := a.Analyze(context.Background(), msg)

		require.NotNil(t, got, "error %v", remoteErr)
		assert.Equal(t, models.VerdictSourceHeuristic, source)
		assert.Equal(t, 1, remote.calls, "exactly one remote attempt, no retries")

		// Fallback must equal the heuristic-only verdict for the same input
		heuristicOnly := NewAnalyzer(nil, testLogger())
		want, _ := heuristicOnly.Analyze(context.Background(), msg)
		assert.Equal(t, want, got)
	}
}

func TestAnalyzeHeuristicVerdictShape(t *testing.T) {
	a := NewAnalyzer(nil, testLogger())

	verdict, _ := a.Analyze(context.Background(), "Hey, are we still on for lunch tomorrow?")

	assert.Equal(t, 0, verdict.RiskScore)
	assert.Equal(t, models.RiskLevelLow, verdict.RiskLevel)
	assert.Equal(t, []string{models.NoPatternsDetected}, verdict.Patterns)
	assert.NotNil(t, verdict.SuspiciousPhrases)
	assert.Empty(t, verdict.SuspiciousPhrases)
	assert.Contains(t, verdict.Explanation, "appears legitimate")
}
