package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sijun-kevin-hu/scam-detector/internal/config"
	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
)

// newGeminiServer returns a test server replying with the given model
// text wrapped in the generateContent response envelope.
func newGeminiServer(t *testing.T, modelText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("x-goog-api-key"))

		resp := map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"parts": []map[string]any{{"text": modelText}},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, serverURL string) *GeminiClient {
	t.Helper()
	c := NewGeminiClient(config.GeminiConfig{
		APIKey: "test-key",
		Model:  "gemini-1.5-flash",
	}, testLogger())
	c.baseURL = serverURL
	return c
}

func TestGeminiClassifyFencedResponse(t *testing.T) {
	srv := newGeminiServer(t, "```json\n{\"riskScore\": 85, \"riskLevel\": \"high\", "+
		"\"explanation\": \"classic phishing\", \"patterns\": [\"Impersonation of official organizations\"], "+
		"\"suspiciousPhrases\": [\"verify account\"]}\n```")
	defer srv.Close()

	verdict, err := newTestClient(t, srv.URL).Classify(context.Background(), "some message")

	require.NoError(t, err)
	assert.Equal(t, 85, verdict.RiskScore)
	assert.Equal(t, models.RiskLevelHigh, verdict.RiskLevel)
	assert.Equal(t, "classic phishing", verdict.Explanation)
	assert.Equal(t, []string{"Impersonation of official organizations"}, verdict.Patterns)
	assert.Equal(t, []string{"verify account"}, verdict.SuspiciousPhrases)
}

func TestGeminiClassifyProseWrappedJSON(t *testing.T) {
	srv := newGeminiServer(t, "Here is my analysis:\n{\"riskScore\": 5, \"riskLevel\": \"low\", "+
		"\"explanation\": \"looks fine\", \"patterns\": [], \"suspiciousPhrases\": []}\nLet me know if you need more.")
	defer srv.Close()

	verdict, err := newTestClient(t, srv.URL).Classify(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, 5, verdict.RiskScore)
	assert.Equal(t, models.RiskLevelLow, verdict.RiskLevel)
	// An empty patterns list is normalized to the sentinel entry
	assert.Equal(t, []string{models.NoPatternsDetected}, verdict.Patterns)
}

func TestGeminiClassifyUnparsable(t *testing.T) {
	srv := newGeminiServer(t, "I think this is probably a scam, be careful!")
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Classify(context.Background(), "msg")

	assert.ErrorIs(t, err, ErrInvalidResponseFormat)
}

func TestGeminiClassifyMissingScore(t *testing.T) {
	srv := newGeminiServer(t, `{"riskLevel": "high", "explanation": "bad"}`)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Classify(context.Background(), "msg")

	assert.ErrorIs(t, err, ErrInvalidResponseSchema)
}

func TestGeminiClassifyInvalidLevel(t *testing.T) {
	srv := newGeminiServer(t, `{"riskScore": 55, "riskLevel": "critical", "explanation": "bad"}`)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Classify(context.Background(), "msg")

	assert.ErrorIs(t, err, ErrInvalidResponseSchema)
}

func TestGeminiClassifyScoreOutOfRange(t *testing.T) {
	srv := newGeminiServer(t, `{"riskScore": 250, "riskLevel": "high", "explanation": "bad"}`)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Classify(context.Background(), "msg")

	assert.ErrorIs(t, err, ErrInvalidResponseSchema)
}

func TestGeminiClassifyServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Classify(context.Background(), "msg")

	assert.ErrorIs(t, err, ErrRemoteCallFailed)
}

func TestGeminiClassifyNoCredential(t *testing.T) {
	c := NewGeminiClient(config.GeminiConfig{}, testLogger())

	assert.False(t, c.Configured())

	_, err := c.Classify(context.Background(), "msg")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"prose around", "sure:\n{\"a\":1}\nthanks", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
