package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sijun-kevin-hu/scam-detector/internal/config"
	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini text completion API and maps its
// output onto the verdict shape.
type GeminiClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     config.GeminiConfig
	baseURL    string
}

// NewGeminiClient creates a new Gemini client. A zero APIKey is
// allowed; Classify then fails with ErrMissingCredential and the
// caller falls back to the heuristic path.
func NewGeminiClient(cfg config.GeminiConfig, log *logger.Logger) *GeminiClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 500
	}

	return &GeminiClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:  log.WithComponent("gemini-client"),
		config:  cfg,
		baseURL: defaultGeminiBaseURL,
	}
}

// Configured reports whether an API credential is present
func (c *GeminiClient) Configured() bool {
	return c.config.APIKey != ""
}

// geminiRequest is the generateContent request body
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiResponse is the subset of the generateContent response we read
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// remoteVerdict is the JSON object the model is instructed to return.
// RiskScore is a pointer so a missing score is distinguishable from 0.
type remoteVerdict struct {
	RiskScore         *float64 `json:"riskScore"`
	RiskLevel         string   `json:"riskLevel"`
	Explanation       string   `json:"explanation"`
	Patterns          []string `json:"patterns"`
	SuspiciousPhrases []string `json:"suspiciousPhrases"`
}

// Classify sends the message to Gemini and returns the parsed verdict.
// It never fabricates a result: every failure is returned to the
// caller as a typed error.
func (c *GeminiClient) Classify(ctx context.Context, message string) (*models.AnalysisVerdict, error) {
	if !c.Configured() {
		return nil, ErrMissingCredential
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: c.buildPrompt(message)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRemoteCallFailed, resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty candidate list", ErrInvalidResponseFormat)
	}

	var text string
	for _, p := range gr.Candidates[0].Content.Parts {
		text += p.Text
	}

	return c.parseVerdict(text)
}

// buildPrompt builds the single structured prompt for the model
func (c *GeminiClient) buildPrompt(message string) string {
	var sb strings.Builder

	sb.WriteString("You are a cybersecurity expert specializing in scam and phishing detection. ")
	sb.WriteString("Analyze the following message for scam or phishing intent.\n\n")
	sb.WriteString("Message:\n```\n")
	sb.WriteString(message)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Respond with ONLY a JSON object, no markdown and no surrounding text, matching exactly:\n")
	sb.WriteString(`{
  "riskScore": <integer 0-100>,
  "riskLevel": "low" | "medium" | "high",
  "explanation": "<brief explanation for a non-technical reader>",
  "patterns": ["<human-readable descriptions of scam tactics found>"],
  "suspiciousPhrases": ["<phrases quoted verbatim from the message>"]
}`)
	sb.WriteString("\n\nriskLevel must follow the score: 0-30 low, 31-70 medium, 71-100 high. ")
	sb.WriteString("If no indicators are present use riskScore 0 and patterns [\"No scam patterns detected\"].")

	return sb.String()
}

// parseVerdict strips any code fencing the model added despite
// instructions, parses the JSON and validates the required fields.
func (c *GeminiClient) parseVerdict(text string) (*models.AnalysisVerdict, error) {
	text = stripCodeFence(text)

	var rv remoteVerdict
	if err := json.Unmarshal([]byte(text), &rv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}

	if rv.RiskScore == nil {
		return nil, fmt.Errorf("%w: no riskScore", ErrInvalidResponseSchema)
	}
	level := models.RiskLevel(rv.RiskLevel)
	if !level.Valid() {
		return nil, fmt.Errorf("%w: riskLevel %q", ErrInvalidResponseSchema, rv.RiskLevel)
	}

	score := int(*rv.RiskScore)
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: riskScore %d out of range", ErrInvalidResponseSchema, score)
	}

	explanation := strings.TrimSpace(rv.Explanation)
	if explanation == "" {
		explanation = BuildExplanation(score, level, rv.Patterns)
	}

	patterns := rv.Patterns
	if len(patterns) == 0 {
		patterns = []string{models.NoPatternsDetected}
	}

	phrases := rv.SuspiciousPhrases
	if phrases == nil {
		phrases = []string{}
	}

	return &models.AnalysisVerdict{
		RiskScore:         score,
		RiskLevel:         level,
		Explanation:       explanation,
		Patterns:          patterns,
		SuspiciousPhrases: phrases,
	}, nil
}

// stripCodeFence removes ```json / ``` wrapping and trims to the
// outermost JSON object if the model added prose around it.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		text = text[start : end+1]
	}

	return text
}
