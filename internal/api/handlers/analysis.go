package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
	"github.com/sijun-kevin-hu/scam-detector/internal/domain/services/ai"
	"github.com/sijun-kevin-hu/scam-detector/internal/infrastructure/cache"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

// AnalysisHandler handles message analysis endpoints
type AnalysisHandler struct {
	analyzer *ai.Analyzer
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler. cache may be nil:
// the service then runs without operator stats.
func NewAnalysisHandler(analyzer *ai.Analyzer, c *cache.RedisCache, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		cache:    c,
		logger:   log.WithComponent("analysis-handler"),
	}
}

// AnalyzeRequest is the request body for message analysis
type AnalyzeRequest struct {
	Message string `json:"message"`
}

// Analyze handles POST /api/v1/analysis - analyzes a single message.
// The length and emptiness checks live here; the core assumes a
// validated message.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}
	if len(req.Message) > models.MaxMessageLength {
		http.Error(w, "Message exceeds maximum length", http.StatusBadRequest)
		return
	}

	analysisID := uuid.New().String()
	log := h.logger.WithAnalysisID(analysisID)

	verdict, source := h.analyzer.Analyze(r.Context(), req.Message)

	log.Info().
		Int("risk_score", verdict.RiskScore).
		Str("risk_level", string(verdict.RiskLevel)).
		Str("source", string(source)).
		Msg("message analyzed")

	if h.cache != nil {
		h.cache.RecordVerdict(r.Context(), verdict.RiskLevel, source)
		if source == models.VerdictSourceHeuristic && h.analyzer.RemoteConfigured() {
			h.cache.RecordRemoteFailure(r.Context())
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(verdict)
}

// GetPatterns handles GET /api/v1/analysis/patterns - returns the
// indicator catalog for client-side display
func (h *AnalysisHandler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Version     string                 `json:"version"`
		LastUpdated string                 `json:"last_updated"`
		Categories  []ai.IndicatorCategory `json:"categories"`
	}{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Categories:  ai.Catalog(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetStats handles GET /api/v1/analysis/stats - returns aggregate
// analysis counters
func (h *AnalysisHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := &cache.AnalysisStats{
		ByLevel:  map[string]int64{},
		BySource: map[string]int64{},
	}

	if h.cache != nil {
		s, err := h.cache.GetStats(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to read stats")
			http.Error(w, "Stats unavailable", http.StatusInternalServerError)
			return
		}
		stats = s
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
