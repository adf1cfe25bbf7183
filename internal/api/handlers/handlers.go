package handlers

import (
	"github.com/sijun-kevin-hu/scam-detector/internal/domain/services/ai"
	"github.com/sijun-kevin-hu/scam-detector/internal/infrastructure/cache"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Analysis *AnalysisHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Analyzer *ai.Analyzer
	Cache    *cache.RedisCache
	Logger   *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.Analyzer, deps.Logger),
		Analysis: NewAnalysisHandler(deps.Analyzer, deps.Cache, deps.Logger),
	}
}
