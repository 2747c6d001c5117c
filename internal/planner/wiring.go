package planner

import (
	"wealth-planner/internal/common/config"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/models"
	gfp "wealth-planner/internal/workers/planning/generate-financial-plan"
	sfr "wealth-planner/internal/workers/planning/search-financial-resources"
	vfp "wealth-planner/internal/workers/planning/validate-financial-profile"
)

// Handlers holds one handler per planning task. The same instances serve
// the in-process pipeline and the Zeebe job workers.
type Handlers struct {
	Validator *vfp.Handler
	Searcher  *sfr.Handler
	Generator *gfp.Handler
}

// NewHandlers builds the planning handlers from application config.
func NewHandlers(cfg *config.Config, log logger.Logger) Handlers {
	vcfg := vfp.LoadConfig()
	if w, ok := cfg.Workers[vfp.TaskType]; ok && w.Timeout > 0 {
		vcfg.Timeout = config.GetDuration(w.Timeout)
	}

	scfg := sfr.LoadConfig()
	ws := cfg.APIs.WebSearch
	scfg.SearchAPIBaseURL = ws.BaseURL
	scfg.SearchAPIKey = ws.APIKey
	scfg.Engine = ws.Engine
	scfg.AllowedDomains = ws.AllowedDomains
	scfg.MaxResults = ws.MaxResults
	scfg.Timeout = config.GetDuration(ws.Timeout)

	gcfg := gfp.LoadConfig()
	g := cfg.APIs.GenAI
	gcfg.Model = g.Model
	gcfg.GenAIAPIKey = g.APIKey
	gcfg.GenAIBaseURL = g.BaseURL
	gcfg.Timeout = config.GetDuration(g.Timeout)

	return Handlers{
		Validator: vfp.NewHandler(vcfg, log),
		Searcher:  sfr.NewHandler(scfg, log),
		Generator: gfp.NewHandler(gcfg, nil, log),
	}
}

// NewFromConfig assembles a pipeline whose blank request keys fall back to configured ones.
func NewFromConfig(cfg *config.Config, log logger.Logger, opts ...Option) *Pipeline {
	h := NewHandlers(cfg, log)
	opts = append([]Option{WithFallbackCredentials(models.Credentials{
		SearchAPIKey: cfg.APIs.WebSearch.APIKey,
		GenAIAPIKey:  cfg.APIs.GenAI.APIKey,
	})}, opts...)
	return New(h.Validator, h.Searcher, h.Generator, log, opts...)
}
