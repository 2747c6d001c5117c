// Package planner runs one plan request through validation, resource search and plan generation.
package planner

import (
	"context"
	"time"

	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/common/metrics"
	"wealth-planner/internal/common/observability"
	"wealth-planner/internal/models"
	gfp "wealth-planner/internal/workers/planning/generate-financial-plan"
	sfr "wealth-planner/internal/workers/planning/search-financial-resources"
	vfp "wealth-planner/internal/workers/planning/validate-financial-profile"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Validator interface {
	Execute(ctx context.Context, input *vfp.Input) (*vfp.Output, error)
}

type Searcher interface {
	Execute(ctx context.Context, input *sfr.Input) (*sfr.Output, error)
}

type Generator interface {
	Execute(ctx context.Context, input *gfp.Input) (*gfp.Output, error)
}

type Pipeline struct {
	validator Validator
	searcher  Searcher
	generator Generator
	obs       *observability.Observability
	logger    logger.Logger
	fallback  models.Credentials
	now       func() time.Time
}

type Option func(*Pipeline)

// WithFallbackCredentials fills keys a request leaves blank.
func WithFallbackCredentials(c models.Credentials) Option {
	return func(p *Pipeline) { p.fallback = c }
}

func WithObservability(obs *observability.Observability) Option {
	return func(p *Pipeline) { p.obs = obs }
}

// New builds a pipeline. A nil logger discards output.
func New(v Validator, s Searcher, g Generator, log logger.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	p := &Pipeline{
		validator: v,
		searcher:  s,
		generator: g,
		obs:       observability.NewNoop(),
		logger:    log.With(map[string]interface{}{"component": "planner"}),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the request. The error is reserved for unexpected internal failures;
// blocking findings and degraded stages are reported in the Response.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	log := p.logger.With(map[string]interface{}{"requestId": req.ID, "surface": req.Surface})

	ctx, span := p.obs.StartSpan(ctx, "plan.request",
		attribute.String("request.id", req.ID),
		attribute.String("request.surface", req.Surface),
	)
	defer span.End()

	resp, err := p.run(ctx, req, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Error("plan request failed", nil)
		return nil, err
	}

	resp.FinishedAt = p.now().UTC()
	span.SetAttributes(attribute.String("plan.outcome", string(resp.Outcome)))
	metrics.PlanRequestsTotal.WithLabelValues(req.Surface, string(resp.Outcome)).Inc()
	p.obs.RecordPlanRequest(ctx, string(resp.Outcome), time.Since(start))

	log.Info("plan request finished", map[string]interface{}{
		"outcome":     resp.Outcome,
		"hasPlan":     resp.HasPlan(),
		"resources":   len(resp.Resources),
		"noticeCount": len(resp.Notices),
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return resp, nil
}

func (p *Pipeline) run(ctx context.Context, req Request, log logger.Logger) (*Response, error) {
	resp := &Response{
		RequestID: req.ID,
		Resources: []models.SearchResult{},
		Notices:   []*apperrors.StandardError{},
	}

	creds := req.Credentials.WithFallback(p.fallback)
	if missing := creds.Missing(); len(missing) > 0 {
		resp.Outcome = OutcomeRejected
		resp.Error = apperrors.NewMissingCredentialsError(missing...)
		return resp, nil
	}

	vctx, vspan := p.obs.StartSpan(ctx, "plan.validate")
	validation, err := p.validator.Execute(vctx, &vfp.Input{Profile: req.Profile})
	vspan.End()
	if err != nil {
		return nil, err
	}
	resp.Validation = validation
	if !validation.Passed {
		resp.Outcome = OutcomeBlocked
		resp.Error = validation.FirstBlocking()
		log.Info("profile rejected", map[string]interface{}{"code": resp.Error.Code})
		return resp, nil
	}

	profile := req.Profile
	sctx, sspan := p.obs.StartSpan(ctx, "plan.search")
	search, err := p.searcher.Execute(sctx, &sfr.Input{Profile: &profile, APIKey: creds.SearchAPIKey})
	sspan.End()
	if err != nil {
		if halt := p.absorb(resp, err); halt {
			return resp, nil
		}
	} else {
		resp.Resources = search.Results
		if search.Notice != nil {
			resp.Notices = append(resp.Notices, search.Notice)
		}
	}

	gctx, gspan := p.obs.StartSpan(ctx, "plan.generate")
	plan, err := p.generator.Execute(gctx, &gfp.Input{
		Profile:   req.Profile,
		Resources: resp.Resources,
		APIKey:    creds.GenAIAPIKey,
	})
	if err != nil {
		gspan.SetStatus(codes.Error, err.Error())
	}
	gspan.End()
	if err != nil {
		if halt := p.absorb(resp, err); halt {
			return resp, nil
		}
	} else {
		text := plan.Plan
		resp.Plan = &text
	}

	resp.Outcome = OutcomeCompleted
	if len(resp.Notices) > 0 {
		resp.Outcome = OutcomeDegraded
	}
	return resp, nil
}

// absorb turns a stage error into a notice, or halts the request when it is blocking.
func (p *Pipeline) absorb(resp *Response, err error) bool {
	std := apperrors.Normalize(err)
	if std.Blocking() {
		resp.Outcome = OutcomeRejected
		resp.Error = std
		return true
	}
	resp.Notices = append(resp.Notices, std)
	return false
}
