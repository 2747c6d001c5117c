// Package web serves the planner over an HTML form and a JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"wealth-planner/internal/common/config"
	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/models"
	"wealth-planner/internal/planner"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SurfaceWeb = "web"
	SurfaceAPI = "api"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Planner runs a single plan request.
type Planner interface {
	Run(ctx context.Context, req planner.Request) (*planner.Response, error)
}

// ReadyFunc reports whether downstream dependencies are reachable.
type ReadyFunc func(ctx context.Context) error

type Server struct {
	planner  Planner
	markdown *MarkdownRenderer
	logger   logger.Logger
	ready    ReadyFunc
	timeout  time.Duration
}

type ServerOption func(*Server)

func WithReadiness(fn ReadyFunc) ServerOption {
	return func(s *Server) { s.ready = fn }
}

// WithRequestTimeout bounds a single plan request end to end.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(p Planner, cfg config.ServerConfig, log logger.Logger, opts ...ServerOption) *gin.Engine {
	s := &Server{
		planner:  p,
		markdown: NewMarkdownRenderer(),
		logger:   log.With(map[string]interface{}{"component": "web"}),
		timeout:  2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(template.FuncMap{
			"finding": func(class string, err *apperrors.StandardError) findingView {
				return findingView{Class: class, Err: err}
			},
		}).ParseFS(templatesFS, "templates/*.html"),
	))

	router.GET("/", s.showForm)
	router.POST("/plan", s.submitForm)
	router.POST("/api/v1/plans", s.createPlan)

	s.mountOperational(router)
	return router
}

// NewOperationalRouter serves only health, readiness and metrics.
func NewOperationalRouter(log logger.Logger, opts ...ServerOption) *gin.Engine {
	s := &Server{logger: log.With(map[string]interface{}{"component": "web"})}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	s.mountOperational(router)
	return router
}

func (s *Server) mountOperational(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/ready", s.readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}

func (s *Server) readiness(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) run(c *gin.Context, surface string, profile models.FinancialProfile, creds models.Credentials) (*planner.Response, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()
	return s.planner.Run(ctx, planner.NewRequest(surface, profile, creds))
}

// ==========================
// JSON API
// ==========================

type planRequest struct {
	Profile     *models.FinancialProfile `json:"profile"`
	Credentials struct {
		SearchAPIKey string `json:"searchApiKey"`
		GenAIAPIKey  string `json:"genaiApiKey"`
	} `json:"credentials"`
}

func (s *Server) createPlan(c *gin.Context) {
	var body planRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.NewInvalidProfileError(err.Error(), nil)})
		return
	}
	if body.Profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.NewInvalidProfileError("profile is required", nil)})
		return
	}

	resp, err := s.run(c, SurfaceAPI, *body.Profile, models.Credentials{
		SearchAPIKey: body.Credentials.SearchAPIKey,
		GenAIAPIKey:  body.Credentials.GenAIAPIKey,
	})
	if err != nil {
		std := apperrors.NewInternalError(err)
		c.JSON(std.HTTPStatus(), gin.H{"error": std})
		return
	}
	c.JSON(resp.HTTPStatus(), resp)
}

// ==========================
// HTML form
// ==========================

type findingView struct {
	Class string
	Err   *apperrors.StandardError
}

type formView struct {
	Title       string
	Form        PlanForm
	RiskOptions []models.RiskTolerance
	TaxSlabs    []models.TaxSlab
	Errors      []*apperrors.StandardError
}

type resultView struct {
	Title      string
	Blocking   []*apperrors.StandardError
	Advisories []*apperrors.StandardError
	Notices    []*apperrors.StandardError
	PlanHTML   template.HTML
	Resources  []models.SearchResult
}

func (s *Server) renderForm(c *gin.Context, status int, form PlanForm, errs ...*apperrors.StandardError) {
	c.HTML(status, "form", formView{
		Title:       "Wealth Planner",
		Form:        form.Redacted(),
		RiskOptions: models.RiskTolerances,
		TaxSlabs:    models.TaxSlabs,
		Errors:      errs,
	})
}

func (s *Server) showForm(c *gin.Context) {
	s.renderForm(c, http.StatusOK, DefaultPlanForm())
}

func (s *Server) submitForm(c *gin.Context) {
	var form PlanForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderForm(c, http.StatusBadRequest, form, apperrors.NewInvalidProfileError(err.Error(), nil))
		return
	}

	profile, err := form.Profile()
	if err != nil {
		s.renderForm(c, http.StatusBadRequest, form, apperrors.Normalize(err))
		return
	}

	resp, err := s.run(c, SurfaceWeb, profile, form.Credentials())
	if err != nil {
		s.logger.Error("plan request failed", map[string]interface{}{"error": err.Error()})
		s.renderForm(c, http.StatusInternalServerError, form, apperrors.NewInternalError(err))
		return
	}

	if resp.Error != nil && errors.Is(resp.Error, apperrors.ErrMissingCredentials) {
		s.renderForm(c, http.StatusOK, form, resp.Error)
		return
	}

	view := resultView{
		Title:      "Your Wealth Plan",
		Blocking:   resp.Blocking(),
		Advisories: resp.Advisories(),
		Notices:    resp.Notices,
		Resources:  resp.Resources,
	}
	if resp.HasPlan() {
		view.PlanHTML = s.markdown.Render(*resp.Plan)
	}
	c.HTML(http.StatusOK, "result", view)
}
