// internal/workers/planning/search-financial-resources/handler.go
package searchfinancialresources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "wealth-planner/internal/common/errors"
	httpclient "wealth-planner/internal/common/http"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/common/metrics"
	"wealth-planner/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-financial-resources"
)

var whitespace = regexp.MustCompile(`\s+`)

type Handler struct {
	config       *Config
	client       *httpclient.Client
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       httpclient.NewClient(config.Timeout),
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInternalError(fmt.Errorf("parse input: %w", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// execute only returns an error when it cannot run at all; lookup failures
// come back as an empty result set with a notice.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	apiKey := input.APIKey
	if apiKey == "" {
		apiKey = h.config.SearchAPIKey
	}
	if apiKey == "" {
		return nil, apperrors.NewMissingCredentialsError(models.CredentialSearch)
	}

	query := input.Query
	if query == "" && input.Profile != nil {
		query = input.Profile.SearchQuery()
	}
	query = h.buildQuery(query)

	searchURL, err := h.buildSearchURL(query, apiKey)
	if err != nil {
		return h.degrade(err), nil
	}

	start := time.Now()
	var resp searchResponse
	err = h.client.GetJSON(ctx, searchURL, &resp)
	if err == nil && resp.Error != "" {
		err = errors.New(resp.Error)
	}
	if err != nil {
		metrics.ExternalCallDuration.WithLabelValues("search", "error").Observe(time.Since(start).Seconds())
		return h.degrade(err), nil
	}
	metrics.ExternalCallDuration.WithLabelValues("search", "ok").Observe(time.Since(start).Seconds())

	results := h.processResults(resp.OrganicResults)

	h.logger.Info("web search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(results),
	})

	return &Output{Results: results}, nil
}

// buildQuery appends the domain restriction clause.
func (h *Handler) buildQuery(query string) string {
	sites := make([]string, len(h.config.AllowedDomains))
	for i, d := range h.config.AllowedDomains {
		sites[i] = "site:" + d
	}
	query = strings.TrimSpace(query + " " + strings.Join(sites, " OR "))
	return whitespace.ReplaceAllString(query, " ")
}

func (h *Handler) buildSearchURL(query, apiKey string) (string, error) {
	baseURL, err := url.Parse(h.config.SearchAPIBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid search base url: %w", err)
	}
	params := url.Values{}
	params.Add("engine", h.config.Engine)
	params.Add("q", query)
	params.Add("api_key", apiKey)
	params.Add("num", strconv.Itoa(h.config.MaxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String(), nil
}

// processResults keeps API order and truncates, whatever the upstream returned.
func (h *Handler) processResults(items []organicResult) []models.SearchResult {
	limit := h.config.MaxResults
	if len(items) < limit {
		limit = len(items)
	}

	results := make([]models.SearchResult, 0, limit)
	for _, item := range items[:limit] {
		results = append(results, models.SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	return results
}

func (h *Handler) degrade(err error) *Output {
	notice := apperrors.NewSearchFailureError(err)
	h.logger.Warn("web search failed, returning empty results", map[string]interface{}{
		"error": err.Error(),
	})
	return &Output{Results: []models.SearchResult{}, Notice: notice}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, sendErr := cmd.Send(ctx); sendErr != nil {
		h.logger.Error("Failed to send complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  sendErr.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	std := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(std.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, std)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
