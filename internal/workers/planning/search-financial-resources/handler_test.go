// internal/workers/planning/search-financial-resources/handler_test.go
package searchfinancialresources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wealth-planner/internal/common/camunda/camundatest"
	apperrors "wealth-planner/internal/common/errors"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(baseURL string) *Config {
	cfg := LoadConfig()
	cfg.SearchAPIBaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	return cfg
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func organic(items ...map[string]interface{}) string {
	data, _ := json.Marshal(map[string]interface{}{"organic_results": items})
	return string(data)
}

func assertDegraded(t *testing.T, output *Output, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.NotNil(t, output.Results)
	assert.Empty(t, output.Results)
	require.NotNil(t, output.Notice)
	assert.Equal(t, apperrors.ErrCodeSearchFailure, output.Notice.Code)
	assert.Equal(t, apperrors.CategoryDegraded, output.Notice.Category)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BuildsRestrictedQuery(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"engine":  q.Get("engine"),
			"q":       q.Get("q"),
			"api_key": q.Get("api_key"),
			"num":     q.Get("num"),
		}
		w.Write([]byte(organic()))
	}))
	defer server.Close()

	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))
	p := models.DefaultProfile()

	_, err := handler.Execute(context.Background(), &Input{Profile: &p, APIKey: "request-key"})

	require.NoError(t, err)
	assert.Equal(t, "google", got["engine"])
	assert.Equal(t, "request-key", got["api_key"])
	assert.Equal(t, "2", got["num"])
	assert.Equal(t,
		"Moderate risk investments India 10 years site:cleartax.in OR site:groww.in OR site:economictimes.indiatimes.com OR site:moneycontrol.com",
		got["q"])
}

func TestHandler_Execute_TruncatesToTwoInOrder(t *testing.T) {
	server := serve(t, http.StatusOK, organic(
		map[string]interface{}{"title": "ELSS funds", "snippet": "Tax saving", "link": "https://cleartax.in/elss"},
		map[string]interface{}{"title": "PPF rates", "snippet": "7.1%", "link": "https://groww.in/ppf"},
		map[string]interface{}{"title": "Third", "snippet": "dropped", "link": "https://moneycontrol.com/x"},
	))
	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "ELSS", APIKey: "k"})

	require.NoError(t, err)
	assert.Nil(t, output.Notice)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "ELSS funds", output.Results[0].Title)
	assert.Equal(t, "https://groww.in/ppf", output.Results[1].Link)
}

func TestHandler_Execute_MissingFieldsDefaultToEmpty(t *testing.T) {
	server := serve(t, http.StatusOK, organic(
		map[string]interface{}{"title": "Only a title"},
		map[string]interface{}{"link": "https://economictimes.indiatimes.com/a", "position": 2},
	))
	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "sip", APIKey: "k"})

	require.NoError(t, err)
	require.Len(t, output.Results, 2)
	assert.Equal(t, models.SearchResult{Title: "Only a title"}, output.Results[0])
	assert.Equal(t, models.SearchResult{Link: "https://economictimes.indiatimes.com/a"}, output.Results[1])
}

func TestHandler_Execute_NoOrganicResults(t *testing.T) {
	server := serve(t, http.StatusOK, `{"search_metadata":{"status":"Success"}}`)
	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "nps", APIKey: "k"})

	require.NoError(t, err)
	assert.Empty(t, output.Results)
	assert.Nil(t, output.Notice)
}

func TestHandler_Execute_FallsBackToConfiguredKey(t *testing.T) {
	var key string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.URL.Query().Get("api_key")
		w.Write([]byte(organic()))
	}))
	defer server.Close()

	cfg := createTestConfig(server.URL)
	cfg.SearchAPIKey = "configured-key"
	handler := NewHandler(cfg, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Query: "fd rates"})

	require.NoError(t, err)
	assert.Equal(t, "configured-key", key)
}

func TestHandler_Execute_MissingKey(t *testing.T) {
	handler := NewHandler(createTestConfig("http://127.0.0.1:1"), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "x"})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, apperrors.ErrMissingCredentials)
}

// ==========================
// Degradation Tests
// ==========================

func TestHandler_Execute_MalformedBodyDegrades(t *testing.T) {
	server := serve(t, http.StatusOK, `{"organic_results": [ {"title": `)
	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "x", APIKey: "k"})
	assertDegraded(t, output, err)
}

func TestHandler_Execute_WrongShapeDegrades(t *testing.T) {
	server := serve(t, http.StatusOK, `{"organic_results": "not a list"}`)
	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "x", APIKey: "k"})
	assertDegraded(t, output, err)
}

func TestHandler_Execute_UpstreamErrorDegrades(t *testing.T) {
	server := serve(t, http.StatusUnauthorized, `{"error":"Invalid API key."}`)
	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "x", APIKey: "bad-key"})
	assertDegraded(t, output, err)
	assert.NotContains(t, output.Notice.Details, "bad-key")
}

func TestHandler_Execute_ErrorFieldWithOKStatusDegrades(t *testing.T) {
	server := serve(t, http.StatusOK, `{"error":"Your account has run out of searches."}`)
	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "x", APIKey: "k"})
	assertDegraded(t, output, err)
	assert.Contains(t, output.Notice.Details, "run out of searches")
}

func TestHandler_Execute_TimeoutDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := createTestConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	handler := NewHandler(cfg, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "x", APIKey: "secret-key"})
	assertDegraded(t, output, err)
	assert.NotContains(t, output.Notice.Details, "secret-key")
}

func TestHandler_Execute_ConnectionRefusedDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	handler := NewHandler(createTestConfig(addr), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Query: "x", APIKey: "k"})
	assertDegraded(t, output, err)
}

// ==========================
// Job Handling
// ==========================

const profileVariables = `{"profile": {"monthlyIncome": 75000, "riskTolerance": "Moderate", "investmentHorizon": 10}}`

func TestHandle_UpstreamErrorCompletesWithNotice(t *testing.T) {
	server := serve(t, http.StatusInternalServerError, `{"error": "internal"}`)
	cfg := createTestConfig(server.URL)
	cfg.SearchAPIKey = "configured-search-key"
	client := camundatest.NewJobClient()

	NewHandler(cfg, logger.NewTestLogger(t)).Handle(context.Background(), client,
		camundatest.Job(31, TaskType, profileVariables))

	cmds := client.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, camundatest.KindComplete, cmds[0].Kind)
	assert.Equal(t, int64(31), cmds[0].JobKey)

	vars := cmds[0].Vars()
	assert.Equal(t, []interface{}{}, vars["resources"])
	notice, ok := vars["searchNotice"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(apperrors.ErrCodeSearchFailure), notice["code"])
	assert.NotContains(t, cmds[0].Variables, "configured-search-key")
}

func TestHandle_ResultsCompleteWithoutNotice(t *testing.T) {
	server := serve(t, http.StatusOK, organic(
		map[string]interface{}{"title": "ELSS", "link": "https://groww.in/elss"},
	))
	cfg := createTestConfig(server.URL)
	cfg.SearchAPIKey = "configured-search-key"
	client := camundatest.NewJobClient()

	NewHandler(cfg, logger.NewTestLogger(t)).Handle(context.Background(), client,
		camundatest.Job(32, TaskType, profileVariables))

	cmds := client.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, camundatest.KindComplete, cmds[0].Kind)
	vars := cmds[0].Vars()
	assert.Len(t, vars["resources"], 1)
	assert.NotContains(t, vars, "searchNotice")
}

func TestHandle_NoKeyThrowsMissingCredentials(t *testing.T) {
	client := camundatest.NewJobClient()

	NewHandler(createTestConfig("http://127.0.0.1:1"), logger.NewTestLogger(t)).Handle(context.Background(), client,
		camundatest.Job(33, TaskType, profileVariables))

	cmds := client.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, camundatest.KindThrow, cmds[0].Kind)
	assert.Equal(t, string(apperrors.ErrCodeMissingCredentials), cmds[0].ErrorCode)
}
