// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-planner/internal/common/camunda"
	"wealth-planner/internal/common/config"
	"wealth-planner/internal/common/logger"
	"wealth-planner/internal/planner"
	"wealth-planner/internal/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubs stands in for the search API and the Gemini endpoint.
type stubs struct {
	search      *httptest.Server
	genai       *httptest.Server
	searchCalls atomic.Int32
	genaiCalls  atomic.Int32
	prompt      atomic.Value
	searchDown  bool
}

func newStubs(t *testing.T, searchDown bool) *stubs {
	s := &stubs{searchDown: searchDown}

	s.search = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.searchCalls.Add(1)
		if s.searchDown {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, "search-key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results":[
			{"title":"ELSS funds explained","snippet":"Save tax under 80C","link":"https://cleartax.in/s/elss"},
			{"title":"PPF interest rate","snippet":"7.1% p.a.","link":"https://groww.in/ppf"},
			{"title":"third result","link":"https://moneycontrol.com/x"}
		]}`))
	}))

	s.genai = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.genaiCalls.Add(1)
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			s.prompt.Store(body.Contents[0].Parts[0].Text)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"## 1. Emergency Fund\n\nBuild **₹4,50,000**."}]}}]}`))
	}))

	t.Cleanup(func() {
		s.search.CloseClientConnections()
		s.search.Close()
		s.genai.CloseClientConnections()
		s.genai.Close()
	})
	return s
}

func (s *stubs) config() *config.Config {
	cfg := &config.Config{}
	cfg.APIs.GenAI.Model = config.DefaultGenAIModel
	cfg.APIs.GenAI.BaseURL = s.genai.URL + "/"
	cfg.APIs.GenAI.Timeout = 5000
	cfg.APIs.WebSearch.BaseURL = s.search.URL
	cfg.APIs.WebSearch.Engine = config.DefaultSearchEngine
	cfg.APIs.WebSearch.Timeout = 5000
	cfg.APIs.WebSearch.MaxResults = config.MaxSearchResults
	cfg.APIs.WebSearch.AllowedDomains = config.DefaultAllowedDomains
	return cfg
}

func newServer(t *testing.T, s *stubs) *httptest.Server {
	log := logger.NewTestLogger(t)
	cfg := s.config()
	router := web.NewRouter(planner.NewFromConfig(cfg, log), cfg.Server, log)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postPlan(t *testing.T, srv *httptest.Server, body string) (int, map[string]interface{}) {
	resp, err := http.Post(srv.URL+"/api/v1/plans", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

const childEducationProfile = `{
	"profile": {
		"monthlyIncome": 75000, "monthlyExpenses": 45000, "currentSavings": 150000,
		"riskTolerance": "Moderate", "investmentHorizon": 10,
		"financialGoals": "Save for child's education", "existingInvestments": "PPF",
		"epfContribution": 12, "taxSlab": "30%"
	},
	"credentials": {"searchApiKey": "search-key", "genaiApiKey": "genai-key"}
}`

func TestPlanAPI_FullFlow(t *testing.T) {
	s := newStubs(t, false)
	srv := newServer(t, s)

	status, out := postPlan(t, srv, childEducationProfile)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", out["outcome"])
	assert.Contains(t, out["plan"], "Emergency Fund")
	assert.Len(t, out["resources"], 2)

	validation := out["validation"].(map[string]interface{})
	advisories := validation["advisories"].([]interface{})
	require.Len(t, advisories, 1)
	assert.Equal(t, "LOW_EMERGENCY_FUND", advisories[0].(map[string]interface{})["code"])

	assert.EqualValues(t, 1, s.searchCalls.Load())
	assert.EqualValues(t, 1, s.genaiCalls.Load())
	prompt, _ := s.prompt.Load().(string)
	assert.Contains(t, prompt, "ELSS funds explained")
	assert.NotContains(t, prompt, "third result")
}

func TestPlanAPI_SearchOutageStillPlans(t *testing.T) {
	s := newStubs(t, true)
	srv := newServer(t, s)

	status, out := postPlan(t, srv, childEducationProfile)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "degraded", out["outcome"])
	assert.Empty(t, out["resources"])
	assert.NotNil(t, out["plan"])
	notices := out["notices"].([]interface{})
	require.Len(t, notices, 1)
	assert.Equal(t, "SEARCH_FAILURE", notices[0].(map[string]interface{})["code"])
}

func TestPlanAPI_BlockedProfileMakesNoExternalCalls(t *testing.T) {
	s := newStubs(t, false)
	srv := newServer(t, s)

	status, out := postPlan(t, srv, `{
		"profile": {"monthlyIncome": 75000, "monthlyExpenses": 60000, "currentSavings": 0,
			"riskTolerance": "Aggressive", "investmentHorizon": 20, "financialGoals": "education"},
		"credentials": {"searchApiKey": "search-key", "genaiApiKey": "genai-key"}
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "blocked", out["outcome"])
	assert.Nil(t, out["plan"])
	assert.Zero(t, s.searchCalls.Load())
	assert.Zero(t, s.genaiCalls.Load())
}

func TestPlanAPI_OversizedAmountIsInvalidProfile(t *testing.T) {
	s := newStubs(t, false)
	srv := newServer(t, s)

	status, out := postPlan(t, srv, `{
		"profile": {"monthlyIncome": 1e400, "monthlyExpenses": 45000, "currentSavings": 150000,
			"riskTolerance": "moderate", "investmentHorizon": 10, "financialGoals": "retirement"},
		"credentials": {"searchApiKey": "search-key", "genaiApiKey": "genai-key"}
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_PROFILE", out["error"].(map[string]interface{})["code"])
	assert.Zero(t, s.searchCalls.Load())
	assert.Zero(t, s.genaiCalls.Load())
}

func TestPlanAPI_MissingKeysRejected(t *testing.T) {
	s := newStubs(t, false)
	srv := newServer(t, s)

	status, out := postPlan(t, srv, `{"profile": {"monthlyIncome": 75000}, "credentials": {"searchApiKey": "search-key"}}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_CREDENTIALS", out["error"].(map[string]interface{})["code"])
	assert.Zero(t, s.searchCalls.Load())
}

// TestBrokerConnectivity runs only against a live gateway, e.g. ZEEBE_ADDRESS=localhost:26500.
func TestBrokerConnectivity(t *testing.T) {
	addr := os.Getenv("ZEEBE_ADDRESS")
	if addr == "" {
		t.Skip("ZEEBE_ADDRESS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := camunda.NewClient(ctx, addr, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.HealthCheck(ctx))
}
