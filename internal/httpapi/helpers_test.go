package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/studioops/internal/catalog"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/pricing"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/alexanderramin/studioops/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const cabinetDescription = "Build a small cabinet using plywood, needs a carpenter for 16 hours"

type testServer struct {
	router   *gin.Engine
	plans    service.PlanService
	projects service.ProjectService
}

// newTestServer wires the API over an in-memory database holding one
// plywood quote from Timber Ltd.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	vendors := repository.NewSQLiteVendorRepo(database)
	quotes := repository.NewSQLiteQuoteRepo(database)
	vendor := testutil.NewTestVendor("Timber Ltd")
	require.NoError(t, vendors.Create(ctx, vendor))
	require.NoError(t, quotes.Create(ctx, testutil.NewTestQuote(vendor.ID, "plywood", "45.99",
		testutil.WithConfidence(0.9), testutil.WithUnit("sheet"))))

	pricer := pricing.NewService(catalog.NewGuarded(quotes, time.Second, nil), pricing.NewResolver(nil))
	plans := service.NewPlanService(service.PlanServiceDeps{
		Plans:    repository.NewSQLitePlanRepo(database),
		UoW:      testutil.NewTestUoW(database),
		Builder:  estimate.NewBuilder(estimate.NewKeywordExtractor(nil), pricer, 4, nil),
		Pricer:   pricer,
		Currency: "NIS",
	})
	projects := service.NewProjectService(repository.NewSQLiteProjectRepo(database))

	return &testServer{
		router:   NewRouter(plans, projects, discardLogger(), gin.TestMode),
		plans:    plans,
		projects: projects,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// do sends a request and decodes the envelope. Data stays raw so each test
// can decode it into the shape it expects.
func (s *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	return doRequest(t, s.router, method, path, body)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// planView mirrors the plan JSON with money as strings, which is how
// clients see it.
type planView struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Currency  string `json:"currency"`
	State     string `json:"state"`
	Total     string `json:"total"`
	Items     []struct {
		Index     int    `json:"index"`
		Category  string `json:"category"`
		Title     string `json:"title"`
		Quantity  string `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		Subtotal  string `json:"subtotal"`
		Source    *struct {
			Vendor string `json:"vendor"`
		} `json:"unit_price_source"`
	} `json:"items"`
}

func (s *testServer) createPlan(t *testing.T) planView {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/v1/plans", map[string]any{
		"description":   cabinetDescription,
		"margin_target": "0.25",
	})
	require.Equal(t, http.StatusCreated, code, "error: %+v", env.Error)
	return decodeData[planView](t, env)
}
