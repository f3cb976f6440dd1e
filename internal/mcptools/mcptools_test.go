package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studioops/internal/catalog"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/pricing"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/alexanderramin/studioops/internal/testutil"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cabinetDescription = "Build a small cabinet using plywood, needs a carpenter for 16 hours"

// newTestPlans wires a plan service over an in-memory database with one
// plywood quote from Timber Ltd.
func newTestPlans(t *testing.T) service.PlanService {
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
	return service.NewPlanService(service.PlanServiceDeps{
		Plans:    repository.NewSQLitePlanRepo(database),
		UoW:      testutil.NewTestUoW(database),
		Builder:  estimate.NewBuilder(estimate.NewKeywordExtractor(nil), pricer, 4, nil),
		Pricer:   pricer,
		Currency: "NIS",
	})
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

type planJSON struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Total string `json:"total"`
	Items []struct {
		Title    string `json:"title"`
		Subtotal string `json:"subtotal"`
	} `json:"items"`
}

func decodePlan(t *testing.T, r *mcp.CallToolResult) planJSON {
	t.Helper()
	require.False(t, r.IsError, "tool error: %s", resultText(r))
	var p planJSON
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &p))
	return p
}

func generate(t *testing.T, plans service.PlanService) planJSON {
	t.Helper()
	res, err := NewGenerateTool(plans).Handle(context.Background(), makeReq(map[string]any{
		"description":   cabinetDescription,
		"margin_target": "0.25",
	}))
	require.NoError(t, err)
	return decodePlan(t, res)
}

func TestDefinitions(t *testing.T) {
	plans := newTestPlans(t)
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewGenerateTool(plans).Definition(), "plan_generate", []string{"description"}},
		{NewShowTool(plans).Definition(), "plan_show", []string{"plan_id"}},
		{NewListTool(plans).Definition(), "plan_list", nil},
		{NewEditTool(plans).Definition(), "plan_edit", []string{"plan_id", "op"}},
		{NewApproveTool(plans).Definition(), "plan_approve", []string{"plan_id"}},
		{NewPriceTool(plans).Definition(), "price_resolve", []string{"name", "category"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.def.Name)
			assert.ElementsMatch(t, tt.required, tt.def.InputSchema.Required)
			for _, r := range tt.required {
				assert.Contains(t, tt.def.InputSchema.Properties, r)
			}
		})
	}
}

func TestGenerateTool(t *testing.T) {
	plans := newTestPlans(t)
	p := generate(t, plans)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "2445.99", p.Total)
	require.Len(t, p.Items, 2)

	stored, err := plans.GetPlan(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2445.99", stored.Total().String())
}

func TestGenerateTool_Errors(t *testing.T) {
	plans := newTestPlans(t)
	tool := NewGenerateTool(plans)
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing description", map[string]any{}, "'description' is required"},
		{"bad margin", map[string]any{"description": "plywood", "margin_target": "lots"}, "not a number"},
		{"margin out of range", map[string]any{"description": "plywood", "margin_target": "1"}, "margin"},
		{"unknown project", map[string]any{"description": "plywood", "project_id": "nope"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Handle(context.Background(), makeReq(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}

func TestShowAndListTools(t *testing.T) {
	plans := newTestPlans(t)
	p := generate(t, plans)

	res, err := NewShowTool(plans).Handle(context.Background(), makeReq(map[string]any{"plan_id": p.ID}))
	require.NoError(t, err)
	assert.Equal(t, p.ID, decodePlan(t, res).ID)

	res, err = NewShowTool(plans).Handle(context.Background(), makeReq(map[string]any{"plan_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = NewListTool(plans).Handle(context.Background(), makeReq(map[string]any{}))
	require.NoError(t, err)
	var list []planJSON
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &list))
	assert.Len(t, list, 1)
}

func TestEditTool(t *testing.T) {
	plans := newTestPlans(t)
	p := generate(t, plans)
	edit := NewEditTool(plans)
	ctx := context.Background()

	res, err := edit.Handle(ctx, makeReq(map[string]any{
		"plan_id": p.ID,
		"op":      "add",
		"item": map[string]any{
			"category":   "logistics",
			"title":      "Delivery",
			"quantity":   "1",
			"unit":       "trip",
			"unit_price": "150",
			"details":    map[string]any{"distance_km": "20"},
		},
	}))
	require.NoError(t, err)
	added := decodePlan(t, res)
	require.Len(t, added.Items, 3)
	assert.Equal(t, "2595.99", added.Total)

	res, err = edit.Handle(ctx, makeReq(map[string]any{
		"plan_id": p.ID,
		"op":      "update",
		"index":   float64(0),
		"patch":   `{"quantity": "8"}`,
	}))
	require.NoError(t, err)
	updated := decodePlan(t, res)
	assert.Equal(t, "367.92", updated.Items[0].Subtotal)

	res, err = edit.Handle(ctx, makeReq(map[string]any{"plan_id": p.ID, "op": "delete", "index": float64(2)}))
	require.NoError(t, err)
	assert.Equal(t, "2767.92", decodePlan(t, res).Total)
}

func TestEditTool_Errors(t *testing.T) {
	plans := newTestPlans(t)
	p := generate(t, plans)
	edit := NewEditTool(plans)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing plan", map[string]any{"op": "delete", "index": float64(0)}, "'plan_id' is required"},
		{"unknown op", map[string]any{"plan_id": p.ID, "op": "rename"}, "'op' must be"},
		{"add without item", map[string]any{"plan_id": p.ID, "op": "add"}, "'item' is required"},
		{"add bad category", map[string]any{"plan_id": p.ID, "op": "add", "item": map[string]any{"category": "food", "title": "Lunch"}}, "invalid 'item'"},
		{"fractional index", map[string]any{"plan_id": p.ID, "op": "delete", "index": 1.5}, "'index' must be an integer"},
		{"index out of range", map[string]any{"plan_id": p.ID, "op": "delete", "index": float64(7)}, "out of range"},
		{"empty patch", map[string]any{"plan_id": p.ID, "op": "update", "index": float64(0), "patch": map[string]any{}}, "changes nothing"},
		{"patch not an object", map[string]any{"plan_id": p.ID, "op": "update", "index": float64(0), "patch": "quantity=8"}, "not a valid object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := edit.Handle(context.Background(), makeReq(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.want)
		})
	}

	stored, err := plans.GetPlan(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2445.99", stored.Total().String())
}

func TestApproveTool_LocksPlan(t *testing.T) {
	plans := newTestPlans(t)
	p := generate(t, plans)

	res, err := NewApproveTool(plans).Handle(context.Background(), makeReq(map[string]any{"plan_id": p.ID}))
	require.NoError(t, err)
	assert.Equal(t, "approved", decodePlan(t, res).State)

	res, err = NewEditTool(plans).Handle(context.Background(), makeReq(map[string]any{
		"plan_id": p.ID, "op": "delete", "index": float64(0),
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "approved")
}

func TestPriceTool(t *testing.T) {
	plans := newTestPlans(t)
	tool := NewPriceTool(plans)

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"name": "plywood", "category": "materials"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))
	var got struct {
		UnitPrice string  `json:"unit_price"`
		Vendor    string  `json:"vendor"`
		Conf      float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	assert.Equal(t, "45.99", got.UnitPrice)
	assert.Equal(t, "Timber Ltd", got.Vendor)
	assert.Equal(t, 0.9, got.Conf)

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"name": "plywood", "category": "snacks"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"category": "labor"}))
	require.NoError(t, err)
	assert.True(t, strings.Contains(resultText(res), "'name' is required"))
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, NewServer(newTestPlans(t), "test"))
}
