package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/studioops/internal/config"
	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/alexanderramin/studioops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "studioops.db")},
		Pricing: config.PricingConfig{
			Currency:        "NIS",
			FanOut:          4,
			LookupTimeoutMs: 1000,
		},
		Catalog: config.CatalogConfig{Mode: config.CatalogSQLite},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func build(t *testing.T, cfg *config.Config) *Services {
	t.Helper()
	svc, err := Build(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestBuild_SQLiteCatalog(t *testing.T) {
	svc := build(t, testConfig(t))
	ctx := context.Background()

	vendor := &domain.Vendor{Name: "Timber Ltd"}
	require.NoError(t, svc.Catalog.AddVendor(ctx, vendor))
	require.NoError(t, svc.Catalog.AddQuote(ctx, testutil.NewTestQuote(vendor.ID, "plywood", "45.99")))

	res, err := svc.Plans.ResolvePrice(ctx, "plywood", domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Equal(t, "Timber Ltd", res.Vendor)
	assert.Equal(t, "45.99", res.UnitPrice.String())

	gen, err := svc.Plans.GeneratePlan(ctx, service.GeneratePlanRequest{Description: "plywood and a painter"})
	require.NoError(t, err)
	assert.Equal(t, "NIS", gen.Plan.Currency())
	require.NoError(t, svc.Plans.SavePlan(ctx, gen.Plan))
}

func TestBuild_PersistsAcrossReopen(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := Build(cfg, discardLogger())
	require.NoError(t, err)
	p := testutil.NewTestProject("Kitchen")
	require.NoError(t, first.Projects.Create(ctx, p))
	require.NoError(t, first.Close())

	second := build(t, cfg)
	got, err := second.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", got.Name)
}

func TestBuild_StaticCatalogAndBaselines(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog = config.CatalogConfig{
		Mode: config.CatalogStatic,
		Quotes: []config.StaticQuoteConfig{
			{Item: "plywood", Category: "materials", Vendor: "Offline Timber", UnitPrice: "40", Unit: "sheet", Confidence: 0.8},
		},
	}
	cfg.Pricing.Baselines = map[string]config.BaselineConfig{
		"labor": {Price: "200", Unit: "hour"},
	}
	svc := build(t, cfg)
	ctx := context.Background()

	res, err := svc.Plans.ResolvePrice(ctx, "Plywood", domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Equal(t, "Offline Timber", res.Vendor)
	assert.Equal(t, domain.RuleLiveQuote, res.Rule)

	res, err = svc.Plans.ResolvePrice(ctx, "welder", domain.CategoryLabor)
	require.NoError(t, err)
	assert.Equal(t, domain.RuleFallback, res.Rule)
	assert.Equal(t, "200", res.UnitPrice.String())
}

func TestBuild_LLMFallsBackWhenUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM = config.LLMConfig{
		Enabled:          true,
		Endpoint:         "http://127.0.0.1:1",
		Model:            "test",
		TimeoutMs:        200,
		ExtractTimeoutMs: 200,
	}
	svc := build(t, cfg)

	gen, err := svc.Plans.GeneratePlan(context.Background(), service.GeneratePlanRequest{Description: "plywood"})
	require.NoError(t, err)
	require.Equal(t, 1, gen.Plan.Len())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown catalog mode", func(c *config.Config) { c.Catalog.Mode = "trello" }, "unknown catalog mode"},
		{"bad static quote", func(c *config.Config) {
			c.Catalog = config.CatalogConfig{Mode: config.CatalogStatic, Quotes: []config.StaticQuoteConfig{{Item: "x", Vendor: "v", UnitPrice: "cheap"}}}
		}, "unit_price"},
		{"bad baseline", func(c *config.Config) {
			c.Pricing.Baselines = map[string]config.BaselineConfig{"food": {Price: "1"}}
		}, "pricing.baselines"},
		{"unusable db path", func(c *config.Config) { c.Database.Path = "/dev/null/studioops.db" }, "opening database"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := Build(cfg, discardLogger())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
