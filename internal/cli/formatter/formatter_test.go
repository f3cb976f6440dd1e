package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/testutil"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

func testPlan(t *testing.T, margin string, items ...domain.PlanItem) *domain.Plan {
	t.Helper()
	p, err := domain.NewPlan(domain.PlanHeader{
		ID:           "a1b2c3d4-0000-0000-0000-000000000000",
		Currency:     "NIS",
		MarginTarget: decimal.RequireFromString(margin),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, items)
	require.NoError(t, err)
	return p
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in       string
		currency string
		want     string
	}{
		{"0", "", "0.00"},
		{"45.99", "", "45.99"},
		{"2445.99", "NIS", "2,445.99 NIS"},
		{"1234567.5", "USD", "1,234,567.50 USD"},
		{"-1000", "", "-1,000.00"},
		{"999", "", "999.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(decimal.RequireFromString(tt.in), tt.currency))
		})
	}
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "Today", HumanDate(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "AMOUNT"},
		[][]string{{StyleGreen.Render("plywood"), "45.99"}, {"nails", "1,200.00"}},
		AlignRight(1),
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[0], "AMOUNT")
	for _, l := range lines[1:] {
		assert.Equal(t, lipgloss.Width(lines[1]), lipgloss.Width(l))
	}
	assert.True(t, strings.HasSuffix(lines[2], "45.99"))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatPlan(t *testing.T) {
	p := testPlan(t, "0.25",
		testutil.NewMaterialItem("Plywood", "1", "45.99", "Timber Ltd"),
		testutil.NewLaborItem("carpenter", "16", "150"),
	)
	out := FormatPlan(p)

	assert.Contains(t, out, "PLAN A1B2C3D4")
	assert.Contains(t, out, "Editable")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "Plywood")
	assert.Contains(t, out, "Timber Ltd")
	assert.Contains(t, out, "90%")
	assert.Contains(t, out, "(16h)")
	assert.Contains(t, out, "2,400.00 NIS")
	assert.Contains(t, out, "2,445.99 NIS")
	assert.Contains(t, out, "Client price")
	assert.Contains(t, out, "3,261.32 NIS")
}

func TestFormatPlan_EmptyAndBaselinePrices(t *testing.T) {
	assert.Contains(t, FormatPlan(testPlan(t, "0")), "No items.")

	ply := testutil.NewMaterialItem("Plywood", "2", "30", domain.FallbackVendor)
	ply.PriceSource.Confidence = 0
	out := FormatPlan(testPlan(t, "0", ply))
	assert.Contains(t, out, "baseline")
	assert.NotContains(t, out, "Client price")
}

func TestFormatPlanList(t *testing.T) {
	p := testPlan(t, "0", testutil.NewLaborItem("painter", "6", "120"))
	out := FormatPlanList([]*domain.Plan{p}, now)
	assert.Contains(t, out, "a1b2c3d4")
	assert.Contains(t, out, "720.00 NIS")
	assert.Contains(t, out, "Today")
}

func TestFormatResolution(t *testing.T) {
	out := FormatResolution(domain.PriceResolution{
		ItemName:   "plywood",
		Category:   domain.CategoryMaterials,
		UnitPrice:  decimal.RequireFromString("45.99"),
		Unit:       "sheet",
		Vendor:     "Timber Ltd",
		Confidence: 0.9,
		FetchedAt:  now,
		Rule:       domain.RuleLiveQuote,
	}, "NIS")
	assert.Contains(t, out, "45.99 NIS")
	assert.Contains(t, out, "/ sheet")
	assert.Contains(t, out, "live_quote")
	assert.Contains(t, out, "2026-02-07")
	assert.NotContains(t, out, "baseline")

	fallback := FormatResolution(domain.PriceResolution{
		ItemName: "gizmo", Category: domain.CategoryTools, Vendor: domain.FallbackVendor, Rule: domain.RuleFallback,
	}, "NIS")
	assert.Contains(t, fallback, "category baseline")
	assert.NotContains(t, fallback, "Fetched")
}

func TestFormatCatalogLists(t *testing.T) {
	v := testutil.NewTestVendor("Timber Ltd")
	q := testutil.NewTestQuote(v.ID, "plywood", "45.99", testutil.WithUnit("sheet"))

	assert.Contains(t, FormatVendorList([]*domain.Vendor{v}), "Timber Ltd")

	quotes := FormatQuoteList([]*domain.VendorQuote{q}, map[string]string{v.ID: v.Name})
	assert.Contains(t, quotes, "plywood")
	assert.Contains(t, quotes, "Timber Ltd")
	assert.Contains(t, quotes, "/ sheet")

	unknown := FormatQuoteList([]*domain.VendorQuote{q}, nil)
	assert.Contains(t, unknown, v.ID[:8])

	projects := FormatProjectList([]*domain.Project{testutil.NewTestProject("Kitchen")}, time.Now())
	assert.Contains(t, projects, "Kitchen")
	assert.Contains(t, projects, "Active")
}
