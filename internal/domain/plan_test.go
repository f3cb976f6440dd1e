package domain

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testHeader() PlanHeader {
	return PlanHeader{
		ID:           "plan-1",
		Currency:     "nis",
		MarginTarget: dec("0.25"),
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
}

func plywood(qty string) PlanItem {
	return PlanItem{
		Title:     "Plywood sheet",
		Quantity:  dec(qty),
		Unit:      "sheet",
		UnitPrice: dec("45.99"),
		PriceSource: &PriceSource{
			Vendor:     "Timber Ltd",
			Confidence: 0.9,
			FetchedAt:  testNow,
		},
		Details: MaterialDetails{},
	}
}

func carpenter(hours string) PlanItem {
	return PlanItem{
		Title:     "Carpenter",
		Quantity:  dec(hours),
		Unit:      "hour",
		UnitPrice: dec("150"),
		Details:   LaborDetails{Role: "carpenter", Hours: dec(hours), Crew: 1},
	}
}

func TestNewPlan_ComputesSubtotalsAndTotal(t *testing.T) {
	p, err := NewPlan(testHeader(), []PlanItem{plywood("1"), carpenter("16")})
	require.NoError(t, err)

	items := p.Items()
	require.Len(t, items, 2)
	assert.True(t, dec("45.99").Equal(items[0].Subtotal()))
	assert.True(t, dec("2400").Equal(items[1].Subtotal()))
	assert.True(t, dec("2445.99").Equal(p.Total()))
	assert.Equal(t, "NIS", p.Currency())
	assert.Equal(t, PlanEditable, p.State())
}

func TestNewPlan_EmptyPlanHasZeroTotal(t *testing.T) {
	p, err := NewPlan(testHeader(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.True(t, p.Total().IsZero())
}

func TestNewPlan_RoundsToCurrencyMinorUnit(t *testing.T) {
	item := plywood("0.333")
	p, err := NewPlan(testHeader(), []PlanItem{item})
	require.NoError(t, err)
	// 0.333 * 45.99 = 15.31467
	assert.Equal(t, "15.31", p.Items()[0].Subtotal().String())

	h := testHeader()
	h.Currency = "JPY"
	p, err = NewPlan(h, []PlanItem{item})
	require.NoError(t, err)
	assert.Equal(t, "15", p.Items()[0].Subtotal().String())
}

func TestNewPlan_RejectsInvalidItems(t *testing.T) {
	cases := []struct {
		name  string
		item  PlanItem
		field string
	}{
		{"negative quantity", plywood("-1"), "quantity"},
		{"zero quantity", plywood("0"), "quantity"},
		{"negative price", func() PlanItem { it := plywood("1"); it.UnitPrice = dec("-0.01"); return it }(), "unit_price"},
		{"missing title", func() PlanItem { it := plywood("1"); it.Title = " "; return it }(), "title"},
		{"missing details", func() PlanItem { it := plywood("1"); it.Details = nil; return it }(), "category"},
		{"confidence above one", func() PlanItem { it := plywood("1"); it.PriceSource.Confidence = 1.2; return it }(), "unit_price_source.confidence"},
		{"source on labor", func() PlanItem {
			it := carpenter("2")
			it.PriceSource = &PriceSource{Vendor: "x", Confidence: 0.5}
			return it
		}(), "unit_price_source"},
		{"negative labor hours", func() PlanItem { it := carpenter("2"); it.Details = LaborDetails{Hours: dec("-2")}; return it }(), "labor_hours"},
		{"bad urgency", PlanItem{Title: "Truck", Quantity: dec("1"), Details: LogisticsDetails{Urgency: "soon"}}, "urgency"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlan(testHeader(), []PlanItem{carpenter("1"), tc.item})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, 1, verr.Index)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestNewPlan_RejectsInvalidHeader(t *testing.T) {
	h := testHeader()
	h.MarginTarget = dec("1")
	_, err := NewPlan(h, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "margin_target")

	h = testHeader()
	h.Currency = ""
	_, err = NewPlan(h, nil)
	assert.ErrorIs(t, err, ErrValidation)

	h = testHeader()
	at := testNow
	h.ApprovedAt = &at
	_, err = NewPlan(h, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewPlan_IgnoresCallerSubtotal(t *testing.T) {
	item := plywood("2")
	item.subtotal = dec("999")
	p, err := NewPlan(testHeader(), []PlanItem{item})
	require.NoError(t, err)
	assert.True(t, dec("91.98").Equal(p.Total()))
}

func TestPlan_ItemsAreCopies(t *testing.T) {
	p, err := NewPlan(testHeader(), []PlanItem{plywood("1")})
	require.NoError(t, err)

	items := p.Items()
	items[0].Quantity = dec("100")
	items[0].PriceSource.Vendor = "tampered"

	again := p.Items()
	assert.True(t, dec("1").Equal(again[0].Quantity))
	assert.Equal(t, "Timber Ltd", again[0].PriceSource.Vendor)
	assert.True(t, dec("45.99").Equal(p.Total()))
}

func TestPlan_ClientPriceAppliesMarginOutsideTotal(t *testing.T) {
	p, err := NewPlan(testHeader(), []PlanItem{carpenter("5")})
	require.NoError(t, err)
	assert.Equal(t, "750", p.Total().String())
	// 750 / 0.75
	assert.Equal(t, "1000", p.ClientPrice().String())
}

func TestPlan_CategoryTotals(t *testing.T) {
	p, err := NewPlan(testHeader(), []PlanItem{plywood("2"), carpenter("1"), plywood("1")})
	require.NoError(t, err)
	totals := p.CategoryTotals()
	assert.Equal(t, "137.97", totals[CategoryMaterials].String())
	assert.Equal(t, "150", totals[CategoryLabor].String())
}

// TestNewPlan_TotalInvariant property-tests total == Σ round(q*p).
func TestNewPlan_TotalInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(10)
		items := make([]PlanItem, n)
		for i := range items {
			q := decimal.New(int64(rng.Intn(5000)+1), -int32(rng.Intn(3)))
			price := decimal.New(int64(rng.Intn(100000)), -2)
			items[i] = PlanItem{Title: "x", Quantity: q, UnitPrice: price, Details: ToolDetails{}}
		}
		p, err := NewPlan(testHeader(), items)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, it := range p.Items() {
			want := it.Quantity.Mul(it.UnitPrice).Round(2)
			assert.True(t, want.Equal(it.Subtotal()), "trial %d", trial)
			sum = sum.Add(it.Subtotal())
		}
		assert.True(t, sum.Equal(p.Total()), "trial %d", trial)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Labor ")
	require.NoError(t, err)
	assert.Equal(t, CategoryLabor, c)

	_, err = ParseCategory("furniture")
	assert.Error(t, err)
}

func TestPriceResolution_Source(t *testing.T) {
	r := PriceResolution{Vendor: "v", Confidence: 0.7, Rule: RuleLiveQuote, FetchedAt: testNow}
	src := r.Source()
	require.NotNil(t, src)
	assert.Equal(t, "v", src.Vendor)

	r.Rule = RuleFallback
	assert.Nil(t, r.Source())
}

func TestCountFromDecimal(t *testing.T) {
	n, err := CountFromDecimal("crew", decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.Equal(t, 3, n, "partial counts round up")

	n, err = CountFromDecimal("crew", decimal.NewFromInt(MaxCount))
	require.NoError(t, err)
	assert.Equal(t, MaxCount, n)

	_, err = CountFromDecimal("crew", decimal.RequireFromString("99999999999999999999999"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "crew", verr.Field)

	_, err = CountFromDecimal("rental_days", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrValidation)
}
