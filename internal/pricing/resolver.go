// Package pricing chooses one unit price per catalog query.
//
// Precedence, first match wins:
//  1. live vendor quotes: highest confidence, then lowest price, then vendor name;
//  2. historical purchase prices: most recent, then lowest price, then vendor name;
//  3. a per-category baseline with zero confidence and vendor "fallback".
//
// Resolution never fails; missing data degrades to rule 3.
package pricing

import (
	"sort"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/shopspring/decimal"
)

// Baseline is the heuristic price used when no quote exists.
type Baseline struct {
	UnitPrice decimal.Decimal
	Unit      string
}

// DefaultBaselines returns the stock fallback prices (NIS).
func DefaultBaselines() map[domain.Category]Baseline {
	return map[domain.Category]Baseline{
		domain.CategoryMaterials: {UnitPrice: decimal.NewFromInt(100), Unit: "unit"},
		domain.CategoryLabor:     {UnitPrice: decimal.NewFromInt(150), Unit: "hour"},
		domain.CategoryTools:     {UnitPrice: decimal.NewFromInt(80), Unit: "day"},
		domain.CategoryLogistics: {UnitPrice: decimal.NewFromInt(250), Unit: "trip"},
	}
}

// Resolver applies the precedence policy. The zero value is not usable; use
// NewResolver.
type Resolver struct {
	baselines map[domain.Category]Baseline
	now       func() time.Time
}

// NewResolver creates a Resolver. Categories missing from baselines use the
// defaults.
func NewResolver(baselines map[domain.Category]Baseline) *Resolver {
	merged := DefaultBaselines()
	for c, b := range baselines {
		if b.UnitPrice.IsNegative() {
			continue
		}
		if b.Unit == "" {
			b.Unit = merged[c].Unit
		}
		merged[c] = b
	}
	return &Resolver{baselines: merged, now: func() time.Time { return time.Now().UTC() }}
}

// Baseline returns the fallback price for a category.
func (r *Resolver) Baseline(category domain.Category) Baseline {
	if b, ok := r.baselines[category]; ok {
		return b
	}
	return r.baselines[domain.CategoryMaterials]
}

// Resolve picks the best candidate for itemName.
func (r *Resolver) Resolve(itemName string, category domain.Category, candidates []domain.CandidateQuote) domain.PriceResolution {
	var live, historical []domain.CandidateQuote
	for _, c := range candidates {
		if !usable(c) {
			continue
		}
		if c.IsHistorical {
			historical = append(historical, c)
		} else {
			live = append(live, c)
		}
	}

	if len(live) > 0 {
		sort.SliceStable(live, func(i, j int) bool {
			a, b := live[i], live[j]
			if a.Confidence != b.Confidence {
				return a.Confidence > b.Confidence
			}
			if !a.UnitPrice.Equal(b.UnitPrice) {
				return a.UnitPrice.LessThan(b.UnitPrice)
			}
			return a.Vendor < b.Vendor
		})
		return fromCandidate(itemName, category, live[0], domain.RuleLiveQuote)
	}

	if len(historical) > 0 {
		sort.SliceStable(historical, func(i, j int) bool {
			a, b := historical[i], historical[j]
			if !a.FetchedAt.Equal(b.FetchedAt) {
				return a.FetchedAt.After(b.FetchedAt)
			}
			if !a.UnitPrice.Equal(b.UnitPrice) {
				return a.UnitPrice.LessThan(b.UnitPrice)
			}
			return a.Vendor < b.Vendor
		})
		return fromCandidate(itemName, category, historical[0], domain.RuleHistorical)
	}

	b := r.Baseline(category)
	return domain.PriceResolution{
		ItemName:   itemName,
		Category:   category,
		UnitPrice:  b.UnitPrice,
		Unit:       b.Unit,
		Vendor:     domain.FallbackVendor,
		Confidence: 0,
		FetchedAt:  r.now(),
		Rule:       domain.RuleFallback,
	}
}

// usable drops candidates that would break plan invariants if chosen.
func usable(c domain.CandidateQuote) bool {
	if c.UnitPrice.IsNegative() {
		return false
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return false
	}
	return c.Vendor != ""
}

func fromCandidate(itemName string, category domain.Category, c domain.CandidateQuote, rule domain.ResolutionRule) domain.PriceResolution {
	return domain.PriceResolution{
		ItemName:   itemName,
		Category:   category,
		UnitPrice:  c.UnitPrice,
		Unit:       c.Unit,
		Vendor:     c.Vendor,
		Confidence: c.Confidence,
		FetchedAt:  c.FetchedAt,
		SKU:        c.SKU,
		IsQuote:    c.IsQuote,
		Rule:       rule,
	}
}
