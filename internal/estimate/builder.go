// Package estimate turns a free-text project description into priced plan
// items.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultFanOut bounds concurrent price lookups per build.
const DefaultFanOut = 8

// Pricer resolves a single catalog item. pricing.Service implements it.
type Pricer interface {
	Price(ctx context.Context, itemName string, category domain.Category) domain.PriceResolution
}

// Line is one built item together with what produced it.
type Line struct {
	Need       Need
	Resolution domain.PriceResolution
	Item       domain.PlanItem
}

type Builder struct {
	extractor Extractor
	pricer    Pricer
	fanOut    int
	logger    *slog.Logger
}

// NewBuilder creates a Builder. fanOut <= 0 selects DefaultFanOut.
func NewBuilder(extractor Extractor, pricer Pricer, fanOut int, logger *slog.Logger) *Builder {
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{extractor: extractor, pricer: pricer, fanOut: fanOut, logger: logger}
}

// Build returns the priced items for description, in order of first mention.
// A description that mentions nothing known yields an empty slice.
func (b *Builder) Build(ctx context.Context, description, currency string) ([]domain.PlanItem, error) {
	lines, err := b.BuildLines(ctx, description, currency)
	if err != nil {
		return nil, err
	}
	items := make([]domain.PlanItem, len(lines))
	for i, l := range lines {
		items[i] = l.Item
	}
	return items, nil
}

// BuildLines is Build with the needs and price resolutions kept alongside.
func (b *Builder) BuildLines(ctx context.Context, description, currency string) ([]Line, error) {
	currency = domain.NormalizeCurrency(currency)
	if currency == "" {
		return nil, &domain.ValidationError{Index: -1, Field: "currency", Reason: "is required"}
	}

	needs, err := b.extractor.Extract(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("extract needs: %w", err)
	}
	lines := make([]Line, len(needs))
	if len(needs) == 0 {
		return lines, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.fanOut)
	for i, n := range needs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := b.pricer.Price(gctx, n.Name, n.Category)
			it, err := itemFor(n, res)
			if err != nil {
				return err
			}
			lines[i] = Line{Need: n, Resolution: res, Item: it.Priced(currency)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("price needs: %w", err)
	}

	for _, l := range lines {
		b.logger.Debug("priced need",
			"item", l.Need.Name,
			"category", string(l.Need.Category),
			"rule", string(l.Resolution.Rule),
			"vendor", l.Resolution.Vendor,
			"confidence", l.Resolution.Confidence)
	}
	return lines, nil
}

func orOne(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d
	}
	return decimal.NewFromInt(1)
}

func itemFor(n Need, res domain.PriceResolution) (domain.PlanItem, error) {
	it := domain.PlanItem{
		Title:     n.Title,
		Unit:      n.Unit,
		UnitPrice: res.UnitPrice,
	}
	if it.Title == "" {
		it.Title = n.Name
	}

	switch {
	case res.IsFallback():
		it.Description = "Estimated price, no catalog quote"
	case n.Category != domain.CategoryMaterials:
		it.Description = fmt.Sprintf("Rate from %s", res.Vendor)
	}

	switch n.Category {
	case domain.CategoryMaterials:
		if !res.IsFallback() && res.Unit != "" {
			it.Unit = res.Unit
		}
		it.Quantity = orOne(n.Quantity)
		it.PriceSource = res.Source()
		it.Details = domain.MaterialDetails{SKU: res.SKU}
	case domain.CategoryLabor:
		crew, err := domain.CountFromDecimal("crew", orOne(n.Quantity))
		if err != nil {
			return it, err
		}
		hours := orOne(n.Hours)
		it.Quantity = decimal.NewFromInt(int64(crew)).Mul(hours)
		it.Details = domain.LaborDetails{Role: n.Role, Hours: hours, Crew: crew}
	case domain.CategoryTools:
		days := n.RentalDays
		if days <= 0 {
			days = 1
		}
		if days > domain.MaxCount {
			return it, &domain.ValidationError{Index: -1, Item: it.Title, Field: "rental_days", Reason: fmt.Sprintf("must be at most %d", domain.MaxCount)}
		}
		it.Quantity = orOne(n.Quantity).Mul(decimal.NewFromInt(int64(days)))
		it.Details = domain.ToolDetails{RentalDays: days}
	case domain.CategoryLogistics:
		if !res.IsFallback() && res.Unit != "" {
			it.Unit = res.Unit
		}
		it.Quantity = orOne(n.Quantity)
		it.Details = domain.LogisticsDetails{WeightKg: n.WeightKg, DistanceKm: n.DistanceKm, Urgency: n.Urgency}
	}
	return it, nil
}
