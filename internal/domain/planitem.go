package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemDetails is the category-specific payload of a PlanItem. The set of
// implementations is closed: MaterialDetails, LaborDetails, ToolDetails and
// LogisticsDetails.
type ItemDetails interface {
	Category() Category
	validate() *ValidationError
}

// MaxCount bounds whole-number detail fields such as crew size and rental
// days.
const MaxCount = math.MaxInt32

// CountFromDecimal rounds d up to a whole count for field. Values that do not
// fit in MaxCount are rejected rather than truncated.
func CountFromDecimal(field string, d decimal.Decimal) (int, error) {
	c := d.Ceil()
	if c.IsNegative() {
		return 0, newFieldError(field, "must not be negative")
	}
	if c.GreaterThan(decimal.NewFromInt(MaxCount)) {
		return 0, newFieldError(field, fmt.Sprintf("must be at most %d", MaxCount))
	}
	return int(c.IntPart()), nil
}

type MaterialDetails struct {
	SKU  string
	Spec string
}

func (MaterialDetails) Category() Category { return CategoryMaterials }

func (MaterialDetails) validate() *ValidationError { return nil }

type LaborDetails struct {
	Role            string
	Hours           decimal.Decimal
	Crew            int
	ExperienceLevel ExperienceLevel
}

func (LaborDetails) Category() Category { return CategoryLabor }

func (d LaborDetails) validate() *ValidationError {
	if d.Hours.IsNegative() {
		return newFieldError("labor_hours", "must not be negative")
	}
	if d.Crew < 0 {
		return newFieldError("crew", "must not be negative")
	}
	if d.Crew > MaxCount {
		return newFieldError("crew", fmt.Sprintf("must be at most %d", MaxCount))
	}
	switch d.ExperienceLevel {
	case "", ExperienceJunior, ExperienceMid, ExperienceSenior:
	default:
		return newFieldError("experience_level", "must be junior, mid or senior")
	}
	return nil
}

type ToolDetails struct {
	RentalDays int
	Owned      bool
}

func (ToolDetails) Category() Category { return CategoryTools }

func (d ToolDetails) validate() *ValidationError {
	if d.RentalDays < 0 {
		return newFieldError("rental_days", "must not be negative")
	}
	if d.RentalDays > MaxCount {
		return newFieldError("rental_days", fmt.Sprintf("must be at most %d", MaxCount))
	}
	return nil
}

type LogisticsDetails struct {
	WeightKg   decimal.Decimal
	DistanceKm decimal.Decimal
	Urgency    Urgency
}

func (LogisticsDetails) Category() Category { return CategoryLogistics }

func (d LogisticsDetails) validate() *ValidationError {
	if d.WeightKg.IsNegative() {
		return newFieldError("weight_kg", "must not be negative")
	}
	if d.DistanceKm.IsNegative() {
		return newFieldError("distance_km", "must not be negative")
	}
	switch d.Urgency {
	case "", UrgencyLow, UrgencyNormal, UrgencyHigh:
	default:
		return newFieldError("urgency", "must be low, normal or high")
	}
	return nil
}

// PriceSource records where a catalog-derived unit price came from.
type PriceSource struct {
	Vendor     string
	Confidence float64
	FetchedAt  time.Time
	SKU        string
	IsQuote    bool
}

// PlanItem is one priced line of a plan. The subtotal is derived state: it is
// recomputed from Quantity and UnitPrice whenever the item passes through
// NewPlan or Priced and cannot be assigned directly.
type PlanItem struct {
	Title       string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	PriceSource *PriceSource
	Details     ItemDetails

	subtotal decimal.Decimal
}

// Category returns the item's category, or "" when Details is unset.
func (it PlanItem) Category() Category {
	if it.Details == nil {
		return ""
	}
	return it.Details.Category()
}

func (it PlanItem) Subtotal() decimal.Decimal { return it.subtotal }

// Priced returns a copy of the item with its subtotal recomputed for currency.
func (it PlanItem) Priced(currency string) PlanItem {
	out := it.Clone()
	out.subtotal = RoundMoney(out.Quantity.Mul(out.UnitPrice), currency)
	return out
}

// Clone returns a copy that shares no pointers with it.
func (it PlanItem) Clone() PlanItem {
	out := it
	if it.PriceSource != nil {
		src := *it.PriceSource
		out.PriceSource = &src
	}
	return out
}

// Validate checks the item against the plan invariants. The returned error,
// if any, is a *ValidationError with Index -1.
func (it PlanItem) Validate() error {
	if verr := it.validate(); verr != nil {
		return verr
	}
	return nil
}

func (it PlanItem) validate() *ValidationError {
	fail := func(field, reason string) *ValidationError {
		return &ValidationError{Index: -1, Item: it.Title, Field: field, Reason: reason}
	}
	if strings.TrimSpace(it.Title) == "" {
		return fail("title", "is required")
	}
	if it.Details == nil {
		return fail("category", "is required")
	}
	if !it.Quantity.IsPositive() {
		return fail("quantity", "must be greater than zero")
	}
	if it.UnitPrice.IsNegative() {
		return fail("unit_price", "must not be negative")
	}
	if verr := it.Details.validate(); verr != nil {
		verr.Item = it.Title
		return verr
	}
	if it.PriceSource != nil {
		if it.Category() != CategoryMaterials {
			return fail("unit_price_source", "is only allowed on materials items")
		}
		if strings.TrimSpace(it.PriceSource.Vendor) == "" {
			return fail("unit_price_source.vendor", "is required")
		}
		if it.PriceSource.Confidence < 0 || it.PriceSource.Confidence > 1 {
			return fail("unit_price_source.confidence", "must be between 0 and 1")
		}
	}
	return nil
}
