package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DetailsRecord is the flat, serializable form of ItemDetails. Fields that do
// not belong to the item's category are left empty.
type DetailsRecord struct {
	SKU  string `json:"sku,omitempty"`
	Spec string `json:"spec,omitempty"`

	Role            string           `json:"role,omitempty"`
	Hours           *decimal.Decimal `json:"labor_hours,omitempty"`
	Crew            int              `json:"crew,omitempty"`
	ExperienceLevel string           `json:"experience_level,omitempty"`

	RentalDays int  `json:"rental_days,omitempty"`
	Owned      bool `json:"owned,omitempty"`

	WeightKg   *decimal.Decimal `json:"weight_kg,omitempty"`
	DistanceKm *decimal.Decimal `json:"distance_km,omitempty"`
	Urgency    string           `json:"urgency,omitempty"`
}

func optionalDecimal(d decimal.Decimal) *decimal.Decimal {
	if d.IsZero() {
		return nil
	}
	return &d
}

// RecordOf flattens d. A nil d yields an empty record.
func RecordOf(d ItemDetails) DetailsRecord {
	switch v := d.(type) {
	case MaterialDetails:
		return DetailsRecord{SKU: v.SKU, Spec: v.Spec}
	case LaborDetails:
		return DetailsRecord{Role: v.Role, Hours: optionalDecimal(v.Hours), Crew: v.Crew, ExperienceLevel: string(v.ExperienceLevel)}
	case ToolDetails:
		return DetailsRecord{RentalDays: v.RentalDays, Owned: v.Owned}
	case LogisticsDetails:
		return DetailsRecord{WeightKg: optionalDecimal(v.WeightKg), DistanceKm: optionalDecimal(v.DistanceKm), Urgency: string(v.Urgency)}
	}
	return DetailsRecord{}
}

// Details builds the category variant from r. Values are not range-checked
// here; NewPlan does that.
func (r DetailsRecord) Details(c Category) (ItemDetails, error) {
	switch c {
	case CategoryMaterials:
		return MaterialDetails{SKU: r.SKU, Spec: r.Spec}, nil
	case CategoryLabor:
		return LaborDetails{
			Role:            r.Role,
			Hours:           ValueOr(r.Hours, decimal.Zero),
			Crew:            r.Crew,
			ExperienceLevel: ExperienceLevel(r.ExperienceLevel),
		}, nil
	case CategoryTools:
		return ToolDetails{RentalDays: r.RentalDays, Owned: r.Owned}, nil
	case CategoryLogistics:
		return LogisticsDetails{
			WeightKg:   ValueOr(r.WeightKg, decimal.Zero),
			DistanceKm: ValueOr(r.DistanceKm, decimal.Zero),
			Urgency:    Urgency(r.Urgency),
		}, nil
	}
	return nil, &ValidationError{Index: -1, Field: "category", Reason: fmt.Sprintf("unknown category %q", c)}
}
