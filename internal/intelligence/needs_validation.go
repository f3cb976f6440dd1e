package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studioops/internal/domain"
)

// llmNeed is one entry of the model's needs list.
type llmNeed struct {
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	Role       string  `json:"role"`
	Hours      float64 `json:"hours"`
	RentalDays float64 `json:"rental_days"`
	DistanceKm float64 `json:"distance_km"`
	WeightKg   float64 `json:"weight_kg"`
	Urgent     bool    `json:"urgent"`
}

type needsResponse struct {
	Needs []llmNeed `json:"needs"`
}

// maxNeeds caps how many lines a single description may produce.
const maxNeeds = 100

func validateNeedsResponse(r needsResponse) error {
	if len(r.Needs) > maxNeeds {
		return fmt.Errorf("too many needs: %d (max %d)", len(r.Needs), maxNeeds)
	}
	for i, n := range r.Needs {
		cat, err := domain.ParseCategory(n.Category)
		if err != nil {
			return fmt.Errorf("need %d: %w", i, err)
		}
		if strings.TrimSpace(n.Name) == "" {
			return fmt.Errorf("need %d: name is empty", i)
		}
		for field, v := range map[string]float64{
			"quantity":    n.Quantity,
			"hours":       n.Hours,
			"rental_days": n.RentalDays,
			"distance_km": n.DistanceKm,
			"weight_kg":   n.WeightKg,
		} {
			if v < 0 {
				return fmt.Errorf("need %d: %s must not be negative, got %v", i, field, v)
			}
		}
		if n.RentalDays > domain.MaxCount {
			return fmt.Errorf("need %d: rental_days must be at most %d, got %v", i, domain.MaxCount, n.RentalDays)
		}
		if cat == domain.CategoryLabor && n.Quantity > domain.MaxCount {
			return fmt.Errorf("need %d: crew must be at most %d, got %v", i, domain.MaxCount, n.Quantity)
		}
		if n.RentalDays != float64(int(n.RentalDays)) {
			return fmt.Errorf("need %d: rental_days must be whole, got %v", i, n.RentalDays)
		}
	}
	return nil
}
