package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Vendor struct {
	ID        string
	Name      string
	Contact   string
	CreatedAt time.Time
}

// VendorQuote is a stored price offer for a catalog item. Historical quotes
// are prices paid on past purchases rather than live vendor offers.
type VendorQuote struct {
	ID         string
	VendorID   string
	ItemName   string
	Category   Category
	Unit       string
	UnitPrice  decimal.Decimal
	Confidence float64
	SKU        string
	IsQuote    bool
	Historical bool
	FetchedAt  time.Time
	CreatedAt  time.Time
}

func (q *VendorQuote) Validate() error {
	if strings.TrimSpace(q.VendorID) == "" {
		return fmt.Errorf("quote vendor is required")
	}
	if strings.TrimSpace(q.ItemName) == "" {
		return fmt.Errorf("quote item name is required")
	}
	if !q.Category.Valid() {
		return fmt.Errorf("invalid quote category %q", q.Category)
	}
	if q.UnitPrice.IsNegative() {
		return fmt.Errorf("quote unit price must not be negative")
	}
	if q.Confidence < 0 || q.Confidence > 1 {
		return fmt.Errorf("quote confidence must be between 0 and 1")
	}
	return nil
}

// CandidateQuote is one price offer returned by a catalog lookup.
type CandidateQuote struct {
	Vendor       string
	UnitPrice    decimal.Decimal
	Confidence   float64
	FetchedAt    time.Time
	IsHistorical bool
	SKU          string
	IsQuote      bool
	Unit         string
}

// PriceResolution is the chosen price for one catalog query.
type PriceResolution struct {
	ItemName   string
	Category   Category
	UnitPrice  decimal.Decimal
	Unit       string
	Vendor     string
	Confidence float64
	FetchedAt  time.Time
	SKU        string
	IsQuote    bool
	Rule       ResolutionRule
}

// IsFallback reports whether the price is a heuristic guess rather than a quote.
func (r PriceResolution) IsFallback() bool { return r.Rule == RuleFallback }

// Source converts the resolution into item provenance. Fallback prices have
// no source.
func (r PriceResolution) Source() *PriceSource {
	if r.IsFallback() {
		return nil
	}
	return &PriceSource{
		Vendor:     r.Vendor,
		Confidence: r.Confidence,
		FetchedAt:  r.FetchedAt,
		SKU:        r.SKU,
		IsQuote:    r.IsQuote,
	}
}
