package testutil

import (
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project options
type ProjectOption func(*domain.Project)

func WithClient(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Client = c
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Client:    "Test Studio",
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestVendor(name string) *domain.Vendor {
	return &domain.Vendor{
		ID:        uuid.New().String(),
		Name:      name,
		Contact:   "sales@example.com",
		CreatedAt: time.Now().UTC(),
	}
}

// Quote options
type QuoteOption func(*domain.VendorQuote)

func WithConfidence(c float64) QuoteOption {
	return func(q *domain.VendorQuote) {
		q.Confidence = c
	}
}

func WithCategory(c domain.Category) QuoteOption {
	return func(q *domain.VendorQuote) {
		q.Category = c
	}
}

func WithUnit(u string) QuoteOption {
	return func(q *domain.VendorQuote) {
		q.Unit = u
	}
}

func WithSKU(sku string) QuoteOption {
	return func(q *domain.VendorQuote) {
		q.SKU = sku
	}
}

// Historical marks the quote as a past purchase price fetched at t.
func Historical(t time.Time) QuoteOption {
	return func(q *domain.VendorQuote) {
		q.Historical = true
		q.IsQuote = false
		q.FetchedAt = t
	}
}

func WithFetchedAt(t time.Time) QuoteOption {
	return func(q *domain.VendorQuote) {
		q.FetchedAt = t
	}
}

// NewTestQuote returns a live materials quote for itemName at price.
func NewTestQuote(vendorID, itemName, price string, opts ...QuoteOption) *domain.VendorQuote {
	now := time.Now().UTC()
	q := &domain.VendorQuote{
		ID:         uuid.New().String(),
		VendorID:   vendorID,
		ItemName:   itemName,
		Category:   domain.CategoryMaterials,
		Unit:       "unit",
		UnitPrice:  decimal.RequireFromString(price),
		Confidence: 0.8,
		IsQuote:    true,
		FetchedAt:  now,
		CreatedAt:  now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// NewMaterialItem returns a catalog-priced materials line.
func NewMaterialItem(title, qty, price, vendor string) domain.PlanItem {
	it := domain.PlanItem{
		Title:     title,
		Quantity:  decimal.RequireFromString(qty),
		Unit:      "unit",
		UnitPrice: decimal.RequireFromString(price),
		Details:   domain.MaterialDetails{},
	}
	if vendor != "" {
		it.PriceSource = &domain.PriceSource{Vendor: vendor, Confidence: 0.9, FetchedAt: time.Now().UTC(), IsQuote: true}
	}
	return it
}

// NewLaborItem returns a single-person labor line billed per hour.
func NewLaborItem(role, hours, rate string) domain.PlanItem {
	h := decimal.RequireFromString(hours)
	return domain.PlanItem{
		Title:     role,
		Quantity:  h,
		Unit:      "hour",
		UnitPrice: decimal.RequireFromString(rate),
		Details:   domain.LaborDetails{Role: role, Hours: h, Crew: 1},
	}
}
