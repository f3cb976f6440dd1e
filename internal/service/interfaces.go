package service

import (
	"context"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/plan"
	"github.com/shopspring/decimal"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
}

type CatalogService interface {
	// AddVendor creates a vendor. Names are unique, ignoring case.
	AddVendor(ctx context.Context, v *domain.Vendor) error
	ListVendors(ctx context.Context) ([]*domain.Vendor, error)
	// AddQuote stores a quote. VendorID may hold a vendor name, which is
	// resolved to its ID.
	AddQuote(ctx context.Context, q *domain.VendorQuote) error
	ListQuotes(ctx context.Context, itemName string, category domain.Category) ([]*domain.VendorQuote, error)
}

// GeneratePlanRequest describes a plan to estimate. An empty Currency
// selects the configured default.
type GeneratePlanRequest struct {
	Description  string
	MarginTarget decimal.Decimal
	Currency     string
	ProjectID    string
}

// GeneratedPlan is a freshly assembled plan with the lines that produced it.
type GeneratedPlan struct {
	Plan  *domain.Plan
	Lines []estimate.Line
}

type PlanService interface {
	// GeneratePlan estimates and assembles a plan. Nothing is persisted.
	GeneratePlan(ctx context.Context, req GeneratePlanRequest) (*GeneratedPlan, error)
	SavePlan(ctx context.Context, p *domain.Plan) error
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	// ListPlans lists every plan, or those of one project when projectID is set.
	ListPlans(ctx context.Context, projectID string) ([]*domain.Plan, error)

	// EditPlan applies op to an in-memory plan.
	EditPlan(ctx context.Context, p *domain.Plan, op plan.Operation) (*domain.Plan, error)
	// EditStoredPlan loads, edits and saves a plan as one serialized step.
	EditStoredPlan(ctx context.Context, id string, op plan.Operation) (*domain.Plan, error)
	ApprovePlan(ctx context.Context, id string) (*domain.Plan, error)

	ResolvePrice(ctx context.Context, itemName string, category domain.Category) (domain.PriceResolution, error)
}
