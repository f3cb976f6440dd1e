package repository

import (
	"context"

	"github.com/alexanderramin/studioops/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
}

type VendorRepo interface {
	Create(ctx context.Context, v *domain.Vendor) error
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	GetByName(ctx context.Context, name string) (*domain.Vendor, error)
	List(ctx context.Context) ([]*domain.Vendor, error)
}

type QuoteRepo interface {
	Create(ctx context.Context, q *domain.VendorQuote) error
	// ListByItem returns every stored quote for itemName; an empty category
	// matches all categories.
	ListByItem(ctx context.Context, itemName string, category domain.Category) ([]*domain.VendorQuote, error)
	// Candidates makes the repository usable as a catalog source.
	Candidates(ctx context.Context, itemName string, category domain.Category) ([]domain.CandidateQuote, error)
}

type PlanRepo interface {
	// Save writes the plan header and replaces its items. Callers run it
	// inside a unit of work so the two writes land together.
	Save(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
}
