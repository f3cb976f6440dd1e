// Package dto holds the JSON shapes shared by the HTTP API, the MCP tools
// and the CLI's --json output.
package dto

import (
	"strings"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/plan"
	"github.com/shopspring/decimal"
)

type PriceSource struct {
	Vendor     string    `json:"vendor" binding:"required"`
	Confidence float64   `json:"confidence" binding:"gte=0,lte=1"`
	FetchedAt  time.Time `json:"fetched_at"`
	SKU        string    `json:"sku,omitempty"`
	IsQuote    bool      `json:"is_quote"`
}

func sourceOf(s *domain.PriceSource) *PriceSource {
	if s == nil {
		return nil
	}
	return &PriceSource{Vendor: s.Vendor, Confidence: s.Confidence, FetchedAt: s.FetchedAt, SKU: s.SKU, IsQuote: s.IsQuote}
}

func (s *PriceSource) toDomain() *domain.PriceSource {
	if s == nil {
		return nil
	}
	return &domain.PriceSource{Vendor: s.Vendor, Confidence: s.Confidence, FetchedAt: s.FetchedAt, SKU: s.SKU, IsQuote: s.IsQuote}
}

type Item struct {
	Index       int                  `json:"index"`
	Category    domain.Category      `json:"category"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Quantity    decimal.Decimal      `json:"quantity"`
	Unit        string               `json:"unit"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	PriceSource *PriceSource         `json:"unit_price_source,omitempty"`
	Details     domain.DetailsRecord `json:"details"`
}

type Plan struct {
	ID             string                              `json:"id"`
	ProjectID      string                              `json:"project_id,omitempty"`
	Currency       string                              `json:"currency"`
	MarginTarget   decimal.Decimal                     `json:"margin_target"`
	State          domain.PlanState                    `json:"state"`
	Items          []Item                              `json:"items"`
	Total          decimal.Decimal                     `json:"total"`
	ClientPrice    decimal.Decimal                     `json:"client_price"`
	CategoryTotals map[domain.Category]decimal.Decimal `json:"category_totals"`
	CreatedAt      time.Time                           `json:"created_at"`
	UpdatedAt      time.Time                           `json:"updated_at"`
	ApprovedAt     *time.Time                          `json:"approved_at,omitempty"`
}

func FromPlan(p *domain.Plan) Plan {
	items := p.Items()
	out := Plan{
		ID:             p.ID(),
		ProjectID:      p.ProjectID(),
		Currency:       p.Currency(),
		MarginTarget:   p.MarginTarget(),
		State:          p.State(),
		Items:          make([]Item, len(items)),
		Total:          p.Total(),
		ClientPrice:    p.ClientPrice(),
		CategoryTotals: p.CategoryTotals(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
		ApprovedAt:     p.ApprovedAt(),
	}
	for i, it := range items {
		out.Items[i] = Item{
			Index:       i,
			Category:    it.Category(),
			Title:       it.Title,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
			PriceSource: sourceOf(it.PriceSource),
			Details:     domain.RecordOf(it.Details),
		}
	}
	return out
}

func FromPlans(ps []*domain.Plan) []Plan {
	out := make([]Plan, len(ps))
	for i, p := range ps {
		out[i] = FromPlan(p)
	}
	return out
}

// GeneratePlanInput asks for a new estimated plan.
type GeneratePlanInput struct {
	Description  string          `json:"description" binding:"required"`
	MarginTarget decimal.Decimal `json:"margin_target"`
	Currency     string          `json:"currency" binding:"omitempty,len=3,alpha"`
	ProjectID    string          `json:"project_id"`
}

// ItemInput is a new plan line.
type ItemInput struct {
	Category    string               `json:"category" binding:"required,oneof=materials labor tools logistics"`
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Quantity    decimal.Decimal      `json:"quantity"`
	Unit        string               `json:"unit"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	PriceSource *PriceSource         `json:"unit_price_source"`
	Details     domain.DetailsRecord `json:"details"`
}

// Item converts the input. Values are checked when the item joins a plan.
func (in ItemInput) Item() (domain.PlanItem, error) {
	cat, err := domain.ParseCategory(in.Category)
	if err != nil {
		return domain.PlanItem{}, &domain.ValidationError{Index: -1, Item: in.Title, Field: "category", Reason: err.Error()}
	}
	details, err := in.Details.Details(cat)
	if err != nil {
		return domain.PlanItem{}, err
	}
	return domain.PlanItem{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		UnitPrice:   in.UnitPrice,
		PriceSource: in.PriceSource.toDomain(),
		Details:     details,
	}, nil
}

// PatchInput changes some fields of a plan line. Details replace the
// line's details wholesale and need Category to say which kind they are.
type PatchInput struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Unit        *string               `json:"unit"`
	Quantity    *decimal.Decimal      `json:"quantity"`
	UnitPrice   *decimal.Decimal      `json:"unit_price"`
	PriceSource *PriceSource          `json:"unit_price_source"`
	Category    string                `json:"category" binding:"omitempty,oneof=materials labor tools logistics"`
	Details     *domain.DetailsRecord `json:"details"`
}

func (in PatchInput) Patch() (plan.Patch, error) {
	p := plan.Patch{
		Title:       in.Title,
		Description: in.Description,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		PriceSource: in.PriceSource.toDomain(),
	}
	if in.Details != nil {
		cat, err := domain.ParseCategory(in.Category)
		if err != nil {
			return plan.Patch{}, &domain.ValidationError{Index: -1, Field: "category", Reason: err.Error()}
		}
		if p.Details, err = in.Details.Details(cat); err != nil {
			return plan.Patch{}, err
		}
	}
	return p, nil
}

type PriceResolution struct {
	ItemName   string                `json:"item_name"`
	Category   domain.Category       `json:"category"`
	UnitPrice  decimal.Decimal       `json:"unit_price"`
	Unit       string                `json:"unit,omitempty"`
	Vendor     string                `json:"vendor"`
	Confidence float64               `json:"confidence"`
	FetchedAt  *time.Time            `json:"fetched_at,omitempty"`
	SKU        string                `json:"sku,omitempty"`
	IsQuote    bool                  `json:"is_quote"`
	Rule       domain.ResolutionRule `json:"rule"`
}

func FromResolution(r domain.PriceResolution) PriceResolution {
	out := PriceResolution{
		ItemName:   r.ItemName,
		Category:   r.Category,
		UnitPrice:  r.UnitPrice,
		Unit:       r.Unit,
		Vendor:     r.Vendor,
		Confidence: r.Confidence,
		SKU:        r.SKU,
		IsQuote:    r.IsQuote,
		Rule:       r.Rule,
	}
	if !r.FetchedAt.IsZero() {
		at := r.FetchedAt
		out.FetchedAt = &at
	}
	return out
}

type Project struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Client    string               `json:"client,omitempty"`
	Status    domain.ProjectStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func FromProject(p *domain.Project) Project {
	return Project{ID: p.ID, Name: p.Name, Client: p.Client, Status: p.Status, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func FromProjects(ps []*domain.Project) []Project {
	out := make([]Project, len(ps))
	for i, p := range ps {
		out[i] = FromProject(p)
	}
	return out
}

type ProjectInput struct {
	Name   string `json:"name" binding:"required"`
	Client string `json:"client"`
	Status string `json:"status" binding:"omitempty,oneof=active done archived"`
}

func (in ProjectInput) Project() *domain.Project {
	return &domain.Project{Name: strings.TrimSpace(in.Name), Client: in.Client, Status: domain.ProjectStatus(in.Status)}
}
