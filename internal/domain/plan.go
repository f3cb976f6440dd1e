package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlanHeader carries the plan fields that are not derived from its items.
type PlanHeader struct {
	ID           string
	ProjectID    *string
	Currency     string
	MarginTarget decimal.Decimal
	State        PlanState
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ApprovedAt   *time.Time
}

// Plan is an ordered, priced breakdown of a project's needs. A Plan value is
// never modified after construction: edits produce a new Plan through
// NewPlan, which is the only place subtotals and the total are computed.
type Plan struct {
	header PlanHeader
	items  []PlanItem
	total  decimal.Decimal
}

// NewPlan validates the header and every item, recomputes each subtotal and
// the total, and returns the resulting plan. Items are copied.
func NewPlan(h PlanHeader, items []PlanItem) (*Plan, error) {
	h.Currency = NormalizeCurrency(h.Currency)
	if h.State == "" {
		h.State = PlanEditable
	}
	if err := validateHeader(h); err != nil {
		return nil, err
	}
	if h.ProjectID != nil {
		pid := *h.ProjectID
		h.ProjectID = &pid
	}
	if h.ApprovedAt != nil {
		at := *h.ApprovedAt
		h.ApprovedAt = &at
	}

	p := &Plan{header: h, items: make([]PlanItem, 0, len(items))}
	total := decimal.Zero
	for i, it := range items {
		if verr := it.validate(); verr != nil {
			verr.Index = i
			return nil, verr
		}
		priced := it.Priced(h.Currency)
		total = total.Add(priced.subtotal)
		p.items = append(p.items, priced)
	}
	p.total = total
	return p, nil
}

func validateHeader(h PlanHeader) error {
	if strings.TrimSpace(h.ID) == "" {
		return newFieldError("id", "is required")
	}
	if h.Currency == "" {
		return newFieldError("currency", "is required")
	}
	if h.MarginTarget.IsNegative() || h.MarginTarget.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return newFieldError("margin_target", "must be in [0, 1)")
	}
	switch h.State {
	case PlanEditable:
		if h.ApprovedAt != nil {
			return newFieldError("approved_at", "must be empty on an editable plan")
		}
	case PlanApproved:
	default:
		return newFieldError("state", "must be editable or approved")
	}
	return nil
}

// Header returns a copy of the plan's non-derived fields.
func (p *Plan) Header() PlanHeader {
	h := p.header
	if h.ProjectID != nil {
		pid := *h.ProjectID
		h.ProjectID = &pid
	}
	if h.ApprovedAt != nil {
		at := *h.ApprovedAt
		h.ApprovedAt = &at
	}
	return h
}

func (p *Plan) ID() string                    { return p.header.ID }
func (p *Plan) Currency() string              { return p.header.Currency }
func (p *Plan) MarginTarget() decimal.Decimal { return p.header.MarginTarget }
func (p *Plan) State() PlanState              { return p.header.State }
func (p *Plan) IsApproved() bool              { return p.header.State == PlanApproved }
func (p *Plan) CreatedAt() time.Time          { return p.header.CreatedAt }
func (p *Plan) UpdatedAt() time.Time          { return p.header.UpdatedAt }
func (p *Plan) Total() decimal.Decimal        { return p.total }
func (p *Plan) Len() int                      { return len(p.items) }

// ProjectID returns the owning project, or "" for a plan not yet attached.
func (p *Plan) ProjectID() string {
	if p.header.ProjectID == nil {
		return ""
	}
	return *p.header.ProjectID
}

// ApprovedAt returns the approval time, or nil while the plan is editable.
func (p *Plan) ApprovedAt() *time.Time {
	if p.header.ApprovedAt == nil {
		return nil
	}
	at := *p.header.ApprovedAt
	return &at
}

// Items returns a copy of the plan's items in display order.
func (p *Plan) Items() []PlanItem {
	out := make([]PlanItem, len(p.items))
	for i, it := range p.items {
		out[i] = it.Clone()
	}
	return out
}

// Item returns a copy of the item at index.
func (p *Plan) Item(index int) (PlanItem, error) {
	if index < 0 || index >= len(p.items) {
		return PlanItem{}, &IndexOutOfRangeError{Index: index, Len: len(p.items)}
	}
	return p.items[index].Clone(), nil
}

// ClientPrice is the price that meets the margin target on top of the cost
// total: Total / (1 - MarginTarget). It is a presentation helper; the plan
// total itself never includes margin.
func (p *Plan) ClientPrice() decimal.Decimal {
	denom := decimal.NewFromInt(1).Sub(p.header.MarginTarget)
	return RoundMoney(p.total.Div(denom), p.header.Currency)
}

// CategoryTotals sums subtotals per category.
func (p *Plan) CategoryTotals() map[Category]decimal.Decimal {
	out := make(map[Category]decimal.Decimal, len(Categories))
	for _, it := range p.items {
		out[it.Category()] = out[it.Category()].Add(it.subtotal)
	}
	return out
}
