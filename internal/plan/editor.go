package plan

import (
	"fmt"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/shopspring/decimal"
)

// Operation is one edit to a plan: AddItem, UpdateItem or DeleteItem.
type Operation interface {
	Name() string
	apply(items []domain.PlanItem) ([]domain.PlanItem, error)
}

// AddItem appends Item to the end of the plan.
type AddItem struct {
	Item domain.PlanItem
}

func (AddItem) Name() string { return "add item" }

func (op AddItem) apply(items []domain.PlanItem) ([]domain.PlanItem, error) {
	return append(items, op.Item.Clone()), nil
}

// UpdateItem applies Patch to the item at Index.
type UpdateItem struct {
	Index int
	Patch Patch
}

func (UpdateItem) Name() string { return "update item" }

func (op UpdateItem) apply(items []domain.PlanItem) ([]domain.PlanItem, error) {
	if op.Index < 0 || op.Index >= len(items) {
		return nil, &domain.IndexOutOfRangeError{Index: op.Index, Len: len(items)}
	}
	patched, err := op.Patch.applyTo(items[op.Index])
	if err != nil {
		err.Index = op.Index
		return nil, err
	}
	items[op.Index] = patched
	return items, nil
}

// DeleteItem removes the item at Index; later items shift down by one.
type DeleteItem struct {
	Index int
}

func (DeleteItem) Name() string { return "delete item" }

func (op DeleteItem) apply(items []domain.PlanItem) ([]domain.PlanItem, error) {
	if op.Index < 0 || op.Index >= len(items) {
		return nil, &domain.IndexOutOfRangeError{Index: op.Index, Len: len(items)}
	}
	return append(items[:op.Index], items[op.Index+1:]...), nil
}

// Patch lists the fields to change on an item; nil fields are left alone.
// Setting UnitPrice without PriceSource clears the item's price source, since
// the price no longer comes from the quote. Details may replace the payload
// but not change the item's category.
type Patch struct {
	Title       *string
	Description *string
	Unit        *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	PriceSource *domain.PriceSource
	Details     domain.ItemDetails
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Unit == nil &&
		p.Quantity == nil && p.UnitPrice == nil && p.PriceSource == nil && p.Details == nil
}

func (p Patch) applyTo(it domain.PlanItem) (domain.PlanItem, *domain.ValidationError) {
	out := it.Clone()
	if p.IsEmpty() {
		return out, &domain.ValidationError{Item: it.Title, Field: "patch", Reason: "changes nothing"}
	}
	if p.Details != nil && p.Details.Category() != it.Category() {
		return out, &domain.ValidationError{
			Item:   it.Title,
			Field:  "category",
			Reason: fmt.Sprintf("cannot change from %s to %s", it.Category(), p.Details.Category()),
		}
	}

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Unit != nil {
		out.Unit = *p.Unit
	}
	if p.Quantity != nil {
		out.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		out.UnitPrice = *p.UnitPrice
		out.PriceSource = nil
	}
	if p.PriceSource != nil {
		src := *p.PriceSource
		out.PriceSource = &src
	}
	if p.Details != nil {
		out.Details = p.Details
	}
	return out, nil
}

// Editor applies operations to plans. Plans are values: every successful
// edit returns a new plan and leaves the input untouched.
type Editor struct {
	now Clock
}

func NewEditor(now Clock) *Editor {
	if now == nil {
		now = systemClock
	}
	return &Editor{now: now}
}

// Apply performs op on p. Errors are *domain.InvalidStateError for approved
// plans, *domain.IndexOutOfRangeError for bad positions and
// *domain.ValidationError for values that break an item or plan invariant.
func (e *Editor) Apply(p *domain.Plan, op Operation) (*domain.Plan, error) {
	if p == nil {
		return nil, &domain.ValidationError{Index: -1, Field: "plan", Reason: "is required"}
	}
	if op == nil {
		return nil, &domain.ValidationError{Index: -1, Field: "operation", Reason: "is required"}
	}
	if p.IsApproved() {
		return nil, &domain.InvalidStateError{PlanID: p.ID(), State: p.State(), Op: op.Name()}
	}

	items, err := op.apply(p.Items())
	if err != nil {
		return nil, err
	}
	h := p.Header()
	h.UpdatedAt = e.now()
	return domain.NewPlan(h, items)
}

// Approve moves p from editable to approved. It is the only transition out
// of the editable state.
func (e *Editor) Approve(p *domain.Plan) (*domain.Plan, error) {
	if p == nil {
		return nil, &domain.ValidationError{Index: -1, Field: "plan", Reason: "is required"}
	}
	if p.IsApproved() {
		return nil, &domain.InvalidStateError{PlanID: p.ID(), State: p.State(), Op: "approve"}
	}
	now := e.now()
	h := p.Header()
	h.State = domain.PlanApproved
	h.ApprovedAt = &now
	h.UpdatedAt = now
	return domain.NewPlan(h, p.Items())
}
