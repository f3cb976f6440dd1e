// Package plan assembles priced items into plans and applies edits to them.
package plan

import (
	"strings"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// Assembler builds new editable plans. It does no lookups.
type Assembler struct {
	now   Clock
	newID func() string
}

type AssemblerOption func(*Assembler)

func WithAssemblerClock(c Clock) AssemblerOption {
	return func(a *Assembler) { a.now = c }
}

func WithIDGenerator(f func() string) AssemblerOption {
	return func(a *Assembler) { a.newID = f }
}

func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{now: systemClock, newID: func() string { return uuid.New().String() }}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Assemble validates items and returns a new editable plan whose subtotals
// and total are computed for currency. projectID may be empty.
func (a *Assembler) Assemble(items []domain.PlanItem, marginTarget decimal.Decimal, currency, projectID string) (*domain.Plan, error) {
	now := a.now()
	h := domain.PlanHeader{
		ID:           a.newID(),
		Currency:     domain.NormalizeCurrency(currency),
		MarginTarget: marginTarget,
		State:        domain.PlanEditable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if pid := strings.TrimSpace(projectID); pid != "" {
		h.ProjectID = &pid
	}
	return domain.NewPlan(h, items)
}
