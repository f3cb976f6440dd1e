package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/studioops/internal/db"
	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/plan"
	"github.com/alexanderramin/studioops/internal/pricing"
	"github.com/alexanderramin/studioops/internal/repository"
)

// PlanServiceDeps wires a PlanService.
type PlanServiceDeps struct {
	Plans     repository.PlanRepo
	UoW       db.UnitOfWork
	Builder   *estimate.Builder
	Pricer    *pricing.Service
	Assembler *plan.Assembler
	Editor    *plan.Editor
	Locker    *plan.Locker
	// Currency is used when a request names none.
	Currency string
}

type planService struct {
	deps     PlanServiceDeps
	observer UseCaseObserver
}

func NewPlanService(deps PlanServiceDeps, observers ...UseCaseObserver) PlanService {
	if deps.Assembler == nil {
		deps.Assembler = plan.NewAssembler()
	}
	if deps.Editor == nil {
		deps.Editor = plan.NewEditor(nil)
	}
	if deps.Locker == nil {
		deps.Locker = plan.NewLocker()
	}
	deps.Currency = domain.CoalesceStr(domain.NormalizeCurrency(deps.Currency), domain.DefaultCurrency)
	return &planService{deps: deps, observer: useCaseObserverOrNoop(observers)}
}

func (s *planService) GeneratePlan(ctx context.Context, req GeneratePlanRequest) (result *GeneratedPlan, err error) {
	fields := map[string]any{"currency": req.Currency}
	defer observe(ctx, s.observer, "generate-plan", fields)(&err)

	currency := domain.CoalesceStr(strings.TrimSpace(req.Currency), s.deps.Currency)
	fields["currency"] = currency

	lines, err := s.deps.Builder.BuildLines(ctx, req.Description, currency)
	if err != nil {
		return nil, err
	}
	items := make([]domain.PlanItem, len(lines))
	fallbacks := 0
	for i, l := range lines {
		items[i] = l.Item
		if l.Resolution.IsFallback() {
			fallbacks++
		}
	}
	fields["items"] = len(items)
	fields["fallback_prices"] = fallbacks

	p, err := s.deps.Assembler.Assemble(items, req.MarginTarget, currency, req.ProjectID)
	if err != nil {
		return nil, err
	}
	fields["plan_id"] = p.ID()
	fields["total"] = p.Total().String()
	return &GeneratedPlan{Plan: p, Lines: lines}, nil
}

func (s *planService) SavePlan(ctx context.Context, p *domain.Plan) (err error) {
	if p == nil {
		return &domain.ValidationError{Index: -1, Field: "plan", Reason: "is required"}
	}
	defer observe(ctx, s.observer, "save-plan", map[string]any{"plan_id": p.ID()})(&err)

	return s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if pid := p.ProjectID(); pid != "" {
			if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, pid); err != nil {
				return err
			}
		}
		return repository.NewSQLitePlanRepo(tx).Save(ctx, p)
	})
}

func (s *planService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return s.deps.Plans.GetByID(ctx, id)
}

func (s *planService) ListPlans(ctx context.Context, projectID string) ([]*domain.Plan, error) {
	if projectID == "" {
		return s.deps.Plans.List(ctx)
	}
	return s.deps.Plans.ListByProject(ctx, projectID)
}

func (s *planService) EditPlan(_ context.Context, p *domain.Plan, op plan.Operation) (*domain.Plan, error) {
	return s.deps.Editor.Apply(p, op)
}

func (s *planService) EditStoredPlan(ctx context.Context, id string, op plan.Operation) (result *domain.Plan, err error) {
	fields := map[string]any{"plan_id": id}
	if op != nil {
		fields["op"] = op.Name()
	}
	defer observe(ctx, s.observer, "edit-plan", fields)(&err)

	return s.mutateStored(ctx, id, func(p *domain.Plan) (*domain.Plan, error) {
		return s.deps.Editor.Apply(p, op)
	})
}

func (s *planService) ApprovePlan(ctx context.Context, id string) (result *domain.Plan, err error) {
	defer observe(ctx, s.observer, "approve-plan", map[string]any{"plan_id": id})(&err)

	return s.mutateStored(ctx, id, s.deps.Editor.Approve)
}

// mutateStored runs load, change and save for one plan under its lock and
// inside a single transaction.
func (s *planService) mutateStored(ctx context.Context, id string, change func(*domain.Plan) (*domain.Plan, error)) (*domain.Plan, error) {
	unlock, err := s.deps.Locker.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("waiting for plan %s: %w", id, err)
	}
	defer unlock()

	var updated *domain.Plan
	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		current, err := plans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := change(current)
		if err != nil {
			return err
		}
		if err := plans.Save(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *planService) ResolvePrice(ctx context.Context, itemName string, category domain.Category) (domain.PriceResolution, error) {
	if strings.TrimSpace(itemName) == "" {
		return domain.PriceResolution{}, &domain.ValidationError{Index: -1, Field: "item name", Reason: "is required"}
	}
	if !category.Valid() {
		return domain.PriceResolution{}, &domain.ValidationError{Index: -1, Field: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}
	return s.deps.Pricer.Price(ctx, itemName, category), nil
}
