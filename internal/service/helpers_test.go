package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/studioops/internal/catalog"
	"github.com/alexanderramin/studioops/internal/db"
	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/plan"
	"github.com/alexanderramin/studioops/internal/pricing"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/alexanderramin/studioops/internal/testutil"
	"github.com/stretchr/testify/require"
)

const cabinetDescription = "Build a small cabinet using plywood, needs a carpenter for 16 hours"

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *sql.DB
	projects repository.ProjectRepo
	vendors  repository.VendorRepo
	quotes   repository.QuoteRepo
	plans    repository.PlanRepo
	svc      PlanService
	events   *recordingObserver
}

// setupPlanEnv wires the plan service over a fresh database whose quote table
// is the catalog, seeded with a plywood quote from Timber Ltd.
func setupPlanEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return setupPlanEnvOn(t, database, testutil.NewTestUoW(database))
}

func setupPlanEnvOn(t *testing.T, database *sql.DB, work db.UnitOfWork) *testEnv {
	t.Helper()
	env := &testEnv{
		db:       database,
		projects: repository.NewSQLiteProjectRepo(database),
		vendors:  repository.NewSQLiteVendorRepo(database),
		quotes:   repository.NewSQLiteQuoteRepo(database),
		plans:    repository.NewSQLitePlanRepo(database),
		events:   &recordingObserver{},
	}

	ctx := context.Background()
	vendor := testutil.NewTestVendor("Timber Ltd")
	require.NoError(t, env.vendors.Create(ctx, vendor))
	require.NoError(t, env.quotes.Create(ctx, testutil.NewTestQuote(vendor.ID, "plywood", "45.99",
		testutil.WithConfidence(0.9), testutil.WithUnit("sheet"))))

	pricer := pricing.NewService(catalog.NewGuarded(env.quotes, time.Second, nil), pricing.NewResolver(nil))
	env.svc = NewPlanService(PlanServiceDeps{
		Plans:     env.plans,
		UoW:       work,
		Builder:   estimate.NewBuilder(estimate.NewKeywordExtractor(nil), pricer, 4, nil),
		Pricer:    pricer,
		Assembler: plan.NewAssembler(plan.WithAssemblerClock(func() time.Time { return fixedNow })),
		Editor:    plan.NewEditor(func() time.Time { return fixedNow.Add(time.Hour) }),
		Currency:  "nis",
	}, env.events)
	return env
}

// recordingObserver is shared by use cases that run concurrently.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.events) == 0 {
		return UseCaseEvent{}
	}
	return o.events[len(o.events)-1]
}

func (o *recordingObserver) count(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, e := range o.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

func generateAndSave(t *testing.T, env *testEnv, projectID string) *domain.Plan {
	t.Helper()
	gen, err := env.svc.GeneratePlan(context.Background(), GeneratePlanRequest{
		Description:  cabinetDescription,
		MarginTarget: dec("0.25"),
		ProjectID:    projectID,
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.SavePlan(context.Background(), gen.Plan))
	return gen.Plan
}

func itemAt(t *testing.T, p *domain.Plan, i int) domain.PlanItem {
	t.Helper()
	it, err := p.Item(i)
	require.NoError(t, err)
	return it
}
