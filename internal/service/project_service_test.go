package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/alexanderramin/studioops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateDefaults(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database))
	ctx := context.Background()

	p := &domain.Project{Name: "Showroom fit-out", Client: "Acme"}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.ProjectActive, p.Status)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Client)
}

func TestProjectService_CreateRequiresName(t *testing.T) {
	svc := NewProjectService(repository.NewSQLiteProjectRepo(testutil.NewTestDB(t)))
	err := svc.Create(context.Background(), &domain.Project{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectService_ListHidesArchived(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &domain.Project{Name: "Live"}))
	require.NoError(t, svc.Create(ctx, &domain.Project{Name: "Old", Status: domain.ProjectArchived}))

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Live", active[0].Name)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
