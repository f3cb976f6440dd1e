package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/alexanderramin/studioops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(t *testing.T) CatalogService {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewCatalogService(repository.NewSQLiteVendorRepo(database), repository.NewSQLiteQuoteRepo(database))
}

func TestCatalogService_AddVendor(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	v := &domain.Vendor{Name: "  Paint Co "}
	require.NoError(t, svc.AddVendor(ctx, v))
	assert.Equal(t, "Paint Co", v.Name)
	assert.NotEmpty(t, v.ID)

	err := svc.AddVendor(ctx, &domain.Vendor{Name: "paint co"})
	assert.ErrorIs(t, err, domain.ErrValidation, "names are unique ignoring case")

	err = svc.AddVendor(ctx, &domain.Vendor{Name: "Fallback"})
	assert.ErrorIs(t, err, domain.ErrValidation, "reserved name")

	err = svc.AddVendor(ctx, &domain.Vendor{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	vendors, err := svc.ListVendors(ctx)
	require.NoError(t, err)
	assert.Len(t, vendors, 1)
}

func TestCatalogService_AddQuoteByVendorName(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	v := &domain.Vendor{Name: "Timber Ltd"}
	require.NoError(t, svc.AddVendor(ctx, v))

	q := &domain.VendorQuote{
		VendorID:   "timber ltd",
		ItemName:   "Plywood",
		Category:   domain.CategoryMaterials,
		Unit:       "sheet",
		UnitPrice:  dec("45.99"),
		Confidence: 0.9,
		IsQuote:    true,
	}
	require.NoError(t, svc.AddQuote(ctx, q))
	assert.Equal(t, v.ID, q.VendorID)
	assert.WithinDuration(t, time.Now(), q.FetchedAt, time.Minute)

	quotes, err := svc.ListQuotes(ctx, "plywood", "")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.True(t, dec("45.99").Equal(quotes[0].UnitPrice))
}

func TestCatalogService_AddQuoteRejects(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()
	v := &domain.Vendor{Name: "Timber Ltd"}
	require.NoError(t, svc.AddVendor(ctx, v))

	err := svc.AddQuote(ctx, &domain.VendorQuote{VendorID: "nobody", ItemName: "mdf", Category: domain.CategoryMaterials, UnitPrice: dec("10")})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = svc.AddQuote(ctx, &domain.VendorQuote{VendorID: v.ID, ItemName: "mdf", Category: domain.CategoryMaterials, UnitPrice: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.AddQuote(ctx, &domain.VendorQuote{VendorID: v.ID, ItemName: "mdf", Category: domain.CategoryMaterials, UnitPrice: dec("10"), Confidence: 1.2})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
