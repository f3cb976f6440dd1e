package catalog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(ctx context.Context, name string, c domain.Category) ([]domain.CandidateQuote, error)

func (f sourceFunc) Candidates(ctx context.Context, name string, c domain.Category) ([]domain.CandidateQuote, error) {
	return f(ctx, name, c)
}

func TestGuarded_PassesThroughCandidates(t *testing.T) {
	src := NewStatic().Add("Plywood Sheet", domain.CategoryMaterials, domain.CandidateQuote{
		Vendor: "Timber Ltd", UnitPrice: decimal.RequireFromString("45.99"), Confidence: 0.9,
	})
	g := NewGuarded(src, time.Second, nil)

	got := g.Lookup(context.Background(), "  plywood   sheet ", domain.CategoryMaterials)
	require.Len(t, got, 1)
	assert.Equal(t, "Timber Ltd", got[0].Vendor)

	assert.Empty(t, g.Lookup(context.Background(), "plywood sheet", domain.CategoryLabor))
}

func TestGuarded_SwallowsErrorsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	src := sourceFunc(func(context.Context, string, domain.Category) ([]domain.CandidateQuote, error) {
		return nil, errors.New("connection refused")
	})
	g := NewGuarded(src, 0, logger)

	got := g.Lookup(context.Background(), "plywood", domain.CategoryMaterials)
	assert.Nil(t, got)
	assert.Contains(t, buf.String(), "catalog lookup failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestGuarded_BoundsSlowSources(t *testing.T) {
	src := sourceFunc(func(ctx context.Context, _ string, _ domain.Category) ([]domain.CandidateQuote, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	g := NewGuarded(src, 20*time.Millisecond, nil)

	start := time.Now()
	got := g.Lookup(context.Background(), "plywood", domain.CategoryMaterials)
	assert.Nil(t, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGuarded_EmptyNameSkipsSource(t *testing.T) {
	called := false
	src := sourceFunc(func(context.Context, string, domain.Category) ([]domain.CandidateQuote, error) {
		called = true
		return nil, nil
	})
	assert.Nil(t, NewGuarded(src, 0, nil).Lookup(context.Background(), "  ", domain.CategoryTools))
	assert.False(t, called)
}

func TestStatic_ReturnsCopies(t *testing.T) {
	src := NewStatic().Add("paint", domain.CategoryMaterials, domain.CandidateQuote{Vendor: "A"})
	got, err := src.Candidates(context.Background(), "PAINT", domain.CategoryMaterials)
	require.NoError(t, err)
	got[0].Vendor = "mutated"

	again, err := src.Candidates(context.Background(), "paint", domain.CategoryMaterials)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Vendor)
}
