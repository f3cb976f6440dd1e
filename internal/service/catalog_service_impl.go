package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/google/uuid"
)

type catalogService struct {
	vendors repository.VendorRepo
	quotes  repository.QuoteRepo
}

func NewCatalogService(vendors repository.VendorRepo, quotes repository.QuoteRepo) CatalogService {
	return &catalogService{vendors: vendors, quotes: quotes}
}

func (s *catalogService) AddVendor(ctx context.Context, v *domain.Vendor) error {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return &domain.ValidationError{Index: -1, Field: "vendor name", Reason: "is required"}
	}
	if strings.EqualFold(v.Name, domain.FallbackVendor) {
		return &domain.ValidationError{Index: -1, Field: "vendor name", Reason: "is reserved"}
	}
	if _, err := s.vendors.GetByName(ctx, v.Name); err == nil {
		return &domain.ValidationError{Index: -1, Field: "vendor name", Reason: "vendor " + v.Name + " already exists"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt = time.Now().UTC()
	return s.vendors.Create(ctx, v)
}

func (s *catalogService) ListVendors(ctx context.Context) ([]*domain.Vendor, error) {
	return s.vendors.List(ctx)
}

func (s *catalogService) AddQuote(ctx context.Context, q *domain.VendorQuote) error {
	if q.VendorID != "" {
		if _, err := s.vendors.GetByID(ctx, q.VendorID); errors.Is(err, repository.ErrNotFound) {
			v, err := s.vendors.GetByName(ctx, q.VendorID)
			if err != nil {
				return err
			}
			q.VendorID = v.ID
		} else if err != nil {
			return err
		}
	}
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	q.CreatedAt = now
	if q.FetchedAt.IsZero() {
		q.FetchedAt = now
	}
	if err := q.Validate(); err != nil {
		return &domain.ValidationError{Index: -1, Item: q.ItemName, Field: "quote", Reason: err.Error()}
	}
	return s.quotes.Create(ctx, q)
}

func (s *catalogService) ListQuotes(ctx context.Context, itemName string, category domain.Category) ([]*domain.VendorQuote, error) {
	return s.quotes.ListByItem(ctx, itemName, category)
}
