package pricing

import (
	"context"

	"github.com/alexanderramin/studioops/internal/catalog"
	"github.com/alexanderramin/studioops/internal/domain"
)

// Service looks an item up in the catalog and resolves its price.
type Service struct {
	catalog  catalog.Catalog
	resolver *Resolver
}

func NewService(c catalog.Catalog, r *Resolver) *Service {
	return &Service{catalog: c, resolver: r}
}

// Price never fails: lookup problems surface as a fallback resolution.
func (s *Service) Price(ctx context.Context, itemName string, category domain.Category) domain.PriceResolution {
	candidates := s.catalog.Lookup(ctx, itemName, category)
	return s.resolver.Resolve(itemName, category, candidates)
}
