// Package catalog defines the vendor/material price lookup consumed by the
// pricing engine and the adapters that put a real store behind it.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
)

// Source is a raw price store. It may fail (connectivity, bad rows).
type Source interface {
	Candidates(ctx context.Context, itemName string, category domain.Category) ([]domain.CandidateQuote, error)
}

// Catalog is the lookup contract the pricing engine consumes. It never
// fails: an unreachable store looks like an item with no quotes.
type Catalog interface {
	Lookup(ctx context.Context, itemName string, category domain.Category) []domain.CandidateQuote
}

// Guarded adapts a Source to a Catalog by bounding each query with a timeout
// and turning errors into empty results.
type Guarded struct {
	source  Source
	timeout time.Duration
	logger  *slog.Logger
}

// NewGuarded wraps source. A non-positive timeout disables the per-query
// deadline; a nil logger discards warnings.
func NewGuarded(source Source, timeout time.Duration, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guarded{source: source, timeout: timeout, logger: logger}
}

func (g *Guarded) Lookup(ctx context.Context, itemName string, category domain.Category) []domain.CandidateQuote {
	name := strings.TrimSpace(itemName)
	if name == "" {
		return nil
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	quotes, err := g.source.Candidates(ctx, name, category)
	if err != nil {
		g.logger.WarnContext(ctx, "catalog lookup failed; treating as no candidates",
			"item", name,
			"category", string(category),
			"error", err,
		)
		return nil
	}
	return quotes
}

// Compile-time verification.
var _ Catalog = (*Guarded)(nil)
