package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/alexanderramin/studioops/internal/domain"
)

// Static is an in-memory Source holding canned quotes. It backs offline mode
// and tests.
type Static struct {
	mu     sync.RWMutex
	quotes map[staticKey][]domain.CandidateQuote
}

type staticKey struct {
	name     string
	category domain.Category
}

func NewStatic() *Static {
	return &Static{quotes: make(map[staticKey][]domain.CandidateQuote)}
}

// Add registers quotes for an item. Names match case-insensitively.
func (s *Static) Add(itemName string, category domain.Category, quotes ...domain.CandidateQuote) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := staticKey{name: normalizeName(itemName), category: category}
	s.quotes[k] = append(s.quotes[k], quotes...)
	return s
}

func (s *Static) Candidates(ctx context.Context, itemName string, category domain.Category) ([]domain.CandidateQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.quotes[staticKey{name: normalizeName(itemName), category: category}]
	if len(src) == 0 {
		return nil, nil
	}
	out := make([]domain.CandidateQuote, len(src))
	copy(out, src)
	return out, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var _ Source = (*Static)(nil)
