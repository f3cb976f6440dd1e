package intelligence

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/llm"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NeedsService extracts needs with an LLM and falls back to the keyword
// extractor whenever the model is unreachable or its answer is unusable.
// It satisfies estimate.Extractor.
type NeedsService struct {
	client   llm.LLMClient
	fallback *estimate.KeywordExtractor
	logger   *slog.Logger
}

// NewNeedsService creates a NeedsService. The fallback also provides the
// vocabulary used to canonicalize item names returned by the model.
func NewNeedsService(client llm.LLMClient, fallback *estimate.KeywordExtractor, logger *slog.Logger) *NeedsService {
	if fallback == nil {
		fallback = estimate.NewKeywordExtractor(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NeedsService{client: client, fallback: fallback, logger: logger}
}

var _ estimate.Extractor = (*NeedsService)(nil)

func (s *NeedsService) Extract(ctx context.Context, description string) ([]estimate.Need, error) {
	if strings.TrimSpace(description) == "" {
		return nil, nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtractNeeds,
		SystemPrompt: needsSystemPrompt,
		UserPrompt:   "Project description:\n\n" + description,
		JSON:         true,
	})
	if err != nil {
		return s.fallBack(ctx, description, "llm call failed", err)
	}

	parsed, err := llm.ExtractJSON(resp.Text, validateNeedsResponse)
	if err != nil {
		return s.fallBack(ctx, description, "llm output rejected", err)
	}
	if len(parsed.Needs) == 0 {
		return s.fallBack(ctx, description, "llm found no needs", nil)
	}
	return s.toNeeds(parsed.Needs), nil
}

func (s *NeedsService) fallBack(ctx context.Context, description, reason string, err error) ([]estimate.Need, error) {
	attrs := []any{"reason", reason}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	s.logger.Info("using keyword extraction", attrs...)
	return s.fallback.Extract(ctx, description)
}

// toNeeds converts validated model output. Known items take their category,
// unit and title from the vocabulary; duplicate names keep the first entry.
func (s *NeedsService) toNeeds(in []llmNeed) []estimate.Need {
	out := make([]estimate.Need, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, n := range in {
		cat, _ := domain.ParseCategory(n.Category)
		need := estimate.Need{
			Category: cat,
			Name:     strings.Join(strings.Fields(strings.ToLower(n.Name)), " "),
			Title:    strings.TrimSpace(n.Title),
			Unit:     strings.TrimSpace(n.Unit),
			Quantity: decimal.NewFromFloat(n.Quantity),
		}
		if term, ok := s.fallback.Lookup(need.Name); ok && term.Category == cat {
			need.Name = term.Name
			need.Title = domain.CoalesceStr(need.Title, term.Title)
			need.Unit = term.Unit
			need.Role = term.Role
		}
		if need.Title == "" {
			need.Title = titleCase(need.Name)
		}
		if seen[need.Name] {
			continue
		}
		seen[need.Name] = true

		switch cat {
		case domain.CategoryLabor:
			need.Role = domain.CoalesceStr(strings.TrimSpace(n.Role), need.Role, need.Name)
			need.Hours = decimal.NewFromFloat(n.Hours)
			need.Unit = domain.CoalesceStr(need.Unit, "hour")
		case domain.CategoryTools:
			need.RentalDays = int(n.RentalDays)
			need.Unit = domain.CoalesceStr(need.Unit, "day")
		case domain.CategoryLogistics:
			need.DistanceKm = decimal.NewFromFloat(n.DistanceKm)
			need.WeightKg = decimal.NewFromFloat(n.WeightKg)
			need.Urgency = domain.UrgencyNormal
			if n.Urgent {
				need.Urgency = domain.UrgencyHigh
			}
		}
		out = append(out, need)
	}
	return out
}

// titleCase capitalizes each word of a model-supplied name. Scripts without
// case, such as Hebrew, pass through unchanged.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
