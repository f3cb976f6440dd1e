// Package app assembles the StudioOps services from configuration.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/studioops/internal/catalog"
	"github.com/alexanderramin/studioops/internal/config"
	"github.com/alexanderramin/studioops/internal/db"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/intelligence"
	"github.com/alexanderramin/studioops/internal/llm"
	"github.com/alexanderramin/studioops/internal/pricing"
	"github.com/alexanderramin/studioops/internal/repository"
	"github.com/alexanderramin/studioops/internal/service"
)

// Services is the wired application. Close releases the database.
type Services struct {
	Plans    service.PlanService
	Projects service.ProjectService
	Catalog  service.CatalogService

	db *sql.DB
}

func (s *Services) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Build opens the database and wires repositories, the price catalog, the
// needs extractor and the services.
func Build(cfg *config.Config, logger *slog.Logger) (*Services, error) {
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	svc, err := wire(cfg, database, logger)
	if err != nil {
		database.Close()
		return nil, err
	}
	return svc, nil
}

func wire(cfg *config.Config, database *sql.DB, logger *slog.Logger) (*Services, error) {
	projectRepo := repository.NewSQLiteProjectRepo(database)
	vendorRepo := repository.NewSQLiteVendorRepo(database)
	quoteRepo := repository.NewSQLiteQuoteRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	source, err := catalogSource(cfg.Catalog, quoteRepo)
	if err != nil {
		return nil, err
	}
	baselines, err := cfg.Pricing.BaselineOverrides()
	if err != nil {
		return nil, err
	}
	pricer := pricing.NewService(
		catalog.NewGuarded(source, cfg.Pricing.LookupTimeout(), logger),
		pricing.NewResolver(baselines),
	)

	keywords := estimate.NewKeywordExtractor(nil)
	var extractor estimate.Extractor = keywords
	if cfg.LLM.Enabled {
		client := llm.NewOllamaClient(cfg.LLM.Client(), llm.NewSlogObserver(logger))
		extractor = intelligence.NewNeedsService(client, keywords, logger)
		logger.Debug("llm needs extraction enabled", "endpoint", cfg.LLM.Endpoint, "model", cfg.LLM.Model)
	}

	observer := service.NewLogUseCaseObserver(logger)
	return &Services{
		Plans: service.NewPlanService(service.PlanServiceDeps{
			Plans:    planRepo,
			UoW:      uow,
			Builder:  estimate.NewBuilder(extractor, pricer, cfg.Pricing.FanOut, logger),
			Pricer:   pricer,
			Currency: cfg.Pricing.Currency,
		}, observer),
		Projects: service.NewProjectService(projectRepo),
		Catalog:  service.NewCatalogService(vendorRepo, quoteRepo),
		db:       database,
	}, nil
}

// catalogSource picks where quotes come from: the quote table, or the
// canned quotes in the config file.
func catalogSource(cfg config.CatalogConfig, quotes repository.QuoteRepo) (catalog.Source, error) {
	switch cfg.Mode {
	case config.CatalogStatic:
		canned, err := cfg.StaticQuotes()
		if err != nil {
			return nil, err
		}
		static := catalog.NewStatic()
		for item, byCategory := range canned {
			for cat, qs := range byCategory {
				static.Add(item, cat, qs...)
			}
		}
		return static, nil
	case config.CatalogSQLite, "":
		return quotes, nil
	default:
		return nil, fmt.Errorf("unknown catalog mode %q", cfg.Mode)
	}
}
