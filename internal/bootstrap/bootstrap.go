package bootstrap

import (
	"context"
	"fmt"

	"github.com/tnso721607-maker/tenderquote/internal/config"
	"github.com/tnso721607-maker/tenderquote/internal/core/ports"
	"github.com/tnso721607-maker/tenderquote/internal/core/usecase"
	"github.com/tnso721607-maker/tenderquote/internal/infrastructure/llm/ollama"
	"github.com/tnso721607-maker/tenderquote/internal/infrastructure/queue/nats"
	"github.com/tnso721607-maker/tenderquote/internal/infrastructure/repository/postgres"
	"github.com/tnso721607-maker/tenderquote/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config

	Queue         ports.MessageQueue
	QuotationRepo ports.QuotationRepository
	QuotationRead ports.QuotationReader
	CatalogUC     ports.CatalogService
	RequestUC     ports.QuotationRequester
	BuildUC       ports.QuotationBuilder

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	catalogRepo := postgres.NewCatalogRepository(db)
	if err := catalogRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure catalog schema: %w", err)
	}
	quotationRepo := postgres.NewQuotationRepository(db)
	if err := quotationRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure quotation schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	llmClient := ollama.New(cfg.OllamaURL, cfg.OllamaModel).WithExecutor(executor)
	extractor := ollama.NewExtractor(llmClient)
	matcher := ollama.NewMatcher(llmClient)

	catalogUC := usecase.NewCatalogUseCase(catalogRepo, extractor)
	requestUC := usecase.NewRequestQuotationUseCase(quotationRepo, queue)
	buildUC := usecase.NewBuildQuotationUseCase(quotationRepo, catalogRepo, extractor, matcher, cfg.MatchMaxConcurrency)

	return &App{
		Config: cfg,

		Queue:         queue,
		QuotationRepo: quotationRepo,
		QuotationRead: quotationRepo,
		CatalogUC:     catalogUC,
		RequestUC:     requestUC,
		BuildUC:       buildUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
