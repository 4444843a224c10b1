package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reelmatch/internal/catalog"
	"reelmatch/internal/config"
	"reelmatch/internal/costtracker"
	"reelmatch/internal/services"
	"reelmatch/internal/store"
	"reelmatch/internal/store/local"
	"reelmatch/internal/store/primary"
	"reelmatch/internal/tasks"
	"reelmatch/pkg/recommender"

	log "github.com/sirupsen/logrus"
)

type App struct {
	Config *config.Config

	Store             store.Store
	JobClient         store.JobClient // nil unless worker.enabled
	CostTracker       costtracker.CostTracker
	CompletionService services.CompletionService
	Resolver          *recommender.Resolver

	// --- Initialized Services ---
	RecommendationService *services.RecommendationService
	SavedService          *services.SavedService
	HistoryService        *services.HistoryService
	CostService           *services.CostService
	JobService            *services.JobService
}

// Options overrides pieces that NewApp would otherwise build from config.
type Options struct {
	Store      store.Store
	Completion services.CompletionService
}

func NewApp(cfg *config.Config) (*App, error) {
	return NewAppWithOptions(context.Background(), cfg, Options{})
}

func NewAppWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	app := &App{Config: cfg, Store: opts.Store, CompletionService: opts.Completion}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	app.CostTracker = costtracker.New(app.Store, cfg.PricingFor)

	if err := app.initCompletionService(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.initResolver()
	app.initCoreServices()

	log.Info("Application initialization complete.")
	return app, nil
}

// --- Private Helper Methods ---

func (a *App) initStore(ctx context.Context) error {
	if a.Store != nil {
		return nil
	}
	if a.Config.UsePrimaryStore() {
		ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.Primary.DSN)
		if err != nil {
			return fmt.Errorf("init primary store: %w", err)
		}
		a.Store = ps
		return nil
	}
	ls, err := local.NewLocalStore(ctx, a.Config.Database.Local.Path)
	if err != nil {
		return fmt.Errorf("init local store: %w", err)
	}
	log.Debugf("Using local SQLite store at %s", a.Config.Database.Local.Path)
	a.Store = ls
	return nil
}

func (a *App) initCompletionService(ctx context.Context) error {
	if a.CompletionService == nil {
		cs, err := services.NewCompletionService(ctx, a.Config, a.CostTracker)
		if err != nil {
			return fmt.Errorf("init completion service: %w", err)
		}
		a.CompletionService = cs
	}
	if a.CompletionService.Status() == store.ProviderStatusDisabled {
		return nil
	}
	b := a.Config.AI.Breaker
	a.CompletionService = services.NewBreakerCompletionService(
		a.CompletionService, b.MaxFailures, time.Duration(b.OpenSeconds)*time.Second)
	return nil
}

func (a *App) initJobClient() error {
	if !a.Config.Worker.Enabled {
		return nil
	}
	jc, err := store.NewAsynqJobClient(store.RedisOptions{
		Addr:     a.Config.Redis.Address,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	}, a.Store, tasks.QueueRecommendations)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	return nil
}

func (a *App) initResolver() {
	if a.CompletionService.Status() == store.ProviderStatusDisabled {
		log.Info("AI provider disabled; recommendations use keyword matching only.")
		a.Resolver = recommender.NewResolver(nil)
		return
	}
	template, err := config.LoadPromptContent(a.Config.AI.PromptTemplate)
	if err != nil {
		log.Warnf("Failed to load prompt template: %v. Using the built-in template.", err)
		template = ""
	}
	client := recommender.NewClient(a.CompletionService, catalog.All(), template)
	a.Resolver = recommender.NewResolver(client)
}

func (a *App) initCoreServices() {
	cfg := a.Config
	a.RecommendationService = services.NewRecommendationService(
		a.Resolver, a.Store, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	a.SavedService = services.NewSavedService(a.Store, cfg.Saved.Namespace)
	a.HistoryService = services.NewHistoryService(a.Store, cfg.History.DefaultLimit)
	a.CostService = services.NewCostService(a.Store)
	a.JobService = services.NewJobService(a.JobClient, a.Store)
}

// Close releases the store, job client and provider clients.
func (a *App) Close() error {
	var errs []error
	if a.JobClient != nil {
		errs = append(errs, a.JobClient.Close())
	}
	if c, ok := unwrapCloser(a.CompletionService); ok {
		errs = append(errs, c.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

func (a *App) cleanupPartialInit() {
	if err := a.Close(); err != nil {
		log.Errorf("Error during cleanup: %v", err)
	}
}

func unwrapCloser(cs services.CompletionService) (interface{ Close() error }, bool) {
	if b, ok := cs.(interface {
		Inner() services.CompletionService
	}); ok {
		cs = b.Inner()
	}
	c, ok := cs.(interface{ Close() error })
	return c, ok
}
