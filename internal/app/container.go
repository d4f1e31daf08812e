package app

import (
	"context"

	"github.com/paceline/paceline/internal/application/doctor"
	"github.com/paceline/paceline/internal/application/statusline"
	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/infrastructure/cache"
	"github.com/paceline/paceline/internal/infrastructure/config"
	"github.com/paceline/paceline/internal/infrastructure/git"
	"github.com/paceline/paceline/internal/infrastructure/provider"
	"github.com/paceline/paceline/internal/infrastructure/store"
	"github.com/paceline/paceline/internal/pkg/logger"
	"github.com/paceline/paceline/internal/ports"
	"github.com/paceline/paceline/internal/powerline"
	"github.com/paceline/paceline/internal/segments"
)

// Container wires up the statusline service with infrastructure adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Statusline   *statusline.Service
	Doctor       *doctor.Service
	Store        *store.SQLiteStore
	Cache        *cache.FileCache
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph. The store handle it opens
// belongs to the invocation; callers close it on every exit path.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	snapshotStore := store.NewSQLiteStore("")
	usageCache := cache.NewFileCache("")
	inspector := git.NewCLIInspector()

	providers := make([]ports.CostProvider, 0, len(cfg.Usage.Providers))
	for _, pc := range cfg.Usage.Providers {
		providers = append(providers, provider.NewSubprocess(pc))
	}

	renderer := powerline.New(cfg.Theme, powerline.DetectProfile(cfg.Theme))

	svc := &statusline.Service{
		Config: cfg,
		Deps: segments.Deps{
			Store:     snapshotStore,
			Cache:     usageCache,
			Providers: providers,
			Git:       inspector,
			Logger:    log,
		},
		Store:    snapshotStore,
		Renderer: renderer,
		Logger:   log,
	}

	doctorSvc := &doctor.Service{
		ConfigProvider: cfgLoader,
		Store:          snapshotStore,
		Cache:          usageCache,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Statusline:   svc,
		Doctor:       doctorSvc,
		Store:        snapshotStore,
		Cache:        usageCache,
		Logger:       log,
	}, nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
