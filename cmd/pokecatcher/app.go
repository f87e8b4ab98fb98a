package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramonehamilton/pokemon-catcher/internal/catalog"
	"github.com/ramonehamilton/pokemon-catcher/internal/catch"
	"github.com/ramonehamilton/pokemon-catcher/internal/collection"
	"github.com/ramonehamilton/pokemon-catcher/internal/config"
	"github.com/ramonehamilton/pokemon-catcher/internal/events"
	"github.com/ramonehamilton/pokemon-catcher/internal/evolution"
	"github.com/ramonehamilton/pokemon-catcher/internal/game"
	"github.com/ramonehamilton/pokemon-catcher/internal/metrics"
	"github.com/ramonehamilton/pokemon-catcher/internal/pokeapi"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage"
)

// app is the fully wired game for one command invocation.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *storage.DB
	storage    *storage.Service
	dispatcher *events.EventDispatcher
	attempter  *catch.Attempter
	game       *game.Service
}

// newApp opens storage, restores the collection and any stored catalog, and
// wires the game service. It never fetches the catalog from the data source.
func newApp(ctx context.Context, opts *options) (*app, error) {
	cfg, logger := opts.cfg, opts.logger

	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	dbPath, err := cfg.GetDBPath()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(storage.DefaultConfig(dbPath))
	if err != nil {
		return nil, err
	}
	st := storage.NewService(db, logger)

	delay, err := cfg.GetCatchDelay()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("invalid catch delay: %w", err)
	}

	dispatcher := events.NewEventDispatcher(logger)
	dispatcher.Register(events.NewLoggingObserver(logger, opts.verbose))

	loader := evolution.NewLoader(source,
		evolution.WithCache(st.Evolution),
		evolution.WithMetrics(metrics.NewLoaderMetrics()),
		evolution.WithConcurrency(cfg.Loader.Concurrency),
		evolution.WithLogger(logger))
	attempter := catch.NewAttempter(catch.NewEvaluator(nil), delay)
	store, err := collection.Open(ctx, st.Snapshots(),
		collection.WithLogger(logger),
		collection.WithListener(game.CollectionListener(dispatcher)))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	svc := game.NewService(source, catalog.New(), loader, attempter, store,
		game.WithDispatcher(dispatcher),
		game.WithCatalogRepository(st.Catalog),
		game.WithAttemptRepository(st.Attempts),
		game.WithLogger(logger))

	a := &app{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		storage:    st,
		dispatcher: dispatcher,
		attempter:  attempter,
		game:       svc,
	}
	if _, err := svc.RestoreCatalog(ctx); err != nil {
		logger.Warn("failed to restore catalog", zap.Error(err))
	}
	return a, nil
}

func newSource(cfg *config.Config) (pokeapi.Source, error) {
	if cfg.API.Fixture != "" {
		return pokeapi.LoadFixture(cfg.API.Fixture)
	}

	timeout, err := cfg.GetAPITimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout: %w", err)
	}
	return pokeapi.NewClient(pokeapi.ClientOptions{
		BaseURL:   cfg.API.BaseURL,
		RateLimit: cfg.API.RateLimit,
		Timeout:   timeout,
		UserAgent: cfg.API.UserAgent,
	}), nil
}

// ensureCatalog fetches the catalog from the data source when none is stored.
func (a *app) ensureCatalog(ctx context.Context) error {
	if a.game.Catalog().Len() > 0 {
		return nil
	}
	if _, err := a.game.LoadCatalog(ctx, a.cfg.Loader.CatalogLimit, 0); err != nil {
		return fmt.Errorf("catalog unavailable: %w", err)
	}
	return nil
}

func (a *app) close() error {
	return a.db.Close()
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(ctx context.Context, opts *options, fn func(*app) error) (err error) {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}

// withCatalogApp is withApp for commands that look Pokémon up in the catalog.
func withCatalogApp(ctx context.Context, opts *options, fn func(*app) error) error {
	return withApp(ctx, opts, func(a *app) error {
		if err := a.ensureCatalog(ctx); err != nil {
			return err
		}
		return fn(a)
	})
}
