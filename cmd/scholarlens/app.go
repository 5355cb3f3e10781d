package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/config"
	"github.com/csheth/scholarlens/internal/library"
	"github.com/csheth/scholarlens/internal/logging"
	"github.com/csheth/scholarlens/internal/workflow"
)

const openTimeout = 15 * time.Second

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	store    library.Store
	analyzer analysis.Analyzer
	// analyzerErr explains a nil analyzer; the library stays browsable.
	analyzerErr error
	controller  *workflow.Controller
	closers     []func() error
}

// newApp opens the store and, when withAnalyzer is set, the analyzer.
// Read-only commands skip the analyzer so they work without LLM credentials.
func newApp(ctx context.Context, cfg config.Config, withAnalyzer bool) (*app, error) {
	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	openCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()
	store, err := library.Open(openCtx, cfg.StoreOptions())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("opening library: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store.Close)

	if withAnalyzer {
		analyzer, err := analysis.New(cfg.AnalysisConfig(logger))
		if err != nil {
			a.analyzerErr = err
			logger.Warn("analysis provider unavailable", zap.Error(err))
		} else {
			a.analyzer = a.withCache(openCtx, analyzer)
		}
	}

	a.controller = workflow.New(a.store, a.analyzer, workflow.WithLogger(logger))
	logger.Info("scholarlens ready",
		zap.String("backend", cfg.StoreOptions().Backend),
		zap.Bool("analyzer", a.analyzer != nil),
	)
	return a, nil
}

// withCache wraps analyzer with the Redis cache when one is configured.
// An unreachable Redis only costs the cache.
func (a *app) withCache(ctx context.Context, analyzer analysis.Analyzer) analysis.Analyzer {
	if a.cfg.Cache.RedisAddr == "" {
		return analyzer
	}
	cache, err := analysis.NewRedisCache(ctx, a.cfg.Cache.RedisAddr, a.cfg.Cache.RedisPassword)
	if err != nil {
		a.logger.Warn("analysis cache disabled", zap.String("addr", a.cfg.Cache.RedisAddr), zap.Error(err))
		return analyzer
	}
	a.closers = append(a.closers, cache.Close)
	return analysis.Cached(analyzer, cache, a.cfg.Cache.TTL, a.logger)
}

func (a *app) providerLabel() string {
	if a.analyzer == nil {
		return ""
	}
	return a.analyzer.Name()
}

func (a *app) storeLabel() string {
	opts := a.cfg.StoreOptions()
	if opts.Backend == library.BackendMongo {
		return "mongo:" + opts.MongoDatabase
	}
	return opts.Backend + ":" + opts.Path
}

// Close releases the store and cache in reverse order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
