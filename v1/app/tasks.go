package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/config"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/recommend"
)

// Seed connects and runs only the seed stage. With force the catalog is
// replaced; otherwise a populated catalog is left untouched.
func Seed(ctx context.Context, cfg *config.Config, force bool, extra ...fx.Option) (catalog.SeedResult, error) {
	var (
		manager *connection.Manager
		seeder  *catalog.Seeder
	)
	var res catalog.SeedResult
	err := runTask(ctx, cfg, func(ctx context.Context) error {
		h, err := manager.EnsureConnected(ctx)
		if err != nil {
			return err
		}
		res, err = seeder.SeedConnection(ctx, h, catalog.SeedOptions{Force: force, SkipIfExists: !force})
		return err
	}, append(extra, fx.Populate(&manager, &seeder))...)
	return res, err
}

// Sync connects and brings the vector index in line with the catalog. It returns
// recommend.ErrIndexDisabled when Qdrant is not configured.
func Sync(ctx context.Context, cfg *config.Config, extra ...fx.Option) error {
	if !cfg.Qdrant.Enabled() {
		return recommend.ErrIndexDisabled
	}

	var (
		manager *connection.Manager
		syncer  *recommend.Syncer
	)
	return runTask(ctx, cfg, func(ctx context.Context) error {
		h, err := manager.EnsureConnected(ctx)
		if err != nil {
			return err
		}
		return syncer.Sync(ctx, h)
	}, append(extra, fx.Populate(&manager, &syncer))...)
}

// runTask starts the core graph, runs fn and stops the graph. The dedicated
// metrics listener is not started for one-off tasks.
func runTask(ctx context.Context, cfg *config.Config, fn func(ctx context.Context) error, extra ...fx.Option) (err error) {
	taskCfg := *cfg
	taskCfg.Metrics.Address = ""

	app := fx.New(append([]fx.Option{Core(&taskCfg), fx.StartTimeout(StartTimeout(&taskCfg))}, extra...)...)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	defer func() {
		stopErr := app.Stop(context.WithoutCancel(ctx))
		err = errors.Join(err, stopErr)
	}()

	return fn(ctx)
}
