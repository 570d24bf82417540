package startup

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
)

// Connector is satisfied by *connection.Manager.
type Connector interface {
	EnsureConnected(ctx context.Context) (connection.Handle, error)
}

// Seeder is satisfied by *catalog.Seeder.
type Seeder interface {
	SeedConnection(ctx context.Context, h connection.Handle, opts catalog.SeedOptions) (catalog.SeedResult, error)
}

// Syncer is satisfied by *recommend.Syncer.
type Syncer interface {
	Sync(ctx context.Context, h connection.Handle) error
}

// StageObserver receives the duration and result of each stage.
// *metrics.Metrics implements it.
type StageObserver interface {
	ObserveStage(stage string, duration time.Duration, err error)
}

type nopStageObserver struct{}

func (nopStageObserver) ObserveStage(string, time.Duration, error) {}
