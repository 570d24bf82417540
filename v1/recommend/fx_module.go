package recommend

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/embedding"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
)

// FXModule provides *Syncer and *Searcher.
//
// Dependencies required by this module:
//   - embedding.Embedder, logger.Logger and recommend.Config
//   - optionally a *qdrant.QdrantClient; without it sync is disabled and
//     search uses keyword matching
var FXModule = fx.Module("recommend",
	fx.Provide(
		NewIndexWithDI,
		NewSyncerWithDI,
		NewSearcherWithDI,
	),
)

// IndexParams groups the optional vector client.
type IndexParams struct {
	fx.In

	Client *qdrant.QdrantClient `optional:"true"`
}

// NewIndexWithDI returns the vector index or a nil Index when Qdrant is not
// configured. The explicit nil check avoids a non-nil interface holding a
// nil pointer.
func NewIndexWithDI(p IndexParams) Index {
	if p.Client == nil {
		return nil
	}
	return p.Client
}

// Params groups the dependencies of the sync and search constructors.
type Params struct {
	fx.In

	Embedder embedding.Embedder
	Index    Index `optional:"true"`
	Config   Config
	Logger   logger.Logger
}

func NewSyncerWithDI(p Params) *Syncer {
	return NewSyncer(p.Embedder, p.Index, p.Config, p.Logger)
}

func NewSearcherWithDI(p Params) *Searcher {
	return NewSearcher(p.Embedder, p.Index, p.Config, p.Logger)
}
