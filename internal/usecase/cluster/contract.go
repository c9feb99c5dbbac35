package cluster

import (
	"context"

	"github.com/kailas-cloud/esdex/internal/usecase/catalog"
)

// DBPinger checks backend availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// StatsReader summarizes the catalog.
type StatsReader interface {
	Stats() catalog.Stats
}
