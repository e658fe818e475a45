package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"bookkeeper/internal/ledger"
)

// MetricsCache stores the computed dashboard between writes.
type MetricsCache interface {
	GetDashboard(ctx context.Context) (*ledger.Dashboard, bool, error)
	SetDashboard(ctx context.Context, d *ledger.Dashboard, ttl time.Duration) error
	InvalidateDashboard(ctx context.Context) error
}

// invalidator drops the cached dashboard after a successful write. A nil
// cache disables it. Cache errors never fail the write.
type invalidator struct {
	cache MetricsCache
	log   zerolog.Logger
}

func (i invalidator) invalidate() {
	if i.cache == nil {
		return
	}
	if err := i.cache.InvalidateDashboard(context.Background()); err != nil {
		i.log.Warn().Err(err).Msg("Failed to invalidate dashboard cache")
	}
}
