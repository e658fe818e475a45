package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/repository"
)

type DashboardService interface {
	// GetDashboard returns the cached dashboard when there is one, otherwise
	// computes it and fills the cache.
	GetDashboard(ctx context.Context) (*ledger.Dashboard, error)
	Compute() (*ledger.Dashboard, error)
}

type dashboardService struct {
	store *repository.Store
	cache MetricsCache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewDashboardService(store *repository.Store, cache MetricsCache, ttl time.Duration) DashboardService {
	return &dashboardService{
		store: store,
		cache: cache,
		ttl:   ttl,
		log:   logger.WithComponent("dashboard"),
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*ledger.Dashboard, error) {
	if s.cache != nil {
		d, ok, err := s.cache.GetDashboard(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("Dashboard cache read failed")
		} else if ok {
			return d, nil
		}
	}

	d, err := s.Compute()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, d, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("Dashboard cache write failed")
		}
	}
	return d, nil
}

func (s *dashboardService) Compute() (*ledger.Dashboard, error) {
	orders, err := s.store.Orders.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	expenses, err := s.store.Expenses.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	funds, err := s.store.Funds.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load fund transactions: %w", err)
	}
	d := ledger.Summarize(orders, expenses, funds)
	return &d, nil
}
