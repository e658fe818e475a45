package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

type FundService interface {
	CreateFund(fund *models.FundTransaction) error
	GetFundByID(id string) (*models.FundTransaction, error)
	GetAllFunds() ([]models.FundTransaction, error)
	UpdateFund(id string, apply func(fund *models.FundTransaction) error) (*models.FundTransaction, error)
	DeleteFund(id string) error
	Totals() (ledger.FundSummary, error)
}

type fundService struct {
	repo  repository.FundRepository
	now   Clock
	cache invalidator
	log   zerolog.Logger
}

func NewFundService(repo repository.FundRepository, cache MetricsCache, clock Clock) FundService {
	if clock == nil {
		clock = systemClock
	}
	log := logger.WithComponent("funds")
	return &fundService{repo: repo, now: clock, cache: invalidator{cache: cache, log: log}, log: log}
}

// validateFund checks the type and sign. The direction of the movement is
// carried by Type, so amounts are never negative.
func validateFund(fund *models.FundTransaction) error {
	if !fund.Type.Valid() {
		return newValidationError("type", ErrInvalidFundType)
	}
	if fund.Amount.IsNegative() {
		return newValidationError("amount", ErrNegativeAmount)
	}
	return nil
}

func (s *fundService) CreateFund(fund *models.FundTransaction) error {
	if err := validateFund(fund); err != nil {
		return err
	}
	fund.ID = newID()
	fund.CreatedAt = s.now()
	fund.UpdatedAt = nil

	if err := s.repo.Create(fund); err != nil {
		return fmt.Errorf("failed to create fund transaction: %w", err)
	}
	s.cache.invalidate()
	s.log.Info().Str("fund_id", fund.ID).Str("type", string(fund.Type)).Str("amount", fund.Amount.String()).Msg("Fund transaction created")
	return nil
}

func (s *fundService) GetFundByID(id string) (*models.FundTransaction, error) {
	fund, err := s.repo.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrFundNotFound
		}
		return nil, fmt.Errorf("failed to get fund transaction: %w", err)
	}
	return fund, nil
}

func (s *fundService) GetAllFunds() ([]models.FundTransaction, error) {
	funds, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get fund transactions: %w", err)
	}
	return funds, nil
}

func (s *fundService) UpdateFund(id string, apply func(fund *models.FundTransaction) error) (*models.FundTransaction, error) {
	fund, err := s.GetFundByID(id)
	if err != nil {
		return nil, err
	}
	createdAt := fund.CreatedAt
	if err := apply(fund); err != nil {
		return nil, err
	}
	if err := validateFund(fund); err != nil {
		return nil, err
	}
	fund.ID = id
	fund.CreatedAt = createdAt
	now := s.now()
	fund.UpdatedAt = &now

	if err := s.repo.Update(fund); err != nil {
		return nil, fmt.Errorf("failed to update fund transaction: %w", err)
	}
	s.cache.invalidate()
	s.log.Info().Str("fund_id", id).Msg("Fund transaction updated")
	return fund, nil
}

func (s *fundService) DeleteFund(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if repository.IsNotFound(err) {
			return ErrFundNotFound
		}
		return fmt.Errorf("failed to delete fund transaction: %w", err)
	}
	s.cache.invalidate()
	s.log.Info().Str("fund_id", id).Msg("Fund transaction deleted")
	return nil
}

func (s *fundService) Totals() (ledger.FundSummary, error) {
	funds, err := s.GetAllFunds()
	if err != nil {
		return ledger.FundSummary{}, err
	}
	return ledger.FundTotals(funds), nil
}
