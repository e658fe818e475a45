package services

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bookkeeper/internal/ledger"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
)

type ExpenseService interface {
	CreateExpense(expense *models.GeneralExpense) error
	GetExpenseByID(id string) (*models.GeneralExpense, error)
	// SearchExpenses filters by description, case-insensitively. An empty
	// query returns every expense.
	SearchExpenses(query string) ([]models.GeneralExpense, error)
	UpdateExpense(id string, apply func(expense *models.GeneralExpense) error) (*models.GeneralExpense, error)
	DeleteExpense(id string) error
	Total(expenses []models.GeneralExpense) decimal.Decimal
}

type expenseService struct {
	repo  repository.GeneralExpenseRepository
	now   Clock
	cache invalidator
	log   zerolog.Logger
}

func NewExpenseService(repo repository.GeneralExpenseRepository, cache MetricsCache, clock Clock) ExpenseService {
	if clock == nil {
		clock = systemClock
	}
	log := logger.WithComponent("expenses")
	return &expenseService{repo: repo, now: clock, cache: invalidator{cache: cache, log: log}, log: log}
}

func (s *expenseService) CreateExpense(expense *models.GeneralExpense) error {
	if expense.Amount.IsNegative() {
		return newValidationError("amount", ErrNegativeAmount)
	}
	expense.ID = newID()
	expense.CreatedAt = s.now()
	expense.UpdatedAt = nil

	if err := s.repo.Create(expense); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	s.cache.invalidate()
	s.log.Info().Str("expense_id", expense.ID).Str("amount", expense.Amount.String()).Msg("Expense created")
	return nil
}

func (s *expenseService) GetExpenseByID(id string) (*models.GeneralExpense, error) {
	expense, err := s.repo.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) SearchExpenses(query string) ([]models.GeneralExpense, error) {
	expenses, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return expenses, nil
	}
	matched := make([]models.GeneralExpense, 0, len(expenses))
	for _, e := range expenses {
		if strings.Contains(strings.ToLower(e.Description), needle) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (s *expenseService) UpdateExpense(id string, apply func(expense *models.GeneralExpense) error) (*models.GeneralExpense, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}
	createdAt := expense.CreatedAt
	if err := apply(expense); err != nil {
		return nil, err
	}
	if expense.Amount.IsNegative() {
		return nil, newValidationError("amount", ErrNegativeAmount)
	}
	expense.ID = id
	expense.CreatedAt = createdAt
	now := s.now()
	expense.UpdatedAt = &now

	if err := s.repo.Update(expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	s.cache.invalidate()
	s.log.Info().Str("expense_id", id).Msg("Expense updated")
	return expense, nil
}

func (s *expenseService) DeleteExpense(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if repository.IsNotFound(err) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	s.cache.invalidate()
	s.log.Info().Str("expense_id", id).Msg("Expense deleted")
	return nil
}

func (s *expenseService) Total(expenses []models.GeneralExpense) decimal.Decimal {
	return ledger.TotalGeneralExpenses(expenses)
}
