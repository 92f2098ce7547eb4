package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExpenseServiceImpl implements ports.ExpenseService.
type ExpenseServiceImpl struct {
	repo ports.ExpenseRepository
	now  func() time.Time
	auditor
}

// NewExpenseService creates a new ExpenseServiceImpl.
func NewExpenseService(repo ports.ExpenseRepository, audit ports.AuditService, log zerolog.Logger) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{repo: repo, now: time.Now, auditor: auditor{audit: audit, log: log}}
}

// Create records an expense.
func (s *ExpenseServiceImpl) Create(ctx context.Context, req ports.CreateExpenseRequest) (*domain.Expense, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperror.Validation("category is required")
	}

	now := s.now().UTC()
	e := &domain.Expense{
		ID:          uuid.New(),
		Category:    category,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseDate: dateOrNow(req.ExpenseDate, now),
		PaymentMode: req.PaymentMode,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.record(ctx, domain.ModuleExpenses, domain.AuditActionCreate,
		fmt.Sprintf("Recorded expense of %.2f for %s", e.Amount, e.Category),
		domain.Details{"id": e.ID.String(), "category": e.Category, "amount": e.Amount})

	return e, nil
}

// List returns expenses matching params, newest first.
func (s *ExpenseServiceImpl) List(ctx context.Context, params ports.ExpenseListParams) ([]domain.Expense, error) {
	params.Category = strings.TrimSpace(params.Category)
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return list, nil
}

// Summary totals today's and this calendar month's expenses in server local
// time, with the month broken down by category.
func (s *ExpenseServiceImpl) Summary(ctx context.Context) (*domain.ExpenseSummary, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := s.repo.Sum(ctx, domain.DateRange{Start: &dayStart, End: &now})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	month, err := s.repo.Sum(ctx, domain.DateRange{Start: &monthStart, End: &now})
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	byCategory, err := s.repo.SumByCategory(ctx, domain.DateRange{Start: &monthStart, End: &now})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return &domain.ExpenseSummary{Today: today, Month: month, ByCategory: byCategory}, nil
}
