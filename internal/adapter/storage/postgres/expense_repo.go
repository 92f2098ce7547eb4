package postgres

import (
	"context"
	"fmt"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
)

const expenseColumns = `id, category, amount, description, expense_date, payment_mode, created_at`

// ExpenseRepo implements ports.ExpenseRepository.
type ExpenseRepo struct {
	pool Pool
}

// NewExpenseRepo creates a new ExpenseRepo.
func NewExpenseRepo(pool Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

// Create inserts an expense.
func (r *ExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Category, e.Amount, e.Description, e.ExpenseDate, e.PaymentMode, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// List returns expenses matching params, newest first.
func (r *ExpenseRepo) List(ctx context.Context, params ports.ExpenseListParams) ([]domain.Expense, error) {
	var c conditions
	if params.Category != "" {
		c.add("category = $%d", params.Category)
	}
	c.between("expense_date", params.Range)

	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses`+c.where()+` ORDER BY expense_date DESC`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.ExpenseDate, &e.PaymentMode, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense rows: %w", err)
	}
	return expenses, nil
}

// Sum totals expense amounts within dr.
func (r *ExpenseRepo) Sum(ctx context.Context, dr domain.DateRange) (float64, error) {
	var c conditions
	c.between("expense_date", dr)

	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses`+c.where(), c.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// SumByCategory totals expenses within dr per category, largest first.
func (r *ExpenseRepo) SumByCategory(ctx context.Context, dr domain.DateRange) ([]domain.CategoryTotal, error) {
	var c conditions
	c.between("expense_date", dr)

	rows, err := r.pool.Query(ctx, `SELECT category, COALESCE(SUM(amount), 0) AS total FROM expenses`+c.where()+
		` GROUP BY category ORDER BY total DESC, category`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return totals, nil
}
