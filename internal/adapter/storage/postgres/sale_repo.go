package postgres

import (
	"context"
	"errors"
	"fmt"

	"ricemill-erp/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const saleColumns = `id, customer_name, variety, grade, quantity, rate, total_amount, paid_amount,
	payment_status, sale_date, invoice_no, created_at`

// SaleRepo implements ports.SaleRepository.
type SaleRepo struct {
	pool Pool
}

// NewSaleRepo creates a new SaleRepo.
func NewSaleRepo(pool Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

// Create inserts a sale.
func (r *SaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.CustomerName, s.Variety, s.Grade, s.Quantity, s.Rate, s.TotalAmount, s.PaidAmount,
		string(s.PaymentStatus), s.SaleDate, s.InvoiceNo, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// List returns sales dated within dr, newest first.
func (r *SaleRepo) List(ctx context.Context, dr domain.DateRange) ([]domain.Sale, error) {
	var c conditions
	c.between("sale_date", dr)
	return r.list(ctx, `SELECT `+saleColumns+` FROM sales`+c.where()+` ORDER BY sale_date DESC`, c.args...)
}

// ListOutstanding returns sales not yet fully paid, oldest first.
func (r *SaleRepo) ListOutstanding(ctx context.Context) ([]domain.Sale, error) {
	return r.list(ctx, `SELECT `+saleColumns+` FROM sales
		WHERE payment_status IN ('Pending', 'Partial') AND total_amount > paid_amount
		ORDER BY sale_date`)
}

// ApplyPayment increments paid_amount and re-derives payment_status atomically.
func (r *SaleRepo) ApplyPayment(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) (*domain.Sale, error) {
	return r.scanOne(tx.QueryRow(ctx,
		`UPDATE sales SET payment_status = `+settleStatusSQL+`, paid_amount = paid_amount + $1
		WHERE id = $2 RETURNING `+saleColumns,
		amount, id))
}

// SumTotal adds up total_amount for sales within dr.
func (r *SaleRepo) SumTotal(ctx context.Context, dr domain.DateRange) (float64, error) {
	var c conditions
	c.between("sale_date", dr)

	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM sales`+c.where(), c.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum sales: %w", err)
	}
	return total, nil
}

func (r *SaleRepo) list(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	out := []domain.Sale{}
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(saleFields(&s)...); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale rows: %w", err)
	}
	return out, nil
}

func (r *SaleRepo) scanOne(row pgx.Row) (*domain.Sale, error) {
	s := &domain.Sale{}
	if err := row.Scan(saleFields(s)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return s, nil
}

func saleFields(s *domain.Sale) []any {
	return []any{&s.ID, &s.CustomerName, &s.Variety, &s.Grade, &s.Quantity, &s.Rate, &s.TotalAmount,
		&s.PaidAmount, &s.PaymentStatus, &s.SaleDate, &s.InvoiceNo, &s.CreatedAt}
}
