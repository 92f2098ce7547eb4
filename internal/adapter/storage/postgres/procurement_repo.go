package postgres

import (
	"context"
	"errors"
	"fmt"

	"ricemill-erp/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const procurementColumns = `id, supplier_name, variety, quantity, rate, total_amount, paid_amount,
	payment_status, purchase_date, notes, created_at`

// settleStatusSQL recomputes payment_status from the incremented paid_amount.
// Inside SET, paid_amount still refers to the pre-update value.
const settleStatusSQL = `CASE
		WHEN paid_amount + $1 >= total_amount AND total_amount > 0 THEN 'Paid'
		WHEN paid_amount + $1 > 0 THEN 'Partial'
		ELSE 'Pending' END`

// ProcurementRepo implements ports.ProcurementRepository.
type ProcurementRepo struct {
	pool Pool
}

// NewProcurementRepo creates a new ProcurementRepo.
func NewProcurementRepo(pool Pool) *ProcurementRepo {
	return &ProcurementRepo{pool: pool}
}

// Create inserts a purchase.
func (r *ProcurementRepo) Create(ctx context.Context, p *domain.Procurement) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO procurements (`+procurementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.SupplierName, p.Variety, p.Quantity, p.Rate, p.TotalAmount, p.PaidAmount,
		string(p.PaymentStatus), p.PurchaseDate, p.Notes, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert procurement: %w", err)
	}
	return nil
}

// List returns purchases dated within dr, newest first.
func (r *ProcurementRepo) List(ctx context.Context, dr domain.DateRange) ([]domain.Procurement, error) {
	var c conditions
	c.between("purchase_date", dr)
	return r.list(ctx, `SELECT `+procurementColumns+` FROM procurements`+c.where()+` ORDER BY purchase_date DESC`, c.args...)
}

// ListOutstanding returns purchases not yet fully paid, oldest first.
func (r *ProcurementRepo) ListOutstanding(ctx context.Context) ([]domain.Procurement, error) {
	return r.list(ctx, `SELECT `+procurementColumns+` FROM procurements
		WHERE payment_status IN ('Pending', 'Partial') AND total_amount > paid_amount
		ORDER BY purchase_date`)
}

// ApplyPayment increments paid_amount and re-derives payment_status atomically.
func (r *ProcurementRepo) ApplyPayment(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) (*domain.Procurement, error) {
	return r.scanOne(tx.QueryRow(ctx,
		`UPDATE procurements SET payment_status = `+settleStatusSQL+`, paid_amount = paid_amount + $1
		WHERE id = $2 RETURNING `+procurementColumns,
		amount, id))
}

// SumTotal adds up total_amount for purchases within dr.
func (r *ProcurementRepo) SumTotal(ctx context.Context, dr domain.DateRange) (float64, error) {
	var c conditions
	c.between("purchase_date", dr)

	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM procurements`+c.where(), c.args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum procurements: %w", err)
	}
	return total, nil
}

func (r *ProcurementRepo) list(ctx context.Context, query string, args ...any) ([]domain.Procurement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list procurements: %w", err)
	}
	defer rows.Close()

	out := []domain.Procurement{}
	for rows.Next() {
		var p domain.Procurement
		if err := rows.Scan(procurementFields(&p)...); err != nil {
			return nil, fmt.Errorf("scan procurement row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate procurement rows: %w", err)
	}
	return out, nil
}

func (r *ProcurementRepo) scanOne(row pgx.Row) (*domain.Procurement, error) {
	p := &domain.Procurement{}
	if err := row.Scan(procurementFields(p)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan procurement: %w", err)
	}
	return p, nil
}

func procurementFields(p *domain.Procurement) []any {
	return []any{&p.ID, &p.SupplierName, &p.Variety, &p.Quantity, &p.Rate, &p.TotalAmount,
		&p.PaidAmount, &p.PaymentStatus, &p.PurchaseDate, &p.Notes, &p.CreatedAt}
}
