package postgres

import (
	"context"
	"fmt"

	"ricemill-erp/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, ref_type, ref_id, amount, payment_mode, payment_date, reference_no, notes, created_at`

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a payment within a database transaction.
func (r *PaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, string(p.RefType), p.RefID, p.Amount, p.PaymentMode, p.PaymentDate, p.ReferenceNo, p.Notes, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// SumByRefType totals payments within dr per reference kind.
func (r *PaymentRepo) SumByRefType(ctx context.Context, dr domain.DateRange) (map[domain.RefType]float64, error) {
	var c conditions
	c.between("payment_date", dr)

	rows, err := r.pool.Query(ctx,
		`SELECT ref_type, COALESCE(SUM(amount), 0) FROM payments`+c.where()+` GROUP BY ref_type`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	defer rows.Close()

	totals := map[domain.RefType]float64{}
	for rows.Next() {
		var (
			refType string
			total   float64
		)
		if err := rows.Scan(&refType, &total); err != nil {
			return nil, fmt.Errorf("scan payment sum: %w", err)
		}
		totals[domain.RefType(refType)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment sums: %w", err)
	}
	return totals, nil
}
