package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ricemill-erp/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const inventoryColumns = `id, variety, grade, quantity, unit, min_threshold, location, created_at, updated_at`

// InventoryRepo implements ports.InventoryRepository.
type InventoryRepo struct {
	pool Pool
}

// NewInventoryRepo creates a new InventoryRepo.
func NewInventoryRepo(pool Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool}
}

// Create inserts a stock line.
func (r *InventoryRepo) Create(ctx context.Context, item *domain.Inventory) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO inventory (`+inventoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.Variety, item.Grade, item.Quantity, item.Unit,
		item.MinThreshold, item.Location, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// List returns all stock lines sorted by variety then grade.
func (r *InventoryRepo) List(ctx context.Context) ([]domain.Inventory, error) {
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY variety, grade`)
}

// AdjustQuantity adds delta to the stored quantity in one statement, so
// concurrent adjustments never lose updates.
func (r *InventoryRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (*domain.Inventory, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`UPDATE inventory SET quantity = quantity + $1, updated_at = $2 WHERE id = $3 RETURNING `+inventoryColumns,
		delta, time.Now().UTC(), id))
}

// ListBelowThreshold returns lines whose quantity fell under a positive threshold.
func (r *InventoryRepo) ListBelowThreshold(ctx context.Context) ([]domain.Inventory, error) {
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory
		WHERE min_threshold > 0 AND quantity < min_threshold ORDER BY variety, grade`)
}

func (r *InventoryRepo) list(ctx context.Context, query string) ([]domain.Inventory, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := []domain.Inventory{}
	for rows.Next() {
		var i domain.Inventory
		err := rows.Scan(&i.ID, &i.Variety, &i.Grade, &i.Quantity, &i.Unit,
			&i.MinThreshold, &i.Location, &i.CreatedAt, &i.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory rows: %w", err)
	}
	return items, nil
}

func (r *InventoryRepo) scanOne(row pgx.Row) (*domain.Inventory, error) {
	i := &domain.Inventory{}
	err := row.Scan(&i.ID, &i.Variety, &i.Grade, &i.Quantity, &i.Unit,
		&i.MinThreshold, &i.Location, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan inventory: %w", err)
	}
	return i, nil
}
