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

const varietyColumns = `id, name, description, is_active, created_at, updated_at`

// VarietyRepo implements ports.VarietyRepository.
type VarietyRepo struct {
	pool Pool
}

// NewVarietyRepo creates a new VarietyRepo.
func NewVarietyRepo(pool Pool) *VarietyRepo {
	return &VarietyRepo{pool: pool}
}

// Create inserts a variety. A name clash wraps domain.ErrDuplicate.
func (r *VarietyRepo) Create(ctx context.Context, v *domain.RiceVariety) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rice_varieties (`+varietyColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.Name, v.Description, v.IsActive, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert variety: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert variety: %w", err)
	}
	return nil
}

// GetByName looks a variety up case-insensitively, active or not.
func (r *VarietyRepo) GetByName(ctx context.Context, name string) (*domain.RiceVariety, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+varietyColumns+` FROM rice_varieties WHERE LOWER(name) = LOWER($1)`, name))
}

// ListActive returns active varieties ordered by name.
func (r *VarietyRepo) ListActive(ctx context.Context) ([]domain.RiceVariety, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+varietyColumns+` FROM rice_varieties WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list varieties: %w", err)
	}
	defer rows.Close()

	varieties := []domain.RiceVariety{}
	for rows.Next() {
		var v domain.RiceVariety
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variety row: %w", err)
		}
		varieties = append(varieties, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variety rows: %w", err)
	}
	return varieties, nil
}

// Deactivate soft-deletes a variety.
func (r *VarietyRepo) Deactivate(ctx context.Context, id uuid.UUID) (*domain.RiceVariety, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`UPDATE rice_varieties SET is_active = FALSE, updated_at = $2 WHERE id = $1 RETURNING `+varietyColumns,
		id, time.Now().UTC()))
}

func (r *VarietyRepo) scanOne(row pgx.Row) (*domain.RiceVariety, error) {
	v := &domain.RiceVariety{}
	err := row.Scan(&v.ID, &v.Name, &v.Description, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan variety: %w", err)
	}
	return v, nil
}
