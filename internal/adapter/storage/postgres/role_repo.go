package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ricemill-erp/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RoleRepo implements ports.RoleRepository.
type RoleRepo struct {
	pool Pool
}

// NewRoleRepo creates a new RoleRepo.
func NewRoleRepo(pool Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

// Upsert replaces the role's whole permission map, creating the role if needed.
func (r *RoleRepo) Upsert(ctx context.Context, role string, permissions domain.Permissions) (*domain.RolePermission, error) {
	if permissions == nil {
		permissions = domain.Permissions{}
	}
	raw, err := json.Marshal(permissions)
	if err != nil {
		return nil, fmt.Errorf("encode permissions: %w", err)
	}

	query := `INSERT INTO role_permissions (role, permissions, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (role) DO UPDATE SET permissions = EXCLUDED.permissions, updated_at = EXCLUDED.updated_at
		RETURNING role, permissions, updated_at`

	rp, err := scanRole(r.pool.QueryRow(ctx, query, role, raw, time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("upsert role permissions: %w", err)
	}
	return rp, nil
}

// GetByRole fetches one role document.
func (r *RoleRepo) GetByRole(ctx context.Context, role string) (*domain.RolePermission, error) {
	rp, err := scanRole(r.pool.QueryRow(ctx,
		`SELECT role, permissions, updated_at FROM role_permissions WHERE role = $1`, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role permissions: %w", err)
	}
	return rp, nil
}

// List returns every role ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]domain.RolePermission, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, permissions, updated_at FROM role_permissions ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.RolePermission{}
	for rows.Next() {
		rp, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role row: %w", err)
		}
		roles = append(roles, *rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role rows: %w", err)
	}
	return roles, nil
}

func scanRole(row pgx.Row) (*domain.RolePermission, error) {
	var (
		rp  domain.RolePermission
		raw []byte
	)
	if err := row.Scan(&rp.Role, &raw, &rp.UpdatedAt); err != nil {
		return nil, err
	}
	rp.Permissions = domain.Permissions{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rp.Permissions); err != nil {
			return nil, fmt.Errorf("decode permissions: %w", err)
		}
	}
	return &rp, nil
}
