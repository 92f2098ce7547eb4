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

const userColumns = `id, name, username, password_hash, phone, role, status, created_at, updated_at`

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a user. A username clash wraps domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Username, u.PasswordHash, u.Phone, u.Role, string(u.Status), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// List returns all users ordered by name.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(userFields(&u)...); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

// ToggleStatus flips the account between Active and Disabled. The new value is
// derived from the row being updated, so concurrent toggles serialize.
func (r *UserRepo) ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`UPDATE users SET status = CASE WHEN status = $2 THEN $3 ELSE $2 END, updated_at = $4
		WHERE id = $1 RETURNING `+userColumns,
		id, string(domain.UserStatusActive), string(domain.UserStatusDisabled), time.Now().UTC()))
}

func (r *UserRepo) scanOne(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	if err := row.Scan(userFields(u)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func userFields(u *domain.User) []any {
	return []any{&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.Phone, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt}
}
