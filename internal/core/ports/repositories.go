package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"ricemill-erp/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Lookups by id return (nil, nil) when the record does not exist.

// AuditRepository persists audit entries. Entries are append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter, limit int) ([]domain.AuditLog, error)
}

// RoleRepository stores one permission document per role.
type RoleRepository interface {
	Upsert(ctx context.Context, role string, permissions domain.Permissions) (*domain.RolePermission, error)
	GetByRole(ctx context.Context, role string) (*domain.RolePermission, error)
	List(ctx context.Context) ([]domain.RolePermission, error)
}

// VarietyRepository defines persistence operations for rice varieties.
type VarietyRepository interface {
	Create(ctx context.Context, variety *domain.RiceVariety) error
	GetByName(ctx context.Context, name string) (*domain.RiceVariety, error)
	ListActive(ctx context.Context) ([]domain.RiceVariety, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.RiceVariety, error)
}

// InventoryRepository defines persistence operations for stock lines.
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.Inventory) error
	List(ctx context.Context) ([]domain.Inventory, error)
	// AdjustQuantity applies delta in a single atomic statement.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (*domain.Inventory, error)
	ListBelowThreshold(ctx context.Context) ([]domain.Inventory, error)
}

// ProcurementRepository defines persistence operations for purchases.
// ApplyPayment runs inside the payment transaction.
type ProcurementRepository interface {
	Create(ctx context.Context, procurement *domain.Procurement) error
	List(ctx context.Context, r domain.DateRange) ([]domain.Procurement, error)
	ListOutstanding(ctx context.Context) ([]domain.Procurement, error)
	ApplyPayment(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) (*domain.Procurement, error)
	SumTotal(ctx context.Context, r domain.DateRange) (float64, error)
}

// SaleRepository defines persistence operations for sales.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context, r domain.DateRange) ([]domain.Sale, error)
	ListOutstanding(ctx context.Context) ([]domain.Sale, error)
	ApplyPayment(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) (*domain.Sale, error)
	SumTotal(ctx context.Context, r domain.DateRange) (float64, error)
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error
	SumByRefType(ctx context.Context, r domain.DateRange) (map[domain.RefType]float64, error)
}

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	List(ctx context.Context, params ExpenseListParams) ([]domain.Expense, error)
	Sum(ctx context.Context, r domain.DateRange) (float64, error)
	SumByCategory(ctx context.Context, r domain.DateRange) ([]domain.CategoryTotal, error)
}

// ExpenseListParams filters the expense listing.
type ExpenseListParams struct {
	Range    domain.DateRange
	Category string
}

// AlertRepository defines persistence operations for alerts.
type AlertRepository interface {
	// Create reports false when an Active alert of the same type already
	// exists for the reference.
	Create(ctx context.Context, alert *domain.Alert) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Alert, error)
	Resolve(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Alert, error)
	HasActive(ctx context.Context, alertType string, referenceID uuid.UUID) (bool, error)
}

// UserRepository defines persistence operations for staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// ToggleStatus flips Active and Disabled in one statement and returns the
	// updated user, or nil when no user has the id.
	ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
