package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"ricemill-erp/internal/core/domain"

	"github.com/google/uuid"
)

// HashService turns a staff password into the value stored on the account.
type HashService interface {
	Hash(password string) (string, error)
}

// TokenService validates bearer tokens presented by staff clients.
type TokenService interface {
	Generate(actor domain.Actor, ttl time.Duration) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID string
	Name   string
	Role   string
}

// IdempotencyCache replays responses for repeated Idempotency-Key headers.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) (*domain.IdempotentResponse, error) // nil when absent
	Set(ctx context.Context, key string, resp *domain.IdempotentResponse, ttl time.Duration) error
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// --- Service Ports (Business Logic) ---

// AuditService records and queries audit entries.
type AuditService interface {
	LogActivity(ctx context.Context, module string, action string, description string, details domain.Details) (*domain.AuditLog, error)
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, error)
}

// RoleService owns role permission documents.
type RoleService interface {
	SetPermissions(ctx context.Context, role string, permissions domain.Permissions) (*domain.RolePermission, error)
	ListRoles(ctx context.Context) ([]domain.RolePermission, error)
	GetRole(ctx context.Context, role string) (*domain.RolePermission, error)
}

// VarietyService manages the rice variety catalogue.
type VarietyService interface {
	Create(ctx context.Context, req CreateVarietyRequest) (*domain.RiceVariety, error)
	List(ctx context.Context) ([]domain.RiceVariety, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.RiceVariety, error)
}

type CreateVarietyRequest struct {
	Name        string
	Description string
}

// InventoryService manages stock lines and low-stock alerts.
type InventoryService interface {
	Create(ctx context.Context, req CreateInventoryRequest) (*domain.Inventory, error)
	List(ctx context.Context) ([]domain.Inventory, error)
	Adjust(ctx context.Context, req AdjustInventoryRequest) (*domain.Inventory, error)
	ScanLowStock(ctx context.Context) (int, error)
}

type CreateInventoryRequest struct {
	Variety      string
	Grade        string
	Quantity     float64
	Unit         string
	MinThreshold float64
	Location     string
}

type AdjustInventoryRequest struct {
	ID     uuid.UUID
	Delta  float64
	Reason string
}

// ProcurementService records paddy purchases.
type ProcurementService interface {
	Create(ctx context.Context, req CreateProcurementRequest) (*domain.Procurement, error)
	List(ctx context.Context, r domain.DateRange) ([]domain.Procurement, error)
}

// CreateProcurementRequest holds input for a purchase. TotalAmount defaults
// to Quantity * Rate when nil.
type CreateProcurementRequest struct {
	SupplierName string
	Variety      string
	Quantity     float64
	Rate         float64
	TotalAmount  *float64
	PaidAmount   float64
	PurchaseDate *time.Time
	Notes        string
}

// SalesService records rice sales.
type SalesService interface {
	Create(ctx context.Context, req CreateSaleRequest) (*domain.Sale, error)
	List(ctx context.Context, r domain.DateRange) ([]domain.Sale, error)
}

type CreateSaleRequest struct {
	CustomerName string
	Variety      string
	Grade        string
	Quantity     float64
	Rate         float64
	TotalAmount  *float64
	PaidAmount   float64
	SaleDate     *time.Time
	InvoiceNo    string
}

// PaymentService records settlements and reports balances.
type PaymentService interface {
	Record(ctx context.Context, req RecordPaymentRequest) (*domain.Payment, error)
	Payables(ctx context.Context) (*domain.PayablesReport, error)
	Receivables(ctx context.Context) (*domain.ReceivablesReport, error)
	Summary(ctx context.Context, r domain.DateRange) (*domain.CashFlowSummary, error)
}

type RecordPaymentRequest struct {
	RefType     domain.RefType
	RefID       uuid.UUID
	Amount      float64
	PaymentMode string
	PaymentDate *time.Time
	ReferenceNo string
	Notes       string
}

// ExpenseService records operating costs.
type ExpenseService interface {
	Create(ctx context.Context, req CreateExpenseRequest) (*domain.Expense, error)
	List(ctx context.Context, params ExpenseListParams) ([]domain.Expense, error)
	Summary(ctx context.Context) (*domain.ExpenseSummary, error)
}

type CreateExpenseRequest struct {
	Category    string
	Amount      float64
	Description string
	ExpenseDate *time.Time
	PaymentMode string
}

// AlertService lists and resolves alerts.
type AlertService interface {
	List(ctx context.Context) ([]domain.Alert, error)
	Resolve(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
}

// UserService manages staff accounts.
type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type CreateUserRequest struct {
	Name     string
	Username string
	Password string
	Phone    string
	Role     string
}

// ReportingService builds financial summaries and date-filtered reports.
type ReportingService interface {
	ProfitLoss(ctx context.Context, r domain.DateRange) (*domain.ProfitLossSummary, error)
	ExpenseReport(ctx context.Context, r domain.DateRange) (*domain.Report[domain.Expense, domain.ExpenseReportSummary], error)
	SalesReport(ctx context.Context, r domain.DateRange) (*domain.Report[domain.Sale, domain.SalesSummary], error)
	StockReport(ctx context.Context) (*domain.Report[domain.Inventory, domain.StockSummary], error)
}
