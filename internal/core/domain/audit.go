package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the kind of mutation being recorded.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionDelete       AuditAction = "DELETE"
	AuditActionAdjust       AuditAction = "ADJUST"
	AuditActionResolve      AuditAction = "RESOLVE"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
)

// Audit modules used by the services.
const (
	ModuleAlerts      = "Alerts"
	ModuleExpenses    = "Expenses"
	ModuleInventory   = "Inventory"
	ModulePayments    = "Payments"
	ModuleProcurement = "Procurement"
	ModuleSales       = "Sales"
	ModuleRoles       = "Roles"
	ModuleUsers       = "Users"
	ModuleVarieties   = "Varieties"
)

// MaxAuditResults caps every audit query.
const MaxAuditResults = 100

// NormalizeAction canonicalises a caller-supplied action.
func NormalizeAction(action string) AuditAction {
	return AuditAction(strings.ToUpper(strings.TrimSpace(action)))
}

// Details is the open set of supplementary fields attached to an entry.
type Details map[string]interface{}

// AuditLog is an immutable record of a successful mutation.
type AuditLog struct {
	ID          uuid.UUID   `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Module      string      `json:"module"`
	Action      AuditAction `json:"action"`
	UserName    *string     `json:"user_name"`
	Description string      `json:"description"`
	Details     Details     `json:"details"`
}

// AuditFilter narrows an audit query. Zero values are ignored.
type AuditFilter struct {
	Module    string
	Action    AuditAction
	UserName  string
	StartDate *time.Time
	EndDate   *time.Time
}
