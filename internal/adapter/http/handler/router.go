package handler

import (
	"time"

	"ricemill-erp/internal/adapter/http/middleware"
	"ricemill-erp/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Permission names checked when permission enforcement is on. One per
// module; role documents grant them by key.
const (
	PermAlerts      = "alerts"
	PermAudit       = "audit"
	PermExpenses    = "expenses"
	PermInventory   = "inventory"
	PermPayments    = "payments"
	PermProcurement = "procurement"
	PermReports     = "reports"
	PermRoles       = "roles"
	PermSales       = "sales"
	PermUsers       = "users"
	PermVarieties   = "varieties"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuditSvc       ports.AuditService
	RoleSvc        ports.RoleService
	VarietySvc     ports.VarietyService
	InventorySvc   ports.InventoryService
	ProcurementSvc ports.ProcurementService
	SalesSvc       ports.SalesService
	PaymentSvc     ports.PaymentService
	ExpenseSvc     ports.ExpenseService
	AlertSvc       ports.AlertService
	UserSvc        ports.UserService
	ReportingSvc   ports.ReportingService

	TokenSvc         ports.TokenService          // nil = bearer tokens ignored
	RateLimiter      ports.RateLimiter           // nil = rate limiting disabled
	RateLimitRules   map[string]middleware.RateLimitRule
	IdempotencyCache ports.IdempotencyCache      // nil = Idempotency-Key ignored
	IdempotencyTTL   time.Duration
	EnforcePerms     bool
	HealthCheckers   []ports.HealthChecker
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("")
	api.Use(middleware.Actor(deps.TokenSvc, deps.Logger))
	if deps.RateLimiter != nil {
		api.Use(middleware.RateLimiter(deps.RateLimiter, deps.RateLimitRules, deps.Logger))
	}
	if deps.IdempotencyCache != nil {
		api.Use(middleware.Idempotency(deps.IdempotencyCache, deps.IdempotencyTTL, deps.Logger))
	}

	// perm returns a group guarded by the named permission when enforcement is on.
	perm := func(path, name string) *gin.RouterGroup {
		if !deps.EnforcePerms {
			return api.Group(path)
		}
		return api.Group(path, middleware.RequirePermission(deps.RoleSvc, name, deps.Logger))
	}

	alertHandler := NewAlertHandler(deps.AlertSvc)
	alerts := perm("/alerts", PermAlerts)
	{
		alerts.GET("", alertHandler.List)
		alerts.POST("/:id/resolve", alertHandler.Resolve)
	}

	auditHandler := NewAuditHandler(deps.AuditSvc)
	perm("/audit", PermAudit).GET("/logs", auditHandler.ListLogs)

	expenseHandler := NewExpenseHandler(deps.ExpenseSvc)
	expenses := perm("/expenses", PermExpenses)
	{
		expenses.GET("", expenseHandler.List)
		expenses.POST("", expenseHandler.Create)
		expenses.GET("/summary", expenseHandler.Summary)
	}

	inventoryHandler := NewInventoryHandler(deps.InventorySvc)
	inventory := perm("/inventory", PermInventory)
	{
		inventory.GET("", inventoryHandler.List)
		inventory.POST("", inventoryHandler.Create)
		inventory.POST("/adjust", inventoryHandler.Adjust)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := perm("/payments", PermPayments)
	{
		payments.POST("", paymentHandler.Record)
		payments.GET("/payables", paymentHandler.Payables)
		payments.GET("/receivables", paymentHandler.Receivables)
		payments.GET("/summary", paymentHandler.Summary)
	}

	procurementHandler := NewProcurementHandler(deps.ProcurementSvc)
	procurement := perm("/procurement", PermProcurement)
	{
		procurement.GET("", procurementHandler.List)
		procurement.POST("", procurementHandler.Create)
	}

	salesHandler := NewSalesHandler(deps.SalesSvc)
	sales := perm("/sales", PermSales)
	{
		sales.GET("", salesHandler.List)
		sales.POST("", salesHandler.Create)
	}

	reportHandler := NewReportHandler(deps.ReportingSvc)
	perm("/profit-loss", PermReports).GET("/summary", reportHandler.ProfitLoss)
	reports := perm("/reports", PermReports)
	{
		reports.GET("/expenses", reportHandler.Expenses)
		reports.GET("/sales", reportHandler.Sales)
		reports.GET("/stock", reportHandler.Stock)
	}

	roleHandler := NewRoleHandler(deps.RoleSvc)
	roles := perm("/roles", PermRoles)
	{
		roles.GET("", roleHandler.List)
		roles.POST("", roleHandler.Create)
		roles.POST("/permissions", roleHandler.SetPermissions)
		roles.GET("/:role", roleHandler.Get)
	}

	userHandler := NewUserHandler(deps.UserSvc)
	users := perm("/users", PermUsers)
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.PATCH("/:id/status", userHandler.ToggleStatus)
	}

	varietyHandler := NewVarietyHandler(deps.VarietySvc)
	varieties := perm("/varieties", PermVarieties)
	{
		varieties.GET("", varietyHandler.List)
		varieties.POST("", varietyHandler.Create)
		varieties.DELETE("/:id", varietyHandler.Delete)
	}

	return r
}
