package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpHandler "ricemill-erp/internal/adapter/http/handler"
	"ricemill-erp/internal/adapter/http/middleware"
	redisStorage "ricemill-erp/internal/adapter/storage/redis"
	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/internal/service"
	"ricemill-erp/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack on in-memory repositories and an
// in-memory Redis (miniredis). It exercises the real HTTP layer, middleware,
// handlers, services and Redis stores end-to-end.
type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
	tokens *service.JWTTokenService
	roles  *inMemoryRoleRepo
	alerts *inMemoryAlertRepo
}

type appOptions struct {
	enforcePerms bool
	rateLimits   map[string]middleware.RateLimitRule
}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	log := logger.New("error", false)
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", "test-issuer")

	roleRepo := newInMemoryRoleRepo()
	varietyRepo := newInMemoryVarietyRepo()
	inventoryRepo := newInMemoryInventoryRepo()
	procurementRepo := newInMemoryProcurementRepo()
	saleRepo := newInMemorySaleRepo()
	expenseRepo := newInMemoryExpenseRepo()
	alertRepo := newInMemoryAlertRepo()

	auditSvc := service.NewAuditService(newInMemoryAuditRepo(), log)

	deps := httpHandler.RouterDeps{
		AuditSvc:       auditSvc,
		RoleSvc:        service.NewRoleService(roleRepo, auditSvc, log),
		VarietySvc:     service.NewVarietyService(varietyRepo, auditSvc, log),
		InventorySvc:   service.NewInventoryService(inventoryRepo, alertRepo, auditSvc, log),
		ProcurementSvc: service.NewProcurementService(procurementRepo, auditSvc, log),
		SalesSvc:       service.NewSalesService(saleRepo, auditSvc, log),
		PaymentSvc: service.NewPaymentService(newInMemoryPaymentRepo(), procurementRepo, saleRepo,
			newInMemoryTransactor(), auditSvc, log),
		ExpenseSvc:       service.NewExpenseService(expenseRepo, auditSvc, log),
		AlertSvc:         service.NewAlertService(alertRepo, auditSvc, log),
		UserSvc:          service.NewUserService(newInMemoryUserRepo(), service.NewPasswordHasher(), auditSvc, log),
		ReportingSvc:     service.NewReportingService(procurementRepo, saleRepo, expenseRepo, inventoryRepo),
		TokenSvc:         tokenSvc,
		IdempotencyCache: redisStorage.NewIdempotencyCache(rdb),
		IdempotencyTTL:   time.Hour,
		EnforcePerms:     opts.enforcePerms,
		HealthCheckers:   []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:           log,
	}
	if opts.rateLimits != nil {
		deps.RateLimiter = redisStorage.NewRateLimitStore(rdb)
		deps.RateLimitRules = opts.rateLimits
	}

	app := &testApp{
		server: httptest.NewServer(httpHandler.SetupRouter(deps)),
		redis:  mr,
		tokens: tokenSvc,
		roles:  roleRepo,
		alerts: alertRepo,
	}
	t.Cleanup(app.close)
	return app
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

// call sends a JSON request as the named mill user and decodes the body into out.
// An empty user sends no credentials.
func (a *testApp) call(t *testing.T, method, path, user string, body any, out any) *http.Response {
	t.Helper()
	headers := map[string]string{}
	if user != "" {
		headers = a.auth(t, user)
	}
	return a.callWithHeaders(t, method, path, headers, body, out)
}

// auth signs a bearer token for the named user.
func (a *testApp) auth(t *testing.T, user string) map[string]string {
	t.Helper()
	token, _, err := a.tokens.Generate(domain.Actor{UserID: "u-" + user, Name: user}, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (a *testApp) callWithHeaders(t *testing.T, method, path string, headers map[string]string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t, appOptions{})

	var body map[string]interface{}
	resp := app.call(t, http.MethodGet, "/health", "", nil, &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_HealthCheck_RedisDown(t *testing.T) {
	app := newTestApp(t, appOptions{})
	app.redis.Close()

	resp := app.call(t, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestIntegration_StockAdjustmentRaisesSingleAlert(t *testing.T) {
	app := newTestApp(t, appOptions{})

	var item domain.Inventory
	resp := app.call(t, http.MethodPost, "/inventory", "ravi", map[string]any{
		"variety":       "Basmati",
		"grade":         "A",
		"quantity":      120,
		"min_threshold": 100,
	}, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "kg", item.Unit)

	for i := 0; i < 2; i++ {
		var adjusted domain.Inventory
		resp = app.call(t, http.MethodPost, "/inventory/adjust", "ravi", map[string]any{
			"id":     item.ID.String(),
			"delta":  -15,
			"reason": "milling",
		}, &adjusted)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var alerts []domain.Alert
	app.call(t, http.MethodGet, "/alerts", "ravi", nil, &alerts)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertTypeLowStock, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "Basmati (A)")
	require.NotNil(t, alerts[0].ReferenceID)
	assert.Equal(t, item.ID, *alerts[0].ReferenceID)

	// Once resolved, the next dip opens a fresh alert.
	var resolved struct {
		Message string       `json:"message"`
		Alert   domain.Alert `json:"alert"`
	}
	resp = app.call(t, http.MethodPost, "/alerts/"+alerts[0].ID.String()+"/resolve", "ravi", nil, &resolved)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alert resolved", resolved.Message)
	assert.Equal(t, domain.AlertStatusResolved, resolved.Alert.Status)

	app.call(t, http.MethodPost, "/inventory/adjust", "ravi", map[string]any{"id": item.ID.String(), "delta": -1}, nil)
	assert.Equal(t, 2, app.alerts.count())

	var audit []domain.AuditLog
	app.call(t, http.MethodGet, "/audit/logs?module=Inventory&action=adjust", "ravi", nil, &audit)
	require.Len(t, audit, 3)
	require.NotNil(t, audit[0].UserName)
	assert.Equal(t, "ravi", *audit[0].UserName)
}

func TestIntegration_ProcurementSettlement(t *testing.T) {
	app := newTestApp(t, appOptions{})

	var p domain.Procurement
	resp := app.call(t, http.MethodPost, "/procurement", "meena", map[string]any{
		"supplier_name": "Sharma Farms",
		"variety":       "Sona Masuri",
		"quantity":      100,
		"rate":          25,
		"purchase_date": "2026-03-01",
	}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2500.0, p.TotalAmount)
	assert.Equal(t, domain.PaymentStatusPending, p.PaymentStatus)

	var payables domain.PayablesReport
	app.call(t, http.MethodGet, "/payments/payables", "meena", nil, &payables)
	require.Len(t, payables.Items, 1)
	assert.Equal(t, 2500.0, payables.TotalPayable)

	pay := func(amount float64) *http.Response {
		return app.call(t, http.MethodPost, "/payments", "meena", map[string]any{
			"ref_type":     "Procurement",
			"ref_id":       p.ID.String(),
			"amount":       amount,
			"payment_mode": "Bank",
		}, nil)
	}
	require.Equal(t, http.StatusCreated, pay(1000).StatusCode)

	app.call(t, http.MethodGet, "/payments/payables", "meena", nil, &payables)
	require.Len(t, payables.Items, 1)
	assert.Equal(t, domain.PaymentStatusPartial, payables.Items[0].PaymentStatus)
	assert.Equal(t, 1500.0, payables.Items[0].Balance)

	require.Equal(t, http.StatusCreated, pay(1500).StatusCode)

	app.call(t, http.MethodGet, "/payments/payables", "meena", nil, &payables)
	assert.Empty(t, payables.Items)
	assert.Zero(t, payables.TotalPayable)

	var summary domain.CashFlowSummary
	app.call(t, http.MethodGet, "/payments/summary", "meena", nil, &summary)
	assert.Equal(t, 2500.0, summary.Outflow)
	assert.Equal(t, -2500.0, summary.Net)
}

func TestIntegration_PaymentRejections(t *testing.T) {
	app := newTestApp(t, appOptions{})

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"unknown ref type", map[string]any{"ref_type": "Loan", "ref_id": "9b2f1c3e-7a45-4d8e-9f10-2c3b4d5e6f70", "amount": 10}, http.StatusBadRequest},
		{"zero amount", map[string]any{"ref_type": "Sales", "ref_id": "9b2f1c3e-7a45-4d8e-9f10-2c3b4d5e6f70", "amount": 0}, http.StatusBadRequest},
		{"missing sale", map[string]any{"ref_type": "Sales", "ref_id": "9b2f1c3e-7a45-4d8e-9f10-2c3b4d5e6f70", "amount": 10}, http.StatusNotFound},
		{"bad date", map[string]any{"ref_type": "Sales", "ref_id": "9b2f1c3e-7a45-4d8e-9f10-2c3b4d5e6f70", "amount": 10, "payment_date": "yesterday"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			resp := app.call(t, http.MethodPost, "/payments", "meena", tt.body, &body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestIntegration_ProfitLoss(t *testing.T) {
	app := newTestApp(t, appOptions{})

	app.call(t, http.MethodPost, "/procurement", "meena", map[string]any{
		"supplier_name": "Sharma Farms", "quantity": 100, "rate": 25,
	}, nil)
	app.call(t, http.MethodPost, "/sales", "meena", map[string]any{
		"customer_name": "Kumar Traders", "variety": "Sona Masuri", "quantity": 50, "rate": 60,
	}, nil)
	app.call(t, http.MethodPost, "/expenses", "meena", map[string]any{
		"category": "Electricity", "amount": 200,
	}, nil)

	var pl domain.ProfitLossSummary
	resp := app.call(t, http.MethodGet, "/profit-loss/summary", "meena", nil, &pl)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3000.0, pl.TotalRevenue)
	assert.Equal(t, 2500.0, pl.TotalCost)
	assert.Equal(t, 200.0, pl.TotalExpenses)
	assert.Equal(t, 500.0, pl.GrossProfit)
	assert.Equal(t, 300.0, pl.NetProfit)
	assert.Equal(t, 10.0, pl.ProfitMargin)

	var receivables domain.ReceivablesReport
	app.call(t, http.MethodGet, "/payments/receivables", "meena", nil, &receivables)
	assert.Equal(t, 3000.0, receivables.TotalReceivable)

	resp = app.call(t, http.MethodGet, "/profit-loss/summary?startDate=not-a-date", "meena", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegration_IdempotentExpense(t *testing.T) {
	app := newTestApp(t, appOptions{})

	headers := app.auth(t, "meena")
	headers[middleware.HeaderIdempotencyKey] = "exp-2026-03-01"
	body := map[string]any{"category": "Labour", "amount": 750}

	var first, second domain.Expense
	resp := app.callWithHeaders(t, http.MethodPost, "/expenses", headers, body, &first)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(middleware.HeaderIdempotencyReplayed))

	resp = app.callWithHeaders(t, http.MethodPost, "/expenses", headers, body, &second)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get(middleware.HeaderIdempotencyReplayed))
	assert.Equal(t, first.ID, second.ID)

	var list []domain.Expense
	app.call(t, http.MethodGet, "/expenses", "meena", nil, &list)
	assert.Len(t, list, 1)
}

func TestIntegration_BearerActorAndPermissions(t *testing.T) {
	app := newTestApp(t, appOptions{enforcePerms: true})

	_, err := app.roles.Upsert(context.Background(), "accountant", domain.Permissions{
		httpHandler.PermExpenses: true,
	})
	require.NoError(t, err)

	token, _, err := app.tokens.Generate(domain.Actor{UserID: "u-7", Name: "priya", Role: "accountant"}, time.Hour)
	require.NoError(t, err)
	auth := map[string]string{"Authorization": "Bearer " + token}

	resp := app.callWithHeaders(t, http.MethodPost, "/expenses", auth, map[string]any{"category": "Transport", "amount": 90}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.callWithHeaders(t, http.MethodGet, "/inventory", auth, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = app.callWithHeaders(t, http.MethodGet, "/expenses", map[string]string{"Authorization": "Bearer forged"}, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Identity headers carry no authority once tokens are in use.
	resp = app.callWithHeaders(t, http.MethodPost, "/expenses", map[string]string{
		middleware.HeaderUserName: "priya",
		middleware.HeaderUserRole: "accountant",
	}, map[string]any{"category": "Transport", "amount": 90}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIntegration_IdentityHeadersIgnoredWithTokens(t *testing.T) {
	app := newTestApp(t, appOptions{})

	resp := app.callWithHeaders(t, http.MethodPost, "/expenses", map[string]string{
		middleware.HeaderUserName: "mallory",
	}, map[string]any{"category": "Misc", "amount": 1}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var audit []domain.AuditLog
	app.call(t, http.MethodGet, "/audit/logs?module=Expenses", "ravi", nil, &audit)
	require.Len(t, audit, 1)
	assert.Nil(t, audit[0].UserName, "unauthenticated writes are not attributed")
}

func TestIntegration_UserLifecycle(t *testing.T) {
	app := newTestApp(t, appOptions{})

	var created map[string]any
	resp := app.call(t, http.MethodPost, "/users", "admin", map[string]any{
		"name": "Lakshmi", "username": "lakshmi", "password": "Paddy2026!", "role": "operator",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, created, "password_hash")
	assert.Equal(t, "Active", created["status"])

	resp = app.call(t, http.MethodPost, "/users", "admin", map[string]any{
		"name": "Other", "username": "lakshmi", "password": "Paddy2026!",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var toggled struct {
		Message string      `json:"message"`
		User    domain.User `json:"user"`
	}
	resp = app.call(t, http.MethodPatch, "/users/"+created["id"].(string)+"/status", "admin", nil, &toggled)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.UserStatusDisabled, toggled.User.Status)
	assert.Equal(t, "User lakshmi is now Disabled", toggled.Message)
}

func TestIntegration_VarietyCatalogue(t *testing.T) {
	app := newTestApp(t, appOptions{})

	var v domain.RiceVariety
	resp := app.call(t, http.MethodPost, "/varieties", "admin", map[string]any{"name": "Ponni"}, &v)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.call(t, http.MethodPost, "/varieties", "admin", map[string]any{"name": "Ponni"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.call(t, http.MethodDelete, "/varieties/"+v.ID.String(), "admin", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []domain.RiceVariety
	app.call(t, http.MethodGet, "/varieties", "admin", nil, &list)
	assert.Empty(t, list)

	// Deactivated names stay reserved.
	resp = app.call(t, http.MethodPost, "/varieties", "admin", map[string]any{"name": "Ponni"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegration_RateLimitedWrites(t *testing.T) {
	app := newTestApp(t, appOptions{rateLimits: map[string]middleware.RateLimitRule{
		middleware.RuleRead:  {Limit: 100, Window: time.Minute},
		middleware.RuleWrite: {Limit: 2, Window: time.Minute},
	}})

	body := map[string]any{"category": "Misc", "amount": 5}
	for i := 0; i < 2; i++ {
		resp := app.call(t, http.MethodPost, "/expenses", "meena", body, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := app.call(t, http.MethodPost, "/expenses", "meena", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Reads and other users have their own buckets.
	assert.Equal(t, http.StatusOK, app.call(t, http.MethodGet, "/expenses", "meena", nil, nil).StatusCode)
	assert.Equal(t, http.StatusCreated, app.call(t, http.MethodPost, "/expenses", "ravi", body, nil).StatusCode)

	// Without a token the client IP is the key, whatever name the header claims.
	named := func(name string) map[string]string { return map[string]string{middleware.HeaderUserName: name} }
	for i := 0; i < 2; i++ {
		resp = app.callWithHeaders(t, http.MethodPost, "/expenses", named("guest"), body, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp = app.callWithHeaders(t, http.MethodPost, "/expenses", named("guest-2"), body, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
