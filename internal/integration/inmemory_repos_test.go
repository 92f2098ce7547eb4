package integration

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func inRange(t time.Time, r domain.DateRange) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditRepo) List(ctx context.Context, f domain.AuditFilter, limit int) ([]domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.AuditLog{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.entries[i]
		if f.Module != "" && e.Module != f.Module {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.UserName != "" && (e.UserName == nil || !strings.Contains(strings.ToLower(*e.UserName), strings.ToLower(f.UserName))) {
			continue
		}
		if !inRange(e.Timestamp, domain.DateRange{Start: f.StartDate, End: f.EndDate}) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// --- In-Memory Role Repo ---

type inMemoryRoleRepo struct {
	mu    sync.RWMutex
	roles map[string]*domain.RolePermission
}

func newInMemoryRoleRepo() *inMemoryRoleRepo {
	return &inMemoryRoleRepo{roles: make(map[string]*domain.RolePermission)}
}

func (r *inMemoryRoleRepo) Upsert(ctx context.Context, role string, permissions domain.Permissions) (*domain.RolePermission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rp := &domain.RolePermission{Role: role, Permissions: permissions, UpdatedAt: time.Now().UTC()}
	r.roles[role] = rp
	return rp, nil
}

func (r *inMemoryRoleRepo) GetByRole(ctx context.Context, role string) (*domain.RolePermission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[role], nil
}

func (r *inMemoryRoleRepo) List(ctx context.Context) ([]domain.RolePermission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RolePermission, 0, len(r.roles))
	for _, rp := range r.roles {
		out = append(out, *rp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

// --- In-Memory Variety Repo ---

type inMemoryVarietyRepo struct {
	mu        sync.RWMutex
	varieties map[uuid.UUID]*domain.RiceVariety
}

func newInMemoryVarietyRepo() *inMemoryVarietyRepo {
	return &inMemoryVarietyRepo{varieties: make(map[uuid.UUID]*domain.RiceVariety)}
}

func (r *inMemoryVarietyRepo) Create(ctx context.Context, v *domain.RiceVariety) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.varieties {
		if strings.EqualFold(existing.Name, v.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *v
	r.varieties[v.ID] = &cp
	return nil
}

func (r *inMemoryVarietyRepo) GetByName(ctx context.Context, name string) (*domain.RiceVariety, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.varieties {
		if strings.EqualFold(v.Name, name) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryVarietyRepo) ListActive(ctx context.Context) ([]domain.RiceVariety, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.RiceVariety{}
	for _, v := range r.varieties {
		if v.IsActive {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *inMemoryVarietyRepo) Deactivate(ctx context.Context, id uuid.UUID) (*domain.RiceVariety, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.varieties[id]
	if !ok {
		return nil, nil
	}
	v.IsActive = false
	v.UpdatedAt = time.Now().UTC()
	cp := *v
	return &cp, nil
}

// --- In-Memory Inventory Repo ---

type inMemoryInventoryRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.Inventory
}

func newInMemoryInventoryRepo() *inMemoryInventoryRepo {
	return &inMemoryInventoryRepo{items: make(map[uuid.UUID]*domain.Inventory)}
}

func (r *inMemoryInventoryRepo) Create(ctx context.Context, item *domain.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *inMemoryInventoryRepo) List(ctx context.Context) ([]domain.Inventory, error) {
	return r.filter(func(*domain.Inventory) bool { return true }), nil
}

func (r *inMemoryInventoryRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (*domain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	item.Quantity += delta
	item.UpdatedAt = time.Now().UTC()
	cp := *item
	return &cp, nil
}

func (r *inMemoryInventoryRepo) ListBelowThreshold(ctx context.Context) ([]domain.Inventory, error) {
	return r.filter(func(i *domain.Inventory) bool { return i.IsBelowThreshold() }), nil
}

func (r *inMemoryInventoryRepo) filter(keep func(*domain.Inventory) bool) []domain.Inventory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Inventory{}
	for _, item := range r.items {
		if keep(item) {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Variety != out[j].Variety {
			return out[i].Variety < out[j].Variety
		}
		return out[i].Grade < out[j].Grade
	})
	return out
}

// --- In-Memory Procurement Repo ---

type inMemoryProcurementRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.Procurement
}

func newInMemoryProcurementRepo() *inMemoryProcurementRepo {
	return &inMemoryProcurementRepo{items: make(map[uuid.UUID]*domain.Procurement)}
}

func (r *inMemoryProcurementRepo) Create(ctx context.Context, p *domain.Procurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *inMemoryProcurementRepo) List(ctx context.Context, dr domain.DateRange) ([]domain.Procurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Procurement{}
	for _, p := range r.items {
		if inRange(p.PurchaseDate, dr) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return out, nil
}

func (r *inMemoryProcurementRepo) ListOutstanding(ctx context.Context) ([]domain.Procurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Procurement{}
	for _, p := range r.items {
		if p.PaymentStatus != domain.PaymentStatusPaid {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.Before(out[j].PurchaseDate) })
	return out, nil
}

func (r *inMemoryProcurementRepo) ApplyPayment(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) (*domain.Procurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	p.PaidAmount += amount
	p.PaymentStatus = domain.DerivePaymentStatus(p.TotalAmount, p.PaidAmount)
	cp := *p
	return &cp, nil
}

func (r *inMemoryProcurementRepo) SumTotal(ctx context.Context, dr domain.DateRange) (float64, error) {
	list, _ := r.List(ctx, dr)
	var total float64
	for _, p := range list {
		total += p.TotalAmount
	}
	return total, nil
}

// --- In-Memory Sale Repo ---

type inMemorySaleRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.Sale
}

func newInMemorySaleRepo() *inMemorySaleRepo {
	return &inMemorySaleRepo{items: make(map[uuid.UUID]*domain.Sale)}
}

func (r *inMemorySaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *inMemorySaleRepo) List(ctx context.Context, dr domain.DateRange) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Sale{}
	for _, s := range r.items {
		if inRange(s.SaleDate, dr) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (r *inMemorySaleRepo) ListOutstanding(ctx context.Context) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Sale{}
	for _, s := range r.items {
		if s.PaymentStatus != domain.PaymentStatusPaid {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.Before(out[j].SaleDate) })
	return out, nil
}

func (r *inMemorySaleRepo) ApplyPayment(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount float64) (*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	s.PaidAmount += amount
	s.PaymentStatus = domain.DerivePaymentStatus(s.TotalAmount, s.PaidAmount)
	cp := *s
	return &cp, nil
}

func (r *inMemorySaleRepo) SumTotal(ctx context.Context, dr domain.DateRange) (float64, error) {
	list, _ := r.List(ctx, dr)
	var total float64
	for _, s := range list {
		total += s.TotalAmount
	}
	return total, nil
}

// --- In-Memory Payment Repo ---

type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments []domain.Payment
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{}
}

func (r *inMemoryPaymentRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *inMemoryPaymentRepo) SumByRefType(ctx context.Context, dr domain.DateRange) (map[domain.RefType]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sums := make(map[domain.RefType]float64)
	for _, p := range r.payments {
		if inRange(p.PaymentDate, dr) {
			sums[p.RefType] += p.Amount
		}
	}
	return sums, nil
}

// --- In-Memory Expense Repo ---

type inMemoryExpenseRepo struct {
	mu       sync.RWMutex
	expenses []domain.Expense
}

func newInMemoryExpenseRepo() *inMemoryExpenseRepo {
	return &inMemoryExpenseRepo{}
}

func (r *inMemoryExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *inMemoryExpenseRepo) List(ctx context.Context, params ports.ExpenseListParams) ([]domain.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Expense{}
	for _, e := range r.expenses {
		if params.Category != "" && e.Category != params.Category {
			continue
		}
		if inRange(e.ExpenseDate, params.Range) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	return out, nil
}

func (r *inMemoryExpenseRepo) Sum(ctx context.Context, dr domain.DateRange) (float64, error) {
	list, _ := r.List(ctx, ports.ExpenseListParams{Range: dr})
	var total float64
	for _, e := range list {
		total += e.Amount
	}
	return total, nil
}

func (r *inMemoryExpenseRepo) SumByCategory(ctx context.Context, dr domain.DateRange) ([]domain.CategoryTotal, error) {
	list, _ := r.List(ctx, ports.ExpenseListParams{Range: dr})
	totals := make(map[string]float64)
	for _, e := range list {
		totals[e.Category] += e.Amount
	}
	out := make([]domain.CategoryTotal, 0, len(totals))
	for c, t := range totals {
		out = append(out, domain.CategoryTotal{Category: c, Total: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// --- In-Memory Alert Repo ---

type inMemoryAlertRepo struct {
	mu     sync.RWMutex
	alerts []*domain.Alert
}

func newInMemoryAlertRepo() *inMemoryAlertRepo {
	return &inMemoryAlertRepo{}
}

// Create mirrors the partial unique index on active (type, reference_id).
func (r *inMemoryAlertRepo) Create(ctx context.Context, a *domain.Alert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ReferenceID != nil && r.hasActiveLocked(a.Type, *a.ReferenceID) {
		return false, nil
	}
	cp := *a
	r.alerts = append(r.alerts, &cp)
	return true, nil
}

func (r *inMemoryAlertRepo) ListRecent(ctx context.Context, limit int) ([]domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Alert{}
	for i := len(r.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.alerts[i])
	}
	return out, nil
}

func (r *inMemoryAlertRepo) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID != id {
			continue
		}
		if a.Status != domain.AlertStatusResolved {
			a.Status = domain.AlertStatusResolved
			a.ResolvedAt = &at
		}
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryAlertRepo) HasActive(ctx context.Context, alertType string, referenceID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasActiveLocked(alertType, referenceID), nil
}

func (r *inMemoryAlertRepo) hasActiveLocked(alertType string, referenceID uuid.UUID) bool {
	for _, a := range r.alerts {
		if a.Type == alertType && a.Status != domain.AlertStatusResolved && a.ReferenceID != nil && *a.ReferenceID == referenceID {
			return true
		}
	}
	return false
}

func (r *inMemoryAlertRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.alerts)
}

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryUserRepo) ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if u.IsActive() {
		u.Status = domain.UserStatusDisabled
	} else {
		u.Status = domain.UserStatusActive
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
