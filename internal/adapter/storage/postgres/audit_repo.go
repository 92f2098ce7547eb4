package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"ricemill-erp/internal/core/domain"
)

const auditColumns = `id, logged_at, module, action, user_name, description, details`

// AuditRepo implements ports.AuditRepository. It only ever inserts.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends one audit entry.
func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditLog) error {
	details := e.Details
	if details == nil {
		details = domain.Details{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Timestamp, e.Module, string(e.Action), e.UserName, e.Description, raw,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns entries matching filter, newest first, at most limit rows.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter, limit int) ([]domain.AuditLog, error) {
	var c conditions
	if filter.Module != "" {
		c.add("module = $%d", filter.Module)
	}
	if filter.Action != "" {
		c.add("action = $%d", string(filter.Action))
	}
	if filter.UserName != "" {
		c.add("user_name ILIKE $%d", containsPattern(filter.UserName))
	}
	c.between("logged_at", domain.DateRange{Start: filter.StartDate, End: filter.EndDate})

	query := fmt.Sprintf(`SELECT %s FROM audit_logs%s ORDER BY logged_at DESC LIMIT $%d`,
		auditColumns, c.where(), c.next())
	args := append(c.args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		var (
			e   domain.AuditLog
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Module, &e.Action, &e.UserName, &e.Description, &raw); err != nil {
			return nil, fmt.Errorf("scan audit log row: %w", err)
		}
		e.Details = domain.Details{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		logs = append(logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log rows: %w", err)
	}
	return logs, nil
}
