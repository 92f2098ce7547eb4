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

const alertColumns = `id, type, message, severity, status, reference_id, created_at, resolved_at`

// AlertRepo implements ports.AlertRepository.
type AlertRepo struct {
	pool Pool
}

// NewAlertRepo creates a new AlertRepo.
func NewAlertRepo(pool Pool) *AlertRepo {
	return &AlertRepo{pool: pool}
}

// Create inserts an alert and reports whether a row was written. An Active
// alert with the same type and reference already present wins: the insert is
// skipped by idx_alerts_active_ref and Create returns false.
func (r *AlertRepo) Create(ctx context.Context, a *domain.Alert) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO alerts (`+alertColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`,
		a.ID, a.Type, a.Message, a.Severity, string(a.Status), a.ReferenceID, a.CreatedAt, a.ResolvedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListRecent returns the newest alerts.
func (r *AlertRepo) ListRecent(ctx context.Context, limit int) ([]domain.Alert, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+alertColumns+` FROM alerts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []domain.Alert{}
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.Type, &a.Message, &a.Severity, &a.Status, &a.ReferenceID, &a.CreatedAt, &a.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert rows: %w", err)
	}
	return alerts, nil
}

// Resolve marks the alert Resolved. resolved_at keeps its first value, so
// repeated calls are no-ops apart from returning the record.
func (r *AlertRepo) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Alert, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`UPDATE alerts SET status = $2, resolved_at = COALESCE(resolved_at, $3) WHERE id = $1 RETURNING `+alertColumns,
		id, string(domain.AlertStatusResolved), at))
}

// HasActive reports whether an unresolved alert of alertType exists for the reference.
func (r *AlertRepo) HasActive(ctx context.Context, alertType string, referenceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM alerts WHERE type = $1 AND reference_id = $2 AND status = 'Active')`,
		alertType, referenceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active alert: %w", err)
	}
	return exists, nil
}

func (r *AlertRepo) scanOne(row pgx.Row) (*domain.Alert, error) {
	a := &domain.Alert{}
	err := row.Scan(&a.ID, &a.Type, &a.Message, &a.Severity, &a.Status, &a.ReferenceID, &a.CreatedAt, &a.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	return a, nil
}
