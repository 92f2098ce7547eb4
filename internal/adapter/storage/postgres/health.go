package postgres

import (
	"context"

	"ricemill-erp/internal/core/ports"
)

// HealthCheck implements ports.HealthChecker for PostgreSQL.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) ports.HealthChecker {
	return &HealthCheck{pool: pool}
}

// Ping runs a trivial query, which also connects the gateway on first use.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.pool.Exec(ctx, "SELECT 1")
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "postgresql"
}
