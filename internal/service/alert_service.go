package service

import (
	"context"
	"fmt"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AlertServiceImpl implements ports.AlertService.
type AlertServiceImpl struct {
	repo ports.AlertRepository
	auditor
}

// NewAlertService creates a new AlertServiceImpl.
func NewAlertService(repo ports.AlertRepository, audit ports.AuditService, log zerolog.Logger) *AlertServiceImpl {
	return &AlertServiceImpl{repo: repo, auditor: auditor{audit: audit, log: log}}
}

// List returns the newest alerts, at most domain.MaxAlertResults.
func (s *AlertServiceImpl) List(ctx context.Context) ([]domain.Alert, error) {
	alerts, err := s.repo.ListRecent(ctx, domain.MaxAlertResults)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return alerts, nil
}

// Resolve moves an alert to Resolved. Resolving twice keeps the first
// resolution time.
func (s *AlertServiceImpl) Resolve(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	alert, err := s.repo.Resolve(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if alert == nil {
		return nil, apperror.ErrNotFound("Alert")
	}

	s.record(ctx, domain.ModuleAlerts, domain.AuditActionResolve,
		fmt.Sprintf("Resolved alert: %s", alert.Message),
		domain.Details{"id": alert.ID.String(), "type": alert.Type})

	return alert, nil
}
