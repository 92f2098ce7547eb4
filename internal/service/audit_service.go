package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/internal/telemetry"
	"ricemill-erp/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuditServiceImpl implements ports.AuditService.
type AuditServiceImpl struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditService creates a new audit service.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, log: log, now: time.Now}
}

// LogActivity persists one audit entry attributed to the actor in ctx.
// Storage errors are returned to the caller and never retried.
func (s *AuditServiceImpl) LogActivity(ctx context.Context, module, action, description string, details domain.Details) (*domain.AuditLog, error) {
	module = strings.TrimSpace(module)
	if module == "" {
		return nil, apperror.Validation("module is required")
	}
	normalized := domain.NormalizeAction(action)
	if normalized == "" {
		return nil, apperror.Validation("action is required")
	}
	if details == nil {
		details = domain.Details{}
	}

	entry := &domain.AuditLog{
		ID:          uuid.New(),
		Timestamp:   s.now().UTC(),
		Module:      module,
		Action:      normalized,
		UserName:    actorName(ctx),
		Description: description,
		Details:     details,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist audit log: %w", err))
	}

	s.log.Debug().
		Str("module", entry.Module).
		Str("action", string(entry.Action)).
		Msg("audit")

	return entry, nil
}

// List returns matching entries, newest first, capped at domain.MaxAuditResults.
func (s *AuditServiceImpl) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, error) {
	if filter.Action != "" {
		filter.Action = domain.NormalizeAction(string(filter.Action))
	}
	filter.Module = strings.TrimSpace(filter.Module)
	filter.UserName = strings.TrimSpace(filter.UserName)

	logs, err := s.repo.List(ctx, filter, domain.MaxAuditResults)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return logs, nil
}

func actorName(ctx context.Context) *string {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok || actor.Name == "" {
		return nil
	}
	name := actor.Name
	return &name
}

// auditor records completed mutations on behalf of the business services.
// A failed audit write never fails the mutation that triggered it: the error
// is logged and counted instead.
type auditor struct {
	audit ports.AuditService
	log   zerolog.Logger
}

func (a auditor) record(ctx context.Context, module string, action domain.AuditAction, description string, details domain.Details) {
	if a.audit == nil {
		return
	}
	if _, err := a.audit.LogActivity(ctx, module, string(action), description, details); err != nil {
		telemetry.AuditWriteFailuresTotal.WithLabelValues(module).Inc()
		a.log.Warn().Err(err).
			Str("module", module).
			Str("action", string(action)).
			Msg("failed to persist audit log")
	}
}
