package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VarietyServiceImpl implements ports.VarietyService.
type VarietyServiceImpl struct {
	repo ports.VarietyRepository
	auditor
}

// NewVarietyService creates a new VarietyServiceImpl.
func NewVarietyService(repo ports.VarietyRepository, audit ports.AuditService, log zerolog.Logger) *VarietyServiceImpl {
	return &VarietyServiceImpl{repo: repo, auditor: auditor{audit: audit, log: log}}
}

// Create adds a variety. Names are unique case-insensitively, including
// deactivated varieties.
func (s *VarietyServiceImpl) Create(ctx context.Context, req ports.CreateVarietyRequest) (*domain.RiceVariety, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if existing != nil {
		return nil, apperror.ErrDuplicate("Variety", "name")
	}

	now := time.Now().UTC()
	v := &domain.RiceVariety{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		// Lost a race with a concurrent insert of the same name.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.ErrDuplicate("Variety", "name")
		}
		return nil, apperror.InternalError(err)
	}

	s.record(ctx, domain.ModuleVarieties, domain.AuditActionCreate,
		fmt.Sprintf("Created variety %s", v.Name),
		domain.Details{"id": v.ID.String(), "name": v.Name})

	return v, nil
}

// List returns active varieties.
func (s *VarietyServiceImpl) List(ctx context.Context) ([]domain.RiceVariety, error) {
	varieties, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return varieties, nil
}

// Delete deactivates a variety.
func (s *VarietyServiceImpl) Delete(ctx context.Context, id uuid.UUID) (*domain.RiceVariety, error) {
	v, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if v == nil {
		return nil, apperror.ErrNotFound("Variety")
	}

	s.record(ctx, domain.ModuleVarieties, domain.AuditActionDelete,
		fmt.Sprintf("Deactivated variety %s", v.Name),
		domain.Details{"id": v.ID.String(), "name": v.Name})

	return v, nil
}
