package service

import (
	"context"
	"fmt"
	"strings"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"

	"github.com/rs/zerolog"
)

// RoleServiceImpl implements ports.RoleService.
type RoleServiceImpl struct {
	repo ports.RoleRepository
	auditor
}

// NewRoleService creates a new RoleServiceImpl.
func NewRoleService(repo ports.RoleRepository, audit ports.AuditService, log zerolog.Logger) *RoleServiceImpl {
	return &RoleServiceImpl{repo: repo, auditor: auditor{audit: audit, log: log}}
}

// SetPermissions replaces the role's permission map, creating the role on
// first write. The last write wins.
func (s *RoleServiceImpl) SetPermissions(ctx context.Context, role string, permissions domain.Permissions) (*domain.RolePermission, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, apperror.Validation("role is required")
	}
	if permissions == nil {
		permissions = domain.Permissions{}
	}

	rp, err := s.repo.Upsert(ctx, role, permissions)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	s.record(ctx, domain.ModuleRoles, domain.AuditActionUpdate,
		fmt.Sprintf("Updated permissions for role %s", role),
		domain.Details{"role": role, "permissions": map[string]bool(rp.Permissions)})

	return rp, nil
}

// ListRoles returns every role document ordered by role name.
func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]domain.RolePermission, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return roles, nil
}

// GetRole returns a single role document.
func (s *RoleServiceImpl) GetRole(ctx context.Context, role string) (*domain.RolePermission, error) {
	rp, err := s.repo.GetByRole(ctx, role)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if rp == nil {
		return nil, apperror.ErrNotFound("Role")
	}
	return rp, nil
}
