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

// UserServiceImpl implements ports.UserService.
type UserServiceImpl struct {
	repo    ports.UserRepository
	hashSvc ports.HashService
	auditor
}

// NewUserService creates a new UserServiceImpl.
func NewUserService(
	repo ports.UserRepository,
	hashSvc ports.HashService,
	audit ports.AuditService,
	log zerolog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, hashSvc: hashSvc, auditor: auditor{audit: audit, log: log}}
}

// Create registers a staff account with an Argon2id password hash.
func (s *UserServiceImpl) Create(ctx context.Context, req ports.CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperror.Validation("username is required")
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if existing != nil {
		return nil, apperror.ErrDuplicate("User", "username")
	}

	hash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Username:     username,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.ErrDuplicate("User", "username")
		}
		return nil, apperror.InternalError(err)
	}

	s.record(ctx, domain.ModuleUsers, domain.AuditActionCreate,
		fmt.Sprintf("Created user %s", u.Username),
		domain.Details{"id": u.ID.String(), "username": u.Username, "role": u.Role})

	return u, nil
}

// List returns all users.
func (s *UserServiceImpl) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return users, nil
}

// ToggleStatus flips a user between Active and Disabled.
func (s *UserServiceImpl) ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.repo.ToggleStatus(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if u == nil {
		return nil, apperror.ErrNotFound("User")
	}

	from := domain.UserStatusActive
	if u.IsActive() {
		from = domain.UserStatusDisabled
	}
	s.record(ctx, domain.ModuleUsers, domain.AuditActionStatusChange,
		fmt.Sprintf("Changed status of user %s to %s", u.Username, u.Status),
		domain.Details{"id": u.ID.String(), "from": string(from), "to": string(u.Status)})

	return u, nil
}
