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

const defaultInventoryUnit = "kg"

// InventoryServiceImpl implements ports.InventoryService.
type InventoryServiceImpl struct {
	repo      ports.InventoryRepository
	alertRepo ports.AlertRepository
	log       zerolog.Logger
	auditor
}

// NewInventoryService creates a new InventoryServiceImpl.
func NewInventoryService(
	repo ports.InventoryRepository,
	alertRepo ports.AlertRepository,
	audit ports.AuditService,
	log zerolog.Logger,
) *InventoryServiceImpl {
	return &InventoryServiceImpl{
		repo:      repo,
		alertRepo: alertRepo,
		log:       log,
		auditor:   auditor{audit: audit, log: log},
	}
}

// Create adds a stock line.
func (s *InventoryServiceImpl) Create(ctx context.Context, req ports.CreateInventoryRequest) (*domain.Inventory, error) {
	variety := strings.TrimSpace(req.Variety)
	if variety == "" {
		return nil, apperror.Validation("variety is required")
	}
	unit := req.Unit
	if unit == "" {
		unit = defaultInventoryUnit
	}

	now := time.Now().UTC()
	item := &domain.Inventory{
		ID:           uuid.New(),
		Variety:      variety,
		Grade:        req.Grade,
		Quantity:     req.Quantity,
		Unit:         unit,
		MinThreshold: req.MinThreshold,
		Location:     req.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.record(ctx, domain.ModuleInventory, domain.AuditActionCreate,
		fmt.Sprintf("Added stock line %s", describeItem(item)),
		domain.Details{"id": item.ID.String(), "quantity": item.Quantity})

	s.raiseLowStock(ctx, item)
	return item, nil
}

// List returns all stock lines sorted by variety then grade.
func (s *InventoryServiceImpl) List(ctx context.Context) ([]domain.Inventory, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return items, nil
}

// Adjust adds a signed delta to an item's quantity. The result may be
// negative; the change is applied in a single statement so concurrent
// adjustments compose.
func (s *InventoryServiceImpl) Adjust(ctx context.Context, req ports.AdjustInventoryRequest) (*domain.Inventory, error) {
	item, err := s.repo.AdjustQuantity(ctx, req.ID, req.Delta)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if item == nil {
		return nil, apperror.ErrNotFound("Inventory item")
	}

	s.record(ctx, domain.ModuleInventory, domain.AuditActionAdjust,
		fmt.Sprintf("Adjusted %s by %.3f", describeItem(item), req.Delta),
		domain.Details{
			"id":          item.ID.String(),
			"delta":       req.Delta,
			"reason":      req.Reason,
			"newQuantity": item.Quantity,
		})

	s.raiseLowStock(ctx, item)
	return item, nil
}

// ScanLowStock raises a LowStock alert for every item under its threshold
// that has no active one yet. It returns how many alerts were raised.
func (s *InventoryServiceImpl) ScanLowStock(ctx context.Context) (int, error) {
	items, err := s.repo.ListBelowThreshold(ctx)
	if err != nil {
		return 0, apperror.InternalError(err)
	}

	raised := 0
	for i := range items {
		ok, err := s.ensureLowStockAlert(ctx, &items[i])
		if err != nil {
			return raised, apperror.InternalError(err)
		}
		if ok {
			raised++
		}
	}
	return raised, nil
}

// raiseLowStock is the best-effort variant used after a mutation succeeded.
func (s *InventoryServiceImpl) raiseLowStock(ctx context.Context, item *domain.Inventory) {
	if !item.IsBelowThreshold() {
		return
	}
	if _, err := s.ensureLowStockAlert(ctx, item); err != nil {
		s.log.Warn().Err(err).Str("inventory_id", item.ID.String()).Msg("failed to raise low stock alert")
	}
}

func (s *InventoryServiceImpl) ensureLowStockAlert(ctx context.Context, item *domain.Inventory) (bool, error) {
	if !item.IsBelowThreshold() {
		return false, nil
	}
	active, err := s.alertRepo.HasActive(ctx, domain.AlertTypeLowStock, item.ID)
	if err != nil {
		return false, err
	}
	if active {
		return false, nil
	}

	ref := item.ID
	alert := &domain.Alert{
		ID:   uuid.New(),
		Type: domain.AlertTypeLowStock,
		Message: fmt.Sprintf("Low stock: %s at %.2f %s (threshold %.2f)",
			describeItem(item), item.Quantity, item.Unit, item.MinThreshold),
		Severity:    "warning",
		Status:      domain.AlertStatusActive,
		ReferenceID: &ref,
		CreatedAt:   time.Now().UTC(),
	}
	inserted, err := s.alertRepo.Create(ctx, alert)
	if err != nil || !inserted {
		return false, err
	}

	telemetry.AlertsRaisedTotal.WithLabelValues(alert.Type).Inc()
	s.log.Info().
		Str("alert_id", alert.ID.String()).
		Str("inventory_id", item.ID.String()).
		Float64("quantity", item.Quantity).
		Msg("low stock alert raised")
	return true, nil
}

func describeItem(item *domain.Inventory) string {
	if item.Grade == "" {
		return item.Variety
	}
	return fmt.Sprintf("%s (%s)", item.Variety, item.Grade)
}
