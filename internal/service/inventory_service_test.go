package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type inventoryTestDeps struct {
	svc       *InventoryServiceImpl
	repo      *mocks.MockInventoryRepository
	alertRepo *mocks.MockAlertRepository
	audit     *mocks.MockAuditService
}

func setupInventoryService(t *testing.T) *inventoryTestDeps {
	ctrl := gomock.NewController(t)
	d := &inventoryTestDeps{
		repo:      mocks.NewMockInventoryRepository(ctrl),
		alertRepo: mocks.NewMockAlertRepository(ctrl),
		audit:     mocks.NewMockAuditService(ctrl),
	}
	d.svc = NewInventoryService(d.repo, d.alertRepo, d.audit, newTestLogger())
	return d
}

func stockItem(qty, threshold float64) *domain.Inventory {
	return &domain.Inventory{ID: uuid.New(), Variety: "Basmati", Grade: "A", Quantity: qty, Unit: "kg", MinThreshold: threshold}
}

func TestInventoryService_Adjust_AppliesDelta(t *testing.T) {
	d := setupInventoryService(t)
	ctx := actorCtx("ravi")
	after := stockItem(150, 100)

	d.repo.EXPECT().AdjustQuantity(ctx, after.ID, 50.0).Return(after, nil)
	d.audit.EXPECT().LogActivity(ctx, domain.ModuleInventory, "ADJUST", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _ string, details domain.Details) (*domain.AuditLog, error) {
			assert.Equal(t, 50.0, details["delta"])
			assert.Equal(t, "Received from mill", details["reason"])
			assert.Equal(t, 150.0, details["newQuantity"])
			return &domain.AuditLog{}, nil
		})

	item, err := d.svc.Adjust(ctx, ports.AdjustInventoryRequest{ID: after.ID, Delta: 50, Reason: "Received from mill"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, item.Quantity)
}

func TestInventoryService_Adjust_NegativeResultAllowed(t *testing.T) {
	d := setupInventoryService(t)
	ctx := context.Background()
	after := stockItem(-20, 0)

	d.repo.EXPECT().AdjustQuantity(ctx, after.ID, -120.0).Return(after, nil)
	d.audit.EXPECT().LogActivity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.AuditLog{}, nil)

	item, err := d.svc.Adjust(ctx, ports.AdjustInventoryRequest{ID: after.ID, Delta: -120})
	require.NoError(t, err)
	assert.Equal(t, -20.0, item.Quantity)
}

func TestInventoryService_Adjust_NotFound(t *testing.T) {
	d := setupInventoryService(t)
	d.repo.EXPECT().AdjustQuantity(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := d.svc.Adjust(context.Background(), ports.AdjustInventoryRequest{ID: uuid.New(), Delta: 1})
	requireAppError(t, err, http.StatusNotFound)
}

func TestInventoryService_Adjust_RaisesLowStockAlert(t *testing.T) {
	d := setupInventoryService(t)
	ctx := context.Background()
	after := stockItem(40, 100)

	d.repo.EXPECT().AdjustQuantity(ctx, after.ID, -60.0).Return(after, nil)
	d.audit.EXPECT().LogActivity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.AuditLog{}, nil)
	d.alertRepo.EXPECT().HasActive(ctx, domain.AlertTypeLowStock, after.ID).Return(false, nil)
	d.alertRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.Alert) (bool, error) {
		assert.Equal(t, domain.AlertTypeLowStock, a.Type)
		assert.Equal(t, domain.AlertStatusActive, a.Status)
		require.NotNil(t, a.ReferenceID)
		assert.Equal(t, after.ID, *a.ReferenceID)
		assert.Contains(t, a.Message, "Basmati (A)")
		return true, nil
	})

	_, err := d.svc.Adjust(ctx, ports.AdjustInventoryRequest{ID: after.ID, Delta: -60})
	require.NoError(t, err)
}

func TestInventoryService_Adjust_NoDuplicateAlert(t *testing.T) {
	d := setupInventoryService(t)
	ctx := context.Background()
	after := stockItem(10, 100)

	d.repo.EXPECT().AdjustQuantity(ctx, after.ID, -5.0).Return(after, nil)
	d.audit.EXPECT().LogActivity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.AuditLog{}, nil)
	d.alertRepo.EXPECT().HasActive(ctx, domain.AlertTypeLowStock, after.ID).Return(true, nil)

	_, err := d.svc.Adjust(ctx, ports.AdjustInventoryRequest{ID: after.ID, Delta: -5})
	require.NoError(t, err)
}

func TestInventoryService_ScanLowStock_LosesInsertRace(t *testing.T) {
	d := setupInventoryService(t)
	ctx := context.Background()
	item := stockItem(10, 100)

	// Another writer opened the alert between the check and the insert.
	d.repo.EXPECT().ListBelowThreshold(ctx).Return([]domain.Inventory{*item}, nil)
	d.alertRepo.EXPECT().HasActive(ctx, domain.AlertTypeLowStock, item.ID).Return(false, nil)
	d.alertRepo.EXPECT().Create(ctx, gomock.Any()).Return(false, nil)

	raised, err := d.svc.ScanLowStock(ctx)
	require.NoError(t, err)
	assert.Zero(t, raised)
}

func TestInventoryService_Adjust_AlertFailureDoesNotFail(t *testing.T) {
	d := setupInventoryService(t)
	ctx := context.Background()
	after := stockItem(10, 100)

	d.repo.EXPECT().AdjustQuantity(ctx, after.ID, -5.0).Return(after, nil)
	d.audit.EXPECT().LogActivity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&domain.AuditLog{}, nil)
	d.alertRepo.EXPECT().HasActive(ctx, gomock.Any(), gomock.Any()).Return(false, errors.New("timeout"))

	item, err := d.svc.Adjust(ctx, ports.AdjustInventoryRequest{ID: after.ID, Delta: -5})
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.Quantity)
}

func TestInventoryService_Create_DefaultsUnit(t *testing.T) {
	d := setupInventoryService(t)
	ctx := context.Background()

	d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, i *domain.Inventory) error {
		assert.Equal(t, "kg", i.Unit)
		return nil
	})
	d.audit.EXPECT().LogActivity(ctx, domain.ModuleInventory, "CREATE", gomock.Any(), gomock.Any()).Return(&domain.AuditLog{}, nil)

	item, err := d.svc.Create(ctx, ports.CreateInventoryRequest{Variety: "Basmati", Quantity: 500, MinThreshold: 100})
	require.NoError(t, err)
	assert.Equal(t, 500.0, item.Quantity)
}

func TestInventoryService_Create_MissingVariety(t *testing.T) {
	d := setupInventoryService(t)

	_, err := d.svc.Create(context.Background(), ports.CreateInventoryRequest{})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestInventoryService_ScanLowStock(t *testing.T) {
	d := setupInventoryService(t)
	ctx := context.Background()
	a, b := stockItem(5, 50), stockItem(10, 20)

	d.repo.EXPECT().ListBelowThreshold(ctx).Return([]domain.Inventory{*a, *b}, nil)
	d.alertRepo.EXPECT().HasActive(ctx, domain.AlertTypeLowStock, a.ID).Return(true, nil)
	d.alertRepo.EXPECT().HasActive(ctx, domain.AlertTypeLowStock, b.ID).Return(false, nil)
	d.alertRepo.EXPECT().Create(ctx, gomock.Any()).Return(true, nil)

	raised, err := d.svc.ScanLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, raised)
}

func TestInventoryService_ScanLowStock_Error(t *testing.T) {
	d := setupInventoryService(t)
	d.repo.EXPECT().ListBelowThreshold(gomock.Any()).Return(nil, errors.New("conn refused"))

	_, err := d.svc.ScanLowStock(context.Background())
	requireAppError(t, err, http.StatusInternalServerError)
}
