package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports/mocks"
	"ricemill-erp/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuditService_LogActivity_PersistsEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())
	fixed := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.AuditLog) error {
			assert.Equal(t, "Expenses", e.Module)
			assert.Equal(t, domain.AuditActionCreate, e.Action)
			require.NotNil(t, e.UserName)
			assert.Equal(t, "ravi", *e.UserName)
			assert.Equal(t, fixed, e.Timestamp)
			assert.Equal(t, 1200.0, e.Details["amount"])
			return nil
		},
	)

	entry, err := svc.LogActivity(actorCtx("ravi"), " Expenses ", " create ", "Recorded expense", domain.Details{"amount": 1200.0})
	require.NoError(t, err)
	assert.Equal(t, domain.AuditActionCreate, entry.Action)
}

func TestAuditService_LogActivity_AnonymousActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.AuditLog) error {
			assert.Nil(t, e.UserName)
			assert.NotNil(t, e.Details)
			return nil
		},
	)

	_, err := svc.LogActivity(context.Background(), "Roles", "update", "", nil)
	require.NoError(t, err)
}

func TestAuditService_LogActivity_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewAuditService(mocks.NewMockAuditRepository(ctrl), newTestLogger())

	_, err := svc.LogActivity(context.Background(), "  ", "CREATE", "x", nil)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.LogActivity(context.Background(), "Expenses", " ", "x", nil)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestAuditService_LogActivity_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).Times(1)

	_, err := svc.LogActivity(context.Background(), "Expenses", "CREATE", "x", nil)
	appErr := requireAppError(t, err, http.StatusInternalServerError)
	assert.Contains(t, appErr.Message, "disk full")
}

func TestAuditService_List_NormalizesActionAndCaps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	want := domain.AuditFilter{Module: "Payments", Action: domain.AuditActionCreate, UserName: "ravi"}
	mockRepo.EXPECT().List(gomock.Any(), want, domain.MaxAuditResults).Return([]domain.AuditLog{}, nil).Times(2)

	_, err := svc.List(context.Background(), domain.AuditFilter{Module: "Payments", Action: "create", UserName: "ravi"})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), domain.AuditFilter{Module: "Payments", Action: "CREATE", UserName: " ravi "})
	require.NoError(t, err)
}

func TestAuditService_List_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())
	mockRepo.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := svc.List(context.Background(), domain.AuditFilter{})
	requireAppError(t, err, http.StatusInternalServerError)
}

func TestAuditor_FailureIsSwallowedAndCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)
	a := auditor{audit: mockAudit, log: newTestLogger()}

	before := testutil.ToFloat64(telemetry.AuditWriteFailuresTotal.WithLabelValues("Varieties"))
	mockAudit.EXPECT().
		LogActivity(gomock.Any(), "Varieties", "DELETE", "Deactivated variety X", gomock.Any()).
		Return(nil, errors.New("audit store down"))

	a.record(context.Background(), domain.ModuleVarieties, domain.AuditActionDelete, "Deactivated variety X", nil)

	assert.Equal(t, before+1, testutil.ToFloat64(telemetry.AuditWriteFailuresTotal.WithLabelValues("Varieties")))
}

func TestAuditor_NilServiceIsNoop(t *testing.T) {
	a := auditor{log: newTestLogger()}
	a.record(context.Background(), "Expenses", domain.AuditActionCreate, "x", nil)
}
