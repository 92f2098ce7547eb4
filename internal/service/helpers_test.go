package service

import (
	"context"
	"testing"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

func actorCtx(name string) context.Context {
	return domain.WithActor(context.Background(), domain.Actor{Name: name, Role: "manager"})
}

// mockTx implements pgx.Tx for testing and records how it was finished.
type mockTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (m *mockTx) Rollback(_ context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

func (m *mockTx) Commit(_ context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func requireAppError(t *testing.T, err error, status int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok, "expected *apperror.AppError, got %T", err)
	assert.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

func ptr[T any](v T) *T {
	return &v
}
