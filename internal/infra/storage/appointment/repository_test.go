package appointment

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// stubTxExecutor пустая транзакция для подстановки в контекст
type stubTxExecutor struct{}

func (stubTxExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (stubTxExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (stubTxExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (stubTxExecutor) Commit() error   { return nil }
func (stubTxExecutor) Rollback() error { return nil }

func TestGetByIDQuery_LocksRowInsideTransaction(t *testing.T) {
	ctx := dbmetrics.WithTx(context.Background(), stubTxExecutor{})

	query, args, err := getByIDQuery(ctx, 42)

	require.NoError(t, err)
	assert.Contains(t, query, "FOR UPDATE")
	assert.Equal(t, []interface{}{int64(42)}, args)
}

func TestGetByIDQuery_PlainReadOutsideTransaction(t *testing.T) {
	query, _, err := getByIDQuery(context.Background(), 42)

	require.NoError(t, err)
	assert.NotContains(t, query, "FOR UPDATE")
}

func TestIsActiveSlotViolation(t *testing.T) {
	t.Run("нарушение индекса активных записей", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: activeSlotIndexName}
		assert.True(t, isActiveSlotViolation(err))
	})

	t.Run("другой уникальный индекс", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "appointments_pkey"}
		assert.False(t, isActiveSlotViolation(err))
	})

	t.Run("не ошибка postgres", func(t *testing.T) {
		assert.False(t, isActiveSlotViolation(sql.ErrNoRows))
	})
}
