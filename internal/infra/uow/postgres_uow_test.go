//go:build unit

package uow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"garage-booking/internal/pkg/clock"
	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePool hands out transactions that only count Commit and Rollback.
type fakePool struct {
	beginErr  error
	commitErr error

	begins    int
	commits   int
	rollbacks int
}

func (p *fakePool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	p.begins++
	return &fakeTx{pool: p}, nil
}

func (p *fakePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (p *fakePool) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

type fakeTx struct {
	pgx.Tx
	pool *fakePool
}

func (t *fakeTx) Commit(context.Context) error {
	t.pool.commits++
	return t.pool.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.pool.rollbacks++
	return nil
}

func newTestUoW(pool *fakePool, maxRetries int) *PostgresUoW {
	return &PostgresUoW{
		pool:        pool,
		clock:       clock.NewSystemClock(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		lockTimeout: time.Second,
		maxRetries:  maxRetries,
		backoffBase: time.Microsecond,
	}
}

// failing returns fn that fails with results in order and then succeeds.
func failing(calls *int, results ...error) func(context.Context, shared.Tx) error {
	return func(context.Context, shared.Tx) error {
		*calls++
		if *calls <= len(results) {
			return results[*calls-1]
		}
		return nil
	}
}

func TestPostgresUoW_Within(t *testing.T) {
	ctx := context.Background()
	serialization := &pgconn.PgError{Code: "40001"}
	lockTimeout := &pgconn.PgError{Code: "55P03"}

	t.Run("success commits once without rollback", func(t *testing.T) {
		pool := &fakePool{}
		calls := 0

		err := newTestUoW(pool, 3).Within(ctx, failing(&calls))

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, pool.commits)
		assert.Zero(t, pool.rollbacks)
	})

	t.Run("lock timeout is rolled back and not retried", func(t *testing.T) {
		pool := &fakePool{}
		calls := 0

		err := newTestUoW(pool, 3).Within(ctx, failing(&calls, lockTimeout, lockTimeout))

		require.Error(t, err)
		var pgErr *pgconn.PgError
		require.True(t, errs.As(err, &pgErr))
		assert.Equal(t, "55P03", pgErr.Code)
		assert.False(t, errs.Is(err, ErrMaxRetriesExceeded))
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, pool.begins)
		assert.Equal(t, 1, pool.rollbacks)
		assert.Zero(t, pool.commits)
	})

	t.Run("serialization failure is retried up to the limit", func(t *testing.T) {
		pool := &fakePool{}
		calls := 0

		err := newTestUoW(pool, 2).Within(ctx, failing(&calls, serialization, serialization, serialization, serialization))

		require.Error(t, err)
		assert.True(t, errs.Is(err, ErrMaxRetriesExceeded))
		assert.Equal(t, 3, calls)
		assert.Equal(t, 3, pool.begins)
		assert.Equal(t, 3, pool.rollbacks)
		assert.Zero(t, pool.commits)
	})

	t.Run("serialization failure then success", func(t *testing.T) {
		pool := &fakePool{}
		calls := 0

		err := newTestUoW(pool, 2).Within(ctx, failing(&calls, serialization))

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, pool.rollbacks)
		assert.Equal(t, 1, pool.commits)
	})

	t.Run("zero retries runs once", func(t *testing.T) {
		pool := &fakePool{}
		calls := 0

		err := newTestUoW(pool, 0).Within(ctx, failing(&calls, serialization))

		assert.True(t, errs.Is(err, ErrMaxRetriesExceeded))
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, pool.rollbacks)
	})

	t.Run("plain error is rolled back and returned as is", func(t *testing.T) {
		pool := &fakePool{}
		calls := 0
		boom := errors.New("slot already booked")

		err := newTestUoW(pool, 3).Within(ctx, failing(&calls, boom))

		assert.True(t, errs.Is(err, boom))
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, pool.rollbacks)
		assert.Zero(t, pool.commits)
	})

	t.Run("commit failure is rolled back", func(t *testing.T) {
		pool := &fakePool{commitErr: errors.New("connection reset")}
		calls := 0

		err := newTestUoW(pool, 3).Within(ctx, failing(&calls))

		assert.True(t, errs.Is(err, ErrTransactionCommit))
		assert.Equal(t, 1, pool.commits)
		assert.Equal(t, 1, pool.rollbacks)
	})

	t.Run("begin failure never reaches fn", func(t *testing.T) {
		pool := &fakePool{beginErr: errors.New("pool closed")}
		calls := 0

		err := newTestUoW(pool, 3).Within(ctx, failing(&calls))

		assert.True(t, errs.Is(err, ErrTransactionBegin))
		assert.Zero(t, calls)
		assert.Zero(t, pool.rollbacks)
	})
}
