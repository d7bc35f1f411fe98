//go:build unit

package infra_test

import (
	"errors"
	"fmt"
	"testing"

	"garage-booking/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr_Classification(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		kind     []infra.RepositoryErrorKind
		expected infra.RepositoryErrorKind
	}{
		{name: "plain error is a db failure", err: errors.New("connection reset"), expected: infra.KindDBFailure},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, expected: infra.KindDuplicateKey},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, expected: infra.KindForeignKeyViolated},
		{name: "lock not available", err: &pgconn.PgError{Code: "55P03"}, expected: infra.KindLockTimeout},
		{name: "wrapped lock not available", err: fmt.Errorf("select: %w", &pgconn.PgError{Code: "55P03"}), expected: infra.KindLockTimeout},
		{name: "unknown pg code", err: &pgconn.PgError{Code: "42P01"}, expected: infra.KindDBFailure},
		{name: "explicit kind wins", err: errors.New("no rows"), kind: []infra.RepositoryErrorKind{infra.KindNotFound}, expected: infra.KindNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := infra.WrapRepoErr("failed to do thing", tc.err, tc.kind...)

			assert.True(t, infra.IsKind(err, tc.expected), "expected kind [%v] but got (%v)", tc.expected, err)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestIsKind_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", infra.NewRepoErr(infra.KindNotFound, "slot not found"))

	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.False(t, infra.IsKind(err, infra.KindDBFailure))
	assert.False(t, infra.IsKind(errors.New("other"), infra.KindNotFound))
}

func TestConstraintName(t *testing.T) {
	err := infra.WrapRepoErr("insert", &pgconn.PgError{Code: "23505", ConstraintName: "appointments_active_slot_key"})

	assert.Equal(t, "appointments_active_slot_key", infra.ConstraintName(err))
	assert.Empty(t, infra.ConstraintName(errors.New("plain")))
}
