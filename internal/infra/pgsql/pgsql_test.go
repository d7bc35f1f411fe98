//go:build unit

package pgsql_test

import (
	"testing"

	"garage-booking/internal/infra/pgsql"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_UsesNumberedPlaceholders(t *testing.T) {
	ds := pgsql.Dialect().From(pgsql.TableSlots).
		Select("id").
		Where(goqu.C("date").Eq("2025-03-01"), goqu.C("id").Eq(int64(7)))

	query, args, err := pgsql.Build(ds)

	require.NoError(t, err)
	assert.Contains(t, query, `FROM "slots"`)
	assert.Contains(t, query, "$1")
	assert.Contains(t, query, "$2")
	assert.NotContains(t, query, "2025-03-01")
	assert.Len(t, args, 2)
}

func TestBuild_Insert(t *testing.T) {
	ds := pgsql.Dialect().Insert(pgsql.TableAppointments).
		Rows(goqu.Record{"slot_id": int64(7)}).
		Returning("id")

	query, args, err := pgsql.Build(ds)

	require.NoError(t, err)
	assert.Contains(t, query, `INSERT INTO "appointments"`)
	assert.Contains(t, query, `RETURNING "id"`)
	assert.Equal(t, []any{int64(7)}, args)
}
