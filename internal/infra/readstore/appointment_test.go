//go:build unit

package readstore_test

import (
	"context"
	"testing"
	"time"

	"garage-booking/internal/infra"
	"garage-booking/internal/infra/readstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentReadStore_FindByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	created := time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC)

	t.Run("success: joined view", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{values: []any{
			int64(42), userID, int64(7),
			pgtype.Date{Time: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true},
			pgtype.Time{Microseconds: int64(9 * time.Hour / time.Microsecond), Valid: true},
			pgtype.Time{Microseconds: int64(10 * time.Hour / time.Microsecond), Valid: true},
			int64(2), "Oil change",
			int64(3), "Corolla", "ABC-123",
			pgtype.Text{String: "rattle on the left", Valid: true}, "pending",
			pgtype.Timestamptz{Time: created, Valid: true}, pgtype.Timestamptz{Time: created, Valid: true},
		}}}
		store := readstore.NewAppointmentReadStore(db)

		view, err := store.FindByID(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, int64(7), view.SlotID)
		assert.Equal(t, "2025-03-01", view.Date)
		assert.Equal(t, "09:00", view.StartTime)
		assert.Equal(t, "10:00", view.EndTime)
		assert.Equal(t, "Oil change", view.ServiceName)
		assert.Equal(t, "ABC-123", view.PlateNo)
		assert.Equal(t, "rattle on the left", view.Notes)
		assert.Equal(t, userID, view.UserID)
		assert.Contains(t, db.sql[0], `INNER JOIN "slots" AS "s"`)
	})

	t.Run("error: not found", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
		store := readstore.NewAppointmentReadStore(db)

		_, err := store.FindByID(ctx, 42)

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
