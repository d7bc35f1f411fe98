//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	err := db.QueryRow(ctx,
		`INSERT INTO users (id, email, role, is_active) VALUES ($1, $2, $3, true)
		 ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
		 RETURNING id`,
		userID, email, role).Scan(&userID)
	require.NoError(t, err)

	return userID
}

func CreateTestVehicle(t *testing.T, db DBLike, userID uuid.UUID, model, plateNo string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		"INSERT INTO vehicles (user_id, model, year, plate_no) VALUES ($1, $2, 2020, $3) RETURNING id",
		userID, model, plateNo).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreateTestService(t *testing.T, db DBLike, name string, active bool) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		"INSERT INTO services (name, is_active) VALUES ($1, $2) RETURNING id",
		name, active).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestSlot takes date as YYYY-MM-DD and times as HH:MM.
func CreateTestSlot(t *testing.T, db DBLike, date, start, end string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		"INSERT INTO slots (date, start_time, end_time) VALUES ($1::date, $2::time, $3::time) RETURNING id",
		date, start, end).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestSlotWithID pins the id so scenarios can refer to a well-known slot.
func CreateTestSlotWithID(t *testing.T, db DBLike, id int64, date, start, end string) int64 {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO slots (id, date, start_time, end_time) VALUES ($1, $2::date, $3::time, $4::time)",
		id, date, start, end)
	require.NoError(t, err)
	_, err = db.Exec(context.Background(),
		"SELECT setval(pg_get_serial_sequence('slots', 'id'), GREATEST($1, (SELECT MAX(id) FROM slots)))", id)
	require.NoError(t, err)
	return id
}

func SlotIsBooked(t *testing.T, db DBLike, slotID int64) bool {
	t.Helper()

	var booked bool
	err := db.QueryRow(context.Background(), "SELECT is_booked FROM slots WHERE id = $1", slotID).Scan(&booked)
	require.NoError(t, err)
	return booked
}

func CountAppointments(t *testing.T, db DBLike, slotID int64, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM appointments WHERE slot_id = $1 AND status = $2", slotID, status).Scan(&n)
	require.NoError(t, err)
	return n
}

func CountNotificationJobs(t *testing.T, db DBLike, kind string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE kind = $1", kind).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
