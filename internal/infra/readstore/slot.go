package readstore

import (
	"context"

	"garage-booking/internal/domain/slot"
	"garage-booking/internal/infra"
	"garage-booking/internal/infra/db"
	"garage-booking/internal/infra/pgsql"
	"garage-booking/internal/pkg/pgconv"
	"garage-booking/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

// SlotReadStore always reads the table; slot state is never cached.
type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(db db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: db}
}

func (r *SlotReadStore) ListAvailable(ctx context.Context, date slot.Date) ([]*queries.AvailableSlotView, error) {
	query, args, err := pgsql.Build(
		pgsql.Dialect().From(pgsql.TableSlots).
			Select("id", "date", "start_time", "end_time").
			Where(
				goqu.C("date").Eq(date.Time()),
				goqu.C("is_booked").IsFalse(),
			).
			Order(goqu.C("start_time").Asc()),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build available slots query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list available slots", err)
	}
	defer rows.Close()

	result := make([]*queries.AvailableSlotView, 0)
	for rows.Next() {
		var (
			id         int64
			d          pgtype.Date
			start, end pgtype.Time
		)
		if err := rows.Scan(&id, &d, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan available slot", err)
		}
		result = append(result, &queries.AvailableSlotView{
			ID:        id,
			Date:      formatDate(d),
			StartTime: formatTime(start),
			EndTime:   formatTime(end),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate available slots", err)
	}
	return result, nil
}

// ListRange returns every slot in [from, to] ordered by date, then start time.
func (r *SlotReadStore) ListRange(ctx context.Context, from, to slot.Date) ([]*queries.SlotView, error) {
	query, args, err := pgsql.Build(
		pgsql.Dialect().From(pgsql.TableSlots).
			Select("id", "date", "start_time", "end_time", "is_booked", "created_by", "created_at").
			Where(goqu.C("date").Between(goqu.Range(from.Time(), to.Time()))).
			Order(goqu.C("date").Asc(), goqu.C("start_time").Asc()),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot calendar query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}
	defer rows.Close()

	result := make([]*queries.SlotView, 0)
	for rows.Next() {
		var (
			view       queries.SlotView
			d          pgtype.Date
			start, end pgtype.Time
			createdBy  pgtype.UUID
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &d, &start, &end, &view.IsBooked, &createdBy, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot", err)
		}
		view.Date = formatDate(d)
		view.StartTime = formatTime(start)
		view.EndTime = formatTime(end)
		view.Status = slot.StatusOf(view.IsBooked).String()
		view.CreatedBy = pgconv.UUIDPtrFromPgtype(createdBy)
		view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slots", err)
	}
	return result, nil
}

func formatDate(d pgtype.Date) string {
	return slot.DateOf(pgconv.DateFromPgtype(d)).String()
}

func formatTime(t pgtype.Time) string {
	tod, err := slot.TimeOfDayFromOffset(pgconv.SinceMidnight(t))
	if err != nil {
		return ""
	}
	return tod.String()
}
