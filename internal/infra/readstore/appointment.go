package readstore

import (
	"context"

	"garage-booking/internal/infra"
	"garage-booking/internal/infra/db"
	"garage-booking/internal/infra/pgsql"
	"garage-booking/internal/pkg/pgconv"
	"garage-booking/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type AppointmentReadStore struct {
	db db.DBTX
}

func NewAppointmentReadStore(db db.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{db: db}
}

func appointmentViewQuery() *goqu.SelectDataset {
	return pgsql.Dialect().From(goqu.T(pgsql.TableAppointments).As("a")).
		Join(goqu.T(pgsql.TableSlots).As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("a.slot_id")))).
		Join(goqu.T(pgsql.TableServices).As("sv"), goqu.On(goqu.I("sv.id").Eq(goqu.I("a.service_id")))).
		Join(goqu.T(pgsql.TableVehicles).As("v"), goqu.On(goqu.I("v.id").Eq(goqu.I("a.vehicle_id")))).
		Select(
			goqu.I("a.id"), goqu.I("a.user_id"), goqu.I("a.slot_id"),
			goqu.I("s.date"), goqu.I("s.start_time"), goqu.I("s.end_time"),
			goqu.I("a.service_id"), goqu.I("sv.name"),
			goqu.I("a.vehicle_id"), goqu.I("v.model"), goqu.I("v.plate_no"),
			goqu.I("a.notes"), goqu.I("a.status"), goqu.I("a.created_at"), goqu.I("a.updated_at"),
		)
}

func (r *AppointmentReadStore) FindByID(ctx context.Context, id int64) (*queries.AppointmentView, error) {
	query, args, err := pgsql.Build(appointmentViewQuery().Where(goqu.I("a.id").Eq(id)))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build appointment query", err)
	}

	view, err := scanAppointmentView(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment by ID", err)
	}
	return view, nil
}

// ListByUser returns the user's appointments, newest first.
func (r *AppointmentReadStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*queries.AppointmentView, error) {
	query, args, err := pgsql.Build(
		appointmentViewQuery().
			Where(goqu.I("a.user_id").Eq(userID)).
			Order(goqu.I("a.created_at").Desc(), goqu.I("a.id").Desc()).
			Limit(uint(limit)),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build appointment history query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}
	defer rows.Close()

	result := make([]*queries.AppointmentView, 0)
	for rows.Next() {
		view, err := scanAppointmentView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate appointments", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointmentView(row rowScanner) (*queries.AppointmentView, error) {
	var (
		view                 queries.AppointmentView
		date                 pgtype.Date
		start, end           pgtype.Time
		notes                pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.UserID, &view.SlotID,
		&date, &start, &end,
		&view.ServiceID, &view.ServiceName,
		&view.VehicleID, &view.VehicleModel, &view.PlateNo,
		&notes, &view.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.Date = formatDate(date)
	view.StartTime = formatTime(start)
	view.EndTime = formatTime(end)
	view.Notes = pgconv.StringFromPgtype(notes)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
