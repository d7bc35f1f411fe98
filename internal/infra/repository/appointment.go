package repository

import (
	"context"
	"time"

	"garage-booking/internal/domain/appointment"
	"garage-booking/internal/infra"
	"garage-booking/internal/infra/db"
	"garage-booking/internal/infra/pgsql"
	"garage-booking/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgtype"
)

type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(tx db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: tx}
}

// Create fails with KindDuplicateKey when the slot already has an active appointment.
func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) (int64, time.Time, error) {
	record := goqu.Record{
		"user_id":    a.UserID(),
		"vehicle_id": a.VehicleID(),
		"service_id": a.ServiceID(),
		"slot_id":    a.SlotID(),
		"notes":      a.Notes().String(),
		"status":     a.Status().String(),
		"created_at": a.CreatedAt(),
		"updated_at": a.UpdatedAt(),
	}
	query, args, err := pgsql.Build(
		pgsql.Dialect().Insert(pgsql.TableAppointments).
			Rows(record).
			Returning("id", "created_at"),
	)
	if err != nil {
		return 0, time.Time{}, infra.WrapRepoErr("failed to build appointment insert", err)
	}

	var (
		id        int64
		createdAt pgtype.Timestamptz
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id, &createdAt); err != nil {
		return 0, time.Time{}, infra.WrapRepoErr("failed to create appointment", err)
	}
	return id, pgconv.TimeFromPgtype(createdAt), nil
}

func (r *AppointmentRepository) CancelActiveBySlot(ctx context.Context, slotID int64, now time.Time) (int64, error) {
	query, args, err := pgsql.Build(
		pgsql.Dialect().Update(pgsql.TableAppointments).
			Set(goqu.Record{
				"status":     appointment.StatusCancelled.String(),
				"updated_at": now,
			}).
			Where(
				goqu.C("slot_id").Eq(slotID),
				goqu.C("status").In(appointment.StatusPending.String(), appointment.StatusConfirmed.String()),
			),
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build appointment cancel", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel appointments for slot", err)
	}
	return tag.RowsAffected(), nil
}
