package repository

import (
	"context"
	"strconv"
	"time"

	"garage-booking/internal/domain/slot"
	"garage-booking/internal/infra"
	"garage-booking/internal/infra/db"
	"garage-booking/internal/infra/pgsql"
	"garage-booking/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgtype"
)

var slotColumns = []any{"id", "date", "start_time", "end_time", "is_booked", "created_by", "created_at"}

// SlotRepository must be bound to a transaction: LockByID sets a transaction-local lock_timeout.
type SlotRepository struct {
	db          db.DBTX
	lockTimeout time.Duration
}

func NewSlotRepository(tx db.DBTX, lockTimeout time.Duration) *SlotRepository {
	return &SlotRepository{
		db:          tx,
		lockTimeout: lockTimeout,
	}
}

func (r *SlotRepository) LockByID(ctx context.Context, id int64) (*slot.Slot, error) {
	if r.lockTimeout > 0 {
		timeout := strconv.FormatInt(r.lockTimeout.Milliseconds(), 10) + "ms"
		if _, err := r.db.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", timeout); err != nil {
			return nil, infra.WrapRepoErr("failed to set lock timeout", err)
		}
	}

	query, args, err := pgsql.Build(
		pgsql.Dialect().From(pgsql.TableSlots).
			Select(slotColumns...).
			Where(goqu.C("id").Eq(id)).
			ForUpdate(exp.Wait),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot lock query", err)
	}

	s, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock slot", err)
	}
	return s, nil
}

func (r *SlotRepository) UpdateBooked(ctx context.Context, s *slot.Slot) error {
	query, args, err := pgsql.Build(
		pgsql.Dialect().Update(pgsql.TableSlots).
			Set(goqu.Record{"is_booked": s.IsBooked()}).
			Where(goqu.C("id").Eq(s.ID())),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to build slot update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "slot not found")
	}
	return nil
}

func (r *SlotRepository) Create(ctx context.Context, s *slot.Slot) (*slot.Slot, error) {
	record := goqu.Record{
		"date":       s.Date().Time(),
		"start_time": s.Start().Clock(),
		"end_time":   s.End().Clock(),
		"is_booked":  s.IsBooked(),
		"created_by": pgconv.UUIDPtrToPgtype(s.CreatedBy()),
	}
	query, args, err := pgsql.Build(
		pgsql.Dialect().Insert(pgsql.TableSlots).
			Rows(record).
			Returning(slotColumns...),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build slot insert", err)
	}

	created, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create slot", err)
	}
	return created, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*slot.Slot, error) {
	var (
		id        int64
		date      pgtype.Date
		start     pgtype.Time
		end       pgtype.Time
		isBooked  bool
		createdBy pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &date, &start, &end, &isBooked, &createdBy, &createdAt); err != nil {
		return nil, err
	}

	startTOD, err := slot.TimeOfDayFromOffset(pgconv.SinceMidnight(start))
	if err != nil {
		return nil, err
	}
	endTOD, err := slot.TimeOfDayFromOffset(pgconv.SinceMidnight(end))
	if err != nil {
		return nil, err
	}

	return slot.ReconstructSlot(
		id,
		slot.DateOf(pgconv.DateFromPgtype(date)),
		startTOD,
		endTOD,
		isBooked,
		pgconv.UUIDPtrFromPgtype(createdBy),
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
