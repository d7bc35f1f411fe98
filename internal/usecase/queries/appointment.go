package queries

//go:generate mockgen -source=appointment.go -destination=../../../tests/mock/queries/appointment.go -package=queriesmock

import (
	"context"

	"garage-booking/internal/infra"
	"garage-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

var (
	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrAppointmentAccess   = errs.New("appointment access denied")
)

type AppointmentReadStore interface {
	FindByID(ctx context.Context, id int64) (*AppointmentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*AppointmentView, error)
}

type AppointmentQueries interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*AppointmentView, error)
	GetForUser(ctx context.Context, userID uuid.UUID, id int64) (*AppointmentView, error)
}

type appointmentQueriesImpl struct {
	readStore AppointmentReadStore
}

func NewAppointmentQueries(readStore AppointmentReadStore) AppointmentQueries {
	return &appointmentQueriesImpl{readStore: readStore}
}

func (q *appointmentQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*AppointmentView, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return q.readStore.ListByUser(ctx, userID, limit)
}

func (q *appointmentQueriesImpl) GetForUser(ctx context.Context, userID uuid.UUID, id int64) (*AppointmentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if view.UserID != userID {
		return nil, ErrAppointmentAccess
	}
	return view, nil
}
