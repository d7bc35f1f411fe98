package queries

//go:generate mockgen -source=slot.go -destination=../../../tests/mock/queries/slot.go -package=queriesmock

import (
	"context"

	"garage-booking/internal/domain/slot"
	"garage-booking/internal/pkg/errs"
)

// MaxCalendarDays bounds the staff calendar range.
const MaxCalendarDays = 62

var (
	ErrInvalidDate  = errs.New("date must be in YYYY-MM-DD format")
	ErrInvalidRange = errs.New("invalid date range")
)

type SlotReadStore interface {
	ListAvailable(ctx context.Context, date slot.Date) ([]*AvailableSlotView, error)
	ListRange(ctx context.Context, from, to slot.Date) ([]*SlotView, error)
}

type SlotQueries interface {
	// ListAvailable returns the unbooked slots of date ordered by start time.
	ListAvailable(ctx context.Context, date string) ([]*AvailableSlotView, error)
	Calendar(ctx context.Context, from, to string) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	readStore SlotReadStore
}

func NewSlotQueries(readStore SlotReadStore) SlotQueries {
	return &slotQueriesImpl{readStore: readStore}
}

func (q *slotQueriesImpl) ListAvailable(ctx context.Context, date string) ([]*AvailableSlotView, error) {
	d, err := slot.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return q.readStore.ListAvailable(ctx, d)
}

func (q *slotQueriesImpl) Calendar(ctx context.Context, from, to string) ([]*SlotView, error) {
	fromDate, err := slot.ParseDate(from)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDate, err := slot.ParseDate(to)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if toDate.Before(fromDate) {
		return nil, ErrInvalidRange
	}
	if toDate.Time().Sub(fromDate.Time()).Hours()/24 > MaxCalendarDays {
		return nil, ErrInvalidRange
	}
	return q.readStore.ListRange(ctx, fromDate, toDate)
}
