//go:build unit || e2e

package builder

import (
	"time"

	"garage-booking/internal/domain/slot"
	reqdto "garage-booking/internal/handler/dto/request"
	"garage-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ID        int64
	Date      slot.Date
	Start     slot.TimeOfDay
	End       slot.TimeOfDay
	IsBooked  bool
	CreatedBy *uuid.UUID
	CreatedAt time.Time
}

func NewSlotBuilder() *SlotBuilder {
	start, _ := slot.NewTimeOfDay(9, 0)
	end, _ := slot.NewTimeOfDay(10, 0)
	return &SlotBuilder{
		ID:        7,
		Date:      slot.NewDate(2025, time.March, 1),
		Start:     start,
		End:       end,
		CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) Booked() *SlotBuilder {
	b.IsBooked = true
	return b
}

func (b *SlotBuilder) BuildDomain() *slot.Slot {
	return slot.ReconstructSlot(b.ID, b.Date, b.Start, b.End, b.IsBooked, b.CreatedBy, b.CreatedAt)
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	return &queries.SlotView{
		ID:        b.ID,
		Date:      b.Date.String(),
		StartTime: b.Start.String(),
		EndTime:   b.End.String(),
		IsBooked:  b.IsBooked,
		Status:    slot.StatusOf(b.IsBooked).String(),
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
	}
}

func (b *SlotBuilder) BuildAvailableView() *queries.AvailableSlotView {
	return &queries.AvailableSlotView{
		ID:        b.ID,
		Date:      b.Date.String(),
		StartTime: b.Start.String(),
		EndTime:   b.End.String(),
	}
}

func (b *SlotBuilder) BuildCreateRequestDTO() reqdto.CreateSlotRequest {
	return reqdto.CreateSlotRequest{
		Date:      b.Date.String(),
		StartTime: b.Start.String(),
		EndTime:   b.End.String(),
	}
}
