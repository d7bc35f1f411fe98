package response

import (
	"garage-booking/internal/usecase/commands"
	"garage-booking/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type AvailableSlotResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailableSlotsResponse struct {
	Date  string                   `json:"date"`
	Slots []*AvailableSlotResponse `json:"slots"`
}

func FromAvailableSlots(date string, views []*queries.AvailableSlotView) *AvailableSlotsResponse {
	slots := make([]*AvailableSlotResponse, len(views))
	for i, v := range views {
		slots[i] = &AvailableSlotResponse{}
		_ = copier.Copy(slots[i], v)
	}
	return &AvailableSlotsResponse{Date: date, Slots: slots}
}

type SlotResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at" copier:"-"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	res := &SlotResponse{}
	_ = copier.CopyWithOption(res, v, copier.Option{IgnoreEmpty: true})
	res.CreatedAt = v.CreatedAt.Unix()
	return res
}

func FromSlotViews(views []*queries.SlotView) []*SlotResponse {
	res := make([]*SlotResponse, len(views))
	for i, v := range views {
		res[i] = FromSlotView(v)
	}
	return res
}

type ToggleSlotResponse struct {
	Slot                  *SlotResponse `json:"slot"`
	CancelledAppointments int64         `json:"cancelled_appointments"`
}

func FromToggleResult(r *commands.ToggleResult) *ToggleSlotResponse {
	return &ToggleSlotResponse{
		Slot:                  FromSlotView(r.Slot),
		CancelledAppointments: r.CancelledAppointments,
	}
}
