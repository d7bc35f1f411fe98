package request

import (
	"strings"

	"garage-booking/internal/pkg/patch"
	"garage-booking/internal/usecase/commands"
)

// ReserveAppointmentRequest mirrors the booking form. Field checks live in the usecase so the
// form can be echoed back unchanged on failure.
type ReserveAppointmentRequest struct {
	VehicleID int64   `json:"vehicle_id"`
	ServiceID int64   `json:"service_id"`
	SlotID    int64   `json:"slot_id"`
	Date      string  `json:"date"`
	Notes     *string `json:"notes,omitempty"`
}

func (r *ReserveAppointmentRequest) ToInput() commands.ReserveInput {
	return commands.ReserveInput{
		VehicleID: r.VehicleID,
		ServiceID: r.ServiceID,
		SlotID:    r.SlotID,
		Date:      strings.TrimSpace(r.Date),
		Notes:     patch.TrimmedOrEmpty(r.Notes),
	}
}

// Form returns the submitted values for re-rendering.
func (r *ReserveAppointmentRequest) Form() map[string]any {
	return map[string]any{
		"vehicle_id": r.VehicleID,
		"service_id": r.ServiceID,
		"slot_id":    r.SlotID,
		"date":       r.Date,
		"notes":      patch.TrimmedOrEmpty(r.Notes),
	}
}
