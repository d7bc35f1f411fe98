//go:build unit || e2e

package builder

import (
	"time"

	reqdto "garage-booking/internal/handler/dto/request"
	"garage-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingBuilder defaults to the slot 7 / 2025-03-01 booking.
type BookingBuilder struct {
	AppointmentID int64
	UserID        uuid.UUID
	VehicleID     int64
	ServiceID     int64
	SlotID        int64
	Date          string
	StartTime     string
	EndTime       string
	Notes         string
	Status        string
	CreatedAt     time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		AppointmentID: 1,
		UserID:        uuid.New(),
		VehicleID:     3,
		ServiceID:     2,
		SlotID:        7,
		Date:          "2025-03-01",
		StartTime:     "09:00",
		EndTime:       "10:00",
		Notes:         "rattling noise",
		Status:        "pending",
		CreatedAt:     time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildReserveRequestDTO() reqdto.ReserveAppointmentRequest {
	notes := b.Notes
	return reqdto.ReserveAppointmentRequest{
		VehicleID: b.VehicleID,
		ServiceID: b.ServiceID,
		SlotID:    b.SlotID,
		Date:      b.Date,
		Notes:     &notes,
	}
}

func (b *BookingBuilder) BuildView() *queries.AppointmentView {
	return &queries.AppointmentView{
		ID:           b.AppointmentID,
		UserID:       b.UserID,
		SlotID:       b.SlotID,
		Date:         b.Date,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		ServiceID:    b.ServiceID,
		ServiceName:  "Oil change",
		VehicleID:    b.VehicleID,
		VehicleModel: "Corolla",
		PlateNo:      "KA-01-1234",
		Notes:        b.Notes,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.CreatedAt,
	}
}
