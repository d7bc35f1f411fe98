package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type AvailableSlotView struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SlotView struct {
	ID        int64      `json:"id"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	IsBooked  bool       `json:"is_booked"`
	Status    string     `json:"status"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type AppointmentView struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	SlotID       int64     `json:"slot_id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	ServiceID    int64     `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	VehicleID    int64     `json:"vehicle_id"`
	VehicleModel string    `json:"vehicle_model"`
	PlateNo      string    `json:"plate_no"`
	Notes        string    `json:"notes"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
