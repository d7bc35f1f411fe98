package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow = errors.New("slot end time must be after start time")
	ErrDateMismatch  = errors.New("slot date does not match the selected date")
	ErrAlreadyBooked = errors.New("slot is already booked")
)

// Slot is a bookable window on one calendar day. (date, start, end) is unique across slots.
type Slot struct {
	id        int64
	date      Date
	start     TimeOfDay
	end       TimeOfDay
	isBooked  bool
	createdBy *uuid.UUID
	createdAt time.Time
}

func NewSlot(date Date, start, end TimeOfDay, createdBy *uuid.UUID) (*Slot, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}
	return &Slot{
		date:      date,
		start:     start,
		end:       end,
		createdBy: createdBy,
	}, nil
}

func ReconstructSlot(
	id int64,
	date Date,
	start, end TimeOfDay,
	isBooked bool,
	createdBy *uuid.UUID,
	createdAt time.Time,
) *Slot {
	return &Slot{
		id:        id,
		date:      date,
		start:     start,
		end:       end,
		isBooked:  isBooked,
		createdBy: createdBy,
		createdAt: createdAt,
	}
}

// Reserve moves an available slot to booked for a customer who picked it under selectedDate.
// The caller must hold the slot's row lock.
func (s *Slot) Reserve(selectedDate Date) error {
	if !s.date.Equal(selectedDate) {
		return ErrDateMismatch
	}
	if s.isBooked {
		return ErrAlreadyBooked
	}
	s.isBooked = true
	return nil
}

// Toggle is the staff override; it is the only way back from booked to available.
func (s *Slot) Toggle() Status {
	s.isBooked = !s.isBooked
	return s.Status()
}

func (s *Slot) Status() Status {
	return StatusOf(s.isBooked)
}

func (s *Slot) ID() int64               { return s.id }
func (s *Slot) Date() Date              { return s.date }
func (s *Slot) Start() TimeOfDay        { return s.start }
func (s *Slot) End() TimeOfDay          { return s.end }
func (s *Slot) IsBooked() bool          { return s.isBooked }
func (s *Slot) CreatedBy() *uuid.UUID   { return s.createdBy }
func (s *Slot) CreatedAt() time.Time    { return s.createdAt }
func (s *Slot) Duration() time.Duration { return s.end.offset - s.start.offset }
