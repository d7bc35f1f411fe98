package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingReference = errors.New("appointment requires user, vehicle, service and slot")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

// Appointment binds a customer's vehicle and a service to exactly one slot.
type Appointment struct {
	id        int64
	userID    uuid.UUID
	vehicleID int64
	serviceID int64
	slotID    int64
	notes     Notes
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewAppointment(userID uuid.UUID, vehicleID, serviceID, slotID int64, notes Notes, now time.Time) (*Appointment, error) {
	if userID == uuid.Nil || vehicleID <= 0 || serviceID <= 0 || slotID <= 0 {
		return nil, ErrMissingReference
	}
	return &Appointment{
		userID:    userID,
		vehicleID: vehicleID,
		serviceID: serviceID,
		slotID:    slotID,
		notes:     notes,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructAppointment(
	id int64,
	userID uuid.UUID,
	vehicleID, serviceID, slotID int64,
	notes Notes,
	status Status,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:        id,
		userID:    userID,
		vehicleID: vehicleID,
		serviceID: serviceID,
		slotID:    slotID,
		notes:     notes,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Persisted records the identity assigned by the store.
func (a *Appointment) Persisted(id int64, createdAt time.Time) {
	a.id = id
	a.createdAt = createdAt
	a.updatedAt = createdAt
}

func (a *Appointment) Cancel(now time.Time) error {
	if a.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	a.status = StatusCancelled
	a.updatedAt = now
	return nil
}

func (a *Appointment) IsOwnedBy(userID uuid.UUID) bool {
	return a.userID == userID
}

func (a *Appointment) ID() int64            { return a.id }
func (a *Appointment) UserID() uuid.UUID    { return a.userID }
func (a *Appointment) VehicleID() int64     { return a.vehicleID }
func (a *Appointment) ServiceID() int64     { return a.serviceID }
func (a *Appointment) SlotID() int64        { return a.slotID }
func (a *Appointment) Notes() Notes         { return a.notes }
func (a *Appointment) Status() Status       { return a.status }
func (a *Appointment) CreatedAt() time.Time { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time { return a.updatedAt }
