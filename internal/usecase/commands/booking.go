package commands

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock

import (
	"context"
	"strconv"

	"garage-booking/internal/domain/appointment"
	"garage-booking/internal/domain/slot"
	"garage-booking/internal/infra"
	"garage-booking/internal/pkg/clock"
	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/pkg/validation"
	"garage-booking/internal/usecase/queries"
	"garage-booking/internal/usecase/shared"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	NotificationKindAppointmentBooked  = "appointment_booked"
	NotificationTopicAppointmentBooked = "garage.appointment.booked"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ReserveInput struct {
	VehicleID int64  `json:"vehicle_id" validate:"required,gt=0"`
	ServiceID int64  `json:"service_id" validate:"required,gt=0"`
	SlotID    int64  `json:"slot_id" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,calendar_date"`
	Notes     string `json:"notes" validate:"max=1000"`
}

type BookingCommands interface {
	// Reserve books the slot exactly once; concurrent callers for the same slot see ErrSlotUnavailable.
	Reserve(ctx context.Context, userID uuid.UUID, in ReserveInput) (*queries.AppointmentView, error)
}

type bookingCommandsImpl struct {
	uow       shared.UnitOfWork
	validator *validation.Validator
	clock     clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, validator *validation.Validator, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{
		uow:       uow,
		validator: validator,
		clock:     clk,
	}
}

type appointmentBookedPayload struct {
	AppointmentID int64     `json:"appointment_id"`
	UserID        uuid.UUID `json:"user_id"`
	SlotID        int64     `json:"slot_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	ServiceName   string    `json:"service_name"`
	PlateNo       string    `json:"plate_no"`
}

func (c *bookingCommandsImpl) Reserve(ctx context.Context, userID uuid.UUID, in ReserveInput) (*queries.AppointmentView, error) {
	if err := c.validator.Struct(in); err != nil {
		return nil, invalidInput(err)
	}
	selectedDate, err := slot.ParseDate(in.Date)
	if err != nil {
		return nil, &FieldError{Field: "date", Reason: ErrInvalidInput}
	}
	notes, err := appointment.NewNotes(in.Notes)
	if err != nil {
		return nil, &FieldError{Field: "notes", Reason: ErrInvalidInput}
	}

	vehicle, service, err := c.checkPreconditions(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	var view *queries.AppointmentView
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		view = nil

		s, err := tx.Slots().LockByID(ctx, in.SlotID)
		if err != nil {
			return mapSlotLockErr(err)
		}

		if err := s.Reserve(selectedDate); err != nil {
			switch {
			case errs.Is(err, slot.ErrDateMismatch):
				return fieldError("date", ErrStaleSelection)
			case errs.Is(err, slot.ErrAlreadyBooked):
				return fieldError("slot_id", ErrSlotUnavailable)
			default:
				return err
			}
		}

		if err := tx.Slots().UpdateBooked(ctx, s); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		appt, err := appointment.NewAppointment(userID, vehicle.ID, service.ID, s.ID(), notes, c.clock.Now())
		if err != nil {
			return &FieldError{Field: "slot_id", Reason: ErrInvalidInput}
		}
		id, createdAt, err := tx.Appointments().Create(ctx, appt)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return fieldError("slot_id", ErrSlotUnavailable)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		appt.Persisted(id, createdAt)

		view = toAppointmentView(appt, s, vehicle, service)
		return c.enqueueBooked(ctx, tx, view)
	})
	if err != nil {
		var fe *FieldError
		if errs.As(err, &fe) {
			return nil, fe
		}
		if errs.Is(err, ErrDatabaseOperationFailed) {
			return nil, err
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

// checkPreconditions runs before the transaction so invalid requests never touch the slot lock.
func (c *bookingCommandsImpl) checkPreconditions(ctx context.Context, userID uuid.UUID, in ReserveInput) (*shared.VehicleSnapshot, *shared.ServiceSnapshot, error) {
	reads := c.uow.CommandReads()

	vehicle, err := reads.VehicleByID(ctx, in.VehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, fieldError("vehicle_id", ErrVehicleNotOwned)
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if vehicle.UserID != userID {
		return nil, nil, fieldError("vehicle_id", ErrVehicleNotOwned)
	}

	service, err := reads.ServiceByID(ctx, in.ServiceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, fieldError("service_id", ErrServiceUnavailable)
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !service.IsActive {
		return nil, nil, fieldError("service_id", ErrServiceUnavailable)
	}

	return vehicle, service, nil
}

func (c *bookingCommandsImpl) enqueueBooked(ctx context.Context, tx shared.Tx, view *queries.AppointmentView) error {
	payload, err := json.Marshal(appointmentBookedPayload{
		AppointmentID: view.ID,
		UserID:        view.UserID,
		SlotID:        view.SlotID,
		Date:          view.Date,
		StartTime:     view.StartTime,
		EndTime:       view.EndTime,
		ServiceName:   view.ServiceName,
		PlateNo:       view.PlateNo,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode notification payload")
	}

	job := shared.NotificationJob{
		Kind:    NotificationKindAppointmentBooked,
		Topic:   NotificationTopicAppointmentBooked,
		Key:     strconv.FormatInt(view.ID, 10),
		Payload: payload,
		RunAt:   c.clock.Now(),
	}
	if err := tx.Notifications().CreateJob(ctx, job); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func mapSlotLockErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return fieldError("slot_id", ErrSlotNotFound)
	case infra.IsKind(err, infra.KindLockTimeout):
		return fieldError("slot_id", ErrSlotLockTimeout)
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}

func toAppointmentView(a *appointment.Appointment, s *slot.Slot, v *shared.VehicleSnapshot, svc *shared.ServiceSnapshot) *queries.AppointmentView {
	return &queries.AppointmentView{
		ID:           a.ID(),
		UserID:       a.UserID(),
		SlotID:       s.ID(),
		Date:         s.Date().String(),
		StartTime:    s.Start().String(),
		EndTime:      s.End().String(),
		ServiceID:    svc.ID,
		ServiceName:  svc.Name,
		VehicleID:    v.ID,
		VehicleModel: v.Model,
		PlateNo:      v.PlateNo,
		Notes:        a.Notes().String(),
		Status:       a.Status().String(),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
}
