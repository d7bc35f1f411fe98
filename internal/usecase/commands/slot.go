package commands

//go:generate mockgen -source=slot.go -destination=../../../tests/mock/commands/slot.go -package=commandsmock

import (
	"context"
	"log/slog"

	"garage-booking/internal/domain/slot"
	"garage-booking/internal/infra"
	"garage-booking/internal/pkg/clock"
	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/pkg/validation"
	"garage-booking/internal/usecase/queries"
	"garage-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateSlotInput struct {
	Date      string `json:"date" validate:"required,calendar_date"`
	StartTime string `json:"start_time" validate:"required,time_of_day"`
	EndTime   string `json:"end_time" validate:"required,time_of_day"`
}

type ToggleResult struct {
	Slot                  *queries.SlotView
	CancelledAppointments int64
}

type SlotCommands interface {
	Create(ctx context.Context, actorID uuid.UUID, in CreateSlotInput) (*queries.SlotView, error)
	// Toggle flips availability under the slot's row lock. Freeing a booked slot cancels its active appointment.
	Toggle(ctx context.Context, slotID int64) (*ToggleResult, error)
}

type slotCommandsImpl struct {
	uow       shared.UnitOfWork
	validator *validation.Validator
	clock     clock.Clock
	logger    *slog.Logger
}

func NewSlotCommands(uow shared.UnitOfWork, validator *validation.Validator, clk clock.Clock, logger *slog.Logger) SlotCommands {
	return &slotCommandsImpl{
		uow:       uow,
		validator: validator,
		clock:     clk,
		logger:    logger,
	}
}

func (c *slotCommandsImpl) Create(ctx context.Context, actorID uuid.UUID, in CreateSlotInput) (*queries.SlotView, error) {
	if err := c.validator.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	date, err := slot.ParseDate(in.Date)
	if err != nil {
		return nil, &FieldError{Field: "date", Reason: ErrInvalidInput}
	}
	start, err := slot.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return nil, &FieldError{Field: "start_time", Reason: ErrInvalidInput}
	}
	end, err := slot.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return nil, &FieldError{Field: "end_time", Reason: ErrInvalidInput}
	}

	newSlot, err := slot.NewSlot(date, start, end, &actorID)
	if err != nil {
		if errs.Is(err, slot.ErrInvalidWindow) {
			return nil, fieldError("end_time", ErrInvalidSlotWindow)
		}
		return nil, &FieldError{Field: "date", Reason: ErrInvalidInput}
	}

	var created *slot.Slot
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err = tx.Slots().Create(ctx, newSlot)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, fieldError("start_time", ErrSlotAlreadyExists)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return toSlotView(created), nil
}

func (c *slotCommandsImpl) Toggle(ctx context.Context, slotID int64) (*ToggleResult, error) {
	if slotID <= 0 {
		return nil, fieldError("slot_id", ErrSlotNotFound)
	}

	var result *ToggleResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil

		s, err := tx.Slots().LockByID(ctx, slotID)
		if err != nil {
			return mapSlotLockErr(err)
		}

		status := s.Toggle()
		if err := tx.Slots().UpdateBooked(ctx, s); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		var cancelled int64
		if status == slot.StatusAvailable {
			cancelled, err = tx.Appointments().CancelActiveBySlot(ctx, s.ID(), c.clock.Now())
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		result = &ToggleResult{Slot: toSlotView(s), CancelledAppointments: cancelled}
		return nil
	})
	if err != nil {
		var fe *FieldError
		if errs.As(err, &fe) {
			return nil, fe
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c.logger.Info("slot status toggled",
		"slot_id", slotID,
		"status", result.Slot.Status,
		"cancelled_appointments", result.CancelledAppointments)
	return result, nil
}

func toSlotView(s *slot.Slot) *queries.SlotView {
	return &queries.SlotView{
		ID:        s.ID(),
		Date:      s.Date().String(),
		StartTime: s.Start().String(),
		EndTime:   s.End().String(),
		IsBooked:  s.IsBooked(),
		Status:    s.Status().String(),
		CreatedBy: s.CreatedBy(),
		CreatedAt: s.CreatedAt(),
	}
}
