package commands

import (
	"fmt"

	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/pkg/validation"
)

var (
	ErrInvalidInput            = errs.New("invalid input")
	ErrSlotNotFound            = errs.New("slot not found")
	ErrStaleSelection          = errs.New("slot does not belong to the selected date")
	ErrSlotUnavailable         = errs.New("slot is no longer available")
	ErrSlotLockTimeout         = errs.New("slot is busy, try again shortly")
	ErrVehicleNotOwned         = errs.New("vehicle not found for this customer")
	ErrServiceUnavailable      = errs.New("service is not available")
	ErrInvalidSlotWindow       = errs.New("end time must be after start time")
	ErrSlotAlreadyExists       = errs.New("a slot with this date and time already exists")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// FieldError attaches a failure to the form field the client should highlight.
type FieldError struct {
	Field   string
	Reason  error
	Details validation.FieldErrors
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Reason
}

func fieldError(field string, reason error) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

// invalidInput converts validator output; the first failing field leads.
func invalidInput(err error) error {
	var fieldErrs validation.FieldErrors
	if errs.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &FieldError{Field: fieldErrs[0].Field, Reason: ErrInvalidInput, Details: fieldErrs}
	}
	return errs.Mark(err, ErrInvalidInput)
}
