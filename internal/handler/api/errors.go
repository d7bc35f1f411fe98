package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"garage-booking/internal/handler/httperr"
	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type commandFailure struct {
	target error
	status int
	reason string
}

// order matters: the first matching entry wins
var commandFailures = []commandFailure{
	{commands.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{commands.ErrInvalidSlotWindow, http.StatusBadRequest, "invalid_slot_window"},
	{commands.ErrSlotNotFound, http.StatusUnprocessableEntity, "slot_not_found"},
	{commands.ErrStaleSelection, http.StatusUnprocessableEntity, "stale_selection"},
	{commands.ErrVehicleNotOwned, http.StatusUnprocessableEntity, "vehicle_not_owned"},
	{commands.ErrServiceUnavailable, http.StatusUnprocessableEntity, "service_unavailable"},
	{commands.ErrSlotUnavailable, http.StatusConflict, "slot_unavailable"},
	{commands.ErrSlotAlreadyExists, http.StatusConflict, "slot_already_exists"},
	{commands.ErrSlotLockTimeout, http.StatusServiceUnavailable, "slot_busy"},
}

// abortWithCommandError renders a field-attached command failure together with the submitted form.
func abortWithCommandError(c *gin.Context, err error, form map[string]any, retryAfter time.Duration) {
	var fe *commands.FieldError
	if !errs.As(err, &fe) {
		if errs.Is(err, commands.ErrInvalidInput) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, commands.ErrInvalidInput.Error(), nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	for _, f := range commandFailures {
		if !errs.Is(fe.Reason, f.target) {
			continue
		}
		if f.status == http.StatusServiceUnavailable {
			c.Header("Retry-After", retryAfterSeconds(retryAfter))
		}
		httperr.AbortWithError(c, f.status, err, fe.Reason.Error(), httperr.FieldDetail{
			Field:  fe.Field,
			Reason: f.reason,
			Form:   form,
			Errors: fe.Details,
		})
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
