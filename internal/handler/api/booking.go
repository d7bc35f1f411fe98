package api

import (
	"net/http"
	"strconv"
	"time"

	reqdto "garage-booking/internal/handler/dto/request"
	resdto "garage-booking/internal/handler/dto/response"
	"garage-booking/internal/handler/httperr"
	"garage-booking/internal/handler/middleware"
	"garage-booking/internal/pkg/config"
	"garage-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds       commands.BookingCommands
	retryAfter time.Duration
}

func NewBookingHandler(cmds commands.BookingCommands, cfg config.Config) *BookingHandler {
	return &BookingHandler{cmds: cmds, retryAfter: cfg.Booking.RetryAfter}
}

// @Summary Reserve appointment
// @Description Reserve a slot for a vehicle and service. The slot is locked for the duration of the booking.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReserveAppointmentRequest true "Booking form"
// @Success 201 {object} resdto.AppointmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /appointments [post]
func (h *BookingHandler) Reserve(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.ReserveAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.Reserve(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		abortWithCommandError(c, err, req.Form(), h.retryAfter)
		return
	}

	c.Header("Location", "/api/appointments/"+strconv.FormatInt(view.ID, 10))
	c.JSON(http.StatusCreated, resdto.FromAppointmentView(view))
}
