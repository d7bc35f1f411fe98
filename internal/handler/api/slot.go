package api

import (
	"net/http"
	"time"

	reqdto "garage-booking/internal/handler/dto/request"
	resdto "garage-booking/internal/handler/dto/response"
	"garage-booking/internal/handler/httperr"
	"garage-booking/internal/handler/middleware"
	"garage-booking/internal/pkg/config"
	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/usecase/commands"
	"garage-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	cmds       commands.SlotCommands
	q          queries.SlotQueries
	retryAfter time.Duration
}

func NewSlotHandler(cmds commands.SlotCommands, q queries.SlotQueries, cfg config.Config) *SlotHandler {
	return &SlotHandler{cmds: cmds, q: q, retryAfter: cfg.Booking.RetryAfter}
}

// @Summary List available slots
// @Description Unbooked slots of a date ordered by start time. Always read from the store.
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailableSlotsResponse
// @Failure 400 {object} httperr.Response
// @Router /slots/available [get]
func (h *SlotHandler) ListAvailable(c *gin.Context) {
	date := c.Query("date")
	views, err := h.q.ListAvailable(c.Request.Context(), date)
	if err != nil {
		h.abortWithQueryError(c, err, "date")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, resdto.FromAvailableSlots(date, views))
}

// @Summary Slot calendar
// @Description All slots between two dates with their booking status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/slots [get]
func (h *SlotHandler) Calendar(c *gin.Context) {
	views, err := h.q.Calendar(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		h.abortWithQueryError(c, err, "from")
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}

// @Summary Create slot
// @Description Open a new bookable slot
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Slot window"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/slots [post]
func (h *SlotHandler) Create(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), actorID, req.ToInput())
	if err != nil {
		abortWithCommandError(c, err, req.Form(), h.retryAfter)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSlotView(view))
}

// @Summary Toggle slot status
// @Description Flip a slot between available and booked. Releasing a booked slot cancels its appointment.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} resdto.ToggleSlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /admin/slots/{id}/toggle [post]
func (h *SlotHandler) Toggle(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	result, err := h.cmds.Toggle(c.Request.Context(), id)
	if err != nil {
		abortWithCommandError(c, err, map[string]any{"slot_id": id}, h.retryAfter)
		return
	}
	c.JSON(http.StatusOK, resdto.FromToggleResult(result))
}

func (h *SlotHandler) abortWithQueryError(c *gin.Context, err error, field string) {
	switch {
	case errs.Is(err, queries.ErrInvalidDate):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), httperr.FieldDetail{Field: field, Reason: "invalid_date"})
	case errs.Is(err, queries.ErrInvalidRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), httperr.FieldDetail{Field: "to", Reason: "invalid_range"})
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
