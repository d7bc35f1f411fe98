package components

import (
	"garage-booking/internal/handler"
	"garage-booking/internal/handler/api"
	"garage-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewAppointmentHandler,
		api.NewSlotHandler,
		middleware.NewAuthMiddleware,
		func(b *api.BookingHandler, a *api.AppointmentHandler, s *api.SlotHandler) handler.Handlers {
			return handler.Handlers{Booking: b, Appointment: a, Slot: s}
		},
		func(auth *middleware.AuthMiddleware, logger *middleware.Logger, rl *middleware.RateLimiter) handler.Middlewares {
			return handler.Middlewares{Auth: auth, Logger: logger, BookingRate: rl}
		},
	),
	fx.Invoke(handler.NewRouter),
)
