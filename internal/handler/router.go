package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"garage-booking/internal/domain/user"
	"garage-booking/internal/handler/api"
	"garage-booking/internal/handler/middleware"
	"garage-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking     *api.BookingHandler
	Appointment *api.AppointmentHandler
	Slot        *api.SlotHandler
}

type Middlewares struct {
	Auth        *middleware.AuthMiddleware
	Logger      *middleware.Logger
	BookingRate *middleware.RateLimiter
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, mw Middlewares) {
	setupMiddleware(engine, cfg, mw)
	setupRoutes(engine, h, mw)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, mw Middlewares) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(mw.Logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, mw Middlewares) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(mw.Auth.RequireAuth(), mw.Auth.RequireRoleAtLeast(user.RoleCustomer))
	{
		addRoutes(apiGroup.Group("/slots"), []route{
			{Method: http.MethodGet, Path: "/available", Handler: h.Slot.ListAvailable},
		})

		addRoutes(apiGroup.Group("/appointments"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Booking.Reserve, Mw: []gin.HandlerFunc{mw.BookingRate.Middleware()}},
			{Method: http.MethodGet, Path: "", Handler: h.Appointment.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Appointment.Get},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(mw.Auth.RequireRoleAtLeast(user.RoleStaff))
		addRoutes(admin, []route{
			{Method: http.MethodPost, Path: "/slots", Handler: h.Slot.Create},
			{Method: http.MethodGet, Path: "/slots", Handler: h.Slot.Calendar},
			{Method: http.MethodPost, Path: "/slots/:id/toggle", Handler: h.Slot.Toggle},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		default:
			g.Handle(r.Method, r.Path, h)
		}
	}
}

// chainHandlers stops at the first handler that aborts.
func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
