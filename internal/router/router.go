package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
)

// Handlers bundles every handler the router wires up.  Keeping them in
// one struct saves main.go from a parameter list that grows with each
// new resource.
type Handlers struct {
	Auth          *handler.AuthHandler
	Reservations  *handler.ReservationHandler
	Orders        *handler.OrderHandler
	Tables        *handler.TableHandler
	Menu          *handler.MenuHandler
	Notifications *handler.NotificationHandler
	Feedback      *handler.FeedbackHandler
}

// Register mounts all routes on the provided Echo instance.  Guest
// endpoints (booking, ordering, browsing) are public with rate
// limiting on the creation paths; everything that mutates inventory
// or reads the admin feed sits behind AdminAuth.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rl config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.POST("/v1/auth/login", h.Auth.Login)

	limited := middleware.RateLimit(rl, rdb)

	// Guest-facing reservation endpoints.
	e.POST("/v1/reservations", h.Reservations.Create, limited)
	e.GET("/v1/reservations/slots", h.Reservations.BookedSlots)
	e.GET("/v1/reservations/:id", h.Reservations.Get)

	// Guest-facing ordering and browsing.
	e.POST("/v1/orders", h.Orders.Create, limited)
	e.GET("/v1/orders/:id", h.Orders.Get)
	e.GET("/v1/tables", h.Tables.List)
	e.GET("/v1/menu", h.Menu.List)
	e.POST("/v1/feedback", h.Feedback.Create, limited)

	// Admin endpoints.
	admin := e.Group("/v1", middleware.AdminAuth(cfg.JWTSecret))
	admin.GET("/reservations", h.Reservations.List)
	admin.POST("/reservations/sweep", h.Reservations.Sweep)
	admin.GET("/orders", h.Orders.List)
	admin.PUT("/orders/:id/status", h.Orders.UpdateStatus)
	admin.POST("/tables", h.Tables.Create)
	admin.PUT("/tables/:id", h.Tables.Update)
	admin.DELETE("/tables/:id", h.Tables.Delete)
	admin.POST("/menu", h.Menu.Create)
	admin.PUT("/menu/:id", h.Menu.Update)
	admin.DELETE("/menu/:id", h.Menu.Delete)
	admin.GET("/notifications", h.Notifications.List)
	admin.PUT("/notifications/:id/read", h.Notifications.MarkRead)
	admin.GET("/feedback", h.Feedback.List)
}
