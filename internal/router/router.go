package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/handler"
	"github.com/yaremchuk/theatre-boxoffice/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the cashier login endpoint.  The rate limit
// middleware guards it against password guessing; everything else about
// the session lives in the issued token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login, limit)
}

// RegisterBoxOffice registers the protected box-office API: seance
// catalog, seat map, basket and commit operations, the reservation
// registry and the export endpoints.  All routes require a valid access
// token.
func RegisterBoxOffice(e *echo.Echo, h *handler.BoxOfficeHandler, jwtSecret string) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	// Seance catalog
	v1.GET("/seances", h.ListSeances)

	// Seat map for the currently rendered seance
	v1.GET("/seances/:id/seatmap", h.SeatMap)

	// Basket staging and commit operations
	v1.GET("/seances/:id/basket", h.Basket)
	v1.POST("/seances/:id/basket/toggle", h.ToggleSeat)
	v1.DELETE("/seances/:id/basket", h.ClearBasket)
	v1.POST("/seances/:id/sell", h.CommitSell)
	v1.POST("/seances/:id/reserve", h.CommitReserve)
	v1.POST("/seances/:id/unreserve", h.CommitUnreserve)

	// Reservation registry panel and bulk actions
	v1.GET("/seances/:id/reservations", h.Reservations)
	v1.POST("/seances/:id/reservations/sell", h.SellReservation)
	v1.POST("/seances/:id/reservations/cancel", h.CancelReservation)

	// Accounting export and ticket printing
	v1.GET("/seances/:id/export.csv", h.ExportCSV)
	v1.GET("/seances/:id/tickets", h.Tickets)
}
