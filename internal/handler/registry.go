package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/inventory"
	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// Reservations handles GET /v1/seances/:id/reservations: the registry
// panel listing, recomputed from live state on every call.
func (h *BoxOfficeHandler) Reservations(c echo.Context) error {
	return h.withSession(c, func(s *inventory.Session) error {
		items := make([]model.Reservation, 0)
		for res := range s.Reservations() {
			items = append(items, res)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"items": items,
			"count": len(items),
		})
	})
}

// reservationRef binds the body of registry bulk actions.  Either field
// selects the group; id wins when both are present.
type reservationRef struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Channel string `json:"channel,omitempty"`
}

func (r reservationRef) key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Subject
}

// SellReservation handles POST /v1/seances/:id/reservations/sell.  It
// sells every seat of the referenced reservation in one step and returns
// them as a single batch for printing.
func (h *BoxOfficeHandler) SellReservation(c echo.Context) error {
	var body reservationRef
	if err := c.Bind(&body); err != nil || body.key() == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation id or subject is required"})
	}
	return h.withSession(c, func(s *inventory.Session) error {
		seats, err := s.SellReservation(c.Request().Context(), body.key(), body.Channel)
		if err != nil {
			return h.commitError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"sold":  seats,
			"count": len(seats),
			"total": seatTotal(seats),
		})
	})
}

// CancelReservation handles POST /v1/seances/:id/reservations/cancel.
// Every seat of the referenced reservation returns to free and the entry
// leaves the registry.
func (h *BoxOfficeHandler) CancelReservation(c echo.Context) error {
	var body reservationRef
	if err := c.Bind(&body); err != nil || body.key() == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation id or subject is required"})
	}
	return h.withSession(c, func(s *inventory.Session) error {
		seats, err := s.CancelReservation(c.Request().Context(), body.key())
		if err != nil {
			return h.commitError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"freed": seats,
			"count": len(seats),
		})
	})
}
