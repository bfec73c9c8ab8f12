package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/inventory"
	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// Basket handles GET /v1/seances/:id/basket: the staged seats and the
// running total for the basket panel.
func (h *BoxOfficeHandler) Basket(c echo.Context) error {
	return h.withSession(c, func(s *inventory.Session) error {
		return c.JSON(http.StatusOK, echo.Map{
			"items": s.BasketSeats(),
			"count": len(s.BasketSeats()),
			"total": s.BasketTotal(),
		})
	})
}

// ToggleSeat handles POST /v1/seances/:id/basket/toggle.  The body
// carries the encoded seat key.  Toggling a sold, blocked or inactive
// seat is a guarded no-op reported with selected=false, ok=false — not an
// error, matching how the seat map simply ignores such clicks.
func (h *BoxOfficeHandler) ToggleSeat(c echo.Context) error {
	var body struct {
		Key string `json:"key"`
	}
	if err := c.Bind(&body); err != nil || body.Key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat key is required"})
	}
	key, err := model.ParseSeatKey(body.Key)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat key"})
	}
	return h.withSession(c, func(s *inventory.Session) error {
		selected, ok := s.Toggle(key)
		return c.JSON(http.StatusOK, echo.Map{
			"ok":       ok,
			"selected": selected,
			"count":    len(s.BasketSeats()),
			"total":    s.BasketTotal(),
		})
	})
}

// ClearBasket handles DELETE /v1/seances/:id/basket.  It empties the
// basket without touching persisted seat status.
func (h *BoxOfficeHandler) ClearBasket(c echo.Context) error {
	return h.withSession(c, func(s *inventory.Session) error {
		s.ClearBasket()
		return c.NoContent(http.StatusNoContent)
	})
}

// CommitSell handles POST /v1/seances/:id/sell.  The optional body field
// "channel" tags the sale (default "boxoffice").  On success the sold
// seats are returned so the client can trigger ticket printing.
func (h *BoxOfficeHandler) CommitSell(c echo.Context) error {
	var body struct {
		Channel string `json:"channel"`
	}
	_ = c.Bind(&body) // empty body is fine, channel defaults
	return h.withSession(c, func(s *inventory.Session) error {
		seats, err := s.CommitSell(c.Request().Context(), body.Channel)
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

// CommitReserve handles POST /v1/seances/:id/reserve.  The body must
// carry a non-empty "subject" — a reservation has to be attributable to a
// person or organization.  A missing subject aborts with 400 and the
// basket untouched so the cashier can re-enter the name.
func (h *BoxOfficeHandler) CommitReserve(c echo.Context) error {
	var body struct {
		Subject string `json:"subject"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	return h.withSession(c, func(s *inventory.Session) error {
		seats, err := s.CommitReserve(c.Request().Context(), body.Subject)
		if err != nil {
			return h.commitError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"reserved": seats,
			"count":    len(seats),
			"total":    seatTotal(seats),
			"subject":  body.Subject,
		})
	})
}

// CommitUnreserve handles POST /v1/seances/:id/unreserve.  Staged seats
// that are currently reserved become free; anything else in the basket is
// silently skipped.
func (h *BoxOfficeHandler) CommitUnreserve(c echo.Context) error {
	return h.withSession(c, func(s *inventory.Session) error {
		seats, err := s.CommitUnreserve(c.Request().Context())
		if err != nil {
			return h.commitError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"freed": seats,
			"count": len(seats),
		})
	})
}

// commitError maps inventory guard failures to 4xx responses and
// everything else (persistence errors) to 500.  Guard failures carry an
// empty seat list by contract.
func (h *BoxOfficeHandler) commitError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, inventory.ErrEmptyBasket):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "basket is empty", "seats": []model.Seat{}})
	case errors.Is(err, inventory.ErrSubjectRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject is required", "seats": []model.Seat{}})
	case errors.Is(err, inventory.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist seance state"})
	}
}

func seatTotal(seats []model.Seat) int {
	total := 0
	for _, s := range seats {
		total += s.Price
	}
	return total
}
