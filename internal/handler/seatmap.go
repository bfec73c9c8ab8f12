package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/hall"
	"github.com/yaremchuk/theatre-boxoffice/internal/inventory"
	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// seatView is one seat cell of the seat map: everything the renderer
// needs to pick a color/class and a tooltip.
type seatView struct {
	Key      string           `json:"key"`
	Num      int              `json:"seat"`
	Status   model.SeatStatus `json:"status"`
	Price    int              `json:"price"`
	Selected bool             `json:"selected"`
	Subject  string           `json:"subject,omitempty"`
}

// rowView is one rendered row with its aisle position.
type rowView struct {
	Row        int        `json:"row"`
	AisleAfter int        `json:"aisle_after,omitempty"`
	Seats      []seatView `json:"seats"`
}

// boxView is one rendered box column.
type boxView struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Side  string     `json:"side,omitempty"`
	Seats []seatView `json:"seats"`
}

// SeatMap handles GET /v1/seances/:id/seatmap.  It returns the full hall
// grid — zones with rows and boxes — with current status, price and
// selection flag per seat, ready for the seat-map panel to render.
func (h *BoxOfficeHandler) SeatMap(c echo.Context) error {
	return h.withSession(c, func(s *inventory.Session) error {
		zones := map[model.Zone][]rowView{}
		for _, r := range h.layout.Hall.Rows {
			rv := rowView{Row: r.Row}
			if r.AisleAfter > 0 {
				rv.AisleAfter = r.AisleAfter
			} else if r.SeatsLeft > 0 {
				rv.AisleAfter = r.SeatsLeft
			}
			for n := 1; n <= r.SeatCount(); n++ {
				rv.Seats = append(rv.Seats, h.seatView(s, hall.Key(r.Zone, r.Row, n)))
			}
			zones[r.Zone] = append(zones[r.Zone], rv)
		}
		boxes := make([]boxView, 0, len(h.layout.Hall.Boxes))
		for _, b := range h.layout.Hall.Boxes {
			bv := boxView{ID: b.ID, Label: b.Label, Side: b.Side}
			for n := 1; n <= b.Seats; n++ {
				bv.Seats = append(bv.Seats, h.seatView(s, hall.BoxKey(b.ID, n)))
			}
			boxes = append(boxes, bv)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"hall":     h.layout.Hall.Name,
			"title":    s.Seance.Title,
			"datetime": s.Seance.Datetime,
			"parter":   zones[model.ZoneParter],
			"amphi":    zones[model.ZoneAmphi],
			"balcony":  zones[model.ZoneBalcony],
			"boxes":    boxes,
		})
	})
}

func (h *BoxOfficeHandler) seatView(s *inventory.Session, key model.SeatKey) seatView {
	seat, _ := h.layout.Resolve(key, s.Seance.Prices)
	v := seatView{
		Key:      key.String(),
		Num:      key.Num,
		Status:   s.Status(key),
		Price:    seat.Price,
		Selected: s.Selected(key),
	}
	if place, ok := s.Place(key); ok {
		v.Subject = place.Subject
	}
	return v
}
