package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/inventory"
	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// ticketTmpl renders one printable page per sold seat.  The markup is
// intentionally minimal: the kiosk printer stylesheet lives client-side.
var ticketTmpl = template.Must(template.New("tickets").Parse(`<!DOCTYPE html>
<html lang="uk">
<head><meta charset="utf-8"><title>Квитки</title></head>
<body>
{{- range .Tickets }}
<div class="ticket">
  <div class="ticket-hall">{{ $.Hall }}</div>
  <div class="ticket-show">{{ $.Title }}</div>
  <div class="ticket-time">{{ $.Datetime }}</div>
  <div class="ticket-place">{{ .ZoneLabel }}, {{ .RowLabel }}, місце {{ .Num }}</div>
  <div class="ticket-price">{{ .Price }} грн</div>
</div>
{{- end }}
</body>
</html>
`))

// Tickets handles GET /v1/seances/:id/tickets?key=...&key=...  It renders
// printable ticket HTML for the requested seats.  Only seats whose ledger
// status is sold produce a ticket; anything else is skipped, so a stale
// print request cannot mint tickets for unsold seats.
func (h *BoxOfficeHandler) Tickets(c echo.Context) error {
	rawKeys := c.QueryParams()["key"]
	if len(rawKeys) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat key is required"})
	}
	return h.withSession(c, func(s *inventory.Session) error {
		var tickets []model.Seat
		for _, raw := range rawKeys {
			key, err := model.ParseSeatKey(raw)
			if err != nil {
				continue
			}
			if s.Status(key) != model.StatusSold {
				continue
			}
			seat, ok := h.layout.Resolve(key, s.Seance.Prices)
			if !ok {
				continue
			}
			if place, ok := s.Place(key); ok && place.Price > 0 {
				seat.Price = place.Price
			}
			tickets = append(tickets, seat)
		}
		var buf bytes.Buffer
		err := ticketTmpl.Execute(&buf, echo.Map{
			"Hall":     h.layout.Hall.Name,
			"Title":    s.Seance.Title,
			"Datetime": s.Seance.Datetime,
			"Tickets":  tickets,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render tickets"})
		}
		return c.HTML(http.StatusOK, buf.String())
	})
}
