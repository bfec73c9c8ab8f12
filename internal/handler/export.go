package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/inventory"
)

// ExportCSV handles GET /v1/seances/:id/export.csv.  It streams the
// operation log for the seance — every committed sell/reserve/unreserve —
// as a CSV attachment for the accounting side.
func (h *BoxOfficeHandler) ExportCSV(c echo.Context) error {
	return h.withSession(c, func(s *inventory.Session) error {
		var buf bytes.Buffer
		if err := h.log.WriteCSV(&buf, s.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build export"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+s.ID+`.csv"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	})
}
