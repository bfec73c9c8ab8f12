package handler

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/hall"
	"github.com/yaremchuk/theatre-boxoffice/internal/inventory"
	"github.com/yaremchuk/theatre-boxoffice/internal/model"
	"github.com/yaremchuk/theatre-boxoffice/internal/oplog"
	"github.com/yaremchuk/theatre-boxoffice/internal/repository"
	queue_publisher "github.com/yaremchuk/theatre-boxoffice/internal/service"

	q "github.com/yaremchuk/theatre-boxoffice/internal/queue"
)

// BoxOfficeHandler owns the open seance sessions and serves every
// seat-map, basket, commit and registry endpoint.  Sessions are opened
// lazily on first access and kept for the lifetime of the process; a
// mutex serializes all access because the inventory core is deliberately
// not concurrent (single-cashier model, one writer per seance).
type BoxOfficeHandler struct {
	mu       sync.Mutex
	layout   *hall.Layout
	catalog  []model.SeanceMeta
	dataDir  string
	persist  repository.SeanceStore
	log      *oplog.Log
	sessions map[string]*inventory.Session
	publish  bool // fan commits out to the message queue
}

// NewBoxOfficeHandler wires the handler.  All dependencies must be
// non-nil; the catalog may be empty but not nil.
func NewBoxOfficeHandler(layout *hall.Layout, catalog []model.SeanceMeta, dataDir string, persist repository.SeanceStore, opLog *oplog.Log, publish bool) *BoxOfficeHandler {
	if layout == nil || persist == nil || opLog == nil {
		panic("nil dependency passed to NewBoxOfficeHandler")
	}
	return &BoxOfficeHandler{
		layout:   layout,
		catalog:  catalog,
		dataDir:  dataDir,
		persist:  persist,
		log:      opLog,
		sessions: make(map[string]*inventory.Session),
		publish:  publish,
	}
}

// ListSeances handles GET /v1/seances: the catalog of performances the
// cashier can open.
func (h *BoxOfficeHandler) ListSeances(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.catalog})
}

// meta finds a catalog entry by seance id.
func (h *BoxOfficeHandler) meta(id string) (model.SeanceMeta, bool) {
	for _, m := range h.catalog {
		if m.ID == id {
			return m, true
		}
	}
	return model.SeanceMeta{}, false
}

// session returns the open session for a seance, opening it on first
// access.  Callers must hold h.mu.
func (h *BoxOfficeHandler) session(ctx context.Context, id string) (*inventory.Session, error) {
	if s, ok := h.sessions[id]; ok {
		return s, nil
	}
	meta, ok := h.meta(id)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown seance")
	}
	seance, err := hall.LoadSeance(h.dataDir, meta)
	if err != nil {
		return nil, err
	}
	s, err := inventory.OpenSession(ctx, meta, seance, h.layout, h.persist,
		inventory.WithNotifier(h.onCommit))
	if err != nil {
		return nil, err
	}
	h.sessions[id] = s
	return s, nil
}

// withSession resolves the :id path parameter to an open session and runs
// fn under the handler lock.
func (h *BoxOfficeHandler) withSession(c echo.Context, fn func(s *inventory.Session) error) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seance id is required"})
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.session(c.Request().Context(), id)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return c.JSON(he.Code, echo.Map{"error": he.Message})
		}
		log.Printf("seance %s: open failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to open seance"})
	}
	return fn(s)
}

// onCommit records every committed action in the operation log and fans
// it out to the message queue.  Publishing is best-effort: the publisher
// logs its own failures and the commit is already durable by the time
// this runs.
func (h *BoxOfficeHandler) onCommit(action inventory.Action, seanceID string, seats []model.Seat, subject, channel string) {
	labels := make([]string, 0, len(seats))
	amount := 0
	for _, s := range seats {
		labels = append(labels, s.KeyString)
		amount += s.Price
	}
	entry := h.log.Append(string(action), seanceID, subject, channel, labels, amount, time.Now().UTC())
	if !h.publish {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishSeatsCommitted(ctx, q.SeatsCommittedEvent{
			SeanceID:    seanceID,
			Action:      string(action),
			Subject:     subject,
			Channel:     channel,
			SeatLabels:  labels,
			SeatCount:   len(labels),
			TotalAmount: amount,
			CommittedAt: entry.At.Format(time.RFC3339),
		})
	}()
}
