package inventory

import (
	"context"
	"errors"
	"iter"
	"log"
	"strings"
	"time"

	"github.com/yaremchuk/theatre-boxoffice/internal/hall"
	"github.com/yaremchuk/theatre-boxoffice/internal/model"
	"github.com/yaremchuk/theatre-boxoffice/internal/repository"
)

// Guard failures reported by the commit operations.  They are ordinary
// preconditions, not fatal conditions: callers surface them and the
// session state stays exactly as it was.
var (
	ErrEmptyBasket         = errors.New("basket is empty")
	ErrSubjectRequired     = errors.New("reservation subject is required")
	ErrReservationNotFound = errors.New("reservation not found")
)

// Action names a committed operation for the operation log and event
// stream.  Registry bulk actions reuse the same names as their basket
// equivalents.
type Action string

const (
	ActionSell      Action = "sell"
	ActionReserve   Action = "reserve"
	ActionUnreserve Action = "unreserve"
)

// CommitNotifier observes committed actions.  The session calls it after
// the ledger and registry have been mutated and persisted; the notifier
// must never fail the commit (audit fan-out is best-effort by contract).
type CommitNotifier func(action Action, seanceID string, seats []model.Seat, subject, channel string)

// Session owns all mutable box-office state for one open seance: the seat
// ledger, the cashier basket and the reservation registry.  Every mutation
// goes through the commit operations; nothing else writes the ledger.
// Sessions are not safe for concurrent use — the handler layer serializes
// access, matching the single-cashier model.
type Session struct {
	ID     string
	Meta   model.SeanceMeta
	Seance *model.Seance

	layout   *hall.Layout
	store    *Store
	basket   *Basket
	registry *Registry
	persist  repository.SeanceStore
	notify   CommitNotifier
	now      func() time.Time
}

// SessionOption customizes a session at construction time.
type SessionOption func(*Session)

// WithNotifier attaches a commit observer.
func WithNotifier(n CommitNotifier) SessionOption {
	return func(s *Session) { s.notify = n }
}

// WithClock overrides the session clock.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// OpenSession loads (or seeds) the persisted state for a seance and
// returns a ready session.  When no state was ever saved, the ledger is
// seeded from the seance configuration's pre-set places — that is how
// blocked and inactive seats enter the ledger, since no cashier action can
// produce them.  After load the registry is reconciled against the ledger.
func OpenSession(ctx context.Context, meta model.SeanceMeta, seance *model.Seance, layout *hall.Layout, persist repository.SeanceStore, opts ...SessionOption) (*Session, error) {
	s := &Session{
		ID:       meta.ID,
		Meta:     meta,
		Seance:   seance,
		layout:   layout,
		store:    NewStore(),
		basket:   NewBasket(),
		registry: NewRegistry(),
		persist:  persist,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := persist.Load(ctx, meta.ID)
	switch {
	case errors.Is(err, repository.ErrSeanceStateNotFound):
		if err := s.seed(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := s.store.Restore(state.SeatStatuses); err != nil {
			return nil, err
		}
		if err := s.registry.Restore(state.Reservations); err != nil {
			return nil, err
		}
	}
	s.reconcile()
	return s, nil
}

// seed applies the seance configuration's pre-set places to a fresh
// ledger.  Keys outside the layout are rejected: a typo in configuration
// must not silently create phantom seats.
func (s *Session) seed() error {
	for raw, place := range s.Seance.Places {
		key, err := model.ParseSeatKey(raw)
		if err != nil {
			return err
		}
		if !s.layout.Contains(key) {
			log.Printf("seance %s: configured place %s is not in the hall layout, skipping", s.ID, raw)
			continue
		}
		s.store.SetStatus(key, place.Status, Meta{
			Subject: place.Subject,
			Channel: place.Channel,
			Price:   place.Price,
			At:      s.now(),
		})
	}
	return nil
}

// reconcile restores the registry/ledger invariant after a load.  The
// ledger is authoritative: reservation entries drop seats that are no
// longer marked reserved, empty entries disappear, and reserved seats
// missing from every entry are regrouped under the subject recorded in
// their place metadata.
func (s *Session) reconcile() {
	// Drop reservation seats the ledger no longer marks reserved.
	var stale []model.SeatKey
	for res := range s.registry.All() {
		for _, seat := range res.Seats {
			if s.store.Status(seat.Key) != model.StatusReserved {
				stale = append(stale, seat.Key)
			}
		}
	}
	s.registry.RemoveSeats(stale)

	// Re-home reserved seats that no reservation references.
	covered := make(map[model.SeatKey]struct{})
	for res := range s.registry.All() {
		for _, seat := range res.Seats {
			covered[seat.Key] = struct{}{}
		}
	}
	for _, key := range s.store.ReservedKeys() {
		if _, ok := covered[key]; ok {
			continue
		}
		seat, ok := s.layout.Resolve(key, s.Seance.Prices)
		if !ok {
			continue
		}
		place, _ := s.store.Place(key)
		if place.Price > 0 {
			seat.Price = place.Price
		}
		subject := place.Subject
		if subject == "" {
			subject = "невідомо"
		}
		s.registry.Add(subject, []model.Seat{seat}, s.now())
	}
}

// Status returns the persisted status of a seat.
func (s *Session) Status(key model.SeatKey) model.SeatStatus {
	return s.store.Status(key)
}

// Place exposes the full persisted record for seat-map rendering.
func (s *Session) Place(key model.SeatKey) (model.Place, bool) {
	return s.store.Place(key)
}

// Selected reports whether the seat currently sits in the basket.
func (s *Session) Selected(key model.SeatKey) bool {
	return s.basket.Contains(key)
}

// BasketSeats returns the staged snapshots in display order.
func (s *Session) BasketSeats() []model.Seat { return s.basket.Items() }

// BasketTotal returns the running basket total.
func (s *Session) BasketTotal() int { return s.basket.Total() }

// Reservations returns a lazy sequence over the current registry entries.
func (s *Session) Reservations() iter.Seq[model.Reservation] {
	return s.registry.All()
}

// Toggle stages or unstages a seat.  Sold, blocked and inactive seats are
// a guarded no-op (ok=false): they can never enter the basket.  Keys
// outside the hall layout are equally refused.  Toggling twice returns the
// basket and the ledger to their previous state with no side effects.
func (s *Session) Toggle(key model.SeatKey) (selected bool, ok bool) {
	if !s.layout.Contains(key) {
		return false, false
	}
	if !s.store.Status(key).Sellable() {
		return false, false
	}
	if s.basket.Contains(key) {
		s.basket.Remove(key)
		return false, true
	}
	seat, _ := s.layout.Resolve(key, s.Seance.Prices)
	s.basket.Add(seat)
	return true, true
}

// ClearBasket empties the basket without touching persisted status.
func (s *Session) ClearBasket() { s.basket.Clear() }

// CommitSell marks every staged seat as sold on the given channel,
// removes the sold seats from whatever reservations held them (deleting
// entries that become empty) and clears the basket.  Staged seats whose
// ledger status went terminal under a stale basket are skipped rather than
// corrupted.  Returns the seats actually sold, for ticket printing.
func (s *Session) CommitSell(ctx context.Context, channel string) ([]model.Seat, error) {
	if s.basket.Len() == 0 {
		return nil, ErrEmptyBasket
	}
	if channel == "" {
		channel = "boxoffice"
	}
	affected := s.sellableBasketSeats()
	keys := seatKeys(affected)
	now := s.now()
	for _, seat := range affected {
		s.store.SetStatus(seat.Key, model.StatusSold, Meta{Channel: channel, Price: seat.Price, At: now})
	}
	s.registry.RemoveSeats(keys)
	s.basket.Clear()
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.fire(ActionSell, affected, "", channel)
	return affected, nil
}

// CommitReserve puts every staged seat on hold for the given subject and
// merges the seats into the subject's reservation.  An empty subject
// aborts the operation with the basket left untouched, so the cashier can
// re-enter the name and commit again.
func (s *Session) CommitReserve(ctx context.Context, subject string) ([]model.Seat, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	if s.basket.Len() == 0 {
		return nil, ErrEmptyBasket
	}
	affected := s.sellableBasketSeats()
	keys := seatKeys(affected)
	now := s.now()
	for _, seat := range affected {
		s.store.SetStatus(seat.Key, model.StatusReserved, Meta{Subject: subject, Price: seat.Price, At: now})
	}
	// A seat that was already reserved changes hands here: strip it from
	// its previous reservation before merging it under the new subject, or
	// it would be listed twice.
	s.registry.RemoveSeats(keys)
	if len(affected) > 0 {
		s.registry.Add(subject, affected, now)
	}
	s.basket.Clear()
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.fire(ActionReserve, affected, subject, "")
	return affected, nil
}

// CommitUnreserve frees every staged seat whose persisted status is
// exactly reserved; anything else in the basket is silently skipped.  The
// freed seats leave their reservations, totals are recomputed and empty
// reservations disappear.
func (s *Session) CommitUnreserve(ctx context.Context) ([]model.Seat, error) {
	if s.basket.Len() == 0 {
		return nil, ErrEmptyBasket
	}
	var affected []model.Seat
	for _, seat := range s.basket.Items() {
		if s.store.Status(seat.Key) == model.StatusReserved {
			affected = append(affected, seat)
		}
	}
	keys := seatKeys(affected)
	for _, k := range keys {
		s.store.SetStatus(k, model.StatusFree, Meta{})
	}
	s.registry.RemoveSeats(keys)
	s.basket.Clear()
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.fire(ActionUnreserve, affected, "", "")
	return affected, nil
}

// SellReservation sells every seat of the reservation identified by id or
// subject in one step, without rebuilding a basket.  The seat list is
// re-derived from the ledger (only seats still marked reserved are sold)
// so a drifted registry entry self-heals instead of corrupting the
// ledger.  Returns the sold seats for a single batched print job.
func (s *Session) SellReservation(ctx context.Context, idOrSubject, channel string) ([]model.Seat, error) {
	res := s.registry.Find(idOrSubject)
	if res == nil {
		return nil, ErrReservationNotFound
	}
	if channel == "" {
		channel = "boxoffice"
	}
	affected := s.reservedSeatsOf(res)
	now := s.now()
	for _, seat := range affected {
		s.store.SetStatus(seat.Key, model.StatusSold, Meta{Channel: channel, Price: seat.Price, At: now})
	}
	s.registry.Remove(res.ID)
	s.basket.Clear()
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.fire(ActionSell, affected, res.Subject, channel)
	return affected, nil
}

// CancelReservation frees every seat of the reservation identified by id
// or subject and removes the entry from the registry.
func (s *Session) CancelReservation(ctx context.Context, idOrSubject string) ([]model.Seat, error) {
	res := s.registry.Find(idOrSubject)
	if res == nil {
		return nil, ErrReservationNotFound
	}
	affected := s.reservedSeatsOf(res)
	for _, seat := range affected {
		s.store.SetStatus(seat.Key, model.StatusFree, Meta{})
	}
	s.registry.Remove(res.ID)
	s.basket.Clear()
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	s.fire(ActionUnreserve, affected, res.Subject, "")
	return affected, nil
}

// Save persists the current ledger and registry.  Exposed for the handler
// layer; commits call it internally.
func (s *Session) Save(ctx context.Context) error { return s.save(ctx) }

func (s *Session) save(ctx context.Context) error {
	state := &repository.SeanceState{
		SeatStatuses: s.store.Snapshot(),
		Reservations: s.registry.Snapshot(),
	}
	return s.persist.Save(ctx, s.ID, state)
}

// sellableBasketSeats filters the basket down to seats whose ledger
// status still permits a commit.  A stale basket entry for a seat that
// went sold or blocked since selection is skipped, per the tie-break
// policy, and the commit continues with the rest.
func (s *Session) sellableBasketSeats() []model.Seat {
	var out []model.Seat
	for _, seat := range s.basket.Items() {
		if s.store.Status(seat.Key).Sellable() {
			out = append(out, seat)
		}
	}
	return out
}

// reservedSeatsOf re-derives a reservation's effective seats from the
// ledger.
func (s *Session) reservedSeatsOf(res *model.Reservation) []model.Seat {
	var out []model.Seat
	for _, seat := range res.Seats {
		if s.store.Status(seat.Key) == model.StatusReserved {
			out = append(out, seat)
		}
	}
	return out
}

func (s *Session) fire(action Action, seats []model.Seat, subject, channel string) {
	if s.notify == nil || len(seats) == 0 {
		return
	}
	s.notify(action, s.ID, seats, subject, channel)
}

func seatKeys(seats []model.Seat) []model.SeatKey {
	keys := make([]model.SeatKey, 0, len(seats))
	for _, s := range seats {
		keys = append(keys, s.Key)
	}
	return keys
}
