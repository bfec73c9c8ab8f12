// Package inventory implements the box-office core: the authoritative seat
// status ledger, the cashier basket, the reservation registry and the
// session controller that routes every mutation through the commit
// operations.  Nothing in this package touches HTTP or rendering.
package inventory

import (
	"fmt"
	"time"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// Meta carries the optional metadata written alongside a status change.
type Meta struct {
	Subject string
	Channel string
	Price   int
	At      time.Time
}

// Store is the authoritative map from seat key to persisted place record
// for one seance.  It is a dumb ledger by design: writes are unconditional
// and transition legality is enforced by the commit operations in the
// session, not here.  Absence of a record means the seat is free.
type Store struct {
	places map[model.SeatKey]model.Place
}

// NewStore returns an empty ledger: every seat free.
func NewStore() *Store {
	return &Store{places: make(map[model.SeatKey]model.Place)}
}

// Status returns the persisted status for a key, free when no record
// exists.
func (s *Store) Status(key model.SeatKey) model.SeatStatus {
	if p, ok := s.places[key]; ok {
		return p.Status
	}
	return model.StatusFree
}

// Place returns the full record for a key.  The second return is false
// when the seat has no record (i.e. it is free).
func (s *Store) Place(key model.SeatKey) (model.Place, bool) {
	p, ok := s.places[key]
	return p, ok
}

// SetStatus writes a record unconditionally.  Setting StatusFree deletes
// the record and strips all metadata, keeping the ledger sparse.
func (s *Store) SetStatus(key model.SeatKey, status model.SeatStatus, meta Meta) {
	if status == model.StatusFree {
		delete(s.places, key)
		return
	}
	s.places[key] = model.Place{
		Status:    status,
		Subject:   meta.Subject,
		Channel:   meta.Channel,
		Price:     meta.Price,
		UpdatedAt: meta.At,
	}
}

// BulkSetStatus applies one status to many keys.  The status is validated
// before the first write, so other components never observe a partial
// application of an invalid request.
func (s *Store) BulkSetStatus(keys []model.SeatKey, status model.SeatStatus, meta Meta) error {
	if !status.Valid() {
		return fmt.Errorf("invalid seat status %q", status)
	}
	for _, k := range keys {
		s.SetStatus(k, status, meta)
	}
	return nil
}

// ReservedKeys lists every key currently marked reserved.  Used by the
// reconciliation step to rebuild registry entries from the authoritative
// ledger.
func (s *Store) ReservedKeys() []model.SeatKey {
	var keys []model.SeatKey
	for k, p := range s.places {
		if p.Status == model.StatusReserved {
			keys = append(keys, k)
		}
	}
	return keys
}

// Snapshot encodes the ledger into the persisted string-keyed form.
func (s *Store) Snapshot() map[string]model.Place {
	out := make(map[string]model.Place, len(s.places))
	for k, p := range s.places {
		out[k.String()] = p
	}
	return out
}

// Restore replaces the ledger with a persisted snapshot.  Records with an
// unparseable key or status are rejected: a corrupt document must not be
// half-loaded into an otherwise consistent session.
func (s *Store) Restore(snapshot map[string]model.Place) error {
	places := make(map[model.SeatKey]model.Place, len(snapshot))
	for raw, p := range snapshot {
		key, err := model.ParseSeatKey(raw)
		if err != nil {
			return err
		}
		if !p.Status.Valid() {
			return fmt.Errorf("seat %s: invalid status %q", raw, p.Status)
		}
		if p.Status == model.StatusFree {
			continue // free seats are represented by absence
		}
		places[key] = p
	}
	s.places = places
	return nil
}
