package inventory

import (
	"crypto/rand"
	"encoding/hex"
	"iter"
	"time"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// Registry groups reserved seats by subject.  It is a secondary index over
// the ledger: every seat marked reserved belongs to exactly one
// reservation, and the session reconciles any drift on load.  Reservations
// are merged by subject, so a subject owns at most one open entry.
type Registry struct {
	list []*model.Reservation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// newReservationID returns a random 16-char hex id.  Collisions within a
// single seance are not a realistic concern at this entropy.
func newReservationID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble;
		// fall back to a timestamp id rather than crash mid-session.
		return "res-" + hex.EncodeToString([]byte(time.Now().UTC().Format("150405.000000")))
	}
	return hex.EncodeToString(buf)
}

// ByID returns the reservation with the given id, nil when absent.
func (r *Registry) ByID(id string) *model.Reservation {
	for _, res := range r.list {
		if res.ID == id {
			return res
		}
	}
	return nil
}

// BySubject returns the open reservation for a subject, nil when absent.
func (r *Registry) BySubject(subject string) *model.Reservation {
	for _, res := range r.list {
		if res.Subject == subject {
			return res
		}
	}
	return nil
}

// Find looks a reservation up by id first, then by subject.  Registry
// panel actions may send either.
func (r *Registry) Find(idOrSubject string) *model.Reservation {
	if res := r.ByID(idOrSubject); res != nil {
		return res
	}
	return r.BySubject(idOrSubject)
}

// Add records newly reserved seats under a subject.  An existing
// reservation for the subject absorbs the seats (deduplicated by key) and
// recomputes its total; otherwise a new entry is created.
func (r *Registry) Add(subject string, seats []model.Seat, now time.Time) *model.Reservation {
	res := r.BySubject(subject)
	if res == nil {
		res = &model.Reservation{
			ID:        newReservationID(),
			Subject:   subject,
			CreatedAt: now,
		}
		r.list = append(r.list, res)
	}
	absorb(res, seats)
	return res
}

// absorb merges seats into a reservation, deduplicating by key, and
// recomputes the total.
func absorb(res *model.Reservation, seats []model.Seat) {
	have := make(map[model.SeatKey]struct{}, len(res.Seats))
	for _, s := range res.Seats {
		have[s.Key] = struct{}{}
	}
	for _, s := range seats {
		if _, dup := have[s.Key]; dup {
			continue
		}
		have[s.Key] = struct{}{}
		res.Seats = append(res.Seats, s)
	}
	res.Recompute()
}

// RemoveSeats strips the given keys from every reservation that holds
// them, recomputes affected totals and drops reservations whose seat list
// becomes empty.  Called after sell and unreserve commits so the registry
// never references a seat that is no longer reserved.
func (r *Registry) RemoveSeats(keys []model.SeatKey) {
	if len(keys) == 0 {
		return
	}
	drop := make(map[model.SeatKey]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	kept := r.list[:0]
	for _, res := range r.list {
		seats := res.Seats[:0]
		for _, s := range res.Seats {
			if _, gone := drop[s.Key]; !gone {
				seats = append(seats, s)
			}
		}
		res.Seats = seats
		if res.Empty() {
			continue
		}
		res.Recompute()
		kept = append(kept, res)
	}
	r.list = kept
}

// Remove deletes a reservation by id.
func (r *Registry) Remove(id string) {
	kept := r.list[:0]
	for _, res := range r.list {
		if res.ID != id {
			kept = append(kept, res)
		}
	}
	r.list = kept
}

// Len returns the number of open reservations.
func (r *Registry) Len() int { return len(r.list) }

// All returns a lazy, restartable sequence over the current reservations
// in creation order.  Each yielded value is a copy with its own seat
// slice, so callers can hold on to it across registry mutations.
func (r *Registry) All() iter.Seq[model.Reservation] {
	return func(yield func(model.Reservation) bool) {
		for _, res := range r.list {
			cp := *res
			cp.Seats = append([]model.Seat(nil), res.Seats...)
			if !yield(cp) {
				return
			}
		}
	}
}

// Snapshot returns the registry in its persisted form.
func (r *Registry) Snapshot() []model.Reservation {
	out := make([]model.Reservation, 0, len(r.list))
	for res := range r.All() {
		out = append(out, res)
	}
	return out
}

// Restore replaces the registry contents with a persisted snapshot.  Seat
// keys inside snapshots are re-derived from their string form because the
// composite Key field does not survive JSON round-trips.  Snapshot entries
// sharing a subject collapse into one, enforcing the one-open-reservation-
// per-subject rule on documents written before it held.
func (r *Registry) Restore(snapshot []model.Reservation) error {
	list := make([]*model.Reservation, 0, len(snapshot))
	bySubject := make(map[string]*model.Reservation, len(snapshot))
	for _, res := range snapshot {
		cp := res
		cp.Seats = append([]model.Seat(nil), res.Seats...)
		for i := range cp.Seats {
			key, err := model.ParseSeatKey(cp.Seats[i].KeyString)
			if err != nil {
				return err
			}
			cp.Seats[i].Key = key
		}
		if cp.ID == "" {
			cp.ID = newReservationID()
		}
		if prev, ok := bySubject[cp.Subject]; ok {
			absorb(prev, cp.Seats)
			continue
		}
		bySubject[cp.Subject] = &cp
		list = append(list, &cp)
	}
	r.list = list
	return nil
}
