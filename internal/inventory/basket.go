package inventory

import (
	"sort"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// Basket is the transient set of seats the cashier is about to act upon.
// Each entry carries the denormalized snapshot captured at selection time;
// persisted seat status is untouched until a commit.  The basket never
// survives a commit: every sell/reserve/unreserve empties it wholesale.
type Basket struct {
	items map[model.SeatKey]model.Seat
}

// NewBasket returns an empty basket.
func NewBasket() *Basket {
	return &Basket{items: make(map[model.SeatKey]model.Seat)}
}

// Contains reports whether the key is currently staged.
func (b *Basket) Contains(key model.SeatKey) bool {
	_, ok := b.items[key]
	return ok
}

// Add stages a seat snapshot.  Adding an already-present key overwrites
// the snapshot, which is harmless: toggling handles the remove case before
// ever calling Add.
func (b *Basket) Add(seat model.Seat) {
	b.items[seat.Key] = seat
}

// Remove unstages a key.  Removing an absent key is a no-op.
func (b *Basket) Remove(key model.SeatKey) {
	delete(b.items, key)
}

// Clear empties the basket without touching persisted state.
func (b *Basket) Clear() {
	b.items = make(map[model.SeatKey]model.Seat)
}

// Len returns the number of staged seats.
func (b *Basket) Len() int { return len(b.items) }

// Items returns the staged snapshots ordered by seat key, the same stable
// order the basket panel displays.
func (b *Basket) Items() []model.Seat {
	out := make([]model.Seat, 0, len(b.items))
	for _, s := range b.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}

// Total returns the running sum of staged seat prices.
func (b *Basket) Total() int {
	total := 0
	for _, s := range b.items {
		total += s.Price
	}
	return total
}
