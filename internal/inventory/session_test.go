package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaremchuk/theatre-boxoffice/internal/hall"
	"github.com/yaremchuk/theatre-boxoffice/internal/model"
	"github.com/yaremchuk/theatre-boxoffice/internal/repository"
)

const testHallJSON = `{
  "name": "Великий зал",
  "rows": [
    { "zone": "parter", "row": 5, "seats": 6, "price_group": "parter" },
    { "zone": "balcony", "row": 1, "seats": 4, "price_group": "balcony" }
  ],
  "boxes": [
    { "id": "boxA", "label": "Ложа А", "seats": 2, "price_group": "box" }
  ]
}`

func testLayout(t *testing.T) *hall.Layout {
	t.Helper()
	p := filepath.Join(t.TempDir(), "hall.json")
	require.NoError(t, os.WriteFile(p, []byte(testHallJSON), 0o644))
	l, err := hall.Load(p)
	require.NoError(t, err)
	return l
}

func testSeance() *model.Seance {
	return &model.Seance{
		Title:    "«Вісім люблячих жінок»",
		Datetime: "28.12.2025 16:00",
		Prices:   model.PriceTable{"parter": 150, "balcony": 100, "box": 300},
		Places: map[string]model.Place{
			"balcony:1:4": {Status: model.StatusBlocked},
		},
	}
}

func newTestSession(t *testing.T, persist repository.SeanceStore, opts ...SessionOption) *Session {
	t.Helper()
	meta := model.SeanceMeta{ID: "visim-2025-12-28", Label: "test seance"}
	s, err := OpenSession(context.Background(), meta, testSeance(), testLayout(t), persist, opts...)
	require.NoError(t, err)
	return s
}

func parterSeat(num int) model.SeatKey { return hall.Key(model.ZoneParter, 5, num) }

func TestToggleStagesSeatWithSnapshot(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	key := parterSeat(3)

	selected, ok := s.Toggle(key)
	require.True(t, ok)
	assert.True(t, selected)

	items := s.BasketSeats()
	require.Len(t, items, 1)
	assert.Equal(t, 150, items[0].Price)
	assert.Equal(t, "Партер", items[0].ZoneLabel)
	assert.Equal(t, 150, s.BasketTotal())
	// Persisted status stays free while the seat sits in the basket.
	assert.Equal(t, model.StatusFree, s.Status(key))
}

func TestToggleTwiceIsIdempotent(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	key := parterSeat(3)

	_, _ = s.Toggle(key)
	selected, ok := s.Toggle(key)
	require.True(t, ok)
	assert.False(t, selected)
	assert.Empty(t, s.BasketSeats())
	assert.Equal(t, model.StatusFree, s.Status(key))
}

func TestToggleRefusesNonSellableSeats(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())

	// Blocked by seance configuration.
	blocked := hall.Key(model.ZoneBalcony, 1, 4)
	_, ok := s.Toggle(blocked)
	assert.False(t, ok)
	assert.Empty(t, s.BasketSeats())

	// Outside the hall layout.
	_, ok = s.Toggle(hall.Key(model.ZoneParter, 99, 1))
	assert.False(t, ok)

	// Sold seats never re-enter the basket.
	key := parterSeat(1)
	_, _ = s.Toggle(key)
	_, err := s.CommitSell(context.Background(), "boxoffice")
	require.NoError(t, err)
	_, ok = s.Toggle(key)
	assert.False(t, ok)
	assert.Empty(t, s.BasketSeats())
}

func TestCommitSellFromFree(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	k1, k2 := parterSeat(1), parterSeat(2)
	_, _ = s.Toggle(k1)
	_, _ = s.Toggle(k2)

	sold, err := s.CommitSell(context.Background(), "boxoffice")
	require.NoError(t, err)
	assert.Len(t, sold, 2)
	assert.Empty(t, s.BasketSeats(), "basket is emptied wholesale after commit")

	for _, k := range []model.SeatKey{k1, k2} {
		assert.Equal(t, model.StatusSold, s.Status(k))
		place, ok := s.Place(k)
		require.True(t, ok)
		assert.Equal(t, "boxoffice", place.Channel)
		assert.Equal(t, 150, place.Price)
	}
}

func TestCommitSellEmptyBasket(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	_, err := s.CommitSell(context.Background(), "boxoffice")
	assert.ErrorIs(t, err, ErrEmptyBasket)
}

func TestCommitReserveCreatesReservation(t *testing.T) {
	// Scenario: one free parter seat priced 150 is reserved for Ivanenko.
	s := newTestSession(t, repository.NewMemoryStore())
	key := parterSeat(3)
	_, _ = s.Toggle(key)

	reserved, err := s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)
	require.Len(t, reserved, 1)
	assert.Equal(t, model.StatusReserved, s.Status(key))
	assert.Empty(t, s.BasketSeats())

	var list []model.Reservation
	for r := range s.Reservations() {
		list = append(list, r)
	}
	require.Len(t, list, 1)
	assert.Equal(t, "Іваненко", list[0].Subject)
	assert.Equal(t, 150, list[0].Total)
	require.Len(t, list[0].Seats, 1)
	assert.Equal(t, key, list[0].Seats[0].Key)
}

func TestCommitReserveRequiresSubject(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	key := parterSeat(3)
	_, _ = s.Toggle(key)

	_, err := s.CommitReserve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrSubjectRequired)
	// Operation aborted: basket untouched, status unchanged, no reservation.
	assert.Len(t, s.BasketSeats(), 1)
	assert.Equal(t, model.StatusFree, s.Status(key))
	for range s.Reservations() {
		t.Fatal("no reservation should exist")
	}
}

func TestCommitReserveMergesBySubject(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	_, _ = s.Toggle(parterSeat(1))
	_, err := s.CommitReserve(context.Background(), "Група А")
	require.NoError(t, err)
	_, _ = s.Toggle(parterSeat(2))
	_, err = s.CommitReserve(context.Background(), "Група А")
	require.NoError(t, err)

	var list []model.Reservation
	for r := range s.Reservations() {
		list = append(list, r)
	}
	require.Len(t, list, 1, "same subject merges into one reservation")
	assert.Len(t, list[0].Seats, 2)
	assert.Equal(t, 300, list[0].Total)
}

func TestReReserveMovesSeatToNewSubject(t *testing.T) {
	// A reserved seat stays sellable, so the cashier can re-select it and
	// reserve it for somebody else.  The seat must change hands cleanly:
	// one reservation holds it afterwards, never two.
	s := newTestSession(t, repository.NewMemoryStore())
	k1, k2 := parterSeat(1), parterSeat(2)
	_, _ = s.Toggle(k1)
	_, _ = s.Toggle(k2)
	_, err := s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)

	selected, ok := s.Toggle(k2)
	require.True(t, ok)
	require.True(t, selected)
	_, err = s.CommitReserve(context.Background(), "Петренко")
	require.NoError(t, err)

	place, _ := s.Place(k2)
	assert.Equal(t, "Петренко", place.Subject)

	holders := map[model.SeatKey][]string{}
	for r := range s.Reservations() {
		for _, seat := range r.Seats {
			holders[seat.Key] = append(holders[seat.Key], r.Subject)
		}
	}
	assert.Equal(t, []string{"Іваненко"}, holders[k1])
	assert.Equal(t, []string{"Петренко"}, holders[k2], "re-reserved seat belongs to exactly one reservation")

	ivanenko := 0
	for r := range s.Reservations() {
		if r.Subject == "Іваненко" {
			ivanenko = r.Total
		}
	}
	assert.Equal(t, 150, ivanenko, "previous holder's total recomputed")
}

func TestSellFromReservationRemovesIt(t *testing.T) {
	// Scenario: reserve a seat, re-select it, sell it; the reservation
	// becomes empty and disappears.
	s := newTestSession(t, repository.NewMemoryStore())
	key := parterSeat(3)
	_, _ = s.Toggle(key)
	_, err := s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)

	selected, ok := s.Toggle(key)
	require.True(t, ok, "reserved seats can be re-selected")
	assert.True(t, selected)

	sold, err := s.CommitSell(context.Background(), "boxoffice")
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, 150, sold[0].Price)
	assert.Equal(t, model.StatusSold, s.Status(key))
	for range s.Reservations() {
		t.Fatal("reservation should have been deleted with its last seat")
	}
}

func TestPartialSellRecomputesReservationTotal(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	k1, k2 := parterSeat(1), parterSeat(2)
	_, _ = s.Toggle(k1)
	_, _ = s.Toggle(k2)
	_, err := s.CommitReserve(context.Background(), "Група А")
	require.NoError(t, err)

	// Sell only one of the two reserved seats.
	_, _ = s.Toggle(k1)
	_, err = s.CommitSell(context.Background(), "boxoffice")
	require.NoError(t, err)

	var list []model.Reservation
	for r := range s.Reservations() {
		list = append(list, r)
	}
	require.Len(t, list, 1)
	assert.Len(t, list[0].Seats, 1)
	assert.Equal(t, k2, list[0].Seats[0].Key)
	assert.Equal(t, 150, list[0].Total, "total recomputed after partial removal")
}

func TestCommitUnreserveSkipsNonReserved(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	reservedKey, freeKey := parterSeat(1), parterSeat(2)
	_, _ = s.Toggle(reservedKey)
	_, err := s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)

	_, _ = s.Toggle(reservedKey)
	_, _ = s.Toggle(freeKey)
	freed, err := s.CommitUnreserve(context.Background())
	require.NoError(t, err)
	require.Len(t, freed, 1, "free seats in the basket are silently skipped")
	assert.Equal(t, reservedKey, freed[0].Key)
	assert.Equal(t, model.StatusFree, s.Status(reservedKey))
	assert.Empty(t, s.BasketSeats())
	for range s.Reservations() {
		t.Fatal("reservation should be gone after its only seat was freed")
	}
	// Metadata is stripped along with the status.
	_, ok := s.Place(reservedKey)
	assert.False(t, ok)
}

func TestCancelReservationBySubject(t *testing.T) {
	// Scenario: two seats reserved for "Група А" (150+150), cancel by
	// subject frees both and drops the entry.
	s := newTestSession(t, repository.NewMemoryStore())
	k1, k2 := parterSeat(1), parterSeat(2)
	_, _ = s.Toggle(k1)
	_, _ = s.Toggle(k2)
	_, err := s.CommitReserve(context.Background(), "Група А")
	require.NoError(t, err)

	freed, err := s.CancelReservation(context.Background(), "Група А")
	require.NoError(t, err)
	assert.Len(t, freed, 2)
	assert.Equal(t, model.StatusFree, s.Status(k1))
	assert.Equal(t, model.StatusFree, s.Status(k2))
	for range s.Reservations() {
		t.Fatal("registry should be empty")
	}
}

func TestSellReservationByID(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	_, _ = s.Toggle(parterSeat(1))
	_, _ = s.Toggle(hall.BoxKey("boxA", 1))
	_, err := s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)

	var resID string
	for r := range s.Reservations() {
		resID = r.ID
	}
	require.NotEmpty(t, resID)

	sold, err := s.SellReservation(context.Background(), resID, "")
	require.NoError(t, err)
	assert.Len(t, sold, 2)
	assert.Equal(t, 450, seatSum(sold))
	assert.Equal(t, model.StatusSold, s.Status(parterSeat(1)))
	place, _ := s.Place(parterSeat(1))
	assert.Equal(t, "boxoffice", place.Channel, "channel defaults when omitted")
}

func TestSellUnknownReservation(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	_, err := s.SellReservation(context.Background(), "nope", "")
	assert.ErrorIs(t, err, ErrReservationNotFound)
	_, err = s.CancelReservation(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestStatePersistsAcrossSessions(t *testing.T) {
	persist := repository.NewMemoryStore()
	s := newTestSession(t, persist)
	soldKey, reservedKey := parterSeat(1), parterSeat(2)
	_, _ = s.Toggle(soldKey)
	_, err := s.CommitSell(context.Background(), "boxoffice")
	require.NoError(t, err)
	_, _ = s.Toggle(reservedKey)
	_, err = s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)

	// A new session over the same provider sees the committed state; the
	// basket never survives.
	s2 := newTestSession(t, persist)
	assert.Equal(t, model.StatusSold, s2.Status(soldKey))
	assert.Equal(t, model.StatusReserved, s2.Status(reservedKey))
	assert.Empty(t, s2.BasketSeats())

	var list []model.Reservation
	for r := range s2.Reservations() {
		list = append(list, r)
	}
	require.Len(t, list, 1)
	assert.Equal(t, "Іваненко", list[0].Subject)
	assert.Equal(t, reservedKey, list[0].Seats[0].Key)
}

func TestFreshSessionSeedsConfiguredPlaces(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	assert.Equal(t, model.StatusBlocked, s.Status(hall.Key(model.ZoneBalcony, 1, 4)))
}

func TestReconcileDropsStaleReservationSeats(t *testing.T) {
	// A reservation referencing a seat the ledger marks sold must be
	// rebuilt from the ledger, not trusted.
	persist := repository.NewMemoryStore()
	state := repository.NewSeanceState()
	state.SeatStatuses[parterSeat(1).String()] = model.Place{Status: model.StatusSold, Channel: "boxoffice", Price: 150}
	state.SeatStatuses[parterSeat(2).String()] = model.Place{Status: model.StatusReserved, Subject: "Іваненко", Price: 150}
	state.Reservations = []model.Reservation{{
		ID:      "r1",
		Subject: "Іваненко",
		Seats: []model.Seat{
			{KeyString: parterSeat(1).String(), Num: 1, Price: 150},
			{KeyString: parterSeat(2).String(), Num: 2, Price: 150},
		},
		Total:     300,
		CreatedAt: time.Now().UTC(),
	}}
	require.NoError(t, persist.Save(context.Background(), "visim-2025-12-28", state))

	s := newTestSession(t, persist)
	var list []model.Reservation
	for r := range s.Reservations() {
		list = append(list, r)
	}
	require.Len(t, list, 1)
	assert.Len(t, list[0].Seats, 1)
	assert.Equal(t, parterSeat(2), list[0].Seats[0].Key)
	assert.Equal(t, 150, list[0].Total)
}

func TestReconcileRehomesOrphanReservedSeats(t *testing.T) {
	// A seat marked reserved but missing from every reservation is
	// regrouped under the subject stored in its place metadata.
	persist := repository.NewMemoryStore()
	state := repository.NewSeanceState()
	state.SeatStatuses[parterSeat(3).String()] = model.Place{Status: model.StatusReserved, Subject: "Петренко", Price: 150}
	require.NoError(t, persist.Save(context.Background(), "visim-2025-12-28", state))

	s := newTestSession(t, persist)
	var list []model.Reservation
	for r := range s.Reservations() {
		list = append(list, r)
	}
	require.Len(t, list, 1)
	assert.Equal(t, "Петренко", list[0].Subject)
	assert.Equal(t, 150, list[0].Total)
	require.Len(t, list[0].Seats, 1)
	assert.Equal(t, parterSeat(3), list[0].Seats[0].Key)
}

func TestRegistryConsistencyAfterMixedCommits(t *testing.T) {
	// Property: every reserved seat belongs to exactly one reservation and
	// every reservation seat is marked reserved.
	s := newTestSession(t, repository.NewMemoryStore())
	_, _ = s.Toggle(parterSeat(1))
	_, _ = s.Toggle(parterSeat(2))
	_, err := s.CommitReserve(context.Background(), "Група А")
	require.NoError(t, err)
	_, _ = s.Toggle(parterSeat(4))
	_, err = s.CommitReserve(context.Background(), "Група Б")
	require.NoError(t, err)
	_, _ = s.Toggle(parterSeat(2))
	_, err = s.CommitSell(context.Background(), "boxoffice")
	require.NoError(t, err)

	seen := map[model.SeatKey]int{}
	for r := range s.Reservations() {
		for _, seat := range r.Seats {
			seen[seat.Key]++
			assert.Equal(t, model.StatusReserved, s.Status(seat.Key))
		}
	}
	assert.Equal(t, map[model.SeatKey]int{parterSeat(1): 1, parterSeat(4): 1}, seen)
}

func TestReservationsSequenceIsRestartable(t *testing.T) {
	s := newTestSession(t, repository.NewMemoryStore())
	_, _ = s.Toggle(parterSeat(1))
	_, err := s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)

	seq := s.Reservations()
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first)
}

func TestCommitNotifierObservesActions(t *testing.T) {
	type event struct {
		action  Action
		subject string
		count   int
	}
	var events []event
	s := newTestSession(t, repository.NewMemoryStore(), WithNotifier(
		func(action Action, _ string, seats []model.Seat, subject, _ string) {
			events = append(events, event{action, subject, len(seats)})
		}))

	_, _ = s.Toggle(parterSeat(1))
	_, err := s.CommitReserve(context.Background(), "Іваненко")
	require.NoError(t, err)
	_, err = s.SellReservation(context.Background(), "Іваненко", "")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, event{ActionReserve, "Іваненко", 1}, events[0])
	assert.Equal(t, event{ActionSell, "Іваненко", 1}, events[1])
}

func seatSum(seats []model.Seat) int {
	total := 0
	for _, s := range seats {
		total += s.Price
	}
	return total
}
