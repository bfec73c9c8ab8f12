package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Zone identifies a seating area of the hall.  Rows belong to one of the
// three tiers (parter, amphitheatre, balcony); box seats live in the boxes
// zone and are addressed by their box id instead of a row number.
type Zone string

const (
	ZoneParter  Zone = "parter"
	ZoneAmphi   Zone = "amphi"
	ZoneBalcony Zone = "balcony"
	ZoneBoxes   Zone = "boxes"
)

// Valid reports whether z is one of the known zones.
func (z Zone) Valid() bool {
	switch z {
	case ZoneParter, ZoneAmphi, ZoneBalcony, ZoneBoxes:
		return true
	}
	return false
}

// SeatStatus is the closed set of persisted seat states.  "selected" is
// deliberately absent: membership in the basket is a transient cashier-side
// concept and never written to storage.
type SeatStatus string

const (
	StatusFree     SeatStatus = "free"
	StatusReserved SeatStatus = "reserved"
	StatusSold     SeatStatus = "sold"
	StatusBlocked  SeatStatus = "blocked"
	StatusInactive SeatStatus = "inactive"
)

// Valid reports whether s is a member of the status enumeration.
func (s SeatStatus) Valid() bool {
	switch s {
	case StatusFree, StatusReserved, StatusSold, StatusBlocked, StatusInactive:
		return true
	}
	return false
}

// Sellable reports whether a cashier action may move the seat into the
// basket.  Sold seats are terminal; blocked and inactive seats are set by
// hall configuration and never transition via sell/reserve/cancel.
func (s SeatStatus) Sellable() bool {
	return s == StatusFree || s == StatusReserved
}

// SeatKey uniquely identifies one position in the hall.  Row carries the
// numeric row for tier seats or the box id (e.g. "boxA") for box seats, so
// "row 5 seat 3 in parter" and "row 5 seat 3 in balcony" never collide.
// The string form is used only at the persistence boundary.
type SeatKey struct {
	Zone Zone   // seating area
	Row  string // numeric row label or box id
	Num  int    // seat number within the row/box
}

// String encodes the key as "zone:row:num".  The colon separator never
// appears in zone names, row labels or box ids, so the encoding is
// unambiguous and sorts stably within a zone.
func (k SeatKey) String() string {
	return string(k.Zone) + ":" + k.Row + ":" + strconv.Itoa(k.Num)
}

// ParseSeatKey decodes the "zone:row:num" form produced by String.  It is
// the only place where the string encoding is interpreted.
func ParseSeatKey(s string) (SeatKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return SeatKey{}, fmt.Errorf("malformed seat key %q", s)
	}
	zone := Zone(parts[0])
	if !zone.Valid() {
		return SeatKey{}, fmt.Errorf("unknown zone in seat key %q", s)
	}
	if parts[1] == "" {
		return SeatKey{}, fmt.Errorf("empty row in seat key %q", s)
	}
	num, err := strconv.Atoi(parts[2])
	if err != nil || num <= 0 {
		return SeatKey{}, fmt.Errorf("invalid seat number in seat key %q", s)
	}
	return SeatKey{Zone: zone, Row: parts[1], Num: num}, nil
}

// Less orders keys by zone, then row (numeric rows numerically), then seat
// number.  Used to produce stable basket and export listings.
func (k SeatKey) Less(o SeatKey) bool {
	if k.Zone != o.Zone {
		return k.Zone < o.Zone
	}
	if k.Row != o.Row {
		a, errA := strconv.Atoi(k.Row)
		b, errB := strconv.Atoi(o.Row)
		if errA == nil && errB == nil {
			return a < b
		}
		return k.Row < o.Row
	}
	return k.Num < o.Num
}

// Place is the persisted record for one seat within a seance.  A seat with
// no Place entry is free.
//
// Fields:
//  Status    – current seat status.
//  Subject   – who reserved the seat (reserved seats only).
//  Channel   – sales channel recorded at sell time (e.g. "boxoffice").
//  Price     – price captured when the seat left the free state.
//  UpdatedAt – when the record was last written.
type Place struct {
	Status    SeatStatus `json:"status"`
	Subject   string     `json:"subject,omitempty"`
	Channel   string     `json:"channel,omitempty"`
	Price     int        `json:"price,omitempty"`
	UpdatedAt time.Time  `json:"ts,omitzero"`
}

// Seat is a denormalized snapshot of one position, captured when the seat
// enters the basket and carried through reservations and commit results so
// panels and printouts never need to re-resolve layout data.
type Seat struct {
	Key       SeatKey `json:"-"`
	KeyString string  `json:"key"`
	ZoneLabel string  `json:"zone"`
	RowLabel  string  `json:"row"`
	Num       int     `json:"seat"`
	Price     int     `json:"price"`
}
