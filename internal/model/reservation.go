package model

import "time"

// Reservation groups seats held in reserved status on behalf of a subject
// (a person or organization), pending sale or cancellation.  Reservations
// are created only by a reserve commit and are merged by subject, so one
// subject owns at most one open reservation per seance.
//
// Fields:
//  ID        – unique identifier within the seance.
//  Subject   – who the seats are reserved for.
//  Seats     – ordered seat snapshots, captured at reserve time.
//  Total     – sum of seat prices; recomputed after every partial removal.
//  CreatedAt – when the reservation was first created.
type Reservation struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Seats     []Seat    `json:"seats"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recompute refreshes Total from the current seat list.
func (r *Reservation) Recompute() {
	total := 0
	for _, s := range r.Seats {
		total += s.Price
	}
	r.Total = total
}

// Empty reports whether the reservation no longer holds any seats.
func (r *Reservation) Empty() bool { return len(r.Seats) == 0 }
