// Package repository persists per-seance box-office state.  The state of a
// seance is a single JSON document: the seat status map plus the open
// reservations.  Three providers implement the same contract — a local file
// store (the default), redis and mysql — selected by configuration.
package repository

import (
	"context"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// SeanceState is the persisted shape of one seance's box-office state.
// Seat keys appear here in their encoded string form; decoding back to
// composite keys happens in the inventory layer.
type SeanceState struct {
	SeatStatuses map[string]model.Place `json:"seatStatuses"`
	Reservations []model.Reservation    `json:"reservations"`
}

// NewSeanceState returns an empty state: all seats free, no reservations.
func NewSeanceState() *SeanceState {
	return &SeanceState{
		SeatStatuses: make(map[string]model.Place),
		Reservations: []model.Reservation{},
	}
}

// SeanceStore is the persistence provider contract.  Load returns
// ErrSeanceStateNotFound when nothing has been saved for the seance yet;
// callers treat that as a fresh all-free state, not a failure.  Save
// replaces the whole document — the state map for a seance is swapped
// wholesale, never patched.
type SeanceStore interface {
	Load(ctx context.Context, seanceID string) (*SeanceState, error)
	Save(ctx context.Context, seanceID string, state *SeanceState) error
}
