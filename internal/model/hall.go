package model

// Hall describes the physical layout of the theatre hall as loaded from the
// hall configuration file.  The layout is read-only for the lifetime of the
// process; seat availability lives in the per-seance inventory, never here.
//
// Fields:
//  Name  – display name of the hall.
//  Rows  – tier rows (parter, amphitheatre, balcony) in stage order.
//  Boxes – side boxes flanking the parter.
type Hall struct {
	Name  string   `json:"name"`
	Rows  []RowDef `json:"rows"`
	Boxes []BoxDef `json:"boxes"`
}

// RowDef describes one row of tier seating.  A row either has a plain seat
// count with an optional aisle position, or a left/right split where the
// aisle falls between the two blocks.
//
// Fields:
//  Zone       – tier the row belongs to (parter, amphi, balcony).
//  Row        – row number, unique within the zone.
//  Seats      – seat count for unsplit rows (0 when split).
//  SeatsLeft  – seats left of the aisle for split rows.
//  SeatsRight – seats right of the aisle for split rows.
//  AisleAfter – aisle position for unsplit rows (0 = no aisle).
//  PriceGroup – price table key for every seat in the row.
type RowDef struct {
	Zone       Zone   `json:"zone"`
	Row        int    `json:"row"`
	Seats      int    `json:"seats,omitempty"`
	SeatsLeft  int    `json:"seats_left,omitempty"`
	SeatsRight int    `json:"seats_right,omitempty"`
	AisleAfter int    `json:"aisle_after,omitempty"`
	PriceGroup string `json:"price_group,omitempty"`
}

// SeatCount returns the total number of seats in the row regardless of
// whether the row is defined as a plain count or a left/right split.
func (r RowDef) SeatCount() int {
	if r.Seats > 0 {
		return r.Seats
	}
	return r.SeatsLeft + r.SeatsRight
}

// BoxDef describes one side box.
//
// Fields:
//  ID         – box identifier used as the row part of seat keys (e.g. "boxA").
//  Label      – display label ("Ложа А").
//  Side       – "left" or "right" relative to the stage.
//  Seats      – number of seats in the box.
//  PriceGroup – price table key for the box.
type BoxDef struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Side       string `json:"side,omitempty"`
	Seats      int    `json:"seats"`
	PriceGroup string `json:"price_group,omitempty"`
}
