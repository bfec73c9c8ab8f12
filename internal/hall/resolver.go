package hall

import (
	"sort"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// zoneLabels maps zones to the captions shown on the seat map and printed
// tickets.  The hall belongs to a Ukrainian theatre, hence the labels.
var zoneLabels = map[model.Zone]string{
	model.ZoneParter:  "Партер",
	model.ZoneAmphi:   "Амфітеатр",
	model.ZoneBalcony: "Балкон",
	model.ZoneBoxes:   "Ложа",
}

// ZoneLabel returns the display caption for a zone.
func ZoneLabel(z model.Zone) string {
	if l, ok := zoneLabels[z]; ok {
		return l
	}
	return "Зал"
}

// Key builds the canonical seat key for a tier seat.  It is a total
// function over valid layout coordinates: it never fails, it only encodes.
func Key(zone model.Zone, row int, seat int) model.SeatKey {
	return model.SeatKey{Zone: zone, Row: rowLabel(row), Num: seat}
}

// BoxKey builds the canonical seat key for a box seat.
func BoxKey(boxID string, seat int) model.SeatKey {
	return model.SeatKey{Zone: model.ZoneBoxes, Row: boxID, Num: seat}
}

// Contains reports whether the key addresses a position that exists in the
// layout.
func (l *Layout) Contains(key model.SeatKey) bool {
	if key.Zone == model.ZoneBoxes {
		b, ok := l.boxes[key.Row]
		return ok && key.Num >= 1 && key.Num <= b.Seats
	}
	r, ok := l.rows[key.Zone][key.Row]
	return ok && key.Num >= 1 && key.Num <= r.SeatCount()
}

// PriceGroup returns the price group configured for the row or box the key
// belongs to.  Unknown positions resolve to the empty group, which in turn
// prices at 0.
func (l *Layout) PriceGroup(key model.SeatKey) string {
	if key.Zone == model.ZoneBoxes {
		return l.boxes[key.Row].PriceGroup
	}
	return l.rows[key.Zone][key.Row].PriceGroup
}

// Resolve produces the denormalized seat snapshot for a key: zone caption,
// row label and the price from the seance price table.  The second return
// is false when the key does not exist in the layout.
func (l *Layout) Resolve(key model.SeatKey, prices model.PriceTable) (model.Seat, bool) {
	if !l.Contains(key) {
		return model.Seat{}, false
	}
	rowLbl := key.Row
	if key.Zone == model.ZoneBoxes {
		if b := l.boxes[key.Row]; b.Label != "" {
			rowLbl = b.Label
		}
	} else {
		rowLbl = "Ряд " + key.Row
	}
	return model.Seat{
		Key:       key,
		KeyString: key.String(),
		ZoneLabel: ZoneLabel(key.Zone),
		RowLabel:  rowLbl,
		Num:       key.Num,
		Price:     prices.PriceFor(l.PriceGroup(key)),
	}, true
}

// SeatKeys enumerates every position in the layout in display order: tier
// rows zone by zone, then boxes sorted by id.
func (l *Layout) SeatKeys() []model.SeatKey {
	var keys []model.SeatKey
	for _, r := range l.Hall.Rows {
		for n := 1; n <= r.SeatCount(); n++ {
			keys = append(keys, Key(r.Zone, r.Row, n))
		}
	}
	boxIDs := make([]string, 0, len(l.boxes))
	for id := range l.boxes {
		boxIDs = append(boxIDs, id)
	}
	sort.Strings(boxIDs)
	for _, id := range boxIDs {
		for n := 1; n <= l.boxes[id].Seats; n++ {
			keys = append(keys, BoxKey(id, n))
		}
	}
	return keys
}
