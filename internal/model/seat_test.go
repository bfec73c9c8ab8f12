package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatKeyRoundTrip(t *testing.T) {
	keys := []SeatKey{
		{Zone: ZoneParter, Row: "5", Num: 3},
		{Zone: ZoneBalcony, Row: "5", Num: 3},
		{Zone: ZoneBoxes, Row: "boxA", Num: 18},
	}
	for _, k := range keys {
		parsed, err := ParseSeatKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestSeatKeyZonesNeverCollide(t *testing.T) {
	a := SeatKey{Zone: ZoneParter, Row: "5", Num: 3}
	b := SeatKey{Zone: ZoneBalcony, Row: "5", Num: 3}
	assert.NotEqual(t, a.String(), b.String())
}

func TestParseSeatKeyRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "parter", "parter:5", "mezzanine:1:1", "parter::3", "parter:5:0", "parter:5:x"} {
		_, err := ParseSeatKey(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestSeatKeyOrdering(t *testing.T) {
	// Numeric rows sort numerically, not lexicographically.
	r2 := SeatKey{Zone: ZoneParter, Row: "2", Num: 1}
	r10 := SeatKey{Zone: ZoneParter, Row: "10", Num: 1}
	assert.True(t, r2.Less(r10))
	assert.False(t, r10.Less(r2))

	// Same row orders by seat number.
	assert.True(t, SeatKey{Zone: ZoneParter, Row: "2", Num: 1}.Less(SeatKey{Zone: ZoneParter, Row: "2", Num: 2}))
}

func TestSeatStatusSellable(t *testing.T) {
	assert.True(t, StatusFree.Sellable())
	assert.True(t, StatusReserved.Sellable())
	assert.False(t, StatusSold.Sellable())
	assert.False(t, StatusBlocked.Sellable())
	assert.False(t, StatusInactive.Sellable())
}

func TestSeatStatusValid(t *testing.T) {
	for _, s := range []SeatStatus{StatusFree, StatusReserved, StatusSold, StatusBlocked, StatusInactive} {
		assert.True(t, s.Valid())
	}
	assert.False(t, SeatStatus("selected").Valid())
	assert.False(t, SeatStatus("").Valid())
}
