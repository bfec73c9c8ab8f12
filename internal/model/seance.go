package model

// SeanceMeta is one entry of the seance catalog: a performance the cashier
// can open.  The File field points at the seance configuration relative to
// the data directory.
type SeanceMeta struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	File  string `json:"file"`
}

// Seance is the configuration of a single performance: its display
// information, the price table, and any places pre-set by configuration
// (typically blocked or inactive seats).  The live seat state is owned by
// the inventory and persisted separately; Places here only seeds the first
// load of a seance that has no saved state yet.
type Seance struct {
	Title    string           `json:"title"`
	Datetime string           `json:"datetime"`
	Prices   PriceTable       `json:"prices"`
	Places   map[string]Place `json:"places,omitempty"`
}

// PriceTable maps a price group tag to an integer price.  A missing group
// resolves to price 0: absence of pricing is a valid configuration state
// for non-sellable zones, not an error.
type PriceTable map[string]int

// PriceFor returns the configured price for a group, defaulting to 0 when
// the group or the table itself is absent.
func (t PriceTable) PriceFor(group string) int {
	if t == nil || group == "" {
		return 0
	}
	return t[group]
}
