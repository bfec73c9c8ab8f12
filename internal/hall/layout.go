// Package hall loads the hall layout and seance configuration files and
// resolves seat keys, display labels and prices against them.  Everything
// in this package is read-only after load; live seat state belongs to the
// inventory.
package hall

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

// Layout wraps the parsed hall definition with lookup indexes so that seat
// resolution does not scan the row list on every call.
type Layout struct {
	Hall  model.Hall
	rows  map[model.Zone]map[string]model.RowDef // zone -> row label -> def
	boxes map[string]model.BoxDef                // box id -> def
}

// Load reads and indexes the hall layout JSON at path.  It fails on
// unreadable files, malformed JSON, unknown zones and duplicate row or box
// identifiers: a broken layout must stop the service at startup rather
// than surface as missing seats mid-session.
func Load(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hall layout: %w", err)
	}
	var h model.Hall
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("parse hall layout %s: %w", path, err)
	}
	l := &Layout{
		Hall:  h,
		rows:  make(map[model.Zone]map[string]model.RowDef),
		boxes: make(map[string]model.BoxDef),
	}
	for _, r := range h.Rows {
		if !r.Zone.Valid() || r.Zone == model.ZoneBoxes {
			return nil, fmt.Errorf("hall layout: row %d has invalid zone %q", r.Row, r.Zone)
		}
		if r.SeatCount() <= 0 {
			return nil, fmt.Errorf("hall layout: row %d in %s has no seats", r.Row, r.Zone)
		}
		byRow := l.rows[r.Zone]
		if byRow == nil {
			byRow = make(map[string]model.RowDef)
			l.rows[r.Zone] = byRow
		}
		label := rowLabel(r.Row)
		if _, dup := byRow[label]; dup {
			return nil, fmt.Errorf("hall layout: duplicate row %d in %s", r.Row, r.Zone)
		}
		byRow[label] = r
	}
	for _, b := range h.Boxes {
		if b.ID == "" || b.Seats <= 0 {
			return nil, fmt.Errorf("hall layout: box %q is incomplete", b.ID)
		}
		if _, dup := l.boxes[b.ID]; dup {
			return nil, fmt.Errorf("hall layout: duplicate box %q", b.ID)
		}
		l.boxes[b.ID] = b
	}
	return l, nil
}

func rowLabel(row int) string { return fmt.Sprintf("%d", row) }

// LoadCatalog reads the seance catalog JSON: the list of performances the
// cashier can open.  Entries with an empty id or file are rejected.
func LoadCatalog(path string) ([]model.SeanceMeta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seance catalog: %w", err)
	}
	var metas []model.SeanceMeta
	if err := json.Unmarshal(raw, &metas); err != nil {
		return nil, fmt.Errorf("parse seance catalog %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if m.ID == "" || m.File == "" {
			return nil, fmt.Errorf("seance catalog: entry %+v is incomplete", m)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("seance catalog: duplicate seance id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return metas, nil
}

// LoadSeance reads one seance configuration file.  The file path from the
// catalog is resolved relative to dataDir.
func LoadSeance(dataDir string, meta model.SeanceMeta) (*model.Seance, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, meta.File))
	if err != nil {
		return nil, fmt.Errorf("read seance %s: %w", meta.ID, err)
	}
	var s model.Seance
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse seance %s: %w", meta.ID, err)
	}
	if s.Prices == nil {
		s.Prices = model.PriceTable{}
	}
	return &s, nil
}
