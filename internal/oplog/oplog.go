// Package oplog keeps an append-only record of committed box-office
// actions for audit and CSV export.  The log is process-local; durable
// fan-out happens over the message queue.
package oplog

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"
	"time"
)

// Entry is one committed action.
//
// Fields:
//  Seq      – monotonically increasing sequence number within the process.
//  Action   – sell, reserve or unreserve.
//  SeanceID – seance the action applied to.
//  Subject  – reservation subject, when applicable.
//  Channel  – sales channel, when applicable.
//  Seats    – encoded seat keys affected, in commit order.
//  Amount   – sum of affected seat prices.
//  At       – commit timestamp (UTC).
type Entry struct {
	Seq      int       `json:"seq"`
	Action   string    `json:"action"`
	SeanceID string    `json:"seance_id"`
	Subject  string    `json:"subject,omitempty"`
	Channel  string    `json:"channel,omitempty"`
	Seats    []string  `json:"seats"`
	Amount   int       `json:"amount"`
	At       time.Time `json:"at"`
}

// Log is an append-only in-memory operation log.  Safe for concurrent
// use: commits append while export reads.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	seq     int
}

// New returns an empty log.
func New() *Log { return &Log{} }

// Append records a committed action and returns the assigned entry.
func (l *Log) Append(action, seanceID, subject, channel string, seats []string, amount int, at time.Time) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	e := Entry{
		Seq:      l.seq,
		Action:   action,
		SeanceID: seanceID,
		Subject:  subject,
		Channel:  channel,
		Seats:    append([]string(nil), seats...),
		Amount:   amount,
		At:       at,
	}
	l.entries = append(l.entries, e)
	return e
}

// Entries returns a copy of the log, optionally filtered by seance.
func (l *Log) Entries(seanceID string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if seanceID == "" || e.SeanceID == seanceID {
			out = append(out, e)
		}
	}
	return out
}

// WriteCSV exports the log (optionally filtered by seance) as CSV with a
// header row.  Seat keys are joined with ";" inside one cell so the row
// count matches the action count.
func (l *Log) WriteCSV(w io.Writer, seanceID string) error {
	entries := l.Entries(seanceID)
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"seq", "at", "seance", "action", "subject", "channel", "seats", "count", "amount"}); err != nil {
		return err
	}
	for _, e := range entries {
		seats := ""
		for i, s := range e.Seats {
			if i > 0 {
				seats += ";"
			}
			seats += s
		}
		rec := []string{
			strconv.Itoa(e.Seq),
			e.At.Format(time.RFC3339),
			e.SeanceID,
			e.Action,
			e.Subject,
			e.Channel,
			seats,
			strconv.Itoa(len(e.Seats)),
			strconv.Itoa(e.Amount),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
