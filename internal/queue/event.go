// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into the audit log file.
package queue

// SeatsCommittedEvent is published after every committed box-office action
// (sell, reserve, unreserve — registry bulk actions included).  It carries
// enough for downstream consumers to audit or notify without reading the
// seance state store.
type SeatsCommittedEvent struct {
	SeanceID    string   `json:"seance_id"`
	Action      string   `json:"action"`
	Subject     string   `json:"subject,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	SeatLabels  []string `json:"seats"`
	SeatCount   int      `json:"seat_count"`
	TotalAmount int      `json:"total_amount"`
	CommittedAt string   `json:"committed_at"`
}
