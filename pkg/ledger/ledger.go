// Package ledger records every transaction the relayer attempts to broadcast
// and tracks each attempt through to a terminal status.
package ledger

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a ledger entry. Transitions are
// pending -> confirmed and pending -> failed only.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Type tags what kind of call an entry represents
type Type string

const (
	TypeDeathNotification Type = "death_notification"
	TypeRelay             Type = "relay"
)

var (
	// ErrEntryNotFound is returned when no entry has the requested id
	ErrEntryNotFound = errors.New("ledger entry not found")
	// ErrHashImmutable is returned when attaching a hash that differs from the one already set
	ErrHashImmutable = errors.New("ledger entry already has a different transaction hash")
	// ErrDuplicateHash is returned when the hash is already attached to another entry
	ErrDuplicateHash = errors.New("transaction hash already recorded")
	// ErrInvalidTransition is returned for a terminal update that conflicts with the entry's current state
	ErrInvalidTransition = errors.New("invalid ledger status transition")
)

// Attempt describes a transaction about to be broadcast
type Attempt struct {
	Type                  Type
	From                  string
	To                    string
	RelatedNotificationID *int64
}

// Entry is one broadcast attempt
type Entry struct {
	ID                    int64      `json:"id"`
	AttemptID             string     `json:"attemptId"`
	Type                  Type       `json:"type"`
	TxHash                string     `json:"txHash,omitempty"`
	From                  string     `json:"from"`
	To                    string     `json:"to"`
	Status                Status     `json:"status"`
	BlockNumber           *uint64    `json:"blockNumber,omitempty"`
	GasUsed               *uint64    `json:"gasUsed,omitempty"`
	ErrorMessage          string     `json:"errorMessage,omitempty"`
	RelatedNotificationID *int64     `json:"relatedNotificationId,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	ConfirmedAt           *time.Time `json:"confirmedAt,omitempty"`
}

// IsTerminal reports whether the entry reached confirmed or failed
func (e *Entry) IsTerminal() bool {
	return e.Status == StatusConfirmed || e.Status == StatusFailed
}
