// Package notification stores the death notifications the relayer registers
// on chain, together with their on-chain linkage and audit trail.
package notification

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a notification with respect to the chain
type Status string

const (
	StatusPending    Status = "pending"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
	StatusConfirmed  Status = "confirmed"
	StatusCancelled  Status = "cancelled"
)

var (
	// ErrNotFound is returned when no notification has the requested id
	ErrNotFound = errors.New("notification not found")
	// ErrSubmissionConflict is returned when a notification cannot enter or leave
	// the submitting state because another submission owns it or it is already registered
	ErrSubmissionConflict = errors.New("notification submission conflict")
)

// Notification is a death notification awaiting or holding on-chain registration
type Notification struct {
	ID            int64     `json:"id"`
	PatientHash   string    `json:"patientHash"`
	DeathDatetime time.Time `json:"deathDatetime"`
	InstitutionID *int64    `json:"institutionId,omitempty"`
	NotifiedBy    *int64    `json:"notifiedBy,omitempty"`
	Status        Status    `json:"status"`
	TxHash        string    `json:"blockchainTxHash,omitempty"`
	Confirmed     bool      `json:"blockchainConfirmed"`
	OnChainID     *int64    `json:"blockchainNotificationId,omitempty"`
	IPFSHash      string    `json:"ipfsHash,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasTxHash reports whether a transaction was already broadcast for the notification
func (n *Notification) HasTxHash() bool {
	return n.TxHash != ""
}

// ContentHash decodes PatientHash into the bytes32 sent on chain.
func (n *Notification) ContentHash() ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(n.PatientHash, "0x"))
	if err != nil {
		return out, fmt.Errorf("patient hash is not hex: %w", err)
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("patient hash must be 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// PatientHash derives the anonymized identifier of a patient. Only this
// digest ever leaves the relayer.
func PatientHash(cpf, name, birthDate string) string {
	sum := sha256.Sum256([]byte(cpf + "|" + name + "|" + birthDate))
	return hex.EncodeToString(sum[:])
}

// AuditEntry is a row of the audit trail
type AuditEntry struct {
	ID         int64          `json:"id"`
	UserID     *int64         `json:"userId,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   int64          `json:"entityId"`
	OldValues  map[string]any `json:"oldValues,omitempty"`
	NewValues  map[string]any `json:"newValues,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

const (
	AuditActionSubmit       = "submit_to_blockchain"
	AuditActionConfirm      = "blockchain_confirmed"
	AuditEntityNotification = "death_notification"
)
