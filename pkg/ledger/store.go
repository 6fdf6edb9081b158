package ledger

import "context"

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Store is the durable transaction ledger
type Store interface {
	// RecordAttempt inserts a pending entry with no hash.
	RecordAttempt(ctx context.Context, attempt Attempt) (*Entry, error)
	// AttachHash sets the transaction hash once. Re-attaching the same hash is a no-op.
	AttachHash(ctx context.Context, id int64, txHash string) error
	// MarkFailed moves a pending entry to failed. The bool reports whether the row changed.
	MarkFailed(ctx context.Context, id int64, errText string) (bool, error)
	// MarkConfirmed moves a pending entry with a hash to confirmed. The bool reports whether the row changed.
	MarkConfirmed(ctx context.Context, id int64, blockNumber, gasUsed uint64) (bool, error)
	// ListPending returns pending entries that have a hash, oldest first.
	ListPending(ctx context.Context) ([]*Entry, error)
	// ListForNotification returns every entry related to a notification, newest first.
	ListForNotification(ctx context.Context, notificationID int64) ([]*Entry, error)
	// ListRecent returns the newest entries first.
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
	Get(ctx context.Context, id int64) (*Entry, error)
}

// ClampLimit normalizes a caller supplied page size
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
