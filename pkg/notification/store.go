package notification

import (
	"context"
	"time"
)

// Store persists notifications. The submission methods are conditional
// updates so concurrent submitters and the reconciler never race on a record.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	Get(ctx context.Context, id int64) (*Notification, error)

	// BeginSubmission moves a pending notification without a hash to submitting.
	// It returns ErrSubmissionConflict if another caller already owns it.
	BeginSubmission(ctx context.Context, id int64) error
	// AbortSubmission returns a submitting notification to pending.
	AbortSubmission(ctx context.Context, id int64) error
	// CompleteSubmission stores the broadcast hash and writes the audit entry.
	CompleteSubmission(ctx context.Context, id int64, txHash string, actorID int64, relayer string) error
	// MarkConfirmed flags the notification confirmed if it still carries txHash.
	MarkConfirmed(ctx context.Context, id int64, txHash string, onChainID *int64) (bool, error)

	// ListStalled returns notifications left in submitting since before cutoff.
	ListStalled(ctx context.Context, cutoff time.Time) ([]*Notification, error)
	// ListUnconfirmed returns submitted notifications that carry a hash but
	// are not flagged confirmed, oldest first.
	ListUnconfirmed(ctx context.Context) ([]*Notification, error)
	ListAudit(ctx context.Context, entityID int64) ([]*AuditEntry, error)
}
