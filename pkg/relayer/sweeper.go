package relayer

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/internal/metrics"
	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/ethereum/contracts"
	"github.com/corneanet/notification-relayer/pkg/ledger"
	"github.com/corneanet/notification-relayer/pkg/notification"
)

// ReceiptSource looks up mined receipts. A nil receipt means the
// transaction is still pending.
type ReceiptSource interface {
	GetReceipt(ctx context.Context, hash common.Hash) (*ethereum.Receipt, error)
}

// BalanceSampler records a balance observation
type BalanceSampler interface {
	Sample(ctx context.Context, reason string) *balance.Sample
}

// Change describes a ledger entry that reached a terminal status
type Change struct {
	LedgerID       int64         `json:"id"`
	TxHash         string        `json:"txHash"`
	NotificationID *int64        `json:"notificationId,omitempty"`
	Status         ledger.Status `json:"newStatus"`
	BlockNumber    uint64        `json:"blockNumber,omitempty"`
}

// Sweeper finalizes pending ledger entries and unconfirmed notifications
// from their receipts. Every write
// it makes is conditional, so sweeps may overlap each other and the
// orchestrator's confirmation waits.
type Sweeper struct {
	chain         ReceiptSource
	ledger        ledger.Store
	notifications notification.Store
	monitor       BalanceSampler
	registry      common.Address
	stalledAfter  time.Duration
	logger        *zap.Logger
}

// NewSweeper creates a Sweeper
func NewSweeper(
	chain ReceiptSource,
	ledgerStore ledger.Store,
	notifications notification.Store,
	monitor BalanceSampler,
	registry common.Address,
	stalledAfter time.Duration,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		chain:         chain,
		ledger:        ledgerStore,
		notifications: notifications,
		monitor:       monitor,
		registry:      registry,
		stalledAfter:  stalledAfter,
		logger:        logger,
	}
}

// Reconcile checks every pending entry, then every broadcast notification
// that is still unconfirmed, and returns the ledger entries that reached a
// terminal status during this sweep.
func (s *Sweeper) Reconcile(ctx context.Context) ([]Change, error) {
	start := time.Now()
	defer func() {
		metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	pending, err := s.ledger.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}

	changes := make([]Change, 0)
	polled := make(map[int64]bool, len(pending))
	for _, entry := range pending {
		if ctx.Err() != nil {
			break
		}
		polled[entry.ID] = true
		if change := s.settle(ctx, entry); change != nil {
			changes = append(changes, *change)
		}
	}
	metrics.PendingTransactions.Set(float64(len(pending) - len(changes)))

	changes = append(changes, s.sweepUnconfirmed(ctx, polled)...)

	if len(changes) > 0 {
		s.logger.Info("Reconciliation finalized transactions", zap.Int("count", len(changes)))
		s.monitor.Sample(ctx, "reconcile")
	}

	return changes, nil
}

// settle fetches the receipt for entry and finalizes it once mined. Errors
// are logged and counted; the entry is retried on the next sweep.
func (s *Sweeper) settle(ctx context.Context, entry *ledger.Entry) *Change {
	receipt, err := s.chain.GetReceipt(ctx, common.HexToHash(entry.TxHash))
	if err != nil {
		s.logger.Warn("Failed to fetch receipt",
			zap.Int64("ledger_id", entry.ID),
			zap.String("tx_hash", entry.TxHash),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("sweeper", errorKind(err)).Inc()
		return nil
	}
	if receipt == nil {
		return nil
	}

	change, err := s.Finalize(ctx, entry, receipt)
	if err != nil {
		s.logger.Error("Failed to finalize transaction",
			zap.Int64("ledger_id", entry.ID),
			zap.String("tx_hash", entry.TxHash),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("sweeper", "persistence").Inc()
		return nil
	}
	return change
}

// sweepUnconfirmed finalizes notifications whose hash is stored but whose
// confirmation never landed: the ledger row was confirmed and the second
// write failed, or the hash never reached the ledger row at all.
func (s *Sweeper) sweepUnconfirmed(ctx context.Context, polled map[int64]bool) []Change {
	records, err := s.notifications.ListUnconfirmed(ctx)
	if err != nil {
		s.logger.Error("Failed to list unconfirmed notifications", zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("sweeper", "persistence").Inc()
		return nil
	}

	var changes []Change
	for _, record := range records {
		if ctx.Err() != nil {
			break
		}

		entry, err := s.entryFor(ctx, record)
		if err != nil {
			s.logger.Error("Failed to resolve ledger entry for notification",
				zap.Int64("notification_id", record.ID),
				zap.String("tx_hash", record.TxHash),
				zap.Error(err))
			metrics.ErrorsTotal.WithLabelValues("sweeper", "persistence").Inc()
			continue
		}
		// polled this sweep, or reverted: the record keeps its hash unconfirmed
		if polled[entry.ID] || entry.Status == ledger.StatusFailed {
			continue
		}

		if change := s.settle(ctx, entry); change != nil {
			changes = append(changes, *change)
		}
	}
	return changes
}

// entryFor returns the ledger entry carrying record's hash. A pending entry
// of the record without a hash gets the hash attached first.
func (s *Sweeper) entryFor(ctx context.Context, record *notification.Notification) (*ledger.Entry, error) {
	entries, err := s.ledger.ListForNotification(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.TxHash == record.TxHash {
			return e, nil
		}
	}
	for _, e := range entries {
		if e.TxHash != "" || e.Status != ledger.StatusPending {
			continue
		}
		if err := s.ledger.AttachHash(ctx, e.ID, record.TxHash); err != nil {
			return nil, fmt.Errorf("failed to attach hash to ledger entry %d: %w", e.ID, err)
		}
		s.logger.Warn("Attached missing hash to ledger entry",
			zap.Int64("ledger_id", e.ID),
			zap.Int64("notification_id", record.ID),
			zap.String("tx_hash", record.TxHash))
		e.TxHash = record.TxHash
		return e, nil
	}
	return nil, fmt.Errorf("%w: no entry for notification %d with hash %s", ledger.ErrEntryNotFound, record.ID, record.TxHash)
}

// Finalize applies a mined receipt to a ledger entry and its notification.
// It returns nil when the entry had already been finalized.
func (s *Sweeper) Finalize(ctx context.Context, entry *ledger.Entry, receipt *ethereum.Receipt) (*Change, error) {
	change := &Change{
		LedgerID:       entry.ID,
		TxHash:         entry.TxHash,
		NotificationID: entry.RelatedNotificationID,
		BlockNumber:    receipt.BlockNumber,
	}

	if !receipt.Success {
		// the notification keeps its hash; only the ledger records the revert
		changed, err := s.ledger.MarkFailed(ctx, entry.ID, fmt.Sprintf("transaction reverted in block %d", receipt.BlockNumber))
		if err != nil {
			return nil, fmt.Errorf("failed to mark transaction %s failed: %w", entry.TxHash, err)
		}
		if !changed {
			return nil, nil
		}
		metrics.ConfirmationsTotal.WithLabelValues(string(ledger.StatusFailed)).Inc()
		s.logger.Warn("Transaction reverted on chain",
			zap.Int64("ledger_id", entry.ID),
			zap.String("tx_hash", entry.TxHash),
			zap.Uint64("block_number", receipt.BlockNumber))
		change.Status = ledger.StatusFailed
		return change, nil
	}

	changed, err := s.ledger.MarkConfirmed(ctx, entry.ID, receipt.BlockNumber, receipt.GasUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to mark transaction %s confirmed: %w", entry.TxHash, err)
	}

	// also runs when the ledger row was already confirmed with this receipt
	if entry.RelatedNotificationID != nil {
		onChainID := s.onChainID(entry, receipt)
		if _, err := s.notifications.MarkConfirmed(ctx, *entry.RelatedNotificationID, entry.TxHash, onChainID); err != nil {
			return nil, fmt.Errorf("failed to confirm notification %d: %w", *entry.RelatedNotificationID, err)
		}
	}

	if !changed {
		return nil, nil
	}

	metrics.ConfirmationsTotal.WithLabelValues(string(ledger.StatusConfirmed)).Inc()
	metrics.GasUsed.Observe(float64(receipt.GasUsed))
	s.logger.Info("Transaction confirmed",
		zap.Int64("ledger_id", entry.ID),
		zap.String("tx_hash", entry.TxHash),
		zap.Uint64("block_number", receipt.BlockNumber),
		zap.Uint64("gas_used", receipt.GasUsed))

	change.Status = ledger.StatusConfirmed
	return change, nil
}

func (s *Sweeper) onChainID(entry *ledger.Entry, receipt *ethereum.Receipt) *int64 {
	id, err := contracts.ParseNotificationID(s.registry, receipt.Logs)
	if err != nil {
		s.logger.Warn("Failed to decode notification id from receipt",
			zap.String("tx_hash", entry.TxHash),
			zap.Error(err))
		return nil
	}
	if id == nil || !id.IsInt64() {
		return nil
	}
	v := id.Int64()
	return &v
}

// ReportStalled counts notifications left in submitting for longer than the
// configured threshold. They need manual attention.
func (s *Sweeper) ReportStalled(ctx context.Context) (int, error) {
	stalled, err := s.notifications.ListStalled(ctx, time.Now().Add(-s.stalledAfter))
	if err != nil {
		return 0, fmt.Errorf("failed to list stalled notifications: %w", err)
	}

	for _, n := range stalled {
		s.logger.Warn("Notification stuck in submitting state",
			zap.Int64("notification_id", n.ID),
			zap.Time("updated_at", n.UpdatedAt))
	}
	metrics.StalledSubmissions.Set(float64(len(stalled)))

	return len(stalled), nil
}
