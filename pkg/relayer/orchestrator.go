package relayer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/internal/metrics"
	apperrors "github.com/corneanet/notification-relayer/pkg/app/errors"
	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/config"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/ethereum/contracts"
	"github.com/corneanet/notification-relayer/pkg/ledger"
	"github.com/corneanet/notification-relayer/pkg/notification"
)

var (
	attachRetries       uint64 = 3
	attachRetryInterval        = 100 * time.Millisecond
)

// Signer signs and broadcasts contract calls with the relayer key
type Signer interface {
	IsReady() bool
	Address() (common.Address, bool)
	SignAndSend(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) (common.Hash, error)
}

// ChainClient is the read side of the chain used by the orchestrator
type ChainClient interface {
	ReceiptSource
	WaitForConfirmation(ctx context.Context, hash common.Hash, confirmations uint64, timeout time.Duration) *ethereum.Receipt
	Call(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error)
}

// BalanceMonitor reports whether the relayer can pay for gas
type BalanceMonitor interface {
	BalanceSampler
	HasSufficientBalance(ctx context.Context, units uint64) bool
	Balance(ctx context.Context) (*balance.Balance, error)
	History(ctx context.Context, limit int) ([]*balance.Sample, error)
}

// Orchestrator drives a notification from the database onto the chain.
// A record is claimed with a conditional update before anything is signed,
// so at most one broadcast per record can be in flight.
type Orchestrator struct {
	cfg           *config.RelayerConfig
	registry      common.Address
	forwarder     common.Address
	registryABI   *abi.ABI
	forwarderABI  *abi.ABI
	signer        Signer
	chain         ChainClient
	monitor       BalanceMonitor
	notifications notification.Store
	ledger        ledger.Store
	sweeper       *Sweeper
	logger        *zap.Logger

	// root of the confirmation waits, cancelled by Stop
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates an Orchestrator for the contracts in chainCfg
func NewOrchestrator(
	chainCfg *config.ChainConfig,
	cfg *config.RelayerConfig,
	signer Signer,
	chain ChainClient,
	monitor BalanceMonitor,
	notifications notification.Store,
	ledgerStore ledger.Store,
	sweeper *Sweeper,
	logger *zap.Logger,
) (*Orchestrator, error) {
	registryABI, err := contracts.RegistryABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}
	forwarderABI, err := contracts.ForwarderABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse forwarder ABI: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:           cfg,
		registry:      contractAddress(chainCfg.RegistryContract),
		forwarder:     contractAddress(chainCfg.ForwarderContract),
		registryABI:   registryABI,
		forwarderABI:  forwarderABI,
		signer:        signer,
		chain:         chain,
		monitor:       monitor,
		notifications: notifications,
		ledger:        ledgerStore,
		sweeper:       sweeper,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func contractAddress(hex string) common.Address {
	if hex == "" || !common.IsHexAddress(hex) {
		return common.Address{}
	}
	return common.HexToAddress(hex)
}

// Submit registers a notification on chain and returns the updated record.
// It returns once the transaction is broadcast; confirmation is picked up by
// a background wait or the next reconciliation sweep.
func (o *Orchestrator) Submit(ctx context.Context, recordID, actorID int64) (*notification.Notification, error) {
	start := time.Now()
	defer func() {
		metrics.SubmissionDuration.WithLabelValues(string(ledger.TypeDeathNotification)).Observe(time.Since(start).Seconds())
	}()

	record, err := o.notifications.Get(ctx, recordID)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return nil, translate(ErrNotFound)
		}
		return nil, apperrors.GeneralError(err)
	}
	if record.HasTxHash() {
		return nil, translate(ErrAlreadyRegistered)
	}

	if err := o.checkReady(ctx, o.registry, ErrContractNotConfigured); err != nil {
		o.countFailure(ledger.TypeDeathNotification, err)
		return nil, translate(err)
	}

	if err := o.notifications.BeginSubmission(ctx, recordID); err != nil {
		switch {
		case errors.Is(err, notification.ErrSubmissionConflict):
			return nil, translate(fmt.Errorf("%w: submission already in progress", ErrAlreadyRegistered))
		case errors.Is(err, notification.ErrNotFound):
			return nil, translate(ErrNotFound)
		default:
			return nil, apperrors.GeneralError(err)
		}
	}

	patientHash, err := record.ContentHash()
	if err != nil {
		o.abort(recordID)
		return nil, apperrors.BadRequestError(err, "notification has a malformed patient hash")
	}

	from, _ := o.signer.Address()
	entry, err := o.ledger.RecordAttempt(ctx, ledger.Attempt{
		Type:                  ledger.TypeDeathNotification,
		From:                  from.Hex(),
		To:                    o.registry.Hex(),
		RelatedNotificationID: &recordID,
	})
	if err != nil {
		o.abort(recordID)
		return nil, apperrors.GeneralError(fmt.Errorf("failed to record transaction attempt: %w", err))
	}

	hash, err := o.signer.SignAndSend(ctx, o.registry, o.registryABI, contracts.NotifyDeathMethod,
		patientHash, big.NewInt(record.DeathDatetime.Unix()), "")
	if err != nil {
		o.failAttempt(entry, err)
		o.abort(recordID)
		o.countFailure(ledger.TypeDeathNotification, err)
		o.logger.Warn("Notification submission failed",
			zap.Int64("notification_id", recordID),
			zap.Error(err))
		return nil, translate(err)
	}

	// the transaction is on the wire; caller cancellation must not undo the bookkeeping
	wctx := context.WithoutCancel(ctx)
	txHash := hash.Hex()
	entry.TxHash = txHash

	// an unattached hash is picked up from the notification by the sweeper
	attached := o.attachHash(wctx, entry) == nil

	if err := o.notifications.CompleteSubmission(wctx, recordID, txHash, actorID, from.Hex()); err != nil {
		o.logger.Error("Failed to store hash on notification",
			zap.Int64("notification_id", recordID),
			zap.String("tx_hash", txHash),
			zap.Error(err))
		o.awaitConfirmation(entry, hash, attached)
		return nil, apperrors.GeneralError(err)
	}

	metrics.SubmissionsTotal.WithLabelValues(string(ledger.TypeDeathNotification), "broadcast").Inc()
	o.logger.Info("Notification broadcast",
		zap.Int64("notification_id", recordID),
		zap.Int64("actor_id", actorID),
		zap.String("tx_hash", txHash))

	o.awaitConfirmation(entry, hash, attached)

	updated, err := o.notifications.Get(wctx, recordID)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return updated, nil
}

// checkReady runs the preconditions shared by every broadcast
func (o *Orchestrator) checkReady(ctx context.Context, contract common.Address, unconfigured error) error {
	if !o.signer.IsReady() {
		return ErrRelayerNotConfigured
	}
	if !o.monitor.HasSufficientBalance(ctx, o.cfg.EstimatedGas) {
		return ErrInsufficientBalance
	}
	if ethereum.IsZeroAddress(contract) {
		return unconfigured
	}
	return nil
}

func (o *Orchestrator) abort(recordID int64) {
	if err := o.notifications.AbortSubmission(context.Background(), recordID); err != nil {
		o.logger.Error("Failed to release notification after failed submission",
			zap.Int64("notification_id", recordID),
			zap.Error(err))
	}
}

func (o *Orchestrator) failAttempt(entry *ledger.Entry, cause error) {
	if _, err := o.ledger.MarkFailed(context.Background(), entry.ID, cause.Error()); err != nil {
		o.logger.Error("Failed to mark ledger entry failed",
			zap.Int64("ledger_id", entry.ID),
			zap.Error(err))
	}
}

func (o *Orchestrator) countFailure(txType ledger.Type, err error) {
	metrics.SubmissionsTotal.WithLabelValues(string(txType), "failed").Inc()
	metrics.ErrorsTotal.WithLabelValues("orchestrator", errorKind(err)).Inc()
}

// attachHash stores entry.TxHash on the ledger row, retrying transient
// store failures with backoff. Conflicting hashes are not retried.
func (o *Orchestrator) attachHash(ctx context.Context, entry *ledger.Entry) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(backoff.WithInitialInterval(attachRetryInterval)),
		attachRetries,
	), ctx)

	err := backoff.Retry(func() error {
		err := o.ledger.AttachHash(ctx, entry.ID, entry.TxHash)
		if errors.Is(err, ledger.ErrHashImmutable) ||
			errors.Is(err, ledger.ErrDuplicateHash) ||
			errors.Is(err, ledger.ErrEntryNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil {
		o.logger.Error("Failed to attach hash to ledger entry",
			zap.Int64("ledger_id", entry.ID),
			zap.String("tx_hash", entry.TxHash),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("orchestrator", "persistence").Inc()
	}
	return err
}

// awaitConfirmation waits for the receipt in the background and finalizes
// the entry through the same path the sweeper uses. A hash that could not be
// attached earlier is attached again before finalizing.
func (o *Orchestrator) awaitConfirmation(entry *ledger.Entry, hash common.Hash, attached bool) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		receipt := o.chain.WaitForConfirmation(o.ctx, hash, o.cfg.Confirmations, o.cfg.ConfirmationTimeout)
		if receipt == nil {
			o.logger.Debug("Confirmation not observed, leaving to reconciliation",
				zap.String("tx_hash", entry.TxHash))
			return
		}
		if !attached && o.attachHash(o.ctx, entry) != nil {
			return
		}
		if _, err := o.sweeper.Finalize(o.ctx, entry, receipt); err != nil {
			o.logger.Warn("Failed to finalize confirmed transaction",
				zap.String("tx_hash", entry.TxHash),
				zap.Error(err))
		}
	}()
}

// Stop cancels outstanding confirmation waits and waits for them to return
func (o *Orchestrator) Stop() {
	o.cancel()
	o.wg.Wait()
}
