package relayer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/ledger"
	"github.com/corneanet/notification-relayer/pkg/notification"
)

const serviceName = "RelayerService"

// logService wraps Service with logging of the state changing calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the relayer Service.
// Mutating methods log entry, exit and duration; read-only methods log failures only.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) Submit(ctx context.Context, recordID, actorID int64) (n *notification.Notification, err error) {
	start := time.Now()

	ls.logger.Info("Submit started",
		zap.String("service", serviceName),
		zap.String("method", "Submit"),
		zap.Int64("notification_id", recordID),
		zap.Int64("actor_id", actorID),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("Submit failed",
				zap.String("service", serviceName),
				zap.String("method", "Submit"),
				zap.Int64("notification_id", recordID),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}
		ls.logger.Info("Submit completed",
			zap.String("service", serviceName),
			zap.String("method", "Submit"),
			zap.Int64("notification_id", recordID),
			zap.String("tx_hash", n.TxHash),
			zap.Duration("duration", duration),
		)
	}()

	return ls.svc.Submit(ctx, recordID, actorID)
}

func (ls *logService) Relay(ctx context.Context, req *RelayRequest) (res *RelayResult, err error) {
	start := time.Now()

	ls.logger.Info("Relay started",
		zap.String("service", serviceName),
		zap.String("method", "Relay"),
		zap.String("from", req.Request.From.Hex()),
		zap.String("to", req.Request.To.Hex()),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("Relay failed",
				zap.String("service", serviceName),
				zap.String("method", "Relay"),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}
		ls.logger.Info("Relay completed",
			zap.String("service", serviceName),
			zap.String("method", "Relay"),
			zap.String("tx_hash", res.TxHash),
			zap.Int64("ledger_id", res.LedgerID),
			zap.Duration("duration", duration),
		)
	}()

	return ls.svc.Relay(ctx, req)
}

func (ls *logService) Reconcile(ctx context.Context) (changes []Change, err error) {
	start := time.Now()

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("Reconcile failed",
				zap.String("service", serviceName),
				zap.String("method", "Reconcile"),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}
		ls.logger.Info("Reconcile completed",
			zap.String("service", serviceName),
			zap.String("method", "Reconcile"),
			zap.Int("changes", len(changes)),
			zap.Duration("duration", duration),
		)
	}()

	return ls.svc.Reconcile(ctx)
}

func (ls *logService) SampleBalance(ctx context.Context, reason string) (sample *balance.Sample, err error) {
	defer func() {
		if err != nil {
			ls.logger.Error("SampleBalance failed",
				zap.String("service", serviceName),
				zap.String("method", "SampleBalance"),
				zap.String("reason", reason),
				zap.Error(err),
			)
			return
		}
		ls.logger.Info("SampleBalance completed",
			zap.String("service", serviceName),
			zap.String("method", "SampleBalance"),
			zap.String("reason", sample.Reason),
			zap.String("balance", sample.Decimal),
		)
	}()

	return ls.svc.SampleBalance(ctx, reason)
}

func (ls *logService) Status(ctx context.Context) *Status {
	return ls.svc.Status(ctx)
}

func (ls *logService) Balance(ctx context.Context) (*balance.Balance, error) {
	b, err := ls.svc.Balance(ctx)
	if err != nil {
		ls.logFailure("Balance", err)
	}
	return b, err
}

func (ls *logService) CheckBalance(ctx context.Context, units uint64) (*BalanceCheck, error) {
	check, err := ls.svc.CheckBalance(ctx, units)
	if err != nil {
		ls.logFailure("CheckBalance", err)
	}
	return check, err
}

func (ls *logService) ListLedger(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	entries, err := ls.svc.ListLedger(ctx, limit)
	if err != nil {
		ls.logFailure("ListLedger", err)
	}
	return entries, err
}

func (ls *logService) ListBalanceHistory(ctx context.Context, limit int) ([]*balance.Sample, error) {
	samples, err := ls.svc.ListBalanceHistory(ctx, limit)
	if err != nil {
		ls.logFailure("ListBalanceHistory", err)
	}
	return samples, err
}

func (ls *logService) GetNotification(ctx context.Context, id int64) (*notification.Notification, error) {
	n, err := ls.svc.GetNotification(ctx, id)
	if err != nil {
		ls.logFailure("GetNotification", err)
	}
	return n, err
}

func (ls *logService) logFailure(method string, err error) {
	ls.logger.Warn(method+" failed",
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Error(err),
	)
}
