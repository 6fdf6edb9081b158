package relayer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/internal/metrics"
	apperrors "github.com/corneanet/notification-relayer/pkg/app/errors"
	"github.com/corneanet/notification-relayer/pkg/ethereum/contracts"
	"github.com/corneanet/notification-relayer/pkg/ledger"
)

// RelayRequest is a user signed meta-transaction for the trusted forwarder
type RelayRequest struct {
	Request   contracts.ForwardRequest
	Signature []byte
}

// RelayResult identifies the broadcast forwarder transaction
type RelayResult struct {
	TxHash   string `json:"txHash"`
	LedgerID int64  `json:"recordId"`
}

// Relay verifies a forward request against the forwarder and pays for its
// execution with the relayer key.
func (o *Orchestrator) Relay(ctx context.Context, req *RelayRequest) (*RelayResult, error) {
	if err := o.checkReady(ctx, o.forwarder, ErrForwarderNotConfigured); err != nil {
		o.countFailure(ledger.TypeRelay, err)
		return nil, translate(err)
	}

	out, err := o.chain.Call(ctx, o.forwarder, o.forwarderABI, contracts.VerifyMethod, req.Request, req.Signature)
	if err != nil {
		o.countFailure(ledger.TypeRelay, err)
		return nil, translate(err)
	}
	if len(out) == 0 {
		return nil, apperrors.GeneralError(fmt.Errorf("forwarder %s returned no verification result", contracts.VerifyMethod))
	}
	if valid, ok := out[0].(bool); !ok || !valid {
		return nil, translate(ErrInvalidSignature)
	}

	from, _ := o.signer.Address()
	entry, err := o.ledger.RecordAttempt(ctx, ledger.Attempt{
		Type: ledger.TypeRelay,
		From: from.Hex(),
		To:   o.forwarder.Hex(),
	})
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to record transaction attempt: %w", err))
	}

	hash, err := o.signer.SignAndSend(ctx, o.forwarder, o.forwarderABI, contracts.ExecuteMethod, req.Request, req.Signature)
	if err != nil {
		o.failAttempt(entry, err)
		o.countFailure(ledger.TypeRelay, err)
		o.logger.Warn("Meta-transaction relay failed",
			zap.String("from", req.Request.From.Hex()),
			zap.String("to", req.Request.To.Hex()),
			zap.Error(err))
		return nil, translate(err)
	}

	txHash := hash.Hex()
	entry.TxHash = txHash
	attached := o.attachHash(context.WithoutCancel(ctx), entry) == nil

	metrics.SubmissionsTotal.WithLabelValues(string(ledger.TypeRelay), "broadcast").Inc()
	o.logger.Info("Meta-transaction relayed",
		zap.String("from", req.Request.From.Hex()),
		zap.String("to", req.Request.To.Hex()),
		zap.String("tx_hash", txHash))

	o.awaitConfirmation(entry, hash, attached)

	return &RelayResult{TxHash: txHash, LedgerID: entry.ID}, nil
}
