package relayer

import (
	"context"
	"errors"

	apperrors "github.com/corneanet/notification-relayer/pkg/app/errors"
	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/config"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/ledger"
	"github.com/corneanet/notification-relayer/pkg/notification"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// Status describes the relayer configuration as seen by operators
type Status struct {
	Configured       bool    `json:"configured"`
	Address          *string `json:"address"`
	ChainID          int64   `json:"chainId"`
	RegistryAddress  string  `json:"registryContract,omitempty"`
	ForwarderAddress string  `json:"forwarderContract,omitempty"`
}

// BalanceCheck reports whether the relayer can pay for a call of a given size
type BalanceCheck struct {
	HasEnoughBalance bool             `json:"hasEnoughBalance"`
	CurrentBalance   *balance.Balance `json:"currentBalance"`
}

// Service is the relayer API consumed by the HTTP layer
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	Submit(ctx context.Context, recordID, actorID int64) (*notification.Notification, error)
	Relay(ctx context.Context, req *RelayRequest) (*RelayResult, error)
	Reconcile(ctx context.Context) ([]Change, error)
	SampleBalance(ctx context.Context, reason string) (*balance.Sample, error)
	Status(ctx context.Context) *Status
	Balance(ctx context.Context) (*balance.Balance, error)
	CheckBalance(ctx context.Context, units uint64) (*BalanceCheck, error)
	ListLedger(ctx context.Context, limit int) ([]*ledger.Entry, error)
	ListBalanceHistory(ctx context.Context, limit int) ([]*balance.Sample, error)
	GetNotification(ctx context.Context, id int64) (*notification.Notification, error)
}

type service struct {
	chainCfg      *config.ChainConfig
	relayerCfg    *config.RelayerConfig
	orchestrator  *Orchestrator
	sweeper       *Sweeper
	signer        Signer
	monitor       BalanceMonitor
	ledger        ledger.Store
	notifications notification.Store
}

// NewService assembles the relayer Service
func NewService(
	chainCfg *config.ChainConfig,
	relayerCfg *config.RelayerConfig,
	orchestrator *Orchestrator,
	sweeper *Sweeper,
	signer Signer,
	monitor BalanceMonitor,
	ledgerStore ledger.Store,
	notifications notification.Store,
) Service {
	return &service{
		chainCfg:      chainCfg,
		relayerCfg:    relayerCfg,
		orchestrator:  orchestrator,
		sweeper:       sweeper,
		signer:        signer,
		monitor:       monitor,
		ledger:        ledgerStore,
		notifications: notifications,
	}
}

func (s *service) Submit(ctx context.Context, recordID, actorID int64) (*notification.Notification, error) {
	return s.orchestrator.Submit(ctx, recordID, actorID)
}

func (s *service) Relay(ctx context.Context, req *RelayRequest) (*RelayResult, error) {
	return s.orchestrator.Relay(ctx, req)
}

func (s *service) Reconcile(ctx context.Context) ([]Change, error) {
	changes, err := s.sweeper.Reconcile(ctx)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return changes, nil
}

func (s *service) SampleBalance(ctx context.Context, reason string) (*balance.Sample, error) {
	if !s.signer.IsReady() {
		return nil, translate(ErrRelayerNotConfigured)
	}
	return s.monitor.Sample(ctx, reason), nil
}

func (s *service) Status(_ context.Context) *Status {
	status := &Status{
		Configured: s.signer.IsReady(),
		ChainID:    s.chainCfg.ChainID,
	}
	if addr, ok := s.signer.Address(); ok {
		hex := addr.Hex()
		status.Address = &hex
	}
	if registry := contractAddress(s.chainCfg.RegistryContract); !ethereum.IsZeroAddress(registry) {
		status.RegistryAddress = registry.Hex()
	}
	if forwarder := contractAddress(s.chainCfg.ForwarderContract); !ethereum.IsZeroAddress(forwarder) {
		status.ForwarderAddress = forwarder.Hex()
	}
	return status
}

func (s *service) Balance(ctx context.Context) (*balance.Balance, error) {
	b, err := s.monitor.Balance(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func (s *service) CheckBalance(ctx context.Context, units uint64) (*BalanceCheck, error) {
	if units == 0 {
		units = s.relayerCfg.EstimatedGas
	}
	current, err := s.monitor.Balance(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return &BalanceCheck{
		HasEnoughBalance: s.monitor.HasSufficientBalance(ctx, units),
		CurrentBalance:   current,
	}, nil
}

func (s *service) ListLedger(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	entries, err := s.ledger.ListRecent(ctx, ledger.ClampLimit(limit))
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return entries, nil
}

func (s *service) ListBalanceHistory(ctx context.Context, limit int) ([]*balance.Sample, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	samples, err := s.monitor.History(ctx, limit)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return samples, nil
}

func (s *service) GetNotification(ctx context.Context, id int64) (*notification.Notification, error) {
	n, err := s.notifications.Get(ctx, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return nil, translate(ErrNotFound)
		}
		return nil, apperrors.GeneralError(err)
	}
	return n, nil
}
