// Package balance samples the relayer's native balance and answers whether
// it can afford another submission.
package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/internal/metrics"
)

// Sample is one point of the relayer balance time series
type Sample struct {
	ID         int64     `json:"id"`
	BaseUnits  *big.Int  `json:"-"`
	Decimal    string    `json:"balanceEth"`
	Reason     string    `json:"reason"`
	RecordedAt time.Time `json:"recordedAt"`
}

// MarshalJSON renders the base unit amount as a string
func (s *Sample) MarshalJSON() ([]byte, error) {
	type alias Sample
	return json.Marshal(struct {
		BalanceWei string `json:"balanceWei"`
		*alias
	}{
		BalanceWei: s.BalanceWei(),
		alias:      (*alias)(s),
	})
}

// Balance is a string rendering of an amount, safe across JSON boundaries
type Balance struct {
	BaseUnits string `json:"baseUnits"`
	Decimal   string `json:"decimal"`
}

// BalanceWei is the base unit amount as a decimal string
func (s *Sample) BalanceWei() string {
	if s.BaseUnits == nil {
		return "0"
	}
	return s.BaseUnits.String()
}

// ChainReader is the chain access the monitor needs
type ChainReader interface {
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)
	EstimateFeeCeiling(ctx context.Context) *big.Int
}

// AddressSource yields the relayer address; false when no key is configured.
type AddressSource interface {
	Address() (common.Address, bool)
}

// Monitor samples the relayer balance
type Monitor struct {
	chain    ChainReader
	signer   AddressSource
	store    Store
	decimals int32
	logger   *zap.Logger
}

// NewMonitor creates a balance monitor
func NewMonitor(chain ChainReader, signer AddressSource, store Store, decimals int32, logger *zap.Logger) *Monitor {
	return &Monitor{
		chain:    chain,
		signer:   signer,
		store:    store,
		decimals: decimals,
		logger:   logger,
	}
}

func (m *Monitor) current(ctx context.Context) (*big.Int, error) {
	addr, ok := m.signer.Address()
	if !ok {
		return nil, fmt.Errorf("relayer address unavailable: no signing key configured")
	}
	return m.chain.GetBalance(ctx, addr)
}

// Sample reads and persists the current balance. It never fails: when the
// balance cannot be read it returns an unpersisted zero sample whose reason
// carries the failure.
func (m *Monitor) Sample(ctx context.Context, reason string) *Sample {
	wei, err := m.current(ctx)
	if err != nil {
		m.logger.Warn("Failed to sample relayer balance", zap.String("reason", reason), zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("balance", "sample").Inc()
		return &Sample{
			BaseUnits:  new(big.Int),
			Decimal:    "0",
			Reason:     fmt.Sprintf("%s: %v", reason, err),
			RecordedAt: time.Now().UTC(),
		}
	}

	sample := &Sample{
		BaseUnits:  wei,
		Decimal:    FormatUnits(wei, m.decimals),
		Reason:     reason,
		RecordedAt: time.Now().UTC(),
	}
	metrics.RelayerBalance.Set(toFloat(wei))

	if err := m.store.Insert(ctx, sample); err != nil {
		m.logger.Error("Failed to persist balance sample", zap.String("reason", reason), zap.Error(err))
		return sample
	}

	m.logger.Info("Relayer balance recorded",
		zap.String("balance", sample.Decimal),
		zap.String("reason", reason))
	return sample
}

// HasSufficientBalance reports whether balance > units * fee ceiling. Any
// failure to read the balance counts as insufficient.
func (m *Monitor) HasSufficientBalance(ctx context.Context, units uint64) bool {
	wei, err := m.current(ctx)
	if err != nil {
		m.logger.Warn("Liveness check could not read balance", zap.Error(err))
		return false
	}
	fee := m.chain.EstimateFeeCeiling(ctx)
	if fee == nil {
		return false
	}
	required := new(big.Int).Mul(new(big.Int).SetUint64(units), fee)
	return wei.Cmp(required) > 0
}

// Balance returns the current balance. A relayer without a key reports zero.
func (m *Monitor) Balance(ctx context.Context) (*Balance, error) {
	addr, ok := m.signer.Address()
	if !ok {
		return &Balance{BaseUnits: "0", Decimal: "0"}, nil
	}
	wei, err := m.chain.GetBalance(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &Balance{BaseUnits: wei.String(), Decimal: FormatUnits(wei, m.decimals)}, nil
}

// History returns persisted samples, newest first
func (m *Monitor) History(ctx context.Context, limit int) ([]*Sample, error) {
	return m.store.List(ctx, limit)
}

// FormatUnits renders base units as a decimal amount with the given number of decimals.
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

func toSample(dao *SampleDao) (*Sample, error) {
	wei, ok := new(big.Int).SetString(dao.BalanceWei, 10)
	if !ok {
		return nil, fmt.Errorf("invalid stored balance %q for sample %d", dao.BalanceWei, dao.ID)
	}
	return &Sample{
		ID:         dao.ID,
		BaseUnits:  wei,
		Decimal:    dao.BalanceEth,
		Reason:     dao.ChangeReason,
		RecordedAt: dao.RecordedAt,
	}, nil
}

func toFloat(wei *big.Int) float64 {
	f, _ := new(big.Float).SetInt(wei).Float64()
	return f
}
