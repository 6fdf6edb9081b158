package relayer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/ledger"
	"github.com/corneanet/notification-relayer/pkg/notification"
)

// MockSigner is a mock implementation of Signer
type MockSigner struct {
	Ready           bool
	Addr            common.Address
	SignAndSendFunc func(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) (common.Hash, error)

	mu    sync.Mutex
	calls int
}

func (m *MockSigner) IsReady() bool { return m.Ready }

func (m *MockSigner) Address() (common.Address, bool) { return m.Addr, m.Ready }

func (m *MockSigner) SignAndSend(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) (common.Hash, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.SignAndSendFunc != nil {
		return m.SignAndSendFunc(ctx, contract, contractABI, method, args...)
	}
	return common.Hash{}, errors.New("not implemented")
}

func (m *MockSigner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockChain is a mock implementation of ChainClient
type MockChain struct {
	GetReceiptFunc          func(ctx context.Context, hash common.Hash) (*ethereum.Receipt, error)
	WaitForConfirmationFunc func(ctx context.Context, hash common.Hash, confirmations uint64, timeout time.Duration) *ethereum.Receipt
	CallFunc                func(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error)
}

func (m *MockChain) GetReceipt(ctx context.Context, hash common.Hash) (*ethereum.Receipt, error) {
	if m.GetReceiptFunc != nil {
		return m.GetReceiptFunc(ctx, hash)
	}
	return nil, nil
}

func (m *MockChain) WaitForConfirmation(ctx context.Context, hash common.Hash, confirmations uint64, timeout time.Duration) *ethereum.Receipt {
	if m.WaitForConfirmationFunc != nil {
		return m.WaitForConfirmationFunc(ctx, hash, confirmations, timeout)
	}
	return nil
}

func (m *MockChain) Call(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error) {
	if m.CallFunc != nil {
		return m.CallFunc(ctx, contract, contractABI, method, args...)
	}
	return nil, errors.New("not implemented")
}

// MockMonitor is a mock implementation of BalanceMonitor
type MockMonitor struct {
	Sufficient  bool
	BalanceFunc func(ctx context.Context) (*balance.Balance, error)

	mu           sync.Mutex
	reasons      []string
	historyLimit int
}

func (m *MockMonitor) Sample(_ context.Context, reason string) *balance.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reasons = append(m.reasons, reason)
	return &balance.Sample{Decimal: "1", Reason: reason, RecordedAt: time.Now()}
}

func (m *MockMonitor) HasSufficientBalance(context.Context, uint64) bool { return m.Sufficient }

func (m *MockMonitor) Balance(ctx context.Context) (*balance.Balance, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx)
	}
	return &balance.Balance{BaseUnits: "1000000000000000000", Decimal: "1"}, nil
}

func (m *MockMonitor) History(_ context.Context, limit int) ([]*balance.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyLimit = limit
	return nil, nil
}

func (m *MockMonitor) Reasons() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reasons...)
}

// memNotifications is an in-memory notification.Store with the same
// conditional update semantics as the postgres store
type memNotifications struct {
	mu      sync.Mutex
	records map[int64]*notification.Notification
	audit   []*notification.AuditEntry
	nextID  int64

	completeErr error
	confirmErr  error
}

func (m *memNotifications) setConfirmErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmErr = err
}

func newMemNotifications() *memNotifications {
	return &memNotifications{records: make(map[int64]*notification.Notification)}
}

func (m *memNotifications) Create(_ context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	n.ID = m.nextID
	if n.Status == "" {
		n.Status = notification.StatusPending
	}
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	cp := *n
	m.records[n.ID] = &cp
	return nil
}

func (m *memNotifications) put(n *notification.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.Status == "" {
		n.Status = notification.StatusPending
	}
	cp := *n
	m.records[n.ID] = &cp
}

func (m *memNotifications) Get(_ context.Context, id int64) (*notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.records[id]
	if !ok {
		return nil, notification.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNotifications) BeginSubmission(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.records[id]
	if !ok {
		return notification.ErrNotFound
	}
	if n.Status != notification.StatusPending || n.TxHash != "" {
		return notification.ErrSubmissionConflict
	}
	n.Status = notification.StatusSubmitting
	n.UpdatedAt = time.Now()
	return nil
}

func (m *memNotifications) AbortSubmission(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.records[id]
	if !ok {
		return notification.ErrNotFound
	}
	if n.Status != notification.StatusSubmitting || n.TxHash != "" {
		return notification.ErrSubmissionConflict
	}
	n.Status = notification.StatusPending
	return nil
}

func (m *memNotifications) CompleteSubmission(_ context.Context, id int64, txHash string, actorID int64, relayer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completeErr != nil {
		return m.completeErr
	}
	n, ok := m.records[id]
	if !ok {
		return notification.ErrNotFound
	}
	if n.Status != notification.StatusSubmitting || n.TxHash != "" {
		return notification.ErrSubmissionConflict
	}
	n.Status = notification.StatusSubmitted
	n.TxHash = txHash
	n.Confirmed = false
	n.NotifiedBy = &actorID
	m.audit = append(m.audit, &notification.AuditEntry{
		UserID:     &actorID,
		Action:     notification.AuditActionSubmit,
		EntityType: notification.AuditEntityNotification,
		EntityID:   id,
		NewValues:  map[string]any{"txHash": txHash, "relayer": relayer},
	})
	return nil
}

func (m *memNotifications) MarkConfirmed(_ context.Context, id int64, txHash string, onChainID *int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	n, ok := m.records[id]
	if !ok || n.TxHash != txHash || n.Confirmed {
		return false, nil
	}
	n.Confirmed = true
	n.Status = notification.StatusConfirmed
	n.OnChainID = onChainID
	return true, nil
}

func (m *memNotifications) ListStalled(_ context.Context, cutoff time.Time) ([]*notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*notification.Notification
	for _, n := range m.records {
		if n.Status == notification.StatusSubmitting && n.UpdatedAt.Before(cutoff) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memNotifications) ListUnconfirmed(context.Context) ([]*notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*notification.Notification
	for _, n := range m.records {
		if n.Status == notification.StatusSubmitted && n.TxHash != "" && !n.Confirmed {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memNotifications) ListAudit(_ context.Context, entityID int64) ([]*notification.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*notification.AuditEntry
	for _, a := range m.audit {
		if a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}

// memLedger is an in-memory ledger.Store. Terminal updates return
// ledger.ErrInvalidTransition on conflict like the postgres store.
type memLedger struct {
	mu      sync.Mutex
	entries map[int64]*ledger.Entry
	nextID  int64

	recordErr   error
	attachErr   error
	attachCalls int
}

func (m *memLedger) setAttachErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachErr = err
}

func (m *memLedger) AttachCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attachCalls
}

func newMemLedger() *memLedger {
	return &memLedger{entries: make(map[int64]*ledger.Entry)}
}

func (m *memLedger) RecordAttempt(_ context.Context, attempt ledger.Attempt) (*ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	m.nextID++
	e := &ledger.Entry{
		ID:                    m.nextID,
		AttemptID:             uuid.NewString(),
		Type:                  attempt.Type,
		From:                  attempt.From,
		To:                    attempt.To,
		Status:                ledger.StatusPending,
		RelatedNotificationID: attempt.RelatedNotificationID,
		CreatedAt:             time.Now(),
	}
	m.entries[e.ID] = e
	cp := *e
	return &cp, nil
}

func (m *memLedger) AttachHash(_ context.Context, id int64, txHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachCalls++
	if m.attachErr != nil {
		return m.attachErr
	}
	e, ok := m.entries[id]
	if !ok {
		return ledger.ErrEntryNotFound
	}
	if e.TxHash != "" && e.TxHash != txHash {
		return ledger.ErrHashImmutable
	}
	for _, other := range m.entries {
		if other.ID != id && other.TxHash == txHash {
			return ledger.ErrDuplicateHash
		}
	}
	e.TxHash = txHash
	return nil
}

func (m *memLedger) MarkFailed(_ context.Context, id int64, errText string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return false, ledger.ErrEntryNotFound
	}
	if e.Status != ledger.StatusPending {
		if e.Status == ledger.StatusFailed && e.ErrorMessage == errText {
			return false, nil
		}
		return false, fmt.Errorf("%w: entry %d is %s, cannot fail", ledger.ErrInvalidTransition, id, e.Status)
	}
	e.Status = ledger.StatusFailed
	e.ErrorMessage = errText
	return true, nil
}

func (m *memLedger) MarkConfirmed(_ context.Context, id int64, blockNumber, gasUsed uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return false, ledger.ErrEntryNotFound
	}
	if e.Status != ledger.StatusPending || e.TxHash == "" {
		if e.Status == ledger.StatusConfirmed &&
			e.BlockNumber != nil && *e.BlockNumber == blockNumber &&
			e.GasUsed != nil && *e.GasUsed == gasUsed {
			return false, nil
		}
		return false, fmt.Errorf("%w: entry %d is %s, cannot confirm at block %d", ledger.ErrInvalidTransition, id, e.Status, blockNumber)
	}
	now := time.Now()
	e.Status = ledger.StatusConfirmed
	e.BlockNumber = &blockNumber
	e.GasUsed = &gasUsed
	e.ConfirmedAt = &now
	return true, nil
}

func (m *memLedger) ListPending(_ context.Context) ([]*ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ledger.Entry
	for _, e := range m.entries {
		if e.Status == ledger.StatusPending && e.TxHash != "" {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memLedger) ListForNotification(_ context.Context, notificationID int64) ([]*ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ledger.Entry
	for _, e := range m.entries {
		if e.RelatedNotificationID != nil && *e.RelatedNotificationID == notificationID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memLedger) ListRecent(_ context.Context, limit int) ([]*ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ledger.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memLedger) Get(_ context.Context, id int64) (*ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ledger.ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}
