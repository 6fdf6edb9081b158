package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corneanet/notification-relayer/pkg/pgutil"
	mghelper "github.com/corneanet/notification-relayer/pkg/pgutil/migrations"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &NotificationDao{}, &AuditDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func createNotification(t *testing.T, ctx context.Context, s *pgStore) *Notification {
	t.Helper()
	n := &Notification{
		PatientHash:   PatientHash("12345678900", "Maria da Silva", "1950-03-12"),
		DeathDatetime: time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, s.Create(ctx, n))
	require.NotZero(t, n.ID)
	return n
}

func TestPgStore_CreateAndGet(t *testing.T) {
	ctx, s := setupStore(t)
	n := createNotification(t, ctx, s)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.False(t, got.HasTxHash())
	assert.False(t, got.Confirmed)
	assert.Equal(t, int64(1700000000), got.DeathDatetime.Unix())

	_, err = s.Get(ctx, n.ID+100)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPgStore_SubmissionLifecycle(t *testing.T) {
	ctx, s := setupStore(t)
	n := createNotification(t, ctx, s)

	require.NoError(t, s.BeginSubmission(ctx, n.ID))
	require.ErrorIs(t, s.BeginSubmission(ctx, n.ID), ErrSubmissionConflict)

	// failure before broadcast returns the record to pending
	require.NoError(t, s.AbortSubmission(ctx, n.ID))
	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	require.NoError(t, s.BeginSubmission(ctx, n.ID))
	require.NoError(t, s.CompleteSubmission(ctx, n.ID, "0xdeadbeef", 7, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))

	got, err = s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, got.Status)
	assert.Equal(t, "0xdeadbeef", got.TxHash)
	assert.False(t, got.Confirmed)

	// a registered record can never re-enter submission
	require.ErrorIs(t, s.BeginSubmission(ctx, n.ID), ErrSubmissionConflict)
	require.ErrorIs(t, s.AbortSubmission(ctx, n.ID), ErrSubmissionConflict)

	audit, err := s.ListAudit(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, AuditActionSubmit, audit[0].Action)
	require.NotNil(t, audit[0].UserID)
	assert.Equal(t, int64(7), *audit[0].UserID)
	assert.Equal(t, "0xdeadbeef", audit[0].NewValues["txHash"])

	require.ErrorIs(t, s.BeginSubmission(ctx, 9999), ErrNotFound)
}

func TestPgStore_ConcurrentBeginSubmission(t *testing.T) {
	ctx, s := setupStore(t)
	n := createNotification(t, ctx, s)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.BeginSubmission(ctx, n.ID); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrSubmissionConflict)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestPgStore_MarkConfirmed(t *testing.T) {
	ctx, s := setupStore(t)
	n := createNotification(t, ctx, s)
	require.NoError(t, s.BeginSubmission(ctx, n.ID))
	require.NoError(t, s.CompleteSubmission(ctx, n.ID, "0xabc", 1, "0x01"))

	changed, err := s.MarkConfirmed(ctx, n.ID, "0xother", nil)
	require.NoError(t, err)
	assert.False(t, changed)

	onChainID := int64(12)
	changed, err = s.MarkConfirmed(ctx, n.ID, "0xabc", &onChainID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.MarkConfirmed(ctx, n.ID, "0xabc", nil)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
	assert.Equal(t, StatusConfirmed, got.Status)
	require.NotNil(t, got.OnChainID)
	assert.Equal(t, int64(12), *got.OnChainID)

	audit, err := s.ListAudit(ctx, n.ID)
	require.NoError(t, err)
	assert.Len(t, audit, 2)
}

func TestPgStore_ListStalled(t *testing.T) {
	ctx, s := setupStore(t)
	stalled := createNotification(t, ctx, s)
	idle := createNotification(t, ctx, s)
	require.NoError(t, s.BeginSubmission(ctx, stalled.ID))

	got, err := s.ListStalled(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stalled.ID, got[0].ID)
	assert.NotEqual(t, idle.ID, got[0].ID)

	got, err = s.ListStalled(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPgStore_ListUnconfirmed(t *testing.T) {
	ctx, s := setupStore(t)

	broadcast := createNotification(t, ctx, s)
	require.NoError(t, s.BeginSubmission(ctx, broadcast.ID))
	require.NoError(t, s.CompleteSubmission(ctx, broadcast.ID, "0xa1", 1, "0x01"))

	confirmed := createNotification(t, ctx, s)
	require.NoError(t, s.BeginSubmission(ctx, confirmed.ID))
	require.NoError(t, s.CompleteSubmission(ctx, confirmed.ID, "0xa2", 1, "0x01"))
	_, err := s.MarkConfirmed(ctx, confirmed.ID, "0xa2", nil)
	require.NoError(t, err)

	inFlight := createNotification(t, ctx, s)
	require.NoError(t, s.BeginSubmission(ctx, inFlight.ID))
	createNotification(t, ctx, s)

	got, err := s.ListUnconfirmed(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, broadcast.ID, got[0].ID)
	assert.Equal(t, "0xa1", got[0].TxHash)
}
