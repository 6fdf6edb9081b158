package balance

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corneanet/notification-relayer/pkg/pgutil"
	mghelper "github.com/corneanet/notification-relayer/pkg/pgutil/migrations"
)

func TestPgStore_PreservesBaseUnits(t *testing.T) {
	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)
	require.NoError(t, mghelper.CreateSchema(ctx, db, &SampleDao{}))

	s := NewStore(db)

	// larger than any float64 can hold exactly
	wei, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	first := &Sample{BaseUnits: wei, Decimal: FormatUnits(wei, 18), Reason: "startup"}
	require.NoError(t, s.Insert(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.RecordedAt.IsZero())

	second := &Sample{BaseUnits: big.NewInt(1), Decimal: "0.000000000000000001", Reason: "reconcile"}
	require.NoError(t, s.Insert(ctx, second))

	samples, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "reconcile", samples[0].Reason)
	assert.Equal(t, 0, samples[1].BaseUnits.Cmp(wei))
}
