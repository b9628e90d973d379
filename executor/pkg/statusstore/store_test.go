package statusstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(t.Context(), logger.Test(t), DriverSQLite, filepath.Join(t.TempDir(), "status.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(txHash string, status executor.Status, at time.Time) executor.StatusRecord {
	return executor.StatusRecord{
		ID:          executor.NewRequestID(protocol.ChainIDEthereum, txHash, 0),
		SrcChain:    protocol.ChainIDEthereum,
		TxHash:      txHash,
		RequestType: "ERV1",
		Status:      status,
		UpdatedAt:   at,
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(t.Context(), logger.Test(t), DriverSQLite, "")
	require.ErrorContains(t, err, "dsn cannot be empty")

	_, err = New(t.Context(), logger.Test(t), "mysql", "x")
	require.ErrorContains(t, err, "unsupported storage driver")
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.db")

	first, err := New(t.Context(), logger.Test(t), DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, first.Put(t.Context(), record("0xaa", executor.StatusPending, time.Now())))
	require.NoError(t, first.Close())

	second, err := New(t.Context(), logger.Test(t), DriverSQLite, path)
	require.NoError(t, err)
	defer second.Close()

	rec, err := second.Get(t.Context(), executor.NewRequestID(protocol.ChainIDEthereum, "0xaa", 0))
	require.NoError(t, err)
	assert.Equal(t, executor.StatusPending, rec.Status)
}

func TestStore_GetUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(t.Context(), "0002deadbeef-0")
	require.ErrorIs(t, err, executor.ErrStatusNotFound)
}

func TestStore_PutAndUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pending := record("0xAB01", executor.StatusPending, created)
	require.NoError(t, store.Put(ctx, pending))

	got, err := store.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, executor.RequestID("0002ab01-0"), got.ID)
	assert.Equal(t, protocol.ChainIDEthereum, got.SrcChain)
	assert.Equal(t, "0xAB01", got.TxHash)
	assert.Equal(t, "ERV1", got.RequestType)
	assert.Equal(t, executor.StatusPending, got.Status)
	assert.Nil(t, got.Signatures)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created, got.UpdatedAt)

	submitted := pending
	submitted.Status = executor.StatusSubmitted
	submitted.Signatures = []string{"sig1", "sig2"}
	submitted.UpdatedAt = created.Add(time.Minute)
	require.NoError(t, store.Put(ctx, submitted))

	got, err = store.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, executor.StatusSubmitted, got.Status)
	assert.Equal(t, []string{"sig1", "sig2"}, got.Signatures)
	assert.Equal(t, created, got.CreatedAt, "created time is kept from the first write")
	assert.Equal(t, created.Add(time.Minute), got.UpdatedAt)
}

func TestStore_LogIndexSeparatesRequestsInOneTransaction(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	first := record("0x0a", executor.StatusSubmitted, time.Now())
	second := record("0x0a", executor.StatusPending, time.Now())
	second.LogIndex = 3
	second.ID = executor.NewRequestID(second.SrcChain, second.TxHash, second.LogIndex)
	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, executor.StatusSubmitted, got.Status)
	assert.Equal(t, uint64(0), got.LogIndex)

	got, err = store.Get(ctx, executor.RequestID("00020a-3"))
	require.NoError(t, err)
	assert.Equal(t, executor.StatusPending, got.Status)
	assert.Equal(t, uint64(3), got.LogIndex)
}

func TestStore_FailureCause(t *testing.T) {
	store := newTestStore(t)

	rec := record("0x01", executor.StatusFailed, time.Now())
	rec.FailureCause = "quote expired"
	require.NoError(t, store.Put(t.Context(), rec))

	got, err := store.Get(t.Context(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "quote expired", got.FailureCause)
	assert.True(t, got.Status.IsFinal())
}

func TestStore_ListByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, record("0x03", executor.StatusPending, base.Add(3*time.Second))))
	require.NoError(t, store.Put(ctx, record("0x01", executor.StatusPending, base.Add(1*time.Second))))
	require.NoError(t, store.Put(ctx, record("0x02", executor.StatusSubmitted, base.Add(2*time.Second))))
	require.NoError(t, store.Put(ctx, record("0x04", executor.StatusPending, base.Add(4*time.Second))))

	pending, err := store.ListByStatus(ctx, executor.StatusPending, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "0x01", pending[0].TxHash)
	assert.Equal(t, "0x03", pending[1].TxHash)

	submitted, err := store.ListByStatus(ctx, executor.StatusSubmitted, 10)
	require.NoError(t, err)
	require.Len(t, submitted, 1)

	none, err := store.ListByStatus(ctx, executor.StatusExpired, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	zero, err := store.ListByStatus(ctx, executor.StatusPending, 0)
	require.NoError(t, err)
	assert.Empty(t, zero)
}
