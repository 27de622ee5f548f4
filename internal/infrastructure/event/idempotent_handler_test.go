package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *mockIdempotencyStore) Close() error { return nil }

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := testutil.NewMockEventHandler("ReceiptCreated")
	h := NewIdempotentHandler(inner, store, zap.NewNop())
	ev := testutil.NewTestEvent("ReceiptCreated", 1)

	require.NoError(t, h.Handle(context.Background(), ev))
	require.NoError(t, h.Handle(context.Background(), ev))

	assert.Equal(t, 1, inner.HandledCount())
	assert.Equal(t, IdempotencyStats{Processed: 1, Duplicates: 1}, h.Stats())
	assert.Equal(t, []string{"ReceiptCreated"}, h.EventTypes())
}

func TestIdempotentHandler_ReleasesKeyOnFailure(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	boom := errors.New("db down")
	inner := testutil.NewMockEventHandler("ReceiptCreated")
	inner.FailTimes(1, boom)
	h := NewIdempotentHandler(inner, store, zap.NewNop())
	ev := testutil.NewTestEvent("ReceiptCreated", 1)

	require.ErrorIs(t, h.Handle(context.Background(), ev), boom)
	require.NoError(t, h.Handle(context.Background(), ev), "redelivery after failure runs again")
	require.NoError(t, h.Handle(context.Background(), ev))

	assert.Equal(t, 2, inner.HandledCount())
	assert.Equal(t, IdempotencyStats{Processed: 1, Duplicates: 1, Failed: 1}, h.Stats())
}

func TestIdempotentHandler_StoreErrorStillProcesses(t *testing.T) {
	store := new(mockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	inner := testutil.NewMockEventHandler()
	h := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), testutil.NewTestEvent("X", 1)))
	assert.Equal(t, 1, inner.HandledCount())
	store.AssertExpectations(t)
}

func TestIdempotentHandler_KeyIncludesEventType(t *testing.T) {
	store := new(mockIdempotencyStore)
	ev := testutil.NewTestEvent("ReceiptCreated", 1)
	store.On("MarkProcessed", mock.Anything, "ReceiptCreated:"+ev.EventID().String(), 24*time.Hour).Return(true, nil)

	h := NewIdempotentHandler(testutil.NewMockEventHandler(), store, zap.NewNop())
	require.NoError(t, h.Handle(context.Background(), ev))
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := new(mockIdempotencyStore)
	inner := testutil.NewMockEventHandler()
	h := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

	ev := testutil.NewTestEvent("X", 1)
	require.NoError(t, h.Handle(context.Background(), ev))
	require.NoError(t, h.Handle(context.Background(), ev))

	assert.Equal(t, 2, inner.HandledCount())
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}
