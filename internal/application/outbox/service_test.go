package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeadLetterRepository struct {
	mock.Mock
}

func (m *MockDeadLetterRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockDeadLetterRepository) Requeue(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDeadLetterRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

func deadEntries(n int) []*shared.OutboxEntry {
	entries := make([]*shared.OutboxEntry, n)
	for i := range entries {
		entries[i] = &shared.OutboxEntry{
			ID:          uuid.New(),
			EventID:     uuid.New(),
			EventType:   "ReceiptCreated",
			AggregateID: int64(i + 1),
			Status:      shared.OutboxStatusDead,
			Payload:     []byte(`{"customer":"x"}`),
			LastError:   "decrement product 4: connection reset",
		}
	}
	return entries
}

func TestService_Stats(t *testing.T) {
	repo := new(MockDeadLetterRepository)
	repo.On("CountByStatus", mock.Anything).Return(map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 3,
		shared.OutboxStatusSent:    40,
		shared.OutboxStatusDead:    2,
	}, nil)

	stats, err := NewService(repo).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &StatsResponse{Pending: 3, Sent: 40, Dead: 2, Total: 45}, stats)
}

func TestService_ListDead(t *testing.T) {
	tests := []struct {
		name     string
		filter   shared.Filter
		page     int
		pageSize int
	}{
		{"defaults", shared.Filter{}, 1, defaultPageSize},
		{"explicit", shared.Filter{Page: 3, PageSize: 10}, 3, 10},
		{"capped", shared.Filter{Page: 1, PageSize: 1000}, 1, maxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDeadLetterRepository)
			repo.On("FindDead", mock.Anything, tt.page, tt.pageSize).Return(deadEntries(2), int64(42), nil)

			result, err := NewService(repo).ListDead(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, result.Items, 2)
			assert.Equal(t, int64(42), result.Total)
			assert.Equal(t, tt.page, result.Page)
			assert.Equal(t, "DEAD", result.Items[0].Status)
			assert.Equal(t, "decrement product 4: connection reset", result.Items[0].LastError)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_RequeueAll(t *testing.T) {
	repo := new(MockDeadLetterRepository)
	entries := deadEntries(3)
	repo.On("FindDead", mock.Anything, 1, maxPageSize).Return(entries, int64(3), nil).Once()
	repo.On("Requeue", mock.Anything, entries[0].ID).Return(nil)
	repo.On("Requeue", mock.Anything, entries[1].ID).Return(errors.New("invalid state"))
	repo.On("Requeue", mock.Anything, entries[2].ID).Return(nil)

	n, err := NewService(repo).RequeueAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	repo.AssertExpectations(t)
}

func TestService_RequeueAllEmpty(t *testing.T) {
	repo := new(MockDeadLetterRepository)
	repo.On("FindDead", mock.Anything, 1, maxPageSize).Return([]*shared.OutboxEntry{}, int64(0), nil)

	n, err := NewService(repo).RequeueAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_RequeuePropagatesNotFound(t *testing.T) {
	repo := new(MockDeadLetterRepository)
	id := uuid.New()
	repo.On("Requeue", mock.Anything, id).Return(shared.ErrNotFound)

	err := NewService(repo).Requeue(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
