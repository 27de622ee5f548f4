package event

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOutboxRepository_MarkProcessingSkipsLockedRows(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormOutboxRepository(mdb.DB)

	mdb.Mock.ExpectBegin()
	mdb.Mock.ExpectQuery(`SELECT \* FROM "outbox_entries" WHERE .*id IN .* FOR UPDATE SKIP LOCKED`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mdb.Mock.ExpectCommit()

	claimed, err := repo.MarkProcessing(context.Background(), []uuid.UUID{uuid.New()})

	require.NoError(t, err)
	assert.Empty(t, claimed)
	mdb.ExpectationsWereMet(t)
}

func TestGormOutboxRepository_MarkProcessingEmpty(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormOutboxRepository(mdb.DB)

	claimed, err := repo.MarkProcessing(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, claimed)
	mdb.ExpectationsWereMet(t)
}

func TestGormOutboxRepository_Lifecycle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	pending := shared.NewOutboxEntry(testutil.NewTestEvent("A", 1), []byte(`{}`))
	sent := shared.NewOutboxEntry(testutil.NewTestEvent("B", 2), []byte(`{}`))
	require.NoError(t, repo.Save(ctx, pending, sent))
	require.NoError(t, repo.Save(ctx))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{sent.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)

	again, err := repo.MarkProcessing(ctx, []uuid.UUID{sent.ID})
	require.NoError(t, err)
	assert.Empty(t, again, "processing entries cannot be claimed twice")

	claimed[0].MarkSent()
	old := time.Now().Add(-48 * time.Hour)
	claimed[0].ProcessedAt = &old
	require.NoError(t, repo.Update(ctx, claimed[0]))

	found, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pending.ID, found[0].ID)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 1,
		shared.OutboxStatusSent:    1,
	}, counts)

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	due := shared.NewOutboxEntry(testutil.NewTestEvent("A", 1), []byte(`{}`))
	due.MarkFailed("x")
	past := time.Now().Add(-time.Minute)
	due.NextRetryAt = &past

	later := shared.NewOutboxEntry(testutil.NewTestEvent("B", 2), []byte(`{}`))
	later.MarkFailed("y")
	future := time.Now().Add(time.Hour)
	later.NextRetryAt = &future

	require.NoError(t, repo.Save(ctx, due, later))

	found, err := repo.FindRetryable(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
}

func TestGormOutboxRepository_RequeueErrors(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	err := repo.Requeue(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))

	live := shared.NewOutboxEntry(testutil.NewTestEvent("A", 1), []byte(`{}`))
	require.NoError(t, repo.Save(ctx, live))
	assert.ErrorIs(t, repo.Requeue(ctx, live.ID), shared.ErrInvalidState)
}
