package persistence

import (
	"context"
	"testing"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormActivityRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormActivityRepository(db)

	first := activity.NewEntry("admin", activity.ActionDebtCreated, "debt", 1, dec("500"), "Omar")
	second := activity.NewEntry("", activity.ActionDebtPaid, "debt", 1, dec("100"), "Omar")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	entries, total, err := repo.List(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, "system", entries[0].Actor)
	assert.Contains(t, entries[1].Description, "admin debt created #1 amount 500.00 for Omar")

	asc, _, err := repo.List(ctx, shared.Filter{Page: 1, PageSize: 1, OrderBy: "id", OrderDir: "asc"})
	require.NoError(t, err)
	require.Len(t, asc, 1)
	assert.Equal(t, first.ID, asc[0].ID)
}
