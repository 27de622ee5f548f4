package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository_FindByIDs(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormCustomerRepository(db)
	ali := seedCustomer(t, db, "Ali Hassan")
	sara := seedCustomer(t, db, "Sara")

	found, err := repo.FindByIDs(ctx, []int64{ali.ID, sara.ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Ali Hassan", found[ali.ID].Name)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAgentRepository_FindByIDForUpdate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	agent := seedAgent(t, db, "Karim Trading")

	locked, err := NewGormAgentRepository(db).FindByIDForUpdate(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Karim Trading", locked.Name)
}

func TestGormAgentRepository_LockSQL(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	mdb.Mock.ExpectQuery(`SELECT \* FROM "agents" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(4, "Karim"))

	agent, err := NewGormAgentRepository(mdb.DB).FindByIDForUpdate(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, int64(4), agent.ID)
	mdb.ExpectationsWereMet(t)
}
