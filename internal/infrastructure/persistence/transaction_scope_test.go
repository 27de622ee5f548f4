package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	appcatalog "github.com/erp/installments/internal/application/catalog"
	appledger "github.com/erp/installments/internal/application/ledger"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/event"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"github.com/erp/installments/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLedgerTransactionScope_CommitWritesOutbox(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	customer := seedCustomer(t, db, "Ali")
	scope := NewGormLedgerTransactionScope(db, event.NewOutboxPublisher(event.NewEventSerializer()))

	var debtID int64
	err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		debt, err := ledger.NewDebt(customer.ID, dec("100"), "")
		if err != nil {
			return err
		}
		if err := repos.Debts().Create(ctx, debt); err != nil {
			return err
		}
		debtID = debt.ID
		if err := debt.Pay(ledger.NewPayment(dec("100"), time.Now(), "")); err != nil {
			return err
		}
		return repos.Events().Record(ctx, debt.GetDomainEvents()...)
	})
	require.NoError(t, err)

	var rows []models.OutboxEntryModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, ledger.EventTypeDebtPaid, rows[0].EventType)
	assert.Equal(t, debtID, rows[0].AggregateID)
}

func TestGormLedgerTransactionScope_RollbackDiscardsEverything(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	customer := seedCustomer(t, db, "Ali")
	scope := NewGormLedgerTransactionScope(db, event.NewOutboxPublisher(event.NewEventSerializer()))
	boom := errors.New("validation failed later")

	err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		debt, err := ledger.NewDebt(customer.ID, dec("100"), "")
		if err != nil {
			return err
		}
		if err := repos.Debts().Create(ctx, debt); err != nil {
			return err
		}
		if err := repos.Events().Record(ctx, testutil.NewTestEvent("TestEvent", debt.ID)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var debts, outbox int64
	require.NoError(t, db.Model(&models.DebtModel{}).Count(&debts).Error)
	require.NoError(t, db.Model(&models.OutboxEntryModel{}).Count(&outbox).Error)
	assert.Zero(t, debts)
	assert.Zero(t, outbox)
}

func TestGormLedgerTransactionScope_NilOutboxDiscardsEvents(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	scope := NewGormLedgerTransactionScope(db, nil)

	err := scope.Execute(context.Background(), func(repos appledger.TransactionalRepositories) error {
		assert.IsType(t, appledger.DiscardEvents{}, repos.Events())
		return repos.Events().Record(context.Background(), testutil.NewTestEvent("TestEvent", 1))
	})

	require.NoError(t, err)
}

func TestGormCatalogTransactionScope_Execute(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Heater", 1, "120")

	err := NewGormCatalogTransactionScope(db).Execute(ctx, func(repos appcatalog.TransactionalRepositories) error {
		locked, err := repos.Products().FindByIDForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		snap, err := locked.ChangePrice(dec("70"), dec("130"))
		if err != nil {
			return err
		}
		if err := repos.Products().SavePrices(ctx, locked); err != nil {
			return err
		}
		return repos.Snapshots().Create(ctx, snap)
	})
	require.NoError(t, err)

	snaps, err := NewGormPriceSnapshotRepository(db).ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].Version)

	err = NewGormCatalogTransactionScope(db).Execute(ctx, func(repos appcatalog.TransactionalRepositories) error {
		_, err := repos.Products().FindByIDForUpdate(ctx, p.ID+1)
		return err
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
