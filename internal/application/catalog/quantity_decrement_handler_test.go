package catalog_test

import (
	"context"
	"testing"

	appcatalog "github.com/erp/installments/internal/application/catalog"
	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/event"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/erp/installments/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, qty int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Heater", qty, dec("40"), dec("60"))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(db).Create(context.Background(), p))
	return p
}

func quantityOf(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	p, err := persistence.NewGormProductRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func receiptCreated(lines ...ledger.ReceiptCreatedLine) *ledger.ReceiptCreatedEvent {
	return &ledger.ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ledger.EventTypeReceiptCreated, ledger.AggregateTypeReceipt, 1),
		ReceiptID:       1,
		Lines:           lines,
	}
}

func TestQuantityDecrementHandler_DecrementsEveryLine(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	a := seedProduct(t, db, 5)
	b := seedProduct(t, db, 1)
	handler := appcatalog.NewQuantityDecrementHandler(persistence.NewGormCatalogTransactionScope(db), zap.NewNop())

	assert.Equal(t, []string{ledger.EventTypeReceiptCreated}, handler.EventTypes())

	err := handler.Handle(context.Background(), receiptCreated(
		ledger.ReceiptCreatedLine{ProductID: a.ID, Quantity: 2},
		ledger.ReceiptCreatedLine{ProductID: b.ID, Quantity: 3},
	))

	require.NoError(t, err)
	assert.Equal(t, 3, quantityOf(t, db, a.ID))
	assert.Equal(t, -2, quantityOf(t, db, b.ID), "stock may go negative")
}

func TestQuantityDecrementHandler_UnknownProductRollsBack(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	a := seedProduct(t, db, 5)
	handler := appcatalog.NewQuantityDecrementHandler(persistence.NewGormCatalogTransactionScope(db), zap.NewNop())

	err := handler.Handle(context.Background(), receiptCreated(
		ledger.ReceiptCreatedLine{ProductID: a.ID, Quantity: 2},
		ledger.ReceiptCreatedLine{ProductID: 999, Quantity: 1},
	))

	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, 5, quantityOf(t, db, a.ID))
}

func TestQuantityDecrementHandler_WrongEventType(t *testing.T) {
	handler := appcatalog.NewQuantityDecrementHandler(nil, zap.NewNop())

	err := handler.Handle(context.Background(), testutil.NewTestEvent("Other", 1))

	assert.Error(t, err)
}

func TestQuantityDecrementHandler_RedeliveryDecrementsOnce(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	a := seedProduct(t, db, 5)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	handler := event.NewIdempotentHandler(
		appcatalog.NewQuantityDecrementHandler(persistence.NewGormCatalogTransactionScope(db), zap.NewNop()),
		store,
		zap.NewNop(),
	)

	ev := receiptCreated(ledger.ReceiptCreatedLine{ProductID: a.ID, Quantity: 2})
	require.NoError(t, handler.Handle(context.Background(), ev))
	require.NoError(t, handler.Handle(context.Background(), ev))

	assert.Equal(t, 3, quantityOf(t, db, a.ID))
}
