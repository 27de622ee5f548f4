package catalog_test

import (
	"context"
	"testing"

	appcatalog "github.com/erp/installments/internal/application/catalog"
	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/erp/installments/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recordedEntries struct {
	entries []*activity.Entry
}

func (r *recordedEntries) Record(_ context.Context, e *activity.Entry) {
	r.entries = append(r.entries, e)
}

func newProductService(t *testing.T) (*appcatalog.ProductService, *recordedEntries) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	rec := &recordedEntries{}
	return appcatalog.NewProductService(persistence.NewGormCatalogTransactionScope(db), rec), rec
}

func TestProductService_CreateStoresFirstSnapshot(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, appcatalog.CreateProductRequest{
		Name:         "Washing machine",
		Quantity:     4,
		BuyPrice:     dec("300"),
		SellingPrice: dec("450"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, product.PriceVersion)

	snapshots, err := svc.ListSnapshots(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 1, snapshots[0].Version)
	assert.True(t, snapshots[0].SellingPrice.Equal(dec("450")))
}

func TestProductService_ChangeAndRevertPrice(t *testing.T) {
	svc, rec := newProductService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, appcatalog.CreateProductRequest{
		Name: "Fridge", Quantity: 2, BuyPrice: dec("500"), SellingPrice: dec("700"),
	})
	require.NoError(t, err)

	changed, err := svc.ChangePrice(ctx, product.ID, appcatalog.ChangePriceRequest{BuyPrice: dec("520"), SellingPrice: dec("760")})
	require.NoError(t, err)
	assert.Equal(t, 2, changed.PriceVersion)

	reverted, err := svc.RevertToSnapshot(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, reverted.PriceVersion)
	assert.True(t, reverted.SellingPrice.Equal(dec("700")))
	assert.True(t, reverted.BuyPrice.Equal(dec("500")))

	snapshots, err := svc.ListSnapshots(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{snapshots[0].Version, snapshots[1].Version, snapshots[2].Version})

	require.Len(t, rec.entries, 2)
	assert.Equal(t, activity.ActionPriceChanged, rec.entries[0].Action)
	assert.Equal(t, activity.ActionPriceReverted, rec.entries[1].Action)
}

func TestProductService_PriceErrors(t *testing.T) {
	svc, rec := newProductService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, appcatalog.CreateProductRequest{
		Name: "Oven", Quantity: 1, BuyPrice: dec("100"), SellingPrice: dec("150"),
	})
	require.NoError(t, err)

	_, err = svc.ChangePrice(ctx, product.ID, appcatalog.ChangePriceRequest{BuyPrice: dec("100"), SellingPrice: dec("150")})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRICE_UNCHANGED", domainErr.Code)

	_, err = svc.RevertToSnapshot(ctx, product.ID, 1)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SNAPSHOT", domainErr.Code)

	_, err = svc.RevertToSnapshot(ctx, product.ID, 9)
	assert.True(t, shared.IsNotFound(err))

	_, err = svc.ChangePrice(ctx, 999, appcatalog.ChangePriceRequest{BuyPrice: dec("1"), SellingPrice: dec("2")})
	assert.True(t, shared.IsNotFound(err))

	got, err := svc.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PriceVersion, "failed changes leave the product untouched")
	assert.Empty(t, rec.entries)
}
