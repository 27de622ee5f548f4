package persistence

import (
	"context"
	"testing"

	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name, "+964 770 000 0000", "")
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Create(context.Background(), c))
	return c
}

func seedAgent(t *testing.T, db *gorm.DB, name string) *partner.Agent {
	t.Helper()
	a, err := partner.NewAgent(name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormAgentRepository(db).Create(context.Background(), a))
	return a
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, qty, dec(price).Div(decimal.NewFromInt(2)), dec(price))
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), p))
	return p
}

type lineSpec struct {
	qty      int
	price    string
	firstPay string
}

// seedInstallmentReceipt stores an installment receipt with one monthly plan per line
func seedInstallmentReceipt(t *testing.T, db *gorm.DB, customerID int64, lines ...lineSpec) *ledger.Receipt {
	t.Helper()
	inputs := make([]ledger.LineInput, len(lines))
	for i, l := range lines {
		p := seedProduct(t, db, "Product "+l.price, 10, l.price)
		inputs[i] = ledger.LineInput{
			ProductID:    p.ID,
			Quantity:     l.qty,
			SellingPrice: dec(l.price),
			Plan: &ledger.PlanTerms{
				FirstPay:          dec(l.firstPay),
				PayCount:          4,
				InstallmentAmount: dec("50"),
				Type:              ledger.InstallmentTypeMonthly,
			},
		}
	}
	r, err := ledger.NewReceipt(customerID, ledger.ReceiptTypeInstallment, "", inputs)
	require.NoError(t, err)
	require.NoError(t, NewGormReceiptRepository(db).Create(context.Background(), r))
	return r
}
