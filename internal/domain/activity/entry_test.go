package activity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewEntry_Description(t *testing.T) {
	e := NewEntry("admin", ActionInstallmentPaid, "installment", 12, decimal.NewFromInt(250), "Ali Hassan")
	assert.Equal(t, "admin installment payment created #12 amount 250.00 for Ali Hassan", e.Description)

	anon := NewEntry(" ", ActionTransactionDeleted, "financial_transaction", 3, decimal.Zero, "")
	assert.Equal(t, "system", anon.Actor)
	assert.Equal(t, "system transaction deleted #3", anon.Description)
}
