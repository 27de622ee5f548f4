package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInstallment(t *testing.T, quantity int, price, firstPay string) *Installment {
	t.Helper()
	inst, err := NewInstallment(10, quantity, d(price), PlanTerms{
		FirstPay:          d(firstPay),
		PayCount:          10,
		InstallmentAmount: d("100"),
		Type:              InstallmentTypeMonthly,
	})
	require.NoError(t, err)
	inst.ID = 1
	return inst
}

// persist mimics the repository assigning ids to new payments
func persist(p *Payment, id int64) *Payment {
	p.ID = id
	return p
}

// ============================================
// Status state machine
// ============================================

func TestInstallment_PayBoundary(t *testing.T) {
	t.Run("1001 rejected", func(t *testing.T) {
		inst := createTestInstallment(t, 1, "1000", "0")
		err := inst.Pay(NewPayment(d("1001"), time.Time{}, ""))
		assertCode(t, err, CodeExceedsRemaining)
		assert.Empty(t, inst.Payments)
		assert.Equal(t, StatusPending, inst.Status)
	})

	t.Run("1000 accepted and settles", func(t *testing.T) {
		inst := createTestInstallment(t, 1, "1000", "0")
		require.NoError(t, inst.Pay(NewPayment(d("1000"), time.Time{}, "")))
		assert.Equal(t, StatusPaid, inst.Status)
		assert.True(t, inst.Remaining().IsZero())
		require.Len(t, inst.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInstallmentPaid, inst.GetDomainEvents()[0].EventType())
	})

	t.Run("999 accepted and stays pending", func(t *testing.T) {
		inst := createTestInstallment(t, 1, "1000", "0")
		require.NoError(t, inst.Pay(NewPayment(d("999"), time.Time{}, "")))
		assert.Equal(t, StatusPending, inst.Status)
		assert.True(t, d("1").Equal(inst.Remaining()))
		assert.Empty(t, inst.GetDomainEvents())
	})
}

func TestInstallment_PaidRejectsNewPayments(t *testing.T) {
	inst := createTestInstallment(t, 2, "250", "100")
	require.NoError(t, inst.Pay(persist(NewPayment(d("400"), time.Time{}, ""), 1)))
	require.Equal(t, StatusPaid, inst.Status)

	assertCode(t, inst.Pay(NewPayment(d("0.01"), time.Time{}, "")), CodeAlreadyPaid)
}

func TestInstallment_UndoLastPaymentReopens(t *testing.T) {
	inst := createTestInstallment(t, 1, "500", "0")
	require.NoError(t, inst.Pay(persist(NewPayment(d("200"), time.Time{}, ""), 1)))
	require.NoError(t, inst.Pay(persist(NewPayment(d("300"), time.Time{}, ""), 2)))
	require.Equal(t, StatusPaid, inst.Status)
	inst.ClearDomainEvents()

	removed, err := inst.UndoPayment(2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), removed.ID)
	assert.Equal(t, StatusPending, inst.Status)
	assert.True(t, d("300").Equal(inst.Remaining()))
	require.Len(t, inst.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeInstallmentReopened, inst.GetDomainEvents()[0].EventType())
}

func TestInstallment_UndoOlderPaymentKeepsStatus(t *testing.T) {
	inst := createTestInstallment(t, 1, "500", "0")
	require.NoError(t, inst.Pay(persist(NewPayment(d("200"), time.Time{}, ""), 1)))
	require.NoError(t, inst.Pay(persist(NewPayment(d("300"), time.Time{}, ""), 2)))

	_, err := inst.UndoPayment(1)
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, inst.Status)
	assert.Len(t, inst.Payments, 1)
}

func TestInstallment_UndoUnknownPayment(t *testing.T) {
	inst := createTestInstallment(t, 1, "500", "0")
	_, err := inst.UndoPayment(99)
	require.Error(t, err)
}

func TestInstallment_ChangePayment(t *testing.T) {
	inst := createTestInstallment(t, 1, "500", "0")
	require.NoError(t, inst.Pay(persist(NewPayment(d("200"), time.Time{}, ""), 1)))

	_, err := inst.ChangePayment(1, d("501"), time.Time{})
	assertCode(t, err, CodeExceedsRemaining)
	assert.True(t, d("200").Equal(inst.Payments[0].Amount))

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pay, err := inst.ChangePayment(1, d("500"), date)
	require.NoError(t, err)
	assert.True(t, d("500").Equal(pay.Amount))
	assert.Equal(t, date, pay.PaymentDate)
	assert.Equal(t, StatusPaid, inst.Status)
}

func TestInstallment_ChangePaymentOnPaidPlan(t *testing.T) {
	inst := createTestInstallment(t, 1, "1000", "0")
	require.NoError(t, inst.Pay(persist(NewPayment(d("600"), time.Time{}, ""), 1)))
	require.NoError(t, inst.Pay(persist(NewPayment(d("400"), time.Time{}, ""), 2)))
	require.Equal(t, StatusPaid, inst.Status)

	_, err := inst.ChangePayment(1, d("500"), time.Time{})
	assertCode(t, err, CodeAlreadyPaid)
	assert.True(t, d("600").Equal(inst.Payments[0].Amount))
	assert.Equal(t, StatusPaid, inst.Status)
	assert.True(t, inst.Remaining().IsZero())

	// nothing is left for a lump payment to land on
	receipt := &Receipt{Lines: []*ReceiptLine{{Installment: inst}}}
	assertCode(t, ValidateReceiptPayment(receipt.LineBalances(), d("100")), CodeNothingOwed)

	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	pay, err := inst.ChangePayment(1, d("600"), date)
	require.NoError(t, err)
	assert.Equal(t, date, pay.PaymentDate)
	assert.Equal(t, StatusPaid, inst.Status)
}

func TestInstallment_FirstPayCoveringTotalStartsPaid(t *testing.T) {
	inst := createTestInstallment(t, 3, "100", "300")
	assert.Equal(t, StatusPaid, inst.Status)
}

func TestInstallment_FirstPayAboveLineTotal(t *testing.T) {
	_, err := NewInstallment(1, 2, d("100"), PlanTerms{FirstPay: d("201"), Type: InstallmentTypeWeekly})
	assertCode(t, err, CodeFirstPayExceedsTotal)
}

func TestInstallment_RemainingNeverNegative(t *testing.T) {
	inst := createTestInstallment(t, 1, "100", "40")
	amounts := []string{"10", "25", "25"}
	for i, a := range amounts {
		require.NoError(t, inst.Pay(persist(NewPayment(d(a), time.Time{}, ""), int64(i+1))))
		assert.False(t, inst.Remaining().IsNegative())
	}
	assert.Equal(t, StatusPaid, inst.Status)
	assert.True(t, inst.Remaining().IsZero())
}

func TestInstallment_IsOverdue(t *testing.T) {
	inst := createTestInstallment(t, 1, "1000", "0")
	inst.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, inst.IsOverdue(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.True(t, inst.IsOverdue(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, inst.Pay(persist(NewPayment(d("100"), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), ""), 1)))
	assert.False(t, inst.IsOverdue(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)))
}

// ============================================
// Debt
// ============================================

func TestDebt_Lifecycle(t *testing.T) {
	debt, err := NewDebt(5, d("300"), "  tools  ")
	require.NoError(t, err)
	debt.ID = 9
	assert.Equal(t, "tools", debt.Note)

	require.NoError(t, debt.Pay(persist(NewPayment(d("100"), time.Time{}, ""), 1)))
	assert.True(t, d("200").Equal(debt.RemainingDebt))
	assert.Equal(t, int64(9), debt.Payments[0].UnitID)

	require.NoError(t, debt.Pay(persist(NewPayment(d("200"), time.Time{}, ""), 2)))
	assert.Equal(t, StatusPaid, debt.Status)
	assert.True(t, debt.RemainingDebt.IsZero())

	_, err = debt.UndoPayment(2)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, debt.Status)
	assert.True(t, d("200").Equal(debt.RemainingDebt))
}

func TestNewDebt_Invalid(t *testing.T) {
	_, err := NewDebt(0, d("10"), "")
	assert.Error(t, err)
	_, err = NewDebt(1, decimal.Zero, "")
	assertCode(t, err, CodeInvalidAmount)
}
