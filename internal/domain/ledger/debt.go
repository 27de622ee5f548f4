package ledger

import (
	"strings"
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Debt is a standalone amount owed by a customer
type Debt struct {
	shared.BaseAggregateRoot
	Payable

	CustomerID    int64
	RemainingDebt decimal.Decimal
	Note          string
}

// NewDebt creates a new debt
func NewDebt(customerID int64, total decimal.Decimal, note string) (*Debt, error) {
	if customerID <= 0 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if !total.IsPositive() {
		return nil, NewValidationError(CodeInvalidAmount, "Debt total must be greater than zero")
	}
	if err := validateCents(total); err != nil {
		return nil, err
	}
	return &Debt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Payable: Payable{
			Total:    total,
			FirstPay: decimal.Zero,
			Status:   StatusPending,
			Payments: make([]*Payment, 0),
		},
		CustomerID:    customerID,
		RemainingDebt: total,
		Note:          strings.TrimSpace(note),
	}, nil
}

// Pay records a payment against the debt
func (d *Debt) Pay(payment *Payment) error {
	payment.UnitID = d.ID
	settled, err := d.RecordPayment(payment)
	if err != nil {
		return err
	}
	d.refresh()
	if settled {
		d.AddDomainEvent(NewDebtPaidEvent(d))
	}
	return nil
}

// ChangePayment edits one of the debt's payments
func (d *Debt) ChangePayment(paymentID int64, amount decimal.Decimal, paymentDate time.Time) (*Payment, error) {
	pay, settled, err := d.EditPayment(paymentID, amount, paymentDate)
	if err != nil {
		return nil, err
	}
	d.refresh()
	if settled {
		d.AddDomainEvent(NewDebtPaidEvent(d))
	}
	return pay, nil
}

// UndoPayment removes one of the debt's payments
func (d *Debt) UndoPayment(paymentID int64) (*Payment, error) {
	pay, _, err := d.RemovePayment(paymentID)
	if err != nil {
		return nil, err
	}
	d.refresh()
	return pay, nil
}

// refresh updates the denormalized remaining_debt column value
func (d *Debt) refresh() {
	d.RemainingDebt = d.Remaining()
	d.Touch()
}
