package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one payment record against a payable unit.
// UnitID is the owning installment or debt id.
type Payment struct {
	ID          int64
	UnitID      int64
	Amount      decimal.Decimal
	PaymentDate time.Time
	Tag         PaymentTag
	CreatedAt   time.Time
}

// NewPayment creates an unsaved payment record. A zero date means now.
func NewPayment(amount decimal.Decimal, paymentDate time.Time, tag PaymentTag) *Payment {
	now := time.Now()
	if paymentDate.IsZero() {
		paymentDate = now
	}
	if tag == "" {
		tag = PaymentTagPaid
	}
	return &Payment{
		Amount:      amount,
		PaymentDate: paymentDate,
		Tag:         tag,
		CreatedAt:   now,
	}
}
