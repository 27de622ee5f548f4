package ledger

import (
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PayableUnit is anything with a total owed and a derived remaining balance
type PayableUnit interface {
	TotalOwed() decimal.Decimal
	Remaining() decimal.Decimal
	CurrentStatus() Status
}

// Payable holds the ledger state shared by installment plans and debts.
// Payments are kept in ascending id order.
type Payable struct {
	Total    decimal.Decimal
	FirstPay decimal.Decimal
	Status   Status
	Payments []*Payment
}

// TotalOwed returns the immutable total of the unit
func (p *Payable) TotalOwed() decimal.Decimal {
	return p.Total
}

// CurrentStatus returns the settlement status
func (p *Payable) CurrentStatus() Status {
	return p.Status
}

// PaymentAmounts returns the amounts of all recorded payments
func (p *Payable) PaymentAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(p.Payments))
	for i, pay := range p.Payments {
		amounts[i] = pay.Amount
	}
	return amounts
}

// PaidSoFar returns first pay plus recorded payments
func (p *Payable) PaidSoFar() decimal.Decimal {
	return PaidSoFar(p.FirstPay, p.PaymentAmounts())
}

// Remaining returns the non-negative outstanding amount
func (p *Payable) Remaining() decimal.Decimal {
	return Remaining(p.Total, p.FirstPay, p.PaymentAmounts())
}

// Balance returns the derived balance
func (p *Payable) Balance() Balance {
	return NewBalance(p.Total, p.FirstPay, p.PaymentAmounts())
}

// LastPayment returns the most recently added payment, or nil
func (p *Payable) LastPayment() *Payment {
	var last *Payment
	for _, pay := range p.Payments {
		if last == nil || pay.ID > last.ID {
			last = pay
		}
	}
	return last
}

// LastPaymentDate returns the date of the most recent payment, or nil
func (p *Payable) LastPaymentDate() *time.Time {
	last := p.LastPayment()
	if last == nil {
		return nil
	}
	d := last.PaymentDate
	return &d
}

// FindPayment returns the payment with the given id
func (p *Payable) FindPayment(paymentID int64) (*Payment, error) {
	for _, pay := range p.Payments {
		if pay.ID == paymentID {
			return pay, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
}

// RecordPayment validates and appends a new payment, then settles the unit
// when it is paid off exactly. It returns true when the status flipped to PAID.
func (p *Payable) RecordPayment(payment *Payment) (bool, error) {
	if err := ValidateNewPayment(p, payment.Amount); err != nil {
		return false, err
	}
	p.Payments = append(p.Payments, payment)
	return p.settle(), nil
}

// EditPayment changes the amount (and optionally date) of an existing payment.
// The payment's own prior amount is given back before validation.
func (p *Payable) EditPayment(paymentID int64, newAmount decimal.Decimal, paymentDate time.Time) (*Payment, bool, error) {
	pay, err := p.FindPayment(paymentID)
	if err != nil {
		return nil, false, err
	}
	if err := ValidateEditedPayment(p, pay.Amount, newAmount); err != nil {
		return nil, false, err
	}
	pay.Amount = newAmount
	if !paymentDate.IsZero() {
		pay.PaymentDate = paymentDate
	}
	return pay, p.settle(), nil
}

// RemovePayment deletes a payment from the unit. Removing the most recent
// payment of a PAID unit reopens it. It returns true when the status flipped.
func (p *Payable) RemovePayment(paymentID int64) (*Payment, bool, error) {
	pay, err := p.FindPayment(paymentID)
	if err != nil {
		return nil, false, err
	}
	wasLast := p.LastPayment().ID == pay.ID

	kept := p.Payments[:0]
	for _, existing := range p.Payments {
		if existing.ID != paymentID {
			kept = append(kept, existing)
		}
	}
	p.Payments = kept

	if wasLast && p.Status == StatusPaid {
		p.Status = StatusPending
		return pay, true, nil
	}
	return pay, false, nil
}

// settle moves PENDING to PAID on exact equality of paid and total
func (p *Payable) settle() bool {
	if p.Status != StatusPending {
		return false
	}
	if p.PaidSoFar().Equal(p.Total) {
		p.Status = StatusPaid
		return true
	}
	return false
}

var _ PayableUnit = (*Payable)(nil)
