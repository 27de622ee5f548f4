package ledger

import (
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PlanTerms are the terms of a new installment plan
type PlanTerms struct {
	FirstPay          decimal.Decimal
	PayCount          int
	InstallmentAmount decimal.Decimal
	Type              InstallmentType
}

// Validate checks the plan terms independent of the line they belong to
func (t PlanTerms) Validate() error {
	if t.PayCount < 0 {
		return NewValidationError(CodeInvalidPlan, "Number of installments cannot be negative")
	}
	if t.InstallmentAmount.IsNegative() {
		return NewValidationError(CodeInvalidPlan, "Installment amount cannot be negative")
	}
	if !HasCentPrecision(t.InstallmentAmount) {
		return NewValidationError(CodeInvalidPlan, "Installment amount cannot have more than two decimal places")
	}
	if !t.Type.IsValid() {
		return NewValidationError(CodeInvalidPlan, "Invalid installment type")
	}
	return nil
}

// Installment is the installment plan of one receipt line.
// Total is the line total (selling price times quantity).
type Installment struct {
	shared.BaseAggregateRoot
	Payable

	ReceiptID         int64
	ReceiptProductID  int64
	CustomerID        int64
	PayCount          int
	InstallmentAmount decimal.Decimal
	Type              InstallmentType
}

// NewInstallment creates a plan for a line. The first pay is checked against
// that line's total only.
func NewInstallment(receiptProductID int64, quantity int, unitPrice decimal.Decimal, terms PlanTerms) (*Installment, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateFirstPay(terms.FirstPay, quantity, unitPrice); err != nil {
		return nil, err
	}
	inst := &Installment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Payable: Payable{
			Total:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
			FirstPay: terms.FirstPay,
			Status:   StatusPending,
			Payments: make([]*Payment, 0),
		},
		ReceiptProductID:  receiptProductID,
		PayCount:          terms.PayCount,
		InstallmentAmount: terms.InstallmentAmount,
		Type:              terms.Type,
	}
	// A plan paid in full upfront starts settled.
	inst.settle()
	return inst, nil
}

// Pay records a payment against the plan
func (i *Installment) Pay(payment *Payment) error {
	payment.UnitID = i.ID
	settled, err := i.RecordPayment(payment)
	if err != nil {
		return err
	}
	i.Touch()
	if settled {
		i.AddDomainEvent(NewInstallmentPaidEvent(i))
	}
	return nil
}

// ChangePayment edits one of the plan's payments
func (i *Installment) ChangePayment(paymentID int64, amount decimal.Decimal, paymentDate time.Time) (*Payment, error) {
	pay, settled, err := i.EditPayment(paymentID, amount, paymentDate)
	if err != nil {
		return nil, err
	}
	i.Touch()
	if settled {
		i.AddDomainEvent(NewInstallmentPaidEvent(i))
	}
	return pay, nil
}

// UndoPayment removes one of the plan's payments
func (i *Installment) UndoPayment(paymentID int64) (*Payment, error) {
	pay, reopened, err := i.RemovePayment(paymentID)
	if err != nil {
		return nil, err
	}
	i.Touch()
	if reopened {
		i.AddDomainEvent(NewInstallmentReopenedEvent(i, pay))
	}
	return pay, nil
}

// LineBalance returns the plan's position for receipt-level checks
func (i *Installment) LineBalance() LineBalance {
	return LineBalance{
		InstallmentID: i.ID,
		Total:         i.Total,
		FirstPay:      i.FirstPay,
		Payments:      SumAmounts(i.PaymentAmounts()),
	}
}

// NextDueDate returns when the next payment is due, counting from the last
// payment or from plan creation
func (i *Installment) NextDueDate() time.Time {
	from := i.CreatedAt
	if last := i.LastPaymentDate(); last != nil {
		from = *last
	}
	return i.Type.NextDue(from)
}

// IsOverdue reports whether a PENDING plan with a balance has passed its cycle
func (i *Installment) IsOverdue(now time.Time) bool {
	return i.Status == StatusPending && i.Remaining().IsPositive() && now.After(i.NextDueDate())
}
