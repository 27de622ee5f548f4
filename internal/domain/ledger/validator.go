package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateAmount rejects zero or negative amounts and fractions of a cent
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewValidationError(CodeInvalidAmount, "Payment amount must be greater than zero")
	}
	return validateCents(amount)
}

func validateCents(amounts ...decimal.Decimal) error {
	for _, a := range amounts {
		if !HasCentPrecision(a) {
			return NewValidationError(CodeInvalidAmount,
				fmt.Sprintf("Amount %s has more than two decimal places", a.String()))
		}
	}
	return nil
}

// ValidateNewPayment decides whether a new payment may be recorded against unit
func ValidateNewPayment(unit PayableUnit, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !unit.CurrentStatus().CanAcceptPayment() {
		return NewValidationError(CodeAlreadyPaid, "This balance is already fully paid")
	}
	remaining := unit.Remaining()
	if amount.GreaterThan(remaining) {
		return NewValidationError(CodeExceedsRemaining,
			fmt.Sprintf("Payment amount %s exceeds the remaining balance %s", amount.StringFixed(2), remaining.StringFixed(2)))
	}
	return nil
}

// ValidateEditedPayment checks a new amount for an existing payment. The
// existing amount is added back to the remaining balance first. A PAID unit
// only accepts edits that keep it paid off exactly; undoing its latest
// payment is the way to reopen it.
func ValidateEditedPayment(unit PayableUnit, existingAmount, newAmount decimal.Decimal) error {
	if err := ValidateAmount(newAmount); err != nil {
		return err
	}
	effective := unit.Remaining().Add(existingAmount)
	if unit.CurrentStatus() == StatusPaid && !newAmount.Equal(effective) {
		return NewValidationError(CodeAlreadyPaid,
			fmt.Sprintf("This balance is fully paid; the payment must stay %s", effective.StringFixed(2)))
	}
	if newAmount.GreaterThan(effective) {
		return NewValidationError(CodeExceedsRemaining,
			fmt.Sprintf("Payment amount %s exceeds the remaining balance %s", newAmount.StringFixed(2), effective.StringFixed(2)))
	}
	return nil
}

// ValidateFirstPay checks the upfront payment of a new plan against the
// sale value of its own line only.
func ValidateFirstPay(firstPay decimal.Decimal, quantity int, unitPrice decimal.Decimal) error {
	if firstPay.IsNegative() {
		return NewValidationError(CodeInvalidAmount, "First payment cannot be negative")
	}
	if err := validateCents(firstPay); err != nil {
		return err
	}
	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if firstPay.GreaterThan(lineTotal) {
		return NewValidationError(CodeFirstPayExceedsTotal,
			fmt.Sprintf("First payment %s exceeds the line total %s", firstPay.StringFixed(2), lineTotal.StringFixed(2)))
	}
	return nil
}

// LineBalance is the position of one installment line on a receipt
type LineBalance struct {
	InstallmentID int64
	Total         decimal.Decimal
	FirstPay      decimal.Decimal
	Payments      decimal.Decimal
}

// Remaining returns the line's outstanding amount after payments and first pay
func (l LineBalance) Remaining() decimal.Decimal {
	return clampZero(l.Total.Sub(l.Payments).Sub(l.FirstPay))
}

// ReceiptRemaining sums the remaining amount over all lines
func ReceiptRemaining(lines []LineBalance) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Remaining())
	}
	return total
}

// ValidateReceiptPayment is the coarse receipt-level check for a lump payment
func ValidateReceiptPayment(lines []LineBalance, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	aggregate := ReceiptRemaining(lines)
	if aggregate.IsZero() {
		return NewValidationError(CodeNothingOwed, "Nothing is owed on this receipt")
	}
	if amount.GreaterThan(aggregate) {
		return NewValidationError(CodeExceedsReceiptRemaining,
			fmt.Sprintf("Payment amount %s exceeds the receipt remaining balance %s", amount.StringFixed(2), aggregate.StringFixed(2)))
	}
	return nil
}
