package ledger

import "time"

// Status is the settlement state of a payable unit (installment plan or debt)
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// CanAcceptPayment reports whether new payments may be recorded in this state
func (s Status) CanAcceptPayment() bool {
	return s == StatusPending
}

// PaymentTag is an informational tag on a payment record
type PaymentTag string

const (
	PaymentTagPaid PaymentTag = "PAID"
	PaymentTagLate PaymentTag = "LATE"
)

// IsValid checks if the tag is valid
func (t PaymentTag) IsValid() bool {
	switch t {
	case PaymentTagPaid, PaymentTagLate:
		return true
	}
	return false
}

// String returns the string representation
func (t PaymentTag) String() string {
	return string(t)
}

// InstallmentType is the payment cycle of an installment plan
type InstallmentType string

const (
	InstallmentTypeDaily   InstallmentType = "DAILY"
	InstallmentTypeWeekly  InstallmentType = "WEEKLY"
	InstallmentTypeMonthly InstallmentType = "MONTHLY"
)

// IsValid checks if the installment type is valid
func (t InstallmentType) IsValid() bool {
	switch t {
	case InstallmentTypeDaily, InstallmentTypeWeekly, InstallmentTypeMonthly:
		return true
	}
	return false
}

// String returns the string representation
func (t InstallmentType) String() string {
	return string(t)
}

// NextDue returns the end of the payment cycle that starts at from
func (t InstallmentType) NextDue(from time.Time) time.Time {
	switch t {
	case InstallmentTypeDaily:
		return from.AddDate(0, 0, 1)
	case InstallmentTypeWeekly:
		return from.AddDate(0, 0, 7)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// ReceiptType distinguishes cash sales from installment sales
type ReceiptType string

const (
	ReceiptTypeCash        ReceiptType = "CASH"
	ReceiptTypeInstallment ReceiptType = "INSTALLMENT"
)

// IsValid checks if the receipt type is valid
func (t ReceiptType) IsValid() bool {
	switch t {
	case ReceiptTypeCash, ReceiptTypeInstallment:
		return true
	}
	return false
}

// String returns the string representation
func (t ReceiptType) String() string {
	return string(t)
}

// TransactionType is the kind of an agent financial transaction
type TransactionType string

const (
	TransactionTypePurchaseInvoice   TransactionType = "PURCHASE_INVOICE"
	TransactionTypeInvoiceSettlement TransactionType = "INVOICE_SETTLEMENT"
	TransactionTypePurchaseDebt      TransactionType = "PURCHASE_DEBT"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchaseInvoice, TransactionTypeInvoiceSettlement, TransactionTypePurchaseDebt:
		return true
	}
	return false
}

// String returns the string representation
func (t TransactionType) String() string {
	return string(t)
}

// AllTransactionTypes returns all valid transaction types
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypePurchaseInvoice,
		TransactionTypeInvoiceSettlement,
		TransactionTypePurchaseDebt,
	}
}
