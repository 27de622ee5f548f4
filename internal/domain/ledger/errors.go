package ledger

import (
	"errors"

	"github.com/erp/installments/internal/domain/shared"
)

// Validation failure codes
const (
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeAlreadyPaid             = "ALREADY_PAID"
	CodeExceedsRemaining        = "EXCEEDS_REMAINING"
	CodeFirstPayExceedsTotal    = "FIRST_PAY_EXCEEDS_TOTAL"
	CodeNothingOwed             = "NOTHING_OWED"
	CodeExceedsReceiptRemaining = "EXCEEDS_RECEIPT_REMAINING"
	CodeInvalidPlan             = "INVALID_PLAN"
	CodeInvalidTransaction      = "INVALID_TRANSACTION"
)

// ValidationError is a rejected mutation. It carries a user-facing reason and
// is never retried.
type ValidationError struct {
	shared.DomainError
}

// Unwrap exposes the embedded DomainError to errors.As
func (e *ValidationError) Unwrap() error {
	return &e.DomainError
}

// NewValidationError creates a validation error with the given code and reason
func NewValidationError(code, reason string) *ValidationError {
	return &ValidationError{DomainError: shared.DomainError{Code: code, Message: reason}}
}

// IsValidationError reports whether err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
