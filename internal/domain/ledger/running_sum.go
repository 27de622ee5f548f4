package ledger

import (
	"strings"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FinancialTransaction is one entry in an agent's running-balance ledger.
// SumAmount is the agent's cumulative balance as of this entry, in id order.
type FinancialTransaction struct {
	shared.BaseEntity

	AgentID        int64
	Type           TransactionType
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	SumAmount      decimal.Decimal
	Description    string
}

// TransactionInput carries the editable fields of a transaction
type TransactionInput struct {
	Type           TransactionType
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	Description    string
}

// Validate checks the input fields
func (in TransactionInput) Validate() error {
	if !in.Type.IsValid() {
		return NewValidationError(CodeInvalidTransaction, "Invalid transaction type")
	}
	if in.TotalAmount.IsNegative() || in.DiscountAmount.IsNegative() || in.PaidAmount.IsNegative() {
		return NewValidationError(CodeInvalidTransaction, "Transaction amounts cannot be negative")
	}
	for _, a := range []decimal.Decimal{in.TotalAmount, in.DiscountAmount, in.PaidAmount} {
		if !HasCentPrecision(a) {
			return NewValidationError(CodeInvalidTransaction, "Transaction amounts cannot have more than two decimal places")
		}
	}
	return nil
}

// NewFinancialTransaction creates an unsaved transaction. SumAmount is set by
// Rebase once the previous entry is known.
func NewFinancialTransaction(agentID int64, in TransactionInput) (*FinancialTransaction, error) {
	if agentID <= 0 {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent is required")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tx := &FinancialTransaction{
		BaseEntity: shared.NewBaseEntity(),
		AgentID:    agentID,
		SumAmount:  decimal.Zero,
	}
	tx.apply(in)
	return tx, nil
}

// Update replaces the editable fields
func (t *FinancialTransaction) Update(in TransactionInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	t.apply(in)
	t.Touch()
	return nil
}

func (t *FinancialTransaction) apply(in TransactionInput) {
	t.Type = in.Type
	t.TotalAmount = in.TotalAmount
	t.DiscountAmount = in.DiscountAmount
	t.PaidAmount = in.PaidAmount
	t.Description = strings.TrimSpace(in.Description)
}

// Delta returns this entry's contribution to the running balance
func (t *FinancialTransaction) Delta() decimal.Decimal {
	switch t.Type {
	case TransactionTypeInvoiceSettlement:
		return t.PaidAmount.Neg()
	case TransactionTypePurchaseDebt:
		return t.TotalAmount
	default:
		return t.TotalAmount.Sub(t.DiscountAmount).Sub(t.PaidAmount)
	}
}

// Rebase sets SumAmount from the previous entry's sum
func (t *FinancialTransaction) Rebase(previousSum decimal.Decimal) {
	t.SumAmount = previousSum.Add(t.Delta())
}

// RecomputeResult reports what a recompute walk changed
type RecomputeResult struct {
	// Updated holds the entries whose SumAmount changed
	Updated []*FinancialTransaction
	// Visited is the number of entries walked
	Visited int
	// FinalSum is the running balance after the last entry
	FinalSum decimal.Decimal
}

// Recompute walks suffix in the given (ascending id) order starting from the
// anchor value and rewrites each SumAmount. Running it again with no change in
// between reports no updates.
func Recompute(anchor decimal.Decimal, suffix []*FinancialTransaction) RecomputeResult {
	result := RecomputeResult{
		Updated:  make([]*FinancialTransaction, 0),
		FinalSum: anchor,
	}
	running := anchor
	for _, tx := range suffix {
		running = running.Add(tx.Delta())
		if !tx.SumAmount.Equal(running) {
			tx.SumAmount = running
			result.Updated = append(result.Updated, tx)
		}
		result.Visited++
	}
	result.FinalSum = running
	return result
}

// AnchorFor returns the anchor value given the nearest earlier entry, which
// may be nil when none exists.
func AnchorFor(previous *FinancialTransaction) decimal.Decimal {
	if previous == nil {
		return decimal.Zero
	}
	return previous.SumAmount
}
