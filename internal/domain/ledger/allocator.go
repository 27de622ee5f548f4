package ledger

import (
	"github.com/shopspring/decimal"
)

// AllocationStrategyName selects how a lump payment is split
type AllocationStrategyName string

const (
	// AllocationLeftoverProportional scales each line's ratio by what is left
	// of the payment when the line is reached.
	AllocationLeftoverProportional AllocationStrategyName = "leftover_proportional"
	// AllocationPaymentProportional scales each line's ratio by the full payment.
	AllocationPaymentProportional AllocationStrategyName = "payment_proportional"
)

// IsValid checks if the strategy name is known
func (n AllocationStrategyName) IsValid() bool {
	switch n {
	case AllocationLeftoverProportional, AllocationPaymentProportional:
		return true
	}
	return false
}

// AllocationLine is one installment line as seen by the allocator
type AllocationLine struct {
	InstallmentID int64
	Remaining     decimal.Decimal
}

// Allocation is the amount assigned to one line
type Allocation struct {
	InstallmentID int64
	Amount        decimal.Decimal
}

// AllocationResult is the outcome of splitting one payment
type AllocationResult struct {
	Allocations    []Allocation
	TotalRemaining decimal.Decimal
	TotalAllocated decimal.Decimal
	// Unallocated is what is left after the single pass. It is not redistributed.
	Unallocated decimal.Decimal
}

// FullyAllocated reports whether the whole payment was assigned
func (r *AllocationResult) FullyAllocated() bool {
	return r.Unallocated.IsZero()
}

// AmountFor returns the amount allocated to the given installment
func (r *AllocationResult) AmountFor(installmentID int64) decimal.Decimal {
	for _, a := range r.Allocations {
		if a.InstallmentID == installmentID {
			return a.Amount
		}
	}
	return decimal.Zero
}

// LumpPaymentAllocator splits one payment across a receipt's installment lines
type LumpPaymentAllocator struct {
	strategy AllocationStrategyName
}

// NewLumpPaymentAllocator creates an allocator. Unknown names fall back to
// AllocationLeftoverProportional.
func NewLumpPaymentAllocator(strategy AllocationStrategyName) *LumpPaymentAllocator {
	if !strategy.IsValid() {
		strategy = AllocationLeftoverProportional
	}
	return &LumpPaymentAllocator{strategy: strategy}
}

// Strategy returns the configured strategy name
func (a *LumpPaymentAllocator) Strategy() AllocationStrategyName {
	return a.strategy
}

// Allocate splits amount across lines in a single pass in the given order.
// For each line: share = round(base * remaining_i / totalRemaining, 2) where
// base is the current leftover (or the full payment, depending on strategy),
// then actual = min(leftover, remaining_i, share).
func (a *LumpPaymentAllocator) Allocate(amount decimal.Decimal, lines []AllocationLine) (*AllocationResult, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	remaining := make([]decimal.Decimal, len(lines))
	totalRemaining := decimal.Zero
	for i, l := range lines {
		remaining[i] = clampZero(l.Remaining)
		totalRemaining = totalRemaining.Add(remaining[i])
	}
	if !totalRemaining.IsPositive() {
		return nil, NewValidationError(CodeNothingOwed, "Nothing is owed on this receipt")
	}

	result := &AllocationResult{
		Allocations:    make([]Allocation, 0, len(lines)),
		TotalRemaining: totalRemaining,
		TotalAllocated: decimal.Zero,
	}
	leftover := amount
	for i, l := range lines {
		if !leftover.IsPositive() {
			break
		}
		base := leftover
		if a.strategy == AllocationPaymentProportional {
			base = amount
		}
		share := base.Mul(remaining[i]).Div(totalRemaining).Round(2)
		actual := minDecimal(leftover, remaining[i], share)
		if !actual.IsPositive() {
			continue
		}
		result.Allocations = append(result.Allocations, Allocation{InstallmentID: l.InstallmentID, Amount: actual})
		result.TotalAllocated = result.TotalAllocated.Add(actual)
		leftover = leftover.Sub(actual)
	}
	result.Unallocated = leftover
	return result, nil
}
