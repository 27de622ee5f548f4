package ledger

import (
	"strings"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptLine is one product line of a receipt
type ReceiptLine struct {
	ID           int64
	ReceiptID    int64
	ProductID    int64
	Quantity     int
	SellingPrice decimal.Decimal
	Installment  *Installment
}

// Total returns selling price times quantity
func (l *ReceiptLine) Total() decimal.Decimal {
	return l.SellingPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineInput describes a line of a receipt being created.
// Plan is required on installment receipts and ignored on cash receipts.
type LineInput struct {
	ProductID    int64
	Quantity     int
	SellingPrice decimal.Decimal
	Plan         *PlanTerms
}

// Receipt is an invoice sold cash or on installment
type Receipt struct {
	shared.BaseAggregateRoot

	CustomerID int64
	Type       ReceiptType
	TotalPrice decimal.Decimal
	Note       string
	Lines      []*ReceiptLine
}

// NewReceipt builds a receipt and, for installment receipts, one plan per line
func NewReceipt(customerID int64, receiptType ReceiptType, note string, inputs []LineInput) (*Receipt, error) {
	if customerID <= 0 {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if !receiptType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECEIPT_TYPE", "Invalid receipt type")
	}
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt must have at least one product line")
	}

	r := &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Type:              receiptType,
		TotalPrice:        decimal.Zero,
		Note:              strings.TrimSpace(note),
		Lines:             make([]*ReceiptLine, 0, len(inputs)),
	}

	for _, in := range inputs {
		if in.ProductID <= 0 {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required on every line")
		}
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
		}
		if in.SellingPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
		}
		if !HasCentPrecision(in.SellingPrice) {
			return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot have more than two decimal places")
		}
		line := &ReceiptLine{
			ProductID:    in.ProductID,
			Quantity:     in.Quantity,
			SellingPrice: in.SellingPrice,
		}
		if receiptType == ReceiptTypeInstallment {
			if in.Plan == nil {
				return nil, NewValidationError(CodeInvalidPlan, "Installment receipts need plan terms on every line")
			}
			inst, err := NewInstallment(0, in.Quantity, in.SellingPrice, *in.Plan)
			if err != nil {
				return nil, err
			}
			inst.CustomerID = customerID
			line.Installment = inst
		}
		r.Lines = append(r.Lines, line)
		r.TotalPrice = r.TotalPrice.Add(line.Total())
	}
	return r, nil
}

// Installments returns the plans of all installment lines in line order
func (r *Receipt) Installments() []*Installment {
	plans := make([]*Installment, 0, len(r.Lines))
	for _, l := range r.Lines {
		if l.Installment != nil {
			plans = append(plans, l.Installment)
		}
	}
	return plans
}

// FindInstallment returns the plan with the given id
func (r *Receipt) FindInstallment(id int64) *Installment {
	for _, inst := range r.Installments() {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// LineBalances returns the balances of all installment lines
func (r *Receipt) LineBalances() []LineBalance {
	plans := r.Installments()
	balances := make([]LineBalance, len(plans))
	for i, p := range plans {
		balances[i] = p.LineBalance()
	}
	return balances
}

// AllocationLines returns the allocator input in line order
func (r *Receipt) AllocationLines() []AllocationLine {
	plans := r.Installments()
	lines := make([]AllocationLine, len(plans))
	for i, p := range plans {
		lines[i] = AllocationLine{InstallmentID: p.ID, Remaining: p.Remaining()}
	}
	return lines
}

// Remaining returns the total outstanding over all installment lines
func (r *Receipt) Remaining() decimal.Decimal {
	return ReceiptRemaining(r.LineBalances())
}

// RecordCreated raises the created event once ids are assigned
func (r *Receipt) RecordCreated() {
	r.AddDomainEvent(NewReceiptCreatedEvent(r))
}
