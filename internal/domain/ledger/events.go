package ledger

import (
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeReceiptCreated      = "ReceiptCreated"
	EventTypeInstallmentPaid     = "InstallmentPaid"
	EventTypeInstallmentReopened = "InstallmentReopened"
	EventTypeDebtPaid            = "DebtPaid"
)

// Aggregate type names
const (
	AggregateTypeReceipt     = "Receipt"
	AggregateTypeInstallment = "Installment"
	AggregateTypeDebt        = "Debt"
)

// ReceiptCreatedLine is the stock movement of one receipt line
type ReceiptCreatedLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ReceiptCreatedEvent is raised when a receipt is stored. Stock is
// decremented asynchronously from it.
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID   int64                `json:"receipt_id"`
	CustomerID  int64                `json:"customer_id"`
	ReceiptType ReceiptType          `json:"receipt_type"`
	TotalPrice  decimal.Decimal      `json:"total_price"`
	Lines       []ReceiptCreatedLine `json:"lines"`
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(r *Receipt) *ReceiptCreatedEvent {
	lines := make([]ReceiptCreatedLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReceiptCreatedLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, AggregateTypeReceipt, r.ID),
		ReceiptID:       r.ID,
		CustomerID:      r.CustomerID,
		ReceiptType:     r.Type,
		TotalPrice:      r.TotalPrice,
		Lines:           lines,
	}
}

// InstallmentPaidEvent is raised when a plan reaches PAID
type InstallmentPaidEvent struct {
	shared.BaseDomainEvent
	InstallmentID int64           `json:"installment_id"`
	ReceiptID     int64           `json:"receipt_id"`
	CustomerID    int64           `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAt        time.Time       `json:"paid_at"`
}

// NewInstallmentPaidEvent creates a new InstallmentPaidEvent
func NewInstallmentPaidEvent(i *Installment) *InstallmentPaidEvent {
	return &InstallmentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstallmentPaid, AggregateTypeInstallment, i.ID),
		InstallmentID:   i.ID,
		ReceiptID:       i.ReceiptID,
		CustomerID:      i.CustomerID,
		TotalAmount:     i.Total,
		PaidAt:          time.Now(),
	}
}

// InstallmentReopenedEvent is raised when undoing the last payment moves a
// plan from PAID back to PENDING
type InstallmentReopenedEvent struct {
	shared.BaseDomainEvent
	InstallmentID int64           `json:"installment_id"`
	PaymentID     int64           `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewInstallmentReopenedEvent creates a new InstallmentReopenedEvent
func NewInstallmentReopenedEvent(i *Installment, removed *Payment) *InstallmentReopenedEvent {
	return &InstallmentReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstallmentReopened, AggregateTypeInstallment, i.ID),
		InstallmentID:   i.ID,
		PaymentID:       removed.ID,
		Amount:          removed.Amount,
	}
}

// DebtPaidEvent is raised when a debt reaches PAID
type DebtPaidEvent struct {
	shared.BaseDomainEvent
	DebtID      int64           `json:"debt_id"`
	CustomerID  int64           `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAt      time.Time       `json:"paid_at"`
}

// NewDebtPaidEvent creates a new DebtPaidEvent
func NewDebtPaidEvent(d *Debt) *DebtPaidEvent {
	return &DebtPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebtPaid, AggregateTypeDebt, d.ID),
		DebtID:          d.ID,
		CustomerID:      d.CustomerID,
		TotalAmount:     d.Total,
		PaidAt:          time.Now(),
	}
}
