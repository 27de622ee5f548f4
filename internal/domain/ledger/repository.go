package ledger

import (
	"context"

	"github.com/erp/installments/internal/domain/shared"
)

// ReceiptRepository persists receipts with their lines and plans
type ReceiptRepository interface {
	// Create stores the receipt, its lines and installment plans and assigns ids
	Create(ctx context.Context, receipt *Receipt) error
	// FindByID loads a receipt with lines, plans and payments
	FindByID(ctx context.Context, id int64) (*Receipt, error)
	// FindByIDForUpdate loads a receipt and locks all of its installment rows
	FindByIDForUpdate(ctx context.Context, id int64) (*Receipt, error)
}

// InstallmentRepository persists installment plans and their payments
type InstallmentRepository interface {
	// FindByID loads a plan with its line total and payments
	FindByID(ctx context.Context, id int64) (*Installment, error)
	// FindByIDForUpdate loads a plan and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*Installment, error)
	// FindByPaymentIDForUpdate locks and loads the plan owning the payment
	FindByPaymentIDForUpdate(ctx context.Context, paymentID int64) (*Installment, error)
	// SaveStatus persists the plan status
	SaveStatus(ctx context.Context, inst *Installment) error
	// AddPayment inserts a payment and assigns its id
	AddPayment(ctx context.Context, payment *Payment) error
	// UpdatePayment persists a changed payment
	UpdatePayment(ctx context.Context, payment *Payment) error
	// DeletePayment removes a payment row
	DeletePayment(ctx context.Context, paymentID int64) error
	// FindPendingForReminder returns PENDING plans with their payments, oldest first
	FindPendingForReminder(ctx context.Context, filter shared.Filter) ([]*Installment, error)
}

// DebtRepository persists debts and their payments
type DebtRepository interface {
	// Create stores a new debt and assigns its id
	Create(ctx context.Context, debt *Debt) error
	// FindByID loads a debt with its payments
	FindByID(ctx context.Context, id int64) (*Debt, error)
	// FindByIDForUpdate loads a debt and locks its row
	FindByIDForUpdate(ctx context.Context, id int64) (*Debt, error)
	// FindByPaymentIDForUpdate locks and loads the debt owning the payment
	FindByPaymentIDForUpdate(ctx context.Context, paymentID int64) (*Debt, error)
	// SaveState persists status and remaining_debt
	SaveState(ctx context.Context, debt *Debt) error
	// AddPayment inserts a payment and assigns its id
	AddPayment(ctx context.Context, payment *Payment) error
	// UpdatePayment persists a changed payment
	UpdatePayment(ctx context.Context, payment *Payment) error
	// DeletePayment removes a payment row
	DeletePayment(ctx context.Context, paymentID int64) error
}

// FinancialTransactionRepository persists agent ledger entries
type FinancialTransactionRepository interface {
	// Create inserts an entry and assigns its id
	Create(ctx context.Context, tx *FinancialTransaction) error
	// Update persists all fields of an entry
	Update(ctx context.Context, tx *FinancialTransaction) error
	// UpdateSums persists sum_amount for each entry
	UpdateSums(ctx context.Context, txs []*FinancialTransaction) error
	// Delete removes an entry
	Delete(ctx context.Context, id int64) error
	// FindByID loads an entry
	FindByID(ctx context.Context, id int64) (*FinancialTransaction, error)
	// FindPrevious returns the nearest entry of the agent with a smaller id,
	// or nil when there is none
	FindPrevious(ctx context.Context, agentID, beforeID int64) (*FinancialTransaction, error)
	// FindAfter returns the agent's entries with id greater than afterID, ascending
	FindAfter(ctx context.Context, agentID, afterID int64) ([]*FinancialTransaction, error)
	// ListByAgent returns a page of the agent's entries in ascending id order
	ListByAgent(ctx context.Context, agentID int64, filter shared.Filter) ([]*FinancialTransaction, int64, error)
	// DistinctAgentIDs returns every agent with at least one entry
	DistinctAgentIDs(ctx context.Context) ([]int64, error)
}
