package ledger

import (
	"context"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/partner"
	"github.com/erp/installments/internal/domain/shared"
)

// TransactionScope provides transactional access to ledger repositories.
// Everything done through the repositories handed to fn commits or rolls
// back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction. An error from fn rolls
	// the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// EventRecorder stores domain events in the outbox of the current transaction
type EventRecorder interface {
	Record(ctx context.Context, events ...shared.DomainEvent) error
}

// TransactionalRepositories provides the repositories of one transaction.
//
// Lock order inside a transaction: agent row, then receipt installment rows
// in ascending id, then a single installment or debt row. Callers never take
// a lock out of this order.
type TransactionalRepositories interface {
	Receipts() ledger.ReceiptRepository
	Installments() ledger.InstallmentRepository
	Debts() ledger.DebtRepository
	Transactions() ledger.FinancialTransactionRepository
	Customers() partner.CustomerRepository
	Agents() partner.AgentRepository
	// Events writes to the transactional outbox
	Events() EventRecorder
}

// NoOpTransactionScope runs fn against fixed repositories without a
// transaction. Tests use it with in-memory or mocked repositories.
type NoOpTransactionScope struct {
	receipts     ledger.ReceiptRepository
	installments ledger.InstallmentRepository
	debts        ledger.DebtRepository
	transactions ledger.FinancialTransactionRepository
	customers    partner.CustomerRepository
	agents       partner.AgentRepository
	events       EventRecorder
}

// NoOpRepositories lists the repositories of a NoOpTransactionScope
type NoOpRepositories struct {
	Receipts     ledger.ReceiptRepository
	Installments ledger.InstallmentRepository
	Debts        ledger.DebtRepository
	Transactions ledger.FinancialTransactionRepository
	Customers    partner.CustomerRepository
	Agents       partner.AgentRepository
	Events       EventRecorder
}

// NewNoOpTransactionScope creates a NoOpTransactionScope. A nil Events
// recorder discards events.
func NewNoOpTransactionScope(r NoOpRepositories) *NoOpTransactionScope {
	if r.Events == nil {
		r.Events = DiscardEvents{}
	}
	return &NoOpTransactionScope{
		receipts:     r.Receipts,
		installments: r.Installments,
		debts:        r.Debts,
		transactions: r.Transactions,
		customers:    r.Customers,
		agents:       r.Agents,
		events:       r.Events,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Receipts() ledger.ReceiptRepository         { return s.receipts }
func (s *NoOpTransactionScope) Installments() ledger.InstallmentRepository { return s.installments }
func (s *NoOpTransactionScope) Debts() ledger.DebtRepository               { return s.debts }
func (s *NoOpTransactionScope) Transactions() ledger.FinancialTransactionRepository {
	return s.transactions
}
func (s *NoOpTransactionScope) Customers() partner.CustomerRepository { return s.customers }
func (s *NoOpTransactionScope) Agents() partner.AgentRepository       { return s.agents }
func (s *NoOpTransactionScope) Events() EventRecorder                 { return s.events }

// DiscardEvents is an EventRecorder that drops everything
type DiscardEvents struct{}

// Record does nothing
func (DiscardEvents) Record(context.Context, ...shared.DomainEvent) error { return nil }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
