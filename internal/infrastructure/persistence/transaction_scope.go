package persistence

import (
	"context"

	appcatalog "github.com/erp/installments/internal/application/catalog"
	appledger "github.com/erp/installments/internal/application/ledger"
	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/partner"
	"github.com/erp/installments/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements appledger.TransactionScope using
// GORM transactions. Recorded events go to the outbox in the same transaction.
type GormLedgerTransactionScope struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope.
// A nil outbox discards recorded events.
func NewGormLedgerTransactionScope(db *gorm.DB, outbox shared.OutboxEventSaver) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db, outbox: outbox}
}

// Execute runs fn within a database transaction. If fn returns an error the
// transaction is rolled back, otherwise it is committed.
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx, outbox: s.outbox})
	})
}

// gormLedgerRepositories hands out repositories bound to one transaction
type gormLedgerRepositories struct {
	tx     *gorm.DB
	outbox shared.OutboxEventSaver
}

func (r *gormLedgerRepositories) Receipts() ledger.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

func (r *gormLedgerRepositories) Installments() ledger.InstallmentRepository {
	return NewGormInstallmentRepository(r.tx)
}

func (r *gormLedgerRepositories) Debts() ledger.DebtRepository {
	return NewGormDebtRepository(r.tx)
}

func (r *gormLedgerRepositories) Transactions() ledger.FinancialTransactionRepository {
	return NewGormFinancialTransactionRepository(r.tx)
}

func (r *gormLedgerRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormLedgerRepositories) Agents() partner.AgentRepository {
	return NewGormAgentRepository(r.tx)
}

func (r *gormLedgerRepositories) Events() appledger.EventRecorder {
	if r.outbox == nil {
		return appledger.DiscardEvents{}
	}
	return &outboxRecorder{tx: r.tx, outbox: r.outbox}
}

// outboxRecorder writes events through the outbox saver on the open transaction
type outboxRecorder struct {
	tx     *gorm.DB
	outbox shared.OutboxEventSaver
}

func (r *outboxRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.outbox.SaveEvents(ctx, r.tx, events...)
}

// GormCatalogTransactionScope implements appcatalog.TransactionScope using
// GORM transactions
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCatalogRepositories{tx: tx})
	})
}

type gormCatalogRepositories struct {
	tx *gorm.DB
}

func (r *gormCatalogRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormCatalogRepositories) Snapshots() catalog.PriceSnapshotRepository {
	return NewGormPriceSnapshotRepository(r.tx)
}

var (
	_ appledger.TransactionScope           = (*GormLedgerTransactionScope)(nil)
	_ appledger.TransactionalRepositories  = (*gormLedgerRepositories)(nil)
	_ appcatalog.TransactionScope          = (*GormCatalogTransactionScope)(nil)
	_ appcatalog.TransactionalRepositories = (*gormCatalogRepositories)(nil)
)
