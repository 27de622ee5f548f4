// Package models contains the GORM persistence models of the ledger. Domain
// types stay free of ORM tags; each model converts with ToDomain and a
// ...FromDomain constructor.
package models

// All returns every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&CustomerModel{},
		&AgentModel{},
		&ProductModel{},
		&PriceSnapshotModel{},
		&ReceiptModel{},
		&ReceiptProductModel{},
		&InstallmentModel{},
		&InstallmentPaymentModel{},
		&DebtModel{},
		&DebtPaymentModel{},
		&FinancialTransactionModel{},
		&ActivityLogModel{},
		&OutboxEntryModel{},
	}
}
