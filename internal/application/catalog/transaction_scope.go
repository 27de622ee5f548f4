package catalog

import (
	"context"

	"github.com/erp/installments/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories
type TransactionScope interface {
	// Execute runs fn within a database transaction. An error from fn rolls
	// the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one transaction
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Snapshots() catalog.PriceSnapshotRepository
}
