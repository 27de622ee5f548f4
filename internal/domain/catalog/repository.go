package catalog

import "context"

// ProductRepository persists products
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	// FindByIDForUpdate loads a product and locks its row
	FindByIDForUpdate(ctx context.Context, id int64) (*Product, error)
	// FindByIDs returns the products found, keyed by id
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*Product, error)
	// SavePrices persists buy price, selling price and price version
	SavePrices(ctx context.Context, product *Product) error
	// DecrementQuantity subtracts qty from stock in one statement and returns
	// the new quantity
	DecrementQuantity(ctx context.Context, id int64, qty int) (int, error)
}

// PriceSnapshotRepository persists the price history of products
type PriceSnapshotRepository interface {
	Create(ctx context.Context, snapshot *PriceSnapshot) error
	// FindByVersion returns snapshot N of a product
	FindByVersion(ctx context.Context, productID int64, version int) (*PriceSnapshot, error)
	// ListByProduct returns all snapshots of a product, newest first
	ListByProduct(ctx context.Context, productID int64) ([]*PriceSnapshot, error)
}
