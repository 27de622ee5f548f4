package catalog

import (
	"context"

	appactivity "github.com/erp/installments/internal/application/activity"
	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProductService handles products and their price history
type ProductService struct {
	scope    TransactionScope
	activity appactivity.Recorder
}

// NewProductService creates a new ProductService. A nil recorder drops audit lines.
func NewProductService(scope TransactionScope, recorder appactivity.Recorder) *ProductService {
	if recorder == nil {
		recorder = appactivity.Discard{}
	}
	return &ProductService{scope: scope, activity: recorder}
}

// Create stores a product together with its first price snapshot
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Quantity, req.BuyPrice, req.SellingPrice)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		return repos.Snapshots().Create(ctx, product.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID int64) (*ProductResponse, error) {
	var response ProductResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ChangePrice sets new prices and appends a snapshot at the next version
func (s *ProductService) ChangePrice(ctx context.Context, productID int64, req ChangePriceRequest) (*ProductResponse, error) {
	product, err := s.updatePrices(ctx, productID, func(repos TransactionalRepositories, p *catalog.Product) (*catalog.PriceSnapshot, error) {
		return p.ChangePrice(req.BuyPrice, req.SellingPrice)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activity.NewEntry(logger.GetActor(ctx), activity.ActionPriceChanged, "product", product.ID, product.SellingPrice, product.Name))
	response := ToProductResponse(product)
	return &response, nil
}

// RevertToSnapshot restores the prices of snapshot version and records that
// as a new version
func (s *ProductService) RevertToSnapshot(ctx context.Context, productID int64, version int) (*ProductResponse, error) {
	product, err := s.updatePrices(ctx, productID, func(repos TransactionalRepositories, p *catalog.Product) (*catalog.PriceSnapshot, error) {
		target, err := repos.Snapshots().FindByVersion(ctx, productID, version)
		if err != nil {
			return nil, err
		}
		return p.RevertTo(target)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activity.NewEntry(logger.GetActor(ctx), activity.ActionPriceReverted, "product", product.ID, product.SellingPrice, product.Name))
	logger.L(ctx).Info("Product price reverted",
		zap.Int64("product_id", product.ID),
		zap.Int("from_version", version),
		zap.Int("new_version", product.PriceVersion),
	)
	response := ToProductResponse(product)
	return &response, nil
}

// updatePrices locks the product row, applies change and stores the prices
// with the snapshot it returns
func (s *ProductService) updatePrices(ctx context.Context, productID int64, change func(TransactionalRepositories, *catalog.Product) (*catalog.PriceSnapshot, error)) (*catalog.Product, error) {
	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		snapshot, err := change(repos, product)
		if err != nil {
			return err
		}
		if err := repos.Products().SavePrices(ctx, product); err != nil {
			return err
		}
		return repos.Snapshots().Create(ctx, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListSnapshots returns the price history of a product, newest first
func (s *ProductService) ListSnapshots(ctx context.Context, productID int64) ([]PriceSnapshotResponse, error) {
	var out []PriceSnapshotResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Products().FindByID(ctx, productID); err != nil {
			return err
		}
		snapshots, err := repos.Snapshots().ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		out = make([]PriceSnapshotResponse, len(snapshots))
		for i, snap := range snapshots {
			out[i] = ToPriceSnapshotResponse(snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
