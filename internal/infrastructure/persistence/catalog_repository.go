package persistence

import (
	"context"

	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts a product and assigns its id
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	product.ID = model.ID
	return nil
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a product and locks its row
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the products found, keyed by id
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*catalog.Product, error) {
	found := make(map[int64]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		found[rows[i].ID] = rows[i].ToDomain()
	}
	return found, nil
}

// SavePrices persists buy price, selling price and price version
func (r *GormProductRepository) SavePrices(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"buy_price":     product.BuyPrice,
			"selling_price": product.SellingPrice,
			"price_version": product.PriceVersion,
			"updated_at":    product.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecrementQuantity subtracts qty in a single UPDATE so concurrent
// decrements never lose an update. Stock may go negative.
func (r *GormProductRepository) DecrementQuantity(ctx context.Context, id int64, qty int) (int, error) {
	var quantity int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ProductModel{}).
			Where("id = ?", id).
			Update("quantity", gorm.Expr("quantity - ?", qty))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Model(&models.ProductModel{}).
			Where("id = ?", id).
			Select("quantity").
			Scan(&quantity).Error
	})
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

// GormPriceSnapshotRepository implements catalog.PriceSnapshotRepository using GORM
type GormPriceSnapshotRepository struct {
	db *gorm.DB
}

// NewGormPriceSnapshotRepository creates a new GormPriceSnapshotRepository
func NewGormPriceSnapshotRepository(db *gorm.DB) *GormPriceSnapshotRepository {
	return &GormPriceSnapshotRepository{db: db}
}

// Create appends a snapshot
func (r *GormPriceSnapshotRepository) Create(ctx context.Context, snapshot *catalog.PriceSnapshot) error {
	model := models.PriceSnapshotModelFromDomain(snapshot)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	snapshot.ID = model.ID
	return nil
}

// FindByVersion returns snapshot N of a product
func (r *GormPriceSnapshotRepository) FindByVersion(ctx context.Context, productID int64, version int) (*catalog.PriceSnapshot, error) {
	var model models.PriceSnapshotModel
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND version = ?", productID, version).
		First(&model).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// ListByProduct returns all snapshots of a product, newest first
func (r *GormPriceSnapshotRepository) ListByProduct(ctx context.Context, productID int64) ([]*catalog.PriceSnapshot, error) {
	var rows []models.PriceSnapshotModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("version DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	snapshots := make([]*catalog.PriceSnapshot, len(rows))
	for i := range rows {
		snapshots[i] = rows[i].ToDomain()
	}
	return snapshots, nil
}

var (
	_ catalog.ProductRepository       = (*GormProductRepository)(nil)
	_ catalog.PriceSnapshotRepository = (*GormPriceSnapshotRepository)(nil)
)
