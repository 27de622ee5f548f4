package persistence

import (
	"context"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReceiptRepository implements ledger.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// Create stores the receipt row, then each line and its plan, and copies the
// new ids back onto the aggregate
func (r *GormReceiptRepository) Create(ctx context.Context, receipt *ledger.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		for i := range model.Lines {
			line := &model.Lines[i]
			line.ReceiptID = model.ID
			if err := tx.Omit(clause.Associations).Create(line).Error; err != nil {
				return err
			}
			if line.Installment == nil {
				continue
			}
			line.Installment.ReceiptProductID = line.ID
			if err := tx.Omit(clause.Associations).Create(line.Installment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	model.AssignIDs(receipt)
	return nil
}

// FindByID loads a receipt with lines, plans and payments
func (r *GormReceiptRepository) FindByID(ctx context.Context, id int64) (*ledger.Receipt, error) {
	var model models.ReceiptModel
	err := r.db.WithContext(ctx).
		Preload("Lines", orderByID).
		Preload("Lines.Installment").
		Preload("Lines.Installment.Payments", orderByID).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks every installment row of the receipt in ascending
// id order, then loads the receipt. Payments read after the lock are current.
func (r *GormReceiptRepository) FindByIDForUpdate(ctx context.Context, id int64) (*ledger.Receipt, error) {
	var locked []int64
	err := r.db.WithContext(ctx).
		Model(&models.InstallmentModel{}).
		Joins("JOIN receipt_products ON receipt_products.id = installments.receipt_product_id").
		Where("receipt_products.receipt_id = ?", id).
		Order("installments.id").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "installments"}}).
		Pluck("installments.id", &locked).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

var _ ledger.ReceiptRepository = (*GormReceiptRepository)(nil)
