package persistence

import (
	"context"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDebtRepository implements ledger.DebtRepository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

// Create stores a new debt and assigns its id
func (r *GormDebtRepository) Create(ctx context.Context, debt *ledger.Debt) error {
	model := models.DebtModelFromDomain(debt)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	debt.ID = model.ID
	return nil
}

// FindByID loads a debt with its payments
func (r *GormDebtRepository) FindByID(ctx context.Context, id int64) (*ledger.Debt, error) {
	var model models.DebtModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return r.hydrate(ctx, &model)
}

// FindByIDForUpdate locks the debt row, then reads its payments
func (r *GormDebtRepository) FindByIDForUpdate(ctx context.Context, id int64) (*ledger.Debt, error) {
	var model models.DebtModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return r.hydrate(ctx, &model)
}

// FindByPaymentIDForUpdate locks and loads the debt owning the payment
func (r *GormDebtRepository) FindByPaymentIDForUpdate(ctx context.Context, paymentID int64) (*ledger.Debt, error) {
	var payment models.DebtPaymentModel
	if err := r.db.WithContext(ctx).Select("id", "debt_id").First(&payment, "id = ?", paymentID).Error; err != nil {
		return nil, notFound(err)
	}
	return r.FindByIDForUpdate(ctx, payment.DebtID)
}

func (r *GormDebtRepository) hydrate(ctx context.Context, model *models.DebtModel) (*ledger.Debt, error) {
	err := r.db.WithContext(ctx).
		Where("debt_id = ?", model.ID).
		Order("id").
		Find(&model.Payments).Error
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveState persists status and remaining_debt
func (r *GormDebtRepository) SaveState(ctx context.Context, debt *ledger.Debt) error {
	result := r.db.WithContext(ctx).
		Model(&models.DebtModel{}).
		Where("id = ?", debt.ID).
		Updates(map[string]any{
			"status":         string(debt.Status),
			"remaining_debt": debt.RemainingDebt,
			"updated_at":     debt.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddPayment inserts a payment and assigns its id
func (r *GormDebtRepository) AddPayment(ctx context.Context, payment *ledger.Payment) error {
	model := models.DebtPaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	payment.ID = model.ID
	return nil
}

// UpdatePayment persists a changed payment
func (r *GormDebtRepository) UpdatePayment(ctx context.Context, payment *ledger.Payment) error {
	result := r.db.WithContext(ctx).
		Model(&models.DebtPaymentModel{}).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"amount":       payment.Amount,
			"payment_date": payment.PaymentDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeletePayment removes a payment row
func (r *GormDebtRepository) DeletePayment(ctx context.Context, paymentID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.DebtPaymentModel{}, "id = ?", paymentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ ledger.DebtRepository = (*GormDebtRepository)(nil)
