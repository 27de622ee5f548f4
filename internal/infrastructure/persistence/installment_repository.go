package persistence

import (
	"context"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInstallmentRepository implements ledger.InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID loads a plan with its line total and payments
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id int64) (*ledger.Installment, error) {
	var model models.InstallmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return r.hydrate(ctx, &model)
}

// FindByIDForUpdate locks the plan row, then reads its line and payments
func (r *GormInstallmentRepository) FindByIDForUpdate(ctx context.Context, id int64) (*ledger.Installment, error) {
	var model models.InstallmentModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return r.hydrate(ctx, &model)
}

// FindByPaymentIDForUpdate locks and loads the plan owning the payment
func (r *GormInstallmentRepository) FindByPaymentIDForUpdate(ctx context.Context, paymentID int64) (*ledger.Installment, error) {
	var payment models.InstallmentPaymentModel
	if err := r.db.WithContext(ctx).Select("id", "installment_id").First(&payment, "id = ?", paymentID).Error; err != nil {
		return nil, notFound(err)
	}
	return r.FindByIDForUpdate(ctx, payment.InstallmentID)
}

// hydrate loads the payments, the receipt line and the receipt customer of a plan
func (r *GormInstallmentRepository) hydrate(ctx context.Context, model *models.InstallmentModel) (*ledger.Installment, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("installment_id = ?", model.ID).Order("id").Find(&model.Payments).Error; err != nil {
		return nil, err
	}
	var line models.ReceiptProductModel
	if err := db.First(&line, "id = ?", model.ReceiptProductID).Error; err != nil {
		return nil, notFound(err)
	}
	var receipt models.ReceiptModel
	if err := db.Select("id", "customer_id").First(&receipt, "id = ?", line.ReceiptID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(&line, receipt.CustomerID), nil
}

// SaveStatus persists the plan status
func (r *GormInstallmentRepository) SaveStatus(ctx context.Context, inst *ledger.Installment) error {
	result := r.db.WithContext(ctx).
		Model(&models.InstallmentModel{}).
		Where("id = ?", inst.ID).
		Updates(map[string]any{
			"status":     string(inst.Status),
			"updated_at": inst.UpdatedAt,
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
func (r *GormInstallmentRepository) AddPayment(ctx context.Context, payment *ledger.Payment) error {
	model := models.InstallmentPaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	payment.ID = model.ID
	return nil
}

// UpdatePayment persists a changed payment
func (r *GormInstallmentRepository) UpdatePayment(ctx context.Context, payment *ledger.Payment) error {
	result := r.db.WithContext(ctx).
		Model(&models.InstallmentPaymentModel{}).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"amount":       payment.Amount,
			"payment_date": payment.PaymentDate,
			"status":       string(payment.Tag),
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
func (r *GormInstallmentRepository) DeletePayment(ctx context.Context, paymentID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.InstallmentPaymentModel{}, "id = ?", paymentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindPendingForReminder returns a page of PENDING plans, oldest first, with
// payments, line totals and customers resolved in batch
func (r *GormInstallmentRepository) FindPendingForReminder(ctx context.Context, filter shared.Filter) ([]*ledger.Installment, error) {
	db := r.db.WithContext(ctx)

	var rows []models.InstallmentModel
	err := db.Where("status = ?", string(ledger.StatusPending)).
		Preload("Payments", orderByID).
		Order("id").
		Scopes(paginate(filter)).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	lineIDs := make([]int64, len(rows))
	for i := range rows {
		lineIDs[i] = rows[i].ReceiptProductID
	}
	var lines []models.ReceiptProductModel
	if err := db.Where("id IN ?", lineIDs).Find(&lines).Error; err != nil {
		return nil, err
	}
	lineByID := make(map[int64]*models.ReceiptProductModel, len(lines))
	receiptIDs := make([]int64, 0, len(lines))
	for i := range lines {
		lineByID[lines[i].ID] = &lines[i]
		receiptIDs = append(receiptIDs, lines[i].ReceiptID)
	}

	var receipts []models.ReceiptModel
	if err := db.Select("id", "customer_id").Where("id IN ?", receiptIDs).Find(&receipts).Error; err != nil {
		return nil, err
	}
	customerByReceipt := make(map[int64]int64, len(receipts))
	for _, rc := range receipts {
		customerByReceipt[rc.ID] = rc.CustomerID
	}

	plans := make([]*ledger.Installment, 0, len(rows))
	for i := range rows {
		line, ok := lineByID[rows[i].ReceiptProductID]
		if !ok {
			continue
		}
		plans = append(plans, rows[i].ToDomain(line, customerByReceipt[line.ReceiptID]))
	}
	return plans, nil
}

var _ ledger.InstallmentRepository = (*GormInstallmentRepository)(nil)
