package persistence

import (
	"context"
	"time"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFinancialTransactionRepository implements
// ledger.FinancialTransactionRepository using GORM. Ordering is always by id,
// which is the order of the running sum.
type GormFinancialTransactionRepository struct {
	db *gorm.DB
}

// NewGormFinancialTransactionRepository creates a new GormFinancialTransactionRepository
func NewGormFinancialTransactionRepository(db *gorm.DB) *GormFinancialTransactionRepository {
	return &GormFinancialTransactionRepository{db: db}
}

// Create inserts an entry and assigns its id
func (r *GormFinancialTransactionRepository) Create(ctx context.Context, tx *ledger.FinancialTransaction) error {
	model := models.FinancialTransactionModelFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	tx.ID = model.ID
	return nil
}

// Update persists all editable fields and the running sum of an entry
func (r *GormFinancialTransactionRepository) Update(ctx context.Context, tx *ledger.FinancialTransaction) error {
	result := r.db.WithContext(ctx).
		Model(&models.FinancialTransactionModel{}).
		Where("id = ?", tx.ID).
		Updates(map[string]any{
			"type":            string(tx.Type),
			"total_amount":    tx.TotalAmount,
			"discount_amount": tx.DiscountAmount,
			"paid_amount":     tx.PaidAmount,
			"sum_amount":      tx.SumAmount,
			"description":     tx.Description,
			"updated_at":      tx.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateSums writes sum_amount of each entry, one statement per row
func (r *GormFinancialTransactionRepository) UpdateSums(ctx context.Context, txs []*ledger.FinancialTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	now := time.Now()
	db := r.db.WithContext(ctx)
	for _, tx := range txs {
		err := db.Model(&models.FinancialTransactionModel{}).
			Where("id = ?", tx.ID).
			Updates(map[string]any{"sum_amount": tx.SumAmount, "updated_at": now}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an entry
func (r *GormFinancialTransactionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.FinancialTransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads an entry
func (r *GormFinancialTransactionRepository) FindByID(ctx context.Context, id int64) (*ledger.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindPrevious returns the nearest earlier entry of the agent, or nil
func (r *GormFinancialTransactionRepository) FindPrevious(ctx context.Context, agentID, beforeID int64) (*ledger.FinancialTransaction, error) {
	var rows []models.FinancialTransactionModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND id < ?", agentID, beforeID).
		Order("id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].ToDomain(), nil
}

// FindAfter returns the agent's entries with id greater than afterID, ascending
func (r *GormFinancialTransactionRepository) FindAfter(ctx context.Context, agentID, afterID int64) ([]*ledger.FinancialTransaction, error) {
	var rows []models.FinancialTransactionModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND id > ?", agentID, afterID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTransactions(rows), nil
}

// ListByAgent returns a page of the agent's entries in ascending id order
func (r *GormFinancialTransactionRepository) ListByAgent(ctx context.Context, agentID int64, filter shared.Filter) ([]*ledger.FinancialTransaction, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.FinancialTransactionModel{}).
		Where("agent_id = ?", agentID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []models.FinancialTransactionModel
	err = r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("id ASC").
		Scopes(paginate(filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toTransactions(rows), total, nil
}

// DistinctAgentIDs returns every agent with at least one entry
func (r *GormFinancialTransactionRepository) DistinctAgentIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.FinancialTransactionModel{}).
		Distinct("agent_id").
		Order("agent_id").
		Pluck("agent_id", &ids).Error
	return ids, err
}

func toTransactions(rows []models.FinancialTransactionModel) []*ledger.FinancialTransaction {
	txs := make([]*ledger.FinancialTransaction, len(rows))
	for i := range rows {
		txs[i] = rows[i].ToDomain()
	}
	return txs
}

var _ ledger.FinancialTransactionRepository = (*GormFinancialTransactionRepository)(nil)
