package persistence

import (
	"context"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an audit line
func (r *GormActivityRepository) Create(ctx context.Context, entry *activity.Entry) error {
	model := models.ActivityLogModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	entry.ID = model.ID
	return nil
}

// List returns a page of audit lines, newest first unless the filter says otherwise
func (r *GormActivityRepository) List(ctx context.Context, filter shared.Filter) ([]*activity.Entry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ActivityLogModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ActivityLogModel
	err := r.db.WithContext(ctx).
		Order(orderClause(filter.OrderBy, filter.OrderDir, ActivitySortFields, "id")).
		Scopes(paginate(filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	entries := make([]*activity.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

var _ activity.Repository = (*GormActivityRepository)(nil)
