package persistence

import (
	"context"

	"github.com/erp/installments/internal/domain/partner"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a customer and assigns its id
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	customer.ID = model.ID
	return nil
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the customers found, keyed by id
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*partner.Customer, error) {
	found := make(map[int64]*partner.Customer, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		found[rows[i].ID] = rows[i].ToDomain()
	}
	return found, nil
}

// GormAgentRepository implements partner.AgentRepository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// Create inserts an agent and assigns its id
func (r *GormAgentRepository) Create(ctx context.Context, agent *partner.Agent) error {
	model := models.AgentModelFromDomain(agent)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	agent.ID = model.ID
	return nil
}

// FindByID finds an agent by ID
func (r *GormAgentRepository) FindByID(ctx context.Context, id int64) (*partner.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the agent row with SELECT ... FOR UPDATE
func (r *GormAgentRepository) FindByIDForUpdate(ctx context.Context, id int64) (*partner.Agent, error) {
	var model models.AgentModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

var (
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
	_ partner.AgentRepository    = (*GormAgentRepository)(nil)
)
