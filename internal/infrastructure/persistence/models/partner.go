package models

import (
	"time"

	"github.com/erp/installments/internal/domain/partner"
	"github.com/erp/installments/internal/domain/shared"
)

// CustomerModel maps the customers table
type CustomerModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Phone     string    `gorm:"type:varchar(32);index"`
	Email     string    `gorm:"type:varchar(200)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string { return "customers" }

// ToDomain converts to the domain customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Name:       m.Name,
		Phone:      m.Phone,
		Email:      m.Email,
	}
}

// CustomerModelFromDomain builds the model of a domain customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// AgentModel maps the agents table
type AgentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Phone     string    `gorm:"type:varchar(32)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AgentModel) TableName() string { return "agents" }

// ToDomain converts to the domain agent
func (m *AgentModel) ToDomain() *partner.Agent {
	return &partner.Agent{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Name:       m.Name,
		Phone:      m.Phone,
	}
}

// AgentModelFromDomain builds the model of a domain agent
func AgentModelFromDomain(a *partner.Agent) *AgentModel {
	return &AgentModel{
		ID:        a.ID,
		Name:      a.Name,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
