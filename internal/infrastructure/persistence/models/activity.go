package models

import (
	"time"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/shopspring/decimal"
)

// ActivityLogModel maps the activity_logs table
type ActivityLogModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Actor        string          `gorm:"type:varchar(100);not null"`
	Action       string          `gorm:"type:varchar(64);not null;index"`
	SubjectType  string          `gorm:"type:varchar(32);not null"`
	SubjectID    int64           `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Counterparty string          `gorm:"type:varchar(200)"`
	Description  string          `gorm:"type:text;not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string { return "activity_logs" }

// ToDomain converts to the domain entry
func (m *ActivityLogModel) ToDomain() *activity.Entry {
	return &activity.Entry{
		ID:           m.ID,
		Actor:        m.Actor,
		Action:       m.Action,
		SubjectType:  m.SubjectType,
		SubjectID:    m.SubjectID,
		Amount:       m.Amount,
		Counterparty: m.Counterparty,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}

// ActivityLogModelFromDomain builds the row of an audit line
func ActivityLogModelFromDomain(e *activity.Entry) *ActivityLogModel {
	return &ActivityLogModel{
		ID:           e.ID,
		Actor:        e.Actor,
		Action:       e.Action,
		SubjectType:  e.SubjectType,
		SubjectID:    e.SubjectID,
		Amount:       e.Amount,
		Counterparty: e.Counterparty,
		Description:  e.Description,
		CreatedAt:    e.CreatedAt,
	}
}
