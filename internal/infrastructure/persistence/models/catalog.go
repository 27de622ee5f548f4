package models

import (
	"time"

	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductModel maps the products table
type ProductModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null;default:0"`
	BuyPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PriceVersion int             `gorm:"not null;default:1"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string { return "products" }

// ToDomain converts to the domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:   shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		Name:         m.Name,
		Quantity:     m.Quantity,
		BuyPrice:     m.BuyPrice,
		SellingPrice: m.SellingPrice,
		PriceVersion: m.PriceVersion,
	}
}

// ProductModelFromDomain builds the model of a domain product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:           p.ID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		BuyPrice:     p.BuyPrice,
		SellingPrice: p.SellingPrice,
		PriceVersion: p.PriceVersion,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// PriceSnapshotModel maps the product_price_snapshots table
type PriceSnapshotModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	ProductID    int64           `gorm:"not null;uniqueIndex:idx_price_snapshot_version,priority:1"`
	Version      int             `gorm:"not null;uniqueIndex:idx_price_snapshot_version,priority:2"`
	BuyPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PriceSnapshotModel) TableName() string { return "product_price_snapshots" }

// ToDomain converts to the domain snapshot
func (m *PriceSnapshotModel) ToDomain() *catalog.PriceSnapshot {
	return &catalog.PriceSnapshot{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Version:      m.Version,
		BuyPrice:     m.BuyPrice,
		SellingPrice: m.SellingPrice,
		CreatedAt:    m.CreatedAt,
	}
}

// PriceSnapshotModelFromDomain builds the model of a domain snapshot
func PriceSnapshotModelFromDomain(s *catalog.PriceSnapshot) *PriceSnapshotModel {
	return &PriceSnapshotModel{
		ID:           s.ID,
		ProductID:    s.ProductID,
		Version:      s.Version,
		BuyPrice:     s.BuyPrice,
		SellingPrice: s.SellingPrice,
		CreatedAt:    s.CreatedAt,
	}
}
