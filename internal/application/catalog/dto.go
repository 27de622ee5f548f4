package catalog

import (
	"time"

	"github.com/erp/installments/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Quantity     int             `json:"quantity" binding:"gte=0"`
	BuyPrice     decimal.Decimal `json:"buy_price" binding:"decimal_cents"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"decimal_cents"`
}

// ChangePriceRequest sets new buy and selling prices
type ChangePriceRequest struct {
	BuyPrice     decimal.Decimal `json:"buy_price" binding:"decimal_cents"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"decimal_cents"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	PriceVersion int             `json:"price_version"`
	Oversold     bool            `json:"oversold"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		BuyPrice:     p.BuyPrice,
		SellingPrice: p.SellingPrice,
		PriceVersion: p.PriceVersion,
		Oversold:     p.IsOversold(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// PriceSnapshotResponse represents one price version
type PriceSnapshotResponse struct {
	Version      int             `json:"version"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToPriceSnapshotResponse converts a snapshot to its API view
func ToPriceSnapshotResponse(s *catalog.PriceSnapshot) PriceSnapshotResponse {
	return PriceSnapshotResponse{
		Version:      s.Version,
		BuyPrice:     s.BuyPrice,
		SellingPrice: s.SellingPrice,
		CreatedAt:    s.CreatedAt,
	}
}
