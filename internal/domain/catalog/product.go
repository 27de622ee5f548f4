package catalog

import (
	"strings"
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item with stock and versioned prices
type Product struct {
	shared.BaseEntity
	Name         string
	Quantity     int
	BuyPrice     decimal.Decimal
	SellingPrice decimal.Decimal
	PriceVersion int
}

// PriceSnapshot is one historical price of a product. Versions start at 1
// and grow by one on every change, including reverts.
type PriceSnapshot struct {
	ID           int64
	ProductID    int64
	Version      int
	BuyPrice     decimal.Decimal
	SellingPrice decimal.Decimal
	CreatedAt    time.Time
}

// NewProduct creates a product at price version 1
func NewProduct(name string, quantity int, buyPrice, sellingPrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if err := validatePrices(buyPrice, sellingPrice); err != nil {
		return nil, err
	}
	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Quantity:     quantity,
		BuyPrice:     buyPrice,
		SellingPrice: sellingPrice,
		PriceVersion: 1,
	}, nil
}

// Snapshot returns the current prices as a snapshot at the current version
func (p *Product) Snapshot() *PriceSnapshot {
	return &PriceSnapshot{
		ProductID:    p.ID,
		Version:      p.PriceVersion,
		BuyPrice:     p.BuyPrice,
		SellingPrice: p.SellingPrice,
		CreatedAt:    time.Now(),
	}
}

// ChangePrice sets new prices and returns the snapshot to store
func (p *Product) ChangePrice(buyPrice, sellingPrice decimal.Decimal) (*PriceSnapshot, error) {
	if err := validatePrices(buyPrice, sellingPrice); err != nil {
		return nil, err
	}
	if p.BuyPrice.Equal(buyPrice) && p.SellingPrice.Equal(sellingPrice) {
		return nil, shared.NewDomainError("PRICE_UNCHANGED", "New prices are the same as the current prices")
	}
	p.BuyPrice = buyPrice
	p.SellingPrice = sellingPrice
	p.PriceVersion++
	p.Touch()
	return p.Snapshot(), nil
}

// RevertTo restores the prices of an earlier snapshot as a new version
func (p *Product) RevertTo(snapshot *PriceSnapshot) (*PriceSnapshot, error) {
	if snapshot.ProductID != p.ID {
		return nil, shared.NewDomainError("SNAPSHOT_MISMATCH", "Snapshot belongs to a different product")
	}
	if snapshot.Version >= p.PriceVersion {
		return nil, shared.NewDomainError("INVALID_SNAPSHOT", "Can only revert to an earlier price version")
	}
	p.BuyPrice = snapshot.BuyPrice
	p.SellingPrice = snapshot.SellingPrice
	p.PriceVersion++
	p.Touch()
	return p.Snapshot(), nil
}

// IsOversold reports whether more units were sold than were in stock
func (p *Product) IsOversold() bool {
	return p.Quantity < 0
}

func validatePrices(buyPrice, sellingPrice decimal.Decimal) error {
	if buyPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Buy price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if !buyPrice.Equal(buyPrice.Round(2)) || !sellingPrice.Equal(sellingPrice.Round(2)) {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot have more than two decimal places")
	}
	return nil
}
