package models

import (
	"time"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptModel maps the receipts table
type ReceiptModel struct {
	ID          int64                 `gorm:"primaryKey;autoIncrement"`
	CustomerID  int64                 `gorm:"not null;index"`
	ReceiptType string                `gorm:"type:varchar(20);not null"`
	TotalPrice  decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Note        string                `gorm:"type:text"`
	CreatedAt   time.Time             `gorm:"not null;index"`
	UpdatedAt   time.Time             `gorm:"not null"`
	Lines       []ReceiptProductModel `gorm:"foreignKey:ReceiptID"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string { return "receipts" }

// ReceiptProductModel maps the receipt_products table
type ReceiptProductModel struct {
	ID           int64             `gorm:"primaryKey;autoIncrement"`
	ReceiptID    int64             `gorm:"not null;index"`
	ProductID    int64             `gorm:"not null;index"`
	Quantity     int               `gorm:"not null"`
	SellingPrice decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	CreatedAt    time.Time         `gorm:"not null"`
	Installment  *InstallmentModel `gorm:"foreignKey:ReceiptProductID"`
}

// TableName returns the table name for GORM
func (ReceiptProductModel) TableName() string { return "receipt_products" }

// InstallmentModel maps the installments table. pay_cont and installment keep
// the legacy column names of the schema.
type InstallmentModel struct {
	ID                int64                     `gorm:"primaryKey;autoIncrement"`
	ReceiptProductID  int64                     `gorm:"not null;uniqueIndex"`
	PayCount          int                       `gorm:"column:pay_cont;not null;default:0"`
	InstallmentAmount decimal.Decimal           `gorm:"column:installment;type:decimal(18,2);not null;default:0"`
	FirstPay          decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	InstallmentType   string                    `gorm:"type:varchar(20);not null"`
	Status            string                    `gorm:"type:varchar(20);not null;index"`
	CreatedAt         time.Time                 `gorm:"not null"`
	UpdatedAt         time.Time                 `gorm:"not null"`
	Payments          []InstallmentPaymentModel `gorm:"foreignKey:InstallmentID"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string { return "installments" }

// InstallmentPaymentModel maps the installment_payments table
type InstallmentPaymentModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	InstallmentID int64           `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentDate   time.Time       `gorm:"not null;index"`
	Status        string          `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InstallmentPaymentModel) TableName() string { return "installment_payments" }

// ReceiptModelFromDomain builds the receipt model with nested lines and plans.
// Ids are zero for a new receipt and filled by the insert.
func ReceiptModelFromDomain(r *ledger.Receipt) *ReceiptModel {
	m := &ReceiptModel{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		ReceiptType: string(r.Type),
		TotalPrice:  r.TotalPrice,
		Note:        r.Note,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Lines:       make([]ReceiptProductModel, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		lm := ReceiptProductModel{
			ID:           line.ID,
			ReceiptID:    r.ID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			SellingPrice: line.SellingPrice,
			CreatedAt:    r.CreatedAt,
		}
		if line.Installment != nil {
			lm.Installment = InstallmentModelFromDomain(line.Installment)
		}
		m.Lines = append(m.Lines, lm)
	}
	return m
}

// AssignIDs copies database ids from a saved model back onto the receipt
func (m *ReceiptModel) AssignIDs(r *ledger.Receipt) {
	r.ID = m.ID
	for i, lm := range m.Lines {
		line := r.Lines[i]
		line.ID = lm.ID
		line.ReceiptID = m.ID
		if line.Installment != nil && lm.Installment != nil {
			line.Installment.ID = lm.Installment.ID
			line.Installment.ReceiptID = m.ID
			line.Installment.ReceiptProductID = lm.ID
		}
	}
}

// ToDomain converts the receipt with its lines, plans and payments
func (m *ReceiptModel) ToDomain() *ledger.Receipt {
	r := &ledger.Receipt{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		},
		CustomerID: m.CustomerID,
		Type:       ledger.ReceiptType(m.ReceiptType),
		TotalPrice: m.TotalPrice,
		Note:       m.Note,
		Lines:      make([]*ledger.ReceiptLine, 0, len(m.Lines)),
	}
	for i := range m.Lines {
		lm := &m.Lines[i]
		line := &ledger.ReceiptLine{
			ID:           lm.ID,
			ReceiptID:    m.ID,
			ProductID:    lm.ProductID,
			Quantity:     lm.Quantity,
			SellingPrice: lm.SellingPrice,
		}
		if lm.Installment != nil {
			line.Installment = lm.Installment.ToDomain(lm, m.CustomerID)
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}

// InstallmentModelFromDomain builds the model of a plan without payments
func InstallmentModelFromDomain(i *ledger.Installment) *InstallmentModel {
	return &InstallmentModel{
		ID:                i.ID,
		ReceiptProductID:  i.ReceiptProductID,
		PayCount:          i.PayCount,
		InstallmentAmount: i.InstallmentAmount,
		FirstPay:          i.FirstPay,
		InstallmentType:   string(i.Type),
		Status:            string(i.Status),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

// ToDomain converts a plan. The line supplies the plan total.
func (m *InstallmentModel) ToDomain(line *ReceiptProductModel, customerID int64) *ledger.Installment {
	payments := make([]*ledger.Payment, 0, len(m.Payments))
	for i := range m.Payments {
		payments = append(payments, m.Payments[i].ToDomain())
	}
	return &ledger.Installment{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		},
		Payable: ledger.Payable{
			Total:    line.SellingPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			FirstPay: m.FirstPay,
			Status:   ledger.Status(m.Status),
			Payments: payments,
		},
		ReceiptID:         line.ReceiptID,
		ReceiptProductID:  m.ReceiptProductID,
		CustomerID:        customerID,
		PayCount:          m.PayCount,
		InstallmentAmount: m.InstallmentAmount,
		Type:              ledger.InstallmentType(m.InstallmentType),
	}
}

// ToDomain converts a payment row
func (m *InstallmentPaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		ID:          m.ID,
		UnitID:      m.InstallmentID,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Tag:         ledger.PaymentTag(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

// InstallmentPaymentModelFromDomain builds the row of a plan payment
func InstallmentPaymentModelFromDomain(p *ledger.Payment) *InstallmentPaymentModel {
	return &InstallmentPaymentModel{
		ID:            p.ID,
		InstallmentID: p.UnitID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		Status:        string(p.Tag),
		CreatedAt:     p.CreatedAt,
	}
}

// DebtModel maps the debts table
type DebtModel struct {
	ID            int64              `gorm:"primaryKey;autoIncrement"`
	CustomerID    int64              `gorm:"not null;index"`
	TotalDebt     decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	RemainingDebt decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Status        string             `gorm:"type:varchar(20);not null;index"`
	Note          string             `gorm:"type:text"`
	CreatedAt     time.Time          `gorm:"not null;index"`
	UpdatedAt     time.Time          `gorm:"not null"`
	Payments      []DebtPaymentModel `gorm:"foreignKey:DebtID"`
}

// TableName returns the table name for GORM
func (DebtModel) TableName() string { return "debts" }

// DebtPaymentModel maps the debt_payments table
type DebtPaymentModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	DebtID      int64           `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentDate time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DebtPaymentModel) TableName() string { return "debt_payments" }

// DebtModelFromDomain builds the model of a debt without payments
func DebtModelFromDomain(d *ledger.Debt) *DebtModel {
	return &DebtModel{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		TotalDebt:     d.Total,
		RemainingDebt: d.RemainingDebt,
		Status:        string(d.Status),
		Note:          d.Note,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ToDomain converts a debt with its payments
func (m *DebtModel) ToDomain() *ledger.Debt {
	payments := make([]*ledger.Payment, 0, len(m.Payments))
	for i := range m.Payments {
		payments = append(payments, m.Payments[i].ToDomain())
	}
	return &ledger.Debt{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		},
		Payable: ledger.Payable{
			Total:    m.TotalDebt,
			FirstPay: decimal.Zero,
			Status:   ledger.Status(m.Status),
			Payments: payments,
		},
		CustomerID:    m.CustomerID,
		RemainingDebt: m.RemainingDebt,
		Note:          m.Note,
	}
}

// ToDomain converts a debt payment row
func (m *DebtPaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		ID:          m.ID,
		UnitID:      m.DebtID,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Tag:         ledger.PaymentTagPaid,
		CreatedAt:   m.CreatedAt,
	}
}

// DebtPaymentModelFromDomain builds the row of a debt payment
func DebtPaymentModelFromDomain(p *ledger.Payment) *DebtPaymentModel {
	return &DebtPaymentModel{
		ID:          p.ID,
		DebtID:      p.UnitID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		CreatedAt:   p.CreatedAt,
	}
}

// FinancialTransactionModel maps the financial_transactions table. The
// (agent_id, id) index serves the ordered suffix scans of recomputation.
type FinancialTransactionModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement;index:idx_fin_tx_agent_id,priority:2"`
	AgentID        int64           `gorm:"not null;index:idx_fin_tx_agent_id,priority:1"`
	Type           string          `gorm:"type:varchar(32);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SumAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Description    string          `gorm:"type:text"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FinancialTransactionModel) TableName() string { return "financial_transactions" }

// ToDomain converts to the domain transaction
func (m *FinancialTransactionModel) ToDomain() *ledger.FinancialTransaction {
	return &ledger.FinancialTransaction{
		BaseEntity:     shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		AgentID:        m.AgentID,
		Type:           ledger.TransactionType(m.Type),
		TotalAmount:    m.TotalAmount,
		DiscountAmount: m.DiscountAmount,
		PaidAmount:     m.PaidAmount,
		SumAmount:      m.SumAmount,
		Description:    m.Description,
	}
}

// FinancialTransactionModelFromDomain builds the model of a transaction
func FinancialTransactionModelFromDomain(t *ledger.FinancialTransaction) *FinancialTransactionModel {
	return &FinancialTransactionModel{
		ID:             t.ID,
		AgentID:        t.AgentID,
		Type:           string(t.Type),
		TotalAmount:    t.TotalAmount,
		DiscountAmount: t.DiscountAmount,
		PaidAmount:     t.PaidAmount,
		SumAmount:      t.SumAmount,
		Description:    t.Description,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
