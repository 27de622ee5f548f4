package persistence

import (
	"context"
	"time"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/report"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSummaryRepository implements report.SummaryRepository using GORM.
// Outstanding balances are derived from payment rows, never from the
// denormalized remaining_debt column.
type GormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GormSummaryRepository
func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

type salesRow struct {
	ReceiptType string
	Count       int64
	Total       decimal.Decimal
}

type openPlanRow struct {
	Quantity     int
	SellingPrice decimal.Decimal
	FirstPay     decimal.Decimal
	Paid         decimal.Decimal
}

type openDebtRow struct {
	TotalDebt decimal.Decimal
	Paid      decimal.Decimal
}

// Summarize computes the summary for sales and payments dated in [from, to)
func (r *GormSummaryRepository) Summarize(ctx context.Context, from, to time.Time) (*report.FinancialSummary, error) {
	db := r.db.WithContext(ctx)
	summary := &report.FinancialSummary{
		PeriodStart:             from,
		PeriodEnd:               to,
		CashSales:               decimal.Zero,
		InstallmentSales:        decimal.Zero,
		FirstPayCollected:       decimal.Zero,
		InstallmentCollected:    decimal.Zero,
		DebtCollected:           decimal.Zero,
		OutstandingInstallments: decimal.Zero,
		OutstandingDebts:        decimal.Zero,
		AgentBalances:           make([]report.AgentBalance, 0),
	}

	var sales []salesRow
	err := db.Model(&models.ReceiptModel{}).
		Select("receipt_type, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("receipt_type").
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		summary.ReceiptCount += s.Count
		switch ledger.ReceiptType(s.ReceiptType) {
		case ledger.ReceiptTypeCash:
			summary.CashSales = s.Total
		case ledger.ReceiptTypeInstallment:
			summary.InstallmentSales = s.Total
		}
	}

	if summary.FirstPayCollected, err = sumColumn(db.Model(&models.InstallmentModel{}).
		Where("created_at >= ? AND created_at < ?", from, to), "first_pay"); err != nil {
		return nil, err
	}
	if summary.InstallmentCollected, err = sumColumn(db.Model(&models.InstallmentPaymentModel{}).
		Where("payment_date >= ? AND payment_date < ?", from, to), "amount"); err != nil {
		return nil, err
	}
	if summary.DebtCollected, err = sumColumn(db.Model(&models.DebtPaymentModel{}).
		Where("payment_date >= ? AND payment_date < ?", from, to), "amount"); err != nil {
		return nil, err
	}

	if summary.OutstandingInstallments, err = r.outstandingInstallments(db); err != nil {
		return nil, err
	}
	if summary.OutstandingDebts, err = r.outstandingDebts(db); err != nil {
		return nil, err
	}
	if summary.AgentBalances, err = r.agentBalances(db); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *GormSummaryRepository) outstandingInstallments(db *gorm.DB) (decimal.Decimal, error) {
	paid := db.Model(&models.InstallmentPaymentModel{}).
		Select("installment_id, SUM(amount) AS paid").
		Group("installment_id")

	var rows []openPlanRow
	err := db.Table("installments").
		Select("receipt_products.quantity, receipt_products.selling_price, installments.first_pay, COALESCE(p.paid, 0) AS paid").
		Joins("JOIN receipt_products ON receipt_products.id = installments.receipt_product_id").
		Joins("LEFT JOIN (?) AS p ON p.installment_id = installments.id", paid).
		Where("installments.status = ?", string(ledger.StatusPending)).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		lineTotal := row.SellingPrice.Mul(decimal.NewFromInt(int64(row.Quantity)))
		total = total.Add(ledger.Remaining(lineTotal, row.FirstPay, []decimal.Decimal{row.Paid}))
	}
	return total, nil
}

func (r *GormSummaryRepository) outstandingDebts(db *gorm.DB) (decimal.Decimal, error) {
	paid := db.Model(&models.DebtPaymentModel{}).
		Select("debt_id, SUM(amount) AS paid").
		Group("debt_id")

	var rows []openDebtRow
	err := db.Table("debts").
		Select("debts.total_debt, COALESCE(p.paid, 0) AS paid").
		Joins("LEFT JOIN (?) AS p ON p.debt_id = debts.id", paid).
		Where("debts.status = ?", string(ledger.StatusPending)).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(ledger.Remaining(row.TotalDebt, decimal.Zero, []decimal.Decimal{row.Paid}))
	}
	return total, nil
}

// agentBalances returns the sum_amount of each agent's latest entry
func (r *GormSummaryRepository) agentBalances(db *gorm.DB) ([]report.AgentBalance, error) {
	latest := db.Model(&models.FinancialTransactionModel{}).
		Select("MAX(id)").
		Group("agent_id")

	var balances []report.AgentBalance
	err := db.Table("financial_transactions").
		Select("financial_transactions.agent_id, agents.name AS agent_name, financial_transactions.sum_amount AS balance").
		Joins("JOIN agents ON agents.id = financial_transactions.agent_id").
		Where("financial_transactions.id IN (?)", latest).
		Order("financial_transactions.agent_id").
		Scan(&balances).Error
	if err != nil {
		return nil, err
	}
	if balances == nil {
		balances = make([]report.AgentBalance, 0)
	}
	return balances, nil
}

func sumColumn(query *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := query.Select("COALESCE(SUM(" + column + "), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ report.SummaryRepository = (*GormSummaryRepository)(nil)
