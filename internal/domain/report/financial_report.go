package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary is a read model of sales, collections and balances for a period
type FinancialSummary struct {
	PeriodStart             time.Time       `json:"period_start"`
	PeriodEnd               time.Time       `json:"period_end"`
	ReceiptCount            int64           `json:"receipt_count"`
	CashSales               decimal.Decimal `json:"cash_sales"`
	InstallmentSales        decimal.Decimal `json:"installment_sales"`
	FirstPayCollected       decimal.Decimal `json:"first_pay_collected"`   // Upfront payments on plans created in the period
	InstallmentCollected    decimal.Decimal `json:"installment_collected"` // Installment payments dated in the period
	DebtCollected           decimal.Decimal `json:"debt_collected"`
	OutstandingInstallments decimal.Decimal `json:"outstanding_installments"` // All open plans, not limited to the period
	OutstandingDebts        decimal.Decimal `json:"outstanding_debts"`
	AgentBalances           []AgentBalance  `json:"agent_balances"`
}

// TotalSales returns cash plus installment sales
func (s *FinancialSummary) TotalSales() decimal.Decimal {
	return s.CashSales.Add(s.InstallmentSales)
}

// TotalCollected returns everything collected in the period
func (s *FinancialSummary) TotalCollected() decimal.Decimal {
	return s.CashSales.Add(s.FirstPayCollected).Add(s.InstallmentCollected).Add(s.DebtCollected)
}

// TotalAgentBalance returns what the shop owes all agents
func (s *FinancialSummary) TotalAgentBalance() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.AgentBalances {
		total = total.Add(b.Balance)
	}
	return total
}

// AgentBalance is the latest running sum of one agent
type AgentBalance struct {
	AgentID   int64           `json:"agent_id"`
	AgentName string          `json:"agent_name"`
	Balance   decimal.Decimal `json:"balance"`
}

// SummaryRepository answers aggregate queries for reports
type SummaryRepository interface {
	// Summarize computes the summary for sales and payments dated in [from, to)
	Summarize(ctx context.Context, from, to time.Time) (*FinancialSummary, error)
}
