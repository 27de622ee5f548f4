package report

import (
	"time"

	"github.com/erp/installments/internal/domain/report"
	"github.com/shopspring/decimal"
)

// FinancialRequest selects the report period [From, To)
type FinancialRequest struct {
	From time.Time `form:"from" json:"from" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	To   time.Time `form:"to" json:"to" binding:"required" time_format:"2006-01-02" time_utc:"1"`
}

// FinancialResponse is the financial summary with derived totals
type FinancialResponse struct {
	report.FinancialSummary
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalCollected    decimal.Decimal `json:"total_collected"`
	TotalAgentBalance decimal.Decimal `json:"total_agent_balance"`
}

// ToFinancialResponse adds totals to a summary
func ToFinancialResponse(s *report.FinancialSummary) FinancialResponse {
	return FinancialResponse{
		FinancialSummary:  *s,
		TotalSales:        s.TotalSales(),
		TotalCollected:    s.TotalCollected(),
		TotalAgentBalance: s.TotalAgentBalance(),
	}
}

// ExportResponse points at an uploaded report PDF
type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Bytes     int       `json:"bytes"`
	Pages     int       `json:"pages"`
}
