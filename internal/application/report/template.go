package report

import (
	"bytes"
	"html/template"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// label keys of the financial report
var reportLabels = map[string][2]string{
	"title":                    {"Financial report", "التقرير المالي"},
	"period":                   {"Period", "الفترة"},
	"receipts":                 {"Receipts", "عدد الوصولات"},
	"cash_sales":               {"Cash sales", "المبيعات النقدية"},
	"installment_sales":        {"Installment sales", "مبيعات التقسيط"},
	"total_sales":              {"Total sales", "إجمالي المبيعات"},
	"first_pay_collected":      {"First payments collected", "الدفعات الأولى المستلمة"},
	"installment_collected":    {"Installment payments collected", "الأقساط المستلمة"},
	"debt_collected":           {"Debt payments collected", "تسديدات الديون"},
	"total_collected":          {"Total collected", "إجمالي المستلم"},
	"outstanding_installments": {"Outstanding installments", "الأقساط المتبقية"},
	"outstanding_debts":        {"Outstanding debts", "الديون المتبقية"},
	"agent_balances":           {"Agent balances", "أرصدة الوكلاء"},
	"agent":                    {"Agent", "الوكيل"},
	"balance":                  {"Balance", "الرصيد"},
	"total":                    {"Total", "المجموع"},
}

func init() {
	langs := []language.Tag{language.English, language.Arabic}
	for key, names := range reportLabels {
		for i, tag := range langs {
			_ = message.SetString(tag, "report."+key, names[i])
		}
	}
}

const financialTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="UTF-8">
<title>{{call .L "title"}}</title>
<style>
body { font-family: "Noto Naskh Arabic", "DejaVu Sans", sans-serif; font-size: 12px; }
h1 { font-size: 18px; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
td, th { border: 1px solid #999; padding: 4px 8px; }
td.num { text-align: end; font-variant-numeric: tabular-nums; }
tr.total td { font-weight: bold; }
</style>
</head>
<body>
<h1>{{call .L "title"}}</h1>
<p>{{call .L "period"}}: {{.From}} - {{.To}}</p>
<table>
<tr><td>{{call .L "receipts"}}</td><td class="num">{{.S.ReceiptCount}}</td></tr>
<tr><td>{{call .L "cash_sales"}}</td><td class="num">{{call .M .S.CashSales}}</td></tr>
<tr><td>{{call .L "installment_sales"}}</td><td class="num">{{call .M .S.InstallmentSales}}</td></tr>
<tr class="total"><td>{{call .L "total_sales"}}</td><td class="num">{{call .M .TotalSales}}</td></tr>
<tr><td>{{call .L "first_pay_collected"}}</td><td class="num">{{call .M .S.FirstPayCollected}}</td></tr>
<tr><td>{{call .L "installment_collected"}}</td><td class="num">{{call .M .S.InstallmentCollected}}</td></tr>
<tr><td>{{call .L "debt_collected"}}</td><td class="num">{{call .M .S.DebtCollected}}</td></tr>
<tr class="total"><td>{{call .L "total_collected"}}</td><td class="num">{{call .M .TotalCollected}}</td></tr>
<tr><td>{{call .L "outstanding_installments"}}</td><td class="num">{{call .M .S.OutstandingInstallments}}</td></tr>
<tr><td>{{call .L "outstanding_debts"}}</td><td class="num">{{call .M .S.OutstandingDebts}}</td></tr>
</table>
{{if .S.AgentBalances}}
<h2>{{call .L "agent_balances"}}</h2>
<table>
<tr><th>{{call .L "agent"}}</th><th>{{call .L "balance"}}</th></tr>
{{range .S.AgentBalances}}<tr><td>{{.AgentName}}</td><td class="num">{{call $.M .Balance}}</td></tr>
{{end}}<tr class="total"><td>{{call .L "total"}}</td><td class="num">{{call .M .TotalAgentBalance}}</td></tr>
</table>
{{end}}
</body>
</html>`

var financialTmpl = template.Must(template.New("financial").Parse(financialTemplate))

type financialView struct {
	Lang              string
	Dir               string
	From              string
	To                string
	S                 *FinancialResponse
	TotalSales        decimal.Decimal
	TotalCollected    decimal.Decimal
	TotalAgentBalance decimal.Decimal
	L                 func(key string) string
	M                 func(amount decimal.Decimal) string
}

// renderFinancialHTML renders the summary as a standalone HTML document in
// the closest supported language
func renderFinancialHTML(resp *FinancialResponse, tag language.Tag) (string, error) {
	lang := ledger.MatchDisplayLanguage(tag)
	printer := message.NewPrinter(lang)
	dir := "ltr"
	if lang == language.Arabic {
		dir = "rtl"
	}
	base, _ := lang.Base()

	view := financialView{
		Lang:              base.String(),
		Dir:               dir,
		From:              resp.PeriodStart.Format("2006-01-02"),
		To:                resp.PeriodEnd.Format("2006-01-02"),
		S:                 resp,
		TotalSales:        resp.TotalSales,
		TotalCollected:    resp.TotalCollected,
		TotalAgentBalance: resp.TotalAgentBalance,
		L:                 func(key string) string { return printer.Sprintf("report." + key) },
		M: func(amount decimal.Decimal) string {
			f, _ := amount.Round(2).Float64()
			return printer.Sprintf("%.2f", f)
		},
	}

	var buf bytes.Buffer
	if err := financialTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
