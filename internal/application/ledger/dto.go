package ledger

import (
	"time"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// PaymentRequest records a payment against one installment plan, one debt or
// a whole receipt. A nil date means now.
type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,decimal_gt0"`
	PaymentDate *time.Time      `json:"payment_date"`
}

func (r PaymentRequest) date() time.Time {
	if r.PaymentDate == nil || r.PaymentDate.IsZero() {
		return time.Now()
	}
	return *r.PaymentDate
}

// EditPaymentRequest changes an existing payment. A nil date keeps the old one.
type EditPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,decimal_gt0"`
	PaymentDate *time.Time      `json:"payment_date"`
}

func (r EditPaymentRequest) date() time.Time {
	if r.PaymentDate == nil {
		return time.Time{}
	}
	return *r.PaymentDate
}

// PaymentResponse is the API view of a payment record
type PaymentResponse struct {
	ID          int64           `json:"id"`
	UnitID      int64           `json:"unit_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Tag         string          `json:"tag"`
	TagLabel    string          `json:"tag_label,omitempty"`
}

// ToPaymentResponse converts a payment to its API view
func ToPaymentResponse(p *ledger.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		UnitID:      p.UnitID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Tag:         string(p.Tag),
	}
}

func toPaymentResponses(payments []*ledger.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = ToPaymentResponse(p)
	}
	return out
}

// PaymentResult is returned by every single-unit payment mutation
type PaymentResult struct {
	Payment     PaymentResponse `json:"payment"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label,omitempty"`
	Remaining   decimal.Decimal `json:"remaining"`
	// StatusChanged is true when the mutation settled or reopened the unit
	StatusChanged bool `json:"status_changed"`
}

// Localize fills the display labels for the given language
func (r *PaymentResult) Localize(tag language.Tag) {
	r.StatusLabel = ledger.Status(r.Status).DisplayName(tag)
	r.Payment.TagLabel = ledger.PaymentTag(r.Payment.Tag).DisplayName(tag)
}

// InstallmentResponse is the API view of an installment plan
type InstallmentResponse struct {
	ID                int64             `json:"id"`
	ReceiptID         int64             `json:"receipt_id"`
	ReceiptProductID  int64             `json:"receipt_product_id"`
	CustomerID        int64             `json:"customer_id"`
	Total             decimal.Decimal   `json:"total"`
	FirstPay          decimal.Decimal   `json:"first_pay"`
	PaidSoFar         decimal.Decimal   `json:"paid_so_far"`
	Remaining         decimal.Decimal   `json:"remaining"`
	Status            string            `json:"status"`
	StatusLabel       string            `json:"status_label,omitempty"`
	PayCount          int               `json:"pay_count"`
	InstallmentAmount decimal.Decimal   `json:"installment_amount"`
	Type              string            `json:"installment_type"`
	TypeLabel         string            `json:"installment_type_label,omitempty"`
	LastPaymentDate   *time.Time        `json:"last_payment_date,omitempty"`
	NextDueDate       time.Time         `json:"next_due_date"`
	Payments          []PaymentResponse `json:"payments"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ToInstallmentResponse converts a plan to its API view
func ToInstallmentResponse(i *ledger.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:                i.ID,
		ReceiptID:         i.ReceiptID,
		ReceiptProductID:  i.ReceiptProductID,
		CustomerID:        i.CustomerID,
		Total:             i.Total,
		FirstPay:          i.FirstPay,
		PaidSoFar:         i.PaidSoFar(),
		Remaining:         i.Remaining(),
		Status:            string(i.Status),
		PayCount:          i.PayCount,
		InstallmentAmount: i.InstallmentAmount,
		Type:              string(i.Type),
		LastPaymentDate:   i.LastPaymentDate(),
		NextDueDate:       i.NextDueDate(),
		Payments:          toPaymentResponses(i.Payments),
		CreatedAt:         i.CreatedAt,
	}
}

// Localize fills the display labels for the given language
func (r *InstallmentResponse) Localize(tag language.Tag) {
	r.StatusLabel = ledger.Status(r.Status).DisplayName(tag)
	r.TypeLabel = ledger.InstallmentType(r.Type).DisplayName(tag)
	for i := range r.Payments {
		r.Payments[i].TagLabel = ledger.PaymentTag(r.Payments[i].Tag).DisplayName(tag)
	}
}

// CreateDebtRequest opens a new debt for a customer
type CreateDebtRequest struct {
	CustomerID int64           `json:"customer_id" binding:"required,gt=0"`
	Total      decimal.Decimal `json:"total_debt" binding:"required,decimal_gt0"`
	Note       string          `json:"note" binding:"max=500"`
}

// DebtResponse is the API view of a debt
type DebtResponse struct {
	ID            int64             `json:"id"`
	CustomerID    int64             `json:"customer_id"`
	Total         decimal.Decimal   `json:"total_debt"`
	PaidSoFar     decimal.Decimal   `json:"paid_so_far"`
	Remaining     decimal.Decimal   `json:"remaining"`
	RemainingDebt decimal.Decimal   `json:"remaining_debt"`
	Status        string            `json:"status"`
	StatusLabel   string            `json:"status_label,omitempty"`
	Note          string            `json:"note,omitempty"`
	Payments      []PaymentResponse `json:"payments"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ToDebtResponse converts a debt to its API view. Remaining is derived from
// the payments; RemainingDebt is the stored column.
func ToDebtResponse(d *ledger.Debt) DebtResponse {
	return DebtResponse{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		Total:         d.Total,
		PaidSoFar:     d.PaidSoFar(),
		Remaining:     d.Remaining(),
		RemainingDebt: d.RemainingDebt,
		Status:        string(d.Status),
		Note:          d.Note,
		Payments:      toPaymentResponses(d.Payments),
		CreatedAt:     d.CreatedAt,
	}
}

// Localize fills the display labels for the given language
func (r *DebtResponse) Localize(tag language.Tag) {
	r.StatusLabel = ledger.Status(r.Status).DisplayName(tag)
}

// ReceiptLineRequest is one product line of a new receipt. A nil selling
// price takes the product's current price. Plan fields are required on
// installment receipts.
type ReceiptLineRequest struct {
	ProductID         int64            `json:"product_id" binding:"required,gt=0"`
	Quantity          int              `json:"quantity" binding:"required,gt=0"`
	SellingPrice      *decimal.Decimal `json:"selling_price" binding:"omitempty,decimal_cents"`
	FirstPay          decimal.Decimal  `json:"first_pay" binding:"decimal_cents"`
	PayCount          int              `json:"pay_cont" binding:"gte=0"`
	InstallmentAmount decimal.Decimal  `json:"installment" binding:"decimal_cents"`
	InstallmentType   string           `json:"installment_type" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
}

// CreateReceiptRequest sells products cash or on installment
type CreateReceiptRequest struct {
	CustomerID  int64                `json:"customer_id" binding:"required,gt=0"`
	ReceiptType string               `json:"receipt_type" binding:"required,oneof=CASH INSTALLMENT"`
	Note        string               `json:"note" binding:"max=500"`
	Lines       []ReceiptLineRequest `json:"products" binding:"required,min=1,dive"`
}

// ReceiptLineResponse is the API view of a receipt line
type ReceiptLineResponse struct {
	ID           int64                `json:"id"`
	ProductID    int64                `json:"product_id"`
	Quantity     int                  `json:"quantity"`
	SellingPrice decimal.Decimal      `json:"selling_price"`
	Total        decimal.Decimal      `json:"total"`
	Installment  *InstallmentResponse `json:"installment,omitempty"`
}

// ReceiptResponse is the API view of a receipt
type ReceiptResponse struct {
	ID          int64                 `json:"id"`
	CustomerID  int64                 `json:"customer_id"`
	ReceiptType string                `json:"receipt_type"`
	TypeLabel   string                `json:"receipt_type_label,omitempty"`
	TotalPrice  decimal.Decimal       `json:"total_price"`
	Note        string                `json:"note,omitempty"`
	Lines       []ReceiptLineResponse `json:"products"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ToReceiptResponse converts a receipt to its API view
func ToReceiptResponse(r *ledger.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReceiptLineResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			SellingPrice: l.SellingPrice,
			Total:        l.Total(),
		}
		if l.Installment != nil {
			inst := ToInstallmentResponse(l.Installment)
			lines[i].Installment = &inst
		}
	}
	return ReceiptResponse{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		ReceiptType: string(r.Type),
		TotalPrice:  r.TotalPrice,
		Note:        r.Note,
		Lines:       lines,
		CreatedAt:   r.CreatedAt,
	}
}

// Localize fills the display labels for the given language
func (r *ReceiptResponse) Localize(tag language.Tag) {
	r.TypeLabel = ledger.ReceiptType(r.ReceiptType).DisplayName(tag)
	for i := range r.Lines {
		if r.Lines[i].Installment != nil {
			r.Lines[i].Installment.Localize(tag)
		}
	}
}

// LineBalanceResponse is the position of one installment line
type LineBalanceResponse struct {
	LineID        int64           `json:"line_id"`
	InstallmentID int64           `json:"installment_id"`
	ProductID     int64           `json:"product_id"`
	Total         decimal.Decimal `json:"total"`
	FirstPay      decimal.Decimal `json:"first_pay"`
	Paid          decimal.Decimal `json:"paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"status_label,omitempty"`
}

// ReceiptBalanceResponse is the settlement position of a receipt
type ReceiptBalanceResponse struct {
	ReceiptID   int64                 `json:"receipt_id"`
	ReceiptType string                `json:"receipt_type"`
	TotalPrice  decimal.Decimal       `json:"total_price"`
	Paid        decimal.Decimal       `json:"paid"`
	Remaining   decimal.Decimal       `json:"remaining"`
	Lines       []LineBalanceResponse `json:"lines"`
}

// ToReceiptBalanceResponse derives the balance from the receipt's plans.
// Cash receipts are fully paid with no lines.
func ToReceiptBalanceResponse(r *ledger.Receipt) ReceiptBalanceResponse {
	resp := ReceiptBalanceResponse{
		ReceiptID:   r.ID,
		ReceiptType: string(r.Type),
		TotalPrice:  r.TotalPrice,
		Lines:       make([]LineBalanceResponse, 0, len(r.Lines)),
	}
	if r.Type == ledger.ReceiptTypeCash {
		resp.Paid = r.TotalPrice
		resp.Remaining = decimal.Zero
		return resp
	}

	paid := decimal.Zero
	for _, l := range r.Lines {
		inst := l.Installment
		if inst == nil {
			continue
		}
		linePaid := inst.PaidSoFar()
		paid = paid.Add(linePaid)
		resp.Lines = append(resp.Lines, LineBalanceResponse{
			LineID:        l.ID,
			InstallmentID: inst.ID,
			ProductID:     l.ProductID,
			Total:         inst.Total,
			FirstPay:      inst.FirstPay,
			Paid:          linePaid,
			Remaining:     inst.Remaining(),
			Status:        string(inst.Status),
		})
	}
	resp.Paid = paid
	resp.Remaining = r.Remaining()
	return resp
}

// Localize fills the display labels for the given language
func (r *ReceiptBalanceResponse) Localize(tag language.Tag) {
	for i := range r.Lines {
		r.Lines[i].StatusLabel = ledger.Status(r.Lines[i].Status).DisplayName(tag)
	}
}

// AllocationResponse is the part of a lump payment applied to one plan
type AllocationResponse struct {
	InstallmentID int64           `json:"installment_id"`
	PaymentID     int64           `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Tag           string          `json:"tag"`
	Status        string          `json:"status"`
}

// LumpPaymentResponse reports how a receipt payment was split. Lines holds
// every installment line of the receipt with its resulting balance.
type LumpPaymentResponse struct {
	ReceiptID   int64                 `json:"receipt_id"`
	Amount      decimal.Decimal       `json:"amount"`
	Strategy    string                `json:"strategy"`
	Allocated   decimal.Decimal       `json:"allocated"`
	Unallocated decimal.Decimal       `json:"unallocated"`
	Allocations []AllocationResponse  `json:"allocations"`
	Remaining   decimal.Decimal       `json:"remaining"`
	Lines       []LineBalanceResponse `json:"lines"`
}

// TransactionRequest carries the editable fields of an agent transaction
type TransactionRequest struct {
	Type           string          `json:"type" binding:"required,oneof=PURCHASE_INVOICE INVOICE_SETTLEMENT PURCHASE_DEBT"`
	TotalAmount    decimal.Decimal `json:"total_amount" binding:"decimal_cents"`
	DiscountAmount decimal.Decimal `json:"discount_amount" binding:"decimal_cents"`
	PaidAmount     decimal.Decimal `json:"paid_amount" binding:"decimal_cents"`
	Description    string          `json:"description" binding:"max=500"`
}

func (r TransactionRequest) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Type:           ledger.TransactionType(r.Type),
		TotalAmount:    r.TotalAmount,
		DiscountAmount: r.DiscountAmount,
		PaidAmount:     r.PaidAmount,
		Description:    r.Description,
	}
}

// CreateTransactionRequest appends a transaction to an agent's ledger
type CreateTransactionRequest struct {
	AgentID int64 `json:"agent_id" binding:"required,gt=0"`
	TransactionRequest
}

// TransactionResponse is the API view of an agent transaction
type TransactionResponse struct {
	ID             int64           `json:"id"`
	AgentID        int64           `json:"agent_id"`
	Type           string          `json:"type"`
	TypeLabel      string          `json:"type_label,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	SumAmount      decimal.Decimal `json:"sum_amount"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a transaction to its API view
func ToTransactionResponse(t *ledger.FinancialTransaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		AgentID:        t.AgentID,
		Type:           string(t.Type),
		TotalAmount:    t.TotalAmount,
		DiscountAmount: t.DiscountAmount,
		PaidAmount:     t.PaidAmount,
		SumAmount:      t.SumAmount,
		Description:    t.Description,
		CreatedAt:      t.CreatedAt,
	}
}

// Localize fills the display labels for the given language
func (r *TransactionResponse) Localize(tag language.Tag) {
	r.TypeLabel = ledger.TransactionType(r.Type).DisplayName(tag)
}

// AgentBalanceResponse is the current running balance of an agent
type AgentBalanceResponse struct {
	AgentID      int64           `json:"agent_id"`
	AgentName    string          `json:"agent_name"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions int64           `json:"transactions"`
}

// RecomputeResponse reports one agent's recompute walk
type RecomputeResponse struct {
	AgentID  int64           `json:"agent_id"`
	Visited  int             `json:"visited"`
	Updated  int             `json:"updated"`
	FinalSum decimal.Decimal `json:"final_sum"`
}
