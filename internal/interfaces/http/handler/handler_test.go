package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	activityapp "github.com/erp/installments/internal/application/activity"
	catalogapp "github.com/erp/installments/internal/application/catalog"
	ledgerapp "github.com/erp/installments/internal/application/ledger"
	reportapp "github.com/erp/installments/internal/application/report"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/interfaces/http/dto"
	"github.com/erp/installments/internal/interfaces/http/middleware"
	"github.com/erp/installments/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type testAPI struct {
	engine       *gin.Engine
	router       *router.Router
	customers    *mockCustomers
	agents       *mockAgents
	products     *mockProducts
	receipts     *mockReceipts
	installments *mockInstallments
	debts        *mockDebts
	transactions *mockTransactions
	reports      *mockReports
	activity     *mockActivity
}

func newTestAPI(t *testing.T, pingErr error) *testAPI {
	t.Helper()
	api := &testAPI{
		engine:       gin.New(),
		customers:    &mockCustomers{},
		agents:       &mockAgents{},
		products:     &mockProducts{},
		receipts:     &mockReceipts{},
		installments: &mockInstallments{},
		debts:        &mockDebts{},
		transactions: &mockTransactions{},
		reports:      &mockReports{},
		activity:     &mockActivity{},
	}
	base := NewBaseHandler("ar")
	h := &Handlers{
		Customers:    NewCustomerHandler(base, api.customers),
		Agents:       NewAgentHandler(base, api.agents, api.transactions),
		Products:     NewProductHandler(base, api.products),
		Receipts:     NewReceiptHandler(base, api.receipts),
		Installments: NewInstallmentHandler(base, api.installments),
		Debts:        NewDebtHandler(base, api.debts),
		Transactions: NewTransactionHandler(base, api.transactions),
		Reports:      NewReportHandler(base, api.reports),
		Activity:     NewActivityHandler(base, api.activity),
		Health:       NewHealthHandler(stubPinger{err: pingErr}),
	}
	api.engine.Use(middleware.RequestID())
	api.router = router.NewRouter(api.engine)
	for _, g := range h.DomainGroups() {
		api.router.Register(g)
	}
	api.router.Setup()

	t.Cleanup(func() {
		for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
			api.customers, api.agents, api.products, api.receipts, api.installments,
			api.debts, api.transactions, api.reports, api.activity,
		} {
			m.AssertExpectations(t)
		}
	})
	return api
}

func (a *testAPI) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (dto.Response, map[string]any) {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestRoutesCoverLedgerAPI(t *testing.T) {
	api := newTestAPI(t, nil)

	mounted := make(map[router.RouteInfo]bool)
	for _, r := range api.router.Routes() {
		mounted[r] = true
	}

	want := []router.RouteInfo{
		{Method: http.MethodPost, Path: "/api/v1/customers"},
		{Method: http.MethodGet, Path: "/api/v1/customers/:id"},
		{Method: http.MethodPost, Path: "/api/v1/agents"},
		{Method: http.MethodGet, Path: "/api/v1/agents/:id/ledger"},
		{Method: http.MethodPost, Path: "/api/v1/agents/:id/recompute"},
		{Method: http.MethodPost, Path: "/api/v1/products"},
		{Method: http.MethodGet, Path: "/api/v1/products/:id"},
		{Method: http.MethodPut, Path: "/api/v1/products/:id/price"},
		{Method: http.MethodGet, Path: "/api/v1/products/:id/price-snapshots"},
		{Method: http.MethodPost, Path: "/api/v1/products/:id/price-snapshots/:version/revert"},
		{Method: http.MethodPost, Path: "/api/v1/receipts"},
		{Method: http.MethodGet, Path: "/api/v1/receipts/:id/balance"},
		{Method: http.MethodPost, Path: "/api/v1/receipts/:id/payments"},
		{Method: http.MethodGet, Path: "/api/v1/installments/:id"},
		{Method: http.MethodPost, Path: "/api/v1/installments/:id/payments"},
		{Method: http.MethodPut, Path: "/api/v1/installment-payments/:id"},
		{Method: http.MethodDelete, Path: "/api/v1/installment-payments/:id"},
		{Method: http.MethodPost, Path: "/api/v1/debts"},
		{Method: http.MethodGet, Path: "/api/v1/debts/:id"},
		{Method: http.MethodPost, Path: "/api/v1/debts/:id/payments"},
		{Method: http.MethodPut, Path: "/api/v1/debt-payments/:id"},
		{Method: http.MethodDelete, Path: "/api/v1/debt-payments/:id"},
		{Method: http.MethodPost, Path: "/api/v1/financial-transactions"},
		{Method: http.MethodPut, Path: "/api/v1/financial-transactions/:id"},
		{Method: http.MethodDelete, Path: "/api/v1/financial-transactions/:id"},
		{Method: http.MethodGet, Path: "/api/v1/reports/financial"},
		{Method: http.MethodPost, Path: "/api/v1/reports/financial/export"},
		{Method: http.MethodGet, Path: "/api/v1/activity-logs"},
		{Method: http.MethodGet, Path: "/api/v1/health"},
	}
	for _, r := range want {
		assert.True(t, mounted[r], "%s %s not mounted", r.Method, r.Path)
	}
}

func TestInstallmentPay_LocalizesResult(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		wantStatus string
		wantTag    string
	}{
		{"default language", nil, "مسدد", "متأخر"},
		{"english", []string{"Accept-Language", "en-US,en;q=0.9"}, "Paid", "Late"},
		{"unsupported falls back to closest", []string{"Accept-Language", "ar-EG"}, "مسدد", "متأخر"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, nil)
			api.installments.On("Pay", mock.Anything, int64(7), mock.MatchedBy(func(r ledgerapp.PaymentRequest) bool {
				return r.Amount.Equal(decimal.NewFromInt(150))
			})).Return(&ledgerapp.PaymentResult{
				Payment:       ledgerapp.PaymentResponse{ID: 31, UnitID: 7, Amount: decimal.NewFromInt(150), Tag: string(ledger.PaymentTagLate)},
				Status:        string(ledger.StatusPaid),
				Remaining:     decimal.Zero,
				StatusChanged: true,
			}, nil)

			w := api.do(http.MethodPost, "/api/v1/installments/7/payments", map[string]any{"amount": "150"}, tt.headers...)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp, data := decodeResponse(t, w)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.wantStatus, data["status_label"])
			assert.Equal(t, tt.wantTag, data["payment"].(map[string]any)["tag_label"])
			assert.Equal(t, true, data["status_changed"])
		})
	}
}

func TestInstallmentPay_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"exceeds remaining", ledger.NewValidationError(ledger.CodeExceedsRemaining, "payment exceeds remaining 150.00"), http.StatusUnprocessableEntity, dto.ErrCodeExceedsRemaining},
		{"already paid", ledger.NewValidationError(ledger.CodeAlreadyPaid, "installment is already paid"), http.StatusUnprocessableEntity, dto.ErrCodeAlreadyPaid},
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, nil)
			api.installments.On("Pay", mock.Anything, int64(3), mock.Anything).Return(nil, tt.err)

			w := api.do(http.MethodPost, "/api/v1/installments/3/payments", map[string]any{"amount": 10})

			assert.Equal(t, tt.wantStatus, w.Code)
			resp, _ := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestInstallmentPay_RejectsBadInput(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode string
	}{
		{"zero amount", "/api/v1/installments/3/payments", map[string]any{"amount": 0}, dto.ErrCodeValidation},
		{"negative amount", "/api/v1/installments/3/payments", map[string]any{"amount": "-5"}, dto.ErrCodeValidation},
		{"missing amount", "/api/v1/installments/3/payments", map[string]any{}, dto.ErrCodeValidation},
		{"bad id", "/api/v1/installments/abc/payments", map[string]any{"amount": 10}, dto.ErrCodeInvalidInput},
		{"zero id", "/api/v1/installments/0/payments", map[string]any{"amount": 10}, dto.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp, _ := decodeResponse(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
	api.installments.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything, mock.Anything)
}

func TestInstallmentPaymentEditAndDelete(t *testing.T) {
	api := newTestAPI(t, nil)
	reopened := &ledgerapp.PaymentResult{
		Payment: ledgerapp.PaymentResponse{ID: 9, Tag: string(ledger.PaymentTagPaid)},
		Status:  string(ledger.StatusPending),
	}
	api.installments.On("EditPayment", mock.Anything, int64(9), mock.MatchedBy(func(r ledgerapp.EditPaymentRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(40)) && r.PaymentDate == nil
	})).Return(reopened, nil)
	api.installments.On("DeletePayment", mock.Anything, int64(9)).Return(reopened, nil)

	w := api.do(http.MethodPut, "/api/v1/installment-payments/9", map[string]any{"amount": "40"}, "Accept-Language", "en")
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeResponse(t, w)
	assert.Equal(t, "Pending", data["status_label"])

	w = api.do(http.MethodDelete, "/api/v1/installment-payments/9", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInstallmentGet(t *testing.T) {
	api := newTestAPI(t, nil)
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	api.installments.On("Get", mock.Anything, int64(4)).Return(&ledgerapp.InstallmentResponse{
		ID:              4,
		Total:           decimal.NewFromInt(1200),
		Remaining:       decimal.NewFromInt(600),
		Status:          string(ledger.StatusPending),
		Type:            string(ledger.InstallmentTypeMonthly),
		LastPaymentDate: &last,
	}, nil)

	w := api.do(http.MethodGet, "/api/v1/installments/4", nil, "Accept-Language", "en")

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeResponse(t, w)
	assert.Equal(t, "600", data["remaining"])
	assert.Equal(t, "Monthly", data["installment_type_label"])
	assert.Equal(t, "2026-03-01T00:00:00Z", data["last_payment_date"])
}

func TestDebtEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	api.debts.On("Create", mock.Anything, mock.MatchedBy(func(r ledgerapp.CreateDebtRequest) bool {
		return r.CustomerID == 2 && r.Total.Equal(decimal.NewFromInt(500))
	})).Return(&ledgerapp.DebtResponse{ID: 11, CustomerID: 2, Total: decimal.NewFromInt(500), Status: string(ledger.StatusPending)}, nil)
	api.debts.On("Pay", mock.Anything, int64(11), mock.Anything).
		Return(nil, ledger.NewValidationError(ledger.CodeExceedsRemaining, "payment exceeds remaining 500.00"))
	api.debts.On("DeletePayment", mock.Anything, int64(5)).Return(nil, shared.ErrNotFound)

	w := api.do(http.MethodPost, "/api/v1/debts", map[string]any{"customer_id": 2, "total_debt": "500"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodPost, "/api/v1/debts/11/payments", map[string]any{"amount": "600"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/debt-payments/5", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/api/v1/debts", map[string]any{"customer_id": 2, "total_debt": "0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiptEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	api.receipts.On("Balance", mock.Anything, int64(20)).Return(&ledgerapp.ReceiptBalanceResponse{
		ReceiptID:   20,
		ReceiptType: string(ledger.ReceiptTypeInstallment),
		TotalPrice:  decimal.NewFromInt(900),
		Paid:        decimal.NewFromInt(300),
		Remaining:   decimal.NewFromInt(600),
		Lines: []ledgerapp.LineBalanceResponse{
			{LineID: 1, InstallmentID: 5, Status: string(ledger.StatusPending)},
		},
	}, nil)
	api.receipts.On("Pay", mock.Anything, int64(20), mock.Anything).Return(&ledgerapp.LumpPaymentResponse{
		ReceiptID: 20,
		Amount:    decimal.NewFromInt(100),
		Strategy:  "leftover_proportional",
		Allocated: decimal.NewFromInt(100),
	}, nil)
	api.receipts.On("Pay", mock.Anything, int64(21), mock.Anything).
		Return(nil, ledger.NewValidationError(ledger.CodeNothingOwed, "receipt has nothing owed"))

	w := api.do(http.MethodGet, "/api/v1/receipts/20/balance", nil, "Accept-Language", "en")
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeResponse(t, w)
	assert.Equal(t, "600", data["remaining"])
	line := data["lines"].([]any)[0].(map[string]any)
	assert.Equal(t, "Pending", line["status_label"])

	w = api.do(http.MethodPost, "/api/v1/receipts/20/payments", map[string]any{"amount": "100"})
	require.Equal(t, http.StatusOK, w.Code)
	_, data = decodeResponse(t, w)
	assert.Equal(t, "leftover_proportional", data["strategy"])

	w = api.do(http.MethodPost, "/api/v1/receipts/21/payments", map[string]any{"amount": "100"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp, _ := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeNothingOwed, resp.Error.Code)
}

func TestReceiptCreate_ValidatesLines(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodPost, "/api/v1/receipts", map[string]any{
		"customer_id":  1,
		"receipt_type": "CREDIT",
		"products":     []any{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := decodeResponse(t, w)
	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "receipt_type")
	assert.Contains(t, fields, "products")
}

func TestTransactionEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	api.transactions.On("Create", mock.Anything, mock.MatchedBy(func(r ledgerapp.CreateTransactionRequest) bool {
		return r.AgentID == 3 && r.Type == string(ledger.TransactionTypePurchaseInvoice) && r.TotalAmount.Equal(decimal.NewFromInt(1000))
	})).Return(&ledgerapp.TransactionResponse{ID: 8, AgentID: 3, Type: string(ledger.TransactionTypePurchaseInvoice), SumAmount: decimal.NewFromInt(1000)}, nil)
	api.transactions.On("Delete", mock.Anything, int64(8)).Return(nil)
	api.transactions.On("Update", mock.Anything, int64(9), mock.Anything).
		Return(nil, ledger.NewValidationError(ledger.CodeInvalidTransaction, "discount exceeds total"))

	w := api.do(http.MethodPost, "/api/v1/financial-transactions", map[string]any{
		"agent_id":     3,
		"type":         "PURCHASE_INVOICE",
		"total_amount": "1000",
	}, "Accept-Language", "en")
	require.Equal(t, http.StatusCreated, w.Code)
	_, data := decodeResponse(t, w)
	assert.Equal(t, "Purchase invoice", data["type_label"])
	assert.Equal(t, "1000", data["sum_amount"])

	w = api.do(http.MethodPut, "/api/v1/financial-transactions/9", map[string]any{"type": "PURCHASE_DEBT", "total_amount": "5"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/financial-transactions/8", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAgentLedger(t *testing.T) {
	api := newTestAPI(t, nil)
	api.transactions.On("ListByAgent", mock.Anything, int64(3), mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 1 && f.OrderDir == "asc"
	})).Return(shared.NewPaginated([]ledgerapp.TransactionResponse{
		{ID: 2, AgentID: 3, Type: string(ledger.TransactionTypeInvoiceSettlement), SumAmount: decimal.NewFromInt(700)},
	}, 3, 2, 1), nil)
	api.transactions.On("RecomputeAgent", mock.Anything, int64(3)).
		Return(&ledgerapp.RecomputeResponse{AgentID: 3, Visited: 3, Updated: 1, FinalSum: decimal.NewFromInt(700)}, nil)

	w := api.do(http.MethodGet, "/api/v1/agents/3/ledger?page=2&page_size=1&order_dir=asc", nil, "Accept-Language", "en")
	require.Equal(t, http.StatusOK, w.Code)
	resp, _ := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	items := resp.Data.([]any)
	assert.Equal(t, "Invoice settlement", items[0].(map[string]any)["type_label"])

	w = api.do(http.MethodPost, "/api/v1/agents/3/recompute", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeResponse(t, w)
	assert.Equal(t, float64(1), data["updated"])
}

func TestProductEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	api.products.On("RevertToSnapshot", mock.Anything, int64(6), 2).
		Return(&catalogapp.ProductResponse{ID: 6, PriceVersion: 3, SellingPrice: decimal.NewFromInt(90)}, nil)
	api.products.On("RevertToSnapshot", mock.Anything, int64(6), 9).Return(nil, shared.ErrNotFound)
	api.products.On("ListSnapshots", mock.Anything, int64(6)).Return([]catalogapp.PriceSnapshotResponse{
		{Version: 1, SellingPrice: decimal.NewFromInt(90)},
		{Version: 2, SellingPrice: decimal.NewFromInt(120)},
	}, nil)

	w := api.do(http.MethodPost, "/api/v1/products/6/price-snapshots/2/revert", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeResponse(t, w)
	assert.Equal(t, float64(3), data["price_version"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/v1/products/6/price-snapshots/9/revert", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/products/6/price-snapshots/v1/revert", nil).Code)

	w = api.do(http.MethodGet, "/api/v1/products/6/price-snapshots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp, _ := decodeResponse(t, w)
	assert.Len(t, resp.Data.([]any), 2)
}

func TestReportEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	api.reports.On("Export", mock.Anything, from, to, language.English).
		Return(&reportapp.ExportResponse{Key: "reports/financial-2026-01-01.pdf", Pages: 1}, nil)
	api.reports.On("Export", mock.Anything, from, to, language.Arabic).
		Return(nil, shared.NewDomainError("EXPORT_DISABLED", "Report export is not configured"))
	api.reports.On("Financial", mock.Anything, to, from).
		Return(nil, shared.NewDomainError("INVALID_PERIOD", "Report period start must be before its end"))

	w := api.do(http.MethodPost, "/api/v1/reports/financial/export?from=2026-01-01&to=2026-02-01", nil, "Accept-Language", "en-GB")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	assert.Equal(t, "reports/financial-2026-01-01.pdf", data["key"])

	w = api.do(http.MethodPost, "/api/v1/reports/financial/export?from=2026-01-01&to=2026-02-01", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = api.do(http.MethodGet, "/api/v1/reports/financial?from=2026-02-01&to=2026-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidPeriod, resp.Error.Code)

	w = api.do(http.MethodGet, "/api/v1/reports/financial?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityList(t *testing.T) {
	api := newTestAPI(t, nil)
	api.activity.On("List", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return(shared.NewPaginated([]activityapp.EntryResponse{
		{ID: 1, Actor: "mona", Action: "installment.paid", Description: "mona paid 150.00"},
	}, 1, 1, 20), nil)

	w := api.do(http.MethodGet, "/api/v1/activity-logs", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp, _ := decodeResponse(t, w)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, "mona", resp.Data.([]any)[0].(map[string]any)["actor"])
}

func TestCustomerGet_NotFound(t *testing.T) {
	api := newTestAPI(t, nil)
	api.customers.On("GetByID", mock.Anything, int64(99)).Return(nil, shared.ErrNotFound)

	w := api.do(http.MethodGet, "/api/v1/customers/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	w := newTestAPI(t, nil).do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	w = newTestAPI(t, errors.New("dial tcp: refused")).do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
}

func TestBaseHandler_Language(t *testing.T) {
	tests := []struct {
		name     string
		fallback string
		header   string
		want     language.Tag
	}{
		{"configured default", "en", "", language.English},
		{"bad default falls back to arabic", "%%", "", language.Arabic},
		{"header wins", "ar", "en", language.English},
		{"unsupported header matches first display language", "ar", "fr-FR", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBaseHandler(tt.fallback)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Accept-Language", tt.header)
			}
			assert.Equal(t, tt.want, h.Language(c))
		})
	}
}
