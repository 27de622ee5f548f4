package handler

import (
	"context"
	"time"

	activityapp "github.com/erp/installments/internal/application/activity"
	catalogapp "github.com/erp/installments/internal/application/catalog"
	ledgerapp "github.com/erp/installments/internal/application/ledger"
	partnerapp "github.com/erp/installments/internal/application/partner"
	reportapp "github.com/erp/installments/internal/application/report"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/stretchr/testify/mock"
	"golang.org/x/text/language"
)

type mockCustomers struct{ mock.Mock }

func (m *mockCustomers) Create(ctx context.Context, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *mockCustomers) GetByID(ctx context.Context, id int64) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

type mockAgents struct{ mock.Mock }

func (m *mockAgents) Create(ctx context.Context, req partnerapp.CreateAgentRequest) (*partnerapp.AgentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.AgentResponse), args.Error(1)
}

type mockProducts struct{ mock.Mock }

func (m *mockProducts) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProducts) GetByID(ctx context.Context, id int64) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProducts) ChangePrice(ctx context.Context, id int64, req catalogapp.ChangePriceRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProducts) RevertToSnapshot(ctx context.Context, id int64, version int) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProducts) ListSnapshots(ctx context.Context, id int64) ([]catalogapp.PriceSnapshotResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.PriceSnapshotResponse), args.Error(1)
}

type mockReceipts struct{ mock.Mock }

func (m *mockReceipts) Create(ctx context.Context, req ledgerapp.CreateReceiptRequest) (*ledgerapp.ReceiptResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.ReceiptResponse), args.Error(1)
}

func (m *mockReceipts) Get(ctx context.Context, id int64) (*ledgerapp.ReceiptResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.ReceiptResponse), args.Error(1)
}

func (m *mockReceipts) Balance(ctx context.Context, id int64) (*ledgerapp.ReceiptBalanceResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.ReceiptBalanceResponse), args.Error(1)
}

func (m *mockReceipts) Pay(ctx context.Context, id int64, req ledgerapp.PaymentRequest) (*ledgerapp.LumpPaymentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.LumpPaymentResponse), args.Error(1)
}

// mockPayments backs both InstallmentService and DebtService
type mockPayments struct{ mock.Mock }

func (m *mockPayments) result(args mock.Arguments) (*ledgerapp.PaymentResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.PaymentResult), args.Error(1)
}

func (m *mockPayments) Pay(ctx context.Context, id int64, req ledgerapp.PaymentRequest) (*ledgerapp.PaymentResult, error) {
	return m.result(m.Called(ctx, id, req))
}

func (m *mockPayments) EditPayment(ctx context.Context, id int64, req ledgerapp.EditPaymentRequest) (*ledgerapp.PaymentResult, error) {
	return m.result(m.Called(ctx, id, req))
}

func (m *mockPayments) DeletePayment(ctx context.Context, id int64) (*ledgerapp.PaymentResult, error) {
	return m.result(m.Called(ctx, id))
}

type mockInstallments struct{ mockPayments }

func (m *mockInstallments) Get(ctx context.Context, id int64) (*ledgerapp.InstallmentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.InstallmentResponse), args.Error(1)
}

type mockDebts struct{ mockPayments }

func (m *mockDebts) Create(ctx context.Context, req ledgerapp.CreateDebtRequest) (*ledgerapp.DebtResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.DebtResponse), args.Error(1)
}

func (m *mockDebts) Get(ctx context.Context, id int64) (*ledgerapp.DebtResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.DebtResponse), args.Error(1)
}

// mockTransactions backs both TransactionService and AgentLedger
type mockTransactions struct{ mock.Mock }

func (m *mockTransactions) Create(ctx context.Context, req ledgerapp.CreateTransactionRequest) (*ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.TransactionResponse), args.Error(1)
}

func (m *mockTransactions) Update(ctx context.Context, id int64, req ledgerapp.TransactionRequest) (*ledgerapp.TransactionResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.TransactionResponse), args.Error(1)
}

func (m *mockTransactions) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTransactions) ListByAgent(ctx context.Context, agentID int64, filter shared.Filter) (shared.Paginated[ledgerapp.TransactionResponse], error) {
	args := m.Called(ctx, agentID, filter)
	return args.Get(0).(shared.Paginated[ledgerapp.TransactionResponse]), args.Error(1)
}

func (m *mockTransactions) Balance(ctx context.Context, agentID int64) (*ledgerapp.AgentBalanceResponse, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.AgentBalanceResponse), args.Error(1)
}

func (m *mockTransactions) RecomputeAgent(ctx context.Context, agentID int64) (*ledgerapp.RecomputeResponse, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.RecomputeResponse), args.Error(1)
}

type mockReports struct{ mock.Mock }

func (m *mockReports) Financial(ctx context.Context, from, to time.Time) (*reportapp.FinancialResponse, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.FinancialResponse), args.Error(1)
}

func (m *mockReports) Export(ctx context.Context, from, to time.Time, tag language.Tag) (*reportapp.ExportResponse, error) {
	args := m.Called(ctx, from, to, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.ExportResponse), args.Error(1)
}

type mockActivity struct{ mock.Mock }

func (m *mockActivity) List(ctx context.Context, filter shared.Filter) (shared.Paginated[activityapp.EntryResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[activityapp.EntryResponse]), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping() error { return p.err }
