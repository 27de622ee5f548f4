package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	appledger "github.com/erp/installments/internal/application/ledger"
	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/partner"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/event"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/erp/installments/internal/infrastructure/persistence/models"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"github.com/erp/installments/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var ve *ledger.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error %s, got %v", code, err)
	require.Equal(t, code, ve.Code)
}

type recordedEntries struct {
	mu      sync.Mutex
	entries []*activity.Entry
}

func (r *recordedEntries) Record(_ context.Context, e *activity.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordedEntries) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

// ledgerFixture wires the ledger services over one sqlite database with the
// outbox enabled
type ledgerFixture struct {
	db           *gorm.DB
	activity     *recordedEntries
	balances     *cache.InMemoryBalanceCache
	metrics      *sdkmetric.ManualReader
	installments *appledger.InstallmentService
	debts        *appledger.DebtService
	receipts     *appledger.ReceiptService
	transactions *appledger.TransactionService
}

func newLedgerFixture(t *testing.T, strategy ledger.AllocationStrategyName) *ledgerFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	scope := persistence.NewGormLedgerTransactionScope(db, event.NewOutboxPublisher(serializer))

	balances := cache.NewInMemoryBalanceCache()
	t.Cleanup(func() { _ = balances.Close() })
	rec := &recordedEntries{}
	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewLedgerMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)
	opts := appledger.Options{Balances: balances, Activity: rec, Metrics: metrics}

	return &ledgerFixture{
		db:           db,
		activity:     rec,
		balances:     balances,
		metrics:      reader,
		installments: appledger.NewInstallmentService(scope, opts),
		debts:        appledger.NewDebtService(scope, opts),
		receipts: appledger.NewReceiptService(scope, persistence.NewGormProductRepository(db),
			ledger.NewLumpPaymentAllocator(strategy), opts),
		transactions: appledger.NewTransactionService(scope, opts),
	}
}

func (f *ledgerFixture) customer(t *testing.T, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name, "", "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(f.db).Create(context.Background(), c))
	return c
}

func (f *ledgerFixture) agent(t *testing.T, name string) *partner.Agent {
	t.Helper()
	a, err := partner.NewAgent(name, "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormAgentRepository(f.db).Create(context.Background(), a))
	return a
}

func (f *ledgerFixture) product(t *testing.T, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Product "+price, 10, dec(price), dec(price))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(f.db).Create(context.Background(), p))
	return p
}

// installmentLine describes a line sold at the product's own price
type installmentLine struct {
	qty      int
	price    string
	firstPay string
}

// installmentReceipt sells one monthly plan per line to a new customer
func (f *ledgerFixture) installmentReceipt(t *testing.T, lines ...installmentLine) *appledger.ReceiptResponse {
	t.Helper()
	customer := f.customer(t, "Ali Hassan")
	req := appledger.CreateReceiptRequest{
		CustomerID:  customer.ID,
		ReceiptType: string(ledger.ReceiptTypeInstallment),
	}
	for _, l := range lines {
		p := f.product(t, l.price)
		req.Lines = append(req.Lines, appledger.ReceiptLineRequest{
			ProductID:         p.ID,
			Quantity:          l.qty,
			FirstPay:          dec(l.firstPay),
			PayCount:          4,
			InstallmentAmount: dec("100"),
			InstallmentType:   string(ledger.InstallmentTypeMonthly),
		})
	}
	resp, err := f.receipts.Create(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func (f *ledgerFixture) outboxCount(t *testing.T, eventType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.OutboxEntryModel{}).Where("event_type = ?", eventType).Count(&n).Error)
	return n
}

func pay(amount string) appledger.PaymentRequest {
	return appledger.PaymentRequest{Amount: dec(amount)}
}

// rejections returns the validation rejection counts recorded so far, by code
func (f *ledgerFixture) rejections(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.metrics.Collect(context.Background(), &rm))
	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "ledger.validation.rejections" {
				continue
			}
			data, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range data.DataPoints {
				code, _ := dp.Attributes.Value("code")
				counts[code.AsString()] += dp.Value
			}
		}
	}
	return counts
}
