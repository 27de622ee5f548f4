package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/erp/installments/internal/domain/report"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/printing"
	"github.com/erp/installments/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Summarize(ctx context.Context, from, to time.Time) (*report.FinancialSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.FinancialSummary), args.Error(1)
}

type fakeRenderer struct {
	html string
	err  error
}

func (r *fakeRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.html = req.HTML
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4 report"), PageCount: 1}, nil
}

func (r *fakeRenderer) Close() error { return nil }

var (
	from = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func summary() *report.FinancialSummary {
	return &report.FinancialSummary{
		PeriodStart:             from,
		PeriodEnd:               to,
		ReceiptCount:            4,
		CashSales:               decimal.RequireFromString("1500"),
		InstallmentSales:        decimal.RequireFromString("3000"),
		FirstPayCollected:       decimal.RequireFromString("300"),
		InstallmentCollected:    decimal.RequireFromString("450.50"),
		OutstandingInstallments: decimal.RequireFromString("2249.50"),
		AgentBalances: []report.AgentBalance{
			{AgentID: 1, AgentName: "North Supply", Balance: decimal.RequireFromString("110")},
		},
	}
}

func TestService_Financial(t *testing.T) {
	repo := new(MockSummaryRepository)
	repo.On("Summarize", mock.Anything, from, to).Return(summary(), nil)
	svc := NewService(repo, nil, nil)

	resp, err := svc.Financial(context.Background(), from, to)

	require.NoError(t, err)
	assert.True(t, resp.TotalSales.Equal(decimal.RequireFromString("4500")))
	assert.True(t, resp.TotalCollected.Equal(decimal.RequireFromString("2250.50")))
	assert.True(t, resp.TotalAgentBalance.Equal(decimal.RequireFromString("110")))
	repo.AssertExpectations(t)
}

func TestService_FinancialRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(new(MockSummaryRepository), nil, nil)

	_, err := svc.Financial(context.Background(), to, from)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PERIOD", domainErr.Code)
}

func TestService_Export(t *testing.T) {
	repo := new(MockSummaryRepository)
	repo.On("Summarize", mock.Anything, from, to).Return(summary(), nil)
	renderer := &fakeRenderer{}
	store := storage.NewMemoryStorage("")
	svc := NewService(repo, renderer, store)

	resp, err := svc.Export(context.Background(), from, to, language.English)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "financial/20260101_20260201_"))
	assert.Equal(t, 1, resp.Pages)
	obj, ok := store.Get(resp.Key)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, len(obj.Data), resp.Bytes)

	assert.Contains(t, renderer.html, `dir="ltr"`)
	assert.Contains(t, renderer.html, "Installment sales")
	assert.Contains(t, renderer.html, "3,000.00")
	assert.Contains(t, renderer.html, "North Supply")
}

func TestService_ExportArabicLayout(t *testing.T) {
	repo := new(MockSummaryRepository)
	repo.On("Summarize", mock.Anything, from, to).Return(summary(), nil)
	renderer := &fakeRenderer{}
	svc := NewService(repo, renderer, storage.NewMemoryStorage(""))

	_, err := svc.Export(context.Background(), from, to, language.MustParse("ar"))

	require.NoError(t, err)
	assert.Contains(t, renderer.html, `dir="rtl"`)
	assert.Contains(t, renderer.html, "مبيعات التقسيط")
}

func TestService_ExportFailures(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := NewService(new(MockSummaryRepository), nil, nil)
		_, err := svc.Export(context.Background(), from, to, language.English)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("render error", func(t *testing.T) {
		repo := new(MockSummaryRepository)
		repo.On("Summarize", mock.Anything, from, to).Return(summary(), nil)
		store := storage.NewMemoryStorage("")
		svc := NewService(repo, &fakeRenderer{err: errors.New("chrome missing")}, store)

		_, err := svc.Export(context.Background(), from, to, language.English)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chrome missing")
	})
}
