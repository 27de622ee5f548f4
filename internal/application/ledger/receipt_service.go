package ledger

import (
	"context"
	"fmt"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/catalog"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ReceiptService sells products cash or on installment and settles receipts
// with lump payments
type ReceiptService struct {
	support
	scope     TransactionScope
	products  catalog.ProductRepository
	allocator *ledger.LumpPaymentAllocator
}

// NewReceiptService creates a new ReceiptService. Product prices are read
// outside the receipt transaction; stock is decremented asynchronously from
// the ReceiptCreated event.
func NewReceiptService(scope TransactionScope, products catalog.ProductRepository, allocator *ledger.LumpPaymentAllocator, opts Options) *ReceiptService {
	if allocator == nil {
		allocator = ledger.NewLumpPaymentAllocator(ledger.AllocationLeftoverProportional)
	}
	return &ReceiptService{
		support:   newSupport(opts),
		scope:     scope,
		products:  products,
		allocator: allocator,
	}
}

// Create stores a receipt with its lines and, for installment receipts, one
// plan per line. The ReceiptCreated event is written to the outbox in the
// same transaction.
func (s *ReceiptService) Create(ctx context.Context, req CreateReceiptRequest) (result *ReceiptResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitReceipt, "create",
		attribute.Int64("customer.id", req.CustomerID),
		attribute.String("receipt.type", req.ReceiptType),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	inputs, err := s.lineInputs(ctx, req)
	if err != nil {
		return nil, err
	}
	receipt, err := ledger.NewReceipt(req.CustomerID, ledger.ReceiptType(req.ReceiptType), req.Note, inputs)
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	var name string
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.Customers().FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		name = customer.Name
		if err := repos.Receipts().Create(ctx, receipt); err != nil {
			return err
		}
		receipt.RecordCreated()
		return flushEvents(ctx, repos, receipt)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.record(ctx, activity.ActionReceiptCreated, unitReceipt, receipt.ID, receipt.TotalPrice, name)
	logger.L(ctx).Info("Receipt created",
		zap.Int64("receipt_id", receipt.ID),
		zap.String("type", string(receipt.Type)),
		zap.Int("lines", len(receipt.Lines)),
		zap.String("total", receipt.TotalPrice.StringFixed(2)),
	)

	resp := ToReceiptResponse(receipt)
	return &resp, nil
}

// lineInputs resolves selling prices and plan terms for every requested line
func (s *ReceiptService) lineInputs(ctx context.Context, req CreateReceiptRequest) ([]ledger.LineInput, error) {
	ids := make([]int64, 0, len(req.Lines))
	for _, l := range req.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	inputs := make([]ledger.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		product, ok := products[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", l.ProductID, shared.ErrNotFound)
		}
		price := product.SellingPrice
		if l.SellingPrice != nil {
			price = *l.SellingPrice
		}
		inputs[i] = ledger.LineInput{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			SellingPrice: price,
		}
		if ledger.ReceiptType(req.ReceiptType) == ledger.ReceiptTypeInstallment {
			planType := ledger.InstallmentType(l.InstallmentType)
			if planType == "" {
				planType = ledger.InstallmentTypeMonthly
			}
			inputs[i].Plan = &ledger.PlanTerms{
				FirstPay:          l.FirstPay,
				PayCount:          l.PayCount,
				InstallmentAmount: l.InstallmentAmount,
				Type:              planType,
			}
		}
	}
	return inputs, nil
}

// Get returns a receipt with its lines and plans
func (s *ReceiptService) Get(ctx context.Context, id int64) (*ReceiptResponse, error) {
	var resp ReceiptResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		receipt, err := repos.Receipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToReceiptResponse(receipt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Balance returns per-line totals, paid, remaining and status
func (s *ReceiptService) Balance(ctx context.Context, id int64) (*ReceiptBalanceResponse, error) {
	var resp ReceiptBalanceResponse
	if s.cached(ctx, cache.ReceiptBalanceKey(id), &resp) {
		return &resp, nil
	}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		receipt, err := repos.Receipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToReceiptBalanceResponse(receipt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.ReceiptBalanceKey(id), resp)
	return &resp, nil
}

// Pay splits one payment across the receipt's installment lines. All plan
// rows are locked in ascending id order, then the receipt-level check runs,
// then the allocator makes a single pass; whatever it cannot place is
// reported as unallocated.
func (s *ReceiptService) Pay(ctx context.Context, id int64, req PaymentRequest) (result *LumpPaymentResponse, err error) {
	strategy := string(s.allocator.Strategy())
	ctx, span := telemetry.StartServiceSpan(ctx, unitReceipt, "pay",
		attribute.Int64("receipt.id", id),
		attribute.String("allocation.strategy", strategy),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		receipt  *ledger.Receipt
		outcome  *ledger.AllocationResult
		name     string
		payments = make(map[int64]*ledger.Payment)
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		receipt, err = repos.Receipts().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := ledger.ValidateReceiptPayment(receipt.LineBalances(), req.Amount); err != nil {
			return err
		}

		telemetry.WithProfilingLabels(ctx, map[string]string{"operation": "lump_allocation", "strategy": strategy}, func(context.Context) {
			outcome, err = s.allocator.Allocate(req.Amount, receipt.AllocationLines())
		})
		if err != nil {
			return err
		}

		date := req.date()
		for _, a := range outcome.Allocations {
			inst := receipt.FindInstallment(a.InstallmentID)
			if inst == nil {
				return fmt.Errorf("allocation to unknown installment %d", a.InstallmentID)
			}
			tag := ledger.PaymentTagPaid
			if date.After(inst.NextDueDate()) {
				tag = ledger.PaymentTagLate
			}
			payment := ledger.NewPayment(a.Amount, date, tag)
			if err := inst.Pay(payment); err != nil {
				return err
			}
			if err := repos.Installments().AddPayment(ctx, payment); err != nil {
				return err
			}
			if err := repos.Installments().SaveStatus(ctx, inst); err != nil {
				return err
			}
			if err := flushEvents(ctx, repos, inst); err != nil {
				return err
			}
			payments[inst.ID] = payment
		}
		name, err = customerName(ctx, repos, receipt.CustomerID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	resp := &LumpPaymentResponse{
		ReceiptID:   receipt.ID,
		Amount:      req.Amount,
		Strategy:    strategy,
		Allocated:   outcome.TotalAllocated,
		Unallocated: outcome.Unallocated,
		Allocations: make([]AllocationResponse, 0, len(outcome.Allocations)),
	}
	keys := []string{cache.ReceiptBalanceKey(receipt.ID)}
	for _, a := range outcome.Allocations {
		inst := receipt.FindInstallment(a.InstallmentID)
		payment := payments[a.InstallmentID]
		resp.Allocations = append(resp.Allocations, AllocationResponse{
			InstallmentID: a.InstallmentID,
			PaymentID:     payment.ID,
			Amount:        a.Amount,
			Tag:           string(payment.Tag),
			Status:        string(inst.Status),
		})
		keys = append(keys, cache.InstallmentKey(a.InstallmentID))
		s.metrics.RecordPayment(ctx, unitInstallment, a.Amount)
	}

	balance := ToReceiptBalanceResponse(receipt)
	resp.Remaining = balance.Remaining
	resp.Lines = balance.Lines

	s.invalidate(ctx, keys...)
	s.record(ctx, activity.ActionReceiptLumpPayment, unitReceipt, receipt.ID, outcome.TotalAllocated, name)
	s.metrics.RecordAllocation(ctx, strategy, outcome.Unallocated)
	if !outcome.FullyAllocated() {
		logger.L(ctx).Warn("Lump payment left an unallocated remainder",
			zap.Int64("receipt_id", receipt.ID),
			zap.String("amount", req.Amount.StringFixed(2)),
			zap.String("unallocated", outcome.Unallocated.StringFixed(2)),
		)
	}

	return resp, nil
}
