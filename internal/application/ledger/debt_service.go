package ledger

import (
	"context"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// DebtService manages standalone customer debts. Debts settle on the same
// rules as installment plans; remaining_debt is refreshed in the same
// transaction as every payment change.
type DebtService struct {
	support
	scope TransactionScope
}

// NewDebtService creates a new DebtService
func NewDebtService(scope TransactionScope, opts Options) *DebtService {
	return &DebtService{support: newSupport(opts), scope: scope}
}

// Create opens a debt for an existing customer
func (s *DebtService) Create(ctx context.Context, req CreateDebtRequest) (*DebtResponse, error) {
	var (
		debt *ledger.Debt
		name string
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.Customers().FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		debt, err = ledger.NewDebt(customer.ID, req.Total, req.Note)
		if err != nil {
			return err
		}
		name = customer.Name
		return repos.Debts().Create(ctx, debt)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.record(ctx, activity.ActionDebtCreated, unitDebt, debt.ID, debt.Total, name)
	resp := ToDebtResponse(debt)
	return &resp, nil
}

// Get returns a debt with its derived remaining balance
func (s *DebtService) Get(ctx context.Context, id int64) (*DebtResponse, error) {
	var resp DebtResponse
	if s.cached(ctx, cache.DebtKey(id), &resp) {
		return &resp, nil
	}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		debt, err := repos.Debts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToDebtResponse(debt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.DebtKey(id), resp)
	return &resp, nil
}

// Pay records a payment on a debt
func (s *DebtService) Pay(ctx context.Context, id int64, req PaymentRequest) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitDebt, "pay", attribute.Int64("debt.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		debt    *ledger.Debt
		payment *ledger.Payment
		name    string
		settled bool
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		debt, err = repos.Debts().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		payment = ledger.NewPayment(req.Amount, req.date(), ledger.PaymentTagPaid)
		before := debt.Status
		if err := debt.Pay(payment); err != nil {
			return err
		}
		settled = debt.Status != before

		if err := repos.Debts().AddPayment(ctx, payment); err != nil {
			return err
		}
		if err := repos.Debts().SaveState(ctx, debt); err != nil {
			return err
		}
		name, err = customerName(ctx, repos, debt.CustomerID)
		if err != nil {
			return err
		}
		return flushEvents(ctx, repos, debt)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.DebtKey(debt.ID))
	s.record(ctx, activity.ActionDebtPaid, unitDebt, debt.ID, payment.Amount, name)
	s.metrics.RecordPayment(ctx, unitDebt, payment.Amount)

	return &PaymentResult{
		Payment:       ToPaymentResponse(payment),
		Status:        string(debt.Status),
		Remaining:     debt.Remaining(),
		StatusChanged: settled,
	}, nil
}

// EditPayment changes a debt payment
func (s *DebtService) EditPayment(ctx context.Context, paymentID int64, req EditPaymentRequest) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitDebt, "edit_payment", attribute.Int64("payment.id", paymentID))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		debt    *ledger.Debt
		payment *ledger.Payment
		name    string
		settled bool
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		debt, err = repos.Debts().FindByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		before := debt.Status
		payment, err = debt.ChangePayment(paymentID, req.Amount, req.date())
		if err != nil {
			return err
		}
		settled = debt.Status != before

		if err := repos.Debts().UpdatePayment(ctx, payment); err != nil {
			return err
		}
		if err := repos.Debts().SaveState(ctx, debt); err != nil {
			return err
		}
		name, err = customerName(ctx, repos, debt.CustomerID)
		if err != nil {
			return err
		}
		return flushEvents(ctx, repos, debt)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.DebtKey(debt.ID))
	s.record(ctx, activity.ActionDebtPaymentEdit, unitDebt, debt.ID, payment.Amount, name)

	return &PaymentResult{
		Payment:       ToPaymentResponse(payment),
		Status:        string(debt.Status),
		Remaining:     debt.Remaining(),
		StatusChanged: settled,
	}, nil
}

// DeletePayment undoes a debt payment. Removing the most recent payment of a
// PAID debt reopens it.
func (s *DebtService) DeletePayment(ctx context.Context, paymentID int64) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitDebt, "delete_payment", attribute.Int64("payment.id", paymentID))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		debt     *ledger.Debt
		payment  *ledger.Payment
		name     string
		reopened bool
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		debt, err = repos.Debts().FindByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		before := debt.Status
		payment, err = debt.UndoPayment(paymentID)
		if err != nil {
			return err
		}
		reopened = debt.Status != before

		if err := repos.Debts().DeletePayment(ctx, paymentID); err != nil {
			return err
		}
		if err := repos.Debts().SaveState(ctx, debt); err != nil {
			return err
		}
		name, err = customerName(ctx, repos, debt.CustomerID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.DebtKey(debt.ID))
	s.record(ctx, activity.ActionDebtPaymentUndo, unitDebt, debt.ID, payment.Amount, name)
	if reopened {
		s.metrics.RecordReopened(ctx, unitDebt)
	}

	return &PaymentResult{
		Payment:       ToPaymentResponse(payment),
		Status:        string(debt.Status),
		Remaining:     debt.Remaining(),
		StatusChanged: reopened,
	}, nil
}
