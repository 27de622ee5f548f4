package ledger

import (
	"context"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InstallmentService records, edits and undoes payments on installment plans.
// Every mutation locks the plan row before reading its remaining balance.
type InstallmentService struct {
	support
	scope TransactionScope
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(scope TransactionScope, opts Options) *InstallmentService {
	return &InstallmentService{support: newSupport(opts), scope: scope}
}

// Get returns a plan with its derived balance
func (s *InstallmentService) Get(ctx context.Context, id int64) (*InstallmentResponse, error) {
	var resp InstallmentResponse
	if s.cached(ctx, cache.InstallmentKey(id), &resp) {
		return &resp, nil
	}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inst, err := repos.Installments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToInstallmentResponse(inst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.InstallmentKey(id), resp)
	return &resp, nil
}

// Pay records a payment on one plan. The payment is tagged LATE when it is
// dated after the plan's next due date.
func (s *InstallmentService) Pay(ctx context.Context, id int64, req PaymentRequest) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitInstallment, "pay", attribute.Int64("installment.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		inst    *ledger.Installment
		payment *ledger.Payment
		name    string
		settled bool
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inst, err = repos.Installments().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		date := req.date()
		tag := ledger.PaymentTagPaid
		if date.After(inst.NextDueDate()) {
			tag = ledger.PaymentTagLate
		}
		payment = ledger.NewPayment(req.Amount, date, tag)

		before := inst.Status
		if err := inst.Pay(payment); err != nil {
			return err
		}
		settled = inst.Status != before

		if err := repos.Installments().AddPayment(ctx, payment); err != nil {
			return err
		}
		if err := repos.Installments().SaveStatus(ctx, inst); err != nil {
			return err
		}
		name, err = customerName(ctx, repos, inst.CustomerID)
		if err != nil {
			return err
		}
		return flushEvents(ctx, repos, inst)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.InstallmentKey(inst.ID), cache.ReceiptBalanceKey(inst.ReceiptID))
	s.record(ctx, activity.ActionInstallmentPaid, unitInstallment, inst.ID, payment.Amount, name)
	s.metrics.RecordPayment(ctx, unitInstallment, payment.Amount)
	logger.L(ctx).Info("Installment payment recorded",
		zap.Int64("installment_id", inst.ID),
		zap.Int64("payment_id", payment.ID),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("tag", string(payment.Tag)),
		zap.String("status", string(inst.Status)),
	)

	return &PaymentResult{
		Payment:       ToPaymentResponse(payment),
		Status:        string(inst.Status),
		Remaining:     inst.Remaining(),
		StatusChanged: settled,
	}, nil
}

// EditPayment changes the amount or date of a payment. The payment's own
// prior amount counts as available during validation. Only the PENDING to
// PAID transition is re-applied.
func (s *InstallmentService) EditPayment(ctx context.Context, paymentID int64, req EditPaymentRequest) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitInstallment, "edit_payment", attribute.Int64("payment.id", paymentID))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		inst    *ledger.Installment
		payment *ledger.Payment
		name    string
		settled bool
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inst, err = repos.Installments().FindByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		before := inst.Status
		payment, err = inst.ChangePayment(paymentID, req.Amount, req.date())
		if err != nil {
			return err
		}
		settled = inst.Status != before

		if err := repos.Installments().UpdatePayment(ctx, payment); err != nil {
			return err
		}
		if err := repos.Installments().SaveStatus(ctx, inst); err != nil {
			return err
		}
		name, err = customerName(ctx, repos, inst.CustomerID)
		if err != nil {
			return err
		}
		return flushEvents(ctx, repos, inst)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.InstallmentKey(inst.ID), cache.ReceiptBalanceKey(inst.ReceiptID))
	s.record(ctx, activity.ActionInstallmentPaymentEdit, unitInstallment, inst.ID, payment.Amount, name)

	return &PaymentResult{
		Payment:       ToPaymentResponse(payment),
		Status:        string(inst.Status),
		Remaining:     inst.Remaining(),
		StatusChanged: settled,
	}, nil
}

// DeletePayment undoes a payment. Deleting the most recent payment of a PAID
// plan reopens it.
func (s *InstallmentService) DeletePayment(ctx context.Context, paymentID int64) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitInstallment, "delete_payment", attribute.Int64("payment.id", paymentID))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		inst     *ledger.Installment
		payment  *ledger.Payment
		name     string
		reopened bool
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inst, err = repos.Installments().FindByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		before := inst.Status
		payment, err = inst.UndoPayment(paymentID)
		if err != nil {
			return err
		}
		reopened = inst.Status != before

		if err := repos.Installments().DeletePayment(ctx, paymentID); err != nil {
			return err
		}
		if err := repos.Installments().SaveStatus(ctx, inst); err != nil {
			return err
		}
		name, err = customerName(ctx, repos, inst.CustomerID)
		if err != nil {
			return err
		}
		return flushEvents(ctx, repos, inst)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.InstallmentKey(inst.ID), cache.ReceiptBalanceKey(inst.ReceiptID))
	s.record(ctx, activity.ActionInstallmentPaymentUndo, unitInstallment, inst.ID, payment.Amount, name)
	if reopened {
		s.metrics.RecordReopened(ctx, unitInstallment)
		logger.L(ctx).Info("Installment reopened",
			zap.Int64("installment_id", inst.ID),
			zap.Int64("payment_id", paymentID),
		)
	}

	return &PaymentResult{
		Payment:       ToPaymentResponse(payment),
		Status:        string(inst.Status),
		Remaining:     inst.Remaining(),
		StatusChanged: reopened,
	}, nil
}
