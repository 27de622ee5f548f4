package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics records settlement activity. A nil *LedgerMetrics is valid
// and records nothing.
type LedgerMetrics struct {
	payments      metric.Int64Counter
	paymentAmount metric.Float64Histogram
	rejections    metric.Int64Counter
	reopened      metric.Int64Counter
	allocations   metric.Int64Counter
	unallocated   metric.Float64Counter
	recomputed    metric.Int64Counter
}

// NewLedgerMetrics registers the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error

	if m.payments, err = meter.Int64Counter("ledger.payments",
		metric.WithDescription("Payments recorded against installments and debts"),
		metric.WithUnit("{payment}")); err != nil {
		return nil, fmt.Errorf("failed to create ledger.payments: %w", err)
	}
	if m.paymentAmount, err = meter.Float64Histogram("ledger.payment.amount",
		metric.WithDescription("Recorded payment amounts"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("failed to create ledger.payment.amount: %w", err)
	}
	if m.rejections, err = meter.Int64Counter("ledger.validation.rejections",
		metric.WithDescription("Payments rejected by validation"),
		metric.WithUnit("{payment}")); err != nil {
		return nil, fmt.Errorf("failed to create ledger.validation.rejections: %w", err)
	}
	if m.reopened, err = meter.Int64Counter("ledger.units.reopened",
		metric.WithDescription("Paid units reopened by deleting their last payment"),
		metric.WithUnit("{unit}")); err != nil {
		return nil, fmt.Errorf("failed to create ledger.units.reopened: %w", err)
	}
	if m.allocations, err = meter.Int64Counter("ledger.allocations",
		metric.WithDescription("Lump payments allocated across receipt lines"),
		metric.WithUnit("{allocation}")); err != nil {
		return nil, fmt.Errorf("failed to create ledger.allocations: %w", err)
	}
	if m.unallocated, err = meter.Float64Counter("ledger.allocation.unallocated",
		metric.WithDescription("Lump payment amount left unallocated"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("failed to create ledger.allocation.unallocated: %w", err)
	}
	if m.recomputed, err = meter.Int64Counter("ledger.running_sum.rows_updated",
		metric.WithDescription("Financial transaction rows rewritten by running-sum recomputation"),
		metric.WithUnit("{row}")); err != nil {
		return nil, fmt.Errorf("failed to create ledger.running_sum.rows_updated: %w", err)
	}
	return m, nil
}

// RecordPayment counts an accepted payment on a unit kind (installment, debt).
func (m *LedgerMetrics) RecordPayment(ctx context.Context, unitKind string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("unit", unitKind))
	m.payments.Add(ctx, 1, attrs)
	m.paymentAmount.Record(ctx, amount.InexactFloat64(), attrs)
}

// RecordRejection counts a validation failure by error code.
func (m *LedgerMetrics) RecordRejection(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

// RecordReopened counts a PAID unit going back to PENDING.
func (m *LedgerMetrics) RecordReopened(ctx context.Context, unitKind string) {
	if m == nil {
		return
	}
	m.reopened.Add(ctx, 1, metric.WithAttributes(attribute.String("unit", unitKind)))
}

// RecordAllocation counts a lump payment and the amount it left unallocated.
func (m *LedgerMetrics) RecordAllocation(ctx context.Context, strategy string, unallocated decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	m.allocations.Add(ctx, 1, attrs)
	if unallocated.IsPositive() {
		m.unallocated.Add(ctx, unallocated.InexactFloat64(), attrs)
	}
}

// RecordRecompute counts rows rewritten by a running-sum pass.
func (m *LedgerMetrics) RecordRecompute(ctx context.Context, trigger string, updated int) {
	if m == nil || updated == 0 {
		return
	}
	m.recomputed.Add(ctx, int64(updated), metric.WithAttributes(attribute.String("trigger", trigger)))
}
