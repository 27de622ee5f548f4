package ledger

import (
	"context"
	"errors"
	"time"

	appactivity "github.com/erp/installments/internal/application/activity"
	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Unit kinds used in metrics and audit lines
const (
	unitInstallment = "installment"
	unitDebt        = "debt"
	unitReceipt     = "receipt"
	unitTransaction = "transaction"
)

const defaultCacheTTL = 5 * time.Minute

// Options carries the collaborators every ledger service shares. Nil fields
// fall back to an in-memory cache and a discarding audit recorder.
type Options struct {
	Balances cache.BalanceCache
	CacheTTL time.Duration
	Activity appactivity.Recorder
	Metrics  *telemetry.LedgerMetrics
}

// support holds the after-commit side effects of the ledger services
type support struct {
	balances cache.BalanceCache
	ttl      time.Duration
	activity appactivity.Recorder
	metrics  *telemetry.LedgerMetrics
}

func newSupport(opts Options) support {
	s := support{
		balances: opts.Balances,
		ttl:      opts.CacheTTL,
		activity: opts.Activity,
		metrics:  opts.Metrics,
	}
	if s.balances == nil {
		s.balances = cache.NewInMemoryBalanceCache()
	}
	if s.ttl <= 0 {
		s.ttl = defaultCacheTTL
	}
	if s.activity == nil {
		s.activity = appactivity.Discard{}
	}
	return s
}

// SetMetrics sets the ledger metrics instruments
func (s *support) SetMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// invalidate drops cached read models. A cache failure only leaves a stale
// entry until its TTL runs out.
func (s *support) invalidate(ctx context.Context, keys ...string) {
	if err := s.balances.Invalidate(ctx, keys...); err != nil {
		logger.L(ctx).Warn("Failed to invalidate ledger cache",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

// cached loads key into dest, reporting a hit. Cache errors count as a miss.
func (s *support) cached(ctx context.Context, key string, dest any) bool {
	hit, err := s.balances.Get(ctx, key, dest)
	if err != nil {
		logger.L(ctx).Debug("Ledger cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *support) store(ctx context.Context, key string, value any) {
	if err := s.balances.Set(ctx, key, value, s.ttl); err != nil {
		logger.L(ctx).Debug("Ledger cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *support) record(ctx context.Context, action, subjectType string, subjectID int64, amount decimal.Decimal, counterparty string) {
	s.activity.Record(ctx, activity.NewEntry(logger.GetActor(ctx), action, subjectType, subjectID, amount, counterparty))
}

// rejected counts validation failures and passes err through
func (s *support) rejected(ctx context.Context, err error) error {
	var ve *ledger.ValidationError
	if errors.As(err, &ve) {
		s.metrics.RecordRejection(ctx, ve.Code)
	}
	return err
}

// flushEvents moves an aggregate's pending events into the outbox
func flushEvents(ctx context.Context, repos TransactionalRepositories, agg interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := repos.Events().Record(ctx, events...); err != nil {
		return err
	}
	agg.ClearDomainEvents()
	return nil
}

// customerName resolves a display name for audit lines. An unknown customer
// yields an empty name; any other lookup failure aborts the transaction.
func customerName(ctx context.Context, repos TransactionalRepositories, customerID int64) (string, error) {
	c, err := repos.Customers().FindByID(ctx, customerID)
	if shared.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Name, nil
}
