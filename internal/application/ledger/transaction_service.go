package ledger

import (
	"context"
	"math"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Recompute triggers
const (
	triggerUpdate = "update"
	triggerDelete = "delete"
	triggerFull   = "full"
)

// TransactionService maintains agents' running-balance ledgers. Every
// mutation locks the agent row first, so changes for one agent are serialized
// and different agents never contend.
type TransactionService struct {
	support
	scope TransactionScope
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(scope TransactionScope, opts Options) *TransactionService {
	return &TransactionService{support: newSupport(opts), scope: scope}
}

// Create appends a transaction to the end of the agent's ledger
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (result *TransactionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitTransaction, "create", attribute.Int64("agent.id", req.AgentID))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		tx   *ledger.FinancialTransaction
		name string
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		agent, err := repos.Agents().FindByIDForUpdate(ctx, req.AgentID)
		if err != nil {
			return err
		}
		name = agent.Name
		tx, err = ledger.NewFinancialTransaction(agent.ID, req.input())
		if err != nil {
			return err
		}
		previous, err := repos.Transactions().FindPrevious(ctx, agent.ID, math.MaxInt64)
		if err != nil {
			return err
		}
		tx.Rebase(ledger.AnchorFor(previous))
		return repos.Transactions().Create(ctx, tx)
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.AgentLedgerKey(tx.AgentID))
	s.record(ctx, activity.ActionTransactionCreated, unitTransaction, tx.ID, tx.Delta(), name)

	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// Update replaces a transaction's fields, re-derives its own sum from the
// previous entry, and rewrites the sums of every later entry of the agent
func (s *TransactionService) Update(ctx context.Context, id int64, req TransactionRequest) (result *TransactionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitTransaction, "update", attribute.Int64("transaction.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		tx      *ledger.FinancialTransaction
		name    string
		outcome ledger.RecomputeResult
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		tx, name, err = s.lockOwner(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := tx.Update(req.input()); err != nil {
			return err
		}
		previous, err := repos.Transactions().FindPrevious(ctx, tx.AgentID, tx.ID)
		if err != nil {
			return err
		}
		tx.Rebase(ledger.AnchorFor(previous))
		if err := repos.Transactions().Update(ctx, tx); err != nil {
			return err
		}
		outcome, err = s.recomputeAfter(ctx, repos, tx.AgentID, tx.ID, tx.SumAmount)
		return err
	})
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.AgentLedgerKey(tx.AgentID))
	s.record(ctx, activity.ActionTransactionUpdated, unitTransaction, tx.ID, tx.Delta(), name)
	s.metrics.RecordRecompute(ctx, triggerUpdate, len(outcome.Updated))

	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// Delete removes a transaction and rewrites the sums of every later entry of
// the agent, anchored at the nearest earlier entry or zero
func (s *TransactionService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitTransaction, "delete", attribute.Int64("transaction.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		tx      *ledger.FinancialTransaction
		name    string
		outcome ledger.RecomputeResult
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		tx, name, err = s.lockOwner(ctx, repos, id)
		if err != nil {
			return err
		}
		previous, err := repos.Transactions().FindPrevious(ctx, tx.AgentID, tx.ID)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Delete(ctx, tx.ID); err != nil {
			return err
		}
		outcome, err = s.recomputeAfter(ctx, repos, tx.AgentID, tx.ID, ledger.AnchorFor(previous))
		return err
	})
	if err != nil {
		return s.rejected(ctx, err)
	}

	s.invalidate(ctx, cache.AgentLedgerKey(tx.AgentID))
	s.record(ctx, activity.ActionTransactionDeleted, unitTransaction, tx.ID, tx.Delta(), name)
	s.metrics.RecordRecompute(ctx, triggerDelete, len(outcome.Updated))
	return nil
}

// lockOwner finds the transaction's agent, locks the agent row and reads the
// transaction again under that lock
func (s *TransactionService) lockOwner(ctx context.Context, repos TransactionalRepositories, id int64) (*ledger.FinancialTransaction, string, error) {
	unlocked, err := repos.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	agent, err := repos.Agents().FindByIDForUpdate(ctx, unlocked.AgentID)
	if err != nil {
		return nil, "", err
	}
	tx, err := repos.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return tx, agent.Name, nil
}

// recomputeAfter rewrites the sums of the agent's entries after afterID
func (s *TransactionService) recomputeAfter(ctx context.Context, repos TransactionalRepositories, agentID, afterID int64, anchor decimal.Decimal) (ledger.RecomputeResult, error) {
	suffix, err := repos.Transactions().FindAfter(ctx, agentID, afterID)
	if err != nil {
		return ledger.RecomputeResult{}, err
	}
	var outcome ledger.RecomputeResult
	telemetry.WithProfilingLabels(ctx, map[string]string{"operation": "running_sum_recompute"}, func(context.Context) {
		outcome = ledger.Recompute(anchor, suffix)
	})
	if len(outcome.Updated) == 0 {
		return outcome, nil
	}
	return outcome, repos.Transactions().UpdateSums(ctx, outcome.Updated)
}

// RecomputeAgent rewrites every sum of one agent from zero. Running it on a
// consistent ledger changes nothing.
func (s *TransactionService) RecomputeAgent(ctx context.Context, agentID int64) (result *RecomputeResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, unitTransaction, "recompute", attribute.Int64("agent.id", agentID))
	defer func() { telemetry.EndSpan(span, err) }()

	var outcome ledger.RecomputeResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Agents().FindByIDForUpdate(ctx, agentID); err != nil {
			return err
		}
		var err error
		outcome, err = s.recomputeAfter(ctx, repos, agentID, 0, decimal.Zero)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(outcome.Updated) > 0 {
		s.invalidate(ctx, cache.AgentLedgerKey(agentID))
		logger.L(ctx).Warn("Agent running sums were out of date",
			zap.Int64("agent_id", agentID),
			zap.Int("updated", len(outcome.Updated)),
		)
	}
	s.metrics.RecordRecompute(ctx, triggerFull, len(outcome.Updated))

	return &RecomputeResponse{
		AgentID:  agentID,
		Visited:  outcome.Visited,
		Updated:  len(outcome.Updated),
		FinalSum: outcome.FinalSum,
	}, nil
}

// RecomputeAll runs RecomputeAgent for every agent with transactions, one
// transaction per agent
func (s *TransactionService) RecomputeAll(ctx context.Context) ([]RecomputeResponse, error) {
	var agentIDs []int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		agentIDs, err = repos.Transactions().DistinctAgentIDs(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	results := make([]RecomputeResponse, 0, len(agentIDs))
	for _, agentID := range agentIDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := s.RecomputeAgent(ctx, agentID)
		if err != nil {
			return results, err
		}
		results = append(results, *r)
	}
	return results, nil
}

// ListByAgent returns a page of the agent's ledger in ascending id order
func (s *TransactionService) ListByAgent(ctx context.Context, agentID int64, filter shared.Filter) (shared.Paginated[TransactionResponse], error) {
	var page shared.Paginated[TransactionResponse]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Agents().FindByID(ctx, agentID); err != nil {
			return err
		}
		txs, total, err := repos.Transactions().ListByAgent(ctx, agentID, filter)
		if err != nil {
			return err
		}
		items := make([]TransactionResponse, len(txs))
		for i, tx := range txs {
			items[i] = ToTransactionResponse(tx)
		}
		page = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	return page, err
}

// Balance returns the agent's latest running sum
func (s *TransactionService) Balance(ctx context.Context, agentID int64) (*AgentBalanceResponse, error) {
	var resp AgentBalanceResponse
	if s.cached(ctx, cache.AgentLedgerKey(agentID), &resp) {
		return &resp, nil
	}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		agent, err := repos.Agents().FindByID(ctx, agentID)
		if err != nil {
			return err
		}
		latest, err := repos.Transactions().FindPrevious(ctx, agentID, math.MaxInt64)
		if err != nil {
			return err
		}
		_, total, err := repos.Transactions().ListByAgent(ctx, agentID, shared.Filter{Page: 1, PageSize: 1})
		if err != nil {
			return err
		}
		resp = AgentBalanceResponse{
			AgentID:      agent.ID,
			AgentName:    agent.Name,
			Balance:      ledger.AnchorFor(latest),
			Transactions: total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.AgentLedgerKey(agentID), resp)
	return &resp, nil
}
