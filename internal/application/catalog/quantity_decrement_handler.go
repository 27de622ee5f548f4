package catalog

import (
	"context"
	"fmt"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/shared"
	"go.uber.org/zap"
)

// QuantityDecrementHandler takes sold quantities out of stock when a receipt
// is created. All lines of one receipt are decremented in a single
// transaction, so a failed delivery is retried as a whole. Wrap it in an
// idempotent handler: redelivery of the same event must not decrement twice.
type QuantityDecrementHandler struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewQuantityDecrementHandler creates a new handler for ReceiptCreated events
func NewQuantityDecrementHandler(scope TransactionScope, logger *zap.Logger) *QuantityDecrementHandler {
	return &QuantityDecrementHandler{
		scope:  scope,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *QuantityDecrementHandler) EventTypes() []string {
	return []string{ledger.EventTypeReceiptCreated}
}

// Handle processes a ReceiptCreatedEvent
func (h *QuantityDecrementHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*ledger.ReceiptCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", ledger.EventTypeReceiptCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ledger.EventTypeReceiptCreated, event.EventType())
	}

	remaining := make(map[int64]int, len(created.Lines))
	err := h.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range created.Lines {
			qty, err := repos.Products().DecrementQuantity(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrement product %d: %w", line.ProductID, err)
			}
			remaining[line.ProductID] = qty
		}
		return nil
	})
	if err != nil {
		return err
	}

	for productID, qty := range remaining {
		// Stock may go negative; the sale already happened.
		if qty < 0 {
			h.logger.Warn("product oversold",
				zap.Int64("receipt_id", created.ReceiptID),
				zap.Int64("product_id", productID),
				zap.Int("quantity", qty),
			)
		}
	}
	h.logger.Debug("stock decremented for receipt",
		zap.Int64("receipt_id", created.ReceiptID),
		zap.Int("lines", len(created.Lines)),
	)
	return nil
}

// Ensure QuantityDecrementHandler implements shared.EventHandler
var _ shared.EventHandler = (*QuantityDecrementHandler)(nil)
