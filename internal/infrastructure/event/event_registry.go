package event

import "github.com/erp/installments/internal/domain/ledger"

// RegisterAllEvents registers every event type written to the outbox so the
// processor can decode them
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(ledger.EventTypeReceiptCreated, &ledger.ReceiptCreatedEvent{})
	serializer.Register(ledger.EventTypeInstallmentPaid, &ledger.InstallmentPaidEvent{})
	serializer.Register(ledger.EventTypeInstallmentReopened, &ledger.InstallmentReopenedEvent{})
	serializer.Register(ledger.EventTypeDebtPaid, &ledger.DebtPaidEvent{})
}
