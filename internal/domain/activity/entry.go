package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Action names of audit lines
const (
	ActionReceiptCreated         = "receipt.created"
	ActionInstallmentPaid        = "installment.payment.created"
	ActionInstallmentPaymentEdit = "installment.payment.updated"
	ActionInstallmentPaymentUndo = "installment.payment.deleted"
	ActionReceiptLumpPayment     = "receipt.payment.created"
	ActionDebtCreated            = "debt.created"
	ActionDebtPaid               = "debt.payment.created"
	ActionDebtPaymentEdit        = "debt.payment.updated"
	ActionDebtPaymentUndo        = "debt.payment.deleted"
	ActionTransactionCreated     = "transaction.created"
	ActionTransactionUpdated     = "transaction.updated"
	ActionTransactionDeleted     = "transaction.deleted"
	ActionPriceChanged           = "product.price.updated"
	ActionPriceReverted          = "product.price.reverted"
)

// Entry is one human-readable audit line
type Entry struct {
	ID           int64
	Actor        string
	Action       string
	SubjectType  string
	SubjectID    int64
	Amount       decimal.Decimal
	Counterparty string
	Description  string
	CreatedAt    time.Time
}

// NewEntry creates an audit line; the description is derived when empty
func NewEntry(actor, action, subjectType string, subjectID int64, amount decimal.Decimal, counterparty string) *Entry {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = "system"
	}
	e := &Entry{
		Actor:        actor,
		Action:       action,
		SubjectType:  subjectType,
		SubjectID:    subjectID,
		Amount:       amount,
		Counterparty: counterparty,
		CreatedAt:    time.Now(),
	}
	e.Description = e.describe()
	return e
}

func (e *Entry) describe() string {
	verb := strings.ReplaceAll(e.Action, ".", " ")
	line := fmt.Sprintf("%s %s #%d", e.Actor, verb, e.SubjectID)
	if !e.Amount.IsZero() {
		line += " amount " + e.Amount.StringFixed(2)
	}
	if e.Counterparty != "" {
		line += " for " + e.Counterparty
	}
	return line
}

// Repository persists audit lines
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	// List returns the newest entries first
	List(ctx context.Context, filter shared.Filter) ([]*Entry, int64, error)
}
