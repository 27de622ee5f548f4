// Package reminder notifies customers about overdue installment plans.
package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/erp/installments/internal/domain/ledger"
	"github.com/erp/installments/internal/domain/partner"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/notification"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultBatchSize = 200

// Due is one overdue plan and the customer it belongs to
type Due struct {
	InstallmentID int64           `json:"installment_id"`
	ReceiptID     int64           `json:"receipt_id"`
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Type          string          `json:"installment_type"`
	DueDate       time.Time       `json:"due_date"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// RunResult summarizes one reminder run
type RunResult struct {
	Scanned int `json:"scanned"`
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Options tunes the service
type Options struct {
	BatchSize int
	Language  language.Tag
}

// Service finds overdue plans and sends reminders through every channel
type Service struct {
	installments ledger.InstallmentRepository
	customers    partner.CustomerRepository
	channels     []notification.Channel
	batchSize    int
	lang         language.Tag
}

// NewService creates a reminder service
func NewService(
	installments ledger.InstallmentRepository,
	customers partner.CustomerRepository,
	channels []notification.Channel,
	opts Options,
) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	return &Service{
		installments: installments,
		customers:    customers,
		channels:     channels,
		batchSize:    opts.BatchSize,
		lang:         ledger.MatchDisplayLanguage(opts.Language),
	}
}

// FindDue lists PENDING plans with a balance whose payment cycle ended
// before now
func (s *Service) FindDue(ctx context.Context, now time.Time) ([]Due, int, error) {
	var (
		due     []Due
		scanned int
		plans   []*ledger.Installment
	)
	for page := 1; ; page++ {
		batch, err := s.installments.FindPendingForReminder(ctx, shared.Filter{Page: page, PageSize: s.batchSize})
		if err != nil {
			return nil, scanned, err
		}
		scanned += len(batch)
		for _, inst := range batch {
			if inst.IsOverdue(now) {
				plans = append(plans, inst)
			}
		}
		if len(batch) < s.batchSize {
			break
		}
	}
	if len(plans) == 0 {
		return due, scanned, nil
	}

	ids := make([]int64, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.CustomerID)
	}
	customers, err := s.customers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, scanned, err
	}

	due = make([]Due, 0, len(plans))
	for _, p := range plans {
		d := Due{
			InstallmentID: p.ID,
			ReceiptID:     p.ReceiptID,
			CustomerID:    p.CustomerID,
			Type:          string(p.Type),
			DueDate:       p.NextDueDate(),
			Remaining:     p.Remaining(),
		}
		if c, ok := customers[p.CustomerID]; ok {
			d.CustomerName = c.Name
			d.Phone = c.Phone
			d.Email = c.Email
		}
		due = append(due, d)
	}
	return due, scanned, nil
}

// Run sends one reminder per overdue plan through every channel. A channel
// failure is counted and logged; it does not stop the run.
func (s *Service) Run(ctx context.Context, now time.Time) (result *RunResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reminder", "run",
		attribute.Int("channels", len(s.channels)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	due, scanned, err := s.FindDue(ctx, now)
	if err != nil {
		return nil, err
	}
	result = &RunResult{Scanned: scanned, Due: len(due)}

	for _, d := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		msg := s.compose(d)
		for _, ch := range s.channels {
			sendErr := ch.Send(ctx, msg)
			switch {
			case sendErr == nil:
				result.Sent++
			case errors.Is(sendErr, notification.ErrNoAddress):
				result.Skipped++
			default:
				result.Failed++
				logger.L(ctx).Warn("Failed to send installment reminder",
					zap.String("channel", ch.Name()),
					zap.Int64("installment_id", d.InstallmentID),
					zap.Error(sendErr),
				)
			}
		}
	}

	logger.L(ctx).Info("Installment reminders sent",
		zap.Int("scanned", result.Scanned),
		zap.Int("due", result.Due),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) compose(d Due) notification.Message {
	p := message.NewPrinter(s.lang)
	return notification.Message{
		To:      notification.Recipient{Name: d.CustomerName, Phone: d.Phone, Email: d.Email},
		Subject: p.Sprintf(keySubject),
		Body: p.Sprintf(keyBody,
			d.CustomerName,
			ledger.InstallmentType(d.Type).DisplayName(s.lang),
			d.ReceiptID,
			d.DueDate.Format("2006-01-02"),
			d.Remaining.StringFixed(2),
		),
	}
}
