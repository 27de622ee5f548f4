// Package outbox lets operators inspect and requeue undeliverable events.
package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DeadLetterRepository is the slice of the outbox store the service needs
type DeadLetterRepository interface {
	FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error)
	Requeue(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// EntryResponse is the operator view of one outbox entry. The payload is
// left out; it can hold customer data.
type EntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateType string     `json:"aggregate_type"`
	AggregateID   int64      `json:"aggregate_id"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StatsResponse counts entries per delivery status
type StatsResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// Service manages the dead-letter part of the outbox
type Service struct {
	repo DeadLetterRepository
}

// NewService creates a dead-letter service
func NewService(repo DeadLetterRepository) *Service {
	return &Service{repo: repo}
}

// Stats returns entry counts per status
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	resp := &StatsResponse{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	for _, n := range counts {
		resp.Total += n
	}
	return resp, nil
}

// ListDead pages through dead-lettered entries, newest first
func (s *Service) ListDead(ctx context.Context, filter shared.Filter) (shared.Paginated[EntryResponse], error) {
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	entries, total, err := s.repo.FindDead(ctx, page, size)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, err
	}
	items := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toEntryResponse(e))
	}
	return shared.NewPaginated(items, total, page, size), nil
}

// Requeue hands one dead entry back to the processor
func (s *Service) Requeue(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Requeue(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("Dead outbox entry requeued", zap.String("id", id.String()))
	return nil
}

// RequeueAll requeues every dead entry and returns how many were reset.
// Entries that fail to reset are logged and skipped.
func (s *Service) RequeueAll(ctx context.Context) (int, error) {
	var requeued int
	for {
		// requeued entries leave the dead set, so page 1 always holds the rest
		entries, _, err := s.repo.FindDead(ctx, 1, maxPageSize)
		if err != nil {
			return requeued, err
		}
		if len(entries) == 0 {
			break
		}
		progress := 0
		for _, e := range entries {
			if err := s.repo.Requeue(ctx, e.ID); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return requeued, err
				}
				logger.L(ctx).Warn("Failed to requeue outbox entry",
					zap.String("id", e.ID.String()),
					zap.Error(err),
				)
				continue
			}
			progress++
		}
		requeued += progress
		if progress == 0 || len(entries) < maxPageSize {
			break
		}
	}
	logger.L(ctx).Info("Dead outbox entries requeued", zap.Int("count", requeued))
	return requeued, nil
}

func toEntryResponse(e *shared.OutboxEntry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
