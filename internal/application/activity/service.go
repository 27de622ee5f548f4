package activity

import (
	"context"
	"time"

	"github.com/erp/installments/internal/domain/activity"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Recorder writes audit lines after a mutation commits
type Recorder interface {
	Record(ctx context.Context, entry *activity.Entry)
}

// Service records and lists audit lines
type Service struct {
	repo activity.Repository
}

// NewService creates a new activity Service
func NewService(repo activity.Repository) *Service {
	return &Service{repo: repo}
}

// Record stores the entry. A failure is logged and never returned: the
// mutation it describes has already committed.
func (s *Service) Record(ctx context.Context, entry *activity.Entry) {
	if entry == nil {
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.L(ctx).Warn("Failed to write activity log",
			zap.String("action", entry.Action),
			zap.Int64("subject_id", entry.SubjectID),
			zap.Error(err),
		)
	}
}

// List returns the newest audit lines first
func (s *Service) List(ctx context.Context, filter shared.Filter) (shared.Paginated[EntryResponse], error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, err
	}
	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = ToEntryResponse(e)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// EntryResponse is the API view of an audit line
type EntryResponse struct {
	ID           int64           `json:"id"`
	Actor        string          `json:"actor"`
	Action       string          `json:"action"`
	SubjectType  string          `json:"subject_type"`
	SubjectID    int64           `json:"subject_id"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty,omitempty"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToEntryResponse converts an audit line to its API view
func ToEntryResponse(e *activity.Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		Actor:        e.Actor,
		Action:       e.Action,
		SubjectType:  e.SubjectType,
		SubjectID:    e.SubjectID,
		Amount:       e.Amount,
		Counterparty: e.Counterparty,
		Description:  e.Description,
		CreatedAt:    e.CreatedAt,
	}
}

// Discard is a Recorder that drops every entry
type Discard struct{}

// Record does nothing
func (Discard) Record(context.Context, *activity.Entry) {}

var _ Recorder = (*Service)(nil)
