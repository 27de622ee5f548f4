// Package report builds financial summaries and exports them as PDF.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/installments/internal/domain/report"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/printing"
	"github.com/erp/installments/internal/infrastructure/storage"
	"github.com/erp/installments/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	pdfContentType = "application/pdf"
	downloadTTL    = time.Hour
)

// Service answers financial report queries
type Service struct {
	summaries report.SummaryRepository
	renderer  printing.PDFRenderer
	storage   storage.ObjectStorage
}

// NewService creates a report service. renderer and store may be nil when
// exports are disabled.
func NewService(summaries report.SummaryRepository, renderer printing.PDFRenderer, store storage.ObjectStorage) *Service {
	return &Service{summaries: summaries, renderer: renderer, storage: store}
}

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || !from.Before(to) {
		return shared.NewDomainError("INVALID_PERIOD", "Report period start must be before its end")
	}
	return nil
}

// Financial summarizes sales and collections dated in [from, to)
func (s *Service) Financial(ctx context.Context, from, to time.Time) (*FinancialResponse, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	summary, err := s.summaries.Summarize(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := ToFinancialResponse(summary)
	return &resp, nil
}

// Export renders the financial summary to PDF in the given language and
// uploads it
func (s *Service) Export(ctx context.Context, from, to time.Time, tag language.Tag) (result *ExportResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export",
		attribute.String("period.from", from.Format(time.DateOnly)),
		attribute.String("period.to", to.Format(time.DateOnly)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if s.renderer == nil || s.storage == nil {
		return nil, shared.NewDomainError("EXPORT_DISABLED", "Report export is not configured")
	}
	resp, err := s.Financial(ctx, from, to)
	if err != nil {
		return nil, err
	}
	html, err := renderFinancialHTML(resp, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to render report template: %w", err)
	}

	rendered, err := s.renderer.Render(ctx, &printing.RenderRequest{HTML: html})
	if err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}

	name := fmt.Sprintf("financial/%s_%s_%d.pdf",
		from.Format("20060102"), to.Format("20060102"), time.Now().UnixNano())
	key, err := s.storage.Upload(ctx, name, rendered.PDFData, pdfContentType)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.DownloadURL(ctx, key, downloadTTL)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Financial report exported",
		zap.String("key", key),
		zap.Int("bytes", len(rendered.PDFData)),
		zap.Int("pages", rendered.PageCount),
	)
	return &ExportResponse{
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
		Bytes:     len(rendered.PDFData),
		Pages:     rendered.PageCount,
	}, nil
}
