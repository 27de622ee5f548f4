package handler

import (
	"context"
	"time"

	activityapp "github.com/erp/installments/internal/application/activity"
	reportapp "github.com/erp/installments/internal/application/report"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// ReportService is what ReportHandler needs from the report service
type ReportService interface {
	Financial(ctx context.Context, from, to time.Time) (*reportapp.FinancialResponse, error)
	Export(ctx context.Context, from, to time.Time, tag language.Tag) (*reportapp.ExportResponse, error)
}

// ReportHandler handles the financial report endpoints
type ReportHandler struct {
	BaseHandler
	reports ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(base BaseHandler, reports ReportService) *ReportHandler {
	return &ReportHandler{BaseHandler: base, reports: reports}
}

// Financial godoc
// @ID           getFinancialReport
// @Summary      Financial summary for a period
// @Description  Sales and collections dated in [from, to)
// @Tags         reports
// @Produce      json
// @Param        from query string true "Start date (2006-01-02)"
// @Param        to   query string true "End date, exclusive (2006-01-02)"
// @Success      200 {object} APIResponse[reportapp.FinancialResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/financial [get]
func (h *ReportHandler) Financial(c *gin.Context) {
	var req reportapp.FinancialRequest
	if !h.bindQuery(c, &req) {
		return
	}
	resp, err := h.reports.Financial(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Export godoc
// @ID           exportFinancialReport
// @Summary      Render the financial summary to PDF and upload it
// @Description  Labels follow Accept-Language. Returns the object key and a download link.
// @Tags         reports
// @Produce      json
// @Param        from query string true "Start date (2006-01-02)"
// @Param        to   query string true "End date, exclusive (2006-01-02)"
// @Success      200 {object} APIResponse[reportapp.ExportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/financial/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req reportapp.FinancialRequest
	if !h.bindQuery(c, &req) {
		return
	}
	resp, err := h.reports.Export(c.Request.Context(), req.From, req.To, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ActivityService lists audit lines
type ActivityService interface {
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[activityapp.EntryResponse], error)
}

// ActivityHandler serves the activity log
type ActivityHandler struct {
	BaseHandler
	activity ActivityService
}

// NewActivityHandler creates an ActivityHandler
func NewActivityHandler(base BaseHandler, activity ActivityService) *ActivityHandler {
	return &ActivityHandler{BaseHandler: base, activity: activity}
}

// List godoc
// @ID           listActivityLogs
// @Summary      Recent activity log lines
// @Tags         activity
// @Produce      json
// @Param        page      query int    false "Page"
// @Param        page_size query int    false "Page size"
// @Param        order_by  query string false "Sort field"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} APIResponse[[]activityapp.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /activity-logs [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.activity.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
