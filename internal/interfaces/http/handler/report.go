package handler

import (
	"time"

	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *accountingapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *accountingapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// TrialBalance handles GET /reports/trial-balance
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	asOf, ok := h.parseDateQuery(c, "as_of")
	if !ok {
		return
	}

	report, err := h.reportService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// BalanceSheet handles GET /reports/balance-sheet
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	asOf, ok := h.parseDateQuery(c, "as_of")
	if !ok {
		return
	}

	report, err := h.reportService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ProfitAndLoss handles GET /reports/profit-loss
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	from, ok := h.parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseDateQuery(c, "to")
	if !ok {
		return
	}
	if to.Before(from) {
		h.BadRequest(c, "Parameter 'to' must not be before 'from'")
		return
	}

	report, err := h.reportService.ProfitAndLoss(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// parseDateQuery reads a required YYYY-MM-DD query parameter. On failure it
// writes a bad request response and returns ok=false.
func (h *ReportHandler) parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		h.BadRequest(c, "Missing required query parameter '"+name+"'")
		return time.Time{}, false
	}
	date, err := time.Parse(reportDateLayout, raw)
	if err != nil {
		h.BadRequest(c, "Invalid date for '"+name+"', expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
