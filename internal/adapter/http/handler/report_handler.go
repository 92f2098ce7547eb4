package handler

import (
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves financial summaries and reports.
type ReportHandler struct {
	reportingSvc ports.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingSvc ports.ReportingService) *ReportHandler {
	return &ReportHandler{reportingSvc: reportingSvc}
}

// ProfitLoss handles GET /profit-loss/summary?startDate&endDate.
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	summary, err := h.reportingSvc.ProfitLoss(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// Expenses handles GET /reports/expenses?startDate&endDate.
func (h *ReportHandler) Expenses(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := h.reportingSvc.ExpenseReport(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Sales handles GET /reports/sales?startDate&endDate.
func (h *ReportHandler) Sales(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := h.reportingSvc.SalesReport(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Stock handles GET /reports/stock.
func (h *ReportHandler) Stock(c *gin.Context) {
	report, err := h.reportingSvc.StockReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
