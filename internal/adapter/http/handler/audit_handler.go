package handler

import (
	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	auditSvc ports.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditSvc ports.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// ListLogs handles GET /audit/logs?module&action&user_name&startDate&endDate.
func (h *AuditHandler) ListLogs(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}

	logs, err := h.auditSvc.List(c.Request.Context(), domain.AuditFilter{
		Module:    c.Query("module"),
		Action:    domain.AuditAction(c.Query("action")),
		UserName:  c.Query("user_name"),
		StartDate: r.Start,
		EndDate:   r.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, logs)
}
