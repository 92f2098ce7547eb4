package handler

import (
	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// AlertHandler lists and resolves alerts.
type AlertHandler struct {
	alertSvc ports.AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertSvc ports.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

// List handles GET /alerts.
func (h *AlertHandler) List(c *gin.Context) {
	alerts, err := h.alertSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alerts)
}

// Resolve handles POST /alerts/:id/resolve.
func (h *AlertHandler) Resolve(c *gin.Context) {
	id, ok := pathID(c, "Alert")
	if !ok {
		return
	}

	alert, err := h.alertSvc.Resolve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AlertResolvedResponse{Message: "Alert resolved", Alert: alert})
}
