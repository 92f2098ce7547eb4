package handler

import (
	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// VarietyHandler manages the rice variety catalogue.
type VarietyHandler struct {
	varietySvc ports.VarietyService
}

// NewVarietyHandler creates a new VarietyHandler.
func NewVarietyHandler(varietySvc ports.VarietyService) *VarietyHandler {
	return &VarietyHandler{varietySvc: varietySvc}
}

// List handles GET /varieties.
func (h *VarietyHandler) List(c *gin.Context) {
	list, err := h.varietySvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Create handles POST /varieties.
func (h *VarietyHandler) Create(c *gin.Context) {
	var req dto.CreateVarietyRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.varietySvc.Create(c.Request.Context(), ports.CreateVarietyRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, v)
}

// Delete handles DELETE /varieties/:id. The variety is deactivated, not removed.
func (h *VarietyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "Variety")
	if !ok {
		return
	}

	v, err := h.varietySvc.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, v)
}
