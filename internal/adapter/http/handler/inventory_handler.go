package handler

import (
	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler manages stock lines.
type InventoryHandler struct {
	inventorySvc ports.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventorySvc ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventorySvc: inventorySvc}
}

// List handles GET /inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventorySvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Create handles POST /inventory.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.inventorySvc.Create(c.Request.Context(), ports.CreateInventoryRequest{
		Variety:      req.Variety,
		Grade:        req.Grade,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		MinThreshold: req.MinThreshold,
		Location:     req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Adjust handles POST /inventory/adjust.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		response.Error(c, apperror.ErrNotFound("Inventory item"))
		return
	}

	item, err := h.inventorySvc.Adjust(c.Request.Context(), ports.AdjustInventoryRequest{
		ID:     id,
		Delta:  *req.Delta,
		Reason: req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}
