package handler

import (
	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProcurementHandler records paddy purchases.
type ProcurementHandler struct {
	procurementSvc ports.ProcurementService
}

// NewProcurementHandler creates a new ProcurementHandler.
func NewProcurementHandler(procurementSvc ports.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurementSvc: procurementSvc}
}

// List handles GET /procurement?startDate&endDate.
func (h *ProcurementHandler) List(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	list, err := h.procurementSvc.List(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Create handles POST /procurement.
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req dto.CreateProcurementRequest
	if !bindJSON(c, &req) {
		return
	}
	purchased, ok := bodyDate(c, "purchase_date", req.PurchaseDate)
	if !ok {
		return
	}

	p, err := h.procurementSvc.Create(c.Request.Context(), ports.CreateProcurementRequest{
		SupplierName: req.SupplierName,
		Variety:      req.Variety,
		Quantity:     req.Quantity,
		Rate:         req.Rate,
		TotalAmount:  req.TotalAmount,
		PaidAmount:   req.PaidAmount,
		PurchaseDate: purchased,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// SalesHandler records rice sales.
type SalesHandler struct {
	salesSvc ports.SalesService
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(salesSvc ports.SalesService) *SalesHandler {
	return &SalesHandler{salesSvc: salesSvc}
}

// List handles GET /sales?startDate&endDate.
func (h *SalesHandler) List(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	list, err := h.salesSvc.List(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Create handles POST /sales.
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	sold, ok := bodyDate(c, "sale_date", req.SaleDate)
	if !ok {
		return
	}

	sale, err := h.salesSvc.Create(c.Request.Context(), ports.CreateSaleRequest{
		CustomerName: req.CustomerName,
		Variety:      req.Variety,
		Grade:        req.Grade,
		Quantity:     req.Quantity,
		Rate:         req.Rate,
		TotalAmount:  req.TotalAmount,
		PaidAmount:   req.PaidAmount,
		SaleDate:     sold,
		InvoiceNo:    req.InvoiceNo,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sale)
}
