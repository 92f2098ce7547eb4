package handler

import (
	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment-related endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Record handles POST /payments.
func (h *PaymentHandler) Record(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	refType := domain.RefType(req.RefType)
	if !refType.IsValid() {
		response.Error(c, apperror.ErrInvalidReference(req.RefType))
		return
	}
	refID, err := uuid.Parse(req.RefID)
	if err != nil {
		response.Error(c, apperror.Validation("ref_id must be a UUID"))
		return
	}
	paidOn, ok := bodyDate(c, "payment_date", req.PaymentDate)
	if !ok {
		return
	}

	payment, err := h.paymentSvc.Record(c.Request.Context(), ports.RecordPaymentRequest{
		RefType:     refType,
		RefID:       refID,
		Amount:      req.Amount,
		PaymentMode: req.PaymentMode,
		PaymentDate: paidOn,
		ReferenceNo: req.ReferenceNo,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// Payables handles GET /payments/payables.
func (h *PaymentHandler) Payables(c *gin.Context) {
	report, err := h.paymentSvc.Payables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Receivables handles GET /payments/receivables.
func (h *PaymentHandler) Receivables(c *gin.Context) {
	report, err := h.paymentSvc.Receivables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Summary handles GET /payments/summary?startDate&endDate.
func (h *PaymentHandler) Summary(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	summary, err := h.paymentSvc.Summary(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
